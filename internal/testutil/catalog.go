package testutil

import "github.com/roach88/viewdeps/internal/catalog"

// Dep builds a dependency row.
func Dep(view, table string, columns ...string) catalog.DependencyRow {
	if columns == nil {
		columns = []string{}
	}
	return catalog.DependencyRow{ViewName: view, ReferencedTable: table, ReferencedColumns: columns}
}

// Output builds an output-columns row.
func Output(view, text string) catalog.OutputColumnsRow {
	return catalog.OutputColumnsRow{ViewName: view, OutputColumns: text}
}

// Code builds a code entry.
func Code(view, source string) catalog.CodeEntry {
	return catalog.CodeEntry{ViewName: view, SourceText: source}
}

// TravelCatalog returns a small booking catalog used across package tests.
//
//	vBookingSummary   Booking(BookingId,CustomerId,Total)  Customer(CustomerId,Name)
//	vItinerary        Itinerary(ItineraryId,Name)          Booking(BookingId)
//	vCustomers        Customer(CustomerId,Name,Email)
//	vSuppliers        Supplier()                           (no output columns, no code)
func TravelCatalog() *catalog.Snapshot {
	return catalog.NewSnapshot(TravelDependencies(), TravelOutputs(), TravelCode())
}

// TravelDependencies returns the dependency relation of TravelCatalog.
func TravelDependencies() []catalog.DependencyRow {
	return []catalog.DependencyRow{
		Dep("vBookingSummary", "Booking", "BookingId", "CustomerId", "Total"),
		Dep("vBookingSummary", "Customer", "CustomerId", "Name"),
		Dep("vItinerary", "Itinerary", "ItineraryId", "Name"),
		Dep("vItinerary", "Booking", "BookingId"),
		Dep("vCustomers", "Customer", "CustomerId", "Name", "Email"),
		Dep("vSuppliers", "Supplier"),
	}
}

// TravelOutputs returns the output-columns relation of TravelCatalog.
func TravelOutputs() []catalog.OutputColumnsRow {
	return []catalog.OutputColumnsRow{
		Output("vBookingSummary", "BookingId,CustomerName,Total"),
		Output("vItinerary", "ItineraryId,ItineraryName,BookingId"),
		Output("vCustomers", "CustomerId,Name,Email"),
	}
}

// TravelCode returns the code relation of TravelCatalog.
func TravelCode() []catalog.CodeEntry {
	return []catalog.CodeEntry{
		Code("vBookingSummary", "CREATE VIEW vBookingSummary AS SELECT b.BookingId, c.Name AS CustomerName, b.Total FROM Booking b JOIN Customer c ON c.CustomerId = b.CustomerId"),
		Code("vItinerary", "CREATE VIEW vItinerary AS SELECT i.ItineraryId, i.Name AS ItineraryName, b.BookingId FROM Itinerary i JOIN Booking b ON b.BookingId = i.BookingId"),
		Code("vCustomers", "CREATE VIEW vCustomers AS SELECT CustomerId, Name, Email FROM Customer"),
	}
}
