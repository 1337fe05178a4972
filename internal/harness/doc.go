// Package harness provides conformance testing for view search.
//
// A scenario carries a small catalog inline, a list of queries and the
// views each query must return. Every query is evaluated on every backend,
// and the backends must agree with each other as well as with the
// expectation.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	column_match: element        # optional, "element" or "joined"
//	backends: [memory, sqlite]   # optional, default both
//	catalog:
//	  dependencies: |
//	    vOrders|Orders|OrderId,CustomerId
//	  columns: |
//	    vOrders|OrderId,CustomerName
//	  code: "vOrders^^^CREATE VIEW vOrders AS ..."
//	cases:
//	  - query: "Orders.OrderId"
//	    expect: [vOrders]          # exact, ordered
//	  - query: ">name"
//	    contains: [vOrders]        # subset checks
//	    excludes: [vOther]
//	    count: 1
//
// # Golden Files
//
// RunWithGolden compares the matched views of every case against
// testdata/golden/{scenario.Name}.golden. To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/travel.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
