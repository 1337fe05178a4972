package catalog

import "fmt"

// Issue codes reported by Check.
const (
	IssueDuplicateOutputColumns = "W001" // later output-columns rows for a view are ignored
	IssueDuplicateCode          = "W002" // later code entries for a view are ignored
	IssueOrphanOutputColumns    = "W003" // output columns for a view with no dependency rows
	IssueOrphanCode             = "W004" // code for a view with no dependency rows
	IssueEmptyView              = "W005" // dependency row without a view name
	IssueEmptyTable             = "W006" // dependency row without a table name
	IssueDuplicateDependency    = "W007" // same (view, table) pair listed twice
)

// Issue is a suspicious but loadable catalog entry.
type Issue struct {
	Code     string `json:"code"`
	Relation string `json:"relation"`
	View     string `json:"view"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Code, i.Relation, i.Message)
}

// Check reports entries of snap that load fine but cannot behave the way
// their author probably expected. Issues are ordered by relation, then
// source order.
func Check(snap *Snapshot) []Issue {
	issues := []Issue{}

	type pair struct{ view, table string }
	seenPair := make(map[pair]bool)
	for i, row := range snap.deps {
		if row.ViewName == "" {
			issues = append(issues, Issue{
				Code:     IssueEmptyView,
				Relation: RelationDependencies,
				Message:  fmt.Sprintf("row %d has no view name", i+1),
			})
		}
		if row.ReferencedTable == "" {
			issues = append(issues, Issue{
				Code:     IssueEmptyTable,
				Relation: RelationDependencies,
				View:     row.ViewName,
				Message:  fmt.Sprintf("row %d (%s) has no table name", i+1, row.ViewName),
			})
		}
		p := pair{row.ViewName, row.ReferencedTable}
		if seenPair[p] {
			issues = append(issues, Issue{
				Code:     IssueDuplicateDependency,
				Relation: RelationDependencies,
				View:     row.ViewName,
				Message:  fmt.Sprintf("row %d repeats %s -> %s", i+1, row.ViewName, row.ReferencedTable),
			})
		}
		seenPair[p] = true
	}

	seenOutput := make(map[string]bool)
	for i, row := range snap.outputs {
		if seenOutput[row.ViewName] {
			issues = append(issues, Issue{
				Code:     IssueDuplicateOutputColumns,
				Relation: RelationColumns,
				View:     row.ViewName,
				Message:  fmt.Sprintf("row %d repeats %s; the first row is used", i+1, row.ViewName),
			})
		}
		seenOutput[row.ViewName] = true
		if _, ok := snap.depsByView[row.ViewName]; !ok {
			issues = append(issues, Issue{
				Code:     IssueOrphanOutputColumns,
				Relation: RelationColumns,
				View:     row.ViewName,
				Message:  fmt.Sprintf("%s has output columns but no dependencies and can never match", row.ViewName),
			})
		}
	}

	seenCode := make(map[string]bool)
	for i, entry := range snap.code {
		if seenCode[entry.ViewName] {
			issues = append(issues, Issue{
				Code:     IssueDuplicateCode,
				Relation: RelationCode,
				View:     entry.ViewName,
				Message:  fmt.Sprintf("entry %d repeats %s; the first entry is used", i+1, entry.ViewName),
			})
		}
		seenCode[entry.ViewName] = true
		if _, ok := snap.depsByView[entry.ViewName]; !ok {
			issues = append(issues, Issue{
				Code:     IssueOrphanCode,
				Relation: RelationCode,
				View:     entry.ViewName,
				Message:  fmt.Sprintf("%s has code but no dependencies and can never match", entry.ViewName),
			})
		}
	}

	return issues
}
