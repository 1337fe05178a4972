package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success: every case met its
	// expectations on every backend and all backends agreed.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Query string `json:"query"`

	// Views is the matched view list of the first backend.
	Views []string `json:"views"`

	// ByBackend holds each backend's matched views.
	ByBackend map[string][]string `json:"by_backend"`

	Pass bool `json:"pass"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
