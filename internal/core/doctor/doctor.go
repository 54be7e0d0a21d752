// Package doctor runs health checks over an aula setup: the configuration,
// the site, the notification history and the downloads directory.
package doctor

import "context"

// Status represents the result status of a check item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem represents a single line item within a check result.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

// Result represents the outcome of a check containing multiple items.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check defines the interface for a doctor check.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Fixer is implemented by checks that can repair what they report.
type Fixer interface {
	Fix(ctx context.Context) error
}

// RunAll executes all checks and returns their results. With autofix set,
// checks reporting fixable issues are fixed and run again.
func RunAll(ctx context.Context, checks []Check, autofix bool) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		result := check.Run(ctx)
		if fixer, ok := check.(Fixer); ok && autofix && CountFixable([]Result{result}) > 0 {
			if err := fixer.Fix(ctx); err != nil {
				result.Items = append(result.Items, CheckItem{
					Label:  "autofix",
					Status: StatusFail,
					Detail: err.Error(),
				})
			} else {
				result = check.Run(ctx)
			}
		}
		results = append(results, result)
	}
	return results
}

// Summary returns counts of passed, warned, and failed items across all results.
func Summary(results []Result) (passed, warned, failed int) {
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				passed++
			case StatusWarn:
				warned++
			case StatusFail:
				failed++
			}
		}
	}

	return passed, warned, failed
}

// CountFixable returns the number of fixable issues across all results.
func CountFixable(results []Result) int {
	count := 0
	for _, r := range results {
		for _, item := range r.Items {
			if item.Fixable && item.Status != StatusPass {
				count++
			}
		}
	}
	return count
}
