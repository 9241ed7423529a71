package normalize

import "fmt"

// ProgressError is raised when the normalizer driver completes a full
// iteration without decreasing the back-edge count, or exceeds the
// bounded retry count of spec.md §9's third open question (spec.md §7,
// progress-failure).
type ProgressError struct {
	Kind    string
	Message string
}

func (e ProgressError) Error() string {
	return fmt.Sprintf("progress error (%v): %v", e.Kind, e.Message)
}
