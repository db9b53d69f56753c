package edit

import "fmt"

// ErrInvariant marks a violation of an invariant the Edit Batch/Edit
// Applicator are supposed to guarantee themselves — a batch offset
// outside the buffer, or a delete range running backwards. These
// indicate a bug in the caller or in FromEdits, not bad user input, so
// Apply raises them via panic rather than returning an error.
var ErrInvariant = fmt.Errorf("edit: invariant violated")

func invariantf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
