package corpus

import "fmt"

// NotFoundError reports a category id or topic slug that does not exist
// in the content store.
type NotFoundError struct {
	Resource string // "category" or "topic"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// InputError reports pagination parameters outside the valid range. It
// carries the true totals so the caller can correct itself without another
// round trip.
type InputError struct {
	Msg            string
	TotalQuestions int
	TotalPages     int
}

func (e *InputError) Error() string {
	return e.Msg
}

// LoadError reports a content document that is missing, unparsable, fails
// schema validation, or carries an unsupported version. It is fatal to the
// request that triggered the load, not to the process.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading content document %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
