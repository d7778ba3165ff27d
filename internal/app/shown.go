package app

// ShownError marks an error whose alert was already presented to the user.
type ShownError struct {
	Err error
}

func (e *ShownError) Error() string { return e.Err.Error() }

func (e *ShownError) Unwrap() error { return e.Err }

// Shown wraps err so the top-level reporter only sets the exit code.
func Shown(err error) error {
	if err == nil {
		return nil
	}
	return &ShownError{Err: err}
}
