package cli

import "errors"

// ErrUsage marks errors the user can fix by changing flags, config or input.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg   string
	cause error
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

// wrapUsageError keeps the underlying error reachable through errors.As.
func wrapUsageError(msg string, cause error) error {
	return usageError{msg: msg, cause: cause}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

func (e usageError) Unwrap() error { return e.cause }
