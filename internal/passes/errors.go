package passes

import (
	"errors"
	"fmt"
)

// UnknownPassError reports a pass identity with no registered pass in a tier.
type UnknownPassError struct {
	Identity string
	Tier     Tier
}

func (e *UnknownPassError) Error() string {
	return fmt.Sprintf("unknown compiler pass %q in tier %s", e.Identity, e.Tier)
}

// IsUnknownPassError returns true if err is or wraps an *UnknownPassError.
func IsUnknownPassError(err error) bool {
	var upe *UnknownPassError
	return errors.As(err, &upe)
}

// PassError wraps a failure raised by a pass while the schedule runs.
type PassError struct {
	Pass string
	Tier Tier
	Err  error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("pass %s (%s): %v", e.Pass, e.Tier, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}
