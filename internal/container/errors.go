package container

import "fmt"

// UnknownServiceError reports a service id with no definition.
type UnknownServiceError struct {
	ID           string
	ReferencedBy string // service holding the dangling reference, if any
}

func (e *UnknownServiceError) Error() string {
	if e.ReferencedBy != "" {
		return fmt.Sprintf("service %q references unknown service %q", e.ReferencedBy, e.ID)
	}
	return fmt.Sprintf("unknown service %q", e.ID)
}
