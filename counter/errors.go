package counter

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrResolution is matched by every error reporting an identifier that did
// not resolve to a live element.
var ErrResolution = errors.New("element did not resolve")

// ResolutionError reports the identifier that failed to resolve at install
// time and which role it was meant to fill.
type ResolutionError struct {
	Role string
	ID   string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s element %q did not resolve", e.Role, e.ID)
}

// Unwrap returns ErrResolution so errors.Is matches any ResolutionError.
func (e *ResolutionError) Unwrap() error {
	return ErrResolution
}
