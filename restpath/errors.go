package restpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crmarques/shopctl/faults"
)

// ResolutionError reports that no declared route of a resource serves the
// requested operation with the parameters at hand.
type ResolutionError struct {
	Resource  string
	Operation Operation
	Available []string
	err       error
}

func NewResolutionError(resourceName string, operation Operation, available []string) error {
	resolutionErr := &ResolutionError{
		Resource:  resourceName,
		Operation: operation,
		Available: append([]string(nil), available...),
	}
	resolutionErr.err = faults.NewTypedError(faults.ValidationError, resolutionErr.message(), nil)
	return resolutionErr
}

func (e *ResolutionError) message() string {
	return fmt.Sprintf(
		"no path for %s %s with params [%s]",
		e.Resource,
		e.Operation,
		strings.Join(e.Available, ", "),
	)
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.message()
}

func (e *ResolutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func IsResolutionError(err error) bool {
	var target *ResolutionError
	return errors.As(err, &target)
}
