package resource

import "github.com/crmarques/shopctl/faults"

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
