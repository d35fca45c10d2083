package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate     *validator.Validate
	validateOnce sync.Once
)

// ErrNilValue is returned when Struct is handed a nil pointer.
var ErrNilValue = errors.New("value cannot be nil")

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct validates v against its `validate` struct tags and reports the first
// failure as "<namespace>: <reason>".
func Struct(v any) error {
	if v == nil {
		return ErrNilValue
	}
	if err := instance().Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return ErrNilValue
		}
		return err
	}

	for _, e := range validationErrs {
		field := trimRoot(e.Namespace())
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be >= %s, got %v", field, param, e.Value())
		case "lte":
			return fmt.Errorf("%s: must be <= %s, got %v", field, param, e.Value())
		case "gt":
			return fmt.Errorf("%s: must be > %s, got %v", field, param, e.Value())
		case "oneof":
			return fmt.Errorf("%s: %q must be one of [%s]", field, e.Value(), param)
		case "hexcolor":
			return fmt.Errorf("%s: %q is not a hex color", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

// trimRoot drops the top-level struct name so messages read
// "Clusters[2].Wallets: ..." rather than "ClusterModel.Clusters[2].Wallets: ...".
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
