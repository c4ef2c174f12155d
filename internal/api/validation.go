package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pbaille/mindmate/internal/domain"
)

var validate = validator.New()

// validateStruct checks v's validate tags and returns an ErrInvalidInput
// carrying a readable message
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &inputError{msg: strings.Join(msgs, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Action" && fe.Tag() == "oneof":
		return "Invalid action. Use 'all', 'single', or 'range'"
	case fe.Field() == "Index" && fe.Tag() == "required_if":
		return "Index required for single deletion"
	case fe.Tag() == "required" || fe.Tag() == "required_if":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case fe.Tag() == "oneof":
		return fmt.Sprintf("%s must be one of: %s", strings.ToLower(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
}

// inputError is an ErrInvalidInput whose text is shown to clients as is
type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Unwrap() error { return domain.ErrInvalidInput }
