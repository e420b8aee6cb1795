package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &echoValidator{v: v}
}

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields []FieldError
}

// FieldError is one failed rule on one field, named by its JSON key.
type FieldError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.message())
	}
	return strings.Join(msgs, "; ")
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := &ValidationError{Fields: make([]FieldError, 0, len(ve))}
			for _, fe := range ve {
				out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
			}
			return out
		}
		return err
	}
	return nil
}

func (e *ValidationError) has(tag string) bool {
	for _, f := range e.Fields {
		if f.Tag == tag {
			return true
		}
	}
	return false
}

func (f FieldError) message() string {
	switch f.Tag {
	case "required":
		return f.Field + " is required"
	case "email":
		return f.Field + " must be a valid email"
	case "max":
		return f.Field + " is too long"
	default:
		return fmt.Sprintf("%s failed validation (%s)", f.Field, f.Tag)
	}
}

// bindAndValidate decodes the request into req and validates it. A missing
// required field returns onInvalid so each endpoint can answer with its own
// error code; any other failure is an invalid payload.
func bindAndValidate(c echo.Context, req any, onInvalid error) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}
	if err := c.Validate(req); err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		if ve.has("required") {
			return fmt.Errorf("%w: %s", onInvalid, ve.Error())
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidPayload, ve.Error())
	}
	return nil
}
