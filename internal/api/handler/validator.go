package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// enumTags maps custom validation tags to the domain enum they check.
var enumTags = map[string]func(string) bool{
	"role":         func(s string) bool { return domain.Role(s).Valid() },
	"doctype":      func(s string) bool { return domain.DocumentType(s).Valid() },
	"docstatus":    func(s string) bool { return domain.ServiceStatus(s).Valid() },
	"location":     func(s string) bool { return domain.Location(s).Valid() },
	"priority":     func(s string) bool { return domain.Priority(s).Valid() },
	"instrstatus":  func(s string) bool { return domain.InstructionStatus(s).Valid() },
	"office":       func(s string) bool { return domain.Office(s).Valid() },
	"account_type": func(s string) bool { return domain.AccountType(s).Valid() },
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in errors are the JSON names the caller sent.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, valid := range enumTags {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
	}
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures come back as a
// *domain.ValidationError listing every rejected field.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]domain.FieldError, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, domain.FieldError{Field: fieldPath(fe), Message: fieldError(fe)})
			}
			return &domain.ValidationError{Message: "invalid request body", Fields: fields}
		}
		return err
	}
	return nil
}

// fieldPath drops the root struct name: "createDocumentRequest.addressToServe.city"
// becomes "addressToServe.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	if _, ok := enumTags[fe.Tag()]; ok {
		return fmt.Sprintf("unrecognized value %q", fe.Value())
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
