package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationError maps a JSON field name to what is wrong with it.
// It is rendered as is, so clients can show the first entry.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator that reports fields by their JSON name.
func NewValidator() echo.Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("futureorpresent", futureOrPresent)
	return &echoValidator{v: v}
}

// clockSkew is how far in the past a timestamp may be and still count as present.
const clockSkew = time.Minute

var now = time.Now

func futureOrPresent(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !t.Before(now().Add(-clockSkew))
}

func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(ValidationError, len(ve))
			for _, fe := range ve {
				if _, seen := out[fe.Field()]; !seen {
					out[fe.Field()] = fieldError(fe)
				}
			}
			return out
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.String {
			return "must not be blank"
		}
		return "must not be null"
	case "email":
		return "must be a well-formed email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("size must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("size must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("size must be %s", fe.Param())
	case "numeric":
		return "must contain digits only"
	case "futureorpresent":
		return "Booking date and time must be in the present or future"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}

// bindAndValidate decodes the JSON body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}
