package validators

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9@.+\-_]+$`)

// RequestValidator adapts go-playground/validator to echo's Validator interface.
type RequestValidator struct {
	validate *validator.Validate
}

// NewValidator creates the validator used by the echo instance.
func NewValidator() *RequestValidator {
	v := validator.New()
	// Usernames allow letters, digits and @ . + - _ only.
	_ = v.RegisterValidation("username_charset", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
