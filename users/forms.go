package users

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// LoginForm holds the credentials entered on the login screen.
type LoginForm struct {
	Username string `json:"username" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterForm holds a new account request.
type RegisterForm struct {
	Username        string `json:"username" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// ActivationForm holds the emailed activation code for a registered username.
type ActivationForm struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required,min=1"`
}

type ModifyUsernameForm struct {
	NewUsername string `json:"new_username" validate:"required,min=2"`
	Password    string `json:"password" validate:"required,min=6"`
}

type ModifyPasswordForm struct {
	CurrentPassword string `json:"current_password" validate:"required,min=6"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// BroadcastForm is an email sent by an admin to every registered user.
type BroadcastForm struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required"`
}

var ErrInvalidForm = errors.New("invalid form")

var (
	formValidator     *validator.Validate
	formValidatorOnce sync.Once
)

func validate() *validator.Validate {
	formValidatorOnce.Do(func() {
		formValidator = validator.New(validator.WithRequiredStructEnabled())
		formValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
	})
	return formValidator
}

// Validate checks a form against its rules and joins every failure into one
// readable error wrapping ErrInvalidForm.
func Validate(form any) error {
	err := validate().Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return errors.Wrap(ErrInvalidForm, strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "eqfield":
		return field + " does not match"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
