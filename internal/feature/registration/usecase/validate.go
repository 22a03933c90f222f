package usecase

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minNameLength     = 2
	maxNameLength     = 100
	minPasswordLength = 6
	maxPasswordLength = 255
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// registrationRules mirrors RegistrationInput with the rules each field must satisfy.
// The validator stops at the first failing tag of a field, so every field yields at most one message.
type registrationRules struct {
	Username string `validate:"required,min=3,max=50,username_chars"`
	Name     string `validate:"required,min=2,max=100"`
	Gender   string `validate:"required,oneof=male female other"`
	Password string `validate:"required,min=6,max=255"`
}

// fieldLabels maps struct fields to the wording used in messages.
var fieldLabels = map[string]string{
	"Username": "Username",
	"Name":     "Full name",
	"Gender":   "Gender",
	"Password": "Password",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register username_chars validation: %v", err))
	}
	return v
}

// Validate checks a sanitized input and returns one message per violating field,
// in the order username, name, gender, password. An empty result means the input is valid.
func Validate(in RegistrationInput) []string {
	err := validate.Struct(registrationRules{
		Username: in.Username,
		Name:     in.Name,
		Gender:   in.Gender,
		Password: in.Password,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, messageFor(fe))
	}
	return msgs
}

func messageFor(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", label, fe.Param())
	case "username_chars":
		return "Username can only contain letters, numbers, and underscores"
	case "oneof":
		return "Invalid " + lowerFirst(label) + " value"
	default:
		return label + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
