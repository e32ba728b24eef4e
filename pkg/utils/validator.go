package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern   = regexp.MustCompile(`^[A-Za-z_]*$`)
	personNamePattern = regexp.MustCompile(`^[A-Za-z]*$`)
	specialChars      = "@$!%*?&#"
)

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return UsernameProblem(fl.Field().String()) == ""
	})
	v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})
	v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		birth, ok := fl.Field().Interface().(time.Time)
		return ok && BirthDateProblem(birth, time.Now()) == ""
	})

	return v
}

// ValidateStruct returns field -> message, or nil when data is valid
func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getErrorMessage(err)
		}
	} else {
		errors["_"] = err.Error()
	}

	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Minimum length is %s", err.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s", err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Maximum length is %s", err.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s", err.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", err.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "username":
		return UsernameProblem(fmt.Sprint(err.Value()))
	case "personname":
		return fmt.Sprintf("%v contains non-english letters", err.Value())
	case "password":
		return PasswordProblem(fmt.Sprint(err.Value()))
	case "adult":
		if birth, ok := err.Value().(time.Time); ok {
			return BirthDateProblem(birth, time.Now())
		}
		return "Invalid date"
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// FormatValidationErrors joins field errors into one line, sorted by field
func FormatValidationErrors(errors map[string]string) string {
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, errors[field]))
	}
	return strings.Join(msgs, "; ")
}

// UsernameProblem returns "" for a valid username
func UsernameProblem(username string) string {
	if !usernamePattern.MatchString(username) {
		return fmt.Sprintf("%s contains non-english letters or characters other than underscore", username)
	}
	if strings.HasPrefix(username, "_") || strings.HasSuffix(username, "_") {
		return fmt.Sprintf("%s cannot start or end with an underscore", username)
	}
	return ""
}

// PasswordProblem returns "" for a strong enough password
func PasswordProblem(password string) string {
	if len(password) < 8 {
		return "Password must contain at least 8 characters."
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Sprintf("Password must be at most %d bytes.", MaxPasswordBytes)
	}
	if !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return "Password must contain at least one uppercase letter."
	}
	if !strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz") {
		return "Password must contain at least one lower letter."
	}
	if !strings.ContainsAny(password, "0123456789") {
		return "Password must contain at least one digit."
	}
	if !strings.ContainsAny(password, specialChars) {
		return "Password must contain at least one special character: @, $, !, %, *, ?, #, &."
	}
	return ""
}

// BirthDateProblem returns "" when birth is in or after 1900 and the person is 18 or older at now.
// Age counts whole 365-day years.
func BirthDateProblem(birth, now time.Time) string {
	if birth.Year() < 1900 {
		return "Invalid birth date - year must be greater than 1900."
	}
	days := int(now.Sub(birth).Hours() / 24)
	if days/365 < 18 {
		return "You must be at least 18 years old to register."
	}
	return ""
}
