// Package validation wraps go-playground/validator with the trip vocabulary
// and converts failures into field-level errors for API responses.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"familytrips/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error is a request validation failure carrying one entry per invalid field
type Error struct {
	Errors []FieldError
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Add appends a field error
func (e *Error) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// OrNil returns e when it holds at least one field error, otherwise nil
func (e *Error) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NewError builds an Error for a single field
func NewError(field, message string) *Error {
	return &Error{Errors: []FieldError{{Field: field, Message: message}}}
}

// Validator returns the shared validator with the custom tags registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			d, ok := v.Interface().(models.Date)
			if !ok || d.IsZero() {
				return nil
			}
			return d.Time
		}, models.Date{})

		mustRegister("travel_type", vocabularyFunc(models.IsTravelType))
		mustRegister("budget", vocabularyFunc(models.IsBudget))
		mustRegister("accommodation_type", vocabularyFunc(models.IsAccommodationType))
		mustRegister("travel_pace", vocabularyFunc(models.IsTravelPace))
		mustRegister("not_future", notFuture)
		mustRegister("cents", cents)
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func vocabularyFunc(member func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return member(fl.Field().String())
	}
}

func notFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !t.After(time.Now())
}

// cents accepts amounts with at most two decimal places
func cents(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Float32 && f.Kind() != reflect.Float64 {
		return false
	}
	formatted := strconv.FormatFloat(f.Float(), 'f', -1, 64)
	if i := strings.IndexByte(formatted, '.'); i >= 0 {
		return len(formatted)-i-1 <= 2
	}
	return true
}

// Struct validates s and returns a *Error listing every invalid field, or nil
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	out := &Error{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fieldPath(fe),
			Message: translateError(fe),
		})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var messages = map[string]string{
	"required":           "is required",
	"required_if":        "is required",
	"url":                "must be a valid URL",
	"not_future":         "must not be in the future",
	"cents":              "must have at most 2 decimal places",
	"travel_type":        "must be one of: " + strings.Join(models.TravelTypes, ", "),
	"budget":             "must be one of: " + strings.Join(models.Budgets, ", "),
	"accommodation_type": "must be one of: " + strings.Join(models.AccommodationTypes, ", "),
	"travel_pace":        "must be one of: " + strings.Join(models.TravelPaces, ", "),
}

func translateError(fe validator.FieldError) string {
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	// "eq=|budget" accepts the empty string or a vocabulary value
	for _, alt := range strings.Split(fe.Tag(), "|") {
		if msg, ok := messages[alt]; ok {
			return msg
		}
	}

	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return "must be at least " + param
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return "must be at most " + param
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
