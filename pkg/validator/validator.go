package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

var messages = map[string]string{
	"required":  "is required",
	"email":     "must be a valid email",
	"min":       "is too small",
	"max":       "is too large",
	"oneof":     "has an unsupported value",
	"bloodtype": "must be one of A+, A-, B+, B-, AB+, AB-, O+, O-",
	"datetime":  "must be a date in YYYY-MM-DD format",
}

// bloodType accepts the eight ABO/Rh types in their canonical spelling.
func bloodType(fl validator.FieldLevel) bool {
	return model.BloodType(fl.Field().String()).IsValid()
}

// Register installs the custom rules and json field names on v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("bloodtype", bloodType); err != nil {
		return fmt.Errorf("register bloodtype rule: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return nil
}

// RegisterWithGin installs the rules on gin's binding engine.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// New returns a standalone validator with the same rules, using the
// binding tag gin reads.
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	_ = Register(v)
	return v
}

// Describe turns validation failures into one readable sentence.
func Describe(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid request body"
	}

	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg, ok := messages[e.Tag()]
		if !ok {
			msg = "is invalid"
		}
		parts = append(parts, fmt.Sprintf("%s %s", e.Field(), msg))
	}
	return strings.Join(parts, "; ")
}
