package utils

import (
	"encoding/json"
	stdErrors "errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 10 << 10

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// NewValidator returns a validator that reports json field names and knows
// the "slug" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return v
}

func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stdErrors.As(err, &maxErr) {
			slog.Warn("Request body too large", slog.String("endpoint", r.URL.Path))
			return errors.BadRequestError("Request body too large").WithDetail("limitBytes", maxErr.Limit)
		}

		slog.Error("Failed to read request body",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)
		return errors.BadRequestError("Failed to read request body").WithError(err)
	}

	if len(body) == 0 {
		slog.Warn("Empty request body", slog.String("endpoint", r.URL.Path))
		return errors.BadRequestError("Request body cannot be empty")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		slog.Warn("Failed to parse request JSON",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)
		return errors.BadRequestError("Invalid JSON format").WithError(err)
	}

	return nil
}

func ValidateStruct(validate *validator.Validate, data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if stdErrors.As(err, &validationErrs) {
		slog.Warn("Input validation failed", slog.String("error", validationErrs.Error()))
		return validationErrs
	}

	slog.Error("Unexpected validation error", slog.String("error", err.Error()))
	return errors.InternalError("Unexpected validation error").WithError(err)
}
