package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Report violations under the json field name, not the Go one.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Monetary amounts carry at most two fractional digits. Judged on
	// the shortest decimal form of the value, so large amounts are not
	// misjudged by float representation error.
	Validate.RegisterValidation("twodecimals", func(fl validator.FieldLevel) bool {
		s := strconv.FormatFloat(fl.Field().Float(), 'f', -1, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 {
			return len(s)-i-1 <= 2
		}
		return true
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(data)
}

// validationMessages flattens a validator error into one human-readable
// message per violated rule, so the caller sees every problem at once.
func validationMessages(err error) []string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, violationMessage(fe))
	}
	return msgs
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be positive.", fe.Field())
	case "twodecimals":
		return fmt.Sprintf("%s must have at most 2 decimal places.", fe.Field())
	case "len":
		return fmt.Sprintf("%s must be %s characters long.", fe.Field(), fe.Param())
	case "uppercase":
		return fmt.Sprintf("%s must be uppercase.", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
