package commitment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	msgRequired      = "Required"
	msgInvalidUUID   = "Invalid uuid"
	msgInvalidDate   = "Invalid date format, should be ISO 8601"
	msgCurrencyLen   = "Currency should be a 3-letter ISO code"
	msgInvalidAmount = "Invalid decimal amount"
)

// ISO 8601 shapes accepted for paymentTimestamp, most specific first. Fractional
// seconds are optional in every layout that has seconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// payload mirrors the request body. Pointers distinguish a missing field from an empty string.
type payload struct {
	PaymentID        *string `json:"paymentId" validate:"required,uuid_string"`
	UserID           *string `json:"userId" validate:"required,uuid_string"`
	PaymentTimestamp *string `json:"paymentTimestamp" validate:"required,iso8601"`
	Description      *string `json:"description" validate:"required"`
	Currency         *string `json:"currency" validate:"required,len=3"`
	Amount           *string `json:"amount" validate:"required,decimal_amount"`
}

var fieldOrder = []string{"paymentId", "userId", "paymentTimestamp", "description", "currency", "amount"}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	mustRegister(v, "uuid_string", func(fl validator.FieldLevel) bool {
		return IsUUID(fl.Field().String())
	})
	mustRegister(v, "iso8601", func(fl validator.FieldLevel) bool {
		_, ok := ParseTimestamp(fl.Field().String())
		return ok
	})
	mustRegister(v, "decimal_amount", func(fl validator.FieldLevel) bool {
		_, err := ParseAmount(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// IsUUID accepts only the canonical 8-4-4-4-12 hex form.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ParseTimestamp reports whether s is an ISO 8601 date or date-time. The "T"
// separator and the "Z" designator may be lowercase.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.ToUpper(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Parse decodes a request body and validates it. An empty body is treated as
// an empty object, so it fails with one violation per required field.
func Parse(body []byte) (Record, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Validate(map[string]any{})
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		if err == nil {
			err = errs.New("body is JSON null")
		}
		return Record{}, MalformedBody(err)
	}
	return Validate(fields)
}

// MalformedBody reports a body that could not be decoded into a JSON object.
func MalformedBody(cause error) error {
	return errs.WithStack(&ValidationError{
		Violations: []Violation{{Message: ErrMalformedBody.Error()}},
		cause:      errs.Mark(cause, ErrMalformedBody),
	})
}

// Validate checks already-decoded fields. All violations are reported together.
func Validate(fields map[string]any) (Record, error) {
	var p payload
	found := make(map[string]string)

	targets := map[string]**string{
		"paymentId":        &p.PaymentID,
		"userId":           &p.UserID,
		"paymentTimestamp": &p.PaymentTimestamp,
		"description":      &p.Description,
		"currency":         &p.Currency,
		"amount":           &p.Amount,
	}
	for name, target := range targets {
		raw, ok := fields[name]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			found[name] = "Expected string, received " + jsonType(raw)
			continue
		}
		*target = &s
	}

	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errs.As(err, &fieldErrs) {
			return Record{}, errs.Wrap(err, "validate commitment")
		}
		for _, fe := range fieldErrs {
			if _, ok := found[fe.Field()]; ok {
				continue
			}
			found[fe.Field()] = violationMessage(fe)
		}
	}

	if len(found) > 0 {
		violations := make([]Violation, 0, len(found))
		for _, name := range fieldOrder {
			if msg, ok := found[name]; ok {
				violations = append(violations, Violation{Field: name, Message: msg})
			}
		}
		return Record{}, errs.WithStack(&ValidationError{Violations: violations})
	}

	return Record{
		PaymentID:        *p.PaymentID,
		UserID:           *p.UserID,
		PaymentTimestamp: *p.PaymentTimestamp,
		Description:      *p.Description,
		Currency:         *p.Currency,
		Amount:           *p.Amount,
	}, nil
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "uuid_string":
		return msgInvalidUUID
	case "iso8601":
		return msgInvalidDate
	case "len":
		return msgCurrencyLen
	case "decimal_amount":
		return msgInvalidAmount
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
