// Package validation holds the per-operation rule sets for the events API.
// Rules are pure functions of the payload plus a tag-existence lookup; the
// result is a field→messages map, empty when the payload is valid.
package validation

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field path to its human-readable error messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// TagLookup reports which of the given tag IDs exist in the store.
type TagLookup func(ctx context.Context, ids []uint) (map[uint]bool, error)

type CreateEventInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"required,max=255"`
	Tags        []uint `json:"tags"`
}

// UpdateEventInput uses pointers so absent fields stay nil and are skipped.
// A non-nil Tags slice (including an empty one) requests a full tag sync.
type UpdateEventInput struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Tags        []uint  `json:"tags"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their json name so error keys match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// dateFormats are the accepted wire representations for the event date.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses an event date from any of the accepted wire formats.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value: %q", value)
}

// ValidateCreate checks the create rule set: title, description, date and
// location required, date today-or-future, every tag ID must exist.
func ValidateCreate(ctx context.Context, in CreateEventInput, tags TagLookup) (Errors, error) {
	errs := Errors{}
	collectShapeErrors(in, errs)

	if in.Date != "" {
		checkDate(in.Date, errs)
	}

	if err := checkTags(ctx, in.Tags, tags, errs); err != nil {
		return nil, err
	}
	return errs, nil
}

// ValidateUpdate checks the update rule set: every field optional, validated
// only when present; a supplied date must be today or in the future.
func ValidateUpdate(ctx context.Context, in UpdateEventInput, tags TagLookup) (Errors, error) {
	errs := Errors{}
	collectShapeErrors(in, errs)

	if in.Date != nil {
		checkDate(*in.Date, errs)
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		errs.Add("description", "The description field is required.")
	}

	if err := checkTags(ctx, in.Tags, tags, errs); err != nil {
		return nil, err
	}
	return errs, nil
}

func collectShapeErrors(in interface{}, errs Errors) {
	err := validate.Struct(in)
	if err == nil {
		return
	}
	for _, fe := range err.(validator.ValidationErrors) {
		errs.Add(fe.Field(), shapeMessage(fe))
	}
}

func shapeMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

func checkDate(value string, errs Errors) {
	date, err := ParseDate(value)
	if err != nil {
		errs.Add("date", "The date field must be a valid date.")
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		errs.Add("date", "The event date must be today or in the future.")
	}
}

func checkTags(ctx context.Context, ids []uint, tags TagLookup, errs Errors) error {
	if len(ids) == 0 {
		return nil
	}

	existing, err := tags(ctx, ids)
	if err != nil {
		return err
	}
	for i, id := range ids {
		if !existing[id] {
			errs.Add(fmt.Sprintf("tags.%d", i), "One or more selected tags are invalid.")
		}
	}
	return nil
}
