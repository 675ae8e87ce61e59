package validation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func allTagsExist(ctx context.Context, ids []uint) (map[uint]bool, error) {
	existing := map[uint]bool{}
	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

func onlyTagsExist(known ...uint) TagLookup {
	return func(ctx context.Context, ids []uint) (map[uint]bool, error) {
		existing := map[uint]bool{}
		for _, id := range known {
			existing[id] = true
		}
		return existing, nil
	}
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func TestValidateCreate_Valid(t *testing.T) {
	in := CreateEventInput{
		Title:       "Team offsite",
		Description: "Two days of planning",
		Date:        tomorrow(),
		Location:    "Lisbon",
		Tags:        []uint{1, 2},
	}

	errs, err := ValidateCreate(context.Background(), in, allTagsExist)

	assert.NoError(t, err)
	assert.False(t, errs.Any())
}

func TestValidateCreate_MissingFields(t *testing.T) {
	errs, err := ValidateCreate(context.Background(), CreateEventInput{}, allTagsExist)

	assert.NoError(t, err)
	assert.Contains(t, errs["title"], "The title field is required.")
	assert.Contains(t, errs["description"], "The description field is required.")
	assert.Contains(t, errs["date"], "The date field is required.")
	assert.Contains(t, errs["location"], "The location field is required.")
}

func TestValidateCreate_TitleTooLong(t *testing.T) {
	in := CreateEventInput{
		Title:       strings.Repeat("x", 256),
		Description: "d",
		Date:        tomorrow(),
		Location:    "L",
	}

	errs, err := ValidateCreate(context.Background(), in, allTagsExist)

	assert.NoError(t, err)
	assert.Len(t, errs["title"], 1)
	assert.Contains(t, errs["title"][0], "must not be greater than 255")
}

func TestValidateCreate_PastDateRejected(t *testing.T) {
	in := CreateEventInput{
		Title:       "T",
		Description: "D",
		Date:        time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		Location:    "L",
	}

	errs, err := ValidateCreate(context.Background(), in, allTagsExist)

	assert.NoError(t, err)
	assert.Contains(t, errs["date"], "The event date must be today or in the future.")
}

func TestValidateCreate_TodayAccepted(t *testing.T) {
	in := CreateEventInput{
		Title:       "T",
		Description: "D",
		Date:        time.Now().Format("2006-01-02"),
		Location:    "L",
	}

	errs, err := ValidateCreate(context.Background(), in, allTagsExist)

	assert.NoError(t, err)
	assert.Empty(t, errs["date"])
}

func TestValidateCreate_MalformedDate(t *testing.T) {
	in := CreateEventInput{
		Title:       "T",
		Description: "D",
		Date:        "not-a-date",
		Location:    "L",
	}

	errs, err := ValidateCreate(context.Background(), in, allTagsExist)

	assert.NoError(t, err)
	assert.Contains(t, errs["date"], "The date field must be a valid date.")
}

func TestValidateCreate_UnknownTagsReportedPerIndex(t *testing.T) {
	in := CreateEventInput{
		Title:       "T",
		Description: "D",
		Date:        tomorrow(),
		Location:    "L",
		Tags:        []uint{1, 99, 2, 98},
	}

	errs, err := ValidateCreate(context.Background(), in, onlyTagsExist(1, 2))

	assert.NoError(t, err)
	assert.True(t, errs.Any())
	assert.Contains(t, errs["tags.1"], "One or more selected tags are invalid.")
	assert.Contains(t, errs["tags.3"], "One or more selected tags are invalid.")
	assert.Empty(t, errs["tags.0"])
	assert.Empty(t, errs["tags.2"])
}

func TestValidateUpdate_AbsentFieldsAreSkipped(t *testing.T) {
	errs, err := ValidateUpdate(context.Background(), UpdateEventInput{}, allTagsExist)

	assert.NoError(t, err)
	assert.False(t, errs.Any())
}

func TestValidateUpdate_PastDateRejected(t *testing.T) {
	past := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	in := UpdateEventInput{Date: &past}

	errs, err := ValidateUpdate(context.Background(), in, allTagsExist)

	assert.NoError(t, err)
	assert.Contains(t, errs["date"], "The event date must be today or in the future.")
}

func TestValidateUpdate_TitleTooLong(t *testing.T) {
	long := strings.Repeat("x", 256)
	in := UpdateEventInput{Title: &long}

	errs, err := ValidateUpdate(context.Background(), in, allTagsExist)

	assert.NoError(t, err)
	assert.Len(t, errs["title"], 1)
}

func TestValidateUpdate_UnknownTag(t *testing.T) {
	in := UpdateEventInput{Tags: []uint{5}}

	errs, err := ValidateUpdate(context.Background(), in, onlyTagsExist(1))

	assert.NoError(t, err)
	assert.Contains(t, errs["tags.0"], "One or more selected tags are invalid.")
}

func TestParseDate_AcceptedFormats(t *testing.T) {
	for _, value := range []string{
		"2026-09-12",
		"2026-09-12T10:30:00Z",
		"2026-09-12 10:30:00",
	} {
		_, err := ParseDate(value)
		assert.NoError(t, err, value)
	}
}

func TestParseDate_Rejected(t *testing.T) {
	_, err := ParseDate("12/09/2026")
	assert.Error(t, err)
}
