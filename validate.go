package main

import (
	"fmt"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
	validPriorities = []interface{}{PriorityHigh, PriorityNormal, PriorityLow}
)

// RecordIssue is one validation problem found in a content file.
type RecordIssue struct {
	Path   string
	Field  string
	Reason string
}

// recordMeta is the typed view of frontmatter that validation rules run
// against.
type recordMeta struct {
	Title        string
	Slug         string
	Author       string
	Excerpt      string
	Tags         []string
	Date         string
	Priority     string
	PublishDate  string
	ScheduledFor string
	Locale       string
}

func metaView(rec *Record) recordMeta {
	return recordMeta{
		Title:        rec.Title(),
		Slug:         rec.Slug(),
		Author:       rec.metaString("author"),
		Excerpt:      rec.metaString("excerpt"),
		Tags:         rec.Tags(),
		Date:         rec.Date(),
		Priority:     rec.metaString("priority"),
		PublishDate:  rec.metaString("publishDate"),
		ScheduledFor: rec.ScheduledFor(),
		Locale:       rec.metaString("locale"),
	}
}

// ValidateRecord checks a record's metadata against the content rules:
// required fields, slug pattern, date formats, priority enum, and locale
// matching the directory the record lives in.
func ValidateRecord(rec *Record) []RecordIssue {
	if rec.ParseErr != nil {
		return []RecordIssue{{Path: rec.Path, Field: "frontmatter", Reason: rec.ParseErr.Error()}}
	}

	m := metaView(rec)
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required.Error("title is required")),
		validation.Field(&m.Slug,
			validation.Required.Error("slug is required"),
			validation.Match(slugPattern).Error("slug must match [a-z0-9-]+"),
		),
		validation.Field(&m.Author, validation.Required.Error("author is required")),
		validation.Field(&m.Excerpt, validation.Required.Error("excerpt is required")),
		validation.Field(&m.Tags, validation.Required.Error("tags are required")),
		validation.Field(&m.Date, validation.Date(dateLayout).Error("date must be YYYY-MM-DD")),
		validation.Field(&m.ScheduledFor, validation.Date(dateLayout).Error("scheduledFor must be YYYY-MM-DD")),
		validation.Field(&m.Priority, validation.In(validPriorities...).Error("priority must be high, normal or low")),
		validation.Field(&m.PublishDate, validation.By(publishDateRule)),
	)

	var issues []RecordIssue
	if ve, ok := err.(validation.Errors); ok {
		for field, fieldErr := range ve {
			issues = append(issues, RecordIssue{Path: rec.Path, Field: field, Reason: fieldErr.Error()})
		}
	} else if err != nil {
		issues = append(issues, RecordIssue{Path: rec.Path, Field: "record", Reason: err.Error()})
	}

	if m.Locale != "" && rec.Lang != "" && m.Locale != rec.Lang {
		issues = append(issues, RecordIssue{
			Path:   rec.Path,
			Field:  "Locale",
			Reason: fmt.Sprintf("locale %q does not match language directory %q", m.Locale, rec.Lang),
		})
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues
}

// publishDateRule accepts an ISO date or the literal "auto".
func publishDateRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" || s == "auto" {
		return nil
	}
	return validation.Validate(s, validation.Date(dateLayout).Error("publishDate must be YYYY-MM-DD or auto"))
}

// ValidateLanguage runs the validator over every record in a language's
// stores and returns all issues found, grouped by file order.
func ValidateLanguage(store *Store, lang string) ([]RecordIssue, error) {
	var issues []RecordIssue
	for _, section := range []string{SectionDrafts, SectionQueue, SectionBlog} {
		recs, err := store.List(lang, section)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			issues = append(issues, ValidateRecord(rec)...)
		}
	}
	return issues, nil
}
