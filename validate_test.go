package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueFields(issues []RecordIssue) []string {
	fields := make([]string, 0, len(issues))
	for _, issue := range issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func TestValidateRecordCompleteRecord(t *testing.T) {
	rec := &Record{
		Meta: map[string]any{
			"title":       "A Post",
			"slug":        "a-post",
			"author":      "Editorial Team",
			"excerpt":     "An excerpt.",
			"tags":        []string{"consulting"},
			"priority":    PriorityHigh,
			"publishDate": "auto",
			"locale":      "en",
		},
		Lang:    "en",
		Section: SectionQueue,
	}

	assert.Empty(t, ValidateRecord(rec))
}

func TestValidateRecordMissingRequiredFields(t *testing.T) {
	rec := &Record{
		Meta:    map[string]any{"title": "Only a title"},
		Lang:    "en",
		Section: SectionDrafts,
	}

	issues := ValidateRecord(rec)
	fields := issueFields(issues)
	assert.Contains(t, fields, "Slug")
	assert.Contains(t, fields, "Author")
	assert.Contains(t, fields, "Excerpt")
	assert.Contains(t, fields, "Tags")
	assert.NotContains(t, fields, "Title")
}

func TestValidateRecordFieldRules(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		field string
	}{
		{"uppercase slug", "slug", "Not-A-Slug", "Slug"},
		{"slug with spaces", "slug", "two words", "Slug"},
		{"bad date", "date", "04/03/2026", "Date"},
		{"bad scheduledFor", "scheduledFor", "tomorrow", "ScheduledFor"},
		{"unknown priority", "priority", "urgent", "Priority"},
		{"bad publishDate", "publishDate", "someday", "PublishDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := queuedMeta("Post", "post", "")
			meta[tt.key] = tt.value
			rec := &Record{Meta: meta, Lang: "en", Section: SectionQueue}

			issues := ValidateRecord(rec)
			assert.Contains(t, issueFields(issues), tt.field)
		})
	}
}

func TestValidateRecordAcceptsAutoPublishDate(t *testing.T) {
	for _, value := range []string{"auto", "2026-03-10", ""} {
		meta := queuedMeta("Post", "post", "")
		if value != "" {
			meta["publishDate"] = value
		}
		rec := &Record{Meta: meta, Lang: "en", Section: SectionQueue}
		assert.Empty(t, ValidateRecord(rec), "publishDate %q should be valid", value)
	}
}

func TestValidateRecordLocaleMismatch(t *testing.T) {
	meta := queuedMeta("Post", "post", "")
	meta["locale"] = "fr"
	rec := &Record{Meta: meta, Lang: "en", Section: SectionQueue}

	issues := ValidateRecord(rec)
	require.Len(t, issues, 1)
	assert.Equal(t, "Locale", issues[0].Field)
	assert.Contains(t, issues[0].Reason, `"fr"`)
}

func TestValidateRecordMalformedShortCircuits(t *testing.T) {
	rec := &Record{
		Path:     "en/queue/broken.md",
		ParseErr: ErrMalformedRecord,
	}

	issues := ValidateRecord(rec)
	require.Len(t, issues, 1)
	assert.Equal(t, "frontmatter", issues[0].Field)
}

func TestValidateLanguageScansAllSections(t *testing.T) {
	cfg := testConfig(t)
	store := NewStore(cfg.ContentDir)

	writeRecord(t, cfg.ContentDir, "en", SectionDrafts, "draft.md",
		map[string]any{"title": "Draft"}, "body")
	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "good.md",
		queuedMeta("Good", "good", ""), "body")
	writeRawFile(t, cfg.ContentDir, "en", SectionBlog, "broken.md", "---\ntitle: nope")

	issues, err := ValidateLanguage(store, "en")
	require.NoError(t, err)

	byPath := make(map[string]int)
	for _, issue := range issues {
		byPath[issue.Path]++
	}
	assert.NotZero(t, byPath[filepath.Join(store.Dir("en", SectionDrafts), "draft.md")])
	assert.NotZero(t, byPath[filepath.Join(store.Dir("en", SectionBlog), "broken.md")])
	assert.Len(t, byPath, 2, "the valid record should produce no issues")
}
