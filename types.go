package main

import (
	"errors"
	"path/filepath"
	"time"
)

// State is the lifecycle position of a record. A record is in exactly one
// state, determined by the directory that holds it and, inside the queue
// directory, by the presence of a scheduledFor date.
type State int

const (
	StateDraft State = iota
	StateQueued
	StateScheduled
	StatePublished
)

func (s State) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateQueued:
		return "queued"
	case StateScheduled:
		return "scheduled"
	case StatePublished:
		return "published"
	}
	return "unknown"
}

// Storage sections inside content/{lang}/.
const (
	SectionDrafts = "drafts"
	SectionQueue  = "queue"
	SectionBlog   = "blog"
)

// Priority values recognized in frontmatter.
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// dateLayout is the calendar date format used throughout frontmatter.
const dateLayout = "2006-01-02"

// Sentinel errors for the pipeline. Callers match with errors.Is and wrap
// with fmt.Errorf("...: %w", err) for context.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrNotFound        = errors.New("record not found")
	ErrDraftNotFound   = errors.New("draft not found")
	ErrDateCollision   = errors.New("publish date already claimed")
)

// Record is one article: frontmatter metadata plus markdown body, tagged
// with where it came from.
type Record struct {
	Meta    map[string]any
	Body    string
	Path    string
	Lang    string
	Section string
	ModTime time.Time

	// ParseErr is set when the file's frontmatter could not be decoded.
	// Such records carry empty Meta/Body and are reported, never dropped.
	ParseErr error
}

// Filename returns the record's base filename.
func (r *Record) Filename() string {
	return filepath.Base(r.Path)
}

// State derives the lifecycle state from the section and frontmatter.
func (r *Record) State() State {
	switch r.Section {
	case SectionDrafts:
		return StateDraft
	case SectionBlog:
		return StatePublished
	default:
		if r.ScheduledFor() != "" {
			return StateScheduled
		}
		return StateQueued
	}
}

func (r *Record) metaString(key string) string {
	if r.Meta == nil {
		return ""
	}
	if v, ok := r.Meta[key].(string); ok {
		return v
	}
	return ""
}

// Title returns the frontmatter title.
func (r *Record) Title() string { return r.metaString("title") }

// Slug returns the frontmatter slug.
func (r *Record) Slug() string { return r.metaString("slug") }

// Date returns the frontmatter date string (YYYY-MM-DD).
func (r *Record) Date() string { return r.metaString("date") }

// ScheduledFor returns the scheduled publish date, empty when unscheduled.
func (r *Record) ScheduledFor() string { return r.metaString("scheduledFor") }

// Priority returns the queue priority, defaulting to normal.
func (r *Record) Priority() string {
	if p := r.metaString("priority"); p != "" {
		return p
	}
	return PriorityNormal
}

// QueuedAt returns the time the record entered the queue. Records queued
// before timestamps were stamped fall back to the file's mod time.
func (r *Record) QueuedAt() time.Time {
	if v := r.metaString("queuedAt"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return r.ModTime
}

// Tags returns the frontmatter tags, if any.
func (r *Record) Tags() []string {
	if r.Meta == nil {
		return nil
	}
	switch v := r.Meta["tags"].(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

// SetMeta stores a frontmatter value, allocating the map on first use.
func (r *Record) SetMeta(key string, value any) {
	if r.Meta == nil {
		r.Meta = make(map[string]any)
	}
	r.Meta[key] = value
}

// DeleteMeta removes a frontmatter key.
func (r *Record) DeleteMeta(key string) {
	delete(r.Meta, key)
}

// PublishResult is the outcome of one publish attempt for one language.
type PublishResult struct {
	Language string `json:"language"`
	Success  bool   `json:"success"`
	Reason   string `json:"reason,omitempty"`
	Title    string `json:"title,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Reasons reported by PublishForLanguage when no article was published.
const (
	ReasonNoQueueDir       = "no_queue_dir"
	ReasonEmptyQueue       = "empty_queue"
	ReasonProcessingError  = "processing_error"
	ReasonWeekend          = "weekend"
	ReasonAlreadyPublished = "already_published_today"
)

// LanguageSummary aggregates publish outcomes for one language.
type LanguageSummary struct {
	Language  string   `json:"language"`
	Published int      `json:"published"`
	Failed    int      `json:"failed"`
	Titles    []string `json:"titles,omitempty"`
}

// PublishReport is the aggregate result of a PublishAll run.
type PublishReport struct {
	Results        []PublishResult   `json:"results"`
	TotalPublished int               `json:"totalPublished"`
	Summary        []LanguageSummary `json:"summary"`
	Halted         string            `json:"halted,omitempty"`
}
