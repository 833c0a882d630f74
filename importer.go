package main

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// DraftImporter fetches a web page and turns it into a draft record with
// skeleton frontmatter, ready for editing and queueing.
type DraftImporter struct {
	store     *Store
	client    *http.Client
	converter *md.Converter
	now       func() time.Time
}

// NewDraftImporter creates an importer writing drafts into the given store.
func NewDraftImporter(store *Store) *DraftImporter {
	return &DraftImporter{
		store:     store,
		client:    &http.Client{Timeout: 30 * time.Second},
		converter: md.NewConverter("", true, nil),
		now:       time.Now,
	}
}

// Import fetches url, converts the HTML to markdown and writes a draft
// record for the given language. The draft filename is derived from the
// page title.
func (di *DraftImporter) Import(url, lang string) (*Record, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("invalid URL format: %s (must start with http:// or https://)", url)
	}

	resp, err := di.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	markdown, err := di.converter.ConvertString(string(body))
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}

	title := extractTitle(markdown)
	if title == "" {
		title = extractDomain(url)
	}
	slug := slugify(title)

	rec := &Record{
		Meta: map[string]any{
			"title":     title,
			"slug":      slug,
			"author":    "",
			"excerpt":   "",
			"tags":      []string{},
			"locale":    lang,
			"sourceUrl": url,
		},
		Body:    markdown,
		Path:    slug + contentExtension,
		Lang:    lang,
		Section: SectionDrafts,
	}

	if err := di.store.Write(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// extractTitle returns the first level-one heading of a markdown document.
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// slugify creates a URL slug from a title.
func slugify(title string) string {
	if title == "" {
		return "article"
	}

	slug := strings.ToLower(title)
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	slug = regexp.MustCompile(`-+`).ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	// Limit length to avoid filesystem issues
	if len(slug) > 50 {
		slug = slug[:50]
		slug = strings.Trim(slug, "-")
	}

	if slug == "" {
		return "article"
	}

	return slug
}

// extractDomain extracts the domain name from a URL
func extractDomain(url string) string {
	re := regexp.MustCompile(`https?://(?:www\.)?([^/]+)`)
	matches := re.FindStringSubmatch(url)
	if len(matches) >= 2 {
		return matches[1]
	}
	return url
}
