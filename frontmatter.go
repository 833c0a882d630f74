package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// DecodeRecord splits a content blob into frontmatter metadata and body.
// A blob without an opening delimiter is treated as all body. An opening
// delimiter without a closing one, or invalid YAML between them, yields
// ErrMalformedRecord so callers can report the file and move on.
func DecodeRecord(blob string) (map[string]any, string, error) {
	if !strings.HasPrefix(blob, frontmatterDelimiter+"\n") {
		return map[string]any{}, blob, nil
	}

	rest := blob[len(frontmatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelimiter+"\n")
	var block, body string
	switch {
	case end >= 0:
		block = rest[:end+1]
		body = strings.TrimPrefix(rest[end+len(frontmatterDelimiter)+2:], "\n")
	case strings.HasSuffix(rest, "\n"+frontmatterDelimiter):
		block = rest[:len(rest)-len(frontmatterDelimiter)]
	default:
		return nil, "", fmt.Errorf("%w: missing closing delimiter", ErrMalformedRecord)
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	normalizeMeta(meta)

	return meta, body, nil
}

// EncodeRecord renders metadata and body back into a single blob. The
// result round-trips through DecodeRecord for scalar and string-array
// metadata values.
func EncodeRecord(meta map[string]any, body string) (string, error) {
	block, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.Write(block)
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String(), nil
}

// normalizeMeta rewrites []any values whose elements are all strings as
// []string, so tag lists compare equal across an encode/decode cycle.
func normalizeMeta(meta map[string]any) {
	for key, value := range meta {
		items, ok := value.([]any)
		if !ok {
			continue
		}
		strs := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				strs = nil
				break
			}
			strs = append(strs, s)
		}
		if strs != nil {
			meta[key] = strs
		}
	}
}
