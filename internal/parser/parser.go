// Package parser extracts the date and tag set from a daily note's
// YAML frontmatter.
package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/models"
)

// Result holds the fields extracted from one note.
type Result struct {
	Date time.Time
	Tags models.TagSet
}

// frontmatter is the subset of header fields the sync engine reads.
// Tags stays a raw node so its scalar-or-sequence shape can be resolved
// explicitly instead of guessed at by the decoder.
type frontmatter struct {
	Date string    `yaml:"date"`
	Tags yaml.Node `yaml:"tags"`
}

// Parse extracts the note date and TagSet from raw note bytes. source
// is the vault-relative path; its stem is the fallback date source.
// Pure function: no I/O, no shared state.
func Parse(source string, data []byte) (Result, error) {
	block, err := splitFrontmatter(data)
	if err != nil {
		return Result{}, fmt.Errorf("parser: %s: %w", source, err)
	}

	var fm frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		// Unreadable header: the engine must know this note could not
		// be read, not silently index it tagless.
		return Result{}, fmt.Errorf("parser: %s: invalid header: %w", source, apperr.ErrMissingFrontmatter)
	}

	date, ok := resolveDate(fm.Date, source)
	if !ok {
		return Result{}, fmt.Errorf("parser: %s: %w", source, apperr.ErrMalformedDate)
	}

	raw, err := resolveTags(&fm.Tags)
	if err != nil {
		return Result{}, fmt.Errorf("parser: %s: %w", source, err)
	}

	return Result{Date: date, Tags: models.NormalizeTags(raw)}, nil
}

// splitFrontmatter returns the YAML block between the leading ---
// delimiters. A note without a delimited header is an error here,
// unlike a general Markdown parse: every synced note must carry one.
func splitFrontmatter(data []byte) ([]byte, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, apperr.ErrMissingFrontmatter
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter.
		return nil, apperr.ErrMissingFrontmatter
	}

	return rest[:idx], nil
}

// resolveDate runs the ordered attempt list for the note date: the
// explicit frontmatter field first, then the filename stem. The first
// candidate that parses as a calendar date wins.
func resolveDate(fmDate, source string) (time.Time, bool) {
	attempts := []string{strings.TrimSpace(fmDate), stem(source)}
	for _, candidate := range attempts {
		if candidate == "" {
			continue
		}
		if d, err := time.Parse(models.DateLayout, candidate); err == nil {
			return models.Day(d), true
		}
	}
	return time.Time{}, false
}

// stem returns the filename without directory or extension.
func stem(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// resolveTags reads the scalar-or-sequence tags value. The three legal
// shapes are: absent (no tags key), a single scalar, or a sequence of
// scalars. Anything else is a malformed tag field.
func resolveTags(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0:
		// Key absent: a note without tags is normal.
		return nil, nil
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, apperr.ErrMalformedTagField
		}
		return []string{s}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, apperr.ErrMalformedTagField
			}
			var s string
			if err := item.Decode(&s); err != nil {
				return nil, apperr.ErrMalformedTagField
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, apperr.ErrMalformedTagField
	}
}
