package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/jera/internal/apperr"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestParse_TagSequence(t *testing.T) {
	input := []byte("---\ntags:\n  - work\n  - health\n---\n# Log\nBody text.\n")
	r, err := Parse("2024-01-05.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Date.Equal(day("2024-01-05")) {
		t.Errorf("date = %v, want 2024-01-05", r.Date)
	}
	if len(r.Tags) != 2 || r.Tags[0] != "work" || r.Tags[1] != "health" {
		t.Errorf("tags = %v, want [work health]", r.Tags)
	}
}

func TestParse_TagScalar(t *testing.T) {
	r, err := Parse("2024-01-05.md", []byte("---\ntags: work\n---\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Tags) != 1 || r.Tags[0] != "work" {
		t.Errorf("tags = %v, want [work]", r.Tags)
	}
}

func TestParse_TagsTrimmedAndDeduplicated(t *testing.T) {
	input := []byte("---\ntags:\n  - '  work '\n  - ''\n  - work\n  - Work\n---\n")
	r, err := Parse("2024-01-05.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Dedupe is case-sensitive: "work" and "Work" are distinct.
	if len(r.Tags) != 2 || r.Tags[0] != "work" || r.Tags[1] != "Work" {
		t.Errorf("tags = %v, want [work Work]", r.Tags)
	}
}

func TestParse_NoTagsKey(t *testing.T) {
	r, err := Parse("2024-01-05.md", []byte("---\ntitle: Quiet day\n---\nNothing happened.\n"))
	if err != nil {
		t.Fatalf("a note without tags should parse: %v", err)
	}
	if len(r.Tags) != 0 {
		t.Errorf("tags = %v, want empty", r.Tags)
	}
}

func TestParse_MissingFrontmatter(t *testing.T) {
	_, err := Parse("2024-01-05.md", []byte("# Just a heading\nSome text.\n"))
	if !errors.Is(err, apperr.ErrMissingFrontmatter) {
		t.Fatalf("err = %v, want ErrMissingFrontmatter", err)
	}
}

func TestParse_UnterminatedFrontmatter(t *testing.T) {
	_, err := Parse("2024-01-05.md", []byte("---\ntags: [a]\nno closing delimiter\n"))
	if !errors.Is(err, apperr.ErrMissingFrontmatter) {
		t.Fatalf("err = %v, want ErrMissingFrontmatter", err)
	}
}

func TestParse_InvalidYAMLHeader(t *testing.T) {
	_, err := Parse("2024-01-05.md", []byte("---\n: invalid: yaml: {{{\n---\nBody\n"))
	if !errors.Is(err, apperr.ErrMissingFrontmatter) {
		t.Fatalf("err = %v, want ErrMissingFrontmatter", err)
	}
}

func TestParse_MalformedTagField_Mapping(t *testing.T) {
	_, err := Parse("2024-01-05.md", []byte("---\ntags:\n  nested: true\n---\n"))
	if !errors.Is(err, apperr.ErrMalformedTagField) {
		t.Fatalf("err = %v, want ErrMalformedTagField", err)
	}
}

func TestParse_MalformedTagField_NestedSequence(t *testing.T) {
	_, err := Parse("2024-01-05.md", []byte("---\ntags:\n  - [a, b]\n---\n"))
	if !errors.Is(err, apperr.ErrMalformedTagField) {
		t.Fatalf("err = %v, want ErrMalformedTagField", err)
	}
}

func TestParse_DatePrecedence_FrontmatterWins(t *testing.T) {
	input := []byte("---\ndate: 2024-02-20\ntags: [a]\n---\n")
	r, err := Parse("2024-01-05.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Date.Equal(day("2024-02-20")) {
		t.Errorf("date = %v, want frontmatter date 2024-02-20", r.Date)
	}
}

func TestParse_DatePrecedence_FilenameFallback(t *testing.T) {
	// Malformed frontmatter date falls through to the filename stem.
	input := []byte("---\ndate: not-a-date\n---\n")
	r, err := Parse("daily/2024-01-05.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Date.Equal(day("2024-01-05")) {
		t.Errorf("date = %v, want filename date 2024-01-05", r.Date)
	}
}

func TestParse_MalformedDate(t *testing.T) {
	_, err := Parse("scratchpad.md", []byte("---\ntags: [a]\n---\n"))
	if !errors.Is(err, apperr.ErrMalformedDate) {
		t.Fatalf("err = %v, want ErrMalformedDate", err)
	}
}

func TestResolveDate_MidnightUTC(t *testing.T) {
	d, ok := resolveDate("", "2024-06-30.md")
	if !ok {
		t.Fatal("expected a valid date")
	}
	h, m, s := d.Clock()
	if h != 0 || m != 0 || s != 0 || d.Location() != time.UTC {
		t.Errorf("date = %v, want midnight UTC", d)
	}
}
