package git

import (
	"context"
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		err   error
		patch int64
	}{
		{"3.4.55", nil, 55},
		{"4.10.0", nil, 0},
		{"3.04.055", nil, 55},
		{"v3.4.55", ErrNotMarker, 0},
		{"3.4.55 ", ErrNotMarker, 0},
		{"3.4", ErrNotMarker, 0},
		{"3.4.55-rc1", ErrNotMarker, 0},
		{"Bump to 3.4.55", ErrNotMarker, 0},
	}

	for _, tc := range tests {
		v, err := ParseVersion(tc.input)
		if !errors.Is(err, tc.err) {
			t.Fatalf("ParseVersion(%q) error = %v, want %v", tc.input, err, tc.err)
		}
		if err != nil {
			continue
		}
		if v.Patch != tc.patch {
			t.Fatalf("ParseVersion(%q).Patch = %d, want %d", tc.input, v.Patch, tc.patch)
		}
		if v.String() != tc.input {
			t.Fatalf("ParseVersion(%q).String() = %q", tc.input, v.String())
		}
	}
}

func TestParseVersionOverflow(t *testing.T) {
	for _, input := range []string{
		"1.2.99999999999999999999",
		"99999999999999999999.0.1",
		"1.2.9223372036854775807",
	} {
		if !IsMarker(input) {
			t.Fatalf("IsMarker(%q) = false", input)
		}
		_, err := ParseVersion(input)
		if err == nil {
			t.Fatalf("ParseVersion(%q) succeeded", input)
		}
		if errors.Is(err, ErrNotMarker) {
			t.Fatalf("ParseVersion(%q) reported a non-marker: %v", input, err)
		}
	}
}

func TestVersionNext(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3.4.55", "3.4.56"},
		{"4.9.9", "4.9.10"},
		{"1.1.1", "1.1.2"},
		{"5.56.5", "5.56.6"},
		{"0.0.0", "0.0.1"},
		{"3.04.55", "3.04.56"},
		{"03.4.55", "03.4.56"},
		{"3.4.09", "3.4.10"},
	}

	for _, tc := range tests {
		v, err := ParseVersion(tc.input)
		if err != nil {
			t.Fatalf("ParseVersion(%q) failed: %v", tc.input, err)
		}
		if got := v.Next().String(); got != tc.want {
			t.Fatalf("%q.Next() = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCommitSubject(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Fix bug", "Fix bug"},
		{"Fix bug\n\nLonger description", "Fix bug"},
		{"3.4.55\r\n", "3.4.55"},
		{"", ""},
	}

	for _, tc := range tests {
		c := Commit{Message: tc.message}
		if got := c.Subject(); got != tc.want {
			t.Fatalf("Subject(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestTreeStateOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := TreeState(context.Background(), dir); err == nil {
		t.Fatal("expected error outside a git repository")
	}
}
