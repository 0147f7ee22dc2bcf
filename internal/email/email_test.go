package email

import (
	"strings"
	"testing"
)

func TestNormalize_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"simple", "user@example.com", "user@example.com"},
		{"surrounding_whitespace", "  USER@Example.COM  ", "user@example.com"},
		{"mixed_case_local", "First.Last@example.com", "first.last@example.com"},
		{"plus_tag", "user+tag@example.com", "user+tag@example.com"},
		{"percent_and_underscore", "user_%x@example.com", "user_%x@example.com"},
		{"subdomain", "user@mail.example.co.uk", "user@mail.example.co.uk"},
		{"digits", "user123@example42.com", "user123@example42.com"},
		{"tab_and_newline_around", "\tuser@example.com\n", "user@example.com"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := Normalize(test.raw)
			if !ok {
				t.Fatalf("Normalize(%q) rejected, want %q", test.raw, test.want)
			}
			if got != test.want {
				t.Errorf("Normalize(%q) = %q, want %q", test.raw, got, test.want)
			}
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	longLocal := strings.Repeat("a", MaxLength) + "@example.com"

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace_only", "   "},
		{"missing_at", "userexample.com"},
		{"two_ats", "user@@example.com"},
		{"at_in_both_parts", "us@er@example.com"},
		{"empty_local", "@example.com"},
		{"empty_domain", "user@"},
		{"domain_without_dot", "user@example"},
		{"embedded_space", "us er@example.com"},
		{"space_in_domain", "user@exa mple.com"},
		{"single_char_tld", "user@example.c"},
		{"numeric_tld", "user@example.123"},
		{"too_long", longLocal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := Normalize(test.raw)
			if ok {
				t.Fatalf("Normalize(%q) accepted as %q, want rejection", test.raw, got)
			}
			if got != "" {
				t.Errorf("Normalize(%q) returned %q on rejection, want empty", test.raw, got)
			}
		})
	}
}

func TestNormalize_MaxLengthBoundary(t *testing.T) {
	// Exactly MaxLength characters after trimming is still accepted.
	domain := "@example.com"
	local := strings.Repeat("a", MaxLength-len(domain))
	addr := local + domain

	if len(addr) != MaxLength {
		t.Fatalf("test address length = %d, want %d", len(addr), MaxLength)
	}

	if _, ok := Normalize(addr); !ok {
		t.Errorf("address of length %d rejected, want accepted", MaxLength)
	}

	if _, ok := Normalize("a" + addr); ok {
		t.Errorf("address of length %d accepted, want rejected", MaxLength+1)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := "  USER@Example.COM  "

	first, ok := Normalize(raw)
	if !ok {
		t.Fatalf("Normalize(%q) rejected", raw)
	}

	second, ok := Normalize(first)
	if !ok {
		t.Fatalf("Normalize(%q) rejected its own output", first)
	}

	if first != second {
		t.Errorf("Normalize not idempotent: %q then %q", first, second)
	}
}

func TestValid(t *testing.T) {
	if !Valid("user@example.com") {
		t.Error("expected valid address to pass")
	}
	if Valid("not-an-email") {
		t.Error("expected invalid address to fail")
	}
}
