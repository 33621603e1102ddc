package security

import (
	"testing"
)

func TestSanitize_PreservesPlainText(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "Buy milk", "Buy milk"},
		{"less-than and greater-than", "x<y and z>w", "x<y and z>w"},
		{"angle-bracketed word", "Fix <T> generic", "Fix <T> generic"},
		{"markup kept verbatim", "<b>Buy</b> milk", "<b>Buy</b> milk"},
		{"entities not decoded", "&lt;script&gt;alert(1)&lt;/script&gt;", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"ampersand preserved", "Tom & Jerry", "Tom & Jerry"},
		{"quotes preserved", `say "hello"`, `say "hello"`},
		{"multibyte", "週次レポートを書く", "週次レポートを書く"},
		{"inner newline kept", "line1\nline2", "line1\nline2"},
		{"surrounding whitespace", "  Report  ", "Report"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_RemovesUnstorableCharacters(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"NUL byte", "Buy\x00 milk", "Buy milk"},
		{"escape sequence", "\x1b[31mred\x1b[0m", "[31mred[0m"},
		{"DEL", "a\x7fb", "ab"},
		{"invalid UTF-8", "ok\xff\xfe", "ok"},
		{"only control characters", "\x00\x01\x02", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	for _, input := range []string{"x<y\x00 & z", "  <em>Write</em> the report \n"} {
		first := s.Sanitize(input)
		if second := s.Sanitize(first); first != second {
			t.Errorf("not idempotent for %q: %q then %q", input, first, second)
		}
	}
}

func TestTextSanitizerInterface(t *testing.T) {
	var _ TextSanitizer = NewTextSanitizer()
}
