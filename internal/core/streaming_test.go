package core

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestNormalizeDelimiters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "comma delimited row",
			input:    "Apple,100,2",
			expected: "Apple;100;2",
		},
		{
			name:     "quoted comma preserved",
			input:    `"1,234";100;2`,
			expected: `"1,234";100;2`,
		},
		{
			name:     "mixed delimiters",
			input:    "name,price;weight\nPear;90,0",
			expected: "name;price;weight\nPear;90;0",
		},
		{
			name:     "quoted field with comma delimiters around it",
			input:    `"Nuts, salted",250,0.5`,
			expected: `"Nuts, salted";250;0.5`,
		},
		{
			name:     "escaped quotes inside a quoted span",
			input:    `"say ""hi"", ok",1,2`,
			expected: `"say ""hi"", ok";1;2`,
		},
		{
			name:     "stray quote inside an unquoted field",
			input:    "name,price,weight\n12\" pizza,100,2\nApple,100,2",
			expected: "name;price;weight\n12\" pizza;100;2\nApple;100;2",
		},
		{
			name:     "quoted field after blanks",
			input:    `Nuts, "1,5 kg",2`,
			expected: `Nuts; "1,5 kg";2`,
		},
		{
			name:     "quoted span across lines",
			input:    "\"Apple,\nred\",100,2",
			expected: "\"Apple,\nred\";100;2",
		},
		{
			name:     "already normalized",
			input:    "name;price;weight\nApple;100;2\n",
			expected: "name;price;weight\nApple;100;2\n",
		},
		{
			name:     "cyrillic text",
			input:    "товар,цена,вес\nЯблоко,100,2",
			expected: "товар;цена;вес\nЯблоко;100;2",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDelimiters(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeDelimiters(%q) = %q, want %q", tt.input, got, tt.expected)
			}

			// Idempotent: normalizing twice must be a no-op.
			if again := NormalizeDelimiters(got); again != got {
				t.Errorf("second pass changed content: %q -> %q", got, again)
			}
		})
	}
}

func TestDelimiterReader_QuoteStateAcrossReads(t *testing.T) {
	input := `"a,b",1,2` + "\n" + `c,"d,e",3`
	want := `"a,b";1;2` + "\n" + `c;"d,e";3`

	// OneByteReader forces a Read per byte so quoted spans straddle buffers.
	reader := NewDelimiterReader(iotest.OneByteReader(strings.NewReader(input)))
	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != want {
		t.Errorf("got %q, want %q", string(got), want)
	}
	if reader.Replaced != 4 {
		t.Errorf("Replaced = %d, want 4", reader.Replaced)
	}
}

func TestDelimiterReader_DoesNotModifySource(t *testing.T) {
	source := []byte("Apple,100,2")
	original := string(source)

	if _, err := io.ReadAll(NewDelimiterReader(strings.NewReader(string(source)))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(source) != original {
		t.Errorf("source mutated: %q", string(source))
	}
}

func TestCleanSource(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		expected    string
		wantChanged bool
	}{
		{
			name:     "plain content",
			input:    []byte("name;price;weight"),
			expected: "name;price;weight",
		},
		{
			name:     "BOM stripped",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("name;price")...),
			expected: "name;price",
		},
		{
			name:        "invalid byte replaced",
			input:       []byte{'h', 'e', 0x80, 'l', 'o'},
			expected:    "he?lo",
			wantChanged: true,
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := cleanSource(tt.input)
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", string(got), tt.expected)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}
