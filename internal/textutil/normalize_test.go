package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   \t\n ",
			want:  "",
		},
		{
			name:  "lowercases",
			input: "Robbie's Robot Factory",
			want:  "robbies robot factory",
		},
		{
			name:  "brand long form",
			input: "Department 56 Village Sign",
			want:  "dept 56 village sign",
		},
		{
			name:  "brand abbreviation period",
			input: "Dept. 56",
			want:  "dept 56",
		},
		{
			name:  "keeps hyphens and periods in codes",
			input: "Item 56.54305-A",
			want:  "item 56.54305-a",
		},
		{
			name:  "strips quotes and punctuation",
			input: `"Santa's Wonderland House"!`,
			want:  "santas wonderland house",
		},
		{
			name:  "curly apostrophe",
			input: "Fezziwig’s Warehouse",
			want:  "fezziwigs warehouse",
		},
		{
			name:  "collapses whitespace",
			input: "North   Pole \t Series",
			want:  "north pole series",
		},
		{
			name:  "folds diacritics",
			input: "Café Noël",
			want:  "cafe noel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Robbie's Robot Factory",
		"Department 56 Dept. 56",
		"56.54305",
		`Mixed "Quotes" & Symbols!`,
		"Café on the Corner",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"simple", "Santa's Workshop", []string{"santas", "workshop"}},
		{"code preserved", "SKU 56.54305", []string{"sku", "56.54305"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestContentWords(t *testing.T) {
	words := ContentWords("The Spirit of the Season")
	if _, ok := words["the"]; ok {
		t.Error("stop word retained")
	}
	if _, ok := words["spirit"]; !ok {
		t.Error("expected content word spirit")
	}
	if _, ok := words["season"]; !ok {
		t.Error("expected content word season")
	}
}
