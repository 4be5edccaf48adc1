package linking

import "testing"

func TestRegexExtractorCompatibility(t *testing.T) {
	extractor := RegexExtractor{}

	matches := extractor.Compatibility("This piece goes with Santa's Workshop. Hand painted porcelain.")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Phrase != "goes with" {
		t.Errorf("phrase = %q, want %q", matches[0].Phrase, "goes with")
	}
	if matches[0].Object != "Santa's Workshop" {
		t.Errorf("object = %q, want %q", matches[0].Object, "Santa's Workshop")
	}
}

func TestRegexExtractorMultiplePhrases(t *testing.T) {
	extractor := RegexExtractor{}

	text := "Coordinates with the Elf Bunkhouse and is perfect for North Pole displays."
	matches := extractor.Compatibility(text)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(matches), matches)
	}

	objects := map[string]string{}
	for _, match := range matches {
		objects[match.Phrase] = match.Object
	}
	if objects["coordinates with"] != "the Elf Bunkhouse and is perfect for North Pole displays" {
		t.Errorf("coordinates object = %q", objects["coordinates with"])
	}
	if objects["perfect for"] != "North Pole displays" {
		t.Errorf("perfect-for object = %q", objects["perfect for"])
	}
}

func TestRegexExtractorInclusion(t *testing.T) {
	extractor := RegexExtractor{}

	matches := extractor.Inclusion("Set of 2. Includes sign and mailbox. Battery operated.")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Object != "sign and mailbox" {
		t.Errorf("object = %q, want %q", matches[0].Object, "sign and mailbox")
	}
}

func TestRegexExtractorNoPhrases(t *testing.T) {
	extractor := RegexExtractor{}

	if got := extractor.Compatibility("A charming lighted building."); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := extractor.Inclusion(""); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
}
