package manifest

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestEncodeKeyOrder verifies that known fields come first, in npm order,
// followed by extra fields sorted by name.
func TestEncodeKeyOrder(t *testing.T) {
	s := sampleScope()
	s.PackageJSON = map[string]any{"engines": map[string]any{"node": ">=4"}, "bugs": "x"}
	m := mustAssemble(t, s)

	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := string(data)

	order := []string{`"name"`, `"private"`, `"version"`, `"description"`, `"keywords"`,
		`"dependencies"`, `"scripts"`, `"main"`, `"repository"`, `"author"`, `"license"`,
		`"bugs"`, `"engines"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, "\n  "+key+":")
		if idx < 0 {
			t.Fatalf("top-level key %s not found in\n%s", key, out)
		}
		if idx < last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Error("output should end with a newline")
	}
}

// TestEncodeIsValidJSON verifies that Encode output decodes back to the same manifest.
func TestEncodeIsValidJSON(t *testing.T) {
	m := mustAssemble(t, sampleScope())
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v\n%s", err, data)
	}
	if back.Scripts()["test"] != m.Scripts()["test"] {
		t.Error("test script changed across encode/decode")
	}
	if back.Dependencies()["sails"] != "^1.2.3" {
		t.Errorf("sails = %q", back.Dependencies()["sails"])
	}
}

// TestEncodeNoHTMLEscape verifies that shell operators are written literally.
func TestEncodeNoHTMLEscape(t *testing.T) {
	data, err := Encode(Manifest{"scripts": map[string]any{"x": "a && b > c"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "a && b > c") {
		t.Errorf("script escaped: %s", data)
	}
	if !json.Valid(data) {
		t.Errorf("invalid JSON: %s", data)
	}
}

// TestEncodeEmpty verifies the empty manifest.
func TestEncodeEmpty(t *testing.T) {
	data, err := Encode(Manifest{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}\n" {
		t.Errorf("Encode(empty) = %q, want %q", data, "{}\n")
	}
}

// TestDecodeRejectsArray verifies that a non-object document is a ParseError.
func TestDecodeRejectsArray(t *testing.T) {
	_, err := Decode([]byte(`[1, 2]`))
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("Decode(array) error = %v, want *ParseError", err)
	}
}
