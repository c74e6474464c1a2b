package models

import (
	"encoding/json"
	"testing"
)

func TestStyleList_UnmarshalsFromArray(t *testing.T) {
	var s StyleList
	if err := json.Unmarshal([]byte(`["blackwork","fine line"]`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(s) != 2 || s[0] != "blackwork" || s[1] != "fine line" {
		t.Fatalf("got %v", s)
	}
}

func TestStyleList_UnmarshalsFromLegacyString(t *testing.T) {
	var s StyleList
	if err := json.Unmarshal([]byte(`"traditional"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(s) != 1 || s[0] != "traditional" {
		t.Fatalf("got %v, want single-element list", s)
	}
}

func TestStyleList_EmptyStringIsNil(t *testing.T) {
	var s StyleList
	if err := json.Unmarshal([]byte(`""`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != nil {
		t.Fatalf("got %v, want nil", s)
	}
}

func TestStyleList_RejectsOtherShapes(t *testing.T) {
	var s StyleList
	if err := json.Unmarshal([]byte(`{"style":"tribal"}`), &s); err == nil {
		t.Fatal("expected an error for an object value")
	}
}

func TestStyleList_MarshalsAsArray(t *testing.T) {
	out, err := json.Marshal(StyleList{"realism"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `["realism"]` {
		t.Fatalf("got %s", out)
	}
}
