package standards

import (
	"errors"
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	doc := `[
  {"name":"standards.A","label":"A","cat":"Global Standards","tag":["x"],"impact":"High Impact","addedDate":"2024-01-02","recommendedBy":["CIS"],"addedComponent":[{"type":"switch","name":"a","label":"A","options":[{"label":"On","value":true}]}]},
  {"name":"standards.B","label":"B","cat":"Exchange Standards","impact":"Low Impact","addedDate":"","tag":null}
]`
	got, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Name != "standards.A" || got[1].Name != "standards.B" {
		t.Errorf("order not preserved: %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].Impact != HighImpact {
		t.Errorf("impact = %q", got[0].Impact)
	}
	if len(got[0].AddedComponent) != 1 || got[0].AddedComponent[0].Options[0].Value != true {
		t.Errorf("addedComponent not decoded: %+v", got[0].AddedComponent)
	}
}

func TestParseEmptyArray(t *testing.T) {
	got, err := Parse([]byte(" [] "))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantIndex int
		wantField string
	}{
		{"not json", `{"name":`, -1, ""},
		{"object root", `{"name":"a"}`, -1, ""},
		{"element not object", `[1]`, 0, ""},
		{"missing name", `[{"impact":"High Impact"}]`, 0, "name"},
		{"blank name", `[{"name":"  ","impact":"High Impact"}]`, 0, "name"},
		{"duplicate name", `[{"name":"a","impact":"High Impact"},{"name":"a","impact":"Low Impact"}]`, 1, "name"},
		{"unknown impact", `[{"name":"a","impact":"Critical"}]`, 0, "impact"},
		{"numeric label", `[{"name":"a","impact":"Low Impact","label":5}]`, 0, "label"},
		{"tag not array", `[{"name":"a","impact":"Low Impact","tag":"x"}]`, 0, "tag"},
		{"recommender not string", `[{"name":"a","impact":"Low Impact","recommendedBy":[1]}]`, 0, "recommendedBy"},
		{"bad date", `[{"name":"a","impact":"Low Impact","addedDate":"13/01/2024"}]`, 0, "addedDate"},
		{"components not array", `[{"name":"a","impact":"Low Impact","addedComponent":{}}]`, 0, "addedComponent"},
		{"second record broken", `[{"name":"a","impact":"Low Impact"},{"name":"b"}]`, 1, "impact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("error %v does not wrap ErrInvalidDocument", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not a ValidationError", err)
			}
			if verr.Index != tt.wantIndex || verr.Field != tt.wantField {
				t.Errorf("got index=%d field=%q, want index=%d field=%q", verr.Index, verr.Field, tt.wantIndex, tt.wantField)
			}
		})
	}
}

func TestFormatKeepsDocumentAsIs(t *testing.T) {
	in := `[{"name":"standards.A","multiple":true,"label":"A & B <x>","impact":"Low Impact","addedComponent":[{"type":"switch","labelLocation":"top"}]}]`
	out := string(Format([]byte(in)))

	for _, want := range []string{`"multiple": true`, `"labelLocation": "top"`, `"A & B <x>"`} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted document lost %s:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(out, "[\n  {\n    \"name\": \"standards.A\",\n    \"multiple\"") {
		t.Errorf("unexpected layout:\n%s", out)
	}
	if _, err := Parse([]byte(out)); err != nil {
		t.Fatalf("Parse(Format()): %v", err)
	}
}
