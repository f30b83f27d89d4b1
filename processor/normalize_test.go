package processor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func assertSameJSON(t *testing.T, expected, actual string) {
	t.Helper()
	var want, got any
	if err := json.Unmarshal([]byte(expected), &want); err != nil {
		t.Fatalf("Expected JSON is invalid: %v", err)
	}
	if err := json.Unmarshal([]byte(actual), &got); err != nil {
		t.Fatalf("Actual JSON is invalid: %v\n%s", err, actual)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("Expected JSON %s, got %s", expected, actual)
	}
}

func assertDegraded(t *testing.T, outcome Outcome, reason error) {
	t.Helper()
	if !outcome.Degraded() {
		t.Fatalf("Expected degraded outcome, got %s", outcome.Kind)
	}
	if !errors.Is(outcome.Reason, reason) {
		t.Errorf("Expected reason %v, got %v", reason, outcome.Reason)
	}
	if len(outcome.Result.Verses) != 3 {
		t.Fatalf("Expected 3 error verses, got %d", len(outcome.Result.Verses))
	}
	if outcome.Result.Verses[0] != degradedHeadline {
		t.Errorf("Expected headline %q, got %q", degradedHeadline, outcome.Result.Verses[0])
	}
	if !strings.HasPrefix(outcome.Result.Verses[2], degradedDetail) {
		t.Errorf("Expected detail verse, got %q", outcome.Result.Verses[2])
	}
	if !gjson.Valid(outcome.Result.JSONOutput) {
		t.Fatalf("Expected valid JSON output, got %s", outcome.Result.JSONOutput)
	}
	if got := gjson.Get(outcome.Result.JSONOutput, "error").String(); got != "Failed to process text" {
		t.Errorf("Expected error field, got %q", got)
	}
}

func TestNormalize_Salmo23(t *testing.T) {
	outcome := Normalize(readFixture(t, "salmo23.json"))

	if outcome.Kind != KindOK {
		t.Fatalf("Expected ok outcome, got %s (%v)", outcome.Kind, outcome.Reason)
	}
	expectedVerses := []string{"SALMO 23", "1. El Señor es mi pastor"}
	if !reflect.DeepEqual(outcome.Result.Verses, expectedVerses) {
		t.Errorf("Expected verses %v, got %v", expectedVerses, outcome.Result.Verses)
	}

	assertSameJSON(t,
		`[{"id":"njg-slm23","content":[{"id":"njg-s23-1","number":1,"text":"El Señor es mi pastor"}]}]`,
		outcome.Result.JSONOutput,
	)
	if !strings.Contains(outcome.Result.JSONOutput, "\n  ") {
		t.Errorf("Expected two space indentation, got %s", outcome.Result.JSONOutput)
	}
	if strings.HasSuffix(outcome.Result.JSONOutput, "\n") {
		t.Error("Expected no trailing newline")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(readFixture(t, "salmo23.json")).Result.JSONOutput

	encoded, err := json.Marshal(map[string]any{"verses": []string{}, "jsonOutput": first})
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	second := Normalize(string(encoded)).Result.JSONOutput

	if first != second {
		t.Errorf("Expected byte identical output\nfirst:\n%s\nsecond:\n%s", first, second)
	}
	if prettyJSON(first) != first {
		t.Error("Expected pretty printing an already pretty document to be a no-op")
	}
}

func TestNormalize_KeepsKeyOrder(t *testing.T) {
	outcome := Normalize(readFixture(t, "object_output.json"))

	out := outcome.Result.JSONOutput
	z, a, m := strings.Index(out, `"z"`), strings.Index(out, `"a"`), strings.Index(out, `"m"`)
	if z < 0 || a < 0 || m < 0 || !(z < a && a < m) {
		t.Errorf("Expected keys in source order, got %s", out)
	}
	assertSameJSON(t, `{"z":1,"a":[1,2],"m":{"k":"v"}}`, out)
}

func TestNormalize_FencedResponse(t *testing.T) {
	outcome := Normalize(readFixture(t, "fenced.txt"))

	if outcome.Kind != KindOK {
		t.Fatalf("Expected ok outcome, got %s (%v)", outcome.Kind, outcome.Reason)
	}
	if len(outcome.Result.Verses) != 2 {
		t.Errorf("Expected 2 verses, got %d", len(outcome.Result.Verses))
	}
	assertSameJSON(t, `{"id":"njg-flp","content":[{"id":"njg-flp-1-1","number":1}]}`, outcome.Result.JSONOutput)
}

func TestNormalize_Degraded(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason error
	}{
		{name: "empty", raw: "", reason: ErrEmptyResponse},
		{name: "whitespace", raw: "  \n\t", reason: ErrEmptyResponse},
		{name: "empty fence", raw: "```json\n```", reason: ErrEmptyResponse},
		{name: "prose", raw: "Lo siento, no puedo ayudar con eso.", reason: ErrInvalidJSON},
		{name: "truncated", raw: `{"verses":["SALMO 1"`, reason: ErrInvalidJSON},
		{name: "array", raw: `["SALMO 1"]`, reason: ErrInvalidJSON},
		{name: "string", raw: `"SALMO 1"`, reason: ErrInvalidJSON},
		{name: "verses not array", raw: `{"verses":"SALMO 1","jsonOutput":"[]"}`, reason: ErrSchema},
		{name: "verses with numbers", raw: `{"verses":["SALMO 1",2],"jsonOutput":"[]"}`, reason: ErrSchema},
		{name: "verses with objects", raw: `{"verses":[{"text":"SALMO 1"}]}`, reason: ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDegraded(t, Normalize(tt.raw), tt.reason)
		})
	}
}

func TestNormalize_MissingFields(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		verses     []string
		jsonOutput string
	}{
		{name: "empty object", raw: `{}`, verses: []string{}, jsonOutput: ""},
		{name: "null fields", raw: `{"verses":null,"jsonOutput":null}`, verses: []string{}, jsonOutput: ""},
		{name: "only verses", raw: `{"verses":["A","B"]}`, verses: []string{"A", "B"}, jsonOutput: ""},
		{name: "empty verses", raw: `{"verses":[],"jsonOutput":"{}"}`, verses: []string{}, jsonOutput: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Normalize(tt.raw)
			if outcome.Kind != KindOK {
				t.Fatalf("Expected ok outcome, got %s (%v)", outcome.Kind, outcome.Reason)
			}
			if outcome.Result.Verses == nil {
				t.Fatal("Expected non-nil verses")
			}
			if !reflect.DeepEqual(outcome.Result.Verses, tt.verses) {
				t.Errorf("Expected verses %v, got %v", tt.verses, outcome.Result.Verses)
			}
			if outcome.Result.JSONOutput != tt.jsonOutput {
				t.Errorf("Expected jsonOutput %q, got %q", tt.jsonOutput, outcome.Result.JSONOutput)
			}
		})
	}
}

func TestNormalize_JSONOutputValues(t *testing.T) {
	t.Run("malformed inner string passes through", func(t *testing.T) {
		outcome := Normalize(`{"verses":["A"],"jsonOutput":"[{\"id\": \"njg-1\", "}`)
		if outcome.Kind != KindOK {
			t.Fatalf("Expected ok outcome, got %s", outcome.Kind)
		}
		if outcome.Result.JSONOutput != `[{"id": "njg-1", ` {
			t.Errorf("Expected string to pass through unchanged, got %q", outcome.Result.JSONOutput)
		}
	})

	t.Run("plain text string passes through", func(t *testing.T) {
		outcome := Normalize(`{"verses":[],"jsonOutput":"sin datos"}`)
		if outcome.Result.JSONOutput != "sin datos" {
			t.Errorf("Expected plain string, got %q", outcome.Result.JSONOutput)
		}
	})

	t.Run("number is serialized", func(t *testing.T) {
		outcome := Normalize(`{"verses":[],"jsonOutput":42}`)
		if outcome.Result.JSONOutput != "42" {
			t.Errorf("Expected 42, got %q", outcome.Result.JSONOutput)
		}
	})

	t.Run("array is pretty printed", func(t *testing.T) {
		outcome := Normalize(`{"verses":[],"jsonOutput":[{"id":"njg-1"}]}`)
		assertSameJSON(t, `[{"id":"njg-1"}]`, outcome.Result.JSONOutput)
		if !strings.Contains(outcome.Result.JSONOutput, "\n") {
			t.Errorf("Expected multi-line output, got %q", outcome.Result.JSONOutput)
		}
	})
}

func TestNormalize_UnicodeVerses(t *testing.T) {
	outcome := Normalize(`{"verses":["1. Bienaventurado el varón que no anduvo en consejo de malos ñ"],"jsonOutput":""}`)
	if outcome.Result.Verses[0] != "1. Bienaventurado el varón que no anduvo en consejo de malos ñ" {
		t.Errorf("Expected decoded verse, got %q", outcome.Result.Verses[0])
	}
}

func TestDegradedResult(t *testing.T) {
	result := DegradedResult(errors.New("quota exceeded"))

	if result.Verses[2] != "Detalle: quota exceeded" {
		t.Errorf("Expected detail verse, got %q", result.Verses[2])
	}
	if got := gjson.Get(result.JSONOutput, "detail").String(); got != "quota exceeded" {
		t.Errorf("Expected detail field, got %q", got)
	}

	withoutReason := DegradedResult(nil)
	if len(withoutReason.Verses) != 3 {
		t.Errorf("Expected 3 verses, got %d", len(withoutReason.Verses))
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "  {\"a\":1}\n", want: `{"a":1}`},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```JSON\n{\"a\":1}```", want: `{"a":1}`},
	}

	for _, tt := range tests {
		if got := cleanJSONResponse(tt.in); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestNormalize_NullVersesIsEmpty(t *testing.T) {
	outcome := Normalize(`{"verses":null,"jsonOutput":"[]"}`)

	if outcome.Kind != KindOK {
		t.Fatalf("Expected ok outcome, got %s (%v)", outcome.Kind, outcome.Reason)
	}
	if outcome.Result.Verses == nil || len(outcome.Result.Verses) != 0 {
		t.Errorf("Expected empty verses, got %q", outcome.Result.Verses)
	}
	if outcome.Result.JSONOutput != "[]" {
		t.Errorf("Expected [] jsonOutput, got %q", outcome.Result.JSONOutput)
	}
}

func TestNormalize_ReasonNamesJSONKind(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: `[]`, want: "top level value is an array"},
		{raw: `42`, want: "top level value is a number"},
		{raw: `{"verses":"SALMO 1"}`, want: "verses must be an array, got a string"},
		{raw: `{"verses":{"a":1}}`, want: "verses must be an array, got an object"},
		{raw: `{"verses":["A",[1]]}`, want: "verses[1] must be a string, got an array"},
	}

	for _, tt := range tests {
		outcome := Normalize(tt.raw)
		if outcome.Reason == nil || !strings.Contains(outcome.Reason.Error(), tt.want) {
			t.Errorf("Expected reason containing %q for %s, got %v", tt.want, tt.raw, outcome.Reason)
		}
		if !strings.Contains(outcome.Result.Verses[2], tt.want) {
			t.Errorf("Expected detail verse to name the kind, got %q", outcome.Result.Verses[2])
		}
	}
}
