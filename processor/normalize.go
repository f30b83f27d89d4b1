package processor

import (
	"bytes"
	"strings"

	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Lines of the synthetic result shown when the model output is unusable
const (
	degradedHeadline = "Error al procesar con IA."
	degradedHint     = "Verifica tu conexión o intenta de nuevo."
	degradedDetail   = "Detalle: "
	degradedJSON     = `{"error":"Failed to process text"}`
)

// Width 0 keeps every array element on its own line, which makes the output stable under re-printing
var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Normalize turns raw model output into a ProcessingResult. It never fails:
// unusable output becomes a degraded Outcome carrying the synthetic error result.
func Normalize(raw string) Outcome {
	content := cleanJSONResponse(raw)
	if content == "" {
		return degraded(ErrEmptyResponse)
	}

	doc, err := validate(content)
	if err != nil {
		return degraded(err)
	}

	verses := []string{}
	if value := doc.Get(versesField); value.IsArray() {
		value.ForEach(func(_, verse gjson.Result) bool {
			verses = append(verses, verse.String())
			return true
		})
	}

	return Outcome{
		Kind: KindOK,
		Result: common.ProcessingResult{
			Verses:     verses,
			JSONOutput: normalizeJSONOutput(doc.Get(jsonOutputField)),
		},
	}
}

// normalizeJSONOutput pretty prints jsonOutput. A string holding JSON is re-indented,
// a string that is not JSON is kept verbatim.
func normalizeJSONOutput(value gjson.Result) string {
	switch {
	case !value.Exists():
		return ""
	case value.Type == gjson.Null:
		return ""
	case value.Type == gjson.String:
		inner := value.String()
		if !gjson.Valid(inner) {
			return inner
		}
		return prettyJSON(inner)
	}
	return prettyJSON(value.Raw)
}

// prettyJSON re-indents valid JSON with two spaces, keeping key order
func prettyJSON(raw string) string {
	out := pretty.PrettyOptions([]byte(raw), prettyOptions)
	return string(bytes.TrimRight(out, "\n"))
}

func degraded(reason error) Outcome {
	return Outcome{
		Kind:   KindDegraded,
		Result: DegradedResult(reason),
		Reason: reason,
	}
}

// DegradedResult is the result shown when processing failed softly
func DegradedResult(reason error) common.ProcessingResult {
	detail := "desconocido"
	if reason != nil {
		detail = reason.Error()
	}

	errorJSON, err := sjson.Set(degradedJSON, "detail", detail)
	if err != nil {
		errorJSON = degradedJSON
	}

	return common.ProcessingResult{
		Verses: []string{
			degradedHeadline,
			degradedHint,
			degradedDetail + strings.TrimSpace(detail),
		},
		JSONOutput: prettyJSON(errorJSON),
	}
}
