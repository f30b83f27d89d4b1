package common

// ProcessingResult is what the user gets back for one request.
// Verses is never nil once a result left the normalizer.
type ProcessingResult struct {
	Verses     []string `json:"verses"`
	JSONOutput string   `json:"jsonOutput"`
}

// EmptyResult is returned when there was nothing to process
func EmptyResult() ProcessingResult {
	return ProcessingResult{
		Verses:     []string{},
		JSONOutput: "",
	}
}

// IsEmpty reports whether the result carries neither verses nor JSON
func (r ProcessingResult) IsEmpty() bool {
	return len(r.Verses) == 0 && r.JSONOutput == ""
}
