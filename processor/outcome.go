package processor

import (
	"errors"

	"github.com/bitrise-io/ai-verse-processor/common"
)

// Kind tells whether the model output could be used as is
type Kind string

const (
	KindOK       Kind = "ok"
	KindDegraded Kind = "degraded"
)

var (
	// ErrEmptyResponse is the degraded reason when the model answered with no text
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrInvalidJSON is the degraded reason when the answer is not a JSON object
	ErrInvalidJSON = errors.New("response is not a valid JSON object")
	// ErrSchema is the degraded reason when the object does not have the expected fields
	ErrSchema = errors.New("response does not match the expected schema")
)

// Outcome is the normalizer's tagged result. Callers outside the package only
// see Result; Kind and Reason feed logs and metrics.
type Outcome struct {
	Kind   Kind
	Result common.ProcessingResult
	Reason error
}

// Degraded reports whether the result is the synthetic error result
func (o Outcome) Degraded() bool {
	return o.Kind == KindDegraded
}
