package predict

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/storage"
)

// SingleResponse is the JSON reply for one label-encoded record.
// Input errors carry only Error; prediction failures carry Error and a zero score.
type SingleResponse struct {
	Error         string   `json:"error,omitempty"`
	PriorityScore *float64 `json:"priority_score,omitempty"`
}

// Failed reports whether the response carries an error.
func (r SingleResponse) Failed() bool {
	return r.Error != ""
}

func scoreResponse(score float64) SingleResponse {
	return SingleResponse{PriorityScore: &score}
}

// Failure reports err with the zero fallback score.
func Failure(err error) SingleResponse {
	score := EncodedFallbackScore
	return SingleResponse{Error: err.Error(), PriorityScore: &score}
}

// EncodedPredictor scores records in the label-encoded schema.
type EncodedPredictor struct {
	artifacts *storage.Artifacts
}

// NewEncodedPredictor creates a predictor from loaded encoded-variant artifacts.
func NewEncodedPredictor(a *storage.Artifacts) (*EncodedPredictor, error) {
	if a == nil || a.Model == nil || a.IssueEncoder == nil || a.WeatherEncoder == nil {
		return nil, fmt.Errorf("encoded predictor requires a model and both encoders")
	}
	return &EncodedPredictor{artifacts: a}, nil
}

// Predict scores one record. Negative model output is reported as 0; there is no upper clip.
func (p *EncodedPredictor) Predict(r features.EncodedRecord) (float64, error) {
	vec := r.Vector(p.artifacts.IssueEncoder, p.artifacts.WeatherEncoder)
	score, err := p.artifacts.Model.Predict(vec)
	if err != nil {
		return 0, err
	}
	return max(score, 0), nil
}

// Respond handles one raw stdin payload and never fails: every problem is
// reported inside the response.
func (p *EncodedPredictor) Respond(input []byte) SingleResponse {
	input = bytes.TrimSpace(input)
	if len(input) == 0 {
		return SingleResponse{Error: "no input"}
	}

	var probe any
	if err := json.Unmarshal(input, &probe); err != nil {
		return SingleResponse{Error: fmt.Sprintf("invalid json: %v", err)}
	}

	fields, err := features.ParseFields(input)
	if err != nil {
		return Failure(err)
	}
	rec, err := features.DecodeEncodedRecord(fields)
	if err != nil {
		return Failure(err)
	}

	score, err := p.Predict(rec)
	if err != nil {
		return Failure(err)
	}
	return scoreResponse(Round(score, 2))
}
