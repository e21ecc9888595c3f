package predict

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/civora/priority/internal/features"
)

// BatchResult is the outcome for one input record.
type BatchResult struct {
	ID            json.RawMessage `json:"id"`
	PriorityScore float64         `json:"priority_score"`
	Priority      string          `json:"priority,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// BatchResponse is the JSON reply for a batch.
// Success responses always carry a results array; failures carry only an error.
type BatchResponse struct {
	Success bool
	Results []BatchResult
	Error   string
}

// MarshalJSON emits {"success":true,"results":[...]} or {"success":false,"error":"..."}.
func (r BatchResponse) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, r.Error})
	}
	results := r.Results
	if results == nil {
		results = []BatchResult{}
	}
	return marshal(struct {
		Success bool          `json:"success"`
		Results []BatchResult `json:"results"`
	}{true, results})
}

// marshal encodes v without HTML escaping so echoed ids keep their bytes.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Failures returns the number of records that fell back to the default score.
func (r BatchResponse) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Error != "" {
			n++
		}
	}
	return n
}

// Batch scores a JSON array of records, or a single object treated as a
// one-element array. A failing record gets the fallback score and an error;
// the rest of the batch is unaffected.
func (p *OneHotPredictor) Batch(input []byte) BatchResponse {
	records, err := splitBatch(input)
	if err != nil {
		return BatchResponse{Error: err.Error()}
	}

	results := make([]BatchResult, 0, len(records))
	for _, raw := range records {
		results = append(results, p.batchOne(raw))
	}
	return BatchResponse{Success: true, Results: results}
}

func (p *OneHotPredictor) batchOne(raw json.RawMessage) BatchResult {
	res := BatchResult{ID: json.RawMessage("null")}

	fields, err := features.ParseFields(raw)
	if err != nil {
		return p.fallback(res, err)
	}
	res.ID = fields.Raw("id")

	rec, err := features.DecodeOneHotRecord(fields)
	if err != nil {
		return p.fallback(res, err)
	}
	score, err := p.Predict(rec)
	if err != nil {
		return p.fallback(res, err)
	}

	res.PriorityScore = Round(score, 3)
	if p.Levels {
		res.Priority = Level(res.PriorityScore)
	}
	return res
}

func (p *OneHotPredictor) fallback(res BatchResult, err error) BatchResult {
	res.PriorityScore = BatchFallbackScore
	res.Error = err.Error()
	if p.Levels {
		res.Priority = Level(res.PriorityScore)
	}
	return res
}

func splitBatch(input []byte) ([]json.RawMessage, error) {
	input = bytes.TrimSpace(input)
	if len(input) == 0 {
		return nil, fmt.Errorf("no input")
	}

	switch input[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(input, &records); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return records, nil
	case '{':
		if !json.Valid(input) {
			var probe any
			return nil, fmt.Errorf("invalid json: %w", json.Unmarshal(input, &probe))
		}
		return []json.RawMessage{input}, nil
	default:
		var probe any
		if err := json.Unmarshal(input, &probe); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return nil, fmt.Errorf("expected a JSON array or object")
	}
}
