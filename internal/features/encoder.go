package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrUnseenLabel is returned by Transform for values that were not present at fit time.
var ErrUnseenLabel = errors.New("unseen label")

// LabelEncoder maps category strings to integer codes.
// Codes are the index of the value in the sorted list of distinct training values.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

type labelEncoderState struct {
	Classes []string `json:"classes"`
}

// NewLabelEncoder creates an encoder fitted on values.
func NewLabelEncoder(values []string) *LabelEncoder {
	e := &LabelEncoder{}
	e.Fit(values)
	return e
}

// Fit replaces the encoder's classes with the distinct values, sorted.
func (e *LabelEncoder) Fit(values []string) {
	seen := make(map[string]struct{}, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)
	e.setClasses(classes)
}

func (e *LabelEncoder) setClasses(classes []string) {
	e.classes = classes
	e.index = make(map[string]int, len(classes))
	for i, c := range classes {
		e.index[c] = i
	}
}

// Classes returns a copy of the fitted classes in code order.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Transform returns the code for value.
func (e *LabelEncoder) Transform(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnseenLabel, value)
	}
	return code, nil
}

// SafeTransform returns the code for value, or 0 if value was never seen.
func (e *LabelEncoder) SafeTransform(value string) int {
	code, err := e.Transform(value)
	if err != nil {
		return 0
	}
	return code
}

// TransformAll encodes every value, failing on the first unseen one.
func (e *LabelEncoder) TransformAll(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		code, err := e.Transform(v)
		if err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

// Save serializes the encoder to w.
func (e *LabelEncoder) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(labelEncoderState{Classes: e.classes})
}

// Load deserializes the encoder from r.
func (e *LabelEncoder) Load(r io.Reader) error {
	var state labelEncoderState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}
	if state.Classes == nil {
		state.Classes = []string{}
	}
	e.setClasses(state.Classes)
	return nil
}
