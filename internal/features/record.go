package features

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Defaults applied when a one-hot record omits a field.
const (
	DefaultIssueType   = "Unknown"
	DefaultLatitude    = 11.9416
	DefaultLongitude   = 79.8083
	DefaultTraffic     = 0.0
	DefaultBlur        = 0.5
	DefaultRepeatCount = 0
	DefaultHour        = 12
)

// EncodedRecord is one report in the label-encoded schema.
type EncodedRecord struct {
	IssueType    string  `json:"issue_type"`
	Weather      string  `json:"weather"`
	Temp         float64 `json:"temp"`
	TrafficDelay float64 `json:"traffic_delay"`
	RepeatCount  int     `json:"repeat_count"`
	Hour         int     `json:"hour"`
}

// Vector encodes the record in column order. Unseen categories become code 0.
func (r EncodedRecord) Vector(issues, weather *LabelEncoder) []float64 {
	return []float64{
		float64(issues.SafeTransform(r.IssueType)),
		float64(weather.SafeTransform(r.Weather)),
		r.Temp,
		r.TrafficDelay,
		float64(r.RepeatCount),
		float64(r.Hour),
	}
}

// OneHotRecord is one report in the one-hot schema.
type OneHotRecord struct {
	Type        string  `json:"type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsRain      bool    `json:"is_rain"`
	Traffic     float64 `json:"traffic"`
	Blur        float64 `json:"blur"`
	RepeatCount int     `json:"repeat_count"`
	Hour        int     `json:"hour"`

	// RainKnown and TrafficKnown record whether the input carried the field.
	RainKnown    bool `json:"-"`
	TrafficKnown bool `json:"-"`
}

// Vector encodes the record in column order.
func (r OneHotRecord) Vector() []float64 {
	pothole, garbage, water := OneHotIssue(r.Type)
	return []float64{
		pothole, garbage, water,
		r.Latitude, r.Longitude, flag(r.IsRain),
		r.Traffic, r.Blur, float64(r.RepeatCount), float64(r.Hour),
	}
}

// Fields is a JSON object keyed by field name.
type Fields map[string]json.RawMessage

// ParseFields decodes a JSON object. Anything other than an object is an error.
func ParseFields(data []byte) (Fields, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	var f Fields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeEncodedRecord builds an EncodedRecord from fields, applying defaults.
func DecodeEncodedRecord(f Fields) (EncodedRecord, error) {
	var (
		r   EncodedRecord
		err error
	)
	r.IssueType = f.String("issue_type", "")
	r.Weather = f.String("weather", "")
	if r.Temp, err = f.Float("temp", 0); err != nil {
		return r, err
	}
	if r.TrafficDelay, err = f.Float("traffic_delay", 0); err != nil {
		return r, err
	}
	if r.RepeatCount, err = f.Int("repeat_count", 0); err != nil {
		return r, err
	}
	if r.Hour, err = f.Int("hour", 0); err != nil {
		return r, err
	}
	return r, nil
}

// DecodeOneHotRecord builds a OneHotRecord from fields, applying defaults.
func DecodeOneHotRecord(f Fields) (OneHotRecord, error) {
	var (
		r   OneHotRecord
		err error
	)
	r.Type = f.String("type", DefaultIssueType)
	if r.Latitude, err = f.Float("latitude", DefaultLatitude); err != nil {
		return r, err
	}
	if r.Longitude, err = f.Float("longitude", DefaultLongitude); err != nil {
		return r, err
	}
	if r.IsRain, err = f.Bool("is_rain", false); err != nil {
		return r, err
	}
	if r.Traffic, err = f.Float("traffic", DefaultTraffic); err != nil {
		return r, err
	}
	if r.Blur, err = f.Float("blur", DefaultBlur); err != nil {
		return r, err
	}
	if r.RepeatCount, err = f.Int("repeat_count", DefaultRepeatCount); err != nil {
		return r, err
	}
	if r.Hour, err = f.Int("hour", DefaultHour); err != nil {
		return r, err
	}
	r.RainKnown = f.Has("is_rain")
	r.TrafficKnown = f.Has("traffic")
	return r, nil
}

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Raw returns the raw value for key, or JSON null when absent.
func (f Fields) Raw(key string) json.RawMessage {
	if raw, ok := f[key]; ok {
		return raw
	}
	return json.RawMessage("null")
}

// String returns the value for key as a string.
// Null or missing yields def; non-string values yield their JSON text.
func (f Fields) String(key, def string) string {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// Float returns the value for key as a float64.
// Numbers, numeric strings and booleans are accepted.
func (f Fields) Float(key string, def float64) (float64, error) {
	raw, ok := f[key]
	if !ok {
		return def, nil
	}
	v, err := scalar(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case bool:
		return flag(x), nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: could not convert %q to float", key, x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%s: unsupported value %s", key, raw)
}

// Int returns the value for key as an int.
// Fractional numbers truncate toward zero; strings must hold an integer.
func (f Fields) Int(key string, def int) (int, error) {
	raw, ok := f[key]
	if !ok {
		return def, nil
	}
	v, err := scalar(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	switch x := v.(type) {
	case float64:
		// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
		if math.Abs(x) >= float64(math.MaxInt) {
			return 0, fmt.Errorf("%s: value %v out of range", key, x)
		}
		return int(math.Trunc(x)), nil
	case bool:
		return int(flag(x)), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("%s: invalid integer %q", key, x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%s: unsupported value %s", key, raw)
}

// Bool returns the value for key as a bool. Numbers are true when non-zero.
func (f Fields) Bool(key string, def bool) (bool, error) {
	raw, ok := f[key]
	if !ok {
		return def, nil
	}
	v, err := scalar(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case float64:
		return x != 0, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, fmt.Errorf("%s: invalid boolean %q", key, x)
		}
		return b, nil
	}
	return false, fmt.Errorf("%s: unsupported value %s", key, raw)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func scalar(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, fmt.Errorf("null value")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case float64, bool, string:
		return v, nil
	}
	return nil, fmt.Errorf("expected a scalar, got %s", raw)
}
