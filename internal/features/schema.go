package features

import (
	"errors"
	"fmt"
)

// Variant identifies a feature schema. Trainer and predictor must agree on it.
type Variant string

const (
	// VariantEncoded uses label-encoded issue type and weather (6 columns).
	VariantEncoded Variant = "encoded"
	// VariantOneHot uses one-hot issue flags plus location and context (10 columns).
	VariantOneHot Variant = "onehot"
)

// IsValid checks if the variant is known.
func (v Variant) IsValid() bool {
	switch v {
	case VariantEncoded, VariantOneHot:
		return true
	}
	return false
}

// String returns string representation.
func (v Variant) String() string {
	return string(v)
}

// Columns returns the ordered column names of the variant's feature vector.
func (v Variant) Columns() []string {
	switch v {
	case VariantEncoded:
		return append([]string(nil), encodedColumns...)
	case VariantOneHot:
		return append([]string(nil), oneHotColumns...)
	default:
		return nil
	}
}

// Width returns the number of columns in the variant's feature vector.
func (v Variant) Width() int {
	return len(v.Columns())
}

// ParseVariant converts a string to a Variant.
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.IsValid() {
		return "", fmt.Errorf("unknown variant: %q (valid: encoded, onehot)", s)
	}
	return v, nil
}

var (
	encodedColumns = []string{
		"issue_type_encoded", "weather_encoded", "temp", "traffic_delay", "repeat_count", "hour",
	}
	oneHotColumns = []string{
		"is_pothole", "is_garbage", "is_water", "lat", "lng", "is_rain",
		"traffic", "blur", "repeat_count", "hour",
	}
)

// ErrFeatureWidth is returned when a vector does not match the expected column count.
var ErrFeatureWidth = errors.New("feature vector width mismatch")

// CheckColumns verifies that got matches want exactly, in order.
func CheckColumns(want, got []string) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: want %d columns, got %d", ErrFeatureWidth, len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrFeatureWidth, i, got[i], want[i])
		}
	}
	return nil
}

// Issue types recognised by the one-hot schema.
const (
	IssuePothole     = "Pothole"
	IssueGarbage     = "Garbage"
	IssueWater       = "Water"
	IssueStreetlight = "Streetlight"
)

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// OneHotIssue returns the (is_pothole, is_garbage, is_water) flags for issueType.
// Matching is exact; any other type yields all zeros.
func OneHotIssue(issueType string) (pothole, garbage, water float64) {
	return flag(issueType == IssuePothole), flag(issueType == IssueGarbage), flag(issueType == IssueWater)
}
