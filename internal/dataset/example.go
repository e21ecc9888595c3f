package dataset

import (
	"github.com/civora/priority/internal/features"
)

// EncodedRow is a labelled report in the label-encoded schema.
type EncodedRow struct {
	Record   features.EncodedRecord
	Priority float64
}

// ExampleTable returns the built-in example reports used when no CSV is supplied.
func ExampleTable() []EncodedRow {
	return []EncodedRow{
		{features.EncodedRecord{IssueType: "Garbage", Weather: "Rain", Temp: 28, TrafficDelay: 300, RepeatCount: 4, Hour: 10}, 0.9},
		{features.EncodedRecord{IssueType: "Water", Weather: "Clear", Temp: 35, TrafficDelay: 60, RepeatCount: 1, Hour: 14}, 0.3},
		{features.EncodedRecord{IssueType: "Electricity", Weather: "Storm", Temp: 30, TrafficDelay: 420, RepeatCount: 3, Hour: 19}, 0.85},
		{features.EncodedRecord{IssueType: "Road", Weather: "Rain", Temp: 25, TrafficDelay: 180, RepeatCount: 2, Hour: 7}, 0.7},
		{features.EncodedRecord{IssueType: "Garbage", Weather: "Clouds", Temp: 29, TrafficDelay: 240, RepeatCount: 5, Hour: 16}, 0.95},
		{features.EncodedRecord{IssueType: "Water", Weather: "Clear", Temp: 33, TrafficDelay: 90, RepeatCount: 1, Hour: 12}, 0.4},
	}
}

// EncodeRows fits issue-type and weather encoders on rows and returns the
// encoded table together with both encoders.
func EncodeRows(rows []EncodedRow) (Table, *features.LabelEncoder, *features.LabelEncoder) {
	issues := make([]string, len(rows))
	weather := make([]string, len(rows))
	for i, r := range rows {
		issues[i] = r.Record.IssueType
		weather[i] = r.Record.Weather
	}

	issueEnc := features.NewLabelEncoder(issues)
	weatherEnc := features.NewLabelEncoder(weather)

	table := Table{Columns: features.VariantEncoded.Columns()}
	for _, r := range rows {
		table.Append(r.Record.Vector(issueEnc, weatherEnc), r.Priority)
	}
	return table, issueEnc, weatherEnc
}
