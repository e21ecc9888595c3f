package dataset

import (
	"math/rand/v2"

	"github.com/civora/priority/internal/features"
)

// OneHotRow is a labelled report in the one-hot schema.
type OneHotRow struct {
	Record   features.OneHotRecord
	Priority float64
}

// Score bounds applied to the synthetic ground truth.
const (
	MinPriority = 0.1
	MaxPriority = 0.99
)

var syntheticIssueTypes = []string{features.IssuePothole, features.IssueGarbage, features.IssueStreetlight}

// Generate simulates n labelled reports around Puducherry and Tamil Nadu.
// The same seed always yields the same rows.
func Generate(n int, seed uint64) []OneHotRow {
	rng := rand.New(rand.NewPCG(seed, seed))
	rows := make([]OneHotRow, 0, n)

	for range n {
		lat := 10.0 + 4.0*rng.Float64()
		lng := 76.0 + 4.5*rng.Float64()
		issue := syntheticIssueTypes[rng.IntN(len(syntheticIssueTypes))]

		// Rain is only simulated in the southern band.
		rain := lat >= 10.0 && lat <= 12.0 && rng.Float64() < 0.6

		var traffic float64
		switch u := rng.Float64(); {
		case u < 0.3:
			traffic = 0
		case u < 0.8:
			traffic = 0.5
		default:
			traffic = 1
		}

		rec := features.OneHotRecord{
			Type:        issue,
			Latitude:    lat,
			Longitude:   lng,
			IsRain:      rain,
			Traffic:     traffic,
			Blur:        rng.Float64(),
			RepeatCount: rng.IntN(5),
			Hour:        rng.IntN(24),
		}
		rows = append(rows, OneHotRow{Record: rec, Priority: GroundTruth(rec)})
	}
	return rows
}

// GroundTruth is the hand-authored priority formula the synthetic labels follow.
func GroundTruth(r features.OneHotRecord) float64 {
	var score float64
	switch r.Type {
	case features.IssuePothole:
		score += 0.35
	case features.IssueGarbage:
		score += 0.25
	case features.IssueWater:
		score += 0.2
	}

	if r.IsRain {
		score += 0.2
	}

	switch r.Traffic {
	case 1:
		score += 0.15
	case 0.5:
		score += 0.05
	}

	if r.Blur < 0.3 {
		score += 0.1
	}

	switch {
	case r.RepeatCount >= 3:
		score += 0.15
	case r.RepeatCount >= 1:
		score += 0.05
	}

	if r.Hour >= 18 && r.Hour <= 22 {
		score += 0.1
	}

	return min(max(score, MinPriority), MaxPriority)
}

// OneHotTable converts rows into a numeric table.
func OneHotTable(rows []OneHotRow) Table {
	table := Table{Columns: features.VariantOneHot.Columns()}
	for _, r := range rows {
		table.Append(r.Record.Vector(), r.Priority)
	}
	return table
}
