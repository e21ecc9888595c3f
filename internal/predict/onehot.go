package predict

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/forest"
)

// ArgNames lists the positional arguments accepted by ParseArgs, in order.
var ArgNames = []string{"issue_type", "lat", "lng", "is_rain", "traffic", "blur", "repeat_count", "hour"}

// OneHotPredictor scores records in the one-hot schema.
type OneHotPredictor struct {
	model *forest.Forest

	// InferContext fills missing rain and traffic from coordinates.
	InferContext bool
	// Levels adds a High/Medium/Low label to batch results.
	Levels bool
}

// NewOneHotPredictor creates a predictor for a fitted one-hot model.
func NewOneHotPredictor(model *forest.Forest) (*OneHotPredictor, error) {
	if model == nil {
		return nil, fmt.Errorf("onehot predictor requires a model")
	}
	if err := features.CheckColumns(features.VariantOneHot.Columns(), model.Columns()); err != nil {
		return nil, err
	}
	return &OneHotPredictor{model: model}, nil
}

// Predict scores one record.
func (p *OneHotPredictor) Predict(r features.OneHotRecord) (float64, error) {
	if p.InferContext {
		if !r.RainKnown {
			r.IsRain = InferRain(r.Latitude, r.Longitude)
		}
		if !r.TrafficKnown {
			r.Traffic = InferTraffic(r.Latitude, r.Longitude)
		}
	}
	return p.model.Predict(r.Vector())
}

// ParseArgs builds a record from positional arguments:
// issue_type lat lng is_rain traffic blur repeat_count hour.
// is_rain is true for "true" in any case or "1".
func ParseArgs(args []string) (features.OneHotRecord, error) {
	var r features.OneHotRecord
	if len(args) != len(ArgNames) {
		return r, fmt.Errorf("expected %d arguments (%s), got %d",
			len(ArgNames), strings.Join(ArgNames, " "), len(args))
	}

	floats := make([]float64, 0, 4)
	for _, i := range []int{1, 2, 4, 5} {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
		if err != nil {
			return r, fmt.Errorf("%s: invalid number %q", ArgNames[i], args[i])
		}
		floats = append(floats, v)
	}

	repeat, err := strconv.Atoi(strings.TrimSpace(args[6]))
	if err != nil {
		return r, fmt.Errorf("repeat_count: invalid integer %q", args[6])
	}
	hour, err := strconv.Atoi(strings.TrimSpace(args[7]))
	if err != nil {
		return r, fmt.Errorf("hour: invalid integer %q", args[7])
	}

	rain := strings.TrimSpace(args[3])
	return features.OneHotRecord{
		Type:         args[0],
		Latitude:     floats[0],
		Longitude:    floats[1],
		IsRain:       strings.EqualFold(rain, "true") || rain == "1",
		Traffic:      floats[2],
		Blur:         floats[3],
		RepeatCount:  repeat,
		Hour:         hour,
		RainKnown:    true,
		TrafficKnown: true,
	}, nil
}

// FormatScore renders a score the way the single-record command prints it.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
