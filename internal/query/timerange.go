// filename: internal/query/timerange.go
package query

import (
	"strings"
	"time"

	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/models"
)

// DefaultPreset окно запроса, когда preset не задан
const DefaultPreset = models.Preset30d

// ResolveTimeRange строит окно из preset и необязательных from/to в RFC3339.
// Явные from/to дают custom окно, отсутствующая граница берется из preset. // v1.0
func ResolveTimeRange(preset, fromStr, toStr string, now time.Time) (models.TimeRange, error) {
	p := models.TimePreset(strings.ToLower(strings.TrimSpace(preset)))
	if p == "" {
		p = DefaultPreset
	}
	rng := models.RangeFromPreset(p, now)

	if fromStr == "" && toStr == "" {
		return rng, nil
	}

	if fromStr != "" {
		from, err := time.Parse(time.RFC3339Nano, fromStr)
		if err != nil {
			return rng, errors.Wrap(err, errors.ErrorCodeInvalidTimeRange, "from must be an RFC3339 timestamp").
				AddDetail("from", fromStr)
		}
		rng.From = from.UTC()
	}
	if toStr != "" {
		to, err := time.Parse(time.RFC3339Nano, toStr)
		if err != nil {
			return rng, errors.Wrap(err, errors.ErrorCodeInvalidTimeRange, "to must be an RFC3339 timestamp").
				AddDetail("to", toStr)
		}
		rng.To = to.UTC()
	}
	rng.Preset = models.PresetCustom

	if err := rng.Validate(); err != nil {
		return rng, errors.Wrap(err, errors.ErrorCodeInvalidTimeRange, models.ValidationMessage(err))
	}
	return rng, nil
}
