package services

import (
	"time"

	"github.com/sabbirahmed/eventhub-backend/internal/query"
)

// applyPeriodFilter turns a named filterBy shortcut into explicit
// startDate/endDate bounds against the runtime clock, and removes filterBy
// from the description before it reaches the query translator. The input
// mapping is never mutated.
//
// Week windows start on Sunday at midnight. An unrecognized name degrades to
// epoch..now. Without filterBy the params pass through unchanged.
func applyPeriodFilter(params query.Params, now time.Time) query.Params {
	out := params.Clone()

	name := out["filterBy"]
	if name == "" {
		return out
	}
	delete(out, "filterBy")

	start, end := periodRange(name, now)
	out["startDate"] = start.Format(time.RFC3339)
	out["endDate"] = end.Format(time.RFC3339)
	return out
}

func periodRange(name string, now time.Time) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch name {
	case "today":
		return midnight, midnight.AddDate(0, 0, 1)
	case "current-week":
		start := midnight.AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7)
	case "last-week":
		start := midnight.AddDate(0, 0, -int(now.Weekday())-7)
		return start, start.AddDate(0, 0, 7)
	case "current-month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	case "last-month":
		end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return end.AddDate(0, -1, 0), end
	default:
		return time.Unix(0, 0), now
	}
}
