package weather

import "time"

const (
	// LocationMaxAge is in whole seconds.
	LocationMaxAge = 600
	// WeatherMaxAge is compared between hour-truncated timestamps.
	WeatherMaxAge = 3600
)

// LocationStale reports whether the location must be fetched again.
func LocationStale(loc *Location, now time.Time) bool {
	if loc == nil {
		return true
	}
	return int(now.Sub(loc.FetchedAt).Seconds()) > LocationMaxAge
}

// WeatherStale reports whether the weather must be fetched again. Both
// timestamps are truncated to the hour in their own zone first, so a fetch
// at 10:59 is stale at 11:00.
func WeatherStale(w *Weather, now time.Time, locationChanged bool) bool {
	if w == nil || locationChanged {
		return true
	}
	return int(truncHour(now).Sub(truncHour(w.FetchedAt)).Seconds()) >= WeatherMaxAge
}

func truncHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// LocationChanged compares against the previous pair; no previous pair
// counts as a change.
func LocationChanged(prev *Coords, loc Location) bool {
	if prev == nil {
		return true
	}
	return *prev != loc.Coords()
}
