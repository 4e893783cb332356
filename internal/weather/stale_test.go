package weather

import (
	"testing"
	"time"
)

func TestLocationStale(t *testing.T) {
	fetched := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	loc := &Location{FetchedAt: fetched}

	tests := []struct {
		name string
		loc  *Location
		now  time.Time
		want bool
	}{
		{"no location", nil, fetched, true},
		{"fresh", loc, fetched.Add(time.Minute), false},
		{"599 seconds", loc, fetched.Add(599 * time.Second), false},
		{"600 seconds", loc, fetched.Add(600 * time.Second), false},
		{"600.9 seconds truncates", loc, fetched.Add(600*time.Second + 900*time.Millisecond), false},
		{"601 seconds", loc, fetched.Add(601 * time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocationStale(tt.loc, tt.now); got != tt.want {
				t.Fatalf("LocationStale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeatherStale(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2024, 3, 1, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		fetched time.Time
		now     time.Time
		changed bool
		want    bool
	}{
		{"same hour", at(10, 0), at(10, 59), false, false},
		{"hour boundary", at(10, 59), at(11, 0), false, true},
		{"two hours", at(9, 30), at(11, 10), false, true},
		{"location changed", at(10, 0), at(10, 1), true, true},
		{"clock behind fetch", at(11, 0), at(10, 0), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Weather{FetchedAt: tt.fetched}
			if got := WeatherStale(w, tt.now, tt.changed); got != tt.want {
				t.Fatalf("WeatherStale = %v, want %v", got, tt.want)
			}
		})
	}

	if !WeatherStale(nil, at(10, 0), false) {
		t.Fatal("missing weather must be stale")
	}
}

func TestWeatherStaleOwnZones(t *testing.T) {
	// 10:30 at +05:30 is 05:00 UTC; truncated in its own zone it is 10:00
	// there, i.e. 04:30 UTC.
	india := time.FixedZone("IST", 5*3600+1800)
	fetched := time.Date(2024, 3, 1, 10, 30, 0, 0, india)
	now := time.Date(2024, 3, 1, 5, 20, 0, 0, time.UTC)
	if WeatherStale(&Weather{FetchedAt: fetched}, now, false) {
		t.Fatal("05:00 UTC vs 04:30 UTC is under an hour")
	}
	now = time.Date(2024, 3, 1, 5, 40, 0, 0, time.UTC)
	if WeatherStale(&Weather{FetchedAt: fetched}, now, false) {
		t.Fatal("05:00 UTC vs 04:30 UTC is under an hour")
	}
	now = time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	if !WeatherStale(&Weather{FetchedAt: fetched}, now, false) {
		t.Fatal("06:00 UTC vs 04:30 UTC is over an hour")
	}
}

func TestLocationChanged(t *testing.T) {
	loc := Location{Latitude: -37.81, Longitude: 144.96}
	if !LocationChanged(nil, loc) {
		t.Fatal("no previous pair counts as changed")
	}
	if LocationChanged(&Coords{Latitude: -37.81, Longitude: 144.96}, loc) {
		t.Fatal("same pair is not a change")
	}
	if !LocationChanged(&Coords{Latitude: -37.81, Longitude: 144.97}, loc) {
		t.Fatal("different longitude is a change")
	}
}
