package weather

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

const locationBody = `{"ip":"203.0.113.9","country_code":"AU","country_name":"Australia","region_code":"VIC","region_name":"Victoria","city":"Melbourne","zip_code":"3000","time_zone":"Australia/Melbourne","latitude":-37.8159,"longitude":144.9669,"metro_code":0}`

const weatherBody = `{"coord":{"lon":144.9669,"lat":-37.8159},"weather":[{"id":803,"main":"Clouds","description":"broken clouds","icon":"04d"}],"base":"stations","main":{"temp":293.15,"feels_like":292.8,"temp_min":291.1,"temp_max":295.4,"pressure":1013,"humidity":65},"visibility":10000,"wind":{"speed":3.6,"deg":200},"clouds":{"all":75},"dt":1709287200,"name":"Melbourne","cod":200}`

func stamped(t *testing.T, body string, at time.Time) Snapshot {
	t.Helper()
	snap, err := DecodeSnapshot([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	snap.Stamp(at)
	return snap
}

func TestParseLocation(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	loc, err := ParseLocation(stamped(t, locationBody, at))
	if err != nil {
		t.Fatalf("ParseLocation: %v", err)
	}
	if loc.City != "Melbourne" || loc.Region != "Victoria" || loc.Country != "Australia" {
		t.Fatalf("location = %+v", loc)
	}
	if loc.Latitude != -37.8159 || loc.Longitude != 144.9669 {
		t.Fatalf("coords = %v,%v", loc.Latitude, loc.Longitude)
	}
	if !loc.FetchedAt.Equal(at) {
		t.Fatalf("fetched = %v", loc.FetchedAt)
	}
	if got := loc.String(); got != "Melbourne Victoria, Australia" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseLocationErrors(t *testing.T) {
	at := time.Now()
	if _, err := ParseLocation(stamped(t, `{"city":"x","longitude":1}`, at)); !IsMissingField(err) {
		t.Fatalf("missing latitude: %v", err)
	}
	if _, err := ParseLocation(stamped(t, `{"latitude":"north","longitude":1}`, at)); !IsDecode(err) {
		t.Fatalf("string latitude: %v", err)
	}
	snap, _ := DecodeSnapshot([]byte(locationBody))
	if _, err := ParseLocation(snap); !IsMissingField(err) {
		t.Fatalf("missing fetch time: %v", err)
	}
}

func TestParseWeather(t *testing.T) {
	w, err := ParseWeather(stamped(t, weatherBody, time.Now()))
	if err != nil {
		t.Fatalf("ParseWeather: %v", err)
	}
	if w.TempK != 293.15 || w.Humidity != 65 || w.Pressure != 1013 || w.WindSpeed != 3.6 {
		t.Fatalf("weather = %+v", w)
	}
	if w.Description != "broken clouds" || w.Icon != "04d" {
		t.Fatalf("conditions = %q %q", w.Description, w.Icon)
	}
	if got := w.Celsius(); got != 20 {
		t.Fatalf("Celsius() = %v", got)
	}
	if got := w.Summary(); got != "Broken Clouds" {
		t.Fatalf("Summary() = %q", got)
	}
}

func TestParseWeatherMissingFields(t *testing.T) {
	drop := func(mutate func(m map[string]any)) string {
		var m map[string]any
		if err := json.Unmarshal([]byte(weatherBody), &m); err != nil {
			t.Fatal(err)
		}
		mutate(m)
		b, _ := json.Marshal(m)
		return string(b)
	}

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"main", drop(func(m map[string]any) { delete(m, "main") }), "main"},
		{"temp", drop(func(m map[string]any) { delete(m["main"].(map[string]any), "temp") }), "main.temp"},
		{"humidity", drop(func(m map[string]any) { delete(m["main"].(map[string]any), "humidity") }), "main.humidity"},
		{"pressure", drop(func(m map[string]any) { delete(m["main"].(map[string]any), "pressure") }), "main.pressure"},
		{"wind speed", drop(func(m map[string]any) { m["wind"] = map[string]any{} }), "wind.speed"},
		{"no conditions", drop(func(m map[string]any) { m["weather"] = []any{} }), "weather[0]"},
		{"icon", drop(func(m map[string]any) { m["weather"] = []any{map[string]any{"description": "rain"}} }), "weather[0].icon"},
		{"description", drop(func(m map[string]any) { m["weather"] = []any{map[string]any{"icon": "10d"}} }), "weather[0].description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWeather(stamped(t, tt.body, time.Now()))
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("err = %v, want ErrMissingField", err)
			}
			if !strings.HasSuffix(err.Error(), tt.field) {
				t.Fatalf("err = %v, want field %s", err, tt.field)
			}
		})
	}
}

func TestCelsiusRounding(t *testing.T) {
	tests := []struct {
		kelvin float64
		want   float64
	}{
		{273.15, 0},
		{300.0, 26.9},
		{263.15, -10},
		{288.71, 15.6},
	}
	for _, tt := range tests {
		if got := (Weather{TempK: tt.kelvin}).Celsius(); got != tt.want {
			t.Errorf("Celsius(%v) = %v, want %v", tt.kelvin, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	w := Weather{Description: "  light   intensity DRIZZLE "}
	if got := w.Summary(); got != "Light Intensity Drizzle" {
		t.Fatalf("Summary() = %q", got)
	}
}
