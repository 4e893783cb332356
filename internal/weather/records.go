package weather

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Location is the result of the IP geolocation lookup.
type Location struct {
	City      string
	Region    string
	Country   string
	Latitude  float64
	Longitude float64
	FetchedAt time.Time
}

// String formats the location as "City Region, Country".
func (l Location) String() string {
	return fmt.Sprintf("%s %s, %s", l.City, l.Region, l.Country)
}

// Coords is a latitude/longitude pair compared exactly.
type Coords struct {
	Latitude  float64
	Longitude float64
}

func (l Location) Coords() Coords { return Coords{Latitude: l.Latitude, Longitude: l.Longitude} }

// Weather is the current conditions at a location.
type Weather struct {
	TempK       float64
	Humidity    float64
	Pressure    float64
	WindSpeed   float64
	Description string
	Icon        string
	FetchedAt   time.Time
}

// Celsius converts the temperature, rounded to one decimal.
func (w Weather) Celsius() float64 {
	return math.Round((w.TempK-273.15)*10) / 10
}

// Summary capitalises every word of the description.
func (w Weather) Summary() string {
	title := cases.Title(language.English)
	words := strings.Fields(w.Description)
	for i, word := range words {
		words[i] = title.String(word)
	}
	return strings.Join(words, " ")
}

func ParseLocation(s Snapshot) (Location, error) {
	var loc Location
	if err := s.field("latitude", &loc.Latitude); err != nil {
		return Location{}, err
	}
	if err := s.field("longitude", &loc.Longitude); err != nil {
		return Location{}, err
	}
	s.optional("city", &loc.City)
	s.optional("region_name", &loc.Region)
	s.optional("country_name", &loc.Country)
	t, err := s.FetchedAt()
	if err != nil {
		return Location{}, err
	}
	loc.FetchedAt = t
	return loc, nil
}

type mainFields struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
	Pressure *float64 `json:"pressure"`
}

type windFields struct {
	Speed *float64 `json:"speed"`
}

type conditionFields struct {
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

func ParseWeather(s Snapshot) (Weather, error) {
	var (
		main       mainFields
		wind       windFields
		conditions []conditionFields
	)
	if err := s.field("main", &main); err != nil {
		return Weather{}, err
	}
	if err := s.field("wind", &wind); err != nil {
		return Weather{}, err
	}
	if err := s.field("weather", &conditions); err != nil {
		return Weather{}, err
	}

	var w Weather
	for _, f := range []struct {
		name string
		v    *float64
		dst  *float64
	}{
		{"main.temp", main.Temp, &w.TempK},
		{"main.humidity", main.Humidity, &w.Humidity},
		{"main.pressure", main.Pressure, &w.Pressure},
		{"wind.speed", wind.Speed, &w.WindSpeed},
	} {
		if f.v == nil {
			return Weather{}, fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
		*f.dst = *f.v
	}
	if len(conditions) == 0 {
		return Weather{}, fmt.Errorf("%w: weather[0]", ErrMissingField)
	}
	if conditions[0].Description == nil {
		return Weather{}, fmt.Errorf("%w: weather[0].description", ErrMissingField)
	}
	if conditions[0].Icon == nil {
		return Weather{}, fmt.Errorf("%w: weather[0].icon", ErrMissingField)
	}
	w.Description = *conditions[0].Description
	w.Icon = *conditions[0].Icon

	t, err := s.FetchedAt()
	if err != nil {
		return Weather{}, err
	}
	w.FetchedAt = t
	return w, nil
}
