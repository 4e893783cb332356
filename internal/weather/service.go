package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Service owns the cached location and weather. Fetch* methods do I/O and
// persist snapshots but leave the cached records alone; Set* apply results
// and must be called from the goroutine that reads the records.
type Service struct {
	client *Client
	store  *Store
	logger *slog.Logger
	now    func() time.Time

	location *Location
	weather  *Weather
	previous *Coords
}

type ServiceOption func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(client *Client, store *Store, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{client: client, store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Now() time.Time      { return s.now() }
func (s *Service) Location() *Location { return s.location }
func (s *Service) Weather() *Weather   { return s.weather }
func (s *Service) IconPath() string    { return s.store.IconPath() }

func (s *Service) LocationStale() bool { return LocationStale(s.location, s.now()) }

func (s *Service) WeatherStale(locationChanged bool) bool {
	return WeatherStale(s.weather, s.now(), locationChanged)
}

// Load reads both snapshots. A missing or unusable snapshot leaves the
// record empty so that it is fetched.
func (s *Service) Load() {
	if snap, err := s.store.Load(LocationFile); err == nil {
		loc, err := ParseLocation(snap)
		if err != nil {
			s.logger.Warn("ignoring location snapshot", slog.Any("err", err))
		} else {
			s.location = &loc
			c := loc.Coords()
			s.previous = &c
		}
	} else if !errors.Is(err, ErrNoSnapshot) {
		s.logger.Warn("ignoring location snapshot", slog.Any("err", err))
	}

	if snap, err := s.store.Load(ForecastFile); err == nil {
		w, err := ParseWeather(snap)
		if err != nil {
			s.logger.Warn("ignoring forecast snapshot", slog.Any("err", err))
		} else {
			s.weather = &w
		}
	} else if !errors.Is(err, ErrNoSnapshot) {
		s.logger.Warn("ignoring forecast snapshot", slog.Any("err", err))
	}
}

// FetchLocation calls the geolocation endpoint and persists the stamped
// response.
func (s *Service) FetchLocation(ctx context.Context) (Location, error) {
	snap, err := s.client.Location(ctx)
	if err != nil {
		return Location{}, err
	}
	snap.Stamp(s.now())
	loc, err := ParseLocation(snap)
	if err != nil {
		return Location{}, fmt.Errorf("location: %w", err)
	}
	if err := s.store.Save(LocationFile, snap); err != nil {
		return Location{}, err
	}
	s.logger.Info("location updated", slog.String("location", loc.String()))
	return loc, nil
}

// FetchWeather calls the weather endpoint for loc, persists the stamped
// response and downloads its icon. An error wrapping ErrIcon still comes
// with valid weather.
func (s *Service) FetchWeather(ctx context.Context, loc Location) (Weather, error) {
	snap, err := s.client.Weather(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return Weather{}, err
	}
	snap.Stamp(s.now())
	w, err := ParseWeather(snap)
	if err != nil {
		return Weather{}, fmt.Errorf("weather: %w", err)
	}
	if err := s.store.Save(ForecastFile, snap); err != nil {
		return Weather{}, err
	}
	s.logger.Info("weather updated", slog.String("description", w.Description), slog.String("icon", w.Icon))
	return w, s.downloadIcon(ctx, w.Icon)
}

func (s *Service) downloadIcon(ctx context.Context, icon string) error {
	data, err := s.client.Icon(ctx, icon)
	if err != nil {
		return err
	}
	if err := s.store.SaveIcon(data); err != nil {
		return fmt.Errorf("%w: %v", ErrIcon, err)
	}
	return nil
}

// SetLocation stores loc and reports whether its coordinates differ from
// the previous ones.
func (s *Service) SetLocation(loc Location) bool {
	changed := LocationChanged(s.previous, loc)
	s.location = &loc
	c := loc.Coords()
	s.previous = &c
	return changed
}

func (s *Service) SetWeather(w Weather) { s.weather = &w }

// Start loads the snapshots and refreshes what is stale. A changed location
// always refreshes the weather. It fails only when a record is still
// missing afterwards.
func (s *Service) Start(ctx context.Context) error {
	s.Load()

	changed := false
	if s.LocationStale() {
		loc, err := s.FetchLocation(ctx)
		switch {
		case err == nil:
			changed = s.SetLocation(loc)
		case s.location == nil:
			return err
		default:
			s.logger.Warn("keeping cached location", slog.Any("err", err))
		}
	}

	if s.WeatherStale(changed) {
		w, err := s.FetchWeather(ctx, *s.location)
		switch {
		case err == nil || errors.Is(err, ErrIcon):
			s.SetWeather(w)
			if err != nil {
				s.logger.Warn("weather icon unavailable", slog.Any("err", err))
			}
		case s.weather == nil:
			return err
		default:
			s.logger.Warn("keeping cached weather", slog.Any("err", err))
		}
	} else if !s.store.HasIcon() {
		if err := s.downloadIcon(ctx, s.weather.Icon); err != nil {
			s.logger.Warn("weather icon unavailable", slog.Any("err", err))
		}
	}
	return nil
}
