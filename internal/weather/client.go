package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLocationURL = "https://freegeoip.app/json/"
	DefaultWeatherURL  = "https://api.openweathermap.org/data/2.5/weather"
	DefaultIconURL     = "https://openweathermap.org/img/wn/{icon}@2x.png"

	maxBody = 4 << 20
)

type ClientOptions struct {
	APIKey      string
	LocationURL string
	WeatherURL  string
	// IconURL contains "{icon}" where the icon id goes.
	IconURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the geolocation, weather and icon endpoints.
type Client struct {
	opts   ClientOptions
	client *http.Client
}

func NewClient(opts ClientOptions) *Client {
	if opts.LocationURL == "" {
		opts.LocationURL = DefaultLocationURL
	}
	if opts.WeatherURL == "" {
		opts.WeatherURL = DefaultWeatherURL
	}
	if opts.IconURL == "" {
		opts.IconURL = DefaultIconURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{opts: opts, client: client}
}

// Location looks up the caller's position from its IP address.
func (c *Client) Location(ctx context.Context) (Snapshot, error) {
	b, err := c.get(ctx, c.opts.LocationURL)
	if err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}
	snap, err := DecodeSnapshot(b)
	if err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}
	return snap, nil
}

// Weather fetches current conditions at lat/lon. Without an API key it
// fails before touching the network.
func (c *Client) Weather(ctx context.Context, lat, lon float64) (Snapshot, error) {
	if c.opts.APIKey == "" {
		return nil, fmt.Errorf("weather: %w", ErrNoAPIKey)
	}
	u, err := url.Parse(c.opts.WeatherURL)
	if err != nil {
		return nil, fmt.Errorf("weather url: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.opts.APIKey)
	u.RawQuery = q.Encode()

	b, err := c.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	snap, err := DecodeSnapshot(b)
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	return snap, nil
}

// Icon downloads the image for an icon id such as "04d".
func (c *Client) Icon(ctx context.Context, icon string) ([]byte, error) {
	u := strings.ReplaceAll(c.opts.IconURL, "{icon}", url.PathEscape(icon))
	b, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIcon, icon, err)
	}
	return b, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	c.opts.Logger.Debug("http get", slog.String("host", req.URL.Host), slog.String("path", req.URL.Path), slog.Int("status", resp.StatusCode), slog.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}
