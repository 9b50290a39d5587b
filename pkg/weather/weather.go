// Package weather queries the OpenWeatherMap current-weather API.
package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured
	ErrMissingAPIKey = errors.New("weather api key not configured")
	// ErrBadResponse is returned when the payload cannot be decoded
	ErrBadResponse = errors.New("unexpected weather response")
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Condition is one entry of the "weather" array
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Report is the subset of the current-weather payload the bot renders
type Report struct {
	Name       string      `json:"name"`
	Conditions []Condition `json:"weather"`
	Main       struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Rain *struct {
		OneHour *float64 `json:"1h"`
	} `json:"rain"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

// Description returns the first condition's description
func (r *Report) Description() string {
	if len(r.Conditions) == 0 {
		return ""
	}
	return r.Conditions[0].Description
}

// Client calls the weather API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Current fetches the current weather for location in metric units
func (c *Client) Current(ctx context.Context, location string) (*Report, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting weather: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading weather: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if len(report.Conditions) == 0 {
		return nil, fmt.Errorf("%w: no conditions", ErrBadResponse)
	}
	return &report, nil
}

var descriptions = map[string]string{
	"clear sky":        "The sky is clear, and the weather is perfect for any activity",
	"few clouds":       "A few clouds are scattered, but the sky is still clear",
	"scattered clouds": "Clouds are scattered, but the sky is still clear",
	"broken clouds":    "Clouds are broken, but the sky is still clear",
	"shower rain":      "It's raining, but not too much, and it's perfect for a walk",
	"rain":             "It's raining, and you should stay indoors and play videogames",
	"thunderstorm":     "It's a thunderstorm, which is perfect for a stroll",
	"snow":             "It's snowing, and you should stay indoors and enjoy your snowy day",
	"mist":             "It's a mist, which is perfect for a walk",
}

const unknownDescription = "I'm not sure what the weather is like in this location, but it's always good to check outside"

// Describe maps the report's condition to a friendly sentence
func Describe(r *Report) string {
	if d, ok := descriptions[r.Description()]; ok {
		return d
	}
	return unknownDescription
}

// clock renders a unix timestamp as its UTC time of day
func clock(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("15:04:05")
}

// Details renders the long multi-line report
func Details(r *Report) string {
	rain := "No rain"
	if r.Rain != nil && r.Rain.OneHour != nil {
		rain = fmt.Sprintf("%.1f mm", *r.Rain.OneHour)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Temperature: %.1f°C\n", r.Main.Temp)
	fmt.Fprintf(&b, "It feels like: %.1f°C\n", r.Main.FeelsLike)
	fmt.Fprintf(&b, "Humidity: %d%%\n", r.Main.Humidity)
	fmt.Fprintf(&b, "Wind speed: %.1f m/s\n", r.Wind.Speed)
	fmt.Fprintf(&b, "Rain?: %s\n", rain)
	fmt.Fprintf(&b, "Description: %s\n", r.Description())
	fmt.Fprintf(&b, "Sunrise: %s\n", clock(r.Sys.Sunrise))
	fmt.Fprintf(&b, "Sunset: %s", clock(r.Sys.Sunset))
	return b.String()
}
