// Package weather fetches current weather from OpenWeatherMap: a geocode
// lookup by city name followed by a current-weather lookup by coordinates.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/sjpark-dev/weather-diary/internal/diary"
)

// ErrUpstream is returned when the weather API is unreachable or its
// response cannot be parsed.
var ErrUpstream = errors.New("upstream weather api failure")

// Client talks to the OpenWeatherMap API. Outbound calls go through a
// circuit breaker; there are no retries.
type Client struct {
	client     *http.Client
	apiKey     string
	geoURL     string
	weatherURL string
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates a Client using the shared HTTP client and API key.
func NewClient(client *http.Client, apiKey string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		client:     client,
		apiKey:     apiKey,
		geoURL:     "https://api.openweathermap.org/geo/1.0/direct",
		weatherURL: "https://api.openweathermap.org/data/2.5/weather",
		circuit:    cb,
	}
}

// FetchCurrentWeather resolves the city to coordinates, then fetches the
// current weather for them.
func (c *Client) FetchCurrentWeather(ctx context.Context, city string) (diary.WeatherSnapshot, error) {
	lat, lon, err := c.geocode(ctx, city)
	if err != nil {
		return diary.WeatherSnapshot{}, err
	}
	return c.currentWeather(ctx, lat, lon)
}

func (c *Client) geocode(ctx context.Context, city string) (float64, float64, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("limit", "1")
	values.Set("appid", c.apiKey)

	body, err := c.fetchBody(ctx, fmt.Sprintf("%s?%s", c.geoURL, values.Encode()))
	if err != nil {
		return 0, 0, err
	}

	var results []struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, 0, fmt.Errorf("%w: unparseable geocode response: %s", ErrUpstream, snippet(body))
	}
	if len(results) == 0 || results[0].Lat == nil || results[0].Lon == nil {
		return 0, 0, fmt.Errorf("%w: geocode response has no coordinates: %s", ErrUpstream, snippet(body))
	}

	return *results[0].Lat, *results[0].Lon, nil
}

func (c *Client) currentWeather(ctx context.Context, lat, lon float64) (diary.WeatherSnapshot, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("appid", c.apiKey)

	body, err := c.fetchBody(ctx, fmt.Sprintf("%s?%s", c.weatherURL, values.Encode()))
	if err != nil {
		return diary.WeatherSnapshot{}, err
	}

	var payload struct {
		Main *struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
			Icon string `json:"icon"`
		} `json:"weather"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return diary.WeatherSnapshot{}, fmt.Errorf("%w: unparseable weather response: %s", ErrUpstream, snippet(body))
	}
	if payload.Main == nil || payload.Main.Temp == nil || len(payload.Weather) == 0 {
		return diary.WeatherSnapshot{}, fmt.Errorf("%w: weather response is missing fields: %s", ErrUpstream, snippet(body))
	}

	return diary.WeatherSnapshot{
		Condition:   payload.Weather[0].Main,
		Icon:        payload.Weather[0].Icon,
		Temperature: *payload.Main.Temp,
	}, nil
}

// fetchBody reads the whole response body regardless of status code.
// The upstream API reports errors as JSON bodies; callers treat any body
// they cannot parse as an upstream failure.
func (c *Client) fetchBody(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", ErrUpstream)
	}
	return body, nil
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
