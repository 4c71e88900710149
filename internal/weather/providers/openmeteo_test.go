package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/i474232898/airport-weather-alerts/internal/weather"
)

var testLoc = weather.Location{Code: "ICN", Name: "Seoul", Lat: 37.4602, Lon: 126.4407}

// TestOpenMeteoFetchHourly verifies decoding of parallel hourly arrays:
// nulls stay missing and an entirely absent field yields nil for every
// sample rather than zeroes.
func TestOpenMeteoFetchHourly(t *testing.T) {
	// wind_gusts_10m is deliberately absent from the payload.
	body := `{
		"timezone": "Asia/Seoul",
		"hourly": {
			"time": ["2025-07-14T00:00", "2025-07-14T01:00", "2025-07-14T02:00"],
			"temperature_2m": [24.1, null, 26.8],
			"wind_direction_10m": [180, 190, null],
			"wind_speed_10m": [10.0, 12.0, 8.0],
			"precipitation": [0, 0.4, 0],
			"weather_code": [2, 61, 2],
			"cloud_cover": [40, 85, 50]
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timezone"); got != "auto" {
			t.Errorf("expected timezone=auto, got %q", got)
		}
		if got := r.URL.Query().Get("forecast_days"); got != "4" {
			t.Errorf("expected forecast_days=4, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL

	series, err := p.FetchHourly(context.Background(), testLoc, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if series.Timezone != "Asia/Seoul" {
		t.Fatalf("expected timezone Asia/Seoul, got %q", series.Timezone)
	}
	if len(series.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(series.Samples))
	}

	s0 := series.Samples[0]
	if s0.Time != time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected first timestamp: %v", s0.Time)
	}
	if s0.TemperatureC == nil || *s0.TemperatureC != 24.1 {
		t.Fatalf("unexpected first temperature: %v", s0.TemperatureC)
	}

	if series.Samples[1].TemperatureC != nil {
		t.Fatalf("expected null temperature to stay missing, got %v", *series.Samples[1].TemperatureC)
	}
	if series.Samples[2].WindDirDeg != nil {
		t.Fatalf("expected null wind direction to stay missing")
	}
	for i, s := range series.Samples {
		if s.WindGustKmh != nil {
			t.Fatalf("sample %d: absent gust array must decode as missing, got %v", i, *s.WindGustKmh)
		}
	}
}

// TestOpenMeteoFetchArchive verifies the archive call carries the date range.
func TestOpenMeteoFetchArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("start_date"); got != "2024-07-14" {
			t.Errorf("expected start_date=2024-07-14, got %q", got)
		}
		if got := r.URL.Query().Get("end_date"); got != "2024-07-14" {
			t.Errorf("expected end_date=2024-07-14, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"timezone":"Asia/Seoul","hourly":{"time":["2024-07-14T12:00"],"temperature_2m":[29.3]}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client())
	p.archiveURL = srv.URL

	series, err := p.FetchArchive(context.Background(), testLoc, "2024-07-14", "2024-07-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	peak, ok := weather.PeakTemperature(series.Samples, "2024-07-14")
	if !ok || peak != 29.3 {
		t.Fatalf("expected peak 29.3, got (%v, %v)", peak, ok)
	}
}

// TestOpenMeteoServerErrorRetriesThenFails verifies the resilience wrapper
// retries a 5xx the configured number of times before giving up.
func TestOpenMeteoServerErrorRetriesThenFails(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL
	p.httpCfg.Retry = RetryConfig{MaxRetries: 2, Interval: time.Millisecond}

	if _, err := p.FetchHourly(context.Background(), testLoc, 1); err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", calls)
	}
}
