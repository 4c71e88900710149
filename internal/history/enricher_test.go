package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/i474232898/airport-weather-alerts/internal/weather"
)

var testLoc = weather.Location{Code: "LCY", Name: "London", Lat: 51.5053, Lon: 0.0553}

// fakeArchive serves one synthetic noon temperature per date and can be
// told to fail specific dates or everything.
type fakeArchive struct {
	temps   map[string]float64 // peak per DayLayout date
	fail    map[string]bool    // dates that error out
	failAll bool
	calls   int
}

func (f *fakeArchive) Name() string { return "fake-archive" }

func (f *fakeArchive) FetchArchive(_ context.Context, _ weather.Location, start, end string) (weather.HourlySeries, error) {
	f.calls++
	if f.failAll || f.fail[start] {
		return weather.HourlySeries{}, errors.New("archive down")
	}

	from, err := time.Parse(weather.DayLayout, start)
	if err != nil {
		return weather.HourlySeries{}, err
	}
	to, err := time.Parse(weather.DayLayout, end)
	if err != nil {
		return weather.HourlySeries{}, err
	}

	series := weather.HourlySeries{Timezone: "Europe/London"}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		temp, ok := f.temps[d.Format(weather.DayLayout)]
		if !ok {
			continue
		}
		t := temp
		series.Samples = append(series.Samples, weather.HourlySample{
			Time:         time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC),
			TemperatureC: &t,
		})
	}
	return series, nil
}

type fakePeakProvider struct {
	name string
	peak float64
	err  error
}

func (f *fakePeakProvider) Name() string { return f.name }

func (f *fakePeakProvider) FetchDayPeak(context.Context, weather.Location, string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.peak, nil
}

// TestEnrichIsolatesYearFailures verifies one failing year does not abort
// the others and the aggregate reflects only the successful years.
func TestEnrichIsolatesYearFailures(t *testing.T) {
	archive := &fakeArchive{
		temps: map[string]float64{
			"2024-07-14": 16.2,
			"2023-07-14": 21.5,
			"2022-07-14": 14.0,
		},
		fail: map[string]bool{"2023-07-14": true},
	}
	e := NewEnricher(archive, nil, 3)

	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	stats := e.Enrich(context.Background(), testLoc, now)

	if !stats.YearAgo.OK || stats.YearAgo.ValueC != 16.2 {
		t.Fatalf("unexpected year-ago stat: %+v", stats.YearAgo)
	}
	if stats.Range.Years != 2 {
		t.Fatalf("expected 2 successful years, got %d", stats.Range.Years)
	}
	if stats.Range.MinC != 14.0 || stats.Range.MaxC != 16.2 {
		t.Fatalf("unexpected range bounds: %+v", stats.Range)
	}
	if math.Abs(stats.Range.MeanC-15.1) > 1e-9 {
		t.Fatalf("expected mean 15.1, got %v", stats.Range.MeanC)
	}
}

// TestEnrichAllYearsFail verifies a fully failed range is absent (Years 0),
// not zero-valued.
func TestEnrichAllYearsFail(t *testing.T) {
	e := NewEnricher(&fakeArchive{failAll: true}, nil, 5)

	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	stats := e.Enrich(context.Background(), testLoc, now)

	if stats.YearAgo.OK {
		t.Fatalf("expected unavailable year-ago stat, got %+v", stats.YearAgo)
	}
	if stats.Range.Years != 0 {
		t.Fatalf("expected absent range, got %+v", stats.Range)
	}
}

// TestEnrichEmptyDayIsUnavailable verifies an archive day without
// temperature samples is treated as unavailable, not zero.
func TestEnrichEmptyDayIsUnavailable(t *testing.T) {
	e := NewEnricher(&fakeArchive{temps: map[string]float64{}}, nil, 1)

	now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	stats := e.Enrich(context.Background(), testLoc, now)

	if stats.YearAgo.OK || stats.Range.Years != 0 {
		t.Fatalf("expected everything unavailable, got %+v", stats)
	}
}

// TestYearAgoPeaks verifies the horizon lookup uses one ranged call and
// maps each forecast day to its shifted counterpart.
func TestYearAgoPeaks(t *testing.T) {
	archive := &fakeArchive{
		temps: map[string]float64{
			"2024-07-15": 17.0,
			// 2024-07-16 missing on purpose.
			"2024-07-17": 19.5,
		},
	}
	e := NewEnricher(archive, nil, 5)

	days := []string{"2025-07-15", "2025-07-16", "2025-07-17"}
	got := e.YearAgoPeaks(context.Background(), testLoc, days)

	if archive.calls != 1 {
		t.Fatalf("expected a single ranged archive call, got %d", archive.calls)
	}
	if s := got["2025-07-15"]; !s.OK || s.ValueC != 17.0 {
		t.Fatalf("unexpected stat for 2025-07-15: %+v", s)
	}
	if s := got["2025-07-16"]; s.OK {
		t.Fatalf("expected unavailable stat for 2025-07-16, got %+v", s)
	}
	if s := got["2025-07-17"]; !s.OK || s.ValueC != 19.5 {
		t.Fatalf("unexpected stat for 2025-07-17: %+v", s)
	}
}

// TestCorroborate verifies each secondary source is independent: one
// failure surfaces as unavailable without touching the other source.
func TestCorroborate(t *testing.T) {
	peaks := []weather.PeakProvider{
		&fakePeakProvider{name: "openweathermap", err: fmt.Errorf("quota exceeded")},
		&fakePeakProvider{name: "weatherapi", peak: 18.1},
	}
	e := NewEnricher(&fakeArchive{}, peaks, 5)

	got := e.Corroborate(context.Background(), testLoc, "2025-07-14")
	if len(got) != 2 {
		t.Fatalf("expected 2 corroborations, got %d", len(got))
	}
	if got[0].Source != "openweathermap" || got[0].Peak.OK {
		t.Fatalf("expected unavailable openweathermap entry, got %+v", got[0])
	}
	if got[1].Source != "weatherapi" || !got[1].Peak.OK || got[1].Peak.ValueC != 18.1 {
		t.Fatalf("unexpected weatherapi entry: %+v", got[1])
	}
}
