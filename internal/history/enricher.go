// Package history provides best-effort historical and corroborating
// enrichment of a day's forecast. Every sub-lookup is isolated: a failure
// degrades to an unavailable value and never aborts the primary pipeline.
package history

import (
	"context"
	"log"
	"time"

	"github.com/i474232898/airport-weather-alerts/internal/weather"
)

// Stat is the result of a single temperature sub-lookup.
type Stat struct {
	ValueC float64
	OK     bool
}

// RangeStat aggregates peak temperatures over several past years at the
// same calendar date. Years is the count of years that actually succeeded;
// zero means the whole aggregate is unavailable.
type RangeStat struct {
	MinC  float64
	MaxC  float64
	MeanC float64
	Years int
}

// Stats is the historical enrichment for one location and day.
type Stats struct {
	YearAgo Stat
	Range   RangeStat
}

// Corroboration is a secondary source's peak-temperature figure, shown
// alongside the primary value for comparison only.
type Corroboration struct {
	Source string
	Peak   Stat
}

// Enricher fetches historical and corroborating statistics.
type Enricher struct {
	archive weather.ArchiveProvider
	peaks   []weather.PeakProvider
	years   int
}

// NewEnricher builds an Enricher. years is the depth of the N-year range
// lookup; peaks may be empty when no corroborating source is configured.
func NewEnricher(archive weather.ArchiveProvider, peaks []weather.PeakProvider, years int) *Enricher {
	if years <= 0 {
		years = 5
	}
	return &Enricher{
		archive: archive,
		peaks:   peaks,
		years:   years,
	}
}

// Enrich fetches the same-day-last-year peak and the N-year range for the
// calendar date of localNow. Each year is fetched independently.
func (e *Enricher) Enrich(ctx context.Context, loc weather.Location, localNow time.Time) Stats {
	var stats Stats

	stats.YearAgo = e.peakYearsAgo(ctx, loc, localNow, 1)

	var peaks []float64
	for y := 1; y <= e.years; y++ {
		if s := e.peakYearsAgo(ctx, loc, localNow, y); s.OK {
			peaks = append(peaks, s.ValueC)
		}
	}
	if len(peaks) > 0 {
		r := RangeStat{MinC: peaks[0], MaxC: peaks[0], Years: len(peaks)}
		var sum float64
		for _, p := range peaks {
			if p < r.MinC {
				r.MinC = p
			}
			if p > r.MaxC {
				r.MaxC = p
			}
			sum += p
		}
		r.MeanC = sum / float64(len(peaks))
		stats.Range = r
	}

	return stats
}

// peakYearsAgo looks up the peak temperature at the same calendar date
// shifted back by the given number of years. Feb 29 normalizes to Mar 1.
func (e *Enricher) peakYearsAgo(ctx context.Context, loc weather.Location, localNow time.Time, years int) Stat {
	day := localNow.AddDate(-years, 0, 0).Format(weather.DayLayout)

	series, err := e.archive.FetchArchive(ctx, loc, day, day)
	if err != nil {
		log.Printf("history: archive lookup failed for %s %s: %v", loc.Key(), day, err)
		return Stat{}
	}

	peak, ok := weather.PeakTemperature(series.Samples, day)
	if !ok {
		log.Printf("history: archive has no temperatures for %s %s", loc.Key(), day)
		return Stat{}
	}
	return Stat{ValueC: peak, OK: true}
}

// YearAgoPeaks returns the year-ago peak for each of the given forecast
// days using a single ranged archive call. Days must be DayLayout dates in
// ascending order; a missing day maps to an unavailable Stat.
func (e *Enricher) YearAgoPeaks(ctx context.Context, loc weather.Location, days []string) map[string]Stat {
	result := make(map[string]Stat, len(days))
	for _, d := range days {
		result[d] = Stat{}
	}
	if len(days) == 0 {
		return result
	}

	start, err := shiftYear(days[0])
	if err != nil {
		log.Printf("history: bad day %q: %v", days[0], err)
		return result
	}
	end, err := shiftYear(days[len(days)-1])
	if err != nil {
		log.Printf("history: bad day %q: %v", days[len(days)-1], err)
		return result
	}

	series, fetchErr := e.archive.FetchArchive(ctx, loc, start, end)
	if fetchErr != nil {
		log.Printf("history: ranged archive lookup failed for %s %s..%s: %v", loc.Key(), start, end, fetchErr)
		return result
	}

	for _, d := range days {
		shifted, err := shiftYear(d)
		if err != nil {
			continue
		}
		if peak, ok := weather.PeakTemperature(series.Samples, shifted); ok {
			result[d] = Stat{ValueC: peak, OK: true}
		}
	}
	return result
}

// Corroborate queries every configured secondary source for its own peak
// figure for the day. Each source is independently failure-tolerant.
func (e *Enricher) Corroborate(ctx context.Context, loc weather.Location, day string) []Corroboration {
	out := make([]Corroboration, 0, len(e.peaks))
	for _, p := range e.peaks {
		c := Corroboration{Source: p.Name()}
		peak, err := p.FetchDayPeak(ctx, loc, day)
		if err != nil {
			log.Printf("history: corroborating source %s failed for %s: %v", p.Name(), loc.Key(), err)
		} else {
			c.Peak = Stat{ValueC: peak, OK: true}
		}
		out = append(out, c)
	}
	return out
}

// shiftYear moves a DayLayout date back one calendar year.
func shiftYear(day string) (string, error) {
	t, err := time.Parse(weather.DayLayout, day)
	if err != nil {
		return "", err
	}
	return t.AddDate(-1, 0, 0).Format(weather.DayLayout), nil
}
