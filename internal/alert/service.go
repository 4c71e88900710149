// Package alert holds the core of the system: the change detector, the
// message composer, and the run orchestrator that ties forecast reduction,
// historical enrichment, and notification delivery together.
package alert

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/airport-weather-alerts/internal/history"
	"github.com/i474232898/airport-weather-alerts/internal/weather"
)

// Mode selects the trigger semantics of a run.
type Mode int

const (
	// ModeScheduled applies the normal change-detection rules.
	ModeScheduled Mode = iota
	// ModeForced bypasses change detection and always notifies.
	ModeForced
)

// StateStore persists the change-detection state between runs.
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

// Notifier delivers one pre-formatted message to a channel.
type Notifier interface {
	Name() string
	Syntax() Syntax
	Send(ctx context.Context, text string) error
}

// Service orchestrates one run over all configured locations: fetch,
// reduce, enrich, detect changes, notify, and persist state.
type Service struct {
	locations []weather.Location
	forecast  weather.ForecastProvider
	enricher  *history.Enricher
	store     StateStore
	notifiers []Notifier
	horizon   int // forward forecast days rendered per message

	now func() time.Time
}

// NewService creates a new Service. horizon is the number of forward days
// included in each notification (and in the fetched forecast window).
func NewService(
	locations []weather.Location,
	forecast weather.ForecastProvider,
	enricher *history.Enricher,
	store StateStore,
	notifiers []Notifier,
	horizon int,
) *Service {
	if horizon < 0 {
		horizon = 0
	}
	return &Service{
		locations: locations,
		forecast:  forecast,
		enricher:  enricher,
		store:     store,
		notifiers: notifiers,
		horizon:   horizon,
		now:       time.Now,
	}
}

// Run executes one full check over all locations sequentially and replaces
// the persisted state wholesale. A location whose lookup fails is skipped
// for this run and its state entry is left absent.
func (s *Service) Run(ctx context.Context, mode Mode) error {
	prior, err := s.store.Load()
	if err != nil {
		// A corrupt or unreadable state file degrades to a first run.
		log.Printf("alert: failed to load state, starting fresh: %v", err)
		prior = NewState()
	}

	today := s.now().Format(weather.DayLayout)
	next := NewState()
	next.LastCheckDate = today

	log.Printf("alert: starting run (mode=%d, date=%s, locations=%d)", mode, today, len(s.locations))

	for _, loc := range s.locations {
		s.processLocation(ctx, loc, prior, &next, today, mode)
	}

	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	log.Printf("alert: run complete")
	return nil
}

func (s *Service) processLocation(ctx context.Context, loc weather.Location, prior State, next *State, today string, mode Mode) {
	series, err := s.forecast.FetchHourly(ctx, loc, s.horizon+1)
	if err != nil {
		log.Printf("alert: forecast fetch failed for %s, skipping: %v", loc.Key(), err)
		return
	}

	// The reduction day is the location's own calendar day; the provider
	// resolves the timezone for us. The new-day check above uses the
	// orchestrator's local date instead, on purpose: it tracks run cadence.
	localNow := s.localNow(series.Timezone)
	localDay := localNow.Format(weather.DayLayout)

	summary := weather.ReduceDay(series.Samples, localDay)
	if summary == nil {
		log.Printf("alert: no samples for %s on %s, skipping", loc.Key(), localDay)
		return
	}

	// State reflects the current observation whether or not we notify.
	next.LastPeaks[loc.Key()] = summary.PeakTempC
	log.Printf("alert: %s peak for %s is %.1f°C", loc.Key(), localDay, summary.PeakTempC)

	stats := s.enricher.Enrich(ctx, loc, localNow)
	corroborations := s.enricher.Corroborate(ctx, loc, localDay)
	horizon := s.buildHorizon(ctx, loc, series, localNow)

	decision := Evaluate(prior, loc.Key(), today, summary.PeakTempC, mode == ModeForced)
	if !decision.Notify {
		log.Printf("alert: %s: no notification (%s)", loc.Key(), decision.Reason)
		return
	}
	log.Printf("alert: %s: notifying (%s)", loc.Key(), decision.Reason)

	report := Report{
		Location:       loc,
		GeneratedAt:    s.now(),
		Today:          *summary,
		Historical:     stats,
		Corroborations: corroborations,
		Horizon:        horizon,
	}

	s.dispatch(ctx, loc, report)
}

// buildHorizon reduces each forward day from the already-fetched series and
// attaches its year-ago comparison.
func (s *Service) buildHorizon(ctx context.Context, loc weather.Location, series weather.HourlySeries, localNow time.Time) []ForecastDay {
	if s.horizon <= 0 {
		return nil
	}

	days := make([]string, 0, s.horizon)
	summaries := make(map[string]*weather.DaySummary, s.horizon)
	for i := 1; i <= s.horizon; i++ {
		day := localNow.AddDate(0, 0, i).Format(weather.DayLayout)
		if sum := weather.ReduceDay(series.Samples, day); sum != nil {
			days = append(days, day)
			summaries[day] = sum
		}
	}
	if len(days) == 0 {
		return nil
	}

	yearAgo := s.enricher.YearAgoPeaks(ctx, loc, days)

	out := make([]ForecastDay, 0, len(days))
	for _, day := range days {
		out = append(out, ForecastDay{
			Summary: *summaries[day],
			YearAgo: yearAgo[day],
		})
	}
	return out
}

// dispatch sends the report to every channel; one channel's failure never
// blocks the others.
func (s *Service) dispatch(ctx context.Context, loc weather.Location, report Report) {
	for _, n := range s.notifiers {
		text := report.Render(n.Syntax())
		if err := n.Send(ctx, text); err != nil {
			log.Printf("alert: %s: send via %s failed: %v", loc.Key(), n.Name(), err)
			continue
		}
		log.Printf("alert: %s: sent via %s", loc.Key(), n.Name())
	}
}

// localNow is the current time at the location, falling back to UTC when
// the provider's timezone name cannot be resolved.
func (s *Service) localNow(tzName string) time.Time {
	if tzName != "" {
		if tz, err := time.LoadLocation(tzName); err == nil {
			return s.now().In(tz)
		}
		log.Printf("alert: unknown timezone %q, using UTC", tzName)
	}
	return s.now().UTC()
}
