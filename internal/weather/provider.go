package weather

import "context"

// ForecastProvider abstracts the primary hourly forecast source.
type ForecastProvider interface {
	Name() string
	// FetchHourly returns the hourly series for the location covering today
	// plus the requested number of forward days, in the location's local time.
	FetchHourly(ctx context.Context, loc Location, days int) (HourlySeries, error)
}

// ArchiveProvider abstracts the historical archive used for enrichment.
type ArchiveProvider interface {
	Name() string
	// FetchArchive returns the hourly series between start and end
	// (DayLayout dates, inclusive; start == end for a single day).
	FetchArchive(ctx context.Context, loc Location, start, end string) (HourlySeries, error)
}

// PeakProvider is a secondary, corroborating source that produces a single
// peak-temperature figure for a calendar day. Failures are expected and are
// surfaced as "unavailable" by callers rather than aborting a run.
type PeakProvider interface {
	Name() string
	FetchDayPeak(ctx context.Context, loc Location, day string) (float64, error)
}
