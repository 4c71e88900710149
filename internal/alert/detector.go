package alert

import "math"

// Reason explains a notification decision.
type Reason string

const (
	ReasonForced           Reason = "forced"
	ReasonNewDay           Reason = "new-day"
	ReasonFirstObservation Reason = "first-observation"
	ReasonDeltaExceeded    Reason = "temperature-delta-exceeded"
	ReasonNoChange         Reason = "no-change"
)

// Decision is the change detector's verdict for one location.
type Decision struct {
	Notify bool
	Reason Reason
}

// State is the persisted change-detection state: each location's last
// observed peak temperature keyed by location code, plus the date of the
// last check. It is replaced wholesale at the end of every run.
type State struct {
	LastPeaks     map[string]float64 `json:"last_max_temps"`
	LastCheckDate string             `json:"last_check_date"`
}

// NewState returns an empty state ready to collect this run's peaks.
func NewState() State {
	return State{LastPeaks: make(map[string]float64)}
}

// tempDeltaThreshold is the peak-temperature change (degrees Celsius) above
// which a same-day re-check notifies again.
const tempDeltaThreshold = 0.1

// Evaluate decides whether the location identified by key should notify,
// given today's date (the orchestrator's local calendar day) and the freshly
// computed peak temperature. Precedence: forced, then new-day, then
// missing last value, then temperature delta.
func Evaluate(prior State, key, today string, peakC float64, forced bool) Decision {
	if forced {
		return Decision{Notify: true, Reason: ReasonForced}
	}
	if prior.LastCheckDate != today {
		// Covers both "never ran" and "first run of a new calendar day".
		return Decision{Notify: true, Reason: ReasonNewDay}
	}
	last, ok := prior.LastPeaks[key]
	if !ok {
		return Decision{Notify: true, Reason: ReasonFirstObservation}
	}
	if math.Abs(peakC-last) > tempDeltaThreshold {
		return Decision{Notify: true, Reason: ReasonDeltaExceeded}
	}
	return Decision{Notify: false, Reason: ReasonNoChange}
}
