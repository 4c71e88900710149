package alert

import "testing"

// TestEvaluate covers the decision rules and their precedence: forced, then
// new-day, then missing last value, then temperature delta.
func TestEvaluate(t *testing.T) {
	const key = "LGA"
	const today = "2025-07-14"

	withPeak := func(date string, peak float64) State {
		return State{
			LastPeaks:     map[string]float64{key: peak},
			LastCheckDate: date,
		}
	}

	tests := []struct {
		name       string
		prior      State
		peakC      float64
		forced     bool
		wantNotify bool
		wantReason Reason
	}{
		{
			name:       "forced wins over everything",
			prior:      withPeak(today, 20.0),
			peakC:      20.0,
			forced:     true,
			wantNotify: true,
			wantReason: ReasonForced,
		},
		{
			name:       "new day notifies regardless of delta",
			prior:      withPeak("2025-07-13", 20.0),
			peakC:      20.0,
			wantNotify: true,
			wantReason: ReasonNewDay,
		},
		{
			name:       "never ran counts as new day",
			prior:      NewState(),
			peakC:      20.0,
			wantNotify: true,
			wantReason: ReasonNewDay,
		},
		{
			name:       "missing last value on same day",
			prior:      State{LastPeaks: map[string]float64{}, LastCheckDate: today},
			peakC:      20.0,
			wantNotify: true,
			wantReason: ReasonFirstObservation,
		},
		{
			name:       "small delta stays quiet",
			prior:      withPeak(today, 20.0),
			peakC:      20.05,
			wantNotify: false,
			wantReason: ReasonNoChange,
		},
		{
			name:       "delta just over threshold notifies",
			prior:      withPeak(today, 20.0),
			peakC:      20.15,
			wantNotify: true,
			wantReason: ReasonDeltaExceeded,
		},
		{
			name:       "exactly threshold stays quiet",
			prior:      withPeak(today, 20.0),
			peakC:      20.1,
			wantNotify: false,
			wantReason: ReasonNoChange,
		},
		{
			name:       "negative delta counts too",
			prior:      withPeak(today, 20.0),
			peakC:      19.7,
			wantNotify: true,
			wantReason: ReasonDeltaExceeded,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.prior, key, today, tc.peakC, tc.forced)
			if got.Notify != tc.wantNotify || got.Reason != tc.wantReason {
				t.Fatalf("Evaluate() = %+v, want notify=%v reason=%s", got, tc.wantNotify, tc.wantReason)
			}
		})
	}
}

// TestEvaluateIdempotence verifies that a second evaluation on the same day
// against the state produced by the first stays quiet when data is unchanged.
func TestEvaluateIdempotence(t *testing.T) {
	const key = "ICN"
	const today = "2025-07-14"
	const peak = 27.4

	first := Evaluate(NewState(), key, today, peak, false)
	if !first.Notify || first.Reason != ReasonNewDay {
		t.Fatalf("first run: got %+v, want new-day notification", first)
	}

	// The orchestrator persists the observed peak and today's date.
	after := State{
		LastPeaks:     map[string]float64{key: peak},
		LastCheckDate: today,
	}

	second := Evaluate(after, key, today, peak, false)
	if second.Notify {
		t.Fatalf("second run with unchanged data notified: %+v", second)
	}
	if second.Reason != ReasonNoChange {
		t.Fatalf("second run reason = %s, want %s", second.Reason, ReasonNoChange)
	}
}
