package weather

import "math"

// snowCodes is the WMO weather-code set that classifies an hour's
// precipitation as snow rather than rain.
var snowCodes = map[int]bool{
	71: true, 73: true, 75: true, 77: true, 85: true, 86: true,
}

// windCalmThreshold is the resultant-vector magnitude below which the mean
// wind direction is treated as undefined (e.g. opposing winds cancel out).
const windCalmThreshold = 1e-6

// ReduceDay reduces the hourly samples that fall on the given local
// calendar day (DayLayout) into a DaySummary. It returns nil when the day
// has no temperature samples; a missing day is absent, never zero-valued.
func ReduceDay(samples []HourlySample, day string) *DaySummary {
	peak, ok := PeakTemperature(samples, day)
	if !ok {
		return nil
	}

	summary := &DaySummary{
		Date:      day,
		PeakTempC: peak,
	}

	var (
		vecX, vecY         float64
		speedSum, cloudSum float64
		speedN, cloudN     int

		codeCounts map[int]int
		codeOrder  []int // first-encountered order for tie breaking

		open *PrecipInterval
	)

	for i := range samples {
		s := &samples[i]
		if s.Time.Format(DayLayout) != day {
			continue
		}

		if s.WindDirDeg != nil && s.WindSpeedKmh != nil {
			rad := *s.WindDirDeg * math.Pi / 180
			vecX += *s.WindSpeedKmh * math.Cos(rad)
			vecY += *s.WindSpeedKmh * math.Sin(rad)
		}
		if s.WindSpeedKmh != nil {
			speedSum += *s.WindSpeedKmh
			speedN++
		}
		if s.WindGustKmh != nil && *s.WindGustKmh > summary.MaxGustKmh {
			summary.MaxGustKmh = *s.WindGustKmh
		}
		if s.CloudCoverPct != nil {
			cloudSum += *s.CloudCoverPct
			cloudN++
		}

		if s.WeatherCode != nil {
			if codeCounts == nil {
				codeCounts = make(map[int]int)
			}
			if _, seen := codeCounts[*s.WeatherCode]; !seen {
				codeOrder = append(codeOrder, *s.WeatherCode)
			}
			codeCounts[*s.WeatherCode]++
		}

		open = accumulatePrecip(summary, open, s)
	}
	if open != nil {
		summary.Precipitation = append(summary.Precipitation, *open)
	}

	if mag := math.Hypot(vecX, vecY); mag > windCalmThreshold {
		deg := normalizeDeg(math.Atan2(vecY, vecX) * 180 / math.Pi)
		summary.WindDirDeg = &deg
	}
	if speedN > 0 {
		summary.AvgWindKmh = speedSum / float64(speedN)
	}
	if cloudN > 0 {
		summary.AvgCloudPct = cloudSum / float64(cloudN)
	}

	best, bestCount := 0, 0
	for _, code := range codeOrder {
		if codeCounts[code] > bestCount {
			best, bestCount = code, codeCounts[code]
		}
	}
	if bestCount > 0 {
		code := best
		summary.WeatherCode = &code
	}

	return summary
}

// PeakTemperature returns the maximum temperature sample within the given
// local calendar day, or false when the day has no temperature samples.
// This is the temperature-only day reduction the historical lookups share.
func PeakTemperature(samples []HourlySample, day string) (float64, bool) {
	var (
		peak  float64
		found bool
	)
	for i := range samples {
		s := &samples[i]
		if s.TemperatureC == nil || s.Time.Format(DayLayout) != day {
			continue
		}
		if !found || *s.TemperatureC > peak {
			peak = *s.TemperatureC
			found = true
		}
	}
	return peak, found
}

// accumulatePrecip advances the precipitation-interval scan by one sample.
// An interval stays open while hours are consecutive and the classification
// is unchanged; a gap or a kind change closes it.
func accumulatePrecip(summary *DaySummary, open *PrecipInterval, s *HourlySample) *PrecipInterval {
	if s.PrecipMm == nil || *s.PrecipMm <= 0 {
		if open != nil {
			summary.Precipitation = append(summary.Precipitation, *open)
		}
		return nil
	}

	kind := PrecipRain
	if s.WeatherCode != nil && snowCodes[*s.WeatherCode] {
		kind = PrecipSnow
	}
	hour := s.Time.Hour()

	if open != nil && open.Kind == kind && hour == open.EndHour+1 {
		open.EndHour = hour
		if *s.PrecipMm > open.PeakMm {
			open.PeakMm = *s.PrecipMm
		}
		return open
	}

	if open != nil {
		summary.Precipitation = append(summary.Precipitation, *open)
	}
	return &PrecipInterval{
		StartHour: hour,
		EndHour:   hour,
		Kind:      kind,
		PeakMm:    *s.PrecipMm,
	}
}
