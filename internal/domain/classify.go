package domain

import (
	"fmt"
	"strings"
)

// LookaheadDays is the number of casts inspected per area.
const LookaheadDays = 3

// RainKeywords are the substrings that mark a condition as precipitation:
// rain, snow, thunder and hail.
var RainKeywords = []string{"雨", "雪", "雷", "雹"}

// IsPrecipitation reports whether the condition text contains any rain keyword.
// Empty text never matches.
func IsPrecipitation(condition string) bool {
	for _, kw := range RainKeywords {
		if strings.Contains(condition, kw) {
			return true
		}
	}
	return false
}

// ClassifyRain returns one finding for each of the first LookaheadDays casts
// whose day or night condition mentions precipitation. When both periods
// match, Time is PeriodDay.
func ClassifyRain(area string, casts []ForecastDay) []RainFinding {
	n := min(len(casts), LookaheadDays)

	var findings []RainFinding
	for i := range n {
		cast := casts[i]
		dayRain := IsPrecipitation(cast.DayWeather)
		if !dayRain && !IsPrecipitation(cast.NightWeather) {
			continue
		}

		period := PeriodNight
		if dayRain {
			period = PeriodDay
		}

		finding := RainFinding{
			Area:    area,
			Date:    cast.Date,
			DayType: DayType(i),
			Weather: composeWeather(cast.DayWeather, cast.NightWeather),
			Time:    period,
		}
		attachSupplemental(&finding, cast)
		findings = append(findings, finding)
	}
	return findings
}

// composeWeather always includes both periods so readers see full context.
func composeWeather(day, night string) string {
	return fmt.Sprintf("%s:%s/%s:%s", PeriodDay.Label(), day, PeriodNight.Label(), night)
}

func attachSupplemental(f *RainFinding, cast ForecastDay) {
	if cast.DayTemp != "" && cast.NightTemp != "" {
		f.Temperature = ptr(fmt.Sprintf("%s°C ~ %s°C", cast.DayTemp, cast.NightTemp))
	}
	if cast.DayWind != "" {
		f.WindDirection = ptr(cast.DayWind)
	}
	if cast.DayPower != "" {
		f.WindPower = ptr(string(cast.DayPower))
	}
	if cast.Humidity != nil && *cast.Humidity != "" {
		f.Humidity = ptr(string(*cast.Humidity))
	}
	if cast.LifeIndex != nil {
		li := *cast.LifeIndex
		f.LifeIndex = &li
	}
}

func ptr[T any](v T) *T { return &v }
