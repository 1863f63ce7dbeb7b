package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Area is a configured region looked up by its provider adcode.
type Area struct {
	Name   string `yaml:"name" json:"name"`
	Adcode string `yaml:"adcode" json:"adcode"`
}

// FlexString decodes from either a JSON string or a JSON number. Any other
// JSON type is rejected.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(n.String())
	return nil
}

// LifeIndex holds optional advisory fields. A nil field was not supplied.
type LifeIndex struct {
	Dressing   *string `json:"dressing,omitempty"`
	CarWashing *string `json:"carwashing,omitempty"`
	UV         *string `json:"uv,omitempty"`
	Comfort    *string `json:"comfort,omitempty"`
}

// ForecastDay is one cast from the provider.
type ForecastDay struct {
	Date         string     `json:"date"`
	Week         string     `json:"week"`
	DayWeather   string     `json:"dayweather"`
	NightWeather string     `json:"nightweather"`
	DayTemp      FlexString `json:"daytemp"`
	NightTemp    FlexString `json:"nighttemp"`
	DayWind      string     `json:"daywind"`
	NightWind    string     `json:"nightwind"`
	DayPower     FlexString `json:"daypower"`
	NightPower   FlexString `json:"nightpower"`

	Humidity  *FlexString `json:"humidity,omitempty"`
	LifeIndex *LifeIndex  `json:"life_index,omitempty"`
}

// Forecast is the decoded forecast for one area.
type Forecast struct {
	City       string        `json:"city"`
	Adcode     string        `json:"adcode"`
	Province   string        `json:"province"`
	ReportTime string        `json:"reporttime"`
	Casts      []ForecastDay `json:"casts"`
}

// DayType labels a cast by its offset from today.
type DayType int

const (
	Today DayType = iota
	Tomorrow
	DayAfterTomorrow
)

// String returns the machine label: "today", "tomorrow" or "day-after-tomorrow".
func (d DayType) String() string {
	switch d {
	case Today:
		return "today"
	case Tomorrow:
		return "tomorrow"
	case DayAfterTomorrow:
		return "day-after-tomorrow"
	default:
		return fmt.Sprintf("day-%d", int(d))
	}
}

// Label returns the Chinese label used in alert text.
func (d DayType) Label() string {
	switch d {
	case Today:
		return "今天"
	case Tomorrow:
		return "明天"
	case DayAfterTomorrow:
		return "后天"
	default:
		return fmt.Sprintf("第%d天", int(d)+1)
	}
}

// Period is the half of the day whose condition triggered a finding.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodNight Period = "night"
)

// Label returns the Chinese label used in alert text.
func (p Period) Label() string {
	if p == PeriodNight {
		return "夜间"
	}
	return "白天"
}

// RainFinding records forecast precipitation for one area and day.
type RainFinding struct {
	Area    string
	Date    string
	DayType DayType
	Weather string
	Time    Period

	// Optional supplemental fields; nil means absent.
	Temperature   *string
	WindDirection *string
	WindPower     *string
	Humidity      *string
	LifeIndex     *LifeIndex
}
