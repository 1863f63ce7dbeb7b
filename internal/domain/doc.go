// Package domain models amap (高德) multi-day weather forecasts and the rain
// alerts derived from them.
//
// # Data Source
//
// Forecasts come from the amap weather endpoint
// https://restapi.amap.com/v3/weather/weatherInfo queried with
// extensions=all. Each area is addressed by its adcode, the six-digit
// administrative division code amap uses (e.g. "330106" for Xihu, Hangzhou).
// The response carries one forecast per city with a list of "casts", one per
// day, starting with today.
//
// # Cast Conventions
//
// Condition text:
//
//	dayweather / nightweather are short Chinese phrases such as "晴", "多云",
//	"小雨", "雷阵雨", "雨夹雪". Precipitation is detected by substring match
//	on the characters 雨 (rain), 雪 (snow), 雷 (thunder) and 雹 (hail), so
//	"雷阵雨" and "冻雨" both match.
//
// Temperatures and wind power:
//
//	amap returns these as strings ("28", "≤3"), but some mirrors emit numbers.
//	[FlexString] accepts both. Wind power is a Beaufort-style level; the
//	renderer appends "级".
//
// Optional fields:
//
//	Humidity and life-index advice are not part of the public amap payload
//	but are rendered when a provider supplies them. Presence is modelled with
//	pointers; nil means the key was absent.
//
// # Alert Layout
//
// [ClassifyRain] inspects the first three casts only (today, tomorrow, the day
// after). [Aggregator] collects findings across areas without deduplication.
// [RenderAlert] groups findings by area in first-appearance order and produces
// the WeCom text body.
package domain
