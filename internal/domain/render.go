package domain

import (
	"fmt"
	"strings"
)

const (
	alertTitle     = "🌧️ 下雨天气提醒"
	areaPrefix     = "📍 "
	dayLinePrefix  = "   📅 "
	umbrellaAdvice = "💡 温馨提示：请记得带伞，注意出行安全！"
	clothingAdvice = "👔 穿衣建议：雨天路滑，请穿防滑鞋，适当添加衣物。"
	summaryFormat  = "📊 本次共有 %d 个区域未来三天有降水。"
)

var alertSeparator = strings.Repeat("=", 30)

// RenderAlert formats findings as a WeCom text message grouped by area. Areas
// appear in order of first occurrence and findings keep their input order.
// An empty input renders as the empty string, which callers must not send.
func RenderAlert(findings []RainFinding) string {
	if len(findings) == 0 {
		return ""
	}

	areas := distinctAreas(findings)
	byArea := make(map[string][]RainFinding, len(areas))
	for _, f := range findings {
		byArea[f.Area] = append(byArea[f.Area], f)
	}

	lines := []string{alertTitle, alertSeparator}
	for _, area := range areas {
		lines = append(lines, areaPrefix+area)
		for _, f := range byArea[area] {
			lines = appendFinding(lines, f)
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		umbrellaAdvice,
		clothingAdvice,
		fmt.Sprintf(summaryFormat, len(areas)),
	)
	return strings.Join(lines, "\n")
}

func appendFinding(lines []string, f RainFinding) []string {
	lines = append(lines,
		fmt.Sprintf("%s%s(%s)", dayLinePrefix, f.DayType.Label(), f.Date),
		fmt.Sprintf("   ⛈️  天气: %s", f.Weather),
	)
	if f.Temperature != nil {
		lines = append(lines, fmt.Sprintf("   🌡️  温度: %s", *f.Temperature))
	}
	if f.WindDirection != nil {
		lines = append(lines, fmt.Sprintf("   🧭 风向: %s", *f.WindDirection))
	}
	if f.WindPower != nil {
		lines = append(lines, fmt.Sprintf("   💨 风力: %s级", *f.WindPower))
	}
	if f.Humidity != nil {
		lines = append(lines, fmt.Sprintf("   💧 湿度: %s%%", *f.Humidity))
	}
	if li := f.LifeIndex; li != nil {
		lines = append(lines, "   📋 生活指数:")
		if li.Dressing != nil {
			lines = append(lines, fmt.Sprintf("      👕 穿衣: %s", *li.Dressing))
		}
		if li.CarWashing != nil {
			lines = append(lines, fmt.Sprintf("      🚗 洗车: %s", *li.CarWashing))
		}
		if li.UV != nil {
			lines = append(lines, fmt.Sprintf("      ☀️  紫外线: %s", *li.UV))
		}
		if li.Comfort != nil {
			lines = append(lines, fmt.Sprintf("      😊 舒适度: %s", *li.Comfort))
		}
	}
	return append(lines, "")
}

// AreaDate identifies one finding in rendered alert text.
type AreaDate struct {
	Area string
	Date string
}

// ParseRenderedAlert recovers the (area, date) pairs from text produced by
// RenderAlert, in rendered order.
func ParseRenderedAlert(text string) []AreaDate {
	var (
		pairs   []AreaDate
		current string
	)
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, areaPrefix):
			current = strings.TrimPrefix(line, areaPrefix)
		case strings.HasPrefix(line, dayLinePrefix):
			rest := strings.TrimSuffix(strings.TrimPrefix(line, dayLinePrefix), ")")
			open := strings.LastIndex(rest, "(")
			if open < 0 {
				continue
			}
			pairs = append(pairs, AreaDate{Area: current, Date: rest[open+1:]})
		}
	}
	return pairs
}
