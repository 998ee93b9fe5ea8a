package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// fraction of the daily limit already used, clamped to [0, 1]
func usageRatio(status ResourceStatus) float64 {
	if status.Limit <= 0 {
		return 1
	}

	ratio := float64(status.Used) / float64(status.Limit)

	return min(max(ratio, 0), 1)
}

// time left until the next UTC midnight
func untilReset(now time.Time) time.Duration {
	utc := now.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day()+1, 0, 0, 0, 0, time.UTC)

	return midnight.Sub(utc)
}

func formatCountdown(d time.Duration) string {
	d = d.Round(time.Minute)

	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

// renders per-day counts, newest first
func renderHistory(history []DailyUsage) string {
	if len(history) == 0 {
		return ""
	}

	byDate := make(map[string]map[string]int)
	for _, row := range history {
		if byDate[row.Date] == nil {
			byDate[row.Date] = make(map[string]int)
		}

		byDate[row.Date][row.Action] += row.Count
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	var b strings.Builder

	b.WriteString(sectionStyle.Render(fmt.Sprintf("last %d days", historyDays)))
	b.WriteString("\n")

	for _, date := range dates {
		counts := byDate[date]
		b.WriteString(countStyle.Render(fmt.Sprintf("%s  generated %-3d enhanced %-3d animated %-3d",
			date,
			counts["image_generation"],
			counts["image_enhancement"],
			counts["video_generation"],
		)))
		b.WriteString("\n")
	}

	return b.String()
}
