package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"

	"github.com/chuan-101/json-splitter-public/internal/search"
)

const (
	sparklineWidth  = 40
	sparklineHeight = 4
	shareBarWidth   = 30
	dayLayout       = "2006-01-02"
)

// ActivitySeries expands active days into one value per calendar day
// from the first active day to the last, with zeros for quiet days.
// Days that do not parse as YYYY-MM-DD are ignored.
func ActivitySeries(days []search.DayCount) []float64 {
	var (
		series []float64
		prev   time.Time
	)
	for _, d := range days {
		day, err := time.Parse(dayLayout, d.Day)
		if err != nil {
			continue
		}
		if !prev.IsZero() {
			for gap := prev.AddDate(0, 0, 1); gap.Before(day); gap = gap.AddDate(0, 0, 1) {
				series = append(series, 0)
			}
		}
		series = append(series, float64(d.Count))
		prev = day
	}
	return series
}

// ActivitySparkline draws the most recent width days of activity.
func ActivitySparkline(days []search.DayCount, width, height int) string {
	if width <= 0 {
		width = sparklineWidth
	}
	if height <= 0 {
		height = sparklineHeight
	}

	series := ActivitySeries(days)
	if len(series) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", width, "no dated messages"))
	}
	if len(series) > width {
		series = series[len(series)-width:]
	}

	spark := sparkline.New(width, height)
	for _, v := range series {
		spark.Push(v)
	}
	spark.Draw()

	return sparklineStyle.Render(spark.View())
}

// RenderStats formats archive statistics as a terminal report.
func RenderStats(st search.Stats) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("┃ Archive") + "\n")
	row(&b, "Conversations", FormatCount(st.Conversations))
	row(&b, "Messages", FormatCount(st.Messages))
	row(&b, "Characters", FormatCount(st.Chars))
	row(&b, "Avg per message", fmt.Sprintf("%.1f", st.AvgChars))
	if len(st.Skipped) > 0 {
		row(&b, "Skipped", errorStyle.Render(fmt.Sprintf("%v", st.Skipped)))
	}

	b.WriteString(sectionStyle.Render("┃ Authors") + "\n")
	total := st.UserChars + st.AssistantChars
	share := 0.0
	if total > 0 {
		share = float64(st.UserChars) / float64(total)
	}
	bar := progress.New(
		progress.WithGradient("#00ffff", "#ff00ff"),
		progress.WithWidth(shareBarWidth),
		progress.WithoutPercentage(),
	)
	row(&b, "User chars", FormatCount(st.UserChars)+" "+dimStyle.Render(FormatPercentage(share)))
	row(&b, "Assistant chars", FormatCount(st.AssistantChars)+" "+dimStyle.Render(FormatPercentage(1-share)))
	b.WriteString("  " + bar.ViewAs(share) + "\n")

	b.WriteString(sectionStyle.Render("┃ Top models") + "\n")
	if len(st.TopModels) == 0 {
		b.WriteString("  " + dimStyle.Render("none") + "\n")
	}
	for i, mc := range st.TopModels {
		row(&b, fmt.Sprintf("%d. %s", i+1, mc.Model), FormatCount(mc.Count))
	}

	b.WriteString(sectionStyle.Render("┃ Activity") + "\n")
	row(&b, "Active days", FormatCount(st.ActiveDays))
	row(&b, "Longest streak", formatStreak(st.LongestStreak))
	row(&b, "Current streak", formatStreak(st.CurrentStreak))
	b.WriteString(ActivitySparkline(st.Daily, sparklineWidth, sparklineHeight) + "\n")

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", labelStyle.Render(Fit(label, 18)), valueStyle.Render(value))
}

func formatStreak(s search.Streak) string {
	if s.Days == 0 {
		return "0 days"
	}
	unit := "days"
	if s.Days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%d %s (%s → %s)", s.Days, unit, s.Start, s.End)
}
