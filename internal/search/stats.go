package search

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

const (
	dayLayout    = "2006-01-02"
	topModelsLen = 3
)

// ModelCount is a model name and how many messages carry it.
type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// DayCount is the number of messages sent on a UTC day.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Streak is a run of consecutive active days. Start and End are
// YYYY-MM-DD and empty when Days is 0.
type Streak struct {
	Days  int    `json:"days"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Stats summarizes the current branches of an archive.
type Stats struct {
	Conversations  int            `json:"conversations"`
	Messages       int            `json:"messages"`
	Chars          int            `json:"chars"`
	AvgChars       float64        `json:"avg_chars"`
	UserChars      int            `json:"user_chars"`
	AssistantChars int            `json:"assistant_chars"`
	RoleCounts     map[string]int `json:"role_counts"`
	TopModels      []ModelCount   `json:"top_models"`
	ActiveDays     int            `json:"active_days"`
	LongestStreak  Streak         `json:"longest_streak"`
	CurrentStreak  Streak         `json:"current_streak"`
	Daily          []DayCount     `json:"daily"`

	// Skipped lists conversations left out because their chains loop.
	Skipped []int `json:"skipped,omitempty"`
}

// Compute walks every conversation's current branch. Characters are
// counted in runes. User characters come from user messages; assistant
// characters from every other non-system role, matching how roles are
// labeled on export. A message is dated by its own create_time, or its
// conversation's when it has none; undated messages count toward totals
// but not toward days. The current streak is the run ending on the latest
// active day when that day is today or yesterday (UTC) relative to now.
func Compute(ctx context.Context, convs []*conversation.Conversation, now time.Time) Stats {
	s := Stats{
		Conversations: len(convs),
		RoleCounts:    make(map[string]int),
	}
	models := make(map[string]int)
	days := make(map[string]int)

	for ci, c := range convs {
		chain, err := conversation.BuildChain(c)
		if err != nil {
			logSkipped(ctx, ci, err)
			s.Skipped = append(s.Skipped, ci)
			continue
		}
		for _, m := range chain {
			n := utf8.RuneCountInString(m.Text())
			role := m.NormalizedRole()

			s.Messages++
			s.Chars += n
			s.RoleCounts[string(role)]++
			switch role {
			case conversation.RoleUser:
				s.UserChars += n
			case conversation.RoleSystem:
			default:
				s.AssistantChars += n
			}
			models[conversation.ExtractModel(m)]++

			t, ok := conversation.UnixTime(m.CreateTime)
			if !ok {
				t, ok = conversation.UnixTime(c.CreateTime)
			}
			if ok {
				days[t.Format(dayLayout)]++
			}
		}
	}

	if s.Messages > 0 {
		s.AvgChars = math.Round(float64(s.Chars)/float64(s.Messages)*10) / 10
	}
	s.TopModels = topModels(models, topModelsLen)
	s.Daily = daily(days)
	s.ActiveDays = len(s.Daily)
	s.LongestStreak, s.CurrentStreak = streaks(s.Daily, now)
	return s
}

func topModels(counts map[string]int, n int) []ModelCount {
	out := make([]ModelCount, 0, len(counts))
	for model, count := range counts {
		out = append(out, ModelCount{Model: model, Count: count})
	}
	slices.SortFunc(out, func(a, b ModelCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Model, b.Model)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func daily(days map[string]int) []DayCount {
	out := make([]DayCount, 0, len(days))
	for day, count := range days {
		out = append(out, DayCount{Day: day, Count: count})
	}
	slices.SortFunc(out, func(a, b DayCount) int { return cmp.Compare(a.Day, b.Day) })
	return out
}

// streaks expects days sorted ascending.
func streaks(days []DayCount, now time.Time) (longest, current Streak) {
	if len(days) == 0 {
		return Streak{}, Streak{}
	}

	var run Streak
	var prev time.Time
	for i, d := range days {
		t, _ := time.Parse(dayLayout, d.Day)
		if i > 0 && t.Sub(prev) == 24*time.Hour {
			run.Days++
			run.End = d.Day
		} else {
			run = Streak{Days: 1, Start: d.Day, End: d.Day}
		}
		if run.Days > longest.Days {
			longest = run
		}
		prev = t
	}

	today := now.UTC().Format(dayLayout)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(dayLayout)
	if run.End == today || run.End == yesterday {
		current = run
	}
	return longest, current
}
