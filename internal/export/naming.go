package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

const (
	maxSafeLen   = 80
	untitled     = "Untitled"
	stampLayout  = "2006-01-02-15-04"
	cjkFirst     = '一'
	cjkLast      = '龥'
	safeFallback = '_'
)

func safeRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r == '_' || r == '-':
		return true
	case r >= cjkFirst && r <= cjkLast:
		return true
	}
	return false
}

// Safe makes s usable as a file name component. An empty s becomes
// "Untitled". Each run of characters other than ASCII letters, digits,
// '_', '-' and the CJK unified ideographs U+4E00..U+9FA5 collapses to a
// single '_'. The result is cut to 80 characters.
func Safe(s string) string {
	if s == "" {
		s = untitled
	}

	var b strings.Builder
	b.Grow(len(s))
	n := 0
	inRun := false
	for _, r := range s {
		if n == maxSafeLen {
			break
		}
		if !safeRune(r) {
			if inRun {
				continue
			}
			inRun = true
			r = safeFallback
		} else {
			inRun = false
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// Timestamp formats t as YYYY-MM-DD-HH-MM in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// FileName returns the Markdown file name for c. The timestamp comes from
// the conversation's create_time, or now when it has none. Empty prefix
// and suffix are omitted together with their separators.
func FileName(c *conversation.Conversation, prefix, suffix string, now time.Time) string {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(Safe(prefix))
		b.WriteByte('_')
	}
	b.WriteString(Timestamp(c.Created(now)))
	b.WriteByte('_')
	var title string
	if c != nil {
		title = c.Title
	}
	b.WriteString(Safe(title))
	if suffix != "" {
		b.WriteByte('_')
		b.WriteString(Safe(suffix))
	}
	b.WriteString(".md")
	return b.String()
}

// ZipName returns conversations_{unix millis}.zip.
func ZipName(now time.Time) string {
	return fmt.Sprintf("conversations_%d.zip", now.UnixMilli())
}
