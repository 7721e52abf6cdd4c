package secrets

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Redactor rewrites content with secrets replaced by markers.
type Redactor interface {
	Redact(content string) (Result, error)
}

// Result is redacted content plus a summary of what was replaced.
type Result struct {
	Content    string
	Redactions []Redaction
	Duration   time.Duration
}

// Redaction describes one replaced secret without its value.
type Redaction struct {
	RuleID      string `json:"rule_id"`
	RuleDesc    string `json:"rule_desc"`
	Line        int    `json:"line"`
	OriginalLen int    `json:"original_len"`
	Preview     string `json:"preview"`
}

// HasRedactions reports whether anything was replaced.
func (r Result) HasRedactions() bool {
	return len(r.Redactions) > 0
}

// RuleCounts returns the number of redactions per rule id.
func (r Result) RuleCounts() map[string]int {
	counts := make(map[string]int)
	for _, red := range r.Redactions {
		counts[red.RuleID]++
	}
	return counts
}

// GitleaksRedactor redacts with Gitleaks detection.
type GitleaksRedactor struct {
	allowlist *Allowlist
}

// NewRedactor loads the allowlist files and returns a redactor.
func NewRedactor(allowlistPaths ...string) (*GitleaksRedactor, error) {
	allowlist, err := LoadAllowlist(allowlistPaths...)
	if err != nil {
		return nil, fmt.Errorf("loading allowlist: %w", err)
	}
	return &GitleaksRedactor{allowlist: allowlist}, nil
}

// Redact detects secrets in content and replaces every occurrence of each.
func (g *GitleaksRedactor) Redact(content string) (Result, error) {
	start := time.Now()
	findings, err := Detect(content, g.allowlist)
	if err != nil {
		return Result{}, fmt.Errorf("detecting secrets: %w", err)
	}
	return Result{
		Content:    replaceFindings(content, findings),
		Redactions: redactions(findings),
		Duration:   time.Since(start),
	}, nil
}

// replaceFindings substitutes markers for each distinct secret, longest
// first so a secret containing another is replaced whole.
func replaceFindings(content string, findings []Finding) string {
	if len(findings) == 0 {
		return content
	}
	sorted := slices.Clone(findings)
	slices.SortStableFunc(sorted, func(a, b Finding) int {
		return cmp.Compare(len(b.Match), len(a.Match))
	})

	done := make(map[string]struct{}, len(sorted))
	for _, f := range sorted {
		if _, ok := done[f.Match]; ok {
			continue
		}
		done[f.Match] = struct{}{}
		content = strings.ReplaceAll(content, f.Match, marker(f))
	}
	return content
}

func marker(f Finding) string {
	return fmt.Sprintf("[REDACTED:%s:%s]", f.RuleID, preview(f.Match, 4))
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func redactions(findings []Finding) []Redaction {
	out := make([]Redaction, 0, len(findings))
	for _, f := range findings {
		out = append(out, Redaction{
			RuleID:      f.RuleID,
			RuleDesc:    f.RuleDesc,
			Line:        f.Line,
			OriginalLen: len(f.Match),
			Preview:     preview(f.Match, 4),
		})
	}
	return out
}

// NoopRedactor returns content unchanged.
type NoopRedactor struct{}

// Redact implements Redactor.
func (NoopRedactor) Redact(content string) (Result, error) {
	return Result{Content: content}, nil
}
