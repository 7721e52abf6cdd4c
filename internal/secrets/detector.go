package secrets

import (
	"fmt"
	"regexp"

	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	gitleaksRegexp "github.com/zricethezav/gitleaks/v8/regexp"
)

// Finding is one detected secret.
type Finding struct {
	RuleID   string
	RuleDesc string
	Line     int
	Match    string
}

// Detect scans content with the Gitleaks default rules. allowlist may be nil.
func Detect(content string, allowlist *Allowlist) ([]Finding, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("creating detector: %w", err)
	}
	if !allowlist.Empty() {
		if err := applyAllowlist(&detector.Config, allowlist); err != nil {
			return nil, err
		}
	}

	leaks := detector.DetectString(content)
	findings := make([]Finding, 0, len(leaks))
	for _, f := range leaks {
		if f.Secret == "" {
			continue
		}
		findings = append(findings, Finding{
			RuleID:   f.RuleID,
			RuleDesc: f.Description,
			Line:     f.StartLine,
			Match:    f.Secret,
		})
	}
	return findings, nil
}

func applyAllowlist(cfg *gitleaksConfig.Config, allowlist *Allowlist) error {
	global := &gitleaksConfig.Allowlist{
		Description: "convsplit export allowlist",
		StopWords:   allowlist.StopWords,
	}
	for _, pattern := range allowlist.Regexes {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidRegex, pattern, err)
		}
		global.Regexes = append(global.Regexes, (*gitleaksRegexp.Regexp)(re))
	}
	cfg.Allowlists = append(cfg.Allowlists, global)
	return nil
}
