package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Allowlist holds content patterns excluded from detection.
type Allowlist struct {
	Regexes   []string
	StopWords []string
}

// Empty reports whether the allowlist has no patterns.
func (a *Allowlist) Empty() bool {
	return a == nil || (len(a.Regexes) == 0 && len(a.StopWords) == 0)
}

// LoadAllowlist reads and merges the allowlist files at paths. Empty paths
// and missing files are skipped. Invalid TOML or regex patterns fail the
// whole load.
func LoadAllowlist(paths ...string) (*Allowlist, error) {
	merged := &Allowlist{}
	for _, path := range paths {
		if path == "" {
			continue
		}
		a, err := loadTOML(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		merged.Regexes = append(merged.Regexes, a.Regexes...)
		merged.StopWords = append(merged.StopWords, a.StopWords...)
	}
	return merged, nil
}

func loadTOML(path string) (*Allowlist, error) {
	var doc struct {
		Allowlist struct {
			Regexes   []string
			StopWords []string `toml:"stopwords"`
		}
	}

	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}

	for _, pattern := range doc.Allowlist.Regexes {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: invalid pattern '%s' in %s: %v",
				ErrInvalidRegex, pattern, path, err)
		}
	}

	return &Allowlist{
		Regexes:   doc.Allowlist.Regexes,
		StopWords: doc.Allowlist.StopWords,
	}, nil
}
