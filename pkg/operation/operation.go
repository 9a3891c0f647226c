// Package operation wires documents, locators and the applier into the
// Loaded -> Located -> Patched -> Written pipeline.
package operation

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/locate"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work executed by the Runner
type Operation interface {
	// Name identifies the operation in logs
	Name() string

	// Execute runs the operation to completion or first failure
	Execute(ctx context.Context) error
}

// 🔧 Options contains the collaborators every operation needs
type Options struct {
	// Config is the validated patchrc configuration
	Config *config.Config

	// Reporter receives user-facing progress
	Reporter status.Reporter

	// Root is the directory relative target globs resolve against.
	// Empty means the current directory.
	Root string
}

func (o Options) validate() error {
	if o.Config == nil {
		return errors.New("config is required")
	}
	if o.Reporter == nil {
		return errors.New("reporter is required")
	}
	return nil
}

// 🗺️ expandTargets resolves the config's doublestar globs into a sorted,
// de-duplicated file list. A literal path (no glob metacharacters) must
// exist; a glob that matches nothing is skipped.
func expandTargets(root string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, p := range patterns {
		full := p
		if root != "" && !filepath.IsAbs(p) {
			full = filepath.Join(root, p)
		}
		matches, err := doublestar.FilepathGlob(full)
		if err != nil {
			return nil, errors.Errorf("expanding target glob %q: %w", p, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(p, "*?[{") {
			return nil, errors.Errorf("target %q does not exist", p)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no files matched targets %q", strings.Join(patterns, ", "))
	}
	sort.Strings(files)
	return files, nil
}

// 🧭 strategyFor builds the locator for a validated rule
func strategyFor(rule config.Rule) (locate.Strategy, error) {
	switch rule.Strategy {
	case config.StrategyPattern:
		return locate.NewPatternStrategy(rule.Pattern)
	case config.StrategyLineAnchor:
		return &locate.LineAnchorStrategy{
			StartLine: rule.StartLine - 1,
			LineCount: rule.LineCount,
			Anchor:    rule.Anchor,
			Forbid:    rule.Forbid,
		}, nil
	default:
		return nil, errors.Errorf("unknown strategy %q", rule.Strategy)
	}
}
