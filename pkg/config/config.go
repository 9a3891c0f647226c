// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🧩 Strategy names accepted in rule definitions
const (
	StrategyPattern    = "pattern"
	StrategyLineAnchor = "line-anchor"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule describes one region replacement. Exactly one locating strategy is
// active per rule: a multiline pattern, or a fixed line block verified by an
// anchor substring.
type Rule struct {
	Name     string `json:"name" yaml:"name"`
	Strategy string `json:"strategy" yaml:"strategy"`

	// pattern strategy
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// line-anchor strategy; StartLine is 1-based
	StartLine int    `json:"start_line,omitempty" yaml:"start_line,omitempty"`
	LineCount int    `json:"line_count,omitempty" yaml:"line_count,omitempty"`
	Anchor    string `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Forbid    string `json:"forbid,omitempty" yaml:"forbid,omitempty"`

	Replacement []string `json:"replacement" yaml:"replacement"`
}

// 📚 Config is the complete patchrc configuration
type Config struct {
	Targets []string `json:"targets" yaml:"targets"` // doublestar globs or literal paths
	Rules   []Rule   `json:"rules" yaml:"rules"`
	Async   bool     `json:"async,omitempty" yaml:"async,omitempty"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Targets) == 0 {
		return errors.New("at least one target is required")
	}
	if len(cfg.Rules) == 0 {
		return errors.New("at least one rule is required")
	}
	for i := range cfg.Rules {
		if err := cfg.Rules[i].Validate(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// 🔍 Validate checks a single rule
func (r *Rule) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	switch r.Strategy {
	case StrategyPattern:
		if r.Pattern == "" {
			return errors.New("pattern is required for the pattern strategy")
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return errors.Errorf("invalid pattern: %w", err)
		}
		if r.StartLine != 0 || r.LineCount != 0 || r.Anchor != "" {
			return errors.New("start_line, line_count and anchor only apply to the line-anchor strategy")
		}
	case StrategyLineAnchor:
		if r.StartLine < 1 {
			return errors.New("start_line must be 1 or greater")
		}
		if r.LineCount < 1 {
			return errors.New("line_count must be 1 or greater")
		}
		if r.Anchor == "" {
			return errors.New("anchor is required for the line-anchor strategy")
		}
		if r.Pattern != "" {
			return errors.New("pattern only applies to the pattern strategy")
		}
	default:
		return errors.Errorf("unknown strategy %q (want %q or %q)", r.Strategy, StrategyPattern, StrategyLineAnchor)
	}
	return nil
}

// 📝 String returns a short description of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d rule(s) -> %s", len(cfg.Rules), strings.Join(cfg.Targets, ", "))
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses the config from YAML
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}
