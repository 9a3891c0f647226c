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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_config",
			config: `
targets:
  - electron/main.ts
rules:
  - name: media-path
    strategy: pattern
    pattern: 'let pathName'
    replacement:
      - "      let pathName = request.url;"
  - name: pinned
    strategy: line-anchor
    start_line: 107
    line_count: 8
    anchor: 'let pathName = request.url;'
    forbid: base64
    replacement:
      - "      let pathName = request.url;"
async: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"electron/main.ts"}, cfg.Targets)
				assert.True(t, cfg.Async, "async should be set")
				require.Len(t, cfg.Rules, 2)
				assert.Equal(t, "media-path", cfg.Rules[0].Name)
				assert.Equal(t, StrategyPattern, cfg.Rules[0].Strategy)
				assert.Equal(t, "let pathName", cfg.Rules[0].Pattern)
				assert.Equal(t, StrategyLineAnchor, cfg.Rules[1].Strategy)
				assert.Equal(t, 107, cfg.Rules[1].StartLine)
				assert.Equal(t, 8, cfg.Rules[1].LineCount)
				assert.Equal(t, "base64", cfg.Rules[1].Forbid)
			},
		},
		{
			name: "unknown_field",
			config: `
targets: [a.txt]
rules:
  - name: r
    strategy: pattern
    pattern: x
    replacement: [y]
surprise: true
`,
			errContains: "parsing YAML",
		},
		{
			name: "missing_targets",
			config: `
rules:
  - name: r
    strategy: pattern
    pattern: x
    replacement: [y]
`,
			errContains: "at least one target is required",
		},
		{
			name: "missing_rules",
			config: `
targets: [a.txt]
`,
			errContains: "at least one rule is required",
		},
		{
			name: "unknown_strategy",
			config: `
targets: [a.txt]
rules:
  - name: r
    strategy: fuzzy
    replacement: [y]
`,
			errContains: "unknown strategy",
		},
		{
			name: "invalid_pattern",
			config: `
targets: [a.txt]
rules:
  - name: r
    strategy: pattern
    pattern: '(unclosed'
    replacement: [y]
`,
			errContains: "invalid pattern",
		},
		{
			name: "line_anchor_missing_anchor",
			config: `
targets: [a.txt]
rules:
  - name: r
    strategy: line-anchor
    start_line: 3
    line_count: 2
    replacement: [y]
`,
			errContains: "anchor is required",
		},
		{
			name: "line_anchor_bad_start",
			config: `
targets: [a.txt]
rules:
  - name: r
    strategy: line-anchor
    start_line: 0
    line_count: 2
    anchor: x
    replacement: [y]
`,
			errContains: "start_line must be 1 or greater",
		},
		{
			name: "pattern_with_anchor_fields",
			config: `
targets: [a.txt]
rules:
  - name: r
    strategy: pattern
    pattern: x
    start_line: 3
    replacement: [y]
`,
			errContains: "only apply to the line-anchor strategy",
		},
		{
			name: "rule_missing_name",
			config: `
targets: [a.txt]
rules:
  - strategy: pattern
    pattern: x
    replacement: [y]
`,
			errContains: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", tt.config)
			cfg, err := Load(context.Background(), path)

			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_HCL(t *testing.T) {
	hcl := `
targets = ["electron/main.ts"]
async   = true

rule "media-path" {
  strategy    = "pattern"
  pattern     = "let pathName"
  replacement = ["      let pathName = request.url;"]
}

rule "pinned" {
  strategy    = "line-anchor"
  start_line  = 107
  line_count  = 8
  anchor      = "let pathName = request.url;"
  forbid      = "base64"
  replacement = ["      let pathName = request.url;"]
}
`
	path := writeConfig(t, "config.hcl", hcl)
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"electron/main.ts"}, cfg.Targets)
	assert.True(t, cfg.Async)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "media-path", cfg.Rules[0].Name)
	assert.Equal(t, StrategyPattern, cfg.Rules[0].Strategy)
	assert.Equal(t, "pinned", cfg.Rules[1].Name)
	assert.Equal(t, 107, cfg.Rules[1].StartLine)
	assert.Equal(t, "base64", cfg.Rules[1].Forbid)
}

func TestLoad_FormatParity(t *testing.T) {
	// The same rules written in both dialects must decode identically.
	yamlCfg, err := Load(context.Background(), writeConfig(t, "config.yaml", `
targets: [a.txt]
rules:
  - name: r
    strategy: line-anchor
    start_line: 5
    line_count: 2
    anchor: needle
    replacement: [one, two]
`))
	require.NoError(t, err)

	hclCfg, err := Load(context.Background(), writeConfig(t, "config.hcl", `
targets = ["a.txt"]

rule "r" {
  strategy    = "line-anchor"
  start_line  = 5
  line_count  = 2
  anchor      = "needle"
  replacement = ["one", "two"]
}
`))
	require.NoError(t, err)

	assert.Equal(t, yamlCfg, hclCfg)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		path := writeConfig(t, "config.toml", "targets = []")
		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no parser found")
	})

	t.Run("invalid_hcl", func(t *testing.T) {
		path := writeConfig(t, "config.hcl", "rule {{{")
		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing")
	})
}

func TestGetParser(t *testing.T) {
	assert.IsType(t, &YAMLParser{}, GetParser("a.yaml"))
	assert.IsType(t, &YAMLParser{}, GetParser("a.yml"))
	assert.IsType(t, &HCLParser{}, GetParser("a.hcl"))
	assert.Nil(t, GetParser("a.toml"))
}
