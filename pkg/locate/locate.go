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

package locate

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/document"
	"gitlab.com/tozd/go/errors"
)

// Typed failures. Callers branch with errors.Is; the wrapping message carries
// the expected anchor text for diagnosis.
var (
	ErrNoMatch        = errors.Base("no match for patch region")
	ErrAmbiguousMatch = errors.Base("pattern matches more than once")
	ErrAnchorMismatch = errors.Base("anchor text not present at declared line")
)

// 🎯 Region is a contiguous span of whole lines subject to replacement
type Region struct {
	StartLine int // 0-based index into the document's lines
	LineCount int
	StartByte int // offsets into the document's raw bytes
	EndByte   int
}

// 🔌 Strategy locates the region a rule should replace. Implementations are
// pure reads over the document.
type Strategy interface {
	// Locate returns the region to replace, or one of the typed failures
	Locate(ctx context.Context, doc *document.Document) (*Region, error)

	// Describe returns the pattern or anchor text, for diagnostics
	Describe() string
}

// 🔍 PatternStrategy finds the region with a regex over the full document
// text. Exactly one match is required; zero or several abort the run so an
// unintended location is never patched.
type PatternStrategy struct {
	re *regexp.Regexp
}

// 🏭 NewPatternStrategy compiles pattern into a strategy
func NewPatternStrategy(pattern string) (*PatternStrategy, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling pattern: %w", err)
	}
	return &PatternStrategy{re: re}, nil
}

// Describe implements Strategy.Describe
func (s *PatternStrategy) Describe() string {
	return s.re.String()
}

// Locate implements Strategy.Locate
func (s *PatternStrategy) Locate(ctx context.Context, doc *document.Document) (*Region, error) {
	text := doc.Text()

	matches := s.re.FindAllStringIndex(text, 2)
	switch len(matches) {
	case 0:
		return nil, errors.Errorf("%w: pattern %q", ErrNoMatch, s.re.String())
	case 1:
		// exactly one, proceed
	default:
		return nil, errors.Errorf("%w: pattern %q", ErrAmbiguousMatch, s.re.String())
	}

	// Widen the match to whole lines so the applier always swaps complete
	// lines, keeping the surrounding bytes untouched.
	startLine := doc.LineAt(matches[0][0])
	endLine := startLine
	if matches[0][1] > matches[0][0] {
		endLine = doc.LineAt(matches[0][1] - 1)
	}
	count := endLine - startLine + 1

	startByte, endByte, err := doc.LineSpan(startLine, count)
	if err != nil {
		return nil, errors.Errorf("resolving matched lines: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Int("start_line", startLine+1).
		Int("line_count", count).
		Msg("pattern matched once")

	return &Region{StartLine: startLine, LineCount: count, StartByte: startByte, EndByte: endByte}, nil
}

// 📌 LineAnchorStrategy selects a fixed block of lines, but only after
// verifying the expected anchor text is still on the first of them. A
// document that drifted, or was patched already, fails instead of being
// silently rewritten.
type LineAnchorStrategy struct {
	StartLine int // 0-based
	LineCount int
	Anchor    string

	// Forbid, when set, is text that must NOT appear inside the region. The
	// anchor line often survives the patch unchanged; Forbid catches the
	// already-patched case the anchor alone cannot.
	Forbid string
}

// Describe implements Strategy.Describe
func (s *LineAnchorStrategy) Describe() string {
	return s.Anchor
}

// Locate implements Strategy.Locate
func (s *LineAnchorStrategy) Locate(ctx context.Context, doc *document.Document) (*Region, error) {
	if s.StartLine < 0 || s.StartLine >= doc.LineCount() {
		return nil, errors.Errorf("%w: line %d out of range (document has %d lines)", ErrAnchorMismatch, s.StartLine+1, doc.LineCount())
	}
	if s.StartLine+s.LineCount > doc.LineCount() {
		return nil, errors.Errorf("%w: block of %d lines at line %d runs past end of document", ErrAnchorMismatch, s.LineCount, s.StartLine+1)
	}
	if !strings.Contains(doc.Lines[s.StartLine].Text, s.Anchor) {
		return nil, errors.Errorf("%w: expected %q at line %d, found %q", ErrAnchorMismatch, s.Anchor, s.StartLine+1, doc.Lines[s.StartLine].Text)
	}

	startByte, endByte, err := doc.LineSpan(s.StartLine, s.LineCount)
	if err != nil {
		return nil, errors.Errorf("resolving anchored lines: %w", err)
	}

	if s.Forbid != "" {
		region := doc.Text()[startByte:endByte]
		if strings.Contains(region, s.Forbid) {
			return nil, errors.Errorf("%w: region at line %d already contains %q", ErrAnchorMismatch, s.StartLine+1, s.Forbid)
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("start_line", s.StartLine+1).
		Int("line_count", s.LineCount).
		Str("anchor", s.Anchor).
		Msg("anchor verified")

	return &Region{StartLine: s.StartLine, LineCount: s.LineCount, StartByte: startByte, EndByte: endByte}, nil
}
