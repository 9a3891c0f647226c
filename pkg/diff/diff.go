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

// Package diff renders the pending change of a dry run without mutating the
// target file.
package diff

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextRadius is how many unchanged lines survive around each change
const contextRadius = 2

// 🔭 Preview renders a line-oriented diff between the current and the patched
// content. Long unchanged runs collapse to a marker so large files stay
// readable.
func Preview(original, patched string) string {
	dmp := diffmatchpatch.New()

	// Line-mode diff: boundaries stay on line breaks.
	chars1, chars2, lineArray := dmp.DiffLinesToChars(original, patched)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var b strings.Builder
	for _, d := range diffs {
		lines := splitDiffLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString(color.RedString("- %s", l))
				b.WriteByte('\n')
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString(color.GreenString("+ %s", l))
				b.WriteByte('\n')
			}
		case diffmatchpatch.DiffEqual:
			writeContext(&b, lines)
		}
	}
	return b.String()
}

// splitDiffLines drops terminators so the renderer controls layout. CRLF
// content renders without stray carriage returns.
func splitDiffLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func writeContext(b *strings.Builder, lines []string) {
	if len(lines) <= contextRadius*2+1 {
		for _, l := range lines {
			b.WriteString("  ")
			b.WriteString(l)
			b.WriteByte('\n')
		}
		return
	}
	for _, l := range lines[:contextRadius] {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString("  ...\n")
	for _, l := range lines[len(lines)-contextRadius:] {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

// Changed reports whether the patched content differs at all
func Changed(original, patched string) bool {
	return original != patched
}
