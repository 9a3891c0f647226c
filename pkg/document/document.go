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

package document

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 Line is a single document line together with its own terminator
type Line struct {
	Text   string // content without the terminator
	Ending string // "\n", "\r\n", or "" for an unterminated final line
}

// 📚 Document holds a target file fully in memory
type Document struct {
	Path  string
	Raw   []byte
	Lines []Line

	offsets []int // byte offset of each line start
}

// 🎯 Load reads the file at path once and splits it into lines
func Load(ctx context.Context, path string) (*Document, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading document")

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading document %s: %w", path, err)
	}

	return FromBytes(path, raw), nil
}

// 🏭 FromBytes builds a document from content already in memory
func FromBytes(path string, raw []byte) *Document {
	doc := &Document{Path: path, Raw: raw}
	doc.Lines, doc.offsets = splitLines(string(raw))
	return doc
}

// splitLines keeps each line's own terminator so a file with mixed endings
// survives a round trip byte-for-byte.
func splitLines(raw string) ([]Line, []int) {
	var lines []Line
	var offsets []int
	start := 0
	for start < len(raw) {
		offsets = append(offsets, start)
		idx := strings.IndexByte(raw[start:], '\n')
		if idx < 0 {
			lines = append(lines, Line{Text: raw[start:]})
			break
		}
		end := start + idx
		text := raw[start:end]
		ending := "\n"
		if strings.HasSuffix(text, "\r") {
			text = text[:len(text)-1]
			ending = "\r\n"
		}
		lines = append(lines, Line{Text: text, Ending: ending})
		start = end + 1
	}
	return lines, offsets
}

// 📝 Text returns the full document contents
func (d *Document) Text() string {
	return string(d.Raw)
}

// LineCount returns the number of lines in the document
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// 🔍 DominantEnding reports the line-ending style used by most of the
// document, "\n" for empty or single unterminated lines.
func (d *Document) DominantEnding() string {
	text := string(d.Raw)
	crlf := strings.Count(text, "\r\n")
	lf := strings.Count(text, "\n") - crlf
	if crlf > lf {
		return "\r\n"
	}
	return "\n"
}

// 📐 LineSpan converts the line range [start, start+count) into byte offsets
// into Raw. Each line's terminator is part of its span.
func (d *Document) LineSpan(start, count int) (int, int, error) {
	if start < 0 || count < 1 || start+count > len(d.Lines) {
		return 0, 0, errors.Errorf("line span %d+%d out of range (document has %d lines)", start, count, len(d.Lines))
	}
	startByte := d.offsets[start]
	endByte := len(d.Raw)
	if start+count < len(d.Lines) {
		endByte = d.offsets[start+count]
	}
	return startByte, endByte, nil
}

// 🔎 LineAt returns the index of the line containing the given byte offset
func (d *Document) LineAt(offset int) int {
	i := sort.Search(len(d.offsets), func(i int) bool { return d.offsets[i] > offset }) - 1
	if i < 0 {
		return 0
	}
	return i
}
