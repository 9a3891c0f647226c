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

package patch

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/document"
	"github.com/walteh/patchrc/pkg/locate"
	"gitlab.com/tozd/go/errors"
)

// 📦 Result describes one rule applied to one document
type Result struct {
	Matched       bool
	LinesConsumed int
	LinesInserted int
	Region        locate.Region
	Output        []byte
}

// 💉 Apply replaces the region's lines with the replacement lines,
// re-terminated with the document's dominant line ending. All bytes outside
// the region pass through untouched. The replacement text itself is opaque to
// the applier; only placement is guaranteed.
func Apply(ctx context.Context, doc *document.Document, region *locate.Region, replacement []string) (*Result, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}
	if region == nil {
		return nil, errors.New("region is required")
	}
	if region.StartByte < 0 || region.EndByte > len(doc.Raw) || region.StartByte > region.EndByte {
		return nil, errors.Errorf("region bytes [%d, %d) out of range for %d-byte document", region.StartByte, region.EndByte, len(doc.Raw))
	}

	ending := doc.DominantEnding()

	// The last replacement line drops its terminator when the region ran to
	// an unterminated end of file, so a file without a trailing newline does
	// not grow one.
	terminal := ending
	lastLine := region.StartLine + region.LineCount - 1
	if lastLine == doc.LineCount()-1 && doc.Lines[lastLine].Ending == "" {
		terminal = ""
	}

	var b strings.Builder
	b.Grow(len(doc.Raw))
	b.Write(doc.Raw[:region.StartByte])
	for i, line := range replacement {
		b.WriteString(line)
		if i == len(replacement)-1 {
			b.WriteString(terminal)
		} else {
			b.WriteString(ending)
		}
	}
	b.Write(doc.Raw[region.EndByte:])

	zerolog.Ctx(ctx).Debug().
		Int("lines_consumed", region.LineCount).
		Int("lines_inserted", len(replacement)).
		Bool("crlf", ending == "\r\n").
		Msg("replaced region")

	return &Result{
		Matched:       true,
		LinesConsumed: region.LineCount,
		LinesInserted: len(replacement),
		Region:        *region,
		Output:        []byte(b.String()),
	}, nil
}
