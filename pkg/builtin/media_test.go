package builtin

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/document"
	"github.com/walteh/patchrc/pkg/locate"
	"github.com/walteh/patchrc/pkg/patch"
)

// oldBlock is the percent-decoding handler body the rules replace
var oldBlock = []string{
	"      let pathName = request.url;",
	"      if (pathName.startsWith('media://file/')) {",
	"        pathName = pathName.replace('media://file/', '');",
	"      } else {",
	"        pathName = pathName.replace(/^media:\\/\\//, '');",
	"      }",
	"      ",
	"      pathName = decodeURIComponent(pathName);",
}

// handlerFixture builds a plausible electron main around the old block.
// The block starts at line 6 (1-based).
func handlerFixture(ending string, block []string) string {
	lines := []string{
		"const mediaDir = app.getPath('userData');",
		"",
		"app.whenReady().then(() => {",
		"  protocol.registerFileProtocol('media', (request, callback) => {",
		"    try {",
	}
	lines = append(lines, block...)
	lines = append(lines,
		"      callback({ path: path.join(mediaDir, pathName) });",
		"    } catch (e) {",
		"      callback({ error: -2 });",
		"    }",
		"  });",
		"});",
	)
	return strings.Join(lines, ending) + ending
}

const blockStartLine = 6

func TestMediaPathPatternRule(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces_block", func(t *testing.T) {
		text := handlerFixture("\n", oldBlock)
		doc := document.FromBytes("main.ts", []byte(text))

		rule := MediaPathPatternRule(true)
		require.NoError(t, rule.Validate())

		strategy, err := locate.NewPatternStrategy(rule.Pattern)
		require.NoError(t, err)
		region, err := strategy.Locate(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, blockStartLine-1, region.StartLine)
		assert.Equal(t, 8, region.LineCount)

		result, err := patch.Apply(ctx, doc, region, rule.Replacement)
		require.NoError(t, err)

		out := string(result.Output)
		assert.Contains(t, out, "const base64Path = pathName.replace('media://file/', '');")
		assert.Contains(t, out, "Buffer.from(base64Path, 'base64').toString('utf-8');")
		assert.Contains(t, out, "pathName = decodeURIComponent(pathName);", "fallback branch keeps percent-decoding")
		assert.NotContains(t, out, "      pathName = decodeURIComponent(pathName);\n      callback", "unconditional percent-decoding is gone")

		// 8 lines in, 8 lines out: total count unchanged
		patched := document.FromBytes("main.ts", result.Output)
		assert.Equal(t, doc.LineCount(), patched.LineCount())

		// everything outside the block is byte-for-byte identical
		assert.Equal(t, text[:region.StartByte], out[:region.StartByte])
		assert.True(t, strings.HasSuffix(out, text[region.EndByte:]))
	})

	t.Run("no_percent_fallback_variant", func(t *testing.T) {
		rule := MediaPathPatternRule(false)
		require.Len(t, rule.Replacement, 7)
		for _, line := range rule.Replacement {
			assert.NotContains(t, line, "decodeURIComponent")
		}
	})

	t.Run("idempotent_second_run_reports_no_match", func(t *testing.T) {
		text := handlerFixture("\n", oldBlock)
		doc := document.FromBytes("main.ts", []byte(text))

		rule := MediaPathPatternRule(true)
		strategy, err := locate.NewPatternStrategy(rule.Pattern)
		require.NoError(t, err)

		region, err := strategy.Locate(ctx, doc)
		require.NoError(t, err)
		result, err := patch.Apply(ctx, doc, region, rule.Replacement)
		require.NoError(t, err)

		patched := document.FromBytes("main.ts", result.Output)
		_, err = strategy.Locate(ctx, patched)
		require.ErrorIs(t, err, locate.ErrNoMatch)
	})

	t.Run("duplicate_block_is_ambiguous", func(t *testing.T) {
		double := handlerFixture("\n", oldBlock) + handlerFixture("\n", oldBlock)
		doc := document.FromBytes("main.ts", []byte(double))

		rule := MediaPathPatternRule(true)
		strategy, err := locate.NewPatternStrategy(rule.Pattern)
		require.NoError(t, err)

		_, err = strategy.Locate(ctx, doc)
		require.ErrorIs(t, err, locate.ErrAmbiguousMatch)
	})

	t.Run("matches_crlf_document", func(t *testing.T) {
		text := handlerFixture("\r\n", oldBlock)
		doc := document.FromBytes("main.ts", []byte(text))

		rule := MediaPathPatternRule(true)
		strategy, err := locate.NewPatternStrategy(rule.Pattern)
		require.NoError(t, err)
		region, err := strategy.Locate(ctx, doc)
		require.NoError(t, err)

		result, err := patch.Apply(ctx, doc, region, rule.Replacement)
		require.NoError(t, err)

		out := string(result.Output)
		assert.Contains(t, out, "Buffer.from(base64Path, 'base64').toString('utf-8');\r\n", "patched region keeps CRLF")
		assert.NotContains(t, out, "utf-8').toString\n", "no bare LF introduced")
	})
}

func TestMediaPathLineRule(t *testing.T) {
	ctx := context.Background()

	t.Run("anchor_verified_then_replaced", func(t *testing.T) {
		text := handlerFixture("\r\n", oldBlock)
		doc := document.FromBytes("main.ts", []byte(text))

		rule := MediaPathLineRule(blockStartLine, true)
		require.NoError(t, rule.Validate())

		strategy := &locate.LineAnchorStrategy{
			StartLine: rule.StartLine - 1,
			LineCount: rule.LineCount,
			Anchor:    rule.Anchor,
			Forbid:    rule.Forbid,
		}
		region, err := strategy.Locate(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, 8, region.LineCount)

		result, err := patch.Apply(ctx, doc, region, rule.Replacement)
		require.NoError(t, err)
		assert.Equal(t, 8, result.LinesConsumed)
		assert.Equal(t, 8, result.LinesInserted)
		assert.Contains(t, string(result.Output), "Buffer.from(base64Path, 'base64').toString('utf-8');\r\n")
	})

	t.Run("second_run_reports_anchor_mismatch", func(t *testing.T) {
		// The anchor line survives the patch; the Forbid marker is what
		// stops a double substitution.
		text := handlerFixture("\n", oldBlock)
		doc := document.FromBytes("main.ts", []byte(text))

		rule := MediaPathLineRule(blockStartLine, true)
		strategy := &locate.LineAnchorStrategy{
			StartLine: rule.StartLine - 1,
			LineCount: rule.LineCount,
			Anchor:    rule.Anchor,
			Forbid:    rule.Forbid,
		}

		region, err := strategy.Locate(ctx, doc)
		require.NoError(t, err)
		result, err := patch.Apply(ctx, doc, region, rule.Replacement)
		require.NoError(t, err)

		patched := document.FromBytes("main.ts", result.Output)
		_, err = strategy.Locate(ctx, patched)
		require.ErrorIs(t, err, locate.ErrAnchorMismatch)
	})

	t.Run("drifted_document_reports_anchor_mismatch", func(t *testing.T) {
		text := handlerFixture("\n", oldBlock)
		doc := document.FromBytes("main.ts", []byte(text))

		rule := MediaPathLineRule(blockStartLine+2, true) // wrong position
		strategy := &locate.LineAnchorStrategy{
			StartLine: rule.StartLine - 1,
			LineCount: rule.LineCount,
			Anchor:    rule.Anchor,
			Forbid:    rule.Forbid,
		}

		_, err := strategy.Locate(ctx, doc)
		require.ErrorIs(t, err, locate.ErrAnchorMismatch)
		assert.Contains(t, err.Error(), MediaPathAnchor, "failure should name the expected anchor")
	})
}
