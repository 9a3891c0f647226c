// Package builtin ships the patch rules patchrc exists to apply.
package builtin

import "github.com/walteh/patchrc/pkg/config"

// The electron media protocol handler ran every media:// URL through
// decodeURIComponent. Paths served under media://file/ carry a base64 segment
// now; these rules swap the decoder for that branch.

// MediaPathAnchor is the first line of the block both strategies look for.
const MediaPathAnchor = "let pathName = request.url;"

// MediaPathForbid marks a block that was already converted to base64.
const MediaPathForbid = "Buffer.from(base64Path, 'base64')"

// mediaBlockPattern matches the 8-line percent-decoding block regardless of
// indentation depth or CRLF/LF endings. It does not match the patched block,
// which keeps a second run from substituting twice.
const mediaBlockPattern = `let pathName = request\.url;\r?\n` +
	`[ \t]*if \(pathName\.startsWith\('media://file/'\)\) \{\r?\n` +
	`[ \t]*pathName = pathName\.replace\('media://file/', ''\);\r?\n` +
	`[ \t]*\} else \{\r?\n` +
	`[ \t]*pathName = pathName\.replace\(/\^media:\\/\\//, ''\);\r?\n` +
	`[ \t]*\}\r?\n` +
	`[ \t]*\r?\n` +
	`[ \t]*pathName = decodeURIComponent\(pathName\);`

// mediaReplacement is the corrected block. percentFallback keeps
// decodeURIComponent for media:// URLs without the /file/ prefix; the intent
// for that branch was never settled, so it stays a switch instead of a guess.
func mediaReplacement(percentFallback bool) []string {
	lines := []string{
		"      let pathName = request.url;",
		"      if (pathName.startsWith('media://file/')) {",
		"        const base64Path = pathName.replace('media://file/', '');",
		"        pathName = Buffer.from(base64Path, 'base64').toString('utf-8');",
		"      } else {",
		"        pathName = pathName.replace(/^media:\\/\\//, '');",
	}
	if percentFallback {
		lines = append(lines, "        pathName = decodeURIComponent(pathName);")
	}
	return append(lines, "      }")
}

// MediaPathPatternRule locates the old decoder block anywhere in the file.
func MediaPathPatternRule(percentFallback bool) config.Rule {
	return config.Rule{
		Name:        "media-path-base64",
		Strategy:    config.StrategyPattern,
		Pattern:     mediaBlockPattern,
		Replacement: mediaReplacement(percentFallback),
	}
}

// MediaPathLineRule pins the block to a known position instead; startLine is
// 1-based. The anchor line is verified before anything is rewritten, and the
// Forbid marker refuses a block that already decodes base64.
func MediaPathLineRule(startLine int, percentFallback bool) config.Rule {
	return config.Rule{
		Name:        "media-path-base64",
		Strategy:    config.StrategyLineAnchor,
		StartLine:   startLine,
		LineCount:   8,
		Anchor:      MediaPathAnchor,
		Forbid:      MediaPathForbid,
		Replacement: mediaReplacement(percentFallback),
	}
}
