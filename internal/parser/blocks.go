package parser

import (
	"regexp"
	"strings"
)

// Capture files hold one pasted portal response per student, separated by
// "user 1", "user 2", ... delimiter lines.
var blockDelimiterPattern = regexp.MustCompile(`(?i)user\s*\d+`)

// minBlockSize filters out delimiter residue and instruction lines; a real
// response block is always far larger.
const minBlockSize = 100

// SplitCaptureBlocks splits a pasted multi-student capture into one markup
// block per student, in file order. Callers zip the blocks positionally with
// the roster, truncating to the shorter of the two.
func SplitCaptureBlocks(content string) []string {
	parts := blockDelimiterPattern.Split(content, -1)

	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(strings.TrimSpace(part)) > minBlockSize {
			blocks = append(blocks, part)
		}
	}
	return blocks
}
