package optimizer

import (
	"fmt"
	"strings"
)

// Wire markers for the composite tool result. The format is positional text:
// callers split by substring search, so these literals are a compatibility
// contract. Payloads containing the literals themselves corrupt the split.
const (
	markerAnalysisStart = "DAO_ANALYSIS:"
	markerAnalysisEnd   = "END_ANALYSIS"
	markerOptimized     = "OPTIMIZED_PROPOSAL:"
)

// FallbackReply is shown when a tool result carries an analysis block but no
// optimized proposal marker.
const FallbackReply = "No optimized proposal found."

// Compose serializes the pipeline result for transport across the tool boundary.
func Compose(analysis, optimized string) string {
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s",
		markerAnalysisStart, analysis, markerAnalysisEnd, markerOptimized, optimized)
}

// Split separates a composite result into the hidden analysis segment and the
// user-visible segment. ok is false when the text is not a tool result at all
// (no analysis block); callers then show the text verbatim.
func Split(s string) (hidden, visible string, ok bool) {
	start := strings.Index(s, markerAnalysisStart)
	if start < 0 {
		return "", "", false
	}
	rest := s[start+len(markerAnalysisStart):]
	end := strings.Index(rest, markerAnalysisEnd)
	if end < 0 {
		return "", "", false
	}
	hidden = strings.TrimSpace(rest[:end])

	if at := strings.Index(s, markerOptimized); at >= 0 {
		visible = strings.TrimSpace(s[at+len(markerOptimized):])
	} else {
		visible = FallbackReply
	}
	return hidden, visible, true
}
