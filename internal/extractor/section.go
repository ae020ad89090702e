package extractor

import "regexp"

// sectionBetween slices the document from the first match of start up
// to (but excluding) the next match of end. When end never appears the
// slice is capped at fallbackWindow bytes. DANFE layouts keep related
// fields inside labeled blocks, so most extractors scope their search
// this way before applying patterns.
func sectionBetween(text string, start, end *regexp.Regexp, fallbackWindow int) string {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	tail := text[loc[0]:]
	endLoc := end.FindStringIndex(tail)
	if endLoc == nil {
		if len(tail) > fallbackWindow {
			return tail[:fallbackWindow]
		}
		return tail
	}
	return tail[:endLoc[0]]
}

// firstPattern returns the first submatch of the first pattern that
// matches text, or "" when none do. Extraction strategies are ordered
// most-specific first, so the first hit wins.
func firstPattern(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
