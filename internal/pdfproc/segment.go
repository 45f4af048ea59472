package pdfproc

import (
	"regexp"
	"strings"
)

// segmentAnchor marks the start of a passport record within page text. A page
// listing several passports yields one candidate segment per anchor.
var segmentAnchor = regexp.MustCompile(`(?i)passport\s*(no\b|number\b|#)`)

// fieldKeyword matches any recognized passport field label; segments with no
// keyword at all are treated as noise.
var fieldKeyword = regexp.MustCompile(`(?i)(passport\s*(no\b|number\b|#)|nationality|surname|given\s*names?|date\s*of\s*birth|place\s*of\s*birth|date\s*of\s*issue|date\s*of\s*expiry|issuing\s*authority|sex|gender)`)

// segmentPassports splits reconstructed page text into candidate passport
// segments at each anchor occurrence, discarding segments shorter than minLen
// or lacking any recognized field label.
func segmentPassports(text string, minLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	starts := segmentAnchor.FindAllStringIndex(text, -1)

	var candidates []string
	switch {
	case len(starts) <= 1:
		candidates = []string{text}
	default:
		// Text before the first anchor belongs to the first record.
		prev := 0
		for i, loc := range starts {
			if i == 0 {
				continue
			}
			candidates = append(candidates, text[prev:loc[0]])
			prev = loc[0]
		}
		candidates = append(candidates, text[prev:])
	}

	var segments []string
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) < minLen {
			continue
		}
		if !fieldKeyword.MatchString(c) {
			continue
		}
		segments = append(segments, c)
	}
	return segments
}
