package formatter

import (
	"regexp"
	"strings"
)

// Disclaimer is appended to every successful model reply. It uses underscore
// italics so that marker stripping leaves it untouched.
const Disclaimer = "_This response was generated by an AI assistant and is not a substitute for professional mental health advice, diagnosis, or treatment. If you are in crisis, please contact a licensed professional or your local emergency services._"

const (
	separatedDisclaimer = "---\n" + Disclaimer
	disclaimerBlock     = "\n\n" + separatedDisclaimer
)

// A line that is empty or holds only spaces/tabs counts as blank.
var blankRun = regexp.MustCompile(`\n([ \t]*\n){2,}`)

// StripEmphasis removes markdown emphasis markers.
func StripEmphasis(text string) string {
	return strings.ReplaceAll(text, "*", "")
}

// CollapseBlankLines reduces any run of two or more blank lines to one.
func CollapseBlankLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return blankRun.ReplaceAllString(text, "\n\n")
}

// WithDisclaimer appends the disclaimer block unless it is already present.
func WithDisclaimer(text string) string {
	if text == "" || text == separatedDisclaimer {
		return separatedDisclaimer
	}
	if strings.HasSuffix(text, disclaimerBlock) {
		return text
	}
	return text + disclaimerBlock
}

// Format cleans raw model output for display. The steps run in a fixed
// order and Format(Format(s)) == Format(s).
func Format(raw string) string {
	text := StripEmphasis(raw)
	text = CollapseBlankLines(text)
	text = strings.TrimSpace(text)
	return WithDisclaimer(text)
}
