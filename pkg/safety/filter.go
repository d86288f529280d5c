package safety

import (
	"regexp"
	"strings"
)

// Category groups unsafe patterns for logging and audit events.
type Category string

const (
	CategorySelfHarm  Category = "self_harm"
	CategorySuicide   Category = "suicide"
	CategoryOverdose  Category = "overdose"
	CategoryPoisoning Category = "poisoning"
	CategorySubstance Category = "substance_acquisition"
)

// Verdict is the result of checking a single text.
type Verdict struct {
	Safe     bool
	Category Category
	Pattern  string
}

// Plain keywords are matched as substrings of the lower-cased input.
var keywords = []struct {
	category Category
	word     string
}{
	{CategorySuicide, "suicide"},
	{CategorySuicide, "suicidal"},
	{CategorySelfHarm, "self-harm"},
	{CategorySelfHarm, "self harm"},
	{CategoryOverdose, "overdose"},
}

var rules = []struct {
	category Category
	pattern  *regexp.Regexp
}{
	{CategorySuicide, regexp.MustCompile(`(?i)\bkill(ing)?\s+my\s*self\b`)},
	{CategorySuicide, regexp.MustCompile(`(?i)\bend(ing)?\s+(my\s+(own\s+)?life|it\s+all)\b`)},
	{CategorySuicide, regexp.MustCompile(`(?i)\b(want|wanna|wanted)\s+(to\s+)?die\b`)},
	{CategorySuicide, regexp.MustCompile(`(?i)\bhang(ing)?\s+my\s*self\b`)},
	{CategorySelfHarm, regexp.MustCompile(`(?i)\b(cut|cutting|hurt|hurting|harm|harming|burn|burning)\s+my\s*self\b`)},
	{CategoryOverdose, regexp.MustCompile(`(?i)\boverdos(e|ed|ing)\b`)},
	{CategoryOverdose, regexp.MustCompile(`(?i)\b(take|taking|swallow|swallowing)\s+(all|a\s+bottle\s+of|too\s+many)\s+(of\s+)?(my\s+)?(pills|tablets|meds)\b`)},
	{CategoryPoisoning, regexp.MustCompile(`(?i)\bpoison(s|ing|ed)?\b`)},
	{CategorySubstance, regexp.MustCompile(`(?i)\b(buy|buying|get|getting|order|ordering|purchase|find|score|make|cook)\b[^.!?;\n]{0,40}?\b(cocaine|heroin|meth|methamphetamine|fentanyl|crack|lsd|mdma|ecstasy|oxycodone|xanax)\b`)},
}

// Check classifies text against the fixed pattern set. Matching is
// case-insensitive and the first hit wins.
func Check(text string) Verdict {
	if text == "" {
		return Verdict{Safe: true}
	}

	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k.word) {
			return Verdict{Category: k.category, Pattern: k.word}
		}
	}

	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			return Verdict{Category: r.category, Pattern: r.pattern.String()}
		}
	}

	return Verdict{Safe: true}
}

// IsSafe reports whether text matched none of the unsafe patterns.
func IsSafe(text string) bool {
	return Check(text).Safe
}
