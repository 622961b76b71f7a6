package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps words filtered at PG13 and below to their
// family-friendly stand-ins. Narration passes through this table right
// before rendering; stored history keeps the original text.
var replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"motherfucker": "mother-trucker",
	"goddamn":      "gosh-dang",
	"christ":       "crikey",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"smartass":     "smarty",
	"badass":       "tough",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"dipshit":      "dummy",
	"shithead":     "jerk",
	"dickhead":     "jerk",
	"prick":        "jerk",
	"douchebag":    "jerk",
	"whore":        "[censored]",
	"slut":         "[censored]",
}

// Filter rewrites profanity in narration to match a content rating. A
// filter built for a mature rating is a pass-through.
type Filter struct {
	active  bool
	regexes map[string]*regexp.Regexp
}

// NewFilter builds a filter for the given content rating.
func NewFilter(rating string) *Filter {
	f := &Filter{
		active:  ShouldFilterContent(rating),
		regexes: make(map[string]*regexp.Regexp),
	}
	if !f.active {
		return f
	}

	for word := range replacements {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		f.regexes[word] = regexp.MustCompile(pattern)
	}
	return f
}

// Active reports whether this filter rewrites anything.
func (f *Filter) Active() bool {
	return f.active
}

// Clean replaces filtered words in text, keeping the case pattern of
// each original word.
func (f *Filter) Clean(text string) string {
	if !f.active {
		return text
	}

	result := text
	for word, regex := range f.regexes {
		replacement := replacements[word]
		result = regex.ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if len(original) == 0 {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: carry the original's casing character by character.
	originalRunes := []rune(original)
	result := make([]rune, 0, len(replacement))
	for i, r := range replacement {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}

// ShouldFilterContent determines if content should be filtered based on
// rating.
func ShouldFilterContent(rating string) bool {
	rating = strings.ToUpper(strings.TrimSpace(rating))
	switch rating {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}
