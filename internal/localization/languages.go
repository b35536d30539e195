package localization

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/Belphemur/TVApi/internal/models"
)

// Languages is the set of languages the localization source can translate
// into. It is built once and never modified afterwards.
type Languages struct {
	loaded bool
	// abbreviations maps an ISO 639 base language to the source's own code
	abbreviations map[language.Base]string
}

// Unsupported is the language set used when the list could not be loaded.
// It supports no language, so enrichment is always skipped.
var Unsupported = &Languages{}

// NewLanguages indexes the source languages by ISO 639 base language so that
// "fr", "fra" and "fr-CA" all resolve to the same entry. Entries whose
// abbreviation is not a known language code are ignored.
func NewLanguages(list []models.Language) *Languages {
	abbreviations := make(map[language.Base]string, len(list))
	for _, l := range list {
		base, ok := baseOf(l.Abbreviation)
		if !ok {
			continue
		}
		if _, dup := abbreviations[base]; !dup {
			abbreviations[base] = strings.TrimSpace(l.Abbreviation)
		}
	}
	if len(abbreviations) == 0 {
		return Unsupported
	}
	return &Languages{loaded: true, abbreviations: abbreviations}
}

// Loaded reports whether the set came from a successful load.
func (l *Languages) Loaded() bool {
	return l != nil && l.loaded
}

// Len returns the number of supported base languages.
func (l *Languages) Len() int {
	if l == nil {
		return 0
	}
	return len(l.abbreviations)
}

// Supports reports whether code (e.g. "fr", "fra", "pt-BR") is offered by the source.
func (l *Languages) Supports(code string) bool {
	_, ok := l.Lookup(code)
	return ok
}

// Lookup returns the source's abbreviation for code.
func (l *Languages) Lookup(code string) (string, bool) {
	if !l.Loaded() {
		return "", false
	}
	base, ok := baseOf(code)
	if !ok {
		return "", false
	}
	abbreviation, ok := l.abbreviations[base]
	return abbreviation, ok
}

// SameLanguage reports whether a and b share the same base language.
func SameLanguage(a, b string) bool {
	baseA, okA := baseOf(a)
	baseB, okB := baseOf(b)
	if !okA || !okB {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return baseA == baseB
}

func baseOf(code string) (language.Base, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Base{}, false
	}
	if base, err := language.ParseBase(code); err == nil {
		return base, true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Base{}, false
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return language.Base{}, false
	}
	return base, true
}
