package models

import "strings"

// TemplateKind names one of the fixed public page layouts.
type TemplateKind string

const (
	TemplateModern       TemplateKind = "modern"
	TemplateMinimal      TemplateKind = "minimal"
	TemplateProfessional TemplateKind = "professional"
	TemplateElegant      TemplateKind = "elegant"
	TemplateDark         TemplateKind = "dark"
	TemplateFuturistic   TemplateKind = "futuristic"

	DefaultTemplate = TemplateModern
)

// TemplateKinds lists every known layout in display order.
var TemplateKinds = []TemplateKind{
	TemplateModern,
	TemplateMinimal,
	TemplateProfessional,
	TemplateElegant,
	TemplateDark,
	TemplateFuturistic,
}

func (k TemplateKind) Valid() bool {
	for _, known := range TemplateKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseTemplateKind reports whether s names a known layout. Matching ignores case.
func ParseTemplateKind(s string) (TemplateKind, bool) {
	k := TemplateKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// OrDefault maps unknown values to the default layout.
func (k TemplateKind) OrDefault() TemplateKind {
	if k.Valid() {
		return k
	}
	return DefaultTemplate
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}
