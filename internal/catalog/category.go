package catalog

import "github.com/examencivique/examencivique/internal/i18n"

// Category is one of the five official exam themes.
type Category string

const (
	CategoryPrinciples   Category = "principes_valeurs"
	CategoryInstitutions Category = "institutions"
	CategoryRights       Category = "droits_devoirs"
	CategoryHistory      Category = "histoire_geo_culture"
	CategoryLiving       Category = "vie_en_france"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryPrinciples,
		CategoryInstitutions,
		CategoryRights,
		CategoryHistory,
		CategoryLiving,
	}
}

// ParseCategory returns the category for a wire key.
func ParseCategory(key string) (Category, bool) {
	for _, c := range AllCategories() {
		if string(c) == key {
			return c, true
		}
	}
	return "", false
}

// DisplayName returns the localized theme name.
func (c Category) DisplayName(lang i18n.Language) string {
	if lang == i18n.ZH {
		switch c {
		case CategoryPrinciples:
			return "原则与价值观"
		case CategoryInstitutions:
			return "机构与政治"
		case CategoryRights:
			return "权利与义务"
		case CategoryHistory:
			return "历史、地理与文化"
		case CategoryLiving:
			return "在法国生活"
		}
		return string(c)
	}
	switch c {
	case CategoryPrinciples:
		return "Principes & Valeurs"
	case CategoryInstitutions:
		return "Institutions & Politique"
	case CategoryRights:
		return "Droits & Devoirs"
	case CategoryHistory:
		return "Histoire, Géo & Culture"
	case CategoryLiving:
		return "Vivre en France"
	default:
		return string(c)
	}
}

// Color returns the accent color used for the theme in the UI.
func (c Category) Color() string {
	switch c {
	case CategoryPrinciples:
		return "#002494" // French blue
	case CategoryInstitutions:
		return "#7B1FA2"
	case CategoryRights:
		return "#E65100"
	case CategoryHistory:
		return "#338C33"
	case CategoryLiving:
		return "#ED2939" // French red
	default:
		return "#94A3B8"
	}
}
