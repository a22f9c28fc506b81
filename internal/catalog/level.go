package catalog

import "github.com/examencivique/examencivique/internal/i18n"

// Level is the residency or naturalization track an exam is drawn for.
type Level string

const (
	LevelCSP Level = "CSP" // Carte de séjour pluriannuelle
	LevelCR  Level = "CR"  // Carte de résident / naturalisation
)

// AllLevels returns all levels in display order.
func AllLevels() []Level {
	return []Level{LevelCSP, LevelCR}
}

// ParseLevel accepts the wire key case-insensitively ("csp", "CR").
func ParseLevel(key string) (Level, bool) {
	switch key {
	case "CSP", "csp":
		return LevelCSP, true
	case "CR", "cr":
		return LevelCR, true
	}
	return "", false
}

// ShortName is the compact label shown in lists.
func (l Level) ShortName() string {
	return string(l)
}

// DisplayName returns the full title of the level.
func (l Level) DisplayName(lang i18n.Language) string {
	if lang == i18n.ZH {
		switch l {
		case LevelCSP:
			return "多年居留卡（CSP）"
		case LevelCR:
			return "居民卡 / 入籍（CR）"
		}
		return string(l)
	}
	switch l {
	case LevelCSP:
		return "Carte de Séjour Pluriannuelle"
	case LevelCR:
		return "Carte de Résident / Naturalisation"
	default:
		return string(l)
	}
}

// Description explains which applicants sit the level.
func (l Level) Description(lang i18n.Language) string {
	if lang == i18n.ZH {
		switch l {
		case LevelCSP:
			return "适用于多年居留卡的续签或申请"
		case LevelCR:
			return "适用于十年居民卡或入籍申请"
		}
		return ""
	}
	switch l {
	case LevelCSP:
		return "Pour le renouvellement en carte de séjour pluriannuelle"
	case LevelCR:
		return "Pour la carte de résident ou la demande de naturalisation"
	default:
		return ""
	}
}

// QuestionType separates factual recall from applied judgment.
type QuestionType string

const (
	TypeKnowledge   QuestionType = "connaissance"
	TypeSituational QuestionType = "situation"
)

// ParseType returns the question type for a wire key.
func ParseType(key string) (QuestionType, bool) {
	switch QuestionType(key) {
	case TypeKnowledge, TypeSituational:
		return QuestionType(key), true
	}
	return "", false
}

// DisplayName returns the localized type badge.
func (t QuestionType) DisplayName(lang i18n.Language) string {
	switch {
	case lang == i18n.ZH && t == TypeKnowledge:
		return "知识"
	case lang == i18n.ZH && t == TypeSituational:
		return "情景"
	case t == TypeKnowledge:
		return "Connaissance"
	case t == TypeSituational:
		return "Situation"
	default:
		return string(t)
	}
}
