package screen

import (
	"context"

	"github.com/examencivique/examencivique/internal/auth"
	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/exam"
	"github.com/examencivique/examencivique/internal/i18n"
	"github.com/examencivique/examencivique/internal/progress"
	"github.com/examencivique/examencivique/internal/study"
)

// Deps are the services shared by all screens.
type Deps struct {
	Catalog  *catalog.Catalog
	Progress *progress.Store
	Exam     *exam.Engine
	Study    *study.Engine
	Auth     *auth.Service // nil when accounts are disabled
	Lang     *i18n.Manager

	// AuthRequired mirrors the gate configured on the engines.
	AuthRequired bool
}

// S returns the UI strings of the current language.
func (d *Deps) S() *i18n.Strings { return d.Lang.Strings() }

// Language returns the current language.
func (d *Deps) Language() i18n.Language { return d.Lang.Language() }

// User returns the signed-in account, if any.
func (d *Deps) User() (auth.User, bool) {
	if d.Auth == nil {
		return auth.User{}, false
	}
	return d.Auth.CurrentUser(context.Background())
}
