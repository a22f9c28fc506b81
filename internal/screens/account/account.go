// Package account is the sign-in, registration and sign-out screen.
package account

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examencivique/examencivique/internal/router"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/ui/components"
	"github.com/examencivique/examencivique/internal/ui/layout"
	"github.com/examencivique/examencivique/internal/ui/theme"
)

const inputWidth = 40

// AccountScreen shows the login form, or the account when signed in.
type AccountScreen struct {
	deps     *screen.Deps
	email    components.TextInput
	password components.TextInput
	register bool
	errMsg   string
}

var _ screen.Screen = (*AccountScreen)(nil)
var _ screen.KeyHintProvider = (*AccountScreen)(nil)

// New creates the account screen.
func New(deps *screen.Deps) *AccountScreen {
	s := deps.S()
	a := &AccountScreen{
		deps:     deps,
		email:    components.NewTextInput(s.Email, "prenom@exemple.fr", false, inputWidth),
		password: components.NewTextInput(s.Password, "", true, inputWidth),
	}
	return a
}

func (a *AccountScreen) signedIn() bool {
	_, ok := a.deps.User()
	return ok
}

func (a *AccountScreen) Init() tea.Cmd {
	if a.signedIn() || a.deps.Auth == nil {
		return nil
	}
	return a.email.Focus()
}

func (a *AccountScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if a.deps.Auth == nil {
		return a, nil
	}
	key, isKey := msg.(tea.KeyPressMsg)

	if a.signedIn() {
		if isKey && key.String() == "enter" {
			if err := a.deps.Auth.SignOut(context.Background()); err != nil {
				a.errMsg = a.deps.S().AuthError(err)
				return a, nil
			}
			a.errMsg = ""
			a.password.SetValue("")
			return a, a.focusEmail()
		}
		return a, nil
	}

	if isKey {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			return a, a.switchField()
		case "ctrl+r":
			a.register = !a.register
			a.errMsg = ""
			return a, nil
		case "enter":
			if a.email.Focused() {
				return a, a.switchField()
			}
			return a, a.submit()
		}
	}

	var cmd tea.Cmd
	if a.email.Focused() {
		a.email, cmd = a.email.Update(msg)
	} else {
		a.password, cmd = a.password.Update(msg)
	}
	return a, cmd
}

func (a *AccountScreen) focusEmail() tea.Cmd {
	a.password.Blur()
	return a.email.Focus()
}

func (a *AccountScreen) switchField() tea.Cmd {
	if a.email.Focused() {
		a.email.Blur()
		return a.password.Focus()
	}
	return a.focusEmail()
}

func (a *AccountScreen) submit() tea.Cmd {
	ctx := context.Background()
	var err error
	if a.register {
		_, err = a.deps.Auth.Register(ctx, a.email.Value(), a.password.Value())
	} else {
		_, err = a.deps.Auth.SignIn(ctx, a.email.Value(), a.password.Value())
	}
	a.password.SetValue("")
	if err != nil {
		a.errMsg = a.deps.S().AuthError(err)
		return nil
	}
	a.errMsg = ""
	return router.Pop
}

func (a *AccountScreen) View(width, height int) string {
	s := a.deps.S()
	cw := components.ContentWidth(width)

	var sections []string
	if user, ok := a.deps.User(); ok {
		sections = []string{
			theme.Title.Width(cw).Render(s.AccountTitle),
			components.Centered(theme.Body.Render(fmt.Sprintf(s.SignedInAsF, user.Email)), cw),
			components.Centered(components.Button(s.SignOut, true, false), cw),
		}
	} else {
		title, action, switchHint := s.LoginTitle, s.SignIn, s.SwitchToRegister
		if a.register {
			title, action, switchHint = s.RegisterTitle, s.Register, s.SwitchToSignIn
		}
		form := strings.Join([]string{a.email.View(), "", a.password.View()}, "\n")
		sections = []string{
			theme.Title.Width(cw).Render(title),
			components.Card(form, cw),
			components.Centered(components.Button(action, a.password.Focused(), false), cw),
			components.Centered(theme.Hint.Render(switchHint), cw),
		}
	}
	if a.errMsg != "" {
		sections = append(sections, components.Banner("✗ "+a.errMsg, cw, theme.Error))
	}

	block := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

func (a *AccountScreen) Title() string {
	if a.signedIn() {
		return a.deps.S().AccountTitle
	}
	if a.register {
		return a.deps.S().RegisterTitle
	}
	return a.deps.S().LoginTitle
}

func (a *AccountScreen) KeyHints() []layout.KeyHint {
	s := a.deps.S()
	if a.signedIn() {
		return []layout.KeyHint{
			{Key: "Enter", Description: s.SignOut},
			{Key: "Esc", Description: s.KeyBack},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: s.NextField},
		{Key: "Enter", Description: s.KeyConfirm},
		{Key: "Ctrl+R", Description: s.Register},
		{Key: "Esc", Description: s.KeyBack},
	}
}
