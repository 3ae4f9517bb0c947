package view

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const ThemeCookie = "integrada-paciente-theme"

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// ThemeOf reads the theme preference of the request. Dark is the default.
func ThemeOf(c echo.Context) Theme {
	cookie, err := c.Cookie(ThemeCookie)
	if err == nil && Theme(cookie.Value) == Light {
		return Light
	}
	return Dark
}

func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// ToggleLabel is the label of the button switching away from t.
func (t Theme) ToggleLabel() string {
	if t == Light {
		return "🌙 Modo escuro"
	}
	return "☀️ Modo claro"
}

func SetTheme(c echo.Context, theme Theme) {
	c.SetCookie(&http.Cookie{
		Name:     ThemeCookie,
		Value:    string(theme),
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
