package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/integrada/portal/catalog"
	errs "github.com/integrada/portal/errors"
	"github.com/integrada/portal/respondents"
	"github.com/integrada/portal/session"
	"github.com/integrada/portal/status"
	"github.com/integrada/portal/tokens"
	"github.com/integrada/portal/view"
	"github.com/labstack/echo/v4"
)

const (
	categoryParam = "category"
	targetParam   = "target"
	messageParam  = "msg"
	returnField   = "return"
)

type ShareResponse struct {
	Url string `json:"url"`
}

// Page renders the patient area. The token is validated and the patient is fetched
// on every load.
func (h *Handler) Page(c echo.Context) error {
	s, err := h.sessions.Open(c.Request().Context(), token(c))
	if err != nil {
		return err
	}
	page := h.builder.Page(s, view.ThemeOf(c), c.QueryParam(messageParam))
	return c.Render(http.StatusOK, view.PageTemplate, page)
}

func (h *Handler) Session(c echo.Context) error {
	s, err := h.sessions.Open(c.Request().Context(), token(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.builder.Page(s, view.ThemeOf(c), ""))
}

func (h *Handler) Refresh(c echo.Context) error {
	s, err := h.sessions.Get(c.Request().Context(), token(c))
	if err != nil {
		return err
	}
	// Rendered from the cached session, a failing store leaves the previous state on screen.
	flash := ""
	if refreshed, err := h.sessions.Refresh(c.Request().Context(), s); refreshed && err == nil {
		flash = view.MessageUpdated
	}
	return c.Render(http.StatusOK, view.PageTemplate, h.builder.Page(s, view.ThemeOf(c), flash))
}

func (h *Handler) SelectRespondent(c echo.Context) error {
	s, err := h.sessions.Get(c.Request().Context(), token(c))
	if err != nil {
		return err
	}
	category, ok := respondents.Parse(c.QueryParam(categoryParam))
	if !ok {
		return fmt.Errorf("%w: unknown respondent %q", errs.RespondentUnavailable, c.QueryParam(categoryParam))
	}
	if err := s.Select(category); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, view.PagePath(s.Token))
}

func (h *Handler) ChangeRespondent(c echo.Context) error {
	s, err := h.sessions.Get(c.Request().Context(), token(c))
	if err != nil {
		return err
	}
	s.ChangeRespondent()
	return c.Redirect(http.StatusSeeOther, view.PagePath(s.Token))
}

// Fill redirects to the form of an open test.
func (h *Handler) Fill(c echo.Context) error {
	s, entry, err := h.openEntry(c)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.links.FillUrl(entry.Definition, s.Token))
}

// Share returns the link handed to a second source. Without a target it is the
// fill link of the patient.
func (h *Handler) Share(c echo.Context) error {
	s, entry, err := h.openEntry(c)
	if err != nil {
		return err
	}

	definition := entry.Definition
	target := strings.ToLower(strings.TrimSpace(c.QueryParam(targetParam)))
	if target == "" {
		return c.JSON(http.StatusOK, ShareResponse{Url: h.links.FillUrl(definition, s.Token)})
	}
	if err := checkTarget(definition, target); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ShareResponse{Url: h.links.ShareUrl(definition, s.Cpf(), target)})
}

func checkTarget(definition catalog.TestDefinition, target string) error {
	if !definition.Shareable {
		return fmt.Errorf("%w: test %v is not shareable", errs.BadRequest, definition.Code)
	}
	if !definition.HasTarget(target) {
		return fmt.Errorf("%w: test %v has no target %v", errs.BadRequest, definition.Code, target)
	}
	return nil
}

func (h *Handler) openEntry(c echo.Context) (*session.Session, session.Entry, error) {
	s, err := h.sessions.Get(c.Request().Context(), token(c))
	if err != nil {
		return nil, session.Entry{}, err
	}
	entry, err := s.Entry(c.Param("code"))
	if err != nil {
		return nil, session.Entry{}, err
	}
	if entry.Status == status.Completed {
		return nil, session.Entry{}, fmt.Errorf("%w: test %v is already completed", errs.Conflict, entry.Definition.Code)
	}
	return s, entry, nil
}

func (h *Handler) ToggleTheme(c echo.Context) error {
	view.SetTheme(c, view.ThemeOf(c).Toggle())
	return c.Redirect(http.StatusSeeOther, returnPath(c.FormValue(returnField)))
}

func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Close(token(c))
	return c.Redirect(http.StatusSeeOther, "/")
}

func token(c echo.Context) string {
	return strings.TrimSpace(c.QueryParam(tokens.QueryParam))
}

// returnPath only accepts local paths.
func returnPath(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "/"
	}
	return path
}
