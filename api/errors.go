package api

import (
	"errors"
	"net/http"
	"strings"

	errs "github.com/integrada/portal/errors"
	"github.com/integrada/portal/tokens"
	"github.com/integrada/portal/view"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewErrorHandler renders failures of page routes as the error view with the
// visitor facing message. JSON routes keep the default error body.
func NewErrorHandler(logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			c.Echo().DefaultHTTPErrorHandler(err, c)
			return
		}

		code := errs.Code(err)
		if code >= http.StatusInternalServerError {
			logger.Errorw("request failed", "path", c.Path(), zap.Error(err))
		} else {
			logger.Debugw("request rejected", "path", c.Path(), zap.Error(err))
		}

		if isJSONRoute(c) {
			errs.CustomHTTPErrorHandler(err, c)
			return
		}

		page := view.ErrorPage{
			Message: errs.Message(err),
			Theme:   view.ThemeOf(c),
		}
		if t := c.QueryParam(tokens.QueryParam); t != "" {
			page.Return = view.PagePath(t)
		}
		if err := c.Render(code, view.ErrorTemplate, page); err != nil {
			logger.Errorw("unable to render error page", zap.Error(err))
			c.Echo().DefaultHTTPErrorHandler(err, c)
		}
	}
}

func isJSONRoute(c echo.Context) bool {
	return strings.HasPrefix(c.Path(), "/api/") || c.Path() == readinessRoute
}
