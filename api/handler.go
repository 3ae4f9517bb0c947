package api

import (
	"github.com/integrada/portal/links"
	"github.com/integrada/portal/session"
	"github.com/integrada/portal/view"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Handler struct {
	sessions *session.Manager
	builder  *view.Builder
	links    *links.Resolver
	logger   *zap.SugaredLogger
}

type Params struct {
	fx.In

	Sessions *session.Manager
	Builder  *view.Builder
	Links    *links.Resolver
	Logger   *zap.SugaredLogger
}

func NewHandler(p Params) *Handler {
	return &Handler{
		sessions: p.Sessions,
		builder:  p.Builder,
		links:    p.Links,
		logger:   p.Logger,
	}
}
