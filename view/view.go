package view

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/integrada/portal/catalog"
	"github.com/integrada/portal/config"
	"github.com/integrada/portal/links"
	"github.com/integrada/portal/patients"
	"github.com/integrada/portal/session"
	"github.com/integrada/portal/status"
	"github.com/integrada/portal/tokens"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	TagCompleted        = "Preenchido"
	TagAwaitingDispatch = "Aguardando envio"
	TagPending          = "Pendente!"
	TagAwaitingFill     = "Aguardando preenchimento"

	ButtonCompleted = "Preenchido"
	ButtonShare     = "Enviar link"
	ButtonFill      = "Preencher"

	EmptyMessage   = "Você ainda não possui testes liberados."
	UpdatedMessage = "Atualizado."

	// MessageUpdated is the flash query value set after a manual refresh.
	MessageUpdated = "updated"
)

type Action string

const (
	ActionNone  Action = "none"
	ActionFill  Action = "fill"
	ActionShare Action = "share"
)

type ShareLink struct {
	Target string `json:"target"`
	Label  string `json:"label"`
	Url    string `json:"url"`
}

type Card struct {
	Code       string      `json:"code"`
	Label      string      `json:"label"`
	Status     string      `json:"status"`
	Tag        string      `json:"tag"`
	Respondent string      `json:"respondent"`
	Action     Action      `json:"action"`
	Button     string      `json:"button"`
	Disabled   bool        `json:"disabled"`
	FillPath   string      `json:"fillPath,omitempty"`
	CopyUrl    string      `json:"copyUrl,omitempty"`
	CopiedText string      `json:"copiedText,omitempty"`
	Shares     []ShareLink `json:"shares,omitempty"`
}

type RespondentCard struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Open     int    `json:"open"`
	Released int    `json:"released"`
	Enabled  bool   `json:"enabled"`
}

type Page struct {
	Token       string              `json:"-"`
	Layout      string              `json:"layout"`
	Stage       string              `json:"stage,omitempty"`
	Name        string              `json:"name"`
	Info        []patients.InfoItem `json:"info"`
	Summary     string              `json:"summary"`
	Counts      status.Summary      `json:"counts"`
	Respondents []RespondentCard    `json:"respondents,omitempty"`
	Selected    string              `json:"selected,omitempty"`
	Cards       []Card              `json:"cards"`
	Empty       string              `json:"empty,omitempty"`
	Message     string              `json:"message,omitempty"`
	Theme       Theme               `json:"theme"`
}

// ShowRespondents reports whether the respondent picker is displayed instead of cards.
func (p Page) ShowRespondents() bool {
	return p.Layout == config.LayoutRespondents && p.Stage == string(session.SelectingRespondent)
}

func (p Page) ReturnPath() string {
	return PagePath(p.Token)
}

type ErrorPage struct {
	Message string
	Theme   Theme
	Return  string
}

// ReturnPath is where the theme toggle goes back to.
func (e ErrorPage) ReturnPath() string {
	if e.Return == "" {
		return "/"
	}
	return e.Return
}

// Builder turns sessions into page view models.
type Builder struct {
	layout      string
	secondLinks bool
	links       *links.Resolver
}

func NewBuilder(cfg *config.Config, resolver *links.Resolver) *Builder {
	return &Builder{
		layout:      cfg.Layout,
		secondLinks: cfg.SecondSourceLinks,
		links:       resolver,
	}
}

func (b *Builder) Layout() string {
	return b.layout
}

func (b *Builder) Page(s *session.Session, theme Theme, flash string) Page {
	patient := s.Patient()
	summary := s.Summary()

	page := Page{
		Token:   s.Token,
		Layout:  b.layout,
		Name:    patient.DisplayName(),
		Info:    patient.Info(),
		Summary: SummaryLine(summary),
		Counts:  summary,
		Cards:   []Card{},
		Theme:   theme,
	}
	if flash == MessageUpdated {
		page.Message = UpdatedMessage
	}

	var entries []session.Entry
	if b.layout == config.LayoutList {
		entries = s.Released()
	} else {
		page.Stage = string(s.Stage())
		for _, group := range s.Groups() {
			page.Respondents = append(page.Respondents, RespondentCard{
				Category: string(group.Category),
				Label:    group.Label,
				Open:     group.Open,
				Released: group.Released,
				Enabled:  group.Enabled(),
			})
		}
		if category, ok := s.Selected(); ok {
			page.Selected = category.Label()
		}
		entries = s.Visible()
	}

	for _, entry := range entries {
		page.Cards = append(page.Cards, b.Card(s, entry))
	}

	if summary.Released == 0 {
		page.Empty = EmptyMessage
	}
	return page
}

// Card renders a released test.
func (b *Builder) Card(s *session.Session, entry session.Entry) Card {
	definition := entry.Definition
	card := Card{
		Code:       definition.Code,
		Label:      definition.Label,
		Status:     string(entry.Status),
		Tag:        Tag(entry),
		Respondent: entry.Respondent.Label,
	}

	switch {
	case entry.Status == status.Completed:
		card.Action = ActionNone
		card.Button = ButtonCompleted
		card.Disabled = true
	case definition.Shareable:
		card.Action = ActionShare
		card.Button = ButtonShare
		card.CopyUrl = b.links.FillUrl(definition, s.Token)
		card.CopiedText = CopiedMessage(definition)
		if b.secondLinks {
			card.Shares = b.shares(definition, s.Cpf())
		}
	default:
		card.Action = ActionFill
		card.Button = ButtonFill
		card.FillPath = FillPath(definition.Code, s.Token)
	}
	return card
}

func (b *Builder) shares(definition catalog.TestDefinition, cpf string) []ShareLink {
	title := cases.Title(language.BrazilianPortuguese)
	shares := make([]ShareLink, 0, len(definition.Targets))
	for _, target := range definition.Targets {
		shares = append(shares, ShareLink{
			Target: target,
			Label:  title.String(strings.ReplaceAll(target, "_", " ")),
			Url:    b.links.ShareUrl(definition, cpf, target),
		})
	}
	return shares
}

func Tag(entry session.Entry) string {
	switch {
	case entry.Status == status.Completed:
		return TagCompleted
	case entry.Definition.Shareable:
		return TagAwaitingDispatch
	default:
		return TagPending
	}
}

func SummaryLine(summary status.Summary) string {
	return fmt.Sprintf("Liberados: %d • Em aberto: %d • Preenchidos: %d", summary.Released, summary.Open, summary.Completed)
}

func CopiedMessage(definition catalog.TestDefinition) string {
	return fmt.Sprintf("Link copiado. Aguardando preenchimento de \"%s\".", definition.Label)
}

func FillPath(code string, token string) string {
	return "/tests/" + url.PathEscape(code) + "/fill?" + tokenQuery(token)
}

func PagePath(token string) string {
	return "/?" + tokenQuery(token)
}

func tokenQuery(token string) string {
	return url.Values{tokens.QueryParam: []string{token}}.Encode()
}
