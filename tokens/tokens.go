package tokens

import (
	"context"
	"fmt"
	"strings"
	"time"

	errs "github.com/integrada/portal/errors"
	"github.com/integrada/portal/markers"
	"github.com/integrada/portal/store"
	"go.uber.org/zap"
)

const QueryParam = "token"

var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006",
}

// Token is a link token issued by the clinic staff.
type Token struct {
	Value          string
	BoundPatientId string
	Disabled       bool
	ExpiresAt      *time.Time
}

type tokenRow struct {
	Token     string `sheet:"token"`
	Cpf       string `sheet:"cpf"`
	Disabled  string `sheet:"disabled"`
	ExpiresAt string `sheet:"expires_at"`
}

func (t Token) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

type Resolver interface {
	// Resolve validates the token and returns the identifier of the bound patient.
	Resolve(ctx context.Context, token string) (string, error)
}

type resolver struct {
	store       store.Store
	collections store.Collections
	logger      *zap.SugaredLogger
	now         func() time.Time
}

func NewResolver(s store.Store, collections store.Collections, logger *zap.SugaredLogger) Resolver {
	return &resolver{
		store:       s,
		collections: collections,
		logger:      logger,
		now:         time.Now,
	}
}

// NewResolverWithClock is NewResolver with a custom time source.
func NewResolverWithClock(s store.Store, collections store.Collections, logger *zap.SugaredLogger, now func() time.Time) Resolver {
	r := NewResolver(s, collections, logger).(*resolver)
	r.now = now
	return r
}

func (r *resolver) Resolve(ctx context.Context, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errs.MissingToken
	}

	rows, err := r.store.Search(ctx, r.collections.Tokens, store.Filter{"token": value})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: token not found", errs.InvalidOrExpiredToken)
	}

	token, err := r.decode(rows[0])
	if err != nil {
		return "", err
	}

	if token.Disabled {
		return "", errs.TokenDisabled
	}
	if token.IsExpired(r.now()) {
		return "", fmt.Errorf("%w: expired at %v", errs.TokenExpired, token.ExpiresAt.Format(time.RFC3339))
	}
	if token.BoundPatientId == "" {
		return "", errs.UnboundToken
	}

	return token.BoundPatientId, nil
}

func (r *resolver) decode(row store.Row) (Token, error) {
	var raw tokenRow
	if err := store.Decode(row, &raw); err != nil {
		return Token{}, fmt.Errorf("%w: unable to decode token: %v", errs.StoreUnavailable, err)
	}

	token := Token{
		Value:          raw.Token,
		BoundPatientId: markers.OnlyDigits(raw.Cpf),
		Disabled:       markers.IsAffirmative(raw.Disabled),
	}

	if expiry := strings.TrimSpace(raw.ExpiresAt); expiry != "" {
		if t, ok := ParseExpiry(expiry); ok {
			token.ExpiresAt = &t
		} else {
			r.logger.Warnw("ignoring unparseable token expiry", "expiresAt", expiry)
		}
	}

	return token, nil
}

// ParseExpiry parses the expiry column. Dates without a zone are in UTC.
func ParseExpiry(value string) (time.Time, bool) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
