package links

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/TwiN/deepmerge"
	"github.com/integrada/portal/catalog"
	"github.com/integrada/portal/markers"
	"github.com/kelseyhightower/envconfig"
)

const (
	TokenParam  = "token"
	CpfParam    = "cpf"
	SourceParam = "source"
)

type Config struct {
	BaseTestUrl  string `envconfig:"PORTAL_BASE_TEST_URL" default:"https://integradaneuropsicologia.github.io/formularios"`
	BaseShareUrl string `envconfig:"PORTAL_BASE_SHARE_URL" default:"https://integradaneuropsicologia.github.io/formularios/share"`

	// TestUrls and ShareUrls override the destination per test code, as CODE:url pairs.
	TestUrls  map[string]string `envconfig:"PORTAL_TEST_URLS"`
	ShareUrls map[string]string `envconfig:"PORTAL_SHARE_URLS"`

	// BuiltinTestUrls merges TestUrls into BuiltinTestUrls instead of using them alone.
	BuiltinTestUrls bool `envconfig:"PORTAL_BUILTIN_TEST_URLS" default:"true"`

	AppendToken bool `envconfig:"PORTAL_APPEND_TOKEN" default:"true"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuiltinTestUrls are the forms hosted outside of the default location.
var BuiltinTestUrls = map[string]string{
	"BAI":                "https://integradaneuropsicologia.github.io/formulariodeansiedade/",
	"SRS2_AUTORRELATO":   "https://integradaneuropsicologia.github.io/srs2/",
	"SRS2_HETERORRELATO": "https://integradaneuropsicologia.github.io/SRS2_HETERORRELATO/",
}

type Resolver struct {
	cfg       *Config
	testUrls  map[string]string
	shareUrls map[string]string
}

func NewResolver(cfg *Config) (*Resolver, error) {
	testUrls := cfg.TestUrls
	if cfg.BuiltinTestUrls {
		merged, err := mergeOverrides(BuiltinTestUrls, cfg.TestUrls)
		if err != nil {
			return nil, err
		}
		testUrls = merged
	}

	return &Resolver{
		cfg:       cfg,
		testUrls:  testUrls,
		shareUrls: cfg.ShareUrls,
	}, nil
}

// mergeOverrides returns base with the entries of overrides added. Entries of
// overrides replace the ones of base with the same code.
func mergeOverrides(base map[string]string, overrides map[string]string) (map[string]string, error) {
	dst := make(map[string]interface{}, len(base))
	for code, u := range base {
		dst[code] = u
	}
	src := make(map[string]interface{}, len(overrides))
	for code, u := range overrides {
		src[code] = u
	}

	if err := deepmerge.DeepMerge(dst, src, deepmerge.Config{
		PreventMultipleDefinitionsOfKeysWithPrimitiveValue: false,
	}); err != nil {
		return nil, fmt.Errorf("unable to merge url overrides: %w", err)
	}

	merged := make(map[string]string, len(dst))
	for code, u := range dst {
		merged[code], _ = u.(string)
	}
	return merged, nil
}

// FillUrl returns the address where the test is filled in. The session token is
// appended when the policy says so.
func (r *Resolver) FillUrl(definition catalog.TestDefinition, token string) string {
	base := firstNonEmpty(
		definition.FormUrl,
		r.testUrls[definition.Code],
		defaultUrl(r.cfg.BaseTestUrl, definition.Code),
	)
	if !r.cfg.AppendToken {
		return base
	}
	return BuildUrl(base, map[string]string{TokenParam: token})
}

// ShareUrl returns the second source address for the target. It identifies the
// patient by cpf instead of carrying the session token.
func (r *Resolver) ShareUrl(definition catalog.TestDefinition, cpf string, target string) string {
	base := firstNonEmpty(
		definition.ShareUrl,
		r.shareUrls[definition.Code],
		defaultUrl(r.cfg.BaseShareUrl, definition.Code),
	)
	return BuildUrl(base, map[string]string{
		CpfParam:    markers.OnlyDigits(cpf),
		SourceParam: target,
	})
}

// BuildUrl sets params on the query of base, replacing parameters with the same
// name. A base that cannot be parsed gets the params appended as is.
func BuildUrl(base string, params map[string]string) string {
	u, err := url.Parse(base)
	if err != nil {
		return naiveUrl(base, params)
	}

	query := u.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func naiveUrl(base string, params map[string]string) string {
	keys := slices.Sorted(maps.Keys(params))

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(params[key]))
	}

	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + strings.Join(pairs, "&")
}

func defaultUrl(base string, code string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(strings.ToLower(code)) + ".html"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
