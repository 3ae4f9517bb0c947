package config

import "github.com/kelseyhightower/envconfig"

const (
	LayoutList        = "list"
	LayoutRespondents = "respondents"
)

type Config struct {
	HttpPort uint16 `envconfig:"PORTAL_HTTP_SERVER_PORT" default:"8080" required:"true"`

	// Layout selects between a single list of released tests and the two-stage
	// respondent picker.
	Layout string `envconfig:"PORTAL_LAYOUT" default:"respondents"`

	// SecondSourceLinks enables one share button per target on shareable tests.
	SecondSourceLinks bool `envconfig:"PORTAL_SECOND_SOURCE_LINKS" default:"false"`
}

func New() *Config {
	return &Config{}
}

func NewFromEnv() (*Config, error) {
	cfg := New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) LoadFromEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	if c.Layout != LayoutList {
		c.Layout = LayoutRespondents
	}
	return nil
}
