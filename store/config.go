package store

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendSheetDB  = "sheetdb"
	BackendWorkbook = "workbook"
)

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

type Config struct {
	Backend string `envconfig:"PORTAL_STORE_BACKEND" default:"sheetdb"`

	SheetDBBaseUrl     string        `envconfig:"PORTAL_SHEETDB_BASE_URL" default:"https://sheetdb.io/api/v1/8pmdh33s9fvy8"`
	SheetDBBearerToken string        `envconfig:"PORTAL_SHEETDB_BEARER_TOKEN"`
	Timeout            time.Duration `envconfig:"PORTAL_STORE_TIMEOUT" default:"15s"`

	WorkbookPath string `envconfig:"PORTAL_STORE_WORKBOOK_PATH"`

	TokensSheet   string `envconfig:"PORTAL_TOKENS_SHEET" default:"LinkTokens"`
	PatientsSheet string `envconfig:"PORTAL_PATIENTS_SHEET" default:"Patients"`
	TestsSheet    string `envconfig:"PORTAL_TESTS_SHEET" default:"Tests"`
}
