package status

import (
	"github.com/integrada/portal/catalog"
	"github.com/integrada/portal/markers"
	"github.com/integrada/portal/patients"
	"github.com/kelseyhightower/envconfig"
)

type Status string

const (
	Hidden    Status = "hidden"
	Open      Status = "open"
	Completed Status = "completed"
)

type Config struct {
	// FlagPrefix is prepended to the test code to name the eligibility column.
	FlagPrefix string `envconfig:"PORTAL_FLAG_PREFIX" default:""`
	DoneSuffix string `envconfig:"PORTAL_DONE_SUFFIX" default:"_FEITO"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Engine derives the status of tests from the flag columns of a patient record.
// Nothing is cached; every call reads the record it is given.
type Engine struct {
	prefix string
	suffix string
}

func NewEngine(cfg *Config) *Engine {
	return &Engine{prefix: cfg.FlagPrefix, suffix: cfg.DoneSuffix}
}

func (e *Engine) EligibilityColumn(definition catalog.TestDefinition) string {
	return e.prefix + definition.Code
}

func (e *Engine) CompletionColumn(definition catalog.TestDefinition) string {
	return e.EligibilityColumn(definition) + e.suffix
}

func (e *Engine) IsEligible(definition catalog.TestDefinition, patient *patients.Patient) bool {
	return markers.IsAffirmative(patient.Flag(e.EligibilityColumn(definition)))
}

// Of returns hidden unless the patient is eligible, in which case the completion
// column decides between completed and open.
func (e *Engine) Of(definition catalog.TestDefinition, patient *patients.Patient) Status {
	if !e.IsEligible(definition, patient) {
		return Hidden
	}
	if markers.IsAffirmative(patient.Flag(e.CompletionColumn(definition))) {
		return Completed
	}
	return Open
}

type Summary struct {
	Released  int `json:"released"`
	Open      int `json:"open"`
	Completed int `json:"completed"`
}

func (e *Engine) Summarize(definitions []catalog.TestDefinition, patient *patients.Patient) Summary {
	summary := Summary{}
	for _, definition := range definitions {
		switch e.Of(definition, patient) {
		case Open:
			summary.Released++
			summary.Open++
		case Completed:
			summary.Released++
			summary.Completed++
		}
	}
	return summary
}
