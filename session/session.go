package session

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/integrada/portal/catalog"
	errs "github.com/integrada/portal/errors"
	"github.com/integrada/portal/patients"
	"github.com/integrada/portal/respondents"
	"github.com/integrada/portal/status"
	"github.com/mohae/deepcopy"
)

type Stage string

const (
	SelectingRespondent Stage = "selecting_respondent"
	ViewingTests        Stage = "viewing_tests"
)

// Entry is a test of the catalog as seen by the current patient.
type Entry struct {
	Definition catalog.TestDefinition     `json:"test"`
	Status     status.Status              `json:"status"`
	Respondent respondents.Classification `json:"respondent"`
}

func (e Entry) IsOpen() bool {
	return e.Status == status.Open
}

// Group aggregates the released tests of a respondent category.
type Group struct {
	Category  respondents.Category `json:"category"`
	Label     string               `json:"label"`
	Released  int                  `json:"released"`
	Open      int                  `json:"open"`
	Completed int                  `json:"completed"`
}

// Enabled reports whether the group can be selected.
func (g Group) Enabled() bool {
	return g.Open > 0
}

// Session is the state of a visitor authenticated by a link token: the patient
// record and catalog snapshot it was booted with plus the respondent selection.
// Statuses are derived on every call from the snapshot.
type Session struct {
	Token string

	engine     *status.Engine
	classifier *respondents.Classifier

	mu          sync.RWMutex
	cpf         string
	patient     *patients.Patient
	definitions []catalog.TestDefinition
	stage       Stage
	selected    respondents.Category

	refreshing atomic.Bool
}

func New(token string, cpf string, patient *patients.Patient, definitions []catalog.TestDefinition, engine *status.Engine, classifier *respondents.Classifier) *Session {
	return &Session{
		Token:       token,
		engine:      engine,
		classifier:  classifier,
		cpf:         cpf,
		patient:     patient,
		definitions: definitions,
		stage:       SelectingRespondent,
	}
}

// Cpf is the identifier the token is bound to.
func (s *Session) Cpf() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cpf
}

// Patient returns a copy of the current patient record.
func (s *Session) Patient() patients.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deepcopy.Copy(*s.patient).(patients.Patient)
}

func (s *Session) Definitions() []catalog.TestDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.definitions)
}

func (s *Session) Stage() Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage
}

// Selected returns the chosen respondent category while viewing tests.
func (s *Session) Selected() (respondents.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.stage == ViewingTests
}

func (s *Session) setPatient(patient *patients.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patient = patient
}

func (s *Session) setDefinitions(definitions []catalog.TestDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definitions = definitions
}

// Tests returns every test of the catalog in catalog order, hidden ones included.
func (s *Session) Tests() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries()
}

func (s *Session) entries() []Entry {
	entries := make([]Entry, 0, len(s.definitions))
	for _, definition := range s.definitions {
		entries = append(entries, Entry{
			Definition: definition,
			Status:     s.engine.Of(definition, s.patient),
			Respondent: s.classifier.Classify(definition.Source),
		})
	}
	return entries
}

// Released returns the tests that are not hidden.
func (s *Session) Released() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return released(s.entries())
}

func released(entries []Entry) []Entry {
	return slices.DeleteFunc(entries, func(e Entry) bool {
		return e.Status == status.Hidden
	})
}

// Entry returns the released test with the given code.
func (s *Session) Entry(code string) (Entry, error) {
	for _, entry := range s.Released() {
		if entry.Definition.Code == code {
			return entry, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: test %v is not released", errs.NotFound, code)
}

func (s *Session) Summary() status.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Summarize(s.definitions, s.patient)
}

// Groups returns the respondent categories that have released tests, in display order.
func (s *Session) Groups() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return groups(released(s.entries()))
}

func groups(entries []Entry) []Group {
	byCategory := make(map[respondents.Category]*Group)
	for _, entry := range entries {
		category := entry.Respondent.Category
		group, ok := byCategory[category]
		if !ok {
			group = &Group{Category: category, Label: category.Label()}
			byCategory[category] = group
		}
		group.Released++
		switch entry.Status {
		case status.Open:
			group.Open++
		case status.Completed:
			group.Completed++
		}
	}

	result := make([]Group, 0, len(byCategory))
	for _, category := range respondents.Categories {
		if group, ok := byCategory[category]; ok {
			result = append(result, *group)
		}
	}
	return result
}

// Visible returns the released tests of the selected category while viewing tests,
// nothing while selecting a respondent.
func (s *Session) Visible() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stage != ViewingTests {
		return []Entry{}
	}
	return slices.DeleteFunc(released(s.entries()), func(e Entry) bool {
		return e.Respondent.Category != s.selected
	})
}

// Select moves to the tests of the category. Only categories with at least one
// open test can be selected.
func (s *Session) Select(category respondents.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, group := range groups(released(s.entries())) {
		if group.Category == category && group.Enabled() {
			s.stage = ViewingTests
			s.selected = category
			return nil
		}
	}
	return fmt.Errorf("%w: %v", errs.RespondentUnavailable, category)
}

// ChangeRespondent returns to the respondent selection.
func (s *Session) ChangeRespondent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = SelectingRespondent
	s.selected = ""
}

func (s *Session) copyStateFrom(other *Session) {
	other.mu.RLock()
	stage, selected := other.stage, other.selected
	other.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage, s.selected = stage, selected
}
