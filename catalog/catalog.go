package catalog

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/integrada/portal/markers"
	"github.com/integrada/portal/store"
)

const (
	DefaultOrder  = 9999
	DefaultSource = "paciente"
)

// DefaultTargets are offered for shareable tests that do not list their own.
var DefaultTargets = []string{"pais", "professores", "segunda_fonte", "heterorrelato"}

// TestDefinition is an active entry of the tests collection after normalization.
type TestDefinition struct {
	Code      string   `json:"code"`
	Label     string   `json:"label"`
	Order     int      `json:"order"`
	Shareable bool     `json:"shareable"`
	Targets   []string `json:"targets"`
	FormUrl   string   `json:"formUrl,omitempty"`
	ShareUrl  string   `json:"shareUrl,omitempty"`
	Source    string   `json:"source"`
}

type testRow struct {
	Code      string `sheet:"code"`
	Label     string `sheet:"label"`
	Order     string `sheet:"order"`
	Shareable string `sheet:"shareable"`
	Targets   string `sheet:"targets"`
	FormUrl   string `sheet:"form_url"`
	ShareUrl  string `sheet:"share_url"`
	Source    string `sheet:"source"`
}

// Normalize converts a raw row into a definition. The second result is false when
// the row has no code and must be discarded.
func Normalize(row store.Row) (TestDefinition, bool) {
	var raw testRow
	if err := store.Decode(row, &raw); err != nil {
		return TestDefinition{}, false
	}

	code := strings.TrimSpace(raw.Code)
	if code == "" {
		return TestDefinition{}, false
	}

	label := strings.TrimSpace(raw.Label)
	if label == "" {
		label = code
	}

	source := strings.TrimSpace(raw.Source)
	if source == "" {
		source = DefaultSource
	}

	shareable := markers.IsAffirmative(raw.Shareable)

	return TestDefinition{
		Code:      code,
		Label:     label,
		Order:     parseOrder(raw.Order),
		Shareable: shareable,
		Targets:   parseTargets(raw.Targets, shareable),
		FormUrl:   strings.TrimSpace(raw.FormUrl),
		ShareUrl:  strings.TrimSpace(raw.ShareUrl),
		Source:    source,
	}, true
}

func parseOrder(value string) int {
	value = strings.TrimSpace(value)
	if order, err := strconv.Atoi(value); err == nil {
		return order
	}
	// numeric cells may come back as "3.0"
	if order, err := strconv.ParseFloat(value, 64); err == nil && order == math.Trunc(order) &&
		order >= math.MinInt32 && order <= math.MaxInt32 {
		return int(order)
	}
	return DefaultOrder
}

func parseTargets(value string, shareable bool) []string {
	if !shareable {
		return []string{}
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	targets := make([]string, 0)
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == ',' }) {
		target := strings.ToLower(strings.TrimSpace(part))
		if target == "" || !seen.Add(target) {
			continue
		}
		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return slices.Clone(DefaultTargets)
	}
	return targets
}

// Build normalizes the rows, drops the ones without code and sorts the result by
// order and then label.
func Build(rows []store.Row) []TestDefinition {
	definitions := make([]TestDefinition, 0, len(rows))
	for _, row := range rows {
		if definition, ok := Normalize(row); ok {
			definitions = append(definitions, definition)
		}
	}

	slices.SortStableFunc(definitions, func(a, b TestDefinition) int {
		return cmp.Or(
			cmp.Compare(a.Order, b.Order),
			strings.Compare(a.Label, b.Label),
		)
	})
	return definitions
}

// Find returns the definition with the given code.
func Find(definitions []TestDefinition, code string) (TestDefinition, bool) {
	for _, definition := range definitions {
		if definition.Code == code {
			return definition, true
		}
	}
	return TestDefinition{}, false
}

func (t TestDefinition) HasTarget(target string) bool {
	return slices.Contains(t.Targets, strings.ToLower(strings.TrimSpace(target)))
}
