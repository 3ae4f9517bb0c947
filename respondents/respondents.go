package respondents

import (
	"regexp"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Category string

const (
	Patient      Category = "patient"
	Guardians    Category = "guardians"
	Teachers     Category = "teachers"
	Family       Category = "family"
	Professional Category = "professional"
)

// Categories lists every category in display order.
var Categories = []Category{Patient, Guardians, Teachers, Family, Professional}

var known = mapset.NewSet(Categories...)

var labels = map[Category]string{
	Patient:      "Paciente",
	Guardians:    "Pais/Responsáveis",
	Teachers:     "Professores/Escola",
	Family:       "Familiares/Amigos",
	Professional: "Profissional",
}

func (c Category) Label() string {
	return labels[c]
}

// Parse returns the category named by s.
func Parse(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, known.Contains(c)
}

// Rule assigns Category to sources whose normalized text matches Pattern.
type Rule struct {
	Category Category
	Pattern  *regexp.Regexp
}

func wholeWords(words ...string) *regexp.Regexp {
	return regexp.MustCompile(`\b(` + strings.Join(words, "|") + `)\b`)
}

// DefaultRules are evaluated top to bottom and the first match wins. Professional
// titles are checked before school vocabulary so that sources such as
// "psicopedagoga escolar" or "psicóloga da escola" are not taken for teachers.
var DefaultRules = []Rule{
	{Patient, wholeWords(
		"paciente", "pacientes", "autorrelato", "autorelato", "auto relato", "autoavaliacao", "auto avaliacao",
		"proprio", "propria", "self", "self report",
	)},
	{Guardians, wholeWords(
		"pai", "pais", "mae", "maes", "responsavel", "responsaveis", "cuidador", "cuidadora", "cuidadores",
		"tutor", "tutora", "tutores", "genitor", "genitora", "genitores", "heterorrelato", "heterorelato",
		"parent", "parents", "guardian", "guardians", "caregiver", "caregivers",
	)},
	{Professional, wholeWords(
		"profissional", "profissionais", "psicologo", "psicologa", "psicologos", "psicologas",
		"neuropsicologo", "neuropsicologa", "psicopedagogo", "psicopedagoga", "terapeuta", "terapeutas",
		"fonoaudiologo", "fonoaudiologa", "fono", "medico", "medica", "psiquiatra", "neurologista", "pediatra",
		"avaliador", "avaliadora", "examinador", "examinadora", "clinico", "clinica", "therapist", "clinician",
	)},
	{Teachers, wholeWords(
		"professor", "professora", "professores", "professoras", "prof", "profa", "docente", "docentes",
		"escola", "escolar", "pedagogo", "pedagoga", "educador", "educadora", "educadores",
		"teacher", "teachers", "school",
	)},
	{Family, wholeWords(
		"familia", "familiar", "familiares", "parente", "parentes", "amigo", "amiga", "amigos", "amigas",
		"irmao", "irma", "irmaos", "avo", "avos", "tio", "tia", "tios", "primo", "prima",
		"conjuge", "esposo", "esposa", "companheiro", "companheira", "friend", "friends", "family",
	)},
}

type Classification struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
}

type Classifier struct {
	rules []Rule
}

func NewClassifier() *Classifier {
	return NewClassifierWithRules(DefaultRules)
}

func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify maps a free text source to a category. Sources that match no rule are
// professional, labelled with the original text.
func (c *Classifier) Classify(source string) Classification {
	normalized := Normalize(source)
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(normalized) {
			return Classification{Category: rule.Category, Label: rule.Category.Label()}
		}
	}

	label := strings.TrimSpace(source)
	if label == "" {
		label = Professional.Label()
	}
	return Classification{Category: Professional, Label: label}
}

// Normalize lower-cases s, removes diacritics and turns separators into spaces.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	lowered := cases.Lower(language.BrazilianPortuguese).String(stripped)
	return strings.Join(strings.FieldsFunc(lowered, isSeparator), " ")
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '_' || r == '-' || r == '/' || r == '.' || r == ','
}
