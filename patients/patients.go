package patients

import (
	"context"
	"strings"

	"github.com/fatih/structs"
	"github.com/integrada/portal/markers"
)

const (
	DefaultDisplayName = "Paciente"
	emptyValue         = "-"
)

type Repository interface {
	// Get returns the patient registered under the cpf.
	Get(ctx context.Context, cpf string) (*Patient, error)
}

// Patient is a row of the patients collection. Every column that is not a known
// attribute is kept in Flags, which holds the per test eligibility and completion
// markers.
type Patient struct {
	Cpf       string            `sheet:"cpf" json:"cpf"`
	Name      string            `sheet:"nome" json:"name"`
	BirthDate string            `sheet:"data_nascimento" json:"birthDate"`
	Email     string            `sheet:"email" json:"email"`
	Whatsapp  string            `sheet:"whatsapp" json:"whatsapp"`
	Flags     map[string]string `sheet:",remain" json:"-"`
}

// Flag returns the value of a flag column, empty when the column is absent.
func (p *Patient) Flag(column string) string {
	if p == nil || p.Flags == nil {
		return ""
	}
	return p.Flags[column]
}

func (p *Patient) DigitsCpf() string {
	return markers.OnlyDigits(p.Cpf)
}

func (p *Patient) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return DefaultDisplayName
}

type info struct {
	Name      string `structs:"Nome"`
	Cpf       string `structs:"CPF"`
	BirthDate string `structs:"Nascimento"`
	Email     string `structs:"E-mail"`
	Whatsapp  string `structs:"WhatsApp"`
}

type InfoItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Info returns the labelled attributes shown on the patient panel.
func (p *Patient) Info() []InfoItem {
	s := info{
		Name:      p.Name,
		Cpf:       MaskCpf(p.Cpf),
		BirthDate: FormatBirthDate(p.BirthDate),
		Email:     p.Email,
		Whatsapp:  p.Whatsapp,
	}

	fields := structs.Fields(s)
	items := make([]InfoItem, 0, len(fields))
	for _, field := range fields {
		value, _ := field.Value().(string)
		if strings.TrimSpace(value) == "" {
			value = emptyValue
		}
		items = append(items, InfoItem{Label: field.Tag("structs"), Value: value})
	}
	return items
}

// MaskCpf formats an 11 digit cpf as 000.000.000-00. Other values are returned unchanged.
func MaskCpf(cpf string) string {
	d := markers.OnlyDigits(cpf)
	if len(d) != 11 {
		return cpf
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// FormatBirthDate converts an ISO date (yyyy-mm-dd) to dd/mm/yyyy. Other values are
// returned unchanged.
func FormatBirthDate(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
