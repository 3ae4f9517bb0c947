package test

import (
	"time"

	"github.com/integrada/portal/patients"
	"github.com/integrada/portal/store"
	"github.com/integrada/portal/test"
)

func RandomPatient() patients.Patient {
	return patients.Patient{
		Cpf:       test.RandomCpf(),
		Name:      test.Faker.Person().Name(),
		BirthDate: test.Faker.Time().Time(time.Now()).Format("2006-01-02"),
		Email:     test.Faker.Internet().Email(),
		Whatsapp:  test.Faker.Phone().Number(),
		Flags:     make(map[string]string),
	}
}

// Row renders the patient the way it is stored in the patients collection.
func Row(patient patients.Patient) store.Row {
	row := store.Row{
		"cpf":             patient.Cpf,
		"nome":            patient.Name,
		"data_nascimento": patient.BirthDate,
		"email":           patient.Email,
		"whatsapp":        patient.Whatsapp,
	}
	for column, value := range patient.Flags {
		row[column] = value
	}
	return row
}
