package test

import (
	"strconv"
	"strings"

	"github.com/integrada/portal/catalog"
	"github.com/integrada/portal/store"
	"github.com/integrada/portal/test"
)

func RandomTestDefinition() catalog.TestDefinition {
	code := strings.ToUpper(test.Faker.Lorem().Word()) + strconv.Itoa(test.Faker.IntBetween(1, 99))
	return catalog.TestDefinition{
		Code:    code,
		Label:   test.Faker.Lorem().Sentence(3),
		Order:   test.Faker.IntBetween(1, 50),
		Targets: []string{},
		Source:  catalog.DefaultSource,
	}
}

// Row renders the definition the way it is stored in the tests collection.
func Row(definition catalog.TestDefinition) store.Row {
	shareable := "não"
	if definition.Shareable {
		shareable = "sim"
	}
	return store.Row{
		"code":      definition.Code,
		"label":     definition.Label,
		"order":     strconv.Itoa(definition.Order),
		"shareable": shareable,
		"targets":   strings.Join(definition.Targets, ";"),
		"form_url":  definition.FormUrl,
		"share_url": definition.ShareUrl,
		"source":    definition.Source,
		"active":    "sim",
	}
}
