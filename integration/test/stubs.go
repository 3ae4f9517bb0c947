package test

import (
	"encoding/json"

	"github.com/integrada/portal/store"
	storeTest "github.com/integrada/portal/store/test"
	"github.com/integrada/portal/test"
)

const (
	SheetsFixture = "./test/fixtures/sheets.json"

	TestToken = "abc123"
	TestCpf   = "11122233344"
)

// SheetDBStub serves the sheets of the fixture file.
func SheetDBStub(fixturePath string) (*storeTest.SheetDBServer, error) {
	b, err := test.LoadFixture(fixturePath)
	if err != nil {
		return nil, err
	}

	sheets := map[string][]store.Row{}
	if err := json.Unmarshal(b, &sheets); err != nil {
		return nil, err
	}

	stub := storeTest.ServerStub()
	for sheet, rows := range sheets {
		stub.SetRows(sheet, rows...)
	}
	return stub, nil
}
