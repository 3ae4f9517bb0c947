package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Row is a single record of a collection keyed by column name.
type Row map[string]string

// Filter restricts a search to rows whose columns match the given values.
type Filter map[string]string

type Collection string

//go:generate mockgen --build_flags=--mod=mod -source=./store.go -destination=./test/mock_store.go -package test MockStore
type Store interface {
	Search(ctx context.Context, collection Collection, filter Filter) ([]Row, error)
}

type Collections struct {
	Tokens   Collection
	Patients Collection
	Tests    Collection
}

func NewCollections(cfg *Config) Collections {
	return Collections{
		Tokens:   Collection(cfg.TokensSheet),
		Patients: Collection(cfg.PatientsSheet),
		Tests:    Collection(cfg.TestsSheet),
	}
}

func (r Row) Get(column string) string {
	return r[column]
}

// NewRow converts a decoded json object into a Row. Scalars are rendered the way
// they would appear in the spreadsheet cell, nil becomes an empty string.
func NewRow(values map[string]interface{}) Row {
	row := make(Row, len(values))
	for key, value := range values {
		row[key] = stringify(value)
	}
	return row
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// searchKey identifies a search independently of filter iteration order.
func searchKey(collection Collection, filter Filter) string {
	values := url.Values{}
	for k, v := range filter {
		values.Set(k, v)
	}
	return strings.Join([]string{string(collection), values.Encode()}, "?")
}
