package store

import (
	"context"

	"github.com/mohae/deepcopy"
	"golang.org/x/sync/singleflight"
)

// deduplicatingStore collapses concurrent identical searches into a single
// request to the delegate. Callers receive independent copies of the result.
type deduplicatingStore struct {
	delegate Store
	group    singleflight.Group
}

var _ Store = &deduplicatingStore{}

func NewDeduplicatingStore(delegate Store) Store {
	return &deduplicatingStore{delegate: delegate}
}

func (d *deduplicatingStore) Search(ctx context.Context, collection Collection, filter Filter) ([]Row, error) {
	result, err, _ := d.group.Do(searchKey(collection, filter), func() (interface{}, error) {
		return d.delegate.Search(ctx, collection, filter)
	})
	if err != nil {
		return nil, err
	}

	rows, _ := deepcopy.Copy(result).([]Row)
	return rows, nil
}
