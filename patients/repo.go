package patients

import (
	"context"
	"fmt"

	errs "github.com/integrada/portal/errors"
	"github.com/integrada/portal/markers"
	"github.com/integrada/portal/store"
)

type repository struct {
	store      store.Store
	collection store.Collection
}

var _ Repository = &repository{}

func NewRepository(s store.Store, collections store.Collections) Repository {
	return &repository{
		store:      s,
		collection: collections.Patients,
	}
}

func (r *repository) Get(ctx context.Context, cpf string) (*Patient, error) {
	cpf = markers.OnlyDigits(cpf)
	if cpf == "" {
		return nil, errs.UnboundToken
	}

	rows, err := r.store.Search(ctx, r.collection, store.Filter{"cpf": cpf})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no patient with cpf %v", errs.PatientNotFound, cpf)
	}

	return Decode(rows[0])
}

func Decode(row store.Row) (*Patient, error) {
	patient := &Patient{}
	if err := store.Decode(row, patient); err != nil {
		return nil, fmt.Errorf("%w: unable to decode patient: %v", errs.StoreUnavailable, err)
	}
	if patient.Flags == nil {
		patient.Flags = make(map[string]string)
	}
	return patient, nil
}
