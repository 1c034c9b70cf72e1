package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
)

// Collection holds every application record, across all owners.
const Collection = "appliedjobs"

var (
	ErrNotFound          = errors.New("document not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnsupportedFilter = errors.New("unsupported filter field")
)

// Filter is an equality match on one persisted field, e.g. {Field: "userUid", Value: uid}.
type Filter struct {
	Field string
	Value string
}

func OwnerFilter(uid string) Filter {
	return Filter{Field: "userUid", Value: uid}
}

// filterColumns maps persisted field names onto table columns.
var filterColumns = map[string]string{
	"userUid":     "user_uid",
	"status":      "status",
	"companyName": "company_name",
}

func column(f Filter) (string, error) {
	c, ok := filterColumns[f.Field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFilter, f.Field)
	}
	return c, nil
}

// Store is the document store the record adapter talks to. The store
// assigns ids on insert; callers never choose them.
type Store interface {
	Query(ctx context.Context, collection string, filter Filter) ([]models.Application, error)
	Insert(ctx context.Context, collection string, doc models.Application) (string, error)
	UpdateByKey(ctx context.Context, collection, id string, fields models.ApplicationFields) error
	DeleteByKey(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}
