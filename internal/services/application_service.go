package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/database"
	"github.com/justsurfingit/applied-jobs-tracker/internal/metrics"
	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
	"go.uber.org/zap"
)

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	opList   = "list"
)

// ApplicationService is the only place that knows the persisted shape of
// an application. Everything above it works with ApplicationRow.
type ApplicationService struct {
	Store    database.Store
	Logger   *zap.Logger
	Location *time.Location
}

func NewApplicationService(store database.Store, logger *zap.Logger, loc *time.Location) *ApplicationService {
	if loc == nil {
		loc = time.UTC
	}
	return &ApplicationService{
		Store:    store,
		Logger:   logger,
		Location: loc,
	}
}

type datedRow struct {
	row     models.ApplicationRow
	applied time.Time
}

// ListForOwner returns every application owned by ownerID, most recently
// applied first. Ordering uses the stored instant, not the display string.
func (s *ApplicationService) ListForOwner(ctx context.Context, ownerID string) ([]models.ApplicationRow, error) {
	if ownerID == "" {
		return nil, &FetchError{Owner: ownerID, Err: ErrNoOwner}
	}

	start := time.Now()
	docs, err := s.Store.Query(ctx, database.Collection, database.OwnerFilter(ownerID))
	metrics.ObserveStoreCall(opList, start, err)
	if err != nil {
		s.Logger.Error("failed to fetch applied jobs", zap.String("owner", ownerID), zap.Error(err))
		return nil, &FetchError{Owner: ownerID, Err: err}
	}

	dated := make([]datedRow, 0, len(docs))
	for _, doc := range docs {
		if doc.UserUID != ownerID {
			s.Logger.Warn("store returned a foreign application, dropping it",
				zap.String("owner", ownerID), zap.String("id", doc.ID))
			continue
		}
		dated = append(dated, datedRow{row: s.toRow(doc), applied: doc.DateApplied})
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].applied.After(dated[j].applied)
	})

	rows := make([]models.ApplicationRow, len(dated))
	for i, d := range dated {
		rows[i] = d.row
	}
	return rows, nil
}

func (s *ApplicationService) toRow(doc models.Application) models.ApplicationRow {
	return models.ApplicationRow{
		ID:          doc.ID,
		CompanyName: doc.CompanyName,
		JobTitle:    doc.JobTitle,
		Location:    doc.Location,
		Salary:      doc.Salary,
		Status:      doc.Status.Display(),
		DateApplied: models.FormatDisplayDate(doc.DateApplied, s.Location),
		Link:        doc.Link,
	}
}

// shape trims text fields and puts the status into its stored form.
func shape(in models.ApplicationFields) (models.ApplicationFields, error) {
	if in.Salary < 0 {
		return models.ApplicationFields{}, ErrNegativeSalary
	}
	st, ok := models.ParseStatus(string(in.Status))
	if !ok {
		return models.ApplicationFields{}, ErrInvalidStatus
	}
	out := models.ApplicationFields{
		CompanyName: strings.TrimSpace(in.CompanyName),
		JobTitle:    strings.TrimSpace(in.JobTitle),
		Location:    strings.TrimSpace(in.Location),
		Salary:      in.Salary,
		Status:      st,
		Link:        strings.TrimSpace(in.Link),
	}
	if !in.DateApplied.IsZero() {
		out.DateApplied = in.DateApplied.UTC()
	}
	return out, nil
}

// Create stores a new application for ownerID and returns the id the store
// assigned. A zero DateApplied is left for the store to fill in.
func (s *ApplicationService) Create(ctx context.Context, ownerID string, in models.ApplicationFields) (string, error) {
	if ownerID == "" {
		return "", &WriteError{Op: OpCreate, Err: ErrNoOwner}
	}
	f, err := shape(in)
	if err != nil {
		return "", &WriteError{Op: OpCreate, Err: err}
	}

	doc := models.Application{
		CompanyName: f.CompanyName,
		JobTitle:    f.JobTitle,
		Location:    f.Location,
		Salary:      f.Salary,
		Status:      f.Status,
		Link:        f.Link,
		UserUID:     ownerID,
		DateApplied: f.DateApplied,
	}

	start := time.Now()
	id, err := s.Store.Insert(ctx, database.Collection, doc)
	metrics.ObserveStoreCall(OpCreate, start, err)
	if err != nil {
		s.Logger.Error("failed to add applied job", zap.String("owner", ownerID), zap.Error(err))
		return "", &WriteError{Op: OpCreate, Err: err}
	}

	s.Logger.Info("applied job added", zap.String("owner", ownerID), zap.String("id", id))
	return id, nil
}

// Update overwrites every mutable field of id. Ownership is not checked
// here; callers only hold ids from their owner's listing.
func (s *ApplicationService) Update(ctx context.Context, id string, in models.ApplicationFields) error {
	if id == "" {
		return &WriteError{Op: OpUpdate, Err: ErrMissingID}
	}
	f, err := shape(in)
	if err != nil {
		return &WriteError{Op: OpUpdate, ID: id, Err: err}
	}
	if f.DateApplied.IsZero() {
		f.DateApplied = time.Now().UTC()
	}

	start := time.Now()
	err = s.Store.UpdateByKey(ctx, database.Collection, id, f)
	metrics.ObserveStoreCall(OpUpdate, start, err)
	if err != nil {
		s.Logger.Error("failed to update applied job", zap.String("id", id), zap.Error(err))
		return &WriteError{Op: OpUpdate, ID: id, Err: err}
	}

	s.Logger.Info("applied job updated", zap.String("id", id))
	return nil
}

// Delete removes id permanently.
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &WriteError{Op: OpDelete, Err: ErrMissingID}
	}

	start := time.Now()
	err := s.Store.DeleteByKey(ctx, database.Collection, id)
	metrics.ObserveStoreCall(OpDelete, start, err)
	if err != nil {
		s.Logger.Error("failed to delete applied job", zap.String("id", id), zap.Error(err))
		return &WriteError{Op: OpDelete, ID: id, Err: err}
	}

	s.Logger.Info("applied job deleted", zap.String("id", id))
	return nil
}
