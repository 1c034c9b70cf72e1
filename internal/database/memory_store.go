package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
)

// MemoryStore keeps documents in process memory. Used for local runs
// without Postgres and as the store behind tests.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]models.Application
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]models.Application),
		now:  time.Now,
	}
}

func (s *MemoryStore) check(collection string) error {
	if collection != Collection {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return nil
}

func match(doc models.Application, f Filter) bool {
	switch f.Field {
	case "userUid":
		return doc.UserUID == f.Value
	case "status":
		return string(doc.Status) == f.Value
	case "companyName":
		return doc.CompanyName == f.Value
	}
	return false
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filter Filter) ([]models.Application, error) {
	if err := s.check(collection); err != nil {
		return nil, err
	}
	if _, err := column(filter); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, 0, len(s.order))
	for _, id := range s.order {
		if doc := s.docs[id]; match(doc, filter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, doc models.Application) (string, error) {
	if err := s.check(collection); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := s.now().UTC()
	doc.ID = uuid.NewString()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.DateApplied.IsZero() {
		doc.DateApplied = now
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	return doc.ID, nil
}

func (s *MemoryStore) UpdateByKey(ctx context.Context, collection, id string, fields models.ApplicationFields) error {
	if err := s.check(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.CompanyName = fields.CompanyName
	doc.JobTitle = fields.JobTitle
	doc.Location = fields.Location
	doc.Salary = fields.Salary
	doc.Status = fields.Status
	doc.Link = fields.Link
	doc.DateApplied = fields.DateApplied
	doc.UpdatedAt = s.now().UTC()
	s.docs[id] = doc
	return nil
}

func (s *MemoryStore) DeleteByKey(ctx context.Context, collection, id string) error {
	if err := s.check(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return nil
	}
	delete(s.docs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
