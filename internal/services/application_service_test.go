package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/database"
	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var errBoom = errors.New("boom")

// flakyStore fails selected operations and otherwise delegates.
type flakyStore struct {
	database.Store
	queryErr, insertErr, updateErr, deleteErr error
	extra                                     []models.Application
}

func (f *flakyStore) Query(ctx context.Context, c string, filter database.Filter) ([]models.Application, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	docs, err := f.Store.Query(ctx, c, filter)
	return append(docs, f.extra...), err
}

func (f *flakyStore) Insert(ctx context.Context, c string, doc models.Application) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	return f.Store.Insert(ctx, c, doc)
}

func (f *flakyStore) UpdateByKey(ctx context.Context, c, id string, fields models.ApplicationFields) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.Store.UpdateByKey(ctx, c, id, fields)
}

func (f *flakyStore) DeleteByKey(ctx context.Context, c, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Store.DeleteByKey(ctx, c, id)
}

type applicationServiceSuite struct {
	suite.Suite
	ctx   context.Context
	store *flakyStore
	svc   *ApplicationService
}

func TestApplicationService(t *testing.T) {
	suite.Run(t, &applicationServiceSuite{})
}

func (s *applicationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = &flakyStore{Store: database.NewMemoryStore()}
	s.svc = NewApplicationService(s.store, zap.NewNop(), time.UTC)
}

func acme() models.ApplicationFields {
	return models.ApplicationFields{
		CompanyName: "Acme",
		JobTitle:    "Engineer",
		Location:    "Remote",
		Salary:      50000,
		Status:      models.StatusSubmitted,
	}
}

func (s *applicationServiceSuite) create(owner string, f models.ApplicationFields) string {
	id, err := s.svc.Create(s.ctx, owner, f)
	s.Require().NoError(err)
	s.Require().NotEmpty(id)
	return id
}

func (s *applicationServiceSuite) TestCreateThenList_NormalizesFields() {
	f := acme()
	f.CompanyName = "  Acme  "
	f.Status = "submitted"
	f.DateApplied = time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)
	id := s.create("user-1", f)

	rows, err := s.svc.ListForOwner(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(models.ApplicationRow{
		ID:          id,
		CompanyName: "Acme",
		JobTitle:    "Engineer",
		Location:    "Remote",
		Salary:      50000,
		Status:      "submitted",
		DateApplied: "Mar 4, 2025",
		Link:        "",
	}, rows[0])
}

func (s *applicationServiceSuite) TestCreate_StoredStatusIsCapitalized() {
	f := acme()
	f.Status = "interview"
	s.create("user-1", f)

	docs, err := s.store.Store.Query(s.ctx, database.Collection, database.OwnerFilter("user-1"))
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal(models.StatusInterview, docs[0].Status)
	s.Equal("user-1", docs[0].UserUID)
	s.False(docs[0].DateApplied.IsZero())
}

func (s *applicationServiceSuite) TestList_MostRecentFirstByInstant() {
	// "Dec 1, 2024" sorts after "Mar 4, 2025" as text; the instant must win.
	older := acme()
	older.CompanyName = "Older"
	older.DateApplied = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	newer := acme()
	newer.CompanyName = "Newer"
	newer.DateApplied = time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	sameDayLater := acme()
	sameDayLater.CompanyName = "Later same day"
	sameDayLater.DateApplied = time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC)

	s.create("user-1", older)
	s.create("user-1", newer)
	s.create("user-1", sameDayLater)

	rows, err := s.svc.ListForOwner(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal([]string{"Later same day", "Newer", "Older"},
		[]string{rows[0].CompanyName, rows[1].CompanyName, rows[2].CompanyName})
}

func (s *applicationServiceSuite) TestList_ScopedToOwner() {
	s.create("user-1", acme())
	s.create("user-2", acme())

	s.store.extra = []models.Application{{ID: "leak", UserUID: "user-2", Status: models.StatusPending}}

	rows, err := s.svc.ListForOwner(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(rows, 1)
	for _, r := range rows {
		s.NotEqual("leak", r.ID)
	}
}

func (s *applicationServiceSuite) TestList_Failure() {
	s.store.queryErr = errBoom
	_, err := s.svc.ListForOwner(s.ctx, "user-1")

	var fe *FetchError
	s.Require().True(errors.As(err, &fe))
	s.Equal("user-1", fe.Owner)
	s.True(errors.Is(err, errBoom))
}

func (s *applicationServiceSuite) TestList_NoOwner() {
	_, err := s.svc.ListForOwner(s.ctx, "")
	s.True(errors.Is(err, ErrNoOwner))
}

func (s *applicationServiceSuite) TestUpdate_IsIdempotentOnRedisplay() {
	id := s.create("user-1", acme())

	edit := acme()
	edit.Status = models.StatusInterview
	edit.Link = "https://acme.example.com/jobs/1"
	edit.DateApplied = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		s.Require().NoError(s.svc.Update(s.ctx, id, edit))
		rows, err := s.svc.ListForOwner(s.ctx, "user-1")
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal(id, rows[0].ID)
		s.Equal("interview", rows[0].Status)
		s.Equal("Jan 2, 2025", rows[0].DateApplied)
		s.Equal(edit.Link, rows[0].Link)
	}

	docs, _ := s.store.Store.Query(s.ctx, database.Collection, database.OwnerFilter("user-1"))
	s.Equal("user-1", docs[0].UserUID)
}

func (s *applicationServiceSuite) TestUpdate_UnknownID() {
	err := s.svc.Update(s.ctx, "missing", acme())
	var we *WriteError
	s.Require().True(errors.As(err, &we))
	s.Equal(OpUpdate, we.Op)
	s.True(errors.Is(err, database.ErrNotFound))
}

func (s *applicationServiceSuite) TestDelete_RemovesOnlyTarget() {
	keep := s.create("user-1", acme())
	gone := s.create("user-1", acme())

	s.Require().NoError(s.svc.Delete(s.ctx, gone))

	rows, err := s.svc.ListForOwner(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(keep, rows[0].ID)

	// deleting again is not an error
	s.NoError(s.svc.Delete(s.ctx, gone))
}

func (s *applicationServiceSuite) TestWriteFailures() {
	s.store.insertErr = errBoom
	_, err := s.svc.Create(s.ctx, "user-1", acme())
	var we *WriteError
	s.Require().True(errors.As(err, &we))
	s.Equal(OpCreate, we.Op)

	s.store.deleteErr = errBoom
	err = s.svc.Delete(s.ctx, "x")
	s.Require().True(errors.As(err, &we))
	s.Equal(OpDelete, we.Op)
	s.Equal("x", we.ID)
}

func (s *applicationServiceSuite) TestCreate_RejectsBadShape() {
	f := acme()
	f.Salary = -1
	_, err := s.svc.Create(s.ctx, "user-1", f)
	s.True(errors.Is(err, ErrNegativeSalary))

	f = acme()
	f.Status = "Ghosted"
	_, err = s.svc.Create(s.ctx, "user-1", f)
	s.True(errors.Is(err, ErrInvalidStatus))

	_, err = s.svc.Create(s.ctx, "", acme())
	s.True(errors.Is(err, ErrNoOwner))
}

func TestStatusRoundTrip(t *testing.T) {
	for _, st := range models.Statuses {
		assert.Equal(t, string(st), models.Capitalize(st.Display()))
		parsed, ok := models.ParseStatus(st.Display())
		require.True(t, ok)
		assert.Equal(t, st, parsed)
	}
}
