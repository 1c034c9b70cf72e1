// Package table holds the applications table shown to one signed-in user:
// the current snapshot of rows, the loading flag, sorting and selection.
package table

import (
	"context"
	"errors"
	"sync"

	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/justsurfingit/applied-jobs-tracker/internal/metrics"
	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
	"github.com/justsurfingit/applied-jobs-tracker/internal/notify"
	"go.uber.org/zap"
)

const MsgLoadFailed = "Failed to load applied jobs"

var (
	ErrRowOutOfRange = errors.New("row index out of range")
	ErrClosed        = errors.New("table is closed")
)

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StatePopulated State = "populated"
)

// Lister is the part of the record adapter the table reads through.
type Lister interface {
	ListForOwner(ctx context.Context, ownerID string) ([]models.ApplicationRow, error)
}

// Controller owns the row snapshot. A refresh replaces the snapshot
// wholesale; nothing ever patches individual rows.
type Controller struct {
	session *auth.Session
	lister  Lister
	sink    notify.Sink
	logger  *zap.Logger

	mu       sync.Mutex
	state    State
	inflight int
	rows     []models.ApplicationRow
	lastErr  error
	sort     *Sort
	selected map[int]bool
	closed   bool
}

func NewController(s *auth.Session, lister Lister, sink notify.Sink, logger *zap.Logger) *Controller {
	if sink == nil {
		sink = notify.Discard
	}
	return &Controller{
		session:  s,
		lister:   lister,
		sink:     sink,
		logger:   logger.With(zap.String("owner", s.OwnerID())),
		state:    StateIdle,
		selected: make(map[int]bool),
	}
}

// Mount performs the initial load if nothing has been loaded yet.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	idle := c.state == StateIdle && c.session.OwnerID() != ""
	c.mu.Unlock()
	if !idle {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh re-queries the store and replaces the snapshot. Concurrent
// refreshes are not ordered; whichever finishes last is what is shown.
// On failure the previous snapshot is dropped and the table shows empty.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.inflight++
	c.state = StateLoading
	c.mu.Unlock()

	rows, err := c.lister.ListForOwner(ctx, c.session.OwnerID())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.closed {
		// the dashboard went away while we were loading
		return ErrClosed
	}
	if c.inflight == 0 {
		c.state = StatePopulated
	}

	c.selected = make(map[int]bool)
	if err != nil {
		metrics.TableRefreshesTotal.WithLabelValues("error").Inc()
		c.logger.Error("table refresh failed", zap.Error(err))
		c.rows = nil
		c.lastErr = err
		c.sink.Error(MsgLoadFailed)
		return err
	}

	metrics.TableRefreshesTotal.WithLabelValues("ok").Inc()
	c.rows = rows
	c.lastErr = nil
	return nil
}

// Close discards any refresh still in flight.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.rows = nil
	c.selected = make(map[int]bool)
}

// Row returns the snapshot row with id, if the table currently holds it.
func (c *Controller) Row(id string) (models.ApplicationRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rows {
		if r.ID == id {
			return r, true
		}
	}
	return models.ApplicationRow{}, false
}

func (c *Controller) ToggleSort(col Column) (Sort, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Toggle(c.sort, col)
	if err != nil {
		return Sort{}, err
	}
	c.sort = &next
	return next, nil
}

// ClearSort returns the table to listing order.
func (c *Controller) ClearSort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = nil
}

// Select marks one row by its snapshot index.
func (c *Controller) Select(index int, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.rows) {
		return ErrRowOutOfRange
	}
	if on {
		c.selected[index] = true
	} else {
		delete(c.selected, index)
	}
	return nil
}

// SelectAll marks or clears every rendered row.
func (c *Controller) SelectAll(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int]bool, len(c.rows))
	if !on {
		return
	}
	for i := range c.rows {
		c.selected[i] = true
	}
}

type RenderedRow struct {
	models.ApplicationRow
	Index    int    `json:"index"`
	Selected bool   `json:"selected"`
	Badge    string `json:"badge"`
}

type View struct {
	State        State         `json:"state"`
	Loading      bool          `json:"loading"`
	Rows         []RenderedRow `json:"rows"`
	Sort         *Sort         `json:"sort,omitempty"`
	AllSelected  bool          `json:"allSelected"`
	SomeSelected bool          `json:"someSelected"`
	Error        string        `json:"error,omitempty"`
}

// View renders the snapshot in the current sort order.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	order := SortRows(c.rows, c.sort)
	v := View{
		State:   c.state,
		Loading: c.state == StateLoading,
		Rows:    make([]RenderedRow, 0, len(order)),
	}
	if c.sort != nil {
		s := *c.sort
		v.Sort = &s
	}
	if c.lastErr != nil {
		v.Error = MsgLoadFailed
	}

	for _, i := range order {
		r := c.rows[i]
		v.Rows = append(v.Rows, RenderedRow{
			ApplicationRow: r,
			Index:          i,
			Selected:       c.selected[i],
			Badge:          models.BadgeVariant(r.Status),
		})
	}

	n := len(c.selected)
	v.AllSelected = n > 0 && n == len(c.rows)
	v.SomeSelected = n > 0 && n < len(c.rows)
	return v
}
