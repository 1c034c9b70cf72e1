package dashboard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/metrics"
	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
	"github.com/justsurfingit/applied-jobs-tracker/internal/validation"
	"go.uber.org/zap"
)

// DialogState is what a dialog currently shows.
type DialogState struct {
	Open       bool              `json:"open"`
	Submitting bool              `json:"submitting"`
	JobID      string            `json:"jobId,omitempty"`
	Form       validation.Form   `json:"form"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func blankCreateForm() validation.Form {
	return validation.Form{Status: string(models.StatusSubmitted)}
}

func copyErrors(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CreateDialog is the "Add New Job Application" dialog.
type CreateDialog struct {
	d *Dashboard

	mu         sync.Mutex
	open       bool
	submitting bool
	form       validation.Form
	errors     map[string]string
}

func (c *CreateDialog) Open() DialogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		c.open = true
		c.form = blankCreateForm()
		c.errors = nil
	}
	return c.stateLocked()
}

// Close resets the form. It is refused while a submission is running.
func (c *CreateDialog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrSubmitting
	}
	c.open = false
	c.form = blankCreateForm()
	c.errors = nil
	return nil
}

func (c *CreateDialog) State() DialogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *CreateDialog) stateLocked() DialogState {
	return DialogState{
		Open:       c.open,
		Submitting: c.submitting,
		Form:       c.form,
		Errors:     copyErrors(c.errors),
	}
}

// Submit validates form and, if it passes, stores a new application and
// refreshes the table. On any failure the dialog stays open with the
// form as submitted.
func (c *CreateDialog) Submit(ctx context.Context, form validation.Form) (string, error) {
	d := c.d

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return "", ErrSubmitting
	}
	c.open = true
	c.form = form
	fields, err := d.validator.ValidateCreate(form, d.loc)
	if err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			c.errors = copyErrors(verr.Fields)
			d.sink.Error(verr.Summary)
		}
		c.mu.Unlock()
		metrics.ValidationFailuresTotal.WithLabelValues(validation.FlowCreate).Inc()
		return "", err
	}
	c.errors = nil
	c.submitting = true
	c.mu.Unlock()

	d.sink.Loading("Adding job application...")
	id, err := d.adapter.Create(ctx, d.Session.OwnerID(), fields)
	d.sink.Dismiss()

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.mu.Unlock()
		d.sink.Error("Failed to add job application. Please try again.")
		return "", err
	}
	c.open = false
	c.form = blankCreateForm()
	c.mu.Unlock()

	d.sink.Success(describe(strings.TrimSpace(fields.JobTitle), strings.TrimSpace(fields.CompanyName)) + " added successfully!")
	d.refreshAfterWrite(ctx)
	return id, nil
}

// EditDialog is the "Edit Job Application" dialog. It edits one row at a time.
type EditDialog struct {
	d *Dashboard

	mu         sync.Mutex
	open       bool
	submitting bool
	jobID      string
	form       validation.Form
	errors     map[string]string
}

// prefill turns a displayed row back into form input.
func prefill(r models.ApplicationRow, loc *time.Location) validation.Form {
	applied, ok := validation.ParseDate(r.DateApplied, loc)
	if !ok {
		applied = time.Now().In(loc)
	}
	return validation.Form{
		CompanyName: r.CompanyName,
		JobTitle:    r.JobTitle,
		Location:    r.Location,
		Salary:      strconv.FormatFloat(r.Salary, 'f', -1, 64),
		Status:      models.Capitalize(r.Status),
		Link:        r.Link,
		DateApplied: applied.Format("2006-01-02"),
	}
}

// OpenFor opens the dialog on the table row with id.
func (e *EditDialog) OpenFor(id string) (DialogState, error) {
	row, ok := e.d.Table.Row(id)
	if !ok {
		return DialogState{}, ErrUnknownRow
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.submitting {
		return DialogState{}, ErrSubmitting
	}
	e.open = true
	e.jobID = id
	e.form = prefill(row, e.d.loc)
	e.errors = nil
	return e.stateLocked(), nil
}

// Change sets one field and clears any error shown for it.
func (e *EditDialog) Change(field, value string) DialogState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.form.Set(field, value)
	delete(e.errors, field)
	return e.stateLocked()
}

func (e *EditDialog) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.submitting {
		return ErrSubmitting
	}
	e.open = false
	e.jobID = ""
	e.form = validation.Form{Status: string(models.StatusSubmitted)}
	e.errors = nil
	return nil
}

func (e *EditDialog) State() DialogState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *EditDialog) stateLocked() DialogState {
	return DialogState{
		Open:       e.open,
		Submitting: e.submitting,
		JobID:      e.jobID,
		Form:       e.form,
		Errors:     copyErrors(e.errors),
	}
}

// Submit replaces every editable field of id with form. id must be a row
// the table currently shows.
func (e *EditDialog) Submit(ctx context.Context, id string, form validation.Form) error {
	d := e.d
	if _, ok := d.Table.Row(id); !ok {
		return ErrUnknownRow
	}

	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return ErrSubmitting
	}
	e.open = true
	e.jobID = id
	e.form = form
	fields, err := d.validator.ValidateEdit(form, d.loc)
	if err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			e.errors = copyErrors(verr.Fields)
		}
		e.mu.Unlock()
		metrics.ValidationFailuresTotal.WithLabelValues(validation.FlowEdit).Inc()
		return err
	}
	e.errors = nil
	e.submitting = true
	e.mu.Unlock()

	d.sink.Loading("Updating job application...")
	err = d.adapter.Update(ctx, id, fields)
	d.sink.Dismiss()

	e.mu.Lock()
	e.submitting = false
	if err != nil {
		e.mu.Unlock()
		d.sink.Error("Failed to update job application. Please try again.")
		return err
	}
	e.open = false
	e.jobID = ""
	e.form = validation.Form{Status: string(models.StatusSubmitted)}
	e.mu.Unlock()

	d.sink.Success(describe(strings.TrimSpace(fields.JobTitle), strings.TrimSpace(fields.CompanyName)) + " updated successfully!")
	d.refreshAfterWrite(ctx)
	return nil
}

// RowActions are the per-row menu entries: view, edit and delete.
type RowActions struct {
	d *Dashboard

	mu       sync.Mutex
	deleting map[string]bool
}

// View returns the posting link of row id.
func (r *RowActions) View(id string) (string, error) {
	row, ok := r.d.Table.Row(id)
	if !ok {
		return "", ErrUnknownRow
	}
	if strings.TrimSpace(row.Link) == "" {
		return "", ErrNoLink
	}
	return row.Link, nil
}

func (r *RowActions) Edit(id string) (DialogState, error) {
	return r.d.Edit.OpenFor(id)
}

// Delete permanently removes row id and refreshes the table.
func (r *RowActions) Delete(ctx context.Context, id string) error {
	d := r.d
	row, ok := d.Table.Row(id)
	if !ok {
		return ErrUnknownRow
	}

	r.mu.Lock()
	if r.deleting[id] {
		r.mu.Unlock()
		return ErrSubmitting
	}
	if r.deleting == nil {
		r.deleting = make(map[string]bool)
	}
	r.deleting[id] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.deleting, id)
		r.mu.Unlock()
	}()

	d.sink.Loading("Deleting job application...")
	err := d.adapter.Delete(ctx, id)
	d.sink.Dismiss()
	if err != nil {
		d.sink.Error("Failed to delete job application. Please try again.")
		return err
	}

	d.logger.Info("row deleted", zap.String("id", id))
	d.sink.Success(describe(row.JobTitle, row.CompanyName) + " deleted successfully!")
	d.refreshAfterWrite(ctx)
	return nil
}
