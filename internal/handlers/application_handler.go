package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/applied-jobs-tracker/internal/dashboard"
	"github.com/justsurfingit/applied-jobs-tracker/internal/dtos"
	"github.com/justsurfingit/applied-jobs-tracker/internal/services"
	"github.com/justsurfingit/applied-jobs-tracker/internal/table"
)

type ApplicationHandler struct {
	Boards *dashboard.Registry
	LLM    *services.LLMService
}

func NewApplicationHandler(boards *dashboard.Registry, llm *services.LLMService) *ApplicationHandler {
	return &ApplicationHandler{Boards: boards, LLM: llm}
}

// board returns the session's dashboard, or writes the error response and
// reports false.
func (h *ApplicationHandler) board(c *gin.Context) (*dashboard.Dashboard, bool) {
	d, err := h.Boards.For(currentSession(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return d, true
}

// List is GET /applications. The first call for a session performs the
// initial load.
func (h *ApplicationHandler) List(c *gin.Context) {
	d, ok := h.board(c)
	if !ok {
		return
	}
	if err := d.Table.Mount(c.Request.Context()); err != nil && !errors.Is(err, table.ErrClosed) {
		c.JSON(statusFor(err), gin.H{"error": table.MsgLoadFailed, "table": d.Table.View()})
		return
	}
	c.JSON(http.StatusOK, d.Table.View())
}

func (h *ApplicationHandler) Refresh(c *gin.Context) {
	d, ok := h.board(c)
	if !ok {
		return
	}
	if err := d.Table.Refresh(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"error": table.MsgLoadFailed, "table": d.Table.View()})
		return
	}
	c.JSON(http.StatusOK, d.Table.View())
}

// Sort is POST /applications/sort, a click on a column header.
func (h *ApplicationHandler) Sort(c *gin.Context) {
	var req dtos.SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	d, ok := h.board(c)
	if !ok {
		return
	}
	if _, err := d.Table.ToggleSort(table.Column(req.Column)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.Table.View())
}

func (h *ApplicationHandler) ClearSort(c *gin.Context) {
	d, ok := h.board(c)
	if !ok {
		return
	}
	d.Table.ClearSort()
	c.JSON(http.StatusOK, d.Table.View())
}

func (h *ApplicationHandler) Select(c *gin.Context) {
	var req dtos.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	d, ok := h.board(c)
	if !ok {
		return
	}
	switch {
	case req.All:
		d.Table.SelectAll(req.Selected)
	case req.Index != nil:
		if err := d.Table.Select(*req.Index, req.Selected); err != nil {
			respondError(c, err)
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either all or index is required"})
		return
	}
	c.JSON(http.StatusOK, d.Table.View())
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	d, ok := h.board(c)
	if !ok {
		return
	}
	id, err := d.Create.Submit(c.Request.Context(), req.Form())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "table": d.Table.View()})
}

// OpenEdit is GET /applications/:id/edit. It returns the edit form
// prefilled from the row.
func (h *ApplicationHandler) OpenEdit(c *gin.Context) {
	d, ok := h.board(c)
	if !ok {
		return
	}
	st, err := d.Rows.Edit(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *ApplicationHandler) ChangeField(c *gin.Context) {
	var req dtos.FieldChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	d, ok := h.board(c)
	if !ok {
		return
	}
	if st := d.Edit.State(); !st.Open || st.JobID != c.Param("id") {
		c.JSON(http.StatusConflict, gin.H{"error": "edit dialog is not open for this application"})
		return
	}
	c.JSON(http.StatusOK, d.Edit.Change(req.Field, req.Value))
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	d, ok := h.board(c)
	if !ok {
		return
	}
	if err := d.Edit.Submit(c.Request.Context(), c.Param("id"), req.Form()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.Table.View())
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	d, ok := h.board(c)
	if !ok {
		return
	}
	if err := d.Rows.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.Table.View())
}

// Link redirects to the posting behind a row.
func (h *ApplicationHandler) Link(c *gin.Context) {
	d, ok := h.board(c)
	if !ok {
		return
	}
	link, err := d.Rows.View(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, link)
}

// Extract is POST /applications/extract. It returns a draft add form read
// from a job posting; nothing is stored.
func (h *ApplicationHandler) Extract(c *gin.Context) {
	var req dtos.ExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	form, err := h.LLM.ExtractDraft(c.Request.Context(), req.RawHTML, req.URL)
	if err != nil {
		if errors.Is(err, services.ErrExtractionDisabled) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to extract job details"})
		return
	}
	c.JSON(http.StatusOK, form)
}

// Notifications drains the toast queue of the session.
func (h *ApplicationHandler) Notifications(c *gin.Context) {
	d, ok := h.board(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": d.Feed.Drain()})
}
