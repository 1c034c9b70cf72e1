package table

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
)

type Column string

const (
	ColumnCompanyName Column = "companyName"
	ColumnJobTitle    Column = "jobTitle"
	ColumnDateApplied Column = "dateApplied"
)

var ErrUnsortableColumn = errors.New("column is not sortable")

// Sortable reports whether the table offers a sort toggle for c.
func Sortable(c Column) bool {
	switch c {
	case ColumnCompanyName, ColumnJobTitle, ColumnDateApplied:
		return true
	}
	return false
}

type Sort struct {
	Column Column `json:"column"`
	Desc   bool   `json:"desc"`
}

// Toggle returns the sort after clicking c's header: an unsorted or
// descending column becomes ascending, an ascending one descending.
func Toggle(cur *Sort, c Column) (Sort, error) {
	if !Sortable(c) {
		return Sort{}, ErrUnsortableColumn
	}
	wasAsc := cur != nil && cur.Column == c && !cur.Desc
	return Sort{Column: c, Desc: wasAsc}, nil
}

// SortRows returns the positions of rows in display order. It never
// mutates rows, and equal keys keep their listing order.
func SortRows(rows []models.ApplicationRow, s *Sort) []int {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	if s == nil {
		return order
	}

	var compare func(a, b models.ApplicationRow) int
	switch s.Column {
	case ColumnCompanyName:
		compare = func(a, b models.ApplicationRow) int { return compareText(a.CompanyName, b.CompanyName) }
	case ColumnJobTitle:
		compare = func(a, b models.ApplicationRow) int { return compareText(a.JobTitle, b.JobTitle) }
	case ColumnDateApplied:
		compare = compareDates
	default:
		return order
	}

	sort.SliceStable(order, func(i, j int) bool {
		c := compare(rows[order[i]], rows[order[j]])
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
	return order
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareDates orders by the calendar date behind the display string.
// Unparseable dates compare greater than every real one.
func compareDates(a, b models.ApplicationRow) int {
	ta, errA := time.Parse(models.DisplayDateLayout, a.DateApplied)
	tb, errB := time.Parse(models.DisplayDateLayout, b.DateApplied)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return ta.Compare(tb)
}
