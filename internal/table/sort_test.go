package table

import (
	"testing"

	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	s, err := Toggle(nil, ColumnJobTitle)
	assert.NoError(t, err)
	assert.Equal(t, Sort{Column: ColumnJobTitle}, s)

	s, _ = Toggle(&s, ColumnJobTitle)
	assert.True(t, s.Desc)

	// switching column starts ascending
	s, _ = Toggle(&s, ColumnCompanyName)
	assert.Equal(t, Sort{Column: ColumnCompanyName}, s)
}

func TestSortRows_PureAndStable(t *testing.T) {
	rows := []models.ApplicationRow{
		{ID: "1", CompanyName: "acme"},
		{ID: "2", CompanyName: "Acme"},
		{ID: "3", CompanyName: "Zeta"},
		{ID: "4", CompanyName: "ACME"},
	}
	before := append([]models.ApplicationRow(nil), rows...)

	s := &Sort{Column: ColumnCompanyName}
	first := SortRows(rows, s)
	second := SortRows(rows, s)

	assert.Equal(t, []int{0, 1, 3, 2}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, before, rows)

	assert.Equal(t, []int{2, 0, 1, 3}, SortRows(rows, &Sort{Column: ColumnCompanyName, Desc: true}))
	assert.Equal(t, []int{0, 1, 2, 3}, SortRows(rows, nil))
}

func TestSortRows_DatesByInstant(t *testing.T) {
	rows := []models.ApplicationRow{
		{ID: "a", DateApplied: "Mar 4, 2025"},
		{ID: "b", DateApplied: "not a date"},
		{ID: "c", DateApplied: "Apr 10, 2024"},
		{ID: "d", DateApplied: "Dec 31, 2024"},
	}
	assert.Equal(t, []int{2, 3, 0, 1}, SortRows(rows, &Sort{Column: ColumnDateApplied}))
}
