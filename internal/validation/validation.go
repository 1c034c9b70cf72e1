// Package validation checks application form input before any request is
// made to the store.
package validation

import (
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
)

const (
	FlowCreate = "create"
	FlowEdit   = "edit"

	MsgRequiredFields = "Please fill in all required fields"
	MsgInvalidSalary  = "Please enter a valid salary amount"
)

// Errors is the field-keyed result of a failed validation.
type Errors struct {
	Flow    string            `json:"-"`
	Summary string            `json:"summary,omitempty"`
	Fields  map[string]string `json:"errors"`
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	msg := e.Flow + " validation failed"
	if e.Summary != "" {
		msg += ": " + e.Summary
	}
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return msg
}

// Has reports whether field failed.
func (e *Errors) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Form is the raw user input of the create and edit dialogs.
type Form struct {
	CompanyName string `json:"companyName"`
	JobTitle    string `json:"jobTitle"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Status      string `json:"status"`
	Link        string `json:"link"`
	DateApplied string `json:"dateApplied"`
}

// Set replaces one field by its json name. Unknown names are ignored.
func (f *Form) Set(field, value string) {
	switch field {
	case "companyName":
		f.CompanyName = value
	case "jobTitle":
		f.JobTitle = value
	case "location":
		f.Location = value
	case "salary":
		f.Salary = value
	case "status":
		f.Status = value
	case "link":
		f.Link = value
	case "dateApplied":
		f.DateApplied = value
	}
}

type requiredText struct {
	CompanyName string `json:"companyName" validate:"required"`
	JobTitle    string `json:"jobTitle" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Salary      string `json:"salary" validate:"required"`
}

type editLink struct {
	Link string `json:"link" validate:"required,url"`
}

var editMessages = map[string]map[string]string{
	"companyName": {"required": "Company name is required"},
	"jobTitle":    {"required": "Job title is required"},
	"location":    {"required": "Location is required"},
	"salary":      {"required": "Salary must be a positive number"},
	"link":        {"required": "Job link is required", "url": "Please enter a valid URL"},
}

// dateLayouts are tried in order when parsing a submitted date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	models.DisplayDateLayout,
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func trimmed(f Form) requiredText {
	return requiredText{
		CompanyName: strings.TrimSpace(f.CompanyName),
		JobTitle:    strings.TrimSpace(f.JobTitle),
		Location:    strings.TrimSpace(f.Location),
		Salary:      strings.TrimSpace(f.Salary),
	}
}

// failedFields runs the struct rules and returns each failing field with the tag it failed.
func (v *Validator) failedFields(s interface{}) []validator.FieldError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	return verrs
}

// decimalAmount is a plain decimal number. ParseFloat alone would also
// take hex floats, underscores and exponents.
var decimalAmount = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

func parseSalary(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalAmount.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidateCreate checks the add dialog. It stops at the first failing
// check. An empty status defaults to Submitted and an empty date is left
// zero for the store to fill in.
func (v *Validator) ValidateCreate(f Form, loc *time.Location) (models.ApplicationFields, error) {
	fail := func(field, summary string) (models.ApplicationFields, error) {
		return models.ApplicationFields{}, &Errors{
			Flow:    FlowCreate,
			Summary: summary,
			Fields:  map[string]string{field: summary},
		}
	}

	if failed := v.failedFields(trimmed(f)); len(failed) > 0 {
		return fail(failed[0].Field(), MsgRequiredFields)
	}

	salary, ok := parseSalary(f.Salary)
	if !ok || salary < 0 {
		return fail("salary", MsgInvalidSalary)
	}

	status := models.StatusSubmitted
	if strings.TrimSpace(f.Status) != "" {
		st, ok := models.ParseStatus(f.Status)
		if !ok {
			return fail("status", "Please select a valid status")
		}
		status = st
	}

	var applied time.Time
	if strings.TrimSpace(f.DateApplied) != "" {
		t, ok := ParseDate(f.DateApplied, loc)
		if !ok {
			return fail("dateApplied", "Please enter a valid date")
		}
		applied = t
	}

	return models.ApplicationFields{
		CompanyName: f.CompanyName,
		JobTitle:    f.JobTitle,
		Location:    f.Location,
		Salary:      salary,
		Status:      status,
		Link:        f.Link,
		DateApplied: applied,
	}, nil
}

// ValidateEdit checks the edit dialog and reports every failing field.
// Unlike create, salary must be strictly positive and link and date are
// required.
func (v *Validator) ValidateEdit(f Form, loc *time.Location) (models.ApplicationFields, error) {
	errs := map[string]string{}

	for _, fe := range v.failedFields(trimmed(f)) {
		errs[fe.Field()] = editMessages[fe.Field()][fe.Tag()]
	}
	for _, fe := range v.failedFields(editLink{Link: strings.TrimSpace(f.Link)}) {
		errs[fe.Field()] = editMessages[fe.Field()][fe.Tag()]
	}

	salary, ok := parseSalary(f.Salary)
	if !errsHas(errs, "salary") && (!ok || salary <= 0) {
		errs["salary"] = "Salary must be a positive number"
	}

	status, ok := models.ParseStatus(f.Status)
	if !ok {
		errs["status"] = "Please select a valid status"
	}

	applied, ok := ParseDate(f.DateApplied, loc)
	if !ok {
		errs["dateApplied"] = "Date applied is required"
	}

	if len(errs) > 0 {
		return models.ApplicationFields{}, &Errors{Flow: FlowEdit, Fields: errs}
	}

	return models.ApplicationFields{
		CompanyName: f.CompanyName,
		JobTitle:    f.JobTitle,
		Location:    f.Location,
		Salary:      salary,
		Status:      status,
		Link:        f.Link,
		DateApplied: applied,
	}, nil
}

func errsHas(m map[string]string, k string) bool {
	_, ok := m[k]
	return ok
}
