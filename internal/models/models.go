package models

import (
	"strings"
	"time"
)

// Status is the canonical, capitalised application status as stored.
type Status string

const (
	StatusSubmitted Status = "Submitted"
	StatusInterview Status = "Interview"
	StatusRejected  Status = "Rejected"
	StatusAccepted  Status = "Accepted"
	StatusPending   Status = "Pending"
)

// Statuses lists every valid status in the order the status picker shows them.
var Statuses = []Status{StatusSubmitted, StatusInterview, StatusPending, StatusAccepted, StatusRejected}

// ParseStatus accepts any casing of a known status and returns its canonical form.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Display returns the lower-case form used by table rows.
func (s Status) Display() string {
	return strings.ToLower(string(s))
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok && Capitalize(string(s)) == string(s)
}

// Capitalize upper-cases the first letter and lower-cases the rest,
// e.g. "interview" -> "Interview".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// BadgeVariant is the visual variant a status badge is rendered with.
func BadgeVariant(displayStatus string) string {
	switch displayStatus {
	case "interview", "accepted":
		return "default"
	case "rejected":
		return "destructive"
	case "pending":
		return "outline"
	default:
		return "secondary"
	}
}

// DisplayDateLayout is the en-US short date shown in the table, e.g. "Mar 4, 2025".
const DisplayDateLayout = "Jan 2, 2006"

// FormatDisplayDate renders t in loc using DisplayDateLayout.
func FormatDisplayDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayDateLayout)
}

// Application is the persisted record in the appliedjobs collection.
type Application struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyName string    `gorm:"not null" json:"companyName"`
	JobTitle    string    `gorm:"not null" json:"jobTitle"`
	Location    string    `gorm:"not null" json:"location"`
	Salary      float64   `gorm:"not null;check:salary >= 0" json:"salary"`
	Status      Status    `gorm:"type:varchar(16);not null;default:'Submitted'" json:"status"`
	Link        string    `json:"link"`
	UserUID     string    `gorm:"column:user_uid;index;not null" json:"userUid"`
	DateApplied time.Time `gorm:"index" json:"dateApplied"`
}

func (Application) TableName() string { return "appliedjobs" }

// ApplicationRow is the display form shown in the applications table.
// Status is lower-case and DateApplied is already formatted.
type ApplicationRow struct {
	ID          string  `json:"id"`
	CompanyName string  `json:"companyName"`
	JobTitle    string  `json:"jobTitle"`
	Location    string  `json:"location"`
	Salary      float64 `json:"salary"`
	Status      string  `json:"status"`
	DateApplied string  `json:"dateApplied"`
	Link        string  `json:"link"`
}

// ApplicationFields are the mutable fields written by create and update.
type ApplicationFields struct {
	CompanyName string
	JobTitle    string
	Location    string
	Salary      float64
	Status      Status
	Link        string
	DateApplied time.Time
}
