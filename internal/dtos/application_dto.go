package dtos

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/justsurfingit/applied-jobs-tracker/internal/validation"
)

// FlexString accepts either a JSON string or a JSON number, the way a
// form field may arrive from different clients.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

type ApplicationRequest struct {
	CompanyName string     `json:"companyName"`
	JobTitle    string     `json:"jobTitle"`
	Location    string     `json:"location"`
	Salary      FlexString `json:"salary"`
	Status      string     `json:"status"`
	Link        string     `json:"link"`
	DateApplied string     `json:"dateApplied"`
}

func (r ApplicationRequest) Form() validation.Form {
	return validation.Form{
		CompanyName: r.CompanyName,
		JobTitle:    r.JobTitle,
		Location:    r.Location,
		Salary:      string(r.Salary),
		Status:      r.Status,
		Link:        r.Link,
		DateApplied: r.DateApplied,
	}
}

type FieldChangeRequest struct {
	Field string `json:"field" binding:"required,oneof=companyName jobTitle location salary status link dateApplied"`
	Value string `json:"value"`
}

type SortRequest struct {
	Column string `json:"column" binding:"required"`
}

type SelectionRequest struct {
	All      bool `json:"all"`
	Index    *int `json:"index"`
	Selected bool `json:"selected"`
}

type ExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

type SessionResponse struct {
	SessionID string    `json:"sessionId"`
	User      auth.User `json:"user"`
	ExpiresAt string    `json:"expiresAt"`
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
