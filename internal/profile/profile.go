// Package profile holds the citizen's saved contact details and their
// validation rules.
package profile

import "strings"

// ContactProfile is the citizen's contact record, collected once and reused
// across submissions. NationalID and Email are optional.
type ContactProfile struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id,omitempty"`
	Email      string `json:"email,omitempty"`
}

// IsZero reports whether no field of the profile is set.
func (p ContactProfile) IsZero() bool {
	return strings.TrimSpace(p.FirstName) == "" &&
		strings.TrimSpace(p.LastName) == "" &&
		strings.TrimSpace(p.Phone) == "" &&
		strings.TrimSpace(p.NationalID) == "" &&
		strings.TrimSpace(p.Email) == ""
}
