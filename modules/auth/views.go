package auth

import (
	"time"

	"github.com/nutricare/authcore/svc/identity"
)

type ipInfo struct {
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
}

type patientView struct {
	ID                       string    `json:"id"`
	FirstName                string    `json:"firstName"`
	LastName                 string    `json:"lastName"`
	Email                    string    `json:"email"`
	DOB                      *string   `json:"dob"`
	Relation                 string    `json:"relation,omitempty"`
	Role                     string    `json:"role"`
	Avatar                   string    `json:"avatar"`
	HasCompletedBMI          bool      `json:"hasCompletedBmiCalculator"`
	CompletedAssessments     int       `json:"completedAssessments"`
	HasCompletedRegistration bool      `json:"hasCompletedRegistration"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
	IPInfo                   *ipInfo   `json:"ipInfo,omitempty"`
}

type clinicianView struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	FullName       string         `json:"fullName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Role           string         `json:"role"`
	Specialization string         `json:"specialization"`
	Experience     int            `json:"experience"`
	Qualifications []string       `json:"qualifications"`
	Address        map[string]any `json:"address,omitempty"`
	LicenseNumber  string         `json:"licenseNumber"`
	Availability   map[string]any `json:"availability"`
	IsActive       bool           `json:"isActive"`
	LastLogin      *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	IPInfo         *ipInfo        `json:"ipInfo,omitempty"`
}

// userView renders the account for API responses. The password hash is
// never part of either shape.
func userView(id *identity.Identity, ip *ipInfo) any {
	if id.IsClinician() {
		c := id.Clinician
		v := clinicianView{
			ID:             c.ID,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			FullName:       c.FullName(),
			Email:          c.Email,
			Phone:          c.Phone,
			Role:           identity.RoleDoctor,
			Specialization: c.Specialization,
			Experience:     c.Experience,
			Qualifications: c.Qualifications,
			Address:        c.Address,
			LicenseNumber:  c.LicenseNumber,
			Availability:   c.Availability,
			IsActive:       c.IsActive,
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
			IPInfo:         ip,
		}
		if v.Qualifications == nil {
			v.Qualifications = []string{}
		}
		if v.Availability == nil {
			v.Availability = map[string]any{}
		}
		if !c.LastLogin.IsZero() {
			v.LastLogin = &c.LastLogin
		}
		return v
	}

	p := id.Patient
	v := patientView{
		ID:                       p.ID,
		FirstName:                p.FirstName,
		LastName:                 p.LastName,
		Email:                    p.Email,
		Relation:                 p.Relation,
		Role:                     id.Role(),
		Avatar:                   p.Avatar,
		HasCompletedBMI:          p.HasCompletedBMI,
		CompletedAssessments:     p.CompletedAssessments,
		HasCompletedRegistration: p.HasCompletedRegistration,
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
		IPInfo:                   ip,
	}
	if !p.DOB.IsZero() {
		dob := p.DOB.UTC().Format(time.RFC3339)
		v.DOB = &dob
	}
	return v
}
