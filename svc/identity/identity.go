package identity

import (
	"context"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind names the store an account was resolved from.
type Kind string

const (
	KindPatient   Kind = "patient"
	KindClinician Kind = "clinician"
)

// Role names. Clinicians always carry RoleDoctor.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
)

// PatientAccount is an end-user account from the "users" collection.
type PatientAccount struct {
	ID                       string
	FirstName                string
	LastName                 string
	Email                    string
	PasswordHash             string
	DOB                      time.Time
	Relation                 string
	Role                     string
	Avatar                   string
	HasCompletedBMI          bool
	CompletedAssessments     int
	HasCompletedRegistration bool
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// ClinicianAccount is a doctor account from the "doctors" collection.
// Clinicians are provisioned out of band; there is no self-registration.
type ClinicianAccount struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PasswordHash   string
	LastLogin      time.Time
	Specialization string
	Experience     int
	Qualifications []string
	LicenseNumber  string
	Address        map[string]any
	Availability   map[string]any
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName joins first and last name.
func (c *ClinicianAccount) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Identity is exactly one of a patient or a clinician account.
type Identity struct {
	Kind      Kind
	Patient   *PatientAccount
	Clinician *ClinicianAccount
}

// NewPatient wraps p.
func NewPatient(p *PatientAccount) *Identity {
	return &Identity{Kind: KindPatient, Patient: p}
}

// NewClinician wraps c.
func NewClinician(c *ClinicianAccount) *Identity {
	return &Identity{Kind: KindClinician, Clinician: c}
}

// Valid reports whether the tag matches a populated variant.
func (i *Identity) Valid() bool {
	if i == nil {
		return false
	}
	switch i.Kind {
	case KindPatient:
		return i.Patient != nil && i.Clinician == nil
	case KindClinician:
		return i.Clinician != nil && i.Patient == nil
	default:
		return false
	}
}

// ID returns the account identifier.
func (i *Identity) ID() string {
	switch i.Kind {
	case KindPatient:
		return i.Patient.ID
	case KindClinician:
		return i.Clinician.ID
	}
	return ""
}

// Email returns the login email.
func (i *Identity) Email() string {
	switch i.Kind {
	case KindPatient:
		return i.Patient.Email
	case KindClinician:
		return i.Clinician.Email
	}
	return ""
}

// Role returns the effective role: doctor for clinicians, the stored role
// for patients with user as the fallback.
func (i *Identity) Role() string {
	switch i.Kind {
	case KindClinician:
		return RoleDoctor
	case KindPatient:
		if i.Patient.Role != "" {
			return i.Patient.Role
		}
		return RoleUser
	}
	return ""
}

// IsClinician reports whether the account came from the clinician store.
func (i *Identity) IsClinician() bool { return i.Kind == KindClinician }

// IsAdmin reports whether the effective role is admin.
func (i *Identity) IsAdmin() bool { return i.Role() == RoleAdmin }

// PasswordHash returns the stored bcrypt hash.
func (i *Identity) PasswordHash() string {
	switch i.Kind {
	case KindPatient:
		return i.Patient.PasswordHash
	case KindClinician:
		return i.Clinician.PasswordHash
	}
	return ""
}

// SetPasswordHash replaces the stored hash on the active variant.
func (i *Identity) SetPasswordHash(hash string) {
	switch i.Kind {
	case KindPatient:
		i.Patient.PasswordHash = hash
	case KindClinician:
		i.Clinician.PasswordHash = hash
	}
}

// Sanitized returns a copy with the password hash cleared.
func (i *Identity) Sanitized() *Identity {
	out := &Identity{Kind: i.Kind}
	switch i.Kind {
	case KindPatient:
		p := *i.Patient
		p.PasswordHash = ""
		out.Patient = &p
	case KindClinician:
		c := *i.Clinician
		c.PasswordHash = ""
		c.Qualifications = slices.Clone(c.Qualifications)
		out.Clinician = &c
	}
	return out
}

// NormalizeEmail trims surrounding space and lower-cases. Lowering keeps
// distinct addresses apart where full case folding would merge them
// ("straße" and "strasse"). A Caser is stateful, so one is built per call.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

type contextKey struct{}

// WithContext stores id in ctx.
func WithContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by the session middleware.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}
