package identity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// patientDoc is the stored shape of a "users" document. Fields the service
// does not model (bmiData, age, ...) are left untouched by updates.
type patientDoc struct {
	ID                       bson.ObjectID `bson:"_id,omitempty"`
	FirstName                string        `bson:"firstName"`
	LastName                 string        `bson:"lastName,omitempty"`
	Email                    string        `bson:"email"`
	Password                 string        `bson:"password"`
	DOB                      time.Time     `bson:"dob,omitempty"`
	Relation                 string        `bson:"relation,omitempty"`
	Role                     string        `bson:"role,omitempty"`
	Avatar                   string        `bson:"avatar,omitempty"`
	HasCompletedBMI          bool          `bson:"hasCompletedBmiCalculator"`
	CompletedAssessments     int           `bson:"completedAssessments,omitempty"`
	HasCompletedRegistration bool          `bson:"hasCompletedRegistration,omitempty"`
	CreatedAt                time.Time     `bson:"createdAt"`
	UpdatedAt                time.Time     `bson:"updatedAt"`
}

func newPatientDoc(p *PatientAccount) patientDoc {
	return patientDoc{
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Email:           p.Email,
		Password:        p.PasswordHash,
		DOB:             p.DOB,
		Relation:        p.Relation,
		Role:            p.Role,
		Avatar:          p.Avatar,
		HasCompletedBMI: p.HasCompletedBMI,
	}
}

func (d patientDoc) account() *PatientAccount {
	return &PatientAccount{
		ID:                       d.ID.Hex(),
		FirstName:                d.FirstName,
		LastName:                 d.LastName,
		Email:                    d.Email,
		PasswordHash:             d.Password,
		DOB:                      d.DOB,
		Relation:                 d.Relation,
		Role:                     d.Role,
		Avatar:                   d.Avatar,
		HasCompletedBMI:          d.HasCompletedBMI,
		CompletedAssessments:     d.CompletedAssessments,
		HasCompletedRegistration: d.HasCompletedRegistration,
		CreatedAt:                d.CreatedAt,
		UpdatedAt:                d.UpdatedAt,
	}
}

type clinicianName struct {
	First string `bson:"firstName"`
	Last  string `bson:"lastName"`
}

type clinicianContact struct {
	Email string `bson:"email"`
	Phone string `bson:"phone,omitempty"`
}

type clinicianLogin struct {
	Password  string    `bson:"password"`
	LastLogin time.Time `bson:"lastLogin,omitempty"`
}

// clinicianDoc is the stored shape of a "doctors" document.
type clinicianDoc struct {
	ID             bson.ObjectID    `bson:"_id,omitempty"`
	Name           clinicianName    `bson:"name"`
	Contact        clinicianContact `bson:"contact"`
	Login          clinicianLogin   `bson:"login"`
	Specialization string           `bson:"specialization,omitempty"`
	Experience     int              `bson:"experience,omitempty"`
	Qualifications []string         `bson:"qualifications,omitempty"`
	LicenseNumber  string           `bson:"licenseNumber,omitempty"`
	Address        bson.M           `bson:"address,omitempty"`
	Availability   bson.M           `bson:"availability,omitempty"`
	IsActive       bool             `bson:"isActive"`
	CreatedAt      time.Time        `bson:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt"`
}

func newClinicianDoc(c *ClinicianAccount) clinicianDoc {
	return clinicianDoc{
		Name:           clinicianName{First: c.FirstName, Last: c.LastName},
		Contact:        clinicianContact{Email: c.Email, Phone: c.Phone},
		Login:          clinicianLogin{Password: c.PasswordHash, LastLogin: c.LastLogin},
		Specialization: c.Specialization,
		Experience:     c.Experience,
		Qualifications: c.Qualifications,
		LicenseNumber:  c.LicenseNumber,
		Address:        c.Address,
		Availability:   c.Availability,
		IsActive:       c.IsActive,
	}
}

func (d clinicianDoc) account() *ClinicianAccount {
	return &ClinicianAccount{
		ID:             d.ID.Hex(),
		FirstName:      d.Name.First,
		LastName:       d.Name.Last,
		Email:          d.Contact.Email,
		Phone:          d.Contact.Phone,
		PasswordHash:   d.Login.Password,
		LastLogin:      d.Login.LastLogin,
		Specialization: d.Specialization,
		Experience:     d.Experience,
		Qualifications: d.Qualifications,
		LicenseNumber:  d.LicenseNumber,
		Address:        d.Address,
		Availability:   d.Availability,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
