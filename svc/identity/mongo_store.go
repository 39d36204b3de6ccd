package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	PatientCollection   = "users"
	ClinicianCollection = "doctors"
)

// emailCollation makes email lookups case-insensitive even for documents
// written before normalization existed.
var emailCollation = &options.Collation{Locale: "en", Strength: 2}

// MongoStore implements Store on top of two MongoDB collections.
type MongoStore struct {
	patients   *mongo.Collection
	clinicians *mongo.Collection
	now        func() time.Time
}

// NewMongoStore returns a store bound to db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		patients:   db.Collection(PatientCollection),
		clinicians: db.Collection(ClinicianCollection),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique email indexes. It is idempotent.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true).SetCollation(emailCollation)
	if _, err := s.patients.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique.SetName("email_unique"),
	}); err != nil {
		return fmt.Errorf("patients email index: %w", err)
	}
	if _, err := s.clinicians.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "contact.email", Value: 1}},
		Options: options.Index().SetUnique(true).SetCollation(emailCollation).SetName("contact_email_unique"),
	}); err != nil {
		return fmt.Errorf("clinicians email index: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, kind Kind, email string) (*Identity, error) {
	email = NormalizeEmail(email)
	opts := options.FindOne().SetCollation(emailCollation)

	switch kind {
	case KindPatient:
		var doc patientDoc
		if err := s.patients.FindOne(ctx, bson.D{{Key: "email", Value: email}}, opts).Decode(&doc); err != nil {
			return nil, notFound(err)
		}
		return NewPatient(doc.account()), nil
	case KindClinician:
		var doc clinicianDoc
		if err := s.clinicians.FindOne(ctx, bson.D{{Key: "contact.email", Value: email}}, opts).Decode(&doc); err != nil {
			return nil, notFound(err)
		}
		return NewClinician(doc.account()), nil
	default:
		return nil, ErrInvalidIdentity
	}
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*Identity, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	filter := bson.D{{Key: "_id", Value: oid}}

	var p patientDoc
	err = s.patients.FindOne(ctx, filter).Decode(&p)
	if err == nil {
		return NewPatient(p.account()), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find patient: %w", err)
	}

	var c clinicianDoc
	if err := s.clinicians.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return NewClinician(c.account()), nil
}

func (s *MongoStore) Save(ctx context.Context, id *Identity) error {
	if !id.Valid() {
		return ErrInvalidIdentity
	}
	now := s.now()
	switch id.Kind {
	case KindPatient:
		return s.savePatient(ctx, id.Patient, now)
	default:
		return s.saveClinician(ctx, id.Clinician, now)
	}
}

func (s *MongoStore) savePatient(ctx context.Context, p *PatientAccount, now time.Time) error {
	p.Email = NormalizeEmail(p.Email)
	if p.Role == "" {
		p.Role = RoleUser
	}
	if p.ID == "" {
		doc := newPatientDoc(p)
		doc.ID = bson.NewObjectID()
		doc.CreatedAt, doc.UpdatedAt = now, now
		if _, err := s.patients.InsertOne(ctx, doc); err != nil {
			return writeErr(err)
		}
		p.ID, p.CreatedAt, p.UpdatedAt = doc.ID.Hex(), now, now
		return nil
	}

	oid, err := bson.ObjectIDFromHex(p.ID)
	if err != nil {
		return ErrNotFound
	}
	set := bson.D{
		{Key: "firstName", Value: p.FirstName},
		{Key: "lastName", Value: p.LastName},
		{Key: "email", Value: p.Email},
		{Key: "password", Value: p.PasswordHash},
		{Key: "dob", Value: p.DOB},
		{Key: "relation", Value: p.Relation},
		{Key: "role", Value: p.Role},
		{Key: "avatar", Value: p.Avatar},
		{Key: "updatedAt", Value: now},
	}
	return s.update(ctx, s.patients, oid, set, func() { p.UpdatedAt = now })
}

func (s *MongoStore) saveClinician(ctx context.Context, c *ClinicianAccount, now time.Time) error {
	c.Email = NormalizeEmail(c.Email)
	if c.ID == "" {
		doc := newClinicianDoc(c)
		doc.ID = bson.NewObjectID()
		doc.CreatedAt, doc.UpdatedAt = now, now
		if _, err := s.clinicians.InsertOne(ctx, doc); err != nil {
			return writeErr(err)
		}
		c.ID, c.CreatedAt, c.UpdatedAt = doc.ID.Hex(), now, now
		return nil
	}

	oid, err := bson.ObjectIDFromHex(c.ID)
	if err != nil {
		return ErrNotFound
	}
	set := bson.D{
		{Key: "name.firstName", Value: c.FirstName},
		{Key: "name.lastName", Value: c.LastName},
		{Key: "contact.email", Value: c.Email},
		{Key: "contact.phone", Value: c.Phone},
		{Key: "login.password", Value: c.PasswordHash},
		{Key: "isActive", Value: c.IsActive},
		{Key: "updatedAt", Value: now},
	}
	return s.update(ctx, s.clinicians, oid, set, func() { c.UpdatedAt = now })
}

func (s *MongoStore) update(ctx context.Context, coll *mongo.Collection, id bson.ObjectID, set bson.D, onOK func()) error {
	res, err := coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return writeErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	onOK()
	return nil
}

// SetPassword sets the hash alone so concurrent edits to other fields of the
// account survive a password change.
func (s *MongoStore) SetPassword(ctx context.Context, kind Kind, id, hash string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	now := s.now()
	switch kind {
	case KindPatient:
		return s.update(ctx, s.patients, oid, bson.D{
			{Key: "password", Value: hash},
			{Key: "updatedAt", Value: now},
		}, func() {})
	case KindClinician:
		return s.update(ctx, s.clinicians, oid, bson.D{
			{Key: "login.password", Value: hash},
			{Key: "updatedAt", Value: now},
		}, func() {})
	default:
		return ErrInvalidIdentity
	}
}

func (s *MongoStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.clinicians.UpdateByID(ctx, oid, bson.D{{Key: "$set", Value: bson.D{
		{Key: "login.lastLogin", Value: at},
	}}})
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func writeErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(ErrEmailTaken, err)
	}
	return err
}

var _ Store = (*MongoStore)(nil)
