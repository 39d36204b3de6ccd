package identity

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore keeps accounts in process memory. It enforces the same
// per-collection email uniqueness as MongoStore and hands out ObjectID-style
// identifiers, which makes it a drop-in for tests and local runs.
type MemoryStore struct {
	mu         sync.RWMutex
	patients   map[string]PatientAccount
	clinicians map[string]ClinicianAccount
	now        func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		patients:   map[string]PatientAccount{},
		clinicians: map[string]ClinicianAccount{},
		now:        time.Now,
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, kind Kind, email string) (*Identity, error) {
	email = NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case KindPatient:
		for _, p := range s.patients {
			if NormalizeEmail(p.Email) == email {
				return NewPatient(&p), nil
			}
		}
	case KindClinician:
		for _, c := range s.clinicians {
			if NormalizeEmail(c.Email) == email {
				return NewClinician(cloneClinician(c)), nil
			}
		}
	default:
		return nil, ErrInvalidIdentity
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.patients[id]; ok {
		return NewPatient(&p), nil
	}
	if c, ok := s.clinicians[id]; ok {
		return NewClinician(cloneClinician(c)), nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Save(_ context.Context, id *Identity) error {
	if !id.Valid() {
		return ErrInvalidIdentity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	switch id.Kind {
	case KindPatient:
		p := id.Patient
		p.Email = NormalizeEmail(p.Email)
		for key, other := range s.patients {
			if key != p.ID && other.Email == p.Email {
				return ErrEmailTaken
			}
		}
		if p.ID == "" {
			p.ID = bson.NewObjectID().Hex()
			p.CreatedAt = now
		} else if _, ok := s.patients[p.ID]; !ok {
			return ErrNotFound
		}
		p.UpdatedAt = now
		s.patients[p.ID] = *p
	case KindClinician:
		c := id.Clinician
		c.Email = NormalizeEmail(c.Email)
		for key, other := range s.clinicians {
			if key != c.ID && other.Email == c.Email {
				return ErrEmailTaken
			}
		}
		if c.ID == "" {
			c.ID = bson.NewObjectID().Hex()
			c.CreatedAt = now
		} else if _, ok := s.clinicians[c.ID]; !ok {
			return ErrNotFound
		}
		c.UpdatedAt = now
		s.clinicians[c.ID] = *cloneClinician(*c)
	}
	return nil
}

func (s *MemoryStore) SetPassword(_ context.Context, kind Kind, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindPatient:
		p, ok := s.patients[id]
		if !ok {
			return ErrNotFound
		}
		p.PasswordHash, p.UpdatedAt = hash, s.now()
		s.patients[id] = p
	case KindClinician:
		c, ok := s.clinicians[id]
		if !ok {
			return ErrNotFound
		}
		c.PasswordHash, c.UpdatedAt = hash, s.now()
		s.clinicians[id] = c
	default:
		return ErrInvalidIdentity
	}
	return nil
}

func (s *MemoryStore) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clinicians[id]
	if !ok {
		return ErrNotFound
	}
	c.LastLogin = at
	s.clinicians[id] = c
	return nil
}

// Delete removes an account from whichever store holds it.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patients[id]; ok {
		delete(s.patients, id)
		return nil
	}
	if _, ok := s.clinicians[id]; ok {
		delete(s.clinicians, id)
		return nil
	}
	return ErrNotFound
}

func cloneClinician(c ClinicianAccount) *ClinicianAccount {
	out := c
	if c.Qualifications != nil {
		out.Qualifications = append([]string(nil), c.Qualifications...)
	}
	return &out
}

var _ Store = (*MemoryStore)(nil)
