package users

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tunescout/internal/store"
)

// memStore is an in-memory Store with the same sentinel behavior as the
// Postgres implementation.
type memStore struct {
	users  map[string]*store.User // keyed by id
	nextID int
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*store.User{}}
}

func (m *memStore) CreateUser(_ context.Context, name, surname, email, passwordHash string) (string, error) {
	for _, u := range m.users {
		if u.Email == email {
			return "", store.ErrEmailTaken
		}
	}
	m.nextID++
	id := fmt.Sprintf("u-%d", m.nextID)
	m.users[id] = &store.User{ID: id, Name: name, Surname: surname, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (m *memStore) UserByID(_ context.Context, id string) (*store.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*store.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memStore) UpdateUser(_ context.Context, id string, patch store.UserPatch) error {
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Surname != nil {
		u.Surname = *patch.Surname
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type staticIssuer struct{ token string }

func (s staticIssuer) Issue(string) (string, error) { return s.token, nil }

func newTestService() (*Service, *memStore) {
	mem := newMemStore()
	return New(mem, staticIssuer{token: "session-token"}), mem
}

func TestRegisterValidation(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	tests := []struct {
		name                        string
		userName, surname, email    string
		password, confirmation      string
	}{
		{"empty name", "", "Doe", "a@x.com", "123", "123"},
		{"blank surname", "Jane", "   ", "a@x.com", "123", "123"},
		{"empty email", "Jane", "Doe", "", "123", "123"},
		{"empty password", "Jane", "Doe", "a@x.com", "", ""},
		{"blank confirmation", "Jane", "Doe", "a@x.com", "123", "  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.userName, tc.surname, tc.email, tc.password, tc.confirmation)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	if len(mem.users) != 0 {
		t.Fatalf("expected no persisted users, got %d", len(mem.users))
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, mem := newTestService()

	_, err := svc.Register(context.Background(), "Jane", "Doe", "a@x.com", "123", "456")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if len(mem.users) != 0 {
		t.Fatal("mismatched registration must not persist a record")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Jane", "Doe", "a@x.com", "123", "123"); err != nil {
		t.Fatalf("first Register error: %v", err)
	}

	if _, err := svc.Register(ctx, "John", "Doe", "a@x.com", "456", "456"); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	count := 0
	for _, u := range mem.users {
		if u.Email == "a@x.com" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one user with the email, got %d", count)
	}
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	svc, mem := newTestService()

	id, err := svc.Register(context.Background(), "Jane", "Doe", "a@x.com", "123", "123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	u := mem.users[id]
	if u.PasswordHash == "123" || u.PasswordHash == "" {
		t.Fatalf("expected bcrypt hash, got %q", u.PasswordHash)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Register(ctx, "Jane", "Doe", "a@x.com", "123", "123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got, err := svc.Authenticate(ctx, "a@x.com", "123")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if got != id {
		t.Fatalf("expected user id %q, got %q", id, got)
	}

	if _, err := svc.Authenticate(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Authenticate(ctx, "nobody@x.com", "123"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Jane", "Doe", "a@x.com", "123", "123"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	token, err := svc.Login(ctx, "a@x.com", "123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token != "session-token" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestRetrieveStripsSensitiveFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Register(ctx, "Jane", "Doe", "a@x.com", "123", "123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	profile, err := svc.Retrieve(ctx, id)
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if profile.ID != id || profile.Name != "Jane" || profile.Email != "a@x.com" {
		t.Fatalf("unexpected profile: %#v", profile)
	}

	if _, err := svc.Retrieve(ctx, "missing"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	id, err := svc.Register(ctx, "Jane", "Doe", "a@x.com", "123", "123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	name := "  Janet "
	if err := svc.Update(ctx, id, Patch{Name: &name}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if mem.users[id].Name != "Janet" {
		t.Fatalf("expected trimmed name update, got %q", mem.users[id].Name)
	}
	if mem.users[id].Surname != "Doe" {
		t.Fatal("unpatched fields must be preserved")
	}

	blank := "   "
	if err := svc.Update(ctx, id, Patch{Email: &blank}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank email, got %v", err)
	}
}

func TestDeleteRequiresCredentials(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	id, err := svc.Register(ctx, "Jane", "Doe", "a@x.com", "123", "123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.Delete(ctx, id, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, ok := mem.users[id]; !ok {
		t.Fatal("failed deletion must leave the record intact")
	}

	if err := svc.Delete(ctx, id, "a@x.com", "123"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok := mem.users[id]; ok {
		t.Fatal("expected record removed after successful deletion")
	}
}

func TestDeleteRejectsForeignCredentials(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	victim, err := svc.Register(ctx, "Jane", "Doe", "a@x.com", "123", "123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := svc.Register(ctx, "John", "Doe", "b@x.com", "456", "456"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// Valid credentials for another account must not delete the victim.
	if err := svc.Delete(ctx, victim, "b@x.com", "456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, ok := mem.users[victim]; !ok {
		t.Fatal("victim record must survive")
	}
}
