package storage

import (
	"context"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func TestCreateProfile(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	p, err := s.CreateProfile(ctx, "ana@example.com", hash, RoleUser)
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if p.ID == "" {
		t.Errorf("expected store-assigned ID, got empty string")
	}
	if p.Role != RoleUser {
		t.Errorf("Role = %q, want %q", p.Role, RoleUser)
	}
}

func TestCreateProfile_DuplicateEmail(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.CreateProfile(ctx, "ana@example.com", "hash-1", RoleUser); err != nil {
		t.Fatalf("first CreateProfile failed: %v", err)
	}

	_, err := s.CreateProfile(ctx, "ana@example.com", "hash-2", RoleUser)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("error = %v, want ErrDuplicate", err)
	}
}

func TestGetCredentialByEmail(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	created, err := s.CreateProfile(ctx, "ana@example.com", hash, RoleAdmin)
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	p, gotHash, err := s.GetCredentialByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetCredentialByEmail failed: %v", err)
	}
	if p.ID != created.ID {
		t.Errorf("ID = %s, want %s", p.ID, created.ID)
	}
	if err := VerifyPassword("correct horse battery", gotHash); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if err := VerifyPassword("wrong password", gotHash); err == nil {
		t.Errorf("wrong password unexpectedly verified")
	}

	_, _, err = s.GetCredentialByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSetProfileRole(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, "ana@example.com", "hash", RoleUser)
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	if err := s.SetProfileRole(ctx, p.ID, RoleAdmin); err != nil {
		t.Fatalf("SetProfileRole failed: %v", err)
	}

	got, err := s.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", got.Role, RoleAdmin)
	}
}

func TestSetProfileRole_InvalidRole(t *testing.T) {
	s, _ := newTestStorage(t)

	err := s.SetProfileRole(context.Background(), "any-id", Role("owner"))
	if err == nil {
		t.Errorf("expected error for invalid role, got nil")
	}
}

func TestSetProfileRole_ZeroRows(t *testing.T) {
	s, _ := newTestStorage(t)

	err := s.SetProfileRole(context.Background(), "no-such-id", RoleAdmin)
	if !errors.Is(err, ErrNoPermission) {
		t.Errorf("error = %v, want ErrNoPermission", err)
	}
}

func TestListProfiles(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.CreateProfile(ctx, "a@example.com", "h", RoleUser); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if _, err := s.CreateProfile(ctx, "b@example.com", "h", RoleAdmin); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Errorf("expected 2 profiles, got %d", len(profiles))
	}
}

func TestPing(t *testing.T) {
	s, _ := newTestStorage(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
