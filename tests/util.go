package testutil

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/lowkey/studybuddy/core"
	"github.com/lowkey/studybuddy/core/account"
	"github.com/lowkey/studybuddy/core/organization"
	inmemdb "github.com/lowkey/studybuddy/storage/database/inmem"
)

// NewBackend returns an empty in-memory backend.
func NewBackend(t *testing.T) core.Backend {
	t.Helper()
	db := inmemdb.Open()
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func NewAccounts(backend core.Backend) *account.Service {
	return account.NewService(backend, account.SHA256Hasher{}, account.DuplicateReject, account.PasswordBasic, zerolog.Nop())
}

func NewRegistry(backend core.Backend) *organization.Registry {
	return organization.NewRegistry(backend, account.SHA256Hasher{}, account.PasswordBasic, zerolog.Nop())
}

func CreateStudent(t *testing.T, svc *account.Service, uname, pwd string) {
	t.Helper()
	if err := svc.AddStudent(account.NewStudent{Username: uname, Password: pwd}); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
}

func CreateEducator(t *testing.T, svc *account.Service, uname, pwd, subject string) {
	t.Helper()
	if err := svc.AddEducator(account.NewEducator{Username: uname, Password: pwd, Subject: subject}); err != nil {
		t.Fatalf("CreateEducator() failed: %v", err)
	}
}

func CreateOrg(t *testing.T, reg *organization.Registry, uname, pwd string) organization.Organization {
	t.Helper()
	org, err := reg.CreateOrganization(uname, pwd)
	if err != nil {
		t.Fatalf("CreateOrg() failed: %v", err)
	}
	return org
}
