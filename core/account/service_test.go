package account_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowkey/studybuddy/core"
	"github.com/lowkey/studybuddy/core/account"
	"github.com/lowkey/studybuddy/tests"
)

func TestService_Authenticate(t *testing.T) {
	svc := testutil.NewAccounts(testutil.NewBackend(t))
	testutil.CreateStudent(t, svc, "Krish", "s3cret!")
	testutil.CreateEducator(t, svc, "mira", "phys!cs", "Physics")

	tests := []struct {
		name    string
		role    account.Role
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "student ok", role: account.RoleStudent, uname: "Krish", pwd: "s3cret!"},
		{name: "student wrong password", role: account.RoleStudent, uname: "Krish", pwd: "nope", wantErr: account.ErrInvalidCredentials},
		{name: "student unknown", role: account.RoleStudent, uname: "ghost", pwd: "s3cret!", wantErr: account.ErrInvalidCredentials},
		{name: "educator ok", role: account.RoleEducator, uname: "mira", pwd: "phys!cs"},
		{name: "educator in student store", role: account.RoleStudent, uname: "mira", pwd: "phys!cs", wantErr: account.ErrInvalidCredentials},
		{name: "owner not handled", role: account.RoleOwner, uname: "Krish", pwd: "s3cret!", wantErr: account.ErrUnsupportedRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(tt.role, tt.uname, tt.pwd)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.uname, got)
		})
	}
}

func TestService_AddStudent(t *testing.T) {
	backend := testutil.NewBackend(t)
	svc := testutil.NewAccounts(backend)

	require.NoError(t, svc.AddStudent(account.NewStudent{Username: "  Krish ", Password: "s3cret!"}))

	students, err := svc.LoadStudents()
	require.NoError(t, err)
	require.Contains(t, students, "Krish")
	assert.Len(t, students["Krish"].PasswordHash, 64)
	assert.Equal(t, map[string]int{}, students["Krish"].Marks)

	// persisted layout
	data, err := backend.Load(core.StoreStudents)
	require.NoError(t, err)
	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw["Krish"], "password_hash")
	assert.JSONEq(t, "{}", string(raw["Krish"]["marks"]))

	t.Run("duplicate rejected", func(t *testing.T) {
		err := svc.AddStudent(account.NewStudent{Username: "Krish", Password: "other!"})
		require.True(t, core.IsValidationError(err))
		assert.True(t, errors.Is(err, account.ErrDuplicateUsername))

		_, err = svc.Authenticate(account.RoleStudent, "Krish", "s3cret!")
		assert.NoError(t, err, "original password must survive")
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, ns := range []account.NewStudent{
			{Username: "", Password: "s3cret!"},
			{Username: "   ", Password: "s3cret!"},
			{Username: "bob", Password: ""},
		} {
			assert.True(t, core.IsValidationError(svc.AddStudent(ns)), "%+v", ns)
		}
		names, err := svc.StudentUsernames()
		require.NoError(t, err)
		assert.Equal(t, []string{"Krish"}, names)
	})
}

func TestService_passwordPolicy(t *testing.T) {
	basic := testutil.NewAccounts(testutil.NewBackend(t))
	for _, ns := range []account.NewStudent{
		{Username: "Laxmi Devi", Password: "s3cret!"},
		{Username: "Kríš", Password: "has space"},
		{Username: "u1", Password: "1u"},
	} {
		require.NoError(t, basic.AddStudent(ns), "%+v", ns)
		_, err := basic.Authenticate(account.RoleStudent, ns.Username, ns.Password)
		assert.NoError(t, err)
	}

	strict := account.NewService(testutil.NewBackend(t), account.SHA256Hasher{}, account.DuplicateReject, account.PasswordStrict, zerolog.Nop())
	assert.Equal(t, account.PasswordStrict, strict.PasswordPolicy())
	for _, ns := range []account.NewStudent{
		{Username: "Laxmi Devi", Password: "s3cret!"},
		{Username: "krish", Password: "has space"},
		{Username: "u1", Password: "1u"},
	} {
		assert.True(t, core.IsValidationError(strict.AddStudent(ns)), "%+v", ns)
	}
	err := strict.AddEducator(account.NewEducator{Username: "mira", Password: "amir", Subject: "Physics"})
	assert.True(t, core.IsValidationError(err))
	names, err := strict.StudentUsernames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

// countingHasher counts Verify calls.
type countingHasher struct {
	account.SHA256Hasher
	verifies int
}

func (h *countingHasher) Verify(pwd, hash string) bool {
	h.verifies++
	return h.SHA256Hasher.Verify(pwd, hash)
}

func TestService_Authenticate_unknownUserVerifies(t *testing.T) {
	hasher := &countingHasher{}
	svc := account.NewService(testutil.NewBackend(t), hasher, account.DuplicateReject, account.PasswordBasic, zerolog.Nop())
	testutil.CreateStudent(t, svc, "Krish", "s3cret!")

	_, err := svc.Authenticate(account.RoleStudent, "ghost", "s3cret!")
	assert.True(t, errors.Is(err, account.ErrInvalidCredentials))
	assert.Equal(t, 1, hasher.verifies)

	_, err = svc.Authenticate(account.RoleStudent, "Krish", "nope")
	assert.True(t, errors.Is(err, account.ErrInvalidCredentials))
	assert.Equal(t, 2, hasher.verifies)
}

func TestService_duplicateOverwrite(t *testing.T) {
	backend := testutil.NewBackend(t)
	svc := account.NewService(backend, account.SHA256Hasher{}, account.DuplicateOverwrite, account.PasswordBasic, zerolog.Nop())

	testutil.CreateEducator(t, svc, "mira", "phys!cs", "Physics")
	require.NoError(t, svc.AddEducator(account.NewEducator{Username: "mira", Password: "chem!stry", Subject: "Chemistry"}))

	edu, err := svc.Educator("mira")
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", edu.Subject)

	_, err = svc.Authenticate(account.RoleEducator, "mira", "phys!cs")
	assert.True(t, errors.Is(err, account.ErrInvalidCredentials))
	_, err = svc.Authenticate(account.RoleEducator, "mira", "chem!stry")
	assert.NoError(t, err)
}

func TestService_AddEducator_invalid(t *testing.T) {
	svc := testutil.NewAccounts(testutil.NewBackend(t))

	err := svc.AddEducator(account.NewEducator{Username: "mira", Password: "phys!cs", Subject: "  "})
	assert.True(t, core.IsValidationError(err))

	_, err = svc.Educator("mira")
	assert.Equal(t, account.ErrNotFound, err)
}

func TestService_ResetPassword(t *testing.T) {
	svc := testutil.NewAccounts(testutil.NewBackend(t))
	testutil.CreateStudent(t, svc, "Krish", "s3cret!")
	testutil.CreateEducator(t, svc, "mira", "phys!cs", "Physics")

	tests := []struct {
		name    string
		role    account.Role
		pr      account.PasswordReset
		wantErr error
	}{
		{name: "student", role: account.RoleStudent, pr: account.PasswordReset{Username: "Krish", Password: "n3w!"}},
		{name: "educator", role: account.RoleEducator, pr: account.PasswordReset{Username: "mira", Password: "n3w!"}},
		{name: "unknown", role: account.RoleStudent, pr: account.PasswordReset{Username: "ghost", Password: "n3w!"}, wantErr: account.ErrNotFound},
		{name: "owner", role: account.RoleOwner, pr: account.PasswordReset{Username: "u1", Password: "n3w!"}, wantErr: account.ErrUnsupportedRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ResetPassword(tt.role, tt.pr)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			_, err = svc.Authenticate(tt.role, tt.pr.Username, tt.pr.Password)
			assert.NoError(t, err)
		})
	}

	assert.True(t, core.IsValidationError(svc.ResetPassword(account.RoleStudent, account.PasswordReset{Username: "Krish"})))
}

func TestService_listing(t *testing.T) {
	svc := testutil.NewAccounts(testutil.NewBackend(t))
	testutil.CreateStudent(t, svc, "zoe", "s3cret!")
	testutil.CreateStudent(t, svc, "Krish", "s3cret!")
	testutil.CreateStudent(t, svc, "amy", "s3cret!")
	testutil.CreateEducator(t, svc, "mira", "phys!cs", "Physics")

	names, err := svc.StudentUsernames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Krish", "amy", "zoe"}, names)

	subjects, err := svc.EducatorSubjects()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mira": "Physics"}, subjects)
}
