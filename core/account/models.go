package account

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/lowkey/studybuddy/core"
)

// Role determines which store and workflow apply to an account.
type Role int

// Roles
const (
	RoleStudent Role = iota + 1
	RoleEducator
	RoleOwner
)

var AllRoles = []Role{RoleStudent, RoleEducator, RoleOwner}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleEducator:
		return "educator"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Store returns the persisted collection holding the role's credentials.
func (r Role) Store() core.StoreID {
	switch r {
	case RoleStudent:
		return core.StoreStudents
	case RoleEducator:
		return core.StoreEducators
	default:
		return core.StoreOrganization
	}
}

func ParseRole(s string) (Role, error) {
	s = core.CleanString(s, true /* lower */)
	for _, r := range AllRoles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, errors.Errorf("unknown role %q", s)
}

// Credential is a username and its one-way password hash.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// Student is a student account as stored in the students collection (keyed by username).
type Student struct {
	PasswordHash string         `json:"password_hash"`
	Marks        map[string]int `json:"marks"`
}

// Educator is an educator account as stored in the educators collection (keyed by username).
// Subject is the only subject the educator may grade.
type Educator struct {
	PasswordHash string `json:"password_hash"`
	Subject      string `json:"subject"`
}

// NewStudent contains information needed to enroll a Student.
type NewStudent struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required"`
}

// NewEducator contains information needed to enroll an Educator.
type NewEducator struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required"`
	Subject  string `json:"subject" validate:"required,notblank,max=64"`
}

// NewOwner contains the organization owner's credentials.
type NewOwner struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required"`
}

// Validate cleans the owner's input and checks it against policy.
func (no *NewOwner) Validate(policy PasswordPolicy) error {
	no.Username = core.CleanString(no.Username)
	if err := core.ValidateStruct(no); err != nil {
		return err
	}
	return policy.Check(no.Username, no.Password)
}

// PasswordReset is used to replace an existing account's password.
type PasswordReset struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
