package organization

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lowkey/studybuddy/core"
	"github.com/lowkey/studybuddy/core/account"
)

var ErrNotFound = errors.New("organization not found")

// Organization is the single tenant record of a data store.
type Organization struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"` // UTC
	Owner     account.Credential `json:"owner"`
}

// Registry persists the organization record and authenticates its owner.
type Registry struct {
	backend   core.Backend
	hasher    account.Hasher
	decoy     *account.Decoy
	pwdPolicy account.PasswordPolicy
	log       zerolog.Logger
	nowFunc   func() time.Time // mockable
}

func NewRegistry(backend core.Backend, hasher account.Hasher, pwdPolicy account.PasswordPolicy, logger zerolog.Logger) *Registry {
	if pwdPolicy == "" {
		pwdPolicy = account.PasswordBasic
	}
	return &Registry{
		backend:   backend,
		hasher:    hasher,
		decoy:     account.NewDecoy(hasher),
		pwdPolicy: pwdPolicy,
		log:       logger.With().Str("component", "organization").Logger(),
		nowFunc:   time.Now,
	}
}

// Get returns the persisted organization.
func (r *Registry) Get() (Organization, error) {
	var org Organization
	found, err := core.LoadRecord(r.backend, core.StoreOrganization, &org)
	if err != nil {
		return Organization{}, err
	}
	if !found || org.Owner.Username == "" {
		return Organization{}, ErrNotFound
	}
	return org, nil
}

// CreateOrganization creates the organization, replacing any previous one in the store.
func (r *Registry) CreateOrganization(ownerUsername, ownerPassword string) (Organization, error) {
	no := account.NewOwner{Username: ownerUsername, Password: ownerPassword}
	if err := no.Validate(r.pwdPolicy); err != nil {
		return Organization{}, err
	}

	hash, err := r.hasher.Hash(no.Password)
	if err != nil {
		return Organization{}, errors.Wrap(err, "hashing password")
	}
	org := Organization{
		ID:        uuid.New().String(),
		CreatedAt: r.nowFunc().UTC(),
		Owner:     account.Credential{Username: no.Username, PasswordHash: hash},
	}

	prev, err := r.Get()
	switch {
	case err == nil:
		r.log.Warn().Str("previous_id", prev.ID).Str("previous_owner", prev.Owner.Username).Msg("replacing existing organization")
	case err != ErrNotFound:
		return Organization{}, err
	}

	if err := core.SaveRecord(r.backend, core.StoreOrganization, org); err != nil {
		r.log.Error().Err(err).Msg("saving organization")
		return Organization{}, err
	}
	r.log.Info().Str("id", org.ID).Str("owner", org.Owner.Username).Msg("organization created")
	return org, nil
}

// AuthenticateOwner checks the owner's credentials. Without an organization every attempt fails.
func (r *Registry) AuthenticateOwner(username, pwd string) (string, error) {
	org, err := r.Get()
	if err != nil && err != ErrNotFound {
		return "", err
	}
	ok := false
	if err == nil && org.Owner.Username == username {
		ok = r.hasher.Verify(pwd, org.Owner.PasswordHash)
	} else {
		r.decoy.Verify(pwd)
	}
	if !ok {
		r.log.Info().Str("role", account.RoleOwner.String()).Str("username", username).Msg("login failed")
		return "", account.ErrInvalidCredentials
	}
	r.log.Info().Str("role", account.RoleOwner.String()).Str("username", username).Msg("login succeeded")
	return username, nil
}

// ResetOwnerPassword replaces the owner's password.
func (r *Registry) ResetOwnerPassword(pr account.PasswordReset) error {
	if err := core.ValidateStruct(pr); err != nil {
		return err
	}
	if err := r.pwdPolicy.Check(pr.Username, pr.Password); err != nil {
		return err
	}
	org, err := r.Get()
	if err != nil {
		return err
	}
	if org.Owner.Username != pr.Username {
		return account.ErrNotFound
	}
	hash, err := r.hasher.Hash(pr.Password)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	org.Owner.PasswordHash = hash
	if err := core.SaveRecord(r.backend, core.StoreOrganization, org); err != nil {
		return err
	}
	r.log.Info().Str("role", account.RoleOwner.String()).Str("username", pr.Username).Msg("password reset")
	return nil
}
