package account

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lowkey/studybuddy/core"
)

var (
	// errors
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("an account with this username already exists")
	ErrUnsupportedRole    = errors.New("role is not managed by the credential store")
)

// DuplicatePolicy decides what adding an already existing username does.
type DuplicatePolicy string

const (
	DuplicateReject    DuplicatePolicy = "reject"
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

// Service is the credential store of the student and educator role stores.
type Service struct {
	backend   core.Backend
	hasher    Hasher
	decoy     *Decoy
	policy    DuplicatePolicy
	pwdPolicy PasswordPolicy
	log       zerolog.Logger
}

func NewService(backend core.Backend, hasher Hasher, policy DuplicatePolicy, pwdPolicy PasswordPolicy, logger zerolog.Logger) *Service {
	if policy == "" {
		policy = DuplicateReject
	}
	if pwdPolicy == "" {
		pwdPolicy = PasswordBasic
	}
	return &Service{
		backend:   backend,
		hasher:    hasher,
		decoy:     NewDecoy(hasher),
		policy:    policy,
		pwdPolicy: pwdPolicy,
		log:       logger.With().Str("component", "account").Logger(),
	}
}

func (svc *Service) Hasher() Hasher { return svc.hasher }

func (svc *Service) PasswordPolicy() PasswordPolicy { return svc.pwdPolicy }

func (svc *Service) LoadStudents() (map[string]Student, error) {
	return core.LoadStore[Student](svc.backend, core.StoreStudents)
}

func (svc *Service) SaveStudents(students map[string]Student) error {
	return core.SaveStore(svc.backend, core.StoreStudents, students)
}

func (svc *Service) LoadEducators() (map[string]Educator, error) {
	return core.LoadStore[Educator](svc.backend, core.StoreEducators)
}

func (svc *Service) SaveEducators(educators map[string]Educator) error {
	return core.SaveStore(svc.backend, core.StoreEducators, educators)
}

// passwordHash returns the stored hash of `username` in the role's store.
func (svc *Service) passwordHash(role Role, username string) (string, error) {
	switch role {
	case RoleStudent:
		students, err := svc.LoadStudents()
		if err != nil {
			return "", err
		}
		if s, ok := students[username]; ok {
			return s.PasswordHash, nil
		}
	case RoleEducator:
		educators, err := svc.LoadEducators()
		if err != nil {
			return "", err
		}
		if e, ok := educators[username]; ok {
			return e.PasswordHash, nil
		}
	default:
		return "", ErrUnsupportedRole
	}
	return "", ErrNotFound
}

// Authenticate checks `pwd` against the stored hash of `username` in the role's store.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (svc *Service) Authenticate(role Role, username, pwd string) (string, error) {
	hash, err := svc.passwordHash(role, username)
	if err != nil {
		if err == ErrNotFound {
			svc.decoy.Verify(pwd)
			svc.log.Info().Str("role", role.String()).Str("username", username).Msg("login failed")
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !svc.hasher.Verify(pwd, hash) {
		svc.log.Info().Str("role", role.String()).Str("username", username).Msg("login failed")
		return "", ErrInvalidCredentials
	}
	svc.log.Info().Str("role", role.String()).Str("store", string(role.Store())).Str("username", username).Msg("login succeeded")
	return username, nil
}

// AddStudent enrolls a student with empty marks.
func (svc *Service) AddStudent(ns NewStudent) error {
	ns.Username = core.CleanString(ns.Username)
	if err := svc.validate(ns, ns.Username, ns.Password); err != nil {
		return err
	}

	students, err := svc.LoadStudents()
	if err != nil {
		return err
	}
	if err := svc.checkDuplicate(RoleStudent, ns.Username, exists(students, ns.Username)); err != nil {
		return err
	}

	hash, err := svc.hasher.Hash(ns.Password)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	students[ns.Username] = Student{PasswordHash: hash, Marks: map[string]int{}}
	if err := svc.SaveStudents(students); err != nil {
		svc.log.Error().Err(err).Str("username", ns.Username).Msg("saving student")
		return err
	}
	svc.log.Info().Str("username", ns.Username).Msg("student added")
	return nil
}

// AddEducator enrolls an educator for a single subject.
func (svc *Service) AddEducator(ne NewEducator) error {
	ne.Username = core.CleanString(ne.Username)
	ne.Subject = core.CleanString(ne.Subject)
	if err := svc.validate(ne, ne.Username, ne.Password); err != nil {
		return err
	}

	educators, err := svc.LoadEducators()
	if err != nil {
		return err
	}
	if err := svc.checkDuplicate(RoleEducator, ne.Username, exists(educators, ne.Username)); err != nil {
		return err
	}

	hash, err := svc.hasher.Hash(ne.Password)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	educators[ne.Username] = Educator{PasswordHash: hash, Subject: ne.Subject}
	if err := svc.SaveEducators(educators); err != nil {
		svc.log.Error().Err(err).Str("username", ne.Username).Msg("saving educator")
		return err
	}
	svc.log.Info().Str("username", ne.Username).Str("subject", ne.Subject).Msg("educator added")
	return nil
}

// validate runs the struct's own rules, then the password policy.
func (svc *Service) validate(in interface{}, username, pwd string) error {
	if err := core.ValidateStruct(in); err != nil {
		return err
	}
	return svc.pwdPolicy.Check(username, pwd)
}

func (svc *Service) checkDuplicate(role Role, username string, found bool) error {
	if !found {
		return nil
	}
	if svc.policy == DuplicateOverwrite {
		svc.log.Warn().Str("role", role.String()).Str("username", username).Msg("overwriting existing account")
		return nil
	}
	svc.log.Info().Str("role", role.String()).Str("username", username).Msg("duplicate username rejected")
	return core.NewValidationError(ErrDuplicateUsername, core.FieldError{Field: "username", Error: ErrDuplicateUsername.Error()})
}

// ResetPassword replaces the password of an existing student or educator.
func (svc *Service) ResetPassword(role Role, pr PasswordReset) error {
	if err := svc.validate(pr, pr.Username, pr.Password); err != nil {
		return err
	}
	hash, err := svc.hasher.Hash(pr.Password)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}

	switch role {
	case RoleStudent:
		students, err := svc.LoadStudents()
		if err != nil {
			return err
		}
		s, ok := students[pr.Username]
		if !ok {
			return ErrNotFound
		}
		s.PasswordHash = hash
		students[pr.Username] = s
		if err := svc.SaveStudents(students); err != nil {
			return err
		}
	case RoleEducator:
		educators, err := svc.LoadEducators()
		if err != nil {
			return err
		}
		e, ok := educators[pr.Username]
		if !ok {
			return ErrNotFound
		}
		e.PasswordHash = hash
		educators[pr.Username] = e
		if err := svc.SaveEducators(educators); err != nil {
			return err
		}
	default:
		return ErrUnsupportedRole
	}
	svc.log.Info().Str("role", role.String()).Str("username", pr.Username).Msg("password reset")
	return nil
}

// Educator returns the educator account of `username`.
func (svc *Service) Educator(username string) (Educator, error) {
	educators, err := svc.LoadEducators()
	if err != nil {
		return Educator{}, err
	}
	e, ok := educators[username]
	if !ok {
		return Educator{}, ErrNotFound
	}
	return e, nil
}

// StudentUsernames returns every enrolled student, sorted.
func (svc *Service) StudentUsernames() ([]string, error) {
	students, err := svc.LoadStudents()
	if err != nil {
		return nil, err
	}
	return SortedKeys(students), nil
}

// EducatorSubjects returns every educator's subject keyed by username.
func (svc *Service) EducatorSubjects() (map[string]string, error) {
	educators, err := svc.LoadEducators()
	if err != nil {
		return nil, err
	}
	subjects := make(map[string]string, len(educators))
	for uname, e := range educators {
		subjects[uname] = e.Subject
	}
	return subjects, nil
}

func exists[T any](m map[string]T, key string) bool {
	_, ok := m[key]
	return ok
}
