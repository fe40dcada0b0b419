package session

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lowkey/studybuddy/core"
	"github.com/lowkey/studybuddy/core/account"
	"github.com/lowkey/studybuddy/core/assessment"
	"github.com/lowkey/studybuddy/core/organization"
	"github.com/lowkey/studybuddy/core/performance"
)

var (
	// errors
	ErrInvalidInput = errors.New("invalid input")
	ErrMissingData  = errors.New("marks not uploaded yet")
)

// State is where a role session currently stands.
type State int

const (
	StateLoggedOut State = iota
	StateAuthenticated
	StateViewingDashboard
	StateUploadingMarks
	StateManagingAccounts
)

func (st State) String() string {
	switch st {
	case StateAuthenticated:
		return "authenticated"
	case StateViewingDashboard:
		return "viewing_dashboard"
	case StateUploadingMarks:
		return "uploading_marks"
	case StateManagingAccounts:
		return "managing_accounts"
	default:
		return "logged_out"
	}
}

// workflow is one role's login-then-dashboard flow.
type workflow interface {
	role() account.Role
	authenticate(s *Session, username, pwd string) (string, error)
	// run drives the role's dashboard; it returns once the user is done.
	run(s *Session, username string) error
}

// workflows holds one variant per account.Role.
var workflows = [...]workflow{
	studentFlow{},
	educatorFlow{},
	ownerFlow{},
}

func workflowFor(role account.Role) (workflow, error) {
	for _, wf := range workflows {
		if wf.role() == role {
			return wf, nil
		}
	}
	return nil, errors.Errorf("no workflow for role %s", role)
}

type Options struct {
	Console      *Console
	Accounts     *account.Service
	Organization *organization.Registry
	Marks        *assessment.Store
	Analyzer     performance.Analyzer
	AppName      string
	Logger       zerolog.Logger
}

// Session drives the interactive menus. It serves one operator at a time.
type Session struct {
	console  *Console
	accounts *account.Service
	org      *organization.Registry
	marks    *assessment.Store
	analyzer performance.Analyzer
	appName  string
	state    State
	log      zerolog.Logger
}

func New(opts Options) *Session {
	appName := opts.AppName
	if appName == "" {
		appName = "StudyBuddy"
	}
	return &Session{
		console:  opts.Console,
		accounts: opts.Accounts,
		org:      opts.Organization,
		marks:    opts.Marks,
		analyzer: opts.Analyzer,
		appName:  appName,
		log:      opts.Logger.With().Str("component", "session").Logger(),
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) transition(st State) {
	s.log.Debug().Str("from", s.state.String()).Str("to", st.String()).Msg("state change")
	s.state = st
}

// Run shows the main menu until the operator exits or the input ends.
func (s *Session) Run() error {
	for {
		s.console.Println()
		s.console.Println("1. Student Login")
		s.console.Println("2. Educator Login")
		s.console.Println("3. Owner Login")
		s.console.Println("4. Create Org")
		s.console.Println("5. Exit")
		choice, err := s.console.ReadLine("Choice: ")
		if err != nil {
			if isEOF(err) {
				s.farewell()
				return nil
			}
			return err
		}

		switch core.CleanString(choice) {
		case "1":
			err = s.Login(account.RoleStudent)
		case "2":
			err = s.Login(account.RoleEducator)
		case "3":
			err = s.Login(account.RoleOwner)
		case "4":
			err = s.CreateOrganization()
		case "5":
			s.farewell()
			return nil
		default:
			s.console.Println("Invalid selection.")
			continue
		}

		if isEOF(err) {
			s.farewell()
			return nil
		}
		if err != nil {
			s.report(err)
		}
	}
}

func isEOF(err error) bool { return errors.Is(err, io.EOF) }

func (s *Session) farewell() {
	s.console.Printf("\nThank you for using %s. Keep learning!\n", s.appName)
}

// Login authenticates against the role's store, then runs the role's dashboard.
// The session is logged out again once Login returns.
func (s *Session) Login(role account.Role) error {
	wf, err := workflowFor(role)
	if err != nil {
		return err
	}
	defer s.transition(StateLoggedOut)

	uname, err := s.console.ReadLine("Username: ")
	if err != nil {
		return err
	}
	pwd, err := s.console.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	uname, err = wf.authenticate(s, core.CleanString(uname), pwd)
	if err != nil {
		return err
	}
	s.transition(StateAuthenticated)
	return wf.run(s, uname)
}

// CreateOrganization asks for the owner's credentials and (re)creates the organization.
func (s *Session) CreateOrganization() error {
	uname, err := s.console.ReadLine("Owner username: ")
	if err != nil {
		return err
	}
	pwd, err := s.console.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	if _, err := s.org.CreateOrganization(uname, pwd); err != nil {
		return err
	}
	s.console.Println("Organization created.")
	return nil
}

// report tells the operator what went wrong without leaving the menu.
func (s *Session) report(err error) {
	var vErr *core.ValidationError
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		s.console.Println("Invalid credentials")
	case errors.Is(err, ErrMissingData):
		s.console.Println("Marks not uploaded yet.")
	case errors.Is(err, ErrInvalidInput), errors.Is(err, assessment.ErrInvalidScore):
		s.console.Printf("Marks not saved: %v\n", err)
	case errors.As(err, &vErr) && len(vErr.Fields) > 0:
		for _, fe := range vErr.Fields {
			s.console.Printf("%s: %s\n", fe.Field, fe.Error)
		}
	default:
		s.log.Error().Err(err).Msg("unexpected error")
		s.console.Printf("Error: %v\n", err)
	}
}
