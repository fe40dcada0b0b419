package session

import (
	"github.com/lowkey/studybuddy/core"
	"github.com/lowkey/studybuddy/core/account"
)

type ownerFlow struct{}

func (ownerFlow) role() account.Role { return account.RoleOwner }

func (ownerFlow) authenticate(s *Session, username, pwd string) (string, error) {
	return s.org.AuthenticateOwner(username, pwd)
}

func (ownerFlow) run(s *Session, username string) error {
	s.transition(StateManagingAccounts)
	for {
		s.console.Printf("\n--- Owner Dashboard (%s) ---\n", username)
		s.console.Println("1. Add Student")
		s.console.Println("2. Add Educator")
		s.console.Println("3. List Accounts")
		s.console.Println("4. Back")
		choice, err := s.console.ReadLine("Choice: ")
		if err != nil {
			return err
		}

		switch core.CleanString(choice) {
		case "1":
			err = addStudent(s)
		case "2":
			err = addEducator(s)
		case "3":
			err = listAccounts(s)
		default:
			return nil
		}
		if err != nil {
			if isEOF(err) {
				return err
			}
			s.report(err)
		}
	}
}

func addStudent(s *Session) error {
	uname, err := s.console.ReadLine("Student username: ")
	if err != nil {
		return err
	}
	pwd, err := s.console.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	if err := s.accounts.AddStudent(account.NewStudent{Username: uname, Password: pwd}); err != nil {
		return err
	}
	s.console.Println("Student added.")
	return nil
}

func addEducator(s *Session) error {
	uname, err := s.console.ReadLine("Educator username: ")
	if err != nil {
		return err
	}
	pwd, err := s.console.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	subject, err := s.console.ReadLine("Subject: ")
	if err != nil {
		return err
	}
	ne := account.NewEducator{Username: uname, Password: pwd, Subject: core.CleanString(subject)}
	if err := s.accounts.AddEducator(ne); err != nil {
		return err
	}
	s.console.Println("Educator added.")
	return nil
}

func listAccounts(s *Session) error {
	students, err := s.accounts.StudentUsernames()
	if err != nil {
		return err
	}
	subjects, err := s.accounts.EducatorSubjects()
	if err != nil {
		return err
	}

	s.console.Printf("\nStudents (%d):\n", len(students))
	for _, uname := range students {
		s.console.Printf("  %s\n", uname)
	}
	s.console.Printf("Educators (%d):\n", len(subjects))
	for _, uname := range account.SortedKeys(subjects) {
		s.console.Printf("  %s (%s)\n", uname, subjects[uname])
	}
	return nil
}
