package session

import (
	"github.com/lowkey/studybuddy/core/account"
)

type studentFlow struct{}

func (studentFlow) role() account.Role { return account.RoleStudent }

func (studentFlow) authenticate(s *Session, username, pwd string) (string, error) {
	return s.accounts.Authenticate(account.RoleStudent, username, pwd)
}

func (studentFlow) run(s *Session, username string) error {
	marks, err := s.marks.GetMarks(username)
	if err != nil {
		return err
	}
	if len(marks) == 0 {
		return ErrMissingData
	}
	s.transition(StateViewingDashboard)

	rep := s.analyzer.Classify(marks)
	s.console.Printf("\n--- Welcome, %s ---\n", username)
	for _, sub := range rep.Subjects {
		s.console.Printf("%s: %d\n", sub.Subject, sub.Score)
	}
	s.console.Printf("Average: %.2f\n", rep.Average)

	s.console.Println("\nPerformance Analysis:")
	for _, sub := range rep.Subjects {
		s.console.Printf("%s: %d → %s\n", sub.Subject, sub.Score, sub.Label)
	}
	s.console.Printf("Total: %d\n", rep.Total)
	s.console.Printf("Overall Performance: %s\n", rep.Overall)
	return nil
}
