package session

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lowkey/studybuddy/core"
	"github.com/lowkey/studybuddy/core/account"
)

type educatorFlow struct{}

func (educatorFlow) role() account.Role { return account.RoleEducator }

func (educatorFlow) authenticate(s *Session, username, pwd string) (string, error) {
	return s.accounts.Authenticate(account.RoleEducator, username, pwd)
}

func (educatorFlow) run(s *Session, username string) error {
	edu, err := s.accounts.Educator(username)
	if err != nil {
		return err
	}
	for {
		s.transition(StateViewingDashboard)
		s.console.Printf("\n--- Educator Dashboard (%s, %s) ---\n", username, edu.Subject)
		s.console.Println("1. Upload Marks")
		s.console.Println("2. View Students Performance")
		s.console.Println("3. Back")
		choice, err := s.console.ReadLine("Choice: ")
		if err != nil {
			return err
		}

		switch core.CleanString(choice) {
		case "1":
			err = uploadMarks(s, edu)
		case "2":
			err = classPerformance(s)
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

// uploadMarks asks for one score per student and uploads them together.
// A bad entry aborts the round and nothing is saved.
func uploadMarks(s *Session, edu account.Educator) error {
	students, err := s.accounts.StudentUsernames()
	if err != nil {
		return err
	}
	s.transition(StateUploadingMarks)

	lo, hi := s.marks.Bounds()
	s.console.Printf("\n--- Upload %s marks (%d-%d) ---\n", edu.Subject, lo, hi)
	if len(students) == 0 {
		s.console.Println("No students enrolled yet.")
		return nil
	}

	scores := make(map[string]int, len(students))
	for _, stu := range students {
		line, err := s.console.ReadLine("Enter marks for " + stu + ": ")
		if err != nil {
			return err
		}
		score, err := parseScore(line)
		if err != nil {
			return err
		}
		if err := s.marks.CheckScore(score); err != nil {
			return errors.Wrap(err, stu)
		}
		scores[stu] = score
	}

	if err := s.marks.BulkUpload(edu.Subject, scores); err != nil {
		return err
	}
	s.console.Println("Marks uploaded successfully.")
	return nil
}

// classPerformance prints every student's average and weakest subject.
func classPerformance(s *Session) error {
	students, err := s.accounts.StudentUsernames()
	if err != nil {
		return err
	}

	s.console.Println("\nClass Performance Matrix:")
	if len(students) == 0 {
		s.console.Println("No students enrolled yet.")
		return nil
	}
	for i, stu := range students {
		marks, err := s.marks.GetMarks(stu)
		if err != nil {
			return err
		}
		if len(marks) == 0 {
			s.console.Printf("%d. %s - No marks yet\n", i+1, stu)
			continue
		}
		rep := s.analyzer.Classify(marks)
		note := "Consistent"
		if weak, ok := rep.Weakest(); ok {
			note = "Needs help in " + weak.Subject
		}
		s.console.Printf("%d. %s - Avg: %.2f [%s]\n", i+1, stu, rep.Average, note)
	}
	return nil
}

func parseScore(line string) (int, error) {
	line = strings.TrimSpace(line)
	score, err := strconv.Atoi(line)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidInput, "%q is not a whole number", line)
	}
	return score, nil
}
