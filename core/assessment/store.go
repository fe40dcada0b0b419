package assessment

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lowkey/studybuddy/core"
	"github.com/lowkey/studybuddy/core/account"
)

var (
	// errors
	ErrInvalidScore   = errors.New("invalid score")
	ErrUnknownStudent = errors.New("student not found")
	ErrBlankSubject   = errors.New("subject cannot be blank")
)

// Store keeps every student's subject marks inside the students collection.
// Each mutation reloads the collection and saves it back as a whole.
type Store struct {
	backend  core.Backend
	min, max int
	log      zerolog.Logger
}

func NewStore(backend core.Backend, conf core.ScoresConfig, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		min:     conf.Min,
		max:     conf.Max,
		log:     logger.With().Str("component", "assessment").Logger(),
	}
}

// Bounds returns the inclusive score range.
func (s *Store) Bounds() (int, int) { return s.min, s.max }

// CheckScore reports ErrInvalidScore when score falls outside the configured range.
func (s *Store) CheckScore(score int) error {
	if score < s.min || score > s.max {
		return errors.Wrapf(ErrInvalidScore, "%d is not between %d and %d", score, s.min, s.max)
	}
	return nil
}

func (s *Store) load() (map[string]account.Student, error) {
	return core.LoadStore[account.Student](s.backend, core.StoreStudents)
}

func (s *Store) save(students map[string]account.Student) error {
	if err := core.SaveStore(s.backend, core.StoreStudents, students); err != nil {
		s.log.Error().Err(err).Msg("saving marks")
		return err
	}
	return nil
}

// GetMarks returns a copy of the student's marks; it is empty when nothing was uploaded yet.
func (s *Store) GetMarks(student string) (map[string]int, error) {
	students, err := s.load()
	if err != nil {
		return nil, err
	}
	st, ok := students[student]
	if !ok {
		return nil, ErrUnknownStudent
	}
	marks := make(map[string]int, len(st.Marks))
	for sub, m := range st.Marks {
		marks[sub] = m
	}
	return marks, nil
}

// SetMark records one score, overwriting any previous score of that subject.
func (s *Store) SetMark(student, subject string, score int) error {
	return s.BulkUpload(subject, map[string]int{student: score})
}

// BulkUpload records `subject` scores for several students at once.
// Nothing is written unless every student exists and every score is in range.
// Educator authorization is up to the caller.
func (s *Store) BulkUpload(subject string, scoresByStudent map[string]int) error {
	subject = core.CleanString(subject)
	if subject == "" {
		return ErrBlankSubject
	}
	students, err := s.load()
	if err != nil {
		return err
	}

	for _, uname := range account.SortedKeys(scoresByStudent) {
		if _, ok := students[uname]; !ok {
			return errors.Wrap(ErrUnknownStudent, uname)
		}
		if err := s.CheckScore(scoresByStudent[uname]); err != nil {
			return errors.Wrap(err, uname)
		}
	}

	for uname, score := range scoresByStudent {
		st := students[uname]
		if st.Marks == nil {
			st.Marks = make(map[string]int)
		}
		st.Marks[subject] = score
		students[uname] = st
	}
	if err := s.save(students); err != nil {
		return err
	}
	s.log.Info().Str("subject", subject).Int("students", len(scoresByStudent)).Msg("marks uploaded")
	return nil
}
