// Package performance classifies a student's marks into qualitative bands.
// Everything here is pure: the same marks always produce the same Report.
package performance

import (
	"sort"

	"github.com/pkg/errors"
)

// Label is a qualitative performance band.
type Label string

const (
	VeryGood         Label = "Very Good"
	Good             Label = "Good"
	Average          Label = "Average"
	NeedsImprovement Label = "Needs Improvement"
)

// Band maps every value strictly greater than Above to Label.
type Band struct {
	Above float64
	Label Label
}

// Bands are evaluated top-down; the first match wins and anything below the last band
// is NeedsImprovement.
type Bands []Band

func (bs Bands) Classify(v float64) Label {
	for _, b := range bs {
		if v > b.Above {
			return b.Label
		}
	}
	return NeedsImprovement
}

var (
	// SubjectBands classify a single subject score out of 100.
	SubjectBands = Bands{{80, VeryGood}, {60, Good}, {40, Average}}

	// TotalBands classify the sum of three subjects scored out of 100 each (breaks at 230/180/120 of 300).
	TotalBands = Bands{{230, VeryGood}, {180, Good}, {120, Average}}
)

// OverallPolicy derives the overall label of a set of marks.
type OverallPolicy interface {
	Name() string
	Overall(total int, count int) Label
}

// TotalPolicy classifies the raw total with TotalBands.
// It assumes exactly three subjects; other subject counts are classified on the same absolute
// breaks, which under-rates fewer subjects and over-rates more. Use MeanPolicy when counts vary.
type TotalPolicy struct{}

func (TotalPolicy) Name() string { return "total" }

func (TotalPolicy) Overall(total, _ int) Label { return TotalBands.Classify(float64(total)) }

// MeanPolicy classifies the mean score with SubjectBands, independent of the subject count.
type MeanPolicy struct{}

func (MeanPolicy) Name() string { return "mean" }

func (MeanPolicy) Overall(total, count int) Label {
	if count == 0 {
		return NeedsImprovement
	}
	return SubjectBands.Classify(float64(total) / float64(count))
}

// PolicyByName returns the OverallPolicy called name.
func PolicyByName(name string) (OverallPolicy, error) {
	switch name {
	case "", TotalPolicy{}.Name():
		return TotalPolicy{}, nil
	case MeanPolicy{}.Name():
		return MeanPolicy{}, nil
	}
	return nil, errors.Errorf("unknown overall policy %q", name)
}

type SubjectResult struct {
	Subject string
	Score   int
	Label   Label
}

type Report struct {
	Subjects []SubjectResult // sorted by subject
	Total    int
	Average  float64
	Overall  Label
}

// Analyzer classifies marks using an OverallPolicy.
type Analyzer struct {
	policy OverallPolicy
}

func NewAnalyzer(policy OverallPolicy) Analyzer {
	if policy == nil {
		policy = TotalPolicy{}
	}
	return Analyzer{policy: policy}
}

func (a Analyzer) Policy() OverallPolicy { return a.policy }

// Classify computes the per-subject labels, the total, the average and the overall label of marks.
func (a Analyzer) Classify(marks map[string]int) Report {
	subjects := make([]string, 0, len(marks))
	for sub := range marks {
		subjects = append(subjects, sub)
	}
	sort.Strings(subjects)

	rep := Report{Subjects: make([]SubjectResult, 0, len(subjects))}
	for _, sub := range subjects {
		m := marks[sub]
		rep.Total += m
		rep.Subjects = append(rep.Subjects, SubjectResult{Subject: sub, Score: m, Label: SubjectBands.Classify(float64(m))})
	}
	if len(subjects) > 0 {
		rep.Average = float64(rep.Total) / float64(len(subjects))
	}
	rep.Overall = a.policy.Overall(rep.Total, len(subjects))
	return rep
}

// Label returns the label of subject, if present.
func (r Report) Label(subject string) (Label, bool) {
	for _, s := range r.Subjects {
		if s.Subject == subject {
			return s.Label, true
		}
	}
	return "", false
}

// Weakest returns the lowest scored subject labelled Average or below.
// Ties go to the first subject in order.
func (r Report) Weakest() (SubjectResult, bool) {
	var weak SubjectResult
	found := false
	for _, s := range r.Subjects {
		if s.Label != Average && s.Label != NeedsImprovement {
			continue
		}
		if !found || s.Score < weak.Score {
			weak, found = s, true
		}
	}
	return weak, found
}
