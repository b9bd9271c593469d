package models

import (
	"fmt"
	"strings"
)

// LetterGrade is a validated letter grade.
type LetterGrade string

// Accepted letter grades. A+ is not accepted; A already maps to the 4.0 ceiling.
const (
	GradeA      LetterGrade = "A"
	GradeAMinus LetterGrade = "A-"
	GradeBPlus  LetterGrade = "B+"
	GradeB      LetterGrade = "B"
	GradeBMinus LetterGrade = "B-"
	GradeCPlus  LetterGrade = "C+"
	GradeC      LetterGrade = "C"
	GradeCMinus LetterGrade = "C-"
	GradeDPlus  LetterGrade = "D+"
	GradeD      LetterGrade = "D"
	GradeDMinus LetterGrade = "D-"
	GradeF      LetterGrade = "F"
)

var gradePoints = map[LetterGrade]float64{
	GradeA:      4.0,
	GradeAMinus: 3.7,
	GradeBPlus:  3.3,
	GradeB:      3.0,
	GradeBMinus: 2.7,
	GradeCPlus:  2.3,
	GradeC:      2.0,
	GradeCMinus: 1.7,
	GradeDPlus:  1.3,
	GradeD:      1.0,
	GradeDMinus: 0.7,
	GradeF:      0.0,
}

// ParseLetterGrade normalises raw input (trim, upper-case) and rejects values
// outside the accepted set.
func ParseLetterGrade(raw string) (LetterGrade, error) {
	g := LetterGrade(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := gradePoints[g]; !ok {
		return "", fmt.Errorf("unsupported grade %q", raw)
	}
	return g, nil
}

// Points returns the grade point value on the 4.0 scale.
func (g LetterGrade) Points() (float64, bool) {
	p, ok := gradePoints[g]
	return p, ok
}

// GPASummary is the credit-weighted GPA over a student's graded enrollments.
type GPASummary struct {
	StudentID    string  `json:"student_id"`
	GPA          float64 `json:"gpa"`
	TotalCredits int     `json:"total_credits"`
	CoursesCount int     `json:"courses_count"`
}

// TranscriptLine is one course row on a student's transcript.
type TranscriptLine struct {
	CourseCode string   `json:"course_code"`
	CourseName string   `json:"course_name"`
	Term       string   `json:"term"`
	Credits    int      `json:"credits"`
	Grade      *string  `json:"grade"`
	Points     *float64 `json:"points,omitempty"`
}

// Transcript lists every enrollment of a student with the GPA summary.
type Transcript struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	Lines       []TranscriptLine `json:"lines"`
	Summary     GPASummary       `json:"summary"`
}
