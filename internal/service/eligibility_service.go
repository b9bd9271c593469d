package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
)

// EligibilityService derives teacher/course eligibility from the skill join tables.
type EligibilityService struct {
	users   userReader
	courses courseReader
	skills  skillReader
	logger  *zap.Logger
}

// NewEligibilityService constructs the service.
func NewEligibilityService(users userReader, courses courseReader, skills skillReader, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{users: users, courses: courses, skills: skills, logger: logger}
}

// Check evaluates a single teacher/course pair.
func (s *EligibilityService) Check(ctx context.Context, teacherID, courseID string) (*dto.EligibilityResult, error) {
	if _, err := loadUserWithRole(ctx, s.users, teacherID, models.RoleTeacher); err != nil {
		return nil, err
	}
	if _, err := loadCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	teacherSkills, required, err := s.pairSets(ctx, teacherID, courseID)
	if err != nil {
		return nil, err
	}
	result := &dto.EligibilityResult{
		TeacherID:           teacherID,
		CourseID:            courseID,
		Eligible:            IsEligible(teacherSkills, required),
		MissingSpecialtyIDs: MissingSkills(teacherSkills, required),
	}
	s.logger.Debug("eligibility evaluated",
		zap.String("teacher_id", teacherID),
		zap.String("course_id", courseID),
		zap.Bool("eligible", result.Eligible),
	)
	return result, nil
}

// EligibleTeachersForCourse lists active teachers whose skills cover the course requirements.
func (s *EligibilityService) EligibleTeachersForCourse(ctx context.Context, courseID string) ([]models.UserSummary, error) {
	if _, err := loadCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	requiredIDs, err := s.skills.CourseRequirementIDs(ctx, courseID)
	if err != nil {
		return nil, internalError(err, "failed to load course requirements")
	}
	teachers, err := s.users.ListActiveByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, internalError(err, "failed to list teachers")
	}
	skillsByTeacher, err := s.skills.AllTeacherSpecialties(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load teacher specialties")
	}

	required := NewSkillSet(requiredIDs)
	eligible := make([]models.UserSummary, 0, len(teachers))
	for _, teacher := range teachers {
		if IsEligible(NewSkillSet(skillsByTeacher[teacher.ID]), required) {
			eligible = append(eligible, teacher)
		}
	}
	return eligible, nil
}

// EligibleCoursesForTeacher lists every course whose requirements the teacher
// covers, including courses without requirements.
func (s *EligibilityService) EligibleCoursesForTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	if _, err := loadUserWithRole(ctx, s.users, teacherID, models.RoleTeacher); err != nil {
		return nil, err
	}
	skillIDs, err := s.skills.TeacherSpecialtyIDs(ctx, teacherID)
	if err != nil {
		return nil, internalError(err, "failed to load teacher specialties")
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	requirementsByCourse, err := s.skills.AllCourseRequirements(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load course requirements")
	}

	teacherSkills := NewSkillSet(skillIDs)
	eligible := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if IsEligible(teacherSkills, NewSkillSet(requirementsByCourse[course.ID])) {
			eligible = append(eligible, course)
		}
	}
	return eligible, nil
}

// pairSets loads the teacher's skills and the course's requirements.
func (s *EligibilityService) pairSets(ctx context.Context, teacherID, courseID string) (SkillSet, SkillSet, error) {
	skillIDs, err := s.skills.TeacherSpecialtyIDs(ctx, teacherID)
	if err != nil {
		return nil, nil, internalError(err, "failed to load teacher specialties")
	}
	requiredIDs, err := s.skills.CourseRequirementIDs(ctx, courseID)
	if err != nil {
		return nil, nil, internalError(err, "failed to load course requirements")
	}
	return NewSkillSet(skillIDs), NewSkillSet(requiredIDs), nil
}
