package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

const (
	teacherID   = "11111111-1111-1111-1111-111111111111"
	studentID   = "22222222-2222-2222-2222-222222222222"
	adminID     = "33333333-3333-3333-3333-333333333333"
	courseID    = "44444444-4444-4444-4444-444444444444"
	mathID      = "aaaaaaaa-0000-0000-0000-000000000001"
	physicsID   = "aaaaaaaa-0000-0000-0000-000000000002"
	chemistryID = "aaaaaaaa-0000-0000-0000-000000000003"
	unknownID   = "99999999-9999-9999-9999-999999999999"
	fallTerm    = "2024-FALL"
)

// newMockTx returns a sqlx handle backed by sqlmock. A single connection keeps
// concurrent transactions serialised in the order they begin.
func newMockTx(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

type stubUsers struct {
	users map[string]*models.User
}

func newStubUsers(users ...*models.User) *stubUsers {
	s := &stubUsers{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (s *stubUsers) ListActiveByRole(ctx context.Context, role models.UserRole) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, u := range s.users {
		if u.Role == role && u.Active {
			out = append(out, models.UserSummary{ID: u.ID, Email: u.Email, FullName: u.FullName})
		}
	}
	return out, nil
}

func defaultUsers() *stubUsers {
	return newStubUsers(
		&models.User{ID: teacherID, FullName: "Tess Teacher", Role: models.RoleTeacher, Active: true},
		&models.User{ID: studentID, FullName: "Sam Student", Role: models.RoleStudent, Active: true},
		&models.User{ID: adminID, FullName: "Ada Admin", Role: models.RoleAdmin, Active: true},
	)
}

type stubCourses struct {
	courses map[string]*models.Course
}

func newStubCourses(courses ...*models.Course) *stubCourses {
	s := &stubCourses{courses: make(map[string]*models.Course)}
	for _, c := range courses {
		s.courses[c.ID] = c
	}
	return s
}

func defaultCourses() *stubCourses {
	return newStubCourses(&models.Course{ID: courseID, Code: "SCI101", Name: "Integrated Science", Credits: 4})
}

func (s *stubCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (s *stubCourses) List(ctx context.Context) ([]models.Course, error) {
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, *c)
	}
	return out, nil
}

type stubSkills struct {
	teacher map[string][]string
	course  map[string][]string
}

func newStubSkills() *stubSkills {
	return &stubSkills{teacher: map[string][]string{}, course: map[string][]string{}}
}

func (s *stubSkills) CourseRequirementIDs(ctx context.Context, courseID string) ([]string, error) {
	return s.course[courseID], nil
}

func (s *stubSkills) TeacherSpecialtyIDs(ctx context.Context, teacherID string) ([]string, error) {
	return s.teacher[teacherID], nil
}

func (s *stubSkills) AllCourseRequirements(ctx context.Context) (map[string][]string, error) {
	return s.course, nil
}

func (s *stubSkills) AllTeacherSpecialties(ctx context.Context) (map[string][]string, error) {
	return s.teacher, nil
}

// stubAssignments mimics the conditional UPDATE of the real repository: a
// transition only applies while the row is still pending.
type stubAssignments struct {
	mu        sync.Mutex
	records   map[string]*models.TeachingAssignment
	seq       int
	createErr error
}

func newStubAssignments(records ...*models.TeachingAssignment) *stubAssignments {
	s := &stubAssignments{records: make(map[string]*models.TeachingAssignment)}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *stubAssignments) List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TeachingAssignmentDetail
	for _, r := range s.records {
		if filter.TeacherID != "" && r.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, models.TeachingAssignmentDetail{TeachingAssignment: *r})
	}
	return out, nil
}

func (s *stubAssignments) FindByID(ctx context.Context, id string) (*models.TeachingAssignment, error) {
	return s.FindByIDTx(ctx, nil, id)
}

func (s *stubAssignments) FindByIDTx(ctx context.Context, q sqlx.QueryerContext, id string) (*models.TeachingAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (s *stubAssignments) ExistsOpen(ctx context.Context, teacherID, courseID, term, section string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.TeacherID == teacherID && r.CourseID == courseID && r.Term == term && r.Section == section && r.Status != models.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubAssignments) HasApproved(ctx context.Context, teacherID, courseID, term string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.TeacherID == teacherID && r.CourseID == courseID && r.Term == term && r.Status == models.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubAssignments) Create(ctx context.Context, a *models.TeachingAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.seq++
	a.ID = fmt.Sprintf("assignment-%d", s.seq)
	a.AssignedDate = time.Now().UTC()
	copied := *a
	s.records[a.ID] = &copied
	return nil
}

func (s *stubAssignments) Transition(ctx context.Context, exec sqlx.ExtContext, id string, status models.ReviewStatus, reviewerID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok || r.Status != models.StatusPending {
		return false, nil
	}
	r.Status = status
	r.ReviewedAt = &at
	r.ReviewedBy = &reviewerID
	return true, nil
}

type stubNotifications struct {
	mu    sync.Mutex
	sent  []models.Notification
	err   error
	limit int
}

func (s *stubNotifications) Create(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, *n)
	return nil
}

func (s *stubNotifications) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	s.limit = limit
	var out []models.Notification
	for _, n := range s.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubNotifications) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// memoryCache is an in-process CacheRepository that round-trips values
// through JSON like the redis implementation does.
type memoryCache struct {
	mu      sync.Mutex
	entries   map[string][]byte
	deletes   int
	deleteErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.deletes++
	return nil
}

type mockHandle struct {
	sqlmock.Sqlmock
}

func (m *mockHandle) assertMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.ExpectationsWereMet())
}
