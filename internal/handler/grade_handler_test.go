package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type gradeServiceMock struct {
	updateErr error
	gpa       *models.GPASummary
	pdf       []byte
	lastReq   dto.UpdateGradeRequest
}

func (m *gradeServiceMock) UpdateGrade(ctx context.Context, teacherID string, req dto.UpdateGradeRequest) (*models.Enrollment, error) {
	m.lastReq = req
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	grade := req.Grade
	return &models.Enrollment{ID: "e-1", Grade: &grade}, nil
}

func (m *gradeServiceMock) ComputeGPA(ctx context.Context, studentID string) (*models.GPASummary, error) {
	return m.gpa, nil
}

func (m *gradeServiceMock) Transcript(ctx context.Context, studentID string) (*models.Transcript, error) {
	return &models.Transcript{StudentID: studentID}, nil
}

func (m *gradeServiceMock) TranscriptPDF(ctx context.Context, studentID string) ([]byte, error) {
	return m.pdf, nil
}

func TestGradeHandlerUpdateForbidden(t *testing.T) {
	mockSvc := &gradeServiceMock{updateErr: appErrors.Clone(appErrors.ErrForbidden, "teacher is not assigned")}
	handler := NewGradeHandler(mockSvc)

	payload, _ := json.Marshal(dto.UpdateGradeRequest{CourseID: "c", StudentID: "s", Term: "T", Grade: "b+"})
	c, w := newTestContext(http.MethodPut, "/grades", payload, &models.JWTClaims{UserID: "t-1", Role: models.RoleTeacher})
	handler.Update(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "b+", mockSvc.lastReq.Grade)
}

func TestGradeHandlerGPA(t *testing.T) {
	handler := NewGradeHandler(&gradeServiceMock{gpa: &models.GPASummary{StudentID: "s-1", GPA: 3.43, TotalCredits: 7, CoursesCount: 2}})

	c, w := newTestContext(http.MethodGet, "/students/s-1/gpa", nil, &models.JWTClaims{UserID: "s-1", Role: models.RoleStudent})
	c.Params = gin.Params{{Key: "id", Value: studentUUID}}
	handler.GPA(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.GPASummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.InDelta(t, 3.43, body.Data.GPA, 0.0001)
	assert.Equal(t, 7, body.Data.TotalCredits)
}

func TestGradeHandlerTranscriptPDF(t *testing.T) {
	handler := NewGradeHandler(&gradeServiceMock{pdf: []byte("%PDF-1.3")})

	c, w := newTestContext(http.MethodGet, "/students/s-1/transcript.pdf", nil, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "id", Value: studentUUID}}
	handler.TranscriptPDF(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transcript-"+studentUUID+".pdf")
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}
