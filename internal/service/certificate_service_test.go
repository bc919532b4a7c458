package service

import (
	"context"
	"errors"
	"testing"

	"eonestep.com/institutebackend/internal/model"
	"eonestep.com/institutebackend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateFindJoinsStudentFranchiseAndCourse(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	svc := NewCertificateService(studentRepo)

	code := "EON0012"
	enroll := "EN0007"
	roll := "RN0007"
	grade := "A"
	percentage := "86"
	studentRepo.students[7] = &model.Student{
		ID:           7,
		StudentName:  "Ravi Kumar",
		EnrollNumber: &enroll,
		RollNumber:   &roll,
		Franchise: &model.Franchise{
			Code:          &code,
			InstituteName: "Sunrise Computer Institute",
			City:          "Jaipur",
			State:         "Rajasthan",
		},
	}
	studentRepo.courses[7] = &model.Course{
		StudentID:      7,
		CourseName:     "DCA",
		Grade:          &grade,
		Percentage:     &percentage,
		CourseDuration: "Jan 2024 - Jun 2024",
	}

	cert, err := svc.Find(context.Background(), "EN0007", "RN0007")
	require.NoError(t, err)

	assert.Equal(t, "Ravi Kumar", cert.StudentName)
	assert.Equal(t, "EN0007", cert.EnrollNumber)
	assert.Equal(t, "RN0007", cert.RollNumber)
	assert.Equal(t, "EON0012", cert.FranchiseCode)
	assert.Equal(t, "Sunrise Computer Institute", cert.InstituteName)
	assert.Equal(t, "Jaipur", cert.City)
	assert.Equal(t, "DCA", cert.CourseName)
	require.NotNil(t, cert.Grade)
	assert.Equal(t, "A", *cert.Grade)
	assert.Equal(t, "Jan 2024 - Jun 2024", cert.CourseDuration)
}

func TestCertificateFindUnknownPairIsNotFound(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	svc := NewCertificateService(studentRepo)

	_, err := svc.Find(context.Background(), "EN9999", "RN9999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Equal(t, "Certificate not found", err.Error())
}
