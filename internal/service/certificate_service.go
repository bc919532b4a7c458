package service

import (
	"context"
	"errors"
	"net/http"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/repository"
	"eonestep.com/institutebackend/pkg/apperror"
	"gorm.io/gorm"
)

// CertificateService resolves public certificate verification lookups. No
// authentication is involved: third parties verify certificates without an
// account.
type CertificateService interface {
	Find(ctx context.Context, enrollNumber, rollNumber string) (*dto.Certificate, error)
}

type certificateService struct {
	studentRepo repository.StudentRepository
}

func NewCertificateService(studentRepo repository.StudentRepository) CertificateService {
	return &certificateService{studentRepo: studentRepo}
}

func (s *certificateService) Find(ctx context.Context, enrollNumber, rollNumber string) (*dto.Certificate, error) {
	student, err := s.studentRepo.FindByEnrollAndRoll(ctx, enrollNumber, rollNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Certificate not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	cert := &dto.Certificate{
		StudentName:  student.StudentName,
		EnrollNumber: stringOrEmpty(student.EnrollNumber),
		RollNumber:   stringOrEmpty(student.RollNumber),
		ImageUpload:  student.ImageUpload,
	}

	if student.Franchise != nil {
		cert.FranchiseCode = stringOrEmpty(student.Franchise.Code)
		cert.InstituteName = student.Franchise.InstituteName
		cert.City = student.Franchise.City
		cert.State = student.Franchise.State
	}

	if student.Course != nil {
		cert.CourseName = student.Course.CourseName
		cert.Grade = student.Course.Grade
		cert.Percentage = student.Course.Percentage
		cert.CourseDuration = student.Course.CourseDuration
	}

	return cert, nil
}
