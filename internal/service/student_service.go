package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"eonestep.com/institutebackend/internal/dto"
	"eonestep.com/institutebackend/internal/model"
	"eonestep.com/institutebackend/internal/repository"
	"eonestep.com/institutebackend/pkg/apperror"
	"eonestep.com/institutebackend/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StudentService interface {
	// Register creates the student and its course record as one atomic
	// unit; a failure at either insert leaves no orphaned row behind.
	Register(ctx context.Context, franchiseID uint, input dto.RegisterStudentInput, photo *UploadFile) (*model.Student, error)
	Update(ctx context.Context, studentID uint, actor Actor, input dto.UpdateStudentInput, photo *UploadFile) (*model.Student, error)
	Get(ctx context.Context, studentID uint, actor Actor) (*model.Student, error)
	ListByFranchise(ctx context.Context, franchiseID uint) ([]model.Student, error)
	ListAll(ctx context.Context) ([]model.Student, error)
	Search(ctx context.Context, query string) ([]model.Student, error)
	GetCourseDetails(ctx context.Context, studentID uint, actor Actor) (*model.Course, error)
	UpdateCourseDetails(ctx context.Context, studentID uint, actor Actor, input dto.UpdateCourseDetailsInput) (*model.Course, error)
}

type studentService struct {
	studentRepo repository.StudentRepository
	fileStorage storage.FileStorage
	search      StudentSearchService
}

func NewStudentService(
	studentRepo repository.StudentRepository,
	fileStorage storage.FileStorage,
	search StudentSearchService,
) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		fileStorage: fileStorage,
		search:      search,
	}
}

func (s *studentService) Register(ctx context.Context, franchiseID uint, input dto.RegisterStudentInput, photo *UploadFile) (*model.Student, error) {
	if input.Email != "" {
		if _, err := s.studentRepo.FindByEmail(ctx, input.Email); err == nil {
			return nil, apperror.New(http.StatusConflict, "Student with this Email already in use", apperror.ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	courseDuration, err := FormatSessionRange(input.SelectFromSession, input.SelectToSession)
	if err != nil {
		return nil, apperror.New(http.StatusBadRequest, "Invalid session dates", apperror.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var photoURL *string
	if photo != nil && photo.Reader != nil {
		url, err := s.fileStorage.Upload(ctx, photo.Reader, "students", photo.FileName)
		if err != nil {
			return nil, fmt.Errorf("photo upload failed: %w", err)
		}
		photoURL = &url
	}

	student := &model.Student{
		StudentName:  input.StudentName,
		GuardianType: input.GuardianType,
		Gender:       input.Gender,
		FatherName:   input.FatherName,
		DOB:          input.DOB,
		PinCode:      input.PinCode,
		Town:         input.Town,
		District:     input.District,
		State:        input.State,
		IDProof:      input.IDProof,
		IDNumber:     input.IDNumber,
		ImageUpload:  photoURL,
		Phone:        input.Phone,
		Email:        input.Email,
		Password:     string(hashed),
		Status:       model.StudentStatusActive,
		FranchiseID:  &franchiseID,
	}

	course := &model.Course{
		CourseName:     input.CourseName,
		Subjects:       input.SubjectName,
		CourseDuration: courseDuration,
	}

	if err := s.studentRepo.CreateWithCourse(ctx, student, course); err != nil {
		return nil, fmt.Errorf("enrollment transaction failed: %w", err)
	}
	student.Course = course

	if s.search != nil {
		s.search.IndexStudent(student)
	}

	return student, nil
}

func (s *studentService) Update(ctx context.Context, studentID uint, actor Actor, input dto.UpdateStudentInput, photo *UploadFile) (*model.Student, error) {
	student, err := s.findOwned(ctx, studentID, actor)
	if err != nil {
		return nil, err
	}

	// Blank fields keep the stored value.
	student.StudentName = coalesce(input.StudentName, student.StudentName)
	student.GuardianType = coalesce(input.GuardianType, student.GuardianType)
	student.Gender = coalesce(input.Gender, student.Gender)
	student.FatherName = coalesce(input.FatherName, student.FatherName)
	student.DOB = coalesce(input.DOB, student.DOB)
	student.PinCode = coalesce(input.PinCode, student.PinCode)
	student.Town = coalesce(input.Town, student.Town)
	student.District = coalesce(input.District, student.District)
	student.State = coalesce(input.State, student.State)
	student.IDProof = coalesce(input.IDProof, student.IDProof)
	student.IDNumber = coalesce(input.IDNumber, student.IDNumber)
	student.Phone = coalesce(input.Phone, student.Phone)
	student.Email = coalesce(input.Email, student.Email)

	// Password is re-hashed only when a new one is supplied.
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		student.Password = string(hashed)
	}

	// Photo is replaced only when a new file is uploaded.
	if photo != nil && photo.Reader != nil {
		url, err := s.fileStorage.Upload(ctx, photo.Reader, "students", photo.FileName)
		if err != nil {
			return nil, fmt.Errorf("photo upload failed: %w", err)
		}
		if student.ImageUpload != nil && *student.ImageUpload != "" {
			if err := s.fileStorage.Delete(ctx, *student.ImageUpload); err != nil {
				zap.L().Warn("failed to delete replaced photo", zap.String("url", *student.ImageUpload), zap.Error(err))
			}
		}
		student.ImageUpload = &url
	}

	course := student.Course
	if course != nil {
		course.CourseName = coalesce(input.CourseName, course.CourseName)
		course.Subjects = coalesce(input.SubjectName, course.Subjects)
		if input.SelectFromSession != "" && input.SelectToSession != "" {
			duration, err := FormatSessionRange(input.SelectFromSession, input.SelectToSession)
			if err != nil {
				return nil, apperror.New(http.StatusBadRequest, "Invalid session dates", apperror.ErrBadRequest)
			}
			course.CourseDuration = duration
		}
	}

	// Avoid re-saving the association through GORM; the course is written
	// explicitly in the same transaction.
	student.Course = nil
	if err := s.studentRepo.UpdateWithCourse(ctx, student, course); err != nil {
		return nil, err
	}
	student.Course = course

	if s.search != nil {
		s.search.IndexStudent(student)
	}

	return student, nil
}

func (s *studentService) findOwned(ctx context.Context, studentID uint, actor Actor) (*model.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Student not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		if student.FranchiseID == nil || !actor.OwnsFranchise(*student.FranchiseID) {
			return nil, apperror.New(http.StatusForbidden, "Access denied", apperror.ErrForbidden)
		}
	}

	return student, nil
}

func (s *studentService) Get(ctx context.Context, studentID uint, actor Actor) (*model.Student, error) {
	return s.findOwned(ctx, studentID, actor)
}

func (s *studentService) ListByFranchise(ctx context.Context, franchiseID uint) ([]model.Student, error) {
	return s.studentRepo.FindByFranchise(ctx, franchiseID)
}

func (s *studentService) ListAll(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.FindAll(ctx)
}

func (s *studentService) Search(ctx context.Context, query string) ([]model.Student, error) {
	if s.search == nil {
		return nil, apperror.New(http.StatusBadRequest, "Search is not available", apperror.ErrBadRequest)
	}

	ids, err := s.search.Search(query)
	if err != nil {
		return nil, err
	}

	return s.studentRepo.FindByIDs(ctx, ids)
}

func (s *studentService) GetCourseDetails(ctx context.Context, studentID uint, actor Actor) (*model.Course, error) {
	if _, err := s.findOwned(ctx, studentID, actor); err != nil {
		return nil, err
	}

	course, err := s.studentRepo.FindCourseByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Course not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return course, nil
}

func (s *studentService) UpdateCourseDetails(ctx context.Context, studentID uint, actor Actor, input dto.UpdateCourseDetailsInput) (*model.Course, error) {
	if _, err := s.findOwned(ctx, studentID, actor); err != nil {
		return nil, err
	}

	course, err := s.studentRepo.FindCourseByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Course not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	course.CourseName = coalesce(input.CourseName, course.CourseName)
	course.Subjects = coalesce(input.Subjects, course.Subjects)
	if input.Grade != "" {
		grade := input.Grade
		course.Grade = &grade
	}
	if input.Percentage != "" {
		percentage := input.Percentage
		course.Percentage = &percentage
	}

	if err := s.studentRepo.SaveCourse(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}
