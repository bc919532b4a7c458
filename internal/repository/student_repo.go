package repository

import (
	"context"

	"eonestep.com/institutebackend/internal/model"
	"gorm.io/gorm"
)

type StudentRepository interface {
	// CreateWithCourse inserts the student, derives its enroll/roll numbers
	// from the generated ID, then inserts the course referencing that ID.
	// The whole unit commits or rolls back together.
	CreateWithCourse(ctx context.Context, student *model.Student, course *model.Course) error
	// UpdateWithCourse saves the student and, when non-nil, its course in
	// one transaction.
	UpdateWithCourse(ctx context.Context, student *model.Student, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Student, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Student, error)
	FindByEmail(ctx context.Context, email string) (*model.Student, error)
	FindByEnrollAndRoll(ctx context.Context, enrollNumber, rollNumber string) (*model.Student, error)
	FindByFranchise(ctx context.Context, franchiseID uint) ([]model.Student, error)
	FindAll(ctx context.Context) ([]model.Student, error)
	Count(ctx context.Context) (int64, error)
	FindCourseByStudent(ctx context.Context, studentID uint) (*model.Course, error)
	SaveCourse(ctx context.Context, course *model.Course) error
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) CreateWithCourse(ctx context.Context, student *model.Student, course *model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			return err
		}

		// Second write: both numbers depend on the generated ID.
		enroll := model.EnrollNumber(student.ID)
		roll := model.RollNumber(student.ID)
		student.EnrollNumber = &enroll
		student.RollNumber = &roll
		if err := tx.Model(student).Updates(map[string]any{
			"enroll_number": enroll,
			"roll_number":   roll,
		}).Error; err != nil {
			return err
		}

		course.StudentID = student.ID
		return tx.Create(course).Error
	})
}

func (r *studentRepository) UpdateWithCourse(ctx context.Context, student *model.Student, course *model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(student).Error; err != nil {
			return err
		}

		if course != nil {
			if err := tx.Save(course).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *studentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Franchise").
		First(&student, id).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Student, error) {
	var students []model.Student
	if len(ids) == 0 {
		return students, nil
	}

	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Franchise").
		Where("id IN ?", ids).
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&student).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepository) FindByEnrollAndRoll(ctx context.Context, enrollNumber, rollNumber string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Franchise").
		Where("enroll_number = ? AND roll_number = ?", enrollNumber, rollNumber).
		First(&student).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepository) FindByFranchise(ctx context.Context, franchiseID uint) ([]model.Student, error) {
	var students []model.Student
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("franchise_id = ?", franchiseID).
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) FindAll(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Franchise").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *studentRepository) FindCourseByStudent(ctx context.Context, studentID uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&course).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *studentRepository) SaveCourse(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}
