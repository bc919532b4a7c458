package service

import (
	"context"
	"fmt"
	"io"

	"eonestep.com/institutebackend/internal/model"
	"gorm.io/gorm"
)

type fakeFranchiseRepo struct {
	franchises map[uint]*model.Franchise
	nextID     uint

	approveErr    error
	approveCalled bool
	savedUser     *model.User
}

func newFakeFranchiseRepo() *fakeFranchiseRepo {
	return &fakeFranchiseRepo{franchises: make(map[uint]*model.Franchise), nextID: 1}
}

func (r *fakeFranchiseRepo) add(franchise *model.Franchise) *model.Franchise {
	if franchise.ID == 0 {
		franchise.ID = r.nextID
		r.nextID++
	}
	r.franchises[franchise.ID] = franchise
	return franchise
}

func (r *fakeFranchiseRepo) Create(ctx context.Context, franchise *model.Franchise) error {
	r.add(franchise)
	code := model.FranchiseCode(franchise.ID)
	franchise.Code = &code
	return nil
}

func (r *fakeFranchiseRepo) FindByID(ctx context.Context, id uint) (*model.Franchise, error) {
	franchise, ok := r.franchises[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *franchise
	return &copied, nil
}

func (r *fakeFranchiseRepo) FindByEmail(ctx context.Context, email string) (*model.Franchise, error) {
	for _, franchise := range r.franchises {
		if franchise.Email == email {
			copied := *franchise
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFranchiseRepo) FindAll(ctx context.Context) ([]model.Franchise, error) {
	out := make([]model.Franchise, 0, len(r.franchises))
	for _, franchise := range r.franchises {
		out = append(out, *franchise)
	}
	return out, nil
}

func (r *fakeFranchiseRepo) FindByStatus(ctx context.Context, status string) ([]model.Franchise, error) {
	var out []model.Franchise
	for _, franchise := range r.franchises {
		if franchise.Status == status {
			out = append(out, *franchise)
		}
	}
	return out, nil
}

func (r *fakeFranchiseRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	for _, franchise := range r.franchises {
		if franchise.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeFranchiseRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.franchises)), nil
}

func (r *fakeFranchiseRepo) Save(ctx context.Context, franchise *model.Franchise) error {
	r.franchises[franchise.ID] = franchise
	return nil
}

func (r *fakeFranchiseRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	franchise, ok := r.franchises[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	franchise.Status = status
	return nil
}

func (r *fakeFranchiseRepo) Approve(ctx context.Context, franchise *model.Franchise, user *model.User) error {
	r.approveCalled = true
	if r.approveErr != nil {
		return r.approveErr
	}
	stored, ok := r.franchises[franchise.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = model.StatusApproved
	stored.Password = franchise.Password
	r.savedUser = user
	return nil
}

func (r *fakeFranchiseRepo) UpdatePasswords(ctx context.Context, franchise *model.Franchise, user *model.User, hash string) error {
	stored, ok := r.franchises[franchise.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Password = hash
	user.Password = hash
	user.MustChangePassword = true
	r.savedUser = user
	return nil
}

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (r *fakeUserRepo) add(user *model.User) *model.User {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Save(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeStudentRepo struct {
	students map[uint]*model.Student
	courses  map[uint]*model.Course
	nextID   uint

	createErr error
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		students: make(map[uint]*model.Student),
		courses:  make(map[uint]*model.Course),
		nextID:   1,
	}
}

func (r *fakeStudentRepo) CreateWithCourse(ctx context.Context, student *model.Student, course *model.Course) error {
	if r.createErr != nil {
		return r.createErr
	}
	student.ID = r.nextID
	r.nextID++
	enroll := model.EnrollNumber(student.ID)
	roll := model.RollNumber(student.ID)
	student.EnrollNumber = &enroll
	student.RollNumber = &roll
	course.StudentID = student.ID
	r.students[student.ID] = student
	r.courses[student.ID] = course
	return nil
}

func (r *fakeStudentRepo) UpdateWithCourse(ctx context.Context, student *model.Student, course *model.Course) error {
	r.students[student.ID] = student
	if course != nil {
		r.courses[student.ID] = course
	}
	return nil
}

func (r *fakeStudentRepo) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	student, ok := r.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *student
	if course, ok := r.courses[id]; ok {
		copiedCourse := *course
		copied.Course = &copiedCourse
	}
	return &copied, nil
}

func (r *fakeStudentRepo) FindByIDs(ctx context.Context, ids []uint) ([]model.Student, error) {
	var out []model.Student
	for _, id := range ids {
		if student, ok := r.students[id]; ok {
			out = append(out, *student)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	for _, student := range r.students {
		if student.Email == email {
			copied := *student
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStudentRepo) FindByEnrollAndRoll(ctx context.Context, enrollNumber, rollNumber string) (*model.Student, error) {
	for id, student := range r.students {
		if student.EnrollNumber != nil && *student.EnrollNumber == enrollNumber &&
			student.RollNumber != nil && *student.RollNumber == rollNumber {
			copied := *student
			if course, ok := r.courses[id]; ok {
				copiedCourse := *course
				copied.Course = &copiedCourse
			}
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStudentRepo) FindByFranchise(ctx context.Context, franchiseID uint) ([]model.Student, error) {
	var out []model.Student
	for _, student := range r.students {
		if student.FranchiseID != nil && *student.FranchiseID == franchiseID {
			out = append(out, *student)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) FindAll(ctx context.Context) ([]model.Student, error) {
	out := make([]model.Student, 0, len(r.students))
	for _, student := range r.students {
		out = append(out, *student)
	}
	return out, nil
}

func (r *fakeStudentRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.students)), nil
}

func (r *fakeStudentRepo) FindCourseByStudent(ctx context.Context, studentID uint) (*model.Course, error) {
	course, ok := r.courses[studentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeStudentRepo) SaveCourse(ctx context.Context, course *model.Course) error {
	r.courses[course.StudentID] = course
	return nil
}

type fakeStorage struct {
	uploads   int
	uploadErr error
}

func (s *fakeStorage) Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads++
	return fmt.Sprintf("https://cdn.example.com/%s/%s", folder, fileName), nil
}

func (s *fakeStorage) Delete(ctx context.Context, fileURL string) error {
	return nil
}

type fakeMailer struct {
	sent    []string
	sendErr error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, to)
	return nil
}
