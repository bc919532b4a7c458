package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"eonestep.com/institutebackend/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const studentIndex = "students"

// StudentSearchService keeps the admin search index in sync with the student
// table. Indexing is best effort: failures are logged, never surfaced to the
// enrollment flow.
type StudentSearchService interface {
	IndexStudent(student *model.Student)
	Search(query string) ([]uint, error)
}

type studentSearchService struct {
	client meilisearch.ServiceManager
}

func NewStudentSearchService(client meilisearch.ServiceManager) StudentSearchService {
	s := &studentSearchService{client: client}
	s.initIndex()
	return s
}

func (s *studentSearchService) initIndex() {
	if s.client == nil {
		return
	}

	filterable := []any{"franchise_id"}
	if _, err := s.client.Index(studentIndex).UpdateFilterableAttributes(&filterable); err != nil {
		zap.L().Warn("failed to update students filterable attributes", zap.Error(err))
	}

	sortable := []string{"created_at"}
	if _, err := s.client.Index(studentIndex).UpdateSortableAttributes(&sortable); err != nil {
		zap.L().Warn("failed to update students sortable attributes", zap.Error(err))
	}
}

type meiliStudentDoc struct {
	ID           string `json:"id"`
	StudentName  string `json:"student_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	EnrollNumber string `json:"enroll_number"`
	RollNumber   string `json:"roll_number"`
	FranchiseID  uint   `json:"franchise_id"`
	CreatedAt    int64  `json:"created_at"`
}

func (s *studentSearchService) IndexStudent(student *model.Student) {
	if s.client == nil {
		return
	}

	doc := meiliStudentDoc{
		ID:           strconv.FormatUint(uint64(student.ID), 10),
		StudentName:  student.StudentName,
		Email:        student.Email,
		Phone:        student.Phone,
		EnrollNumber: stringOrEmpty(student.EnrollNumber),
		RollNumber:   stringOrEmpty(student.RollNumber),
		CreatedAt:    student.CreatedAt.Unix(),
	}
	if student.FranchiseID != nil {
		doc.FranchiseID = *student.FranchiseID
	}

	if _, err := s.client.Index(studentIndex).AddDocuments([]meiliStudentDoc{doc}, strPtr("id")); err != nil {
		zap.L().Warn("failed to index student", zap.Uint("student_id", student.ID), zap.Error(err))
	}
}

func (s *studentSearchService) Search(query string) ([]uint, error) {
	if s.client == nil {
		return nil, fmt.Errorf("search is not configured")
	}

	resp, err := s.client.Index(studentIndex).Search(query, &meilisearch.SearchRequest{Limit: 50})
	if err != nil {
		return nil, fmt.Errorf("student search failed: %w", err)
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}

	var docs []meiliStudentDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(docs))
	for _, doc := range docs {
		id, err := strconv.ParseUint(doc.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
