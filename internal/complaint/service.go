package complaint

import (
	"context"
	"errors"
	"strings"

	"discipline/internal/users"
)

// Sentinel errors surfaced to handlers.
var (
	ErrNoStudent      = errors.New("no student selected")
	ErrNotStudent     = errors.New("complaints can only target students")
	ErrReasonRequired = errors.New("reason is required")
)

// Store is the ledger persistence surface.
type Store interface {
	Insert(ctx context.Context, cmp Complaint) (Complaint, error)
	ListByStudent(ctx context.Context, studentID string) ([]Complaint, error)
	ListAll(ctx context.Context) ([]Complaint, error)
}

// Directory looks up the students complaints may target.
type Directory interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
	ListStudents(ctx context.Context) ([]users.User, error)
}

// Service is the complaint ledger: it creates records and serves per-student
// and admin-wide views.
type Service struct {
	store Store
	dir   Directory
}

// NewService creates a ledger backed by a complaint store and a user directory.
func NewService(store Store, dir Directory) *Service {
	return &Service{store: store, dir: dir}
}

// Create validates and persists a new complaint against a student.
// reason "other" requires non-empty customReason and the custom text becomes
// the stored reason. A missing photo gets the placeholder; evidence is never
// the cause of a rejection. Nothing is recorded when the write fails.
func (s *Service) Create(ctx context.Context, studentID, reason, customReason, photo string) (Complaint, error) {
	if studentID == "" {
		return Complaint{}, ErrNoStudent
	}
	if reason == "" {
		return Complaint{}, ErrReasonRequired
	}
	if strings.EqualFold(reason, ReasonOther) {
		if customReason == "" {
			return Complaint{}, ErrReasonRequired
		}
		reason = customReason
	}
	if photo == "" {
		photo = PlaceholderPhoto
	}

	target, err := s.dir.GetByID(ctx, studentID)
	if err != nil {
		return Complaint{}, err
	}
	if target == nil {
		return Complaint{}, users.ErrNotFound
	}
	if target.Role != users.RoleStudent {
		return Complaint{}, ErrNotStudent
	}

	return s.store.Insert(ctx, Complaint{
		StudentID: studentID,
		Reason:    reason,
		Photo:     photo,
	})
}

// ListForStudent returns a student's own history, newest first. The caller is
// responsible for deriving studentID from a validated token, never from
// request input, so a student session can only ever see itself.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]Complaint, error) {
	list, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Complaint{}
	}
	return list, nil
}

// ListAll returns students with their full complaint histories, narrowed by
// filters. Filters choose which students appear; a selected student always
// carries their entire history.
func (s *Service) ListAll(ctx context.Context, f Filters) ([]StudentRecord, error) {
	students, err := s.dir.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string][]Complaint, len(students))
	for _, cmp := range all {
		byStudent[cmp.StudentID] = append(byStudent[cmp.StudentID], cmp)
	}

	records := []StudentRecord{}
	for _, st := range students {
		history := byStudent[st.ID]
		if history == nil {
			history = []Complaint{}
		}
		if !matches(st, history, f) {
			continue
		}
		records = append(records, StudentRecord{Student: st, Complaints: history})
	}
	return records, nil
}

func matches(st users.User, history []Complaint, f Filters) bool {
	if f.Department != "" && st.Department != f.Department {
		return false
	}
	if f.Query != "" && !strings.Contains(st.Email, f.Query) {
		return false
	}
	if f.Reason != "" {
		found := false
		for _, cmp := range history {
			if cmp.Reason == f.Reason {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
