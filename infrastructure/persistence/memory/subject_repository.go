package memory

import (
	"context"
	"sort"
	"sync"

	"promptline/application/ports"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

// SubjectRepository implements ports.SubjectRepository in memory.
type SubjectRepository struct {
	mu       sync.RWMutex
	subjects map[valueobjects.SubjectID]*entities.Subject
}

// NewSubjectRepository creates an empty in-memory subject repository
func NewSubjectRepository() *SubjectRepository {
	return &SubjectRepository{
		subjects: make(map[valueobjects.SubjectID]*entities.Subject),
	}
}

// Save persists a subject
func (r *SubjectRepository) Save(_ context.Context, subject *entities.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects[subject.ID()] = subject
	return nil
}

// GetByID retrieves a subject by its ID
func (r *SubjectRepository) GetByID(_ context.Context, id valueobjects.SubjectID) (*entities.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subject, ok := r.subjects[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("subject")
	}
	return subject, nil
}

// GetByUserID retrieves all subjects owned by a user, oldest first
func (r *SubjectRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entities.Subject{}
	for _, subject := range r.subjects {
		if subject.UserID() == userID {
			out = append(out, subject)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

// Delete removes a subject
func (r *SubjectRepository) Delete(_ context.Context, id valueobjects.SubjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subjects, id)
	return nil
}

var _ ports.SubjectRepository = (*SubjectRepository)(nil)
