// Package memory implements the persistence ports with in-process
// maps. It backs local development and tests; production runs on
// DynamoDB.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"promptline/application/ports"
	domaincfg "promptline/domain/config"
	"promptline/domain/core/aggregates"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

// LineageRepository implements ports.LineageRepository in memory.
type LineageRepository struct {
	mu        sync.RWMutex
	revisions map[valueobjects.SubjectID]map[valueobjects.RevisionID]*entities.Revision
	bestHeads map[valueobjects.SubjectID]valueobjects.RevisionID
	cfg       *domaincfg.DomainConfig
}

// NewLineageRepository creates an empty in-memory lineage repository
func NewLineageRepository(cfg *domaincfg.DomainConfig) *LineageRepository {
	return &LineageRepository{
		revisions: make(map[valueobjects.SubjectID]map[valueobjects.RevisionID]*entities.Revision),
		bestHeads: make(map[valueobjects.SubjectID]valueobjects.RevisionID),
		cfg:       cfg,
	}
}

// SaveRevision persists one revision
func (r *LineageRepository) SaveRevision(_ context.Context, rev *entities.Revision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bySubject, ok := r.revisions[rev.SubjectID()]
	if !ok {
		bySubject = make(map[valueobjects.RevisionID]*entities.Revision)
		r.revisions[rev.SubjectID()] = bySubject
	}
	bySubject[rev.ID()] = rev
	return nil
}

// GetBySubjectID rebuilds the lineage aggregate from stored revisions
func (r *LineageRepository) GetBySubjectID(_ context.Context, subjectID valueobjects.SubjectID) (*aggregates.Lineage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	revisions := make([]*entities.Revision, 0, len(r.revisions[subjectID]))
	for _, rev := range r.revisions[subjectID] {
		revisions = append(revisions, rev)
	}
	return aggregates.ReconstructLineage(subjectID, revisions, r.cfg)
}

// GetRevision retrieves one revision
func (r *LineageRepository) GetRevision(_ context.Context, subjectID valueobjects.SubjectID, revisionID valueobjects.RevisionID) (*entities.Revision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rev, ok := r.revisions[subjectID][revisionID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("revision")
	}
	return rev, nil
}

// GetRevisionsInWindow returns revisions inside [start, end] ordered
// by creation time
func (r *LineageRepository) GetRevisionsInWindow(_ context.Context, subjectID valueobjects.SubjectID, start, end *time.Time) ([]*entities.Revision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entities.Revision{}
	for _, rev := range r.revisions[subjectID] {
		if start != nil && rev.CreatedAt().Before(*start) {
			continue
		}
		if end != nil && rev.CreatedAt().After(*end) {
			continue
		}
		out = append(out, rev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].SequenceNo() < out[j].SequenceNo()
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

// SaveBestHead records the best-head pointer
func (r *LineageRepository) SaveBestHead(_ context.Context, subjectID valueobjects.SubjectID, revisionID valueobjects.RevisionID, _ float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bestHeads[subjectID] = revisionID
	return nil
}

// GetBestHead returns the best-head pointer, or nil if unset
func (r *LineageRepository) GetBestHead(_ context.Context, subjectID valueobjects.SubjectID) (*valueobjects.RevisionID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bestHeads[subjectID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

var _ ports.LineageRepository = (*LineageRepository)(nil)
