package ports

import (
	"context"
	"time"

	"promptline/domain/core/aggregates"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	"promptline/domain/events"
)

// SubjectRepository persists subjects.
type SubjectRepository interface {
	// Save persists a subject (create or update)
	Save(ctx context.Context, subject *entities.Subject) error

	// GetByID retrieves a subject by its ID
	GetByID(ctx context.Context, id valueobjects.SubjectID) (*entities.Subject, error)

	// GetByUserID retrieves all subjects owned by a user
	GetByUserID(ctx context.Context, userID string) ([]*entities.Subject, error)

	// Delete removes a subject and its revisions
	Delete(ctx context.Context, id valueobjects.SubjectID) error
}

// LineageRepository persists revision lineages. Implementations load
// the full revision set for a subject; the aggregate enforces the DAG
// invariants in memory.
type LineageRepository interface {
	// GetBySubjectID loads the lineage for a subject. A subject with no
	// revisions yet yields an empty lineage, not an error.
	GetBySubjectID(ctx context.Context, subjectID valueobjects.SubjectID) (*aggregates.Lineage, error)

	// SaveRevision persists a single revision
	SaveRevision(ctx context.Context, rev *entities.Revision) error

	// GetRevision retrieves one revision by subject and revision ID
	GetRevision(ctx context.Context, subjectID valueobjects.SubjectID, revisionID valueobjects.RevisionID) (*entities.Revision, error)

	// GetRevisionsInWindow retrieves revisions inside [start, end],
	// ordered by creation time. Nil bounds are open.
	GetRevisionsInWindow(ctx context.Context, subjectID valueobjects.SubjectID, start, end *time.Time) ([]*entities.Revision, error)

	// SaveBestHead records the subject's highest-scoring revision
	SaveBestHead(ctx context.Context, subjectID valueobjects.SubjectID, revisionID valueobjects.RevisionID, score float64) error

	// GetBestHead returns the subject's best head, or nil if unset
	GetBestHead(ctx context.Context, subjectID valueobjects.SubjectID) (*valueobjects.RevisionID, error)
}

// SubjectLock serializes writers per subject. Append and score paths
// take the lock so sequence numbers stay dense under concurrency.
type SubjectLock interface {
	// Acquire takes the lock for a subject, blocking up to the
	// implementation's timeout. The returned release func must be
	// called exactly once.
	Acquire(ctx context.Context, subjectID valueobjects.SubjectID) (release func(), err error)
}

// EventPublisher pushes domain events to the outside world.
type EventPublisher interface {
	// Publish sends events; failures are reported but callers treat
	// publication as best effort after the state change is durable.
	Publish(ctx context.Context, evts []events.DomainEvent) error
}

// Cache is a read-side cache for query results.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttlSeconds int)
	Delete(ctx context.Context, key string)
}
