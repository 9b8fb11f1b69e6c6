package events

import (
	"time"

	"promptline/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// LineageCreated is raised when a new subject starts tracking revisions
type LineageCreated struct {
	BaseEvent
	SubjectID string `json:"subject_id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
}

// NewLineageCreated creates a LineageCreated event
func NewLineageCreated(subjectID valueobjects.SubjectID, userID, name string, timestamp time.Time) LineageCreated {
	return LineageCreated{
		BaseEvent: BaseEvent{
			AggregateID: subjectID.String(),
			EventType:   "lineage.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		SubjectID: subjectID.String(),
		UserID:    userID,
		Name:      name,
	}
}

// RevisionAppended is raised when a revision is accepted into a lineage
type RevisionAppended struct {
	BaseEvent
	SubjectID       string                  `json:"subject_id"`
	RevisionID      valueobjects.RevisionID `json:"revision_id"`
	ParentID        string                  `json:"parent_id,omitempty"`
	SequenceNo      int                     `json:"sequence_no"`
	ChangeType      string                  `json:"change_type"`
	ChangeMagnitude float64                 `json:"change_magnitude"`
}

// NewRevisionAppended creates a RevisionAppended event
func NewRevisionAppended(
	subjectID valueobjects.SubjectID,
	revisionID valueobjects.RevisionID,
	parentID string,
	sequenceNo int,
	changeType valueobjects.ChangeType,
	changeMagnitude float64,
	timestamp time.Time,
) RevisionAppended {
	return RevisionAppended{
		BaseEvent: BaseEvent{
			AggregateID: subjectID.String(),
			EventType:   "revision.appended",
			Timestamp:   timestamp,
			Version:     1,
		},
		SubjectID:       subjectID.String(),
		RevisionID:      revisionID,
		ParentID:        parentID,
		SequenceNo:      sequenceNo,
		ChangeType:      changeType.String(),
		ChangeMagnitude: changeMagnitude,
	}
}

// ScoreAttached is raised when a judge score lands on a revision
type ScoreAttached struct {
	BaseEvent
	SubjectID  string                  `json:"subject_id"`
	RevisionID valueobjects.RevisionID `json:"revision_id"`
	Score      float64                 `json:"score"`
}

// NewScoreAttached creates a ScoreAttached event
func NewScoreAttached(subjectID valueobjects.SubjectID, revisionID valueobjects.RevisionID, score float64, timestamp time.Time) ScoreAttached {
	return ScoreAttached{
		BaseEvent: BaseEvent{
			AggregateID: subjectID.String(),
			EventType:   "score.attached",
			Timestamp:   timestamp,
			Version:     1,
		},
		SubjectID:  subjectID.String(),
		RevisionID: revisionID,
		Score:      score,
	}
}

// BestHeadChanged is raised when a subject's highest-scoring revision changes
type BestHeadChanged struct {
	BaseEvent
	SubjectID  string                  `json:"subject_id"`
	RevisionID valueobjects.RevisionID `json:"revision_id"`
	Score      float64                 `json:"score"`
}

// NewBestHeadChanged creates a BestHeadChanged event
func NewBestHeadChanged(subjectID valueobjects.SubjectID, revisionID valueobjects.RevisionID, score float64, timestamp time.Time) BestHeadChanged {
	return BestHeadChanged{
		BaseEvent: BaseEvent{
			AggregateID: subjectID.String(),
			EventType:   "besthead.changed",
			Timestamp:   timestamp,
			Version:     1,
		},
		SubjectID:  subjectID.String(),
		RevisionID: revisionID,
		Score:      score,
	}
}
