package aggregates

import (
	"sort"
	"time"

	"promptline/domain/config"
	"promptline/domain/core/classifiers"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	"promptline/domain/events"
	pkgerrors "promptline/pkg/errors"
)

// Edge is a scored parent->child transition in a lineage. Both endpoints
// carry a judge score, so the score delta is well defined.
type Edge struct {
	ParentID   valueobjects.RevisionID
	ChildID    valueobjects.RevisionID
	ChangeType valueobjects.ChangeType
	ScoreDelta float64
	TimeDelta  time.Duration
}

// Lineage is the aggregate root for one subject's revision history.
// It owns the DAG invariants: parents exist before children, no cycles,
// time moves forward along every edge, and sequence numbers are dense.
type Lineage struct {
	subjectID  valueobjects.SubjectID
	revisions  map[valueobjects.RevisionID]*entities.Revision
	bestHead   *valueobjects.RevisionID
	classifier *classifiers.RevisionClassifier
	cfg        *config.DomainConfig
	version    int
	events     []events.DomainEvent
}

// NewLineage creates an empty lineage for a subject.
func NewLineage(subjectID valueobjects.SubjectID, cfg *config.DomainConfig) (*Lineage, error) {
	if subjectID.IsZero() {
		return nil, pkgerrors.NewValidationError("subject ID is required", nil)
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Lineage{
		subjectID:  subjectID,
		revisions:  make(map[valueobjects.RevisionID]*entities.Revision),
		classifier: classifiers.NewRevisionClassifier(cfg),
		cfg:        cfg,
		version:    1,
		events:     []events.DomainEvent{},
	}, nil
}

// ReconstructLineage rebuilds a lineage from stored revisions. The
// stored set is trusted to satisfy the append invariants; the best head
// is recomputed rather than persisted separately here.
func ReconstructLineage(
	subjectID valueobjects.SubjectID,
	revisions []*entities.Revision,
	cfg *config.DomainConfig,
) (*Lineage, error) {
	l, err := NewLineage(subjectID, cfg)
	if err != nil {
		return nil, err
	}
	for _, rev := range revisions {
		l.revisions[rev.ID()] = rev
	}
	l.recomputeBestHead()
	return l, nil
}

// SubjectID returns the owning subject's identifier.
func (l *Lineage) SubjectID() valueobjects.SubjectID { return l.subjectID }

// Len returns the number of revisions in the lineage.
func (l *Lineage) Len() int { return len(l.revisions) }

// Revision returns the revision with the given ID, if present.
func (l *Lineage) Revision(id valueobjects.RevisionID) (*entities.Revision, bool) {
	rev, ok := l.revisions[id]
	return rev, ok
}

// BestHead returns the highest-scoring revision ID, or nil if no
// revision has been scored yet. Ties go to the earlier sequence number.
func (l *Lineage) BestHead() *valueobjects.RevisionID {
	if l.bestHead == nil {
		return nil
	}
	cp := *l.bestHead
	return &cp
}

// Append validates and adds a new revision. The parent must already be
// in the lineage (or nil for a root), the child's timestamp must be
// strictly after the parent's, and the parent chain must be acyclic.
// Change type and magnitude are classified against the parent's text;
// roots get change type "other" and magnitude zero.
func (l *Lineage) Append(
	text valueobjects.PromptText,
	parentID *valueobjects.RevisionID,
	createdAt time.Time,
) (*entities.Revision, error) {
	var parent *entities.Revision
	if parentID != nil {
		p, ok := l.revisions[*parentID]
		if !ok {
			return nil, pkgerrors.NewDanglingParentError(l.subjectID.String(), parentID.String())
		}
		parent = p
		if !createdAt.After(parent.CreatedAt()) {
			return nil, pkgerrors.NewValidationError("revision must be created after its parent", map[string]interface{}{
				"parent_created_at": parent.CreatedAt().Format(time.RFC3339Nano),
				"child_created_at":  createdAt.UTC().Format(time.RFC3339Nano),
			})
		}
		if err := l.checkAncestry(*parentID); err != nil {
			return nil, err
		}
	}

	changeType := valueobjects.ChangeTypeOther
	magnitude := 0.0
	if parent != nil {
		changeType = l.classifier.ComputeChangeType(parent.Text().Body(), text.Body())
		magnitude = l.classifier.ComputeChangeMagnitude(parent.Text().Body(), text.Body())
	}

	rev, err := entities.NewRevision(
		l.subjectID,
		l.nextSequenceNo(),
		text,
		parentID,
		createdAt,
		changeType,
		magnitude,
	)
	if err != nil {
		return nil, err
	}

	l.revisions[rev.ID()] = rev
	l.version++

	parentStr := ""
	if parentID != nil {
		parentStr = parentID.String()
	}
	l.addEvent(events.NewRevisionAppended(
		l.subjectID, rev.ID(), parentStr, rev.SequenceNo(),
		changeType, magnitude, rev.CreatedAt(),
	))

	return rev, nil
}

// AttachScore records a rubric card on a revision and updates the best
// head if the new overall score beats the current best.
func (l *Lineage) AttachScore(revisionID valueobjects.RevisionID, card valueobjects.ScoreCard) (*entities.Revision, error) {
	rev, ok := l.revisions[revisionID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("revision")
	}
	if err := rev.AttachScore(card, l.cfg); err != nil {
		return nil, err
	}
	l.version++

	score := *rev.Score()
	l.addEvent(events.NewScoreAttached(l.subjectID, revisionID, score, time.Now().UTC()))

	if l.promoteBestHead(rev) {
		l.addEvent(events.NewBestHeadChanged(l.subjectID, revisionID, score, time.Now().UTC()))
	}
	return rev, nil
}

// Chain returns revisions ordered by creation time (sequence number
// breaks ties), optionally restricted to a [start, end] window. Nil
// bounds are open. An empty result is not an error.
func (l *Lineage) Chain(start, end *time.Time) []*entities.Revision {
	out := make([]*entities.Revision, 0, len(l.revisions))
	for _, rev := range l.revisions {
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
	return out
}

// ScoredEdges returns every parent->child pair where both revisions
// carry a score, ordered by the child's creation time, optionally
// restricted to a [start, end] window on the child. Edges with an
// unscored endpoint are skipped: a score delta needs both sides.
func (l *Lineage) ScoredEdges(start, end *time.Time) []Edge {
	children := make([]*entities.Revision, 0, len(l.revisions))
	for _, rev := range l.revisions {
		if rev.IsRoot() || !rev.IsScored() {
			continue
		}
		if start != nil && rev.CreatedAt().Before(*start) {
			continue
		}
		if end != nil && rev.CreatedAt().After(*end) {
			continue
		}
		parent, ok := l.revisions[*rev.ParentID()]
		if !ok || !parent.IsScored() {
			continue
		}
		children = append(children, rev)
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].CreatedAt().Equal(children[j].CreatedAt()) {
			return children[i].SequenceNo() < children[j].SequenceNo()
		}
		return children[i].CreatedAt().Before(children[j].CreatedAt())
	})

	edges := make([]Edge, 0, len(children))
	for _, child := range children {
		parent := l.revisions[*child.ParentID()]
		edges = append(edges, Edge{
			ParentID:   parent.ID(),
			ChildID:    child.ID(),
			ChangeType: child.ChangeType(),
			ScoreDelta: *child.Score() - *parent.Score(),
			TimeDelta:  child.CreatedAt().Sub(parent.CreatedAt()),
		})
	}
	return edges
}

// GetUncommittedEvents returns events raised since the last clear.
func (l *Lineage) GetUncommittedEvents() []events.DomainEvent {
	return l.events
}

// ClearEvents resets the uncommitted event list.
func (l *Lineage) ClearEvents() {
	l.events = []events.DomainEvent{}
}

func (l *Lineage) addEvent(event events.DomainEvent) {
	l.events = append(l.events, event)
}

// nextSequenceNo is one past the current maximum, starting at 1.
func (l *Lineage) nextSequenceNo() int {
	max := 0
	for _, rev := range l.revisions {
		if rev.SequenceNo() > max {
			max = rev.SequenceNo()
		}
	}
	return max + 1
}

// checkAncestry walks the parent chain from the given revision and
// fails if it revisits a revision or exceeds the configured walk bound.
// Appends of fresh revisions cannot introduce cycles themselves, but
// reconstructed or imported histories can carry them in.
func (l *Lineage) checkAncestry(from valueobjects.RevisionID) error {
	seen := make(map[valueobjects.RevisionID]bool)
	current := &from
	steps := 0
	for current != nil {
		if seen[*current] {
			return pkgerrors.NewCycleError(l.subjectID.String(), current.String())
		}
		if steps >= l.cfg.MaxAncestorWalk {
			return pkgerrors.NewCycleError(l.subjectID.String(), current.String())
		}
		seen[*current] = true
		steps++
		rev, ok := l.revisions[*current]
		if !ok {
			return pkgerrors.NewDanglingParentError(l.subjectID.String(), current.String())
		}
		current = rev.ParentID()
	}
	return nil
}

// promoteBestHead updates the best head if this revision's score beats
// the current best. Strictly-greater keeps earlier winners on ties.
func (l *Lineage) promoteBestHead(rev *entities.Revision) bool {
	if rev.Score() == nil {
		return false
	}
	if l.bestHead == nil {
		id := rev.ID()
		l.bestHead = &id
		return true
	}
	current := l.revisions[*l.bestHead]
	if current == nil || current.Score() == nil || *rev.Score() > *current.Score() {
		id := rev.ID()
		l.bestHead = &id
		return true
	}
	return false
}

func (l *Lineage) recomputeBestHead() {
	l.bestHead = nil
	var bestScore float64
	var bestSeq int
	for _, rev := range l.revisions {
		if rev.Score() == nil {
			continue
		}
		s := *rev.Score()
		if l.bestHead == nil || s > bestScore || (s == bestScore && rev.SequenceNo() < bestSeq) {
			id := rev.ID()
			l.bestHead = &id
			bestScore = s
			bestSeq = rev.SequenceNo()
		}
	}
}
