package memory

import (
	"context"
	"sync"

	"promptline/application/ports"
	"promptline/domain/core/valueobjects"
)

// SubjectLock implements ports.SubjectLock with per-subject mutexes.
type SubjectLock struct {
	mu    sync.Mutex
	locks map[valueobjects.SubjectID]*sync.Mutex
}

// NewSubjectLock creates an in-process subject lock
func NewSubjectLock() *SubjectLock {
	return &SubjectLock{
		locks: make(map[valueobjects.SubjectID]*sync.Mutex),
	}
}

// Acquire blocks until the subject's mutex is held
func (l *SubjectLock) Acquire(_ context.Context, subjectID valueobjects.SubjectID) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[subjectID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[subjectID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

var _ ports.SubjectLock = (*SubjectLock)(nil)
