// Package session implements the exam session engine: one active attempt at a
// question list, answer checking with partial credit, scoring, and durable
// recovery through a pluggable key-value store.
package session

import (
	"context"
	"errors"
	"fmt"
)

// Storage keys. The layout is fixed so sessions written by one backend can be
// recovered from another.
const (
	KeySession        = "examSession"
	KeyAnswers        = "examAnswers"
	KeyAutoRemove     = "wrongQuestionAutoRemove"
	counterKeyPattern = "wrongQuestion_%s_correctCount"
)

// CounterKey returns the per-question correct-streak counter key.
func CounterKey(questionID string) string {
	return fmt.Sprintf(counterKeyPattern, questionID)
}

// ErrKeyNotFound is returned by Get when the key has no value.
var ErrKeyNotFound = errors.New("session store: key not found")

// Store is the durable slot the engine persists into. Values are opaque
// strings; the engine stores JSON documents and plain integers.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// AutoRemovePolicy controls wrong-question auto-removal: after RemoveAfter
// consecutive correct answers the question leaves the wrong-question book.
type AutoRemovePolicy struct {
	Enabled     bool `json:"enabled"`
	RemoveAfter int  `json:"removeAfter"`
}
