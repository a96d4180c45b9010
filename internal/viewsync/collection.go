// Package viewsync keeps a client-side collection mirrored against server
// state. Mutations follow a strict confirm-then-apply contract: the local
// list changes only after the server has returned the canonical record,
// never from locally-constructed interim data.
package viewsync

import (
	"fmt"
	"sync"
)

// MutationState tracks the lifecycle of the collection's in-flight mutation.
type MutationState string

const (
	StateIdle      MutationState = "idle"
	StatePending   MutationState = "pending"
	StateConfirmed MutationState = "confirmed"
	StateFailed    MutationState = "failed"
)

// Collection mirrors one server-side resource list. At most one mutation
// is in flight at a time.
type Collection[T any] struct {
	mu       sync.Mutex
	idOf     func(T) string
	items    []T
	state    MutationState
	failure  string
	selected string
}

// NewCollection builds an empty mirror. idOf extracts a record's identifier.
func NewCollection[T any](idOf func(T) string) *Collection[T] {
	return &Collection[T]{idOf: idOf, state: StateIdle}
}

// Replace resets the mirror from a full server list response.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

// Items returns a copy of the mirrored records.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Len reports how many records are mirrored.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// State reports the current mutation state.
func (c *Collection[T]) State() MutationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FailureReason returns the surfaced reason of the last failed mutation.
func (c *Collection[T]) FailureReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Begin registers a pending mutation. Only one may be in flight.
func (c *Collection[T]) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePending {
		return fmt.Errorf("mutation already pending")
	}
	c.state = StatePending
	c.failure = ""
	return nil
}

// ConfirmCreate appends the server-returned canonical record.
func (c *Collection[T]) ConfirmCreate(canonical T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.confirmLocked(); err != nil {
		return err
	}
	c.items = append(c.items, canonical)
	return nil
}

// ConfirmUpdate replaces the matching record with the canonical one.
func (c *Collection[T]) ConfirmUpdate(canonical T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.confirmLocked(); err != nil {
		return err
	}
	id := c.idOf(canonical)
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items[i] = canonical
			return nil
		}
	}
	return fmt.Errorf("confirmed update for unknown record %q", id)
}

// ConfirmDelete removes the record with the given id.
func (c *Collection[T]) ConfirmDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.confirmLocked(); err != nil {
		return err
	}
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			if c.selected == id {
				c.selected = ""
			}
			return nil
		}
	}
	return fmt.Errorf("confirmed delete for unknown record %q", id)
}

// Fail records the server-reported reason and leaves the records untouched.
func (c *Collection[T]) Fail(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePending {
		return fmt.Errorf("no pending mutation to fail")
	}
	c.state = StateFailed
	c.failure = reason
	return nil
}

func (c *Collection[T]) confirmLocked() error {
	if c.state != StatePending {
		return fmt.Errorf("no pending mutation to confirm")
	}
	c.state = StateConfirmed
	return nil
}

// Select marks a record as the target of an edit/delete modal. The record
// itself is always re-read from the mirrored canonical data.
func (c *Collection[T]) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.selected = id
			return nil
		}
	}
	return fmt.Errorf("cannot select unknown record %q", id)
}

// ClearSelection drops the selection when its modal is dismissed.
func (c *Collection[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
}

// Selected returns the canonical record currently targeted, if any.
func (c *Collection[T]) Selected() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if c.selected == "" {
		return zero, false
	}
	for i := range c.items {
		if c.idOf(c.items[i]) == c.selected {
			return c.items[i], true
		}
	}
	return zero, false
}
