// Package storage defines the snapshot store used to persist analysis
// results. Two backends are provided: an in-memory store for
// single-instance deployments and a Redis-backed store for shared state
// across multiple analyzer instances.
package storage

import "time"

// Kind identifies which analysis produced a snapshot.
type Kind string

const (
	KindPerformance Kind = "performance"
	KindResource    Kind = "resource"
)

// Snapshot is one completed analysis result, keyed by the target it was
// computed for. Only the latest snapshot per target is retrievable.
type Snapshot struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	Kind        Kind      `json:"kind"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     string    `json:"summary"`
	Received    int       `json:"received"`
	Retained    int       `json:"retained"`
}

// Store persists analysis snapshots.
type Store interface {
	Put(Snapshot) error
	GetLatest(target string) (Snapshot, bool, error)
}
