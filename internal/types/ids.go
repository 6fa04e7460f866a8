package types

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID is a custom type that wraps a UUID string.
// It provides type-safe UUID generation, validation, and serialization.
type ID string

// NewID generates a new UUID v4 and returns it as an ID.
// It will never return an error as uuid.New() uses crypto/rand
// which panics on system-level failures (extremely rare).
func NewID() ID {
	return ID(uuid.New().String())
}

// ParseID parses and validates a string as a UUID, returning an ID.
// It returns an error if the string is not a valid UUID format.
func ParseID(s string) (ID, error) {
	if s == "" {
		return "", fmt.Errorf("ID cannot be empty")
	}

	parsedUUID, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid UUID format: %w", err)
	}

	return ID(parsedUUID.String()), nil
}

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// IsZero checks if the ID is empty or zero-valued.
func (id ID) IsZero() bool {
	return id == ""
}

// MarshalJSON implements the json.Marshaler interface.
// It serializes the ID as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// It deserializes a JSON string into an ID. IDs produced by the sequence
// generator are accepted as-is; anything else must be a valid UUID.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal ID: %w", err)
	}

	*id = ID(s)
	return nil
}

// IDGenerator produces identifiers for branches, tasks, and evolution records.
// The planning engine takes a generator rather than calling uuid or the clock
// directly so that plan construction stays deterministic under test.
type IDGenerator interface {
	// NewID returns the next identifier. Implementations must be safe for
	// concurrent use.
	NewID() ID
}

// UUIDGenerator implements IDGenerator with random UUID v4 identifiers.
// This is the production default.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a freshly generated UUID v4.
func (g *UUIDGenerator) NewID() ID {
	return NewID()
}

// SequenceGenerator implements IDGenerator with a monotonic counter.
// Identifiers look like "prefix-000001". Deterministic output makes it the
// generator of choice for tests and golden-file snapshots.
type SequenceGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequenceGenerator creates a SequenceGenerator with the given prefix.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (g *SequenceGenerator) NewID() ID {
	n := g.counter.Add(1)
	return ID(fmt.Sprintf("%s-%06d", g.prefix, n))
}

// Ensure implementations satisfy IDGenerator at compile time
var (
	_ IDGenerator = (*UUIDGenerator)(nil)
	_ IDGenerator = (*SequenceGenerator)(nil)
)
