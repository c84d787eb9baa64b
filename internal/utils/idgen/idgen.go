package idgen

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu   sync.Mutex
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

// NewID returns a random UUID string used as a row primary key.
func NewID() string {
	return uuid.NewString()
}

// IsValidID reports whether value is a UUID.
func IsValidID(value string) bool {
	_, err := uuid.Parse(strings.TrimSpace(value))
	return err == nil
}

// NewULID returns a lowercase, time ordered ULID used for storage keys.
func NewULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return strings.ToLower(id.String())
}

// ParseULID parses a ULID regardless of case.
func ParseULID(value string) (ulid.ULID, error) {
	return ulid.ParseStrict(strings.ToUpper(strings.TrimSpace(value)))
}
