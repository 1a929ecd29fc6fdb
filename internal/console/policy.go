package console

import (
	"fmt"

	"github.com/debemdeboas/homeadmin/internal/config"
)

// Ordering decides which of several overlapping fetch responses is applied.
type Ordering int

const (
	// LastResponseWins applies every response in arrival order, so the last
	// response to arrive wins even if it answers an older request.
	LastResponseWins Ordering = iota
	// LatestRequestWins tags each request with a sequence number and drops
	// responses older than one already applied.
	LatestRequestWins
)

func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case config.OrderingLastResponse, "":
		return LastResponseWins, nil
	case config.OrderingLatestRequest:
		return LatestRequestWins, nil
	}
	return 0, fmt.Errorf("unknown ordering %q", s)
}

func (o Ordering) String() string {
	if o == LatestRequestWins {
		return config.OrderingLatestRequest
	}
	return config.OrderingLastResponse
}

// SeedPolicy decides what happens to unsaved edits when a new snapshot seeds
// the drafts.
type SeedPolicy int

const (
	// OverwriteOnSeed replaces every draft with the snapshot value; unsaved
	// edits are discarded.
	OverwriteOnSeed SeedPolicy = iota
	// PreserveUnsavedOnSeed keeps drafts that diverge from their last seed and
	// only moves their baseline to the new snapshot.
	PreserveUnsavedOnSeed
)

func ParseSeedPolicy(s string) (SeedPolicy, error) {
	switch s {
	case config.SeedPolicyOverwrite, "":
		return OverwriteOnSeed, nil
	case config.SeedPolicyPreserveUnsaved:
		return PreserveUnsavedOnSeed, nil
	}
	return 0, fmt.Errorf("unknown seed policy %q", s)
}

func (p SeedPolicy) String() string {
	if p == PreserveUnsavedOnSeed {
		return config.SeedPolicyPreserveUnsaved
	}
	return config.SeedPolicyOverwrite
}
