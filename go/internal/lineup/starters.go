// Package lineup selects the starting five for a completed roster. The
// search is a bounded brute force: rosters are capped at ten players by the
// ten-round draft, so at most 252 five-subsets exist. It stays exhaustive and
// deterministic on purpose; do not replace it with heuristics.
package lineup

import (
	"github.com/google/uuid"
	"github.com/kmartin31/fastbreak/go/internal/models"
)

const (
	// StarterCount is the size of a starting lineup.
	StarterCount = 5
	// MinGuards is the starter minimum for guard-eligible players.
	MinGuards = 2
	// MinForwardCenters is the starter minimum for forward/center-eligible players.
	MinForwardCenters = 1

	// earlyWindow bounds the first search pass: prefer lineups anchored in
	// the first three draft slots so earliest-drafted players win.
	earlyWindow = 3
)

// Slot is one rostered player, in draft order.
type Slot struct {
	PlayerID uuid.UUID
	Position models.Position
}

// AssignStarters picks the starting five from a roster ordered ascending by
// pick number. Returns nil when the roster holds fewer than five players (no
// starters are set, by contract not an error).
//
// Selection order:
//  1. the first five-subset, lexicographic by pick order, meeting the full
//     positional minimums (>=2 guard-eligible, >=1 forward/center-eligible);
//  2. failing that, the same search with minimums capped at what the roster
//     actually holds, so a lone guard is always started;
//  3. failing even that, the first five drafted players.
func AssignStarters(slots []Slot) []uuid.UUID {
	if len(slots) < StarterCount {
		return nil
	}

	if ids := search(slots, MinGuards, MinForwardCenters); ids != nil {
		return ids
	}

	needG := min(MinGuards, countGuards(slots))
	needFC := min(MinForwardCenters, countForwardCenters(slots))
	if ids := search(slots, needG, needFC); ids != nil {
		return ids
	}

	// Pathological roster: keep draft-completion progress anyway.
	ids := make([]uuid.UUID, StarterCount)
	for i := 0; i < StarterCount; i++ {
		ids[i] = slots[i].PlayerID
	}
	return ids
}

// search enumerates five-subsets in lexicographic pick order: first those
// anchored inside earlyWindow, then all of them. The first feasible subset
// wins, which makes the result deterministic.
func search(slots []Slot, needGuards, needForwardCenters int) []uuid.UUID {
	var found []uuid.UUID
	try := func(combo []int) bool {
		if !feasible(slots, combo, needGuards, needForwardCenters) {
			return false
		}
		found = make([]uuid.UUID, len(combo))
		for i, idx := range combo {
			found[i] = slots[idx].PlayerID
		}
		return true
	}

	eachCombination(len(slots), StarterCount, func(combo []int) bool {
		if combo[0] >= earlyWindow {
			return false
		}
		return try(combo)
	})
	if found != nil {
		return found
	}

	eachCombination(len(slots), StarterCount, try)
	return found
}

func feasible(slots []Slot, combo []int, needGuards, needForwardCenters int) bool {
	guards, fcs := 0, 0
	for _, idx := range combo {
		if slots[idx].Position.IsGuard() {
			guards++
		}
		if slots[idx].Position.IsForwardCenter() {
			fcs++
		}
	}
	return guards >= needGuards && fcs >= needForwardCenters
}

// eachCombination yields k-subsets of {0..n-1} in lexicographic order until
// yield returns true.
func eachCombination(n, k int, yield func(combo []int) bool) {
	combo := make([]int, k)
	for i := range combo {
		combo[i] = i
	}
	for {
		if yield(combo) {
			return
		}
		// Advance to the next combination.
		i := k - 1
		for i >= 0 && combo[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		combo[i]++
		for j := i + 1; j < k; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
}

func countGuards(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.Position.IsGuard() {
			n++
		}
	}
	return n
}

func countForwardCenters(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.Position.IsForwardCenter() {
			n++
		}
	}
	return n
}
