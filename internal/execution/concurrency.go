package execution

import "sort"

// openPosition tracks one admitted (entry, exit) pair during the forward
// pass.
type openPosition struct {
	entry, exit int
}

// FilterOverlapping enforces maxConcurrent open positions over a sorted
// stream of entry indices with known exit indices, via a single forward
// pass. A position exiting exactly on a candidate's entry index does not
// count against it (same-bar re-entry on the exit bar is allowed).
// maxConcurrent <= 0 disables filtering (all signals pass).
func FilterOverlapping(entryIndices, exitIndices []int, maxConcurrent int) []int {
	if len(entryIndices) == 0 {
		return nil
	}
	if len(entryIndices) == 1 || maxConcurrent <= 0 {
		out := make([]int, len(entryIndices))
		copy(out, entryIndices)
		return out
	}

	order := make([]int, len(entryIndices))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return entryIndices[order[a]] < entryIndices[order[b]] })

	var kept []int
	var open []openPosition
	for _, idx := range order {
		entry, exit := entryIndices[idx], exitIndices[idx]

		stillOpen := open[:0]
		for _, p := range open {
			if p.exit > entry {
				stillOpen = append(stillOpen, p)
			}
		}
		open = stillOpen

		if len(open) < maxConcurrent {
			kept = append(kept, entry)
			open = append(open, openPosition{entry: entry, exit: exit})
		}
	}
	return kept
}

// FilterSimpleWindow applies the conservative fallback used when exit
// indices are not yet known: keep the first signal, then accept subsequent
// signals only up to maxConcurrent total admitted without overlap
// information. Callers should prefer FilterOverlapping once exit indices
// are available (typically after simulation).
func FilterSimpleWindow(sortedEntryIndices []int, maxConcurrent int) []int {
	if len(sortedEntryIndices) == 0 {
		return nil
	}
	if maxConcurrent <= 0 {
		out := make([]int, len(sortedEntryIndices))
		copy(out, sortedEntryIndices)
		return out
	}

	kept := []int{sortedEntryIndices[0]}
	for i := 1; i < len(sortedEntryIndices); i++ {
		if len(kept) < maxConcurrent {
			kept = append(kept, sortedEntryIndices[i])
		}
	}
	return kept
}
