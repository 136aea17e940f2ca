package draft

import "github.com/WorkEnrich-llc/wds-assignment-service/internal/model"

// reconcileLocked restores the order-uniqueness invariant: among all
// questions not tagged for deletion, every order value is pairwise distinct.
//
// Questions are visited in collection order. An unset order defaults to the
// question's active position + 1. When two active questions hold the same
// order, the first occurrence is canonical and keeps it; each subsequent
// holder is reassigned the smallest positive integer not held by ANY active
// question, so a repair never displaces a question whose order was already
// unique. The pass is idempotent — a second run with no intervening mutation
// changes nothing — and never touches the order of deleted questions.
func (s *Store) reconcileLocked() {
	used := make(map[int]bool, len(s.questions))
	var dups []*model.Question

	// First pass: default unset orders and seed the used set with every
	// active order, keeping only the first holder of each value.
	pos := 0
	for _, q := range s.questions {
		if q.RecordType == model.RecordTypeDelete {
			continue
		}
		pos++

		if q.Order <= 0 {
			q.Order = pos
		}

		if used[q.Order] {
			dups = append(dups, q)
			continue
		}
		used[q.Order] = true
	}

	// Second pass: move only the duplicate holders, in collection order.
	next := 1
	for _, q := range dups {
		for used[next] {
			next++
		}
		q.Order = next
		used[next] = true
	}
}
