package engine

// ============================================================================
// JOIN — Inner join of two aggregated group lists on Key
// ============================================================================

// InnerJoin pairs groups sharing a key. Keys present on only one side are
// dropped. Output follows left order; a key repeated on the right pairs with
// its first occurrence.
func InnerJoin(left, right []Group) []JoinedGroup {
	byKey := make(map[string]Group, len(right))
	for _, g := range right {
		if _, exists := byKey[g.Key]; !exists {
			byKey[g.Key] = g
		}
	}

	joined := make([]JoinedGroup, 0, len(left))
	for _, l := range left {
		r, ok := byKey[l.Key]
		if !ok {
			continue
		}
		joined = append(joined, JoinedGroup{Key: l.Key, Left: l, Right: r})
	}
	return joined
}
