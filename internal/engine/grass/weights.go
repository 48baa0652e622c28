package grass

// NormalizeWeights rescales group weights and each group's type weights to
// sum to 1. A zero or negative sum falls back to uniform weights, so a
// manifest with all weights omitted still distributes evenly.
func NormalizeWeights(groups []Group) {
	var sum float32
	for i := range groups {
		if groups[i].Weight > 0 {
			sum += groups[i].Weight
		} else {
			groups[i].Weight = 0
		}
	}
	if sum > 0 {
		for i := range groups {
			groups[i].Weight /= sum
		}
	} else if len(groups) > 0 {
		uniform := 1 / float32(len(groups))
		for i := range groups {
			groups[i].Weight = uniform
		}
	}

	for i := range groups {
		normalizeTypeWeights(groups[i].Types)
	}
}

func normalizeTypeWeights(types []Type) {
	var sum float32
	for i := range types {
		if types[i].Weight > 0 {
			sum += types[i].Weight
		} else {
			types[i].Weight = 0
		}
	}
	if sum > 0 {
		for i := range types {
			types[i].Weight /= sum
		}
	} else if len(types) > 0 {
		uniform := 1 / float32(len(types))
		for i := range types {
			types[i].Weight = uniform
		}
	}
}

// SelectGroup picks a group index by roulette wheel over normalized
// weights. roll must be in [0, 1); values at or past the cumulative end
// land on the last group. Returns -1 for an empty table.
func SelectGroup(groups []Group, roll float32) int {
	if len(groups) == 0 {
		return -1
	}
	var cum float32
	for i := range groups {
		cum += groups[i].Weight
		if roll < cum {
			return i
		}
	}
	return len(groups) - 1
}

// SelectType picks a type index within one group by roulette wheel.
// Returns -1 for a group with no types.
func SelectType(g *Group, roll float32) int {
	if len(g.Types) == 0 {
		return -1
	}
	var cum float32
	for i := range g.Types {
		cum += g.Types[i].Weight
		if roll < cum {
			return i
		}
	}
	return len(g.Types) - 1
}
