package tui

// sectionSpec describes one vertical section of a detail page.
type sectionSpec struct {
	// Min is the smallest height the section still works at.
	Min int
	// Weight controls how surplus lines are shared. Zero means the
	// section stays at Min.
	Weight int
}

// allocateHeights splits total lines among sections. Every section gets
// its Min first; surplus is distributed proportionally by Weight, with
// the leftover lines going to the earliest weighted sections. When
// total cannot cover the minimums, sections are shrunk from the bottom
// up, never below 1.
func allocateHeights(total int, sections []sectionSpec) []int {
	if len(sections) == 0 {
		return nil
	}

	heights := make([]int, len(sections))
	minSum := 0
	for i, s := range sections {
		heights[i] = s.Min
		if heights[i] < 1 {
			heights[i] = 1
		}
		minSum += heights[i]
	}

	if total <= minSum {
		// Shrink from the bottom up until we fit.
		deficit := minSum - total
		for i := len(heights) - 1; i >= 0 && deficit > 0; i-- {
			give := heights[i] - 1
			if give > deficit {
				give = deficit
			}
			heights[i] -= give
			deficit -= give
		}
		return heights
	}

	surplus := total - minSum
	weightSum := 0
	for _, s := range sections {
		weightSum += s.Weight
	}
	if weightSum == 0 {
		return heights
	}

	distributed := 0
	for i, s := range sections {
		share := surplus * s.Weight / weightSum
		heights[i] += share
		distributed += share
	}
	// Hand out rounding leftovers to weighted sections in order.
	for i := 0; distributed < surplus; i = (i + 1) % len(sections) {
		if sections[i].Weight > 0 {
			heights[i]++
			distributed++
		}
	}
	return heights
}
