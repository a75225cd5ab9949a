package planner

// AllocateDays splits a day budget across ordered locations in proportion to
// their weights:
//  1. floor(days * weight / totalWeight) each
//  2. while short, +1 to the lowest days/weight ratio (first wins ties)
//  3. if days >= len(order), lift every zero to one
//  4. while over, -1 from the largest allocation above one (first wins ties)
//
// A missing or non-positive weight counts as 1. The result always sums to
// days; step 4 stops once every allocation is 1, so with fewer days than
// locations some locations keep 0.
func AllocateDays(order []string, weights map[string]int, days int) map[string]int {
	alloc := make(map[string]int, len(order))
	if len(order) == 0 {
		return alloc
	}
	days = max(days, 1)

	weightOf := func(key string) int {
		if w := weights[key]; w > 0 {
			return w
		}
		return 1
	}

	totalWeight := 0
	for _, key := range order {
		totalWeight += weightOf(key)
	}

	assigned := 0
	for _, key := range order {
		alloc[key] = days * weightOf(key) / totalWeight
		assigned += alloc[key]
	}

	for assigned < days {
		best := order[0]
		for _, key := range order[1:] {
			// alloc[key]/w(key) < alloc[best]/w(best), compared without division
			if alloc[key]*weightOf(best) < alloc[best]*weightOf(key) {
				best = key
			}
		}
		alloc[best]++
		assigned++
	}

	if days >= len(order) {
		for _, key := range order {
			if alloc[key] < 1 {
				alloc[key] = 1
				assigned++
			}
		}
	}

	for assigned > days {
		best := ""
		for _, key := range order {
			if alloc[key] > 1 && (best == "" || alloc[key] > alloc[best]) {
				best = key
			}
		}
		if best == "" {
			break
		}
		alloc[best]--
		assigned--
	}

	return alloc
}
