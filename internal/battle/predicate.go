package battle

// BattleType distinguishes the three card-battle flavours the recommended
// card detector tunes its threshold for.
type BattleType int

const (
	BattlePractice BattleType = iota
	BattleExamMid
	BattleExamFinal
)

// DetectionMode is the user-configured recommend-card detection mode.
type DetectionMode int

const (
	ModeNormal DetectionMode = iota
	ModeStrict
)

// AcceptPredicate reports whether result is a strong enough recommendation
// to act on, given how many cards are in hand, whether this slot is the
// last one (exempting it from the n>=4 right-border occlusion rule), and
// whether this is the SKIP pseudo-card.
type AcceptPredicate func(cardCount int, isLast bool, isSkip bool, r CardResult) bool

// bordersAtLeast reports whether at least n of the four border coverages
// meet threshold. When the n>=4 occlusion rule applies, the right border is
// excluded from consideration entirely rather than counted as a miss.
func bordersAtLeast(r CardResult, threshold float64, n int, excludeRight bool) bool {
	borders := []float64{r.Left, r.Top, r.Bottom}
	if !excludeRight {
		borders = append(borders, r.Right)
	}
	count := 0
	for _, b := range borders {
		if b >= threshold {
			count++
		}
	}
	return count >= n
}

func allBordersAtLeast(r CardResult, threshold float64, excludeRight bool) bool {
	need := 3
	if !excludeRight {
		need = 4
	}
	return bordersAtLeast(r, threshold, need, excludeRight)
}

// occluded reports whether the n>=4 edge rule applies: with four or more
// cards in hand, every slot but the last has its right border occluded by
// the next card, so the right-border coverage must not be required.
func occluded(cardCount int, isLast bool) bool {
	return cardCount >= 4 && !isLast
}

// Predicate returns the acceptance predicate for the given detection mode
// and battle type, per spec.md §4.5.2's table.
func Predicate(mode DetectionMode, bt BattleType) AcceptPredicate {
	switch {
	case mode == ModeStrict && bt == BattlePractice:
		return func(cardCount int, isLast, isSkip bool, r CardResult) bool {
			return r.Score >= 0.043 && bordersAtLeast(r, 0.04, 3, occluded(cardCount, isLast))
		}
	case mode == ModeNormal && bt == BattlePractice:
		return func(cardCount int, isLast, isSkip bool, r CardResult) bool {
			return r.Score >= 0.03
		}
	case mode == ModeStrict && bt == BattleExamMid:
		return func(cardCount int, isLast, isSkip bool, r CardResult) bool {
			return r.Score >= 0.10 && allBordersAtLeast(r, 0.01, occluded(cardCount, isLast))
		}
	case mode == ModeStrict && bt == BattleExamFinal:
		return func(cardCount int, isLast, isSkip bool, r CardResult) bool {
			return r.Score >= 0.40 && allBordersAtLeast(r, 0.20, occluded(cardCount, isLast))
		}
	case mode == ModeNormal && bt == BattleExamMid:
		return func(cardCount int, isLast, isSkip bool, r CardResult) bool {
			return r.Score >= 0.10 && allBordersAtLeast(r, 0.01, occluded(cardCount, isLast))
		}
	case mode == ModeNormal && bt == BattleExamFinal:
		return func(cardCount int, isLast, isSkip bool, r CardResult) bool {
			threshold := r.Score >= 0.15
			if isSkip {
				threshold = r.Score >= 0.40
			}
			return threshold && bordersAtLeast(r, 0.02, 3, occluded(cardCount, isLast))
		}
	default:
		return func(int, bool, bool, CardResult) bool { return false }
	}
}

// RecommendCard filters results by accept and returns the highest-scoring
// survivor. lastIndex identifies which result corresponds to the hand's
// last slot (for the occlusion rule); skipIndex identifies the SKIP
// pseudo-card, if included in results.
func RecommendCard(results []CardResult, cardCount int, lastIndex int, skipIndex int, accept AcceptPredicate) (CardResult, bool) {
	best := CardResult{}
	found := false
	for _, r := range results {
		isLast := r.Index == lastIndex
		isSkip := r.Index == skipIndex
		if !accept(cardCount, isLast, isSkip, r) {
			continue
		}
		if !found || r.Score > best.Score {
			best = r
			found = true
		}
	}
	return best, found
}
