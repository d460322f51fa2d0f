package battle

import (
	"github.com/harukaze/producecore/internal/catalogue"
	"github.com/harukaze/producecore/internal/hand"
)

// Stage is the turn-progress bucket the stage multiplier classifies by.
type Stage int

const (
	StageMiddle Stage = iota
	StageEarly
	StageLate
)

// stageOf classifies remainingTurns against the fixed 10-turn horizon
// spec.md §4.5.5 defines turn_ratio over.
func stageOf(remainingTurns int) Stage {
	ratio := float64(10-remainingTurns) / 10
	switch {
	case ratio > 0.6:
		return StageEarly
	case ratio < 0.3:
		return StageLate
	default:
		return StageMiddle
	}
}

// veryNegative is the score assigned to slots with no resolved card, so
// they are never chosen over a real candidate.
const veryNegative = -1e9

// ExpertStrategy is the rule-based card evaluator (spec.md §4.5.5): given
// the hand and HudInfo, it scores every available, resolved card and
// commits the maximum.
type ExpertStrategy struct {
	Catalogue *catalogue.Catalogue
}

// BattleHud carries the HudInfo plus max hit-points/genki ceilings, since
// the on-screen HUD only ever shows current values (spec.md §3's HudInfo has
// no max fields) but the cost-penalty weight and stamina-recover stage bonus
// both need a ratio against a ceiling. A ceiling of zero makes its ratio
// read as 1 (full). Loop.readHud fills only HudInfo and leaves both
// ceilings zero, so inside the per-turn loop both ratios read as 1.
type BattleHud struct {
	hand.HudInfo
	MaxHP    int
	MaxGenki int
}

func (b BattleHud) hpRatio() float64 {
	if b.MaxHP <= 0 {
		return 1
	}
	return float64(b.HitPoints) / float64(b.MaxHP)
}

func (b BattleHud) staminaRatio() float64 {
	if b.MaxGenki <= 0 {
		return 1
	}
	return float64(b.Genki) / float64(b.MaxGenki)
}

// Choose scores every available, resolved slot in h and returns the
// highest-scoring one. usedOnce is the set of catalogue asset ids already
// consumed this battle that carry Once=true; such cards are excluded from
// consideration even if the game still shows them available, per the
// "never select a once-card twice in one battle" invariant. Ties are broken
// by hand order (Choose scans left to right and only replaces the current
// best on a strictly greater score).
func (e *ExpertStrategy) Choose(h hand.Hand, hud BattleHud, usedOnce map[int]bool) (hand.Slot, float64, bool) {
	bestScore := veryNegative
	var best hand.Slot
	found := false

	for _, slot := range h.Slots {
		score := e.scoreSlot(slot, hud, usedOnce)
		if score == veryNegative {
			continue
		}
		if !found || score > bestScore {
			bestScore = score
			best = slot
			found = true
		}
	}
	return best, bestScore, found
}

func (e *ExpertStrategy) scoreSlot(slot hand.Slot, hud BattleHud, usedOnce map[int]bool) float64 {
	if !slot.Available || slot.Card == nil {
		return veryNegative
	}
	card := *slot.Card
	if card.Once && usedOnce[card.AssetID] {
		return veryNegative
	}

	effects, err := e.Catalogue.ResolveEffects(card)
	if err != nil {
		return veryNegative
	}

	stage := stageOf(hud.TurnsRemaining)
	effScore := effectScore(effects)
	mult := stageMultiplier(effects, stage, hud)
	penalty := costPenalty(card, hud)

	return effScore*mult + penalty
}

// costPenalty implements the cost-penalty half of the score (spec.md
// §4.5.5): stamina-costing cards are weighted w=1; HP-costing cards are
// weighted w=2 when the HP ratio is below 0.3, else w=1. Costs of 4 or
// less are free.
func costPenalty(card catalogue.SkillCard, hud BattleHud) float64 {
	cost := card.Cost
	w := 1.0
	if card.CostType == catalogue.CostHitPoints && hud.hpRatio() < 0.3 {
		w = 2.0
	}
	if cost <= 4 {
		return 0
	}
	return -float64(cost-4) * w
}

// effectScore sums the base contribution of every effect on the card, per
// the table in spec.md §4.5.5.
func effectScore(effects []catalogue.ExamEffect) float64 {
	total := 0.0
	for _, e := range effects {
		total += singleEffectScore(e)
	}
	return total
}

func singleEffectScore(e catalogue.ExamEffect) float64 {
	switch e.Type {
	case catalogue.EffectExamLesson:
		return e.Value1
	case catalogue.EffectExamBlock:
		return 2 * e.Value1
	case catalogue.EffectExtraCardUse, catalogue.EffectExtraTurn,
		catalogue.EffectDrawEnhanced, catalogue.EffectValueMultiple,
		catalogue.EffectHandReplace:
		return 1000
	case catalogue.EffectCardDraw:
		return 50
	case catalogue.EffectUpgradeInLesson, catalogue.EffectAntiDebuff:
		return 20
	case catalogue.EffectDebuffRecover, catalogue.EffectFullPowerGain,
		catalogue.EffectStatusEnchant, catalogue.EffectGrowEffectAdd,
		catalogue.EffectCardCreate, catalogue.EffectStaminaCostChange,
		catalogue.EffectPreservation, catalogue.EffectBoostPercentage:
		// The table gives a range (+100..+200) for this family rather than a
		// single value; 150 is the stable midpoint, consistent with the
		// spec's note that exact tuning matters less than relative ordering.
		return 150
	case catalogue.EffectGoodCondition:
		return 4 * float64(e.Turns)
	case catalogue.EffectAbsoluteGoodCondition:
		return 10 * float64(e.Turns)
	case catalogue.EffectFocus, catalogue.EffectConcentration:
		return e.Value1
	case catalogue.EffectStaminaCostDown:
		if e.Turns > 0 {
			return float64(e.Turns) * 2
		}
		return e.Value1 * 2
	case catalogue.EffectStaminaRecover:
		return 10
	case catalogue.EffectStaminaCostUp:
		return -10
	default:
		return 0
	}
}

// stageMultiplier implements the additive stage-multiplier bumps in
// spec.md §4.5.5, starting from 1.0.
func stageMultiplier(effects []catalogue.ExamEffect, stage Stage, hud BattleHud) float64 {
	m := 1.0
	staminaRatio := hud.staminaRatio()
	for _, e := range effects {
		switch e.Type {
		case catalogue.EffectDirectDamage, catalogue.EffectDebuffRecover,
			catalogue.EffectMultiplyByGoodCondition:
			if stage == StageLate {
				m += 0.15
			}
		case catalogue.EffectGoodCondition, catalogue.EffectFocus,
			catalogue.EffectGoodImpression, catalogue.EffectMotivation,
			catalogue.EffectFullPowerGain, catalogue.EffectStaminaCostDown:
			if stage == StageEarly {
				m += 0.10
			}
		case catalogue.EffectStaminaRecover:
			if staminaRatio < 0.3 {
				m += 0.20
			}
		}
	}
	return m
}
