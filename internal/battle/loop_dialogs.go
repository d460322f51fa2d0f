package battle

import (
	"image"

	"github.com/harukaze/producecore/internal/catalogue"
	"github.com/harukaze/producecore/internal/vision"
)

// Prefab keys for the popups do_cards itself handles, distinct from the
// scene recognizer's interrupt layer: these can appear mid-battle without
// changing the controller's top-level scene classification.
const (
	keySkillCardMoveTitle     = "InPurodyuusu.SkillCardMoveTitle"
	keyYesDialogButton        = "InPurodyuusu.YesDialogButton"
	keyUseDrinkTitle          = "InPurodyuusu.UseDrinkTitle"
	keyUseDrinkConfirmButton  = "InPurodyuusu.UseDrinkConfirmButton"
	keyEffectUnactivatableOK  = "InPurodyuusu.EffectUnactivatableCheckmark"
	keyDateChangeTitle        = "InPurodyuusu.DateChangeTitle"
	keyDateChangeDismiss      = "InPurodyuusu.DateChangeDismissButton"
	keyExamDrinkSlotOrdinary  = "InPurodyuusu.ExamDrinkOrdinaryBadge"
)

var fullFrame = image.Rect(0, 0, vision.LogicalWidth, vision.LogicalHeight)

// handlePreDecisionDialogs runs do_cards steps 1-4 and 8: popups that can
// interleave with the battle loop without leaving the battle scene. Returns
// true if it consumed the tick (a click was issued or a sub-loop is still
// settling), in which case the main decision step (5-7, 9) is skipped.
func (l *Loop) handlePreDecisionDialogs(shot vision.Screenshot) bool {
	v := l.deps.Vision
	dev := l.deps.Device

	// Step 1: skill-card-move dialog. Select detected cards one by one and
	// confirm via the yes dialog until the title disappears.
	if vision.Exists(v, shot, vision.Prefab{Key: keySkillCardMoveTitle, Search: fullFrame, Threshold: 0.85}) {
		if yes := vision.Find(v, shot, vision.Prefab{Key: keyYesDialogButton, Search: fullFrame, Threshold: 0.85}); yes.Found {
			_ = dev.ClickRect(yes.Rect)
			return true
		}
		n := DetectHandCount(v, shot)
		if n > 0 {
			rects := CardRects(n)
			center := CardCenter(rects[0])
			_ = dev.DoubleClick(center.X, center.Y)
		}
		return true
	}

	// Step 2: use-drink dialog.
	if vision.Exists(v, shot, vision.Prefab{Key: keyUseDrinkTitle, Search: fullFrame, Threshold: 0.85}) {
		if m := vision.Find(v, shot, vision.Prefab{Key: keyUseDrinkConfirmButton, Search: fullFrame, Threshold: 0.85}); m.Found {
			_ = dev.ClickRect(m.Rect)
			if l.deps.BattleType != BattlePractice && len(l.examDrinks) > 0 {
				l.examDrinks = l.examDrinks[1:]
			}
			return true
		}
	}

	// Step 3: effect-unactivatable confirm dialog.
	if m := vision.Find(v, shot, vision.Prefab{Key: keyEffectUnactivatableOK, Search: fullFrame, Threshold: 0.85}); m.Found {
		_ = dev.ClickRect(m.Rect)
		return true
	}

	// Step 4: exam drink initialization (exam battles only).
	if l.deps.BattleType != BattlePractice {
		if acted := l.handleExamDrinks(shot); acted {
			return true
		}
	}

	// Step 8: date-change dialog.
	if vision.Exists(v, shot, vision.Prefab{Key: keyDateChangeTitle, Search: fullFrame, Threshold: 0.85}) {
		if m := vision.Find(v, shot, vision.Prefab{Key: keyDateChangeDismiss, Search: fullFrame, Threshold: 0.85}); m.Found {
			_ = dev.ClickRect(m.Rect)
		}
		return true
	}

	return false
}

// handleExamDrinks implements step 4: on the first tick of an exam,
// enumerate all on-screen drinks; thereafter, pop "ordinary" drinks by
// opening their detail/use dialog, or skip past non-ordinary ones. Bails
// out after StuckDrinkRetries stuck retries on the same slot.
func (l *Loop) handleExamDrinks(shot vision.Screenshot) bool {
	if !l.examDrinksInit {
		l.examDrinksInit = true
		l.examDrinks = l.enumerateDrinks(shot)
		return len(l.examDrinks) > 0
	}
	if len(l.examDrinks) == 0 {
		return false
	}
	head := l.examDrinks[0]
	if head.Drink != nil && head.Drink.Ordinary {
		l.drinkStuckRetries[head.Index]++
		if l.drinkStuckRetries[head.Index] > l.deps.Config.StuckDrinkRetries {
			l.examDrinks = l.examDrinks[1:]
			return true
		}
		_ = l.deps.Device.ClickRect(head.Rect)
		return true
	}
	l.examDrinks = l.examDrinks[1:]
	return true
}

func (l *Loop) enumerateDrinks(shot vision.Screenshot) []drinkSlot {
	matches := vision.FindAll(l.deps.Vision, shot, vision.Prefab{Key: keyExamDrinkSlotOrdinary, Search: fullFrame, Threshold: 0.7})
	out := make([]drinkSlot, 0, len(matches))
	for i, m := range matches {
		d := catalogue.Drink{Ordinary: true}
		out = append(out, drinkSlot{Index: i, Rect: m.Rect, Drink: &d})
	}
	return out
}

type drinkSlot struct {
	Index int
	Rect  image.Rectangle
	Drink *catalogue.Drink
}
