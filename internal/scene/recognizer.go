package scene

import (
	"image"
	"time"

	"github.com/harukaze/producecore/internal/vision"
)

// topRightCorner is where the review-criteria marker (and its sub-markers)
// are drawn on action-like screens.
var topRightCorner = image.Rect(500, 0, vision.LogicalWidth, 120)

// drinkDialogSettle is the delay check_scene waits before confirming a
// SELECT_DRINK classification, because the drink-select animation is known
// to present a partially-drawn frame for a short window.
const drinkDialogSettle = 300 * time.Millisecond

// Recognizer classifies screenshots into Scenes. It holds no mutable state
// of its own beyond the Vision service it reads through; every Scene it
// returns is derived from exactly one screenshot.
type Recognizer struct {
	Vision vision.Vision

	// Sleep is overridable in tests; defaults to time.Sleep.
	Sleep func(time.Duration)
}

// NewRecognizer builds a Recognizer bound to v.
func NewRecognizer(v vision.Vision) *Recognizer {
	return &Recognizer{Vision: v, Sleep: time.Sleep}
}

// CheckScene runs the full seven-layer classification, first match wins.
func (r *Recognizer) CheckScene(shot vision.Screenshot) Scene {
	if s, ok := r.checkInterruptLayers(shot); ok {
		return s
	}
	if s, ok := r.checkActionLike(shot); ok {
		return s
	}
	if s, ok := r.checkBattle(shot); ok {
		return s
	}
	return Scene{Type: Unknown}
}

// CheckInterruptScene runs only layers 1-4 (loading, interrupt dialogs,
// popups, full-screen card operations). It is the probe used inside
// pump_interrupts_until to decide whether a popup must be handled while
// waiting on something else.
func (r *Recognizer) CheckInterruptScene(shot vision.Screenshot) Scene {
	if s, ok := r.checkInterruptLayers(shot); ok {
		return s
	}
	return Scene{Type: Unknown}
}

// checkInterruptLayers implements layers 1-4.
func (r *Recognizer) checkInterruptLayers(shot vision.Screenshot) (Scene, bool) {
	// Layer 1: loading.
	if vision.Exists(r.Vision, shot, prefab(keyLoadingSpinner, fullFrame, 0.85)) {
		return Scene{Type: Loading}, true
	}

	// Layer 2: interrupt dialogs.
	if vision.Exists(r.Vision, shot, prefab(keyPDrinkMaxTitle, topRightCorner, 0.85)) {
		return Scene{Type: PDrinkMax}, true
	}
	if vision.Exists(r.Vision, shot, prefab(keyPDrinkMaxConfirm, fullFrame, 0.85)) {
		return Scene{Type: PDrinkMaxConfirm}, true
	}
	if vision.Exists(r.Vision, shot, prefab(keyNetworkErrorTitle, fullFrame, 0.85)) {
		return Scene{Type: NetworkError}, true
	}
	if vision.Exists(r.Vision, shot, prefab(keyTutorialAutoConfirm, fullFrame, 0.85)) {
		// First-time tutorial dialogs are collapsed to IDLE; the controller's
		// idle dispatch is responsible for the confirm click, keeping scene
		// classification itself free of side effects.
		return Scene{Type: Idle}, true
	}

	// Layer 3: dialog popups. Drink selection requires a settle delay
	// because the open animation briefly presents a half-drawn dialog.
	if vision.Exists(r.Vision, shot, prefab(keySelectCardTitle, fullFrame, 0.85)) {
		return Scene{Type: SelectCard}, true
	}
	if vision.Exists(r.Vision, shot, prefab(keySelectPItemTitle, fullFrame, 0.85)) {
		return Scene{Type: SelectPItem}, true
	}
	if vision.Exists(r.Vision, shot, prefab(keySelectDrinkTitle, fullFrame, 0.85)) {
		if r.Sleep != nil {
			r.Sleep(drinkDialogSettle)
		}
		return Scene{Type: SelectDrink}, true
	}

	// Layer 4: full-screen card operations.
	if vision.Exists(r.Vision, shot, prefab(keyEnhanceTitle, fullFrame, 0.85)) {
		return Scene{Type: SkillCardEnhance}, true
	}
	if vision.Exists(r.Vision, shot, prefab(keyRemovalTitle, fullFrame, 0.85)) {
		return Scene{Type: SkillCardRemoval}, true
	}

	return Scene{}, false
}

// checkActionLike implements layer 5.
func (r *Recognizer) checkActionLike(shot vision.Screenshot) (Scene, bool) {
	if !vision.Exists(r.Vision, shot, prefab(keyReviewCriteriaMarker, topRightCorner, 0.85)) {
		return Scene{}, false
	}

	switch {
	case vision.Exists(r.Vision, shot, prefab(keyStudyMarker, topRightCorner, 0.85)):
		return Scene{Type: Study}, true
	case vision.Exists(r.Vision, shot, prefab(keyOutingMarker, topRightCorner, 0.85)):
		return Scene{Type: Outing}, true
	case vision.Exists(r.Vision, shot, prefab(keyConsultMarker, topRightCorner, 0.85)):
		return Scene{Type: Consult}, true
	case vision.Exists(r.Vision, shot, prefab(keyAllowanceMarker, topRightCorner, 0.85)):
		return Scene{Type: Allowance}, true
	}

	if buttons := vision.FindAll(r.Vision, shot, prefab(keyInitialChoiceButton, fullFrame, 0.85)); len(buttons) == 2 {
		// Initial 2-button prompt: reported as INITIAL_DRINK_OR_CARD_SELECT
		// with both buttons as payload; the recognizer issues no input, and
		// the strategy hook this scene is dispatched to makes the choice.
		return Scene{Type: InitialDrinkOrCardSelect, Buttons: toButtons(buttons)}, true
	}

	return Scene{Type: ActionSelect}, true
}

// checkBattle implements layer 6.
func (r *Recognizer) checkBattle(shot vision.Screenshot) (Scene, bool) {
	if vision.Exists(r.Vision, shot, prefab(keyPracticeMarker, topRightCorner, 0.85)) {
		return Scene{Type: Practice}, true
	}
	if vision.Exists(r.Vision, shot, prefab(keyExamRankMarker, topRightCorner, 0.85)) {
		return Scene{Type: Exam}, true
	}
	return Scene{}, false
}

func toButtons(matches []vision.MatchResult) []Button {
	out := make([]Button, 0, len(matches))
	for _, m := range matches {
		out = append(out, Button{Rect: m.Rect, Orange: true})
	}
	return out
}
