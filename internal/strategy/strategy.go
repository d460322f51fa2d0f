// Package strategy implements the per-scene policy hooks the controller
// dispatches to (spec.md §4.4): which option to pick, which card to choose,
// when to skip.
package strategy

import (
	"image"

	"github.com/harukaze/producecore/internal/battle"
	"github.com/harukaze/producecore/internal/catalogue"
	"github.com/harukaze/producecore/internal/config"
	"github.com/harukaze/producecore/internal/controller"
	"github.com/harukaze/producecore/internal/sprites"
	"github.com/harukaze/producecore/internal/vision"
)

// Prefab keys for the interrupt-layer dialogs this Strategy resolves.
const (
	keyPDrinkMaxConfirmButton = "InPurodyuusu.PDrinkMaxConfirmButton"
	keyTutorialConfirmButton  = "InPurodyuusu.TutorialConfirmButton"
	keyNetworkErrorRetry      = "InPurodyuusu.NetworkErrorRetryButton"

	keyDrinkSkipButton    = "InPurodyuusu.SelectDrink.DoNotClaimButton"
	keyDrinkConfirmButton = "InPurodyuusu.SelectDrink.ConfirmButton"
	keyDrinkSlot          = "InPurodyuusu.SelectDrink.Slot"

	keyCardRecommendBadge = "InPurodyuusu.SelectCard.RecommendBadge"
	keyCardSlot           = "InPurodyuusu.SelectCard.Slot"

	keyPItemSlot = "InPurodyuusu.SelectPItem.Slot"

	keyEnhanceButton = "InPurodyuusu.SkillCardEnhance.EnhanceButton"
	keyRemoveButton  = "InPurodyuusu.SkillCardRemoval.RemoveButton"
	keyDetectedCard  = "InPurodyuusu.SkillCardOp.DetectedCard"

	keySkipCommuMarker = "InPurodyuusu.SkipCommuMarker"
)

// Deps bundles the collaborators a DefaultStrategy needs beyond the
// per-tick Context.
type Deps struct {
	Solution  config.ProduceSolution
	Catalogue *catalogue.Catalogue
	HOG       *sprites.HOGIndex
}

// DefaultStrategy is the rule-based policy spec.md §4.4 describes. It is
// stateful only in the ways the spec requires: the active battle.Loop while
// a PRACTICE/EXAM scene is being driven, and the exam drink bookkeeping
// that loop owns internally.
type DefaultStrategy struct {
	Deps

	battleLoop *battle.Loop
	battleKind battle.BattleType
}

// New builds a DefaultStrategy.
func New(deps Deps) *DefaultStrategy {
	return &DefaultStrategy{Deps: deps}
}

func (s *DefaultStrategy) recommendMode() battle.DetectionMode {
	if s.Solution.RecommendMode == config.RecommendStrict {
		return battle.ModeStrict
	}
	return battle.ModeNormal
}

// --- Interrupt-layer hooks -------------------------------------------------

// OnLoading is a no-op: the loading scene resolves itself once the spinner
// clears.
func (s *DefaultStrategy) OnLoading(ctx *controller.Context) error { return nil }

// OnPDrinkMax confirms the P-drink-max popup.
func (s *DefaultStrategy) OnPDrinkMax(ctx *controller.Context) error {
	vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: keyPDrinkMaxConfirmButton, Search: fullFrame, Threshold: 0.85})
	return nil
}

// OnPDrinkMaxConfirm confirms the secondary P-drink-max confirmation step.
func (s *DefaultStrategy) OnPDrinkMaxConfirm(ctx *controller.Context) error {
	vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: keyPDrinkMaxConfirmButton, Search: fullFrame, Threshold: 0.85})
	return nil
}

// OnNetworkError retries the connection.
func (s *DefaultStrategy) OnNetworkError(ctx *controller.Context) error {
	if !vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: keyNetworkErrorRetry, Search: fullFrame, Threshold: 0.85}) {
		return &controller.UnrecoverableError{Reason: "network error retry button never appeared"}
	}
	return nil
}

// OnIdle auto-confirms a first-time tutorial dialog if one is present, and
// for an INITIAL_DRINK_OR_CARD_SELECT scene (also dispatched here)
// double-clicks the first orange button the recognizer reported. The scene
// recognizer never issues input itself, so both clicks live here instead.
func (s *DefaultStrategy) OnIdle(ctx *controller.Context) error {
	vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: keyTutorialConfirmButton, Search: fullFrame, Threshold: 0.85})
	for _, b := range ctx.Scene.Buttons {
		if b.Orange {
			_ = ctx.Device.DoubleClick((b.Rect.Min.X+b.Rect.Max.X)/2, (b.Rect.Min.Y+b.Rect.Max.Y)/2)
			break
		}
	}
	return nil
}

// OnUnknown nudges the UI with a bounded center tap so the session makes
// forward progress past incidental visual noise (spec.md §4.3 failure
// semantics), and is otherwise non-fatal.
func (s *DefaultStrategy) OnUnknown(ctx *controller.Context) error {
	_ = ctx.Device.Click(vision.LogicalWidth/2, vision.LogicalHeight/2)
	return nil
}

// TrySkipCommu is the pump's last-resort handler: it dismisses a commu
// (story dialog) frame if the Solution asks for it and a skip marker is on
// screen, regardless of the scene classification.
func (s *DefaultStrategy) TrySkipCommu(ctx *controller.Context) bool {
	if !s.Solution.SkipCommu {
		return false
	}
	return vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: keySkipCommuMarker, Search: fullFrame, Threshold: 0.85})
}

// --- Dialog popups ----------------------------------------------------------

// OnSelectDrink commits the skip option if present (clicking "do not claim"
// then confirming), else commits drink index 0.
func (s *DefaultStrategy) OnSelectDrink(ctx *controller.Context) error {
	if vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: keyDrinkSkipButton, Search: fullFrame, Threshold: 0.85}) {
		vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: keyDrinkConfirmButton, Search: fullFrame, Threshold: 0.85})
		return nil
	}
	slots := vision.FindAll(ctx.Vision, ctx.Shot, vision.Prefab{Key: keyDrinkSlot, Search: fullFrame, Threshold: 0.85})
	if len(slots) == 0 {
		return &controller.UnrecoverableError{Reason: "select-drink dialog has no slots and no skip button"}
	}
	clickFirstByIndex(ctx.Device, slots, 0)
	return nil
}

// OnSelectPItem always commits index 0.
func (s *DefaultStrategy) OnSelectPItem(ctx *controller.Context) error {
	slots := vision.FindAll(ctx.Vision, ctx.Shot, vision.Prefab{Key: keyPItemSlot, Search: fullFrame, Threshold: 0.85})
	if len(slots) == 0 {
		return &controller.UnrecoverableError{Reason: "select-pitem dialog has no slots"}
	}
	clickFirstByIndex(ctx.Device, slots, 0)
	return nil
}

// OnSelectCard locates any "recommended" badge, spatially matches it to a
// card rectangle using a mid-bottom anchor, and picks that card if present,
// else the first.
func (s *DefaultStrategy) OnSelectCard(ctx *controller.Context) error {
	cards := vision.FindAll(ctx.Vision, ctx.Shot, vision.Prefab{Key: keyCardSlot, Search: fullFrame, Threshold: 0.85})
	if len(cards) == 0 {
		return &controller.UnrecoverableError{Reason: "select-card dialog has no cards"}
	}
	badges := vision.FindAll(ctx.Vision, ctx.Shot, vision.Prefab{Key: keyCardRecommendBadge, Search: fullFrame, Threshold: 0.85})

	choice := cards[0]
	for _, badge := range badges {
		if card, ok := nearestByMidBottom(badge.Rect, cards); ok {
			choice = card
			break
		}
	}
	return clickRect(ctx.Device, choice.Rect)
}

// OnSkillCardEnhance iterates detected cards right-to-left: click a card,
// then click the enhance button once it is enabled; stop as soon as a click
// fails to land.
func (s *DefaultStrategy) OnSkillCardEnhance(ctx *controller.Context) error {
	cards := vision.FindAll(ctx.Vision, ctx.Shot, vision.Prefab{Key: keyDetectedCard, Search: fullFrame, Threshold: 0.85})
	sortRightToLeft(cards)
	for _, card := range cards {
		if err := clickRect(ctx.Device, card.Rect); err != nil {
			break
		}
		enhance := vision.ButtonPrefab{Prefab: vision.Prefab{Key: keyEnhanceButton, Search: fullFrame, Threshold: 0.85}}
		shot, err := ctx.Device.Screenshot()
		if err != nil {
			break
		}
		if enhance.Enabled(ctx.Vision, shot) != vision.ButtonEnabled {
			break
		}
		if !vision.TryClick(ctx.Device, ctx.Vision, shot, enhance.Prefab) {
			break
		}
	}
	return nil
}

// OnSkillCardRemoval clicks the first detected card, then the remove
// button.
func (s *DefaultStrategy) OnSkillCardRemoval(ctx *controller.Context) error {
	cards := vision.FindAll(ctx.Vision, ctx.Shot, vision.Prefab{Key: keyDetectedCard, Search: fullFrame, Threshold: 0.85})
	if len(cards) == 0 {
		return &controller.UnrecoverableError{Reason: "skill-card removal screen has no cards"}
	}
	if err := clickRect(ctx.Device, cards[0].Rect); err != nil {
		return err
	}
	vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: keyRemoveButton, Search: fullFrame, Threshold: 0.85})
	return nil
}

// --- small shared helpers ---------------------------------------------------

var fullFrame = image.Rect(0, 0, vision.LogicalWidth, vision.LogicalHeight)

func clickRect(dev vision.Device, r image.Rectangle) error {
	return dev.ClickRect(r)
}

func clickFirstByIndex(dev vision.Device, matches []vision.MatchResult, idx int) {
	if idx < 0 || idx >= len(matches) {
		return
	}
	_ = dev.ClickRect(matches[idx].Rect)
}

func sortRightToLeft(matches []vision.MatchResult) {
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].Rect.Min.X > matches[j-1].Rect.Min.X; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
}

// nearestByMidBottom finds the card whose mid-bottom point is closest to
// badge's mid-bottom anchor, the spatial matching rule spec.md §4.4
// specifies for attaching a recommend badge to its card.
func nearestByMidBottom(badge image.Rectangle, cards []vision.MatchResult) (vision.MatchResult, bool) {
	if len(cards) == 0 {
		return vision.MatchResult{}, false
	}
	anchor := midBottom(badge)
	best := cards[0]
	bestDist := distSq(anchor, midBottom(best.Rect))
	for _, c := range cards[1:] {
		d := distSq(anchor, midBottom(c.Rect))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}

func midBottom(r image.Rectangle) image.Point {
	return image.Point{X: (r.Min.X + r.Max.X) / 2, Y: r.Max.Y}
}

func distSq(a, b image.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
