package strategy

import (
	"image"

	"github.com/harukaze/producecore/internal/config"
	"github.com/harukaze/producecore/internal/controller"
	"github.com/harukaze/producecore/internal/vision"
)

// actionSlot is one probed action-button prefab on the action-select
// screen, plus its SP-variant prefab.
type actionSlot struct {
	kind     config.ActionKind
	key      string
	spKey    string
	rect     image.Rectangle
	statName string // HUD stat this lesson trains, for the "furthest below 80%" tiebreak
}

var actionSlots = []actionSlot{
	{kind: config.ActionRest, key: "InPurodyuusu.Action.Rest", rect: image.Rect(40, 1020, 220, 1160)},
	{kind: config.ActionOuting, key: "InPurodyuusu.Action.Outing", rect: image.Rect(240, 1020, 420, 1160)},
	{kind: config.ActionAllowance, key: "InPurodyuusu.Action.Allowance", rect: image.Rect(440, 1020, 620, 1160)},
	{kind: config.ActionConsult, key: "InPurodyuusu.Action.Consult", rect: image.Rect(40, 1170, 220, 1280)},
	{kind: config.ActionLessonVocal, key: "InPurodyuusu.Action.LessonVocal", spKey: "InPurodyuusu.Action.LessonVocalSP", rect: image.Rect(40, 860, 220, 1000), statName: "vocal"},
	{kind: config.ActionLessonDance, key: "InPurodyuusu.Action.LessonDance", spKey: "InPurodyuusu.Action.LessonDanceSP", rect: image.Rect(260, 860, 440, 1000), statName: "dance"},
	{kind: config.ActionLessonVisual, key: "InPurodyuusu.Action.LessonVisual", spKey: "InPurodyuusu.Action.LessonVisualSP", rect: image.Rect(480, 860, 660, 1000), statName: "visual"},
}

var keySenseiTip = vision.Prefab{Key: "InPurodyuusu.Action.SenseiTip", Search: image.Rect(20, 700, 700, 840), Threshold: 0.85}

type availableAction struct {
	slot actionSlot
	sp   bool
}

func (s *DefaultStrategy) scanActions(ctx *controller.Context) []availableAction {
	var out []availableAction
	for _, slot := range actionSlots {
		if vision.Exists(ctx.Vision, ctx.Shot, vision.Prefab{Key: slot.key, Search: slot.rect, Threshold: 0.85}) {
			out = append(out, availableAction{slot: slot})
			continue
		}
		if slot.spKey != "" && vision.Exists(ctx.Vision, ctx.Shot, vision.Prefab{Key: slot.spKey, Search: slot.rect, Threshold: 0.85}) {
			out = append(out, availableAction{slot: slot, sp: true})
		}
	}
	return out
}

// senseiRecommendation reads the sensei-tip label, if present, and maps it
// to the action kind it names. Returns ok=false if no tip is on screen.
func (s *DefaultStrategy) senseiRecommendation(ctx *controller.Context) (config.ActionKind, bool) {
	m := vision.Find(ctx.Vision, ctx.Shot, keySenseiTip)
	if !m.Found {
		return "", false
	}
	runs := ctx.Vision.OCR(ctx.Shot, keySenseiTip.Search)
	for _, r := range runs {
		if kind, ok := matchActionLabel(r.Text); ok {
			return kind, true
		}
	}
	return "", false
}

func matchActionLabel(label string) (config.ActionKind, bool) {
	for _, slot := range actionSlots {
		if containsFold(label, string(slot.kind)) {
			return slot.kind, true
		}
	}
	return "", false
}

// OnActionSelect implements spec.md §4.4's action-select policy: prefer an
// available SP lesson when configured to, else follow the sensei tip, else
// walk the user's configured preference order.
func (s *DefaultStrategy) OnActionSelect(ctx *controller.Context) error {
	available := s.scanActions(ctx)
	if len(available) == 0 {
		return &controller.UnrecoverableError{Reason: "action-select screen has no available actions"}
	}
	tip, hasTip := s.senseiRecommendation(ctx)

	if s.Solution.PreferSPLesson {
		if chosen, ok := s.preferSPLesson(ctx, available, tip, hasTip); ok {
			return clickRect(ctx.Device, chosen.slot.rect)
		}
	}
	if hasTip {
		if a, ok := findByKind(available, tip); ok {
			return clickRect(ctx.Device, a.slot.rect)
		}
	}
	for _, kind := range s.Solution.ActionPreferenceOrder {
		if a, ok := findByKind(available, kind); ok {
			return clickRect(ctx.Device, a.slot.rect)
		}
	}
	return &controller.UnrecoverableError{Reason: "no configured action preference matched an available action"}
}

// preferSPLesson picks the SP lesson furthest below 80% of its stat's max,
// unless the sensei recommends rest, in which case rest wins outright.
func (s *DefaultStrategy) preferSPLesson(ctx *controller.Context, available []availableAction, tip config.ActionKind, hasTip bool) (availableAction, bool) {
	if hasTip && tip == config.ActionRest {
		if a, ok := findByKind(available, config.ActionRest); ok {
			return a, true
		}
	}
	var best availableAction
	var bestDeficit float64 = -1
	found := false
	for _, a := range available {
		if !a.sp {
			continue
		}
		ratio := s.statRatio(ctx, a.slot.statName)
		deficit := 0.8 - ratio
		if deficit > bestDeficit {
			bestDeficit, best, found = deficit, a, true
		}
	}
	return best, found
}

// statRatio reads the named stat's current value against its cap from the
// fixed HUD strip above the action grid.
func (s *DefaultStrategy) statRatio(ctx *controller.Context, stat string) float64 {
	box, ok := statBoxes[stat]
	if !ok {
		return 0
	}
	runs := ctx.Vision.OCR(ctx.Shot, box)
	cur, max, ok := parseFraction(runs)
	if !ok || max == 0 {
		return 0
	}
	return float64(cur) / float64(max)
}

var statBoxes = map[string]image.Rectangle{
	"vocal":  image.Rect(40, 760, 220, 800),
	"dance":  image.Rect(260, 760, 440, 800),
	"visual": image.Rect(480, 760, 660, 800),
}

func findByKind(available []availableAction, kind config.ActionKind) (availableAction, bool) {
	for _, a := range available {
		if a.slot.kind == kind {
			return a, true
		}
	}
	return availableAction{}, false
}

// --- Study ------------------------------------------------------------------

var (
	keySelfStudyTitle = vision.Prefab{Key: "InPurodyuusu.Study.SelfStudyTitle", Search: fullFrame, Threshold: 0.85}
	keyStudyOption30  = vision.Prefab{Key: "InPurodyuusu.Study.Option30Label", Search: fullFrame, Threshold: 0.85}
)

var selfStudySubjectKeys = map[config.SelfStudyLesson]string{
	config.LessonVocal:  "InPurodyuusu.Study.SelfStudy.Vocal",
	config.LessonDance:  "InPurodyuusu.Study.SelfStudy.Dance",
	config.LessonVisual: "InPurodyuusu.Study.SelfStudy.Visual",
}

// OnStudy commits the configured self-study subject when on a self-study
// screen, else the "+30" option, falling back to the second option.
func (s *DefaultStrategy) OnStudy(ctx *controller.Context) error {
	if vision.Exists(ctx.Vision, ctx.Shot, keySelfStudyTitle) {
		key := selfStudySubjectKeys[s.Solution.SelfStudyLesson]
		if vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, vision.Prefab{Key: key, Search: fullFrame, Threshold: 0.85}) {
			return nil
		}
		return &controller.UnrecoverableError{Reason: "self-study subject option not found"}
	}
	if vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, keyStudyOption30) {
		return nil
	}
	options := vision.FindAll(ctx.Vision, ctx.Shot, vision.Prefab{Key: keyStudyOptionSlot, Search: fullFrame, Threshold: 0.85})
	if len(options) < 2 {
		return &controller.UnrecoverableError{Reason: "study screen has fewer than two options"}
	}
	clickFirstByIndex(ctx.Device, options, 1)
	return nil
}

const keyStudyOptionSlot = "InPurodyuusu.Study.OptionSlot"

// --- Outing -----------------------------------------------------------------

const keyOutingOptionSlot = "InPurodyuusu.Outing.OptionSlot"

// OnOuting commits option index min(1, len-1).
func (s *DefaultStrategy) OnOuting(ctx *controller.Context) error {
	options := vision.FindAll(ctx.Vision, ctx.Shot, vision.Prefab{Key: keyOutingOptionSlot, Search: fullFrame, Threshold: 0.85})
	if len(options) == 0 {
		return &controller.UnrecoverableError{Reason: "outing screen has no options"}
	}
	idx := 1
	if idx > len(options)-1 {
		idx = len(options) - 1
	}
	clickFirstByIndex(ctx.Device, options, idx)
	return nil
}

// --- Allowance ---------------------------------------------------------------

var (
	keyLootboxLock  = vision.Prefab{Key: "InPurodyuusu.Allowance.LootboxLock", Search: fullFrame, Threshold: 0.85}
	keyAllowanceSkip = vision.Prefab{Key: "InPurodyuusu.Allowance.SkipButton", Search: fullFrame, Threshold: 0.85}
)

// OnAllowance taps the lootbox-lock control if present, then sends skip.
func (s *DefaultStrategy) OnAllowance(ctx *controller.Context) error {
	vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, keyLootboxLock)
	vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, keyAllowanceSkip)
	return nil
}

// --- small text helpers ------------------------------------------------------

func containsFold(haystack, needle string) bool {
	h, n := []rune(lower(haystack)), []rune(lower(needle))
	if len(n) == 0 || len(n) > len(h) {
		return false
	}
	for i := 0; i+len(n) <= len(h); i++ {
		match := true
		for j := range n {
			if h[i+j] != n[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// parseFraction reads the first "cur/max" style OCR run, e.g. "62/80".
func parseFraction(runs []vision.TextRun) (cur, max int, ok bool) {
	for _, r := range runs {
		for i, c := range r.Text {
			if c == '/' {
				c1, ok1 := parseFirstInt(r.Text[:i])
				c2, ok2 := parseFirstInt(r.Text[i+1:])
				if ok1 && ok2 {
					return c1, c2, true
				}
			}
		}
	}
	return 0, 0, false
}

func parseFirstInt(s string) (int, bool) {
	start := -1
	val := 0
	found := false
	for i := 0; i <= len(s); i++ {
		var c byte
		if i < len(s) {
			c = s[i]
		}
		if i < len(s) && c >= '0' && c <= '9' {
			if start == -1 {
				start = i
			}
			val = val*10 + int(c-'0')
			found = true
		} else if start != -1 {
			break
		}
	}
	return val, found
}
