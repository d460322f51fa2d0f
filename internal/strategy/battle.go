package strategy

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/harukaze/producecore/internal/battle"
	"github.com/harukaze/producecore/internal/controller"
	"github.com/harukaze/producecore/internal/debugexport"
	"github.com/harukaze/producecore/internal/hand"
	"github.com/harukaze/producecore/internal/scene"
	"github.com/harukaze/producecore/internal/vision"
)

var (
	examBannerBox = image.Rect(540, 20, 700, 60) // mid/final checkpoint banner ROI
	turnsBox      = image.Rect(20, 40, 140, 80)
)

// OnPractice drives the battle engine one tick for a PRACTICE scene.
func (s *DefaultStrategy) OnPractice(ctx *controller.Context) error {
	return s.tickBattle(ctx, battle.BattlePractice)
}

// OnExam drives the battle engine one tick for an EXAM scene, first
// resolving whether this is the mid or final checkpoint via the Lab-color
// heuristic over the banner ROI (spec.md §4.4).
func (s *DefaultStrategy) OnExam(ctx *controller.Context) error {
	bt := controller.Memo(ctx, "exam-battle-type", func() battle.BattleType {
		return s.classifyExam(ctx)
	})
	return s.tickBattle(ctx, bt)
}

// classifyExam computes the mean a/b Lab channels of the banner ROI and
// applies spec.md's literal thresholds, expressed in OpenCV's 8-bit Lab
// convention (channel value = signed component + 128); go-colorful's Lab
// returns the signed component divided by 100, so the same test reads
// mean(b) > 0.17 or (mean(b) > 0.10 and mean(a) > 0.07).
func (s *DefaultStrategy) classifyExam(ctx *controller.Context) battle.BattleType {
	meanA, meanB := meanLabAB(ctx.Shot.Img, examBannerBox)
	if meanB > 0.17 || (meanB > 0.10 && meanA > 0.07) {
		return battle.BattleExamFinal
	}
	return battle.BattleExamMid
}

func meanLabAB(img image.Image, r image.Rectangle) (meanA, meanB float64) {
	if img == nil {
		return 0, 0
	}
	var sumA, sumB float64
	var n int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			rr, gg, bb, _ := img.At(x, y).RGBA()
			c := vision.Color{R: uint8(rr >> 8), G: uint8(gg >> 8), B: uint8(bb >> 8)}
			_, a, b := c.Lab()
			sumA += a
			sumB += b
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sumA / float64(n), sumB / float64(n)
}

func (s *DefaultStrategy) tickBattle(ctx *controller.Context, bt battle.BattleType) error {
	if s.battleLoop == nil || s.battleKind != bt {
		expert := &battle.ExpertStrategy{Catalogue: s.Catalogue}
		s.battleLoop = battle.NewLoop(battle.Deps{
			Device:      ctx.Device,
			Vision:      ctx.Vision,
			Catalogue:   s.Catalogue,
			HOG:         s.HOG,
			BattleType:  bt,
			Mode:        s.recommendMode(),
			Config:      battle.DefaultLoopConfig(),
			OnAction:    onBattleAction(ctx.Device, expert),
			End:         endOnZeroTurns(ctx),
			DebugExport: s.debugExportTick(bt),
		})
		s.battleKind = bt
	}
	s.battleLoop.Tick(ctx.Shot)
	return nil
}

// debugExportTick returns a battle.Deps.DebugExport callback that renders
// the tick's detector pass to an SVG file under Solution.DebugExportDir, or
// nil if debug export is off.
func (s *DefaultStrategy) debugExportTick(bt battle.BattleType) func([]image.Rectangle, []battle.CardResult, int, uint64) {
	dir := s.Solution.DebugExportDir
	if dir == "" {
		return nil
	}
	return func(rects []image.Rectangle, results []battle.CardResult, recommendedIndex int, seq uint64) {
		slots := debugexport.CardSlotsFromResults(rects, results, recommendedIndex)
		data := debugexport.ExportTick(slots, bt, debugexport.DefaultOptions())
		path := filepath.Join(dir, fmt.Sprintf("tick-%06d.svg", seq))
		_ = os.WriteFile(path, data, 0o644)
	}
}

// onBattleAction wires the Expert rule-based evaluator in ahead of the
// recommended-card detector: if the evaluator resolves a positive-scoring
// card, the loop commits it immediately instead of waiting out the
// recommend-badge timeout.
func onBattleAction(dev vision.Device, expert *battle.ExpertStrategy) battle.ActionFn {
	used := make(map[int]bool)
	return func(h hand.Hand, hud battle.BattleHud) bool {
		slot, score, found := expert.Choose(h, hud, used)
		if !found || score <= 0 {
			return false
		}
		c := rectCenter(slot.Rect)
		_ = dev.DoubleClick(c.X, c.Y)
		if slot.Card != nil && slot.Card.Once {
			used[slot.Card.AssetID] = true
		}
		return true
	}
}

func rectCenter(r image.Rectangle) image.Point {
	return image.Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// endOnZeroTurns reports the battle over once the turns-remaining HUD
// reads zero, spec.md §4.5's literal do_cards end condition.
func endOnZeroTurns(ctx *controller.Context) battle.EndPredicate {
	return func() bool {
		shot, err := ctx.Device.Screenshot()
		if err != nil {
			return false
		}
		runs := ctx.Vision.OCR(shot, turnsBox)
		for _, r := range runs {
			if r.Text == "0" {
				return true
			}
		}
		return false
	}
}

var (
	keyExamNextButton        = vision.Prefab{Key: "InPurodyuusu.Exam.NextButton", Search: fullFrame, Threshold: 0.85}
	keyRechallengeEndProduce = vision.Prefab{Key: "InPurodyuusu.Exam.RechallengeEndProduceButton", Search: fullFrame, Threshold: 0.85}
)

// OnBattleExit fires once when the scene transitions away from
// PRACTICE/EXAM. It clears the active loop and, for an exam, clicks "next"
// and checks for the "rechallenge-end-produce" control that only appears
// when the exam was failed (spec.md §4.4): on the final exam this ends the
// session cleanly.
func (s *DefaultStrategy) OnBattleExit(ctx *controller.Context, was scene.Type) error {
	wasFinal := s.battleKind == battle.BattleExamFinal
	s.battleLoop = nil
	if was != scene.Exam {
		return nil
	}

	vision.TryClick(ctx.Device, ctx.Vision, ctx.Shot, keyExamNextButton)

	m := vision.Wait(ctx.Device, ctx.Vision, keyRechallengeEndProduce, 3*time.Second, 200*time.Millisecond)
	if !m.Found {
		return nil
	}
	_ = ctx.Device.ClickRect(m.Rect)
	if wasFinal {
		return &controller.UserFriendlyError{Message: "final exam failed; ending produce run"}
	}
	return nil
}
