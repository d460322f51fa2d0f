package battle

import (
	"image"
	"time"

	"github.com/harukaze/producecore/internal/catalogue"
	"github.com/harukaze/producecore/internal/hand"
	"github.com/harukaze/producecore/internal/sprites"
	"github.com/harukaze/producecore/internal/vision"
)

// LoopConfig carries the hand-tuned retry budgets out as configuration
// (spec.md §9 resolves the open question that these should not be
// constants), with the spec's values as defaults.
type LoopConfig struct {
	RecommendTimeout  time.Duration // budget for the recommended-card search, default 60s
	BreakConfirm      time.Duration // stability window before exiting on end condition, default 5s
	NoCardWait        time.Duration // wait before checking for a truly empty hand, default 4s
	HandRefresh       time.Duration // period between hand re-counts, default 4s
	PostActionSettle  time.Duration // sleep after committing a card, default 4.5s
	StuckDrinkRetries int           // bail-out after this many retries on the same drink slot, default 5
}

// DefaultLoopConfig returns spec.md's literal retry-budget defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		RecommendTimeout:  60 * time.Second,
		BreakConfirm:      5 * time.Second,
		NoCardWait:        4 * time.Second,
		HandRefresh:       4 * time.Second,
		PostActionSettle:  4500 * time.Millisecond,
		StuckDrinkRetries: 5,
	}
}

// EndPredicate reports whether the battle is over, consulted only once the
// hand is empty.
type EndPredicate func() bool

// ActionFn is the battle Strategy's on_action hook (spec.md §4.5.4 step 6):
// given the current hand and hud, it may commit a card itself and report
// whether it acted.
type ActionFn func(h hand.Hand, hud BattleHud) (acted bool)

// Deps bundles the collaborators the per-turn loop reads/writes through.
type Deps struct {
	Device     vision.Device
	Vision     vision.Vision
	Catalogue  *catalogue.Catalogue
	HOG        *sprites.HOGIndex
	BattleType BattleType
	Mode       DetectionMode
	Config     LoopConfig
	OnAction   ActionFn
	End        EndPredicate
	Now        func() time.Time
	Sleep      func(time.Duration)

	// DebugExport, if set, is called once per tick with the raw detector
	// pass so the caller can render it (internal/debugexport) for offline
	// inspection. Skipped entirely when nil.
	DebugExport func(rects []image.Rectangle, results []CardResult, recommendedIndex int, seq uint64)
}

// Loop is do_cards's per-tick state, threaded across ticks by the caller
// (the Controller drives one Tick() per main-loop iteration while a battle
// scene is active).
type Loop struct {
	deps Deps

	timeoutDeadline time.Time
	breakSince      time.Time
	breaking        bool
	noCardSince     time.Time
	waitingNoCard   bool
	lastRefresh     time.Time
	lastHandCount   int
	handCountValid  bool
	timeoutCardID   int // 1..n fallback rotation cursor

	drinkStuckRetries map[int]int
	examDrinks        []drinkSlot
	examDrinksInit    bool

	done bool
}

// NewLoop starts a fresh per-turn loop with its countdowns anchored at now.
func NewLoop(deps Deps) *Loop {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	now := deps.Now()
	return &Loop{
		deps:              deps,
		timeoutDeadline:   now.Add(deps.Config.RecommendTimeout),
		lastRefresh:       now,
		timeoutCardID:     1,
		drinkStuckRetries: make(map[int]int),
	}
}

// Done reports whether the loop has observed its end condition stably for
// BreakConfirm and should no longer be ticked.
func (l *Loop) Done() bool { return l.done }

// Tick runs one iteration of the per-turn decision loop against shot, and
// returns true when a card (recommended, evaluator-chosen or fallback) was
// committed or a pre-decision dialog step took the tick. Empty-hand ticks
// return false, including the one that presses SKIP.
func (l *Loop) Tick(shot vision.Screenshot) bool {
	if l.done {
		return false
	}
	now := l.deps.Now()

	if l.handlePreDecisionDialogs(shot) {
		return true
	}

	if !l.handCountValid || now.Sub(l.lastRefresh) >= l.deps.Config.HandRefresh {
		l.lastHandCount = DetectHandCount(l.deps.Vision, shot)
		l.handCountValid = true
		l.lastRefresh = now
	}
	n := l.lastHandCount

	h := ExtractHand(l.deps.Vision, shot, l.deps.Catalogue, l.deps.HOG)
	hud := l.readHud(shot)

	if n == 0 {
		return l.handleEmptyHand(now, hud)
	}
	l.waitingNoCard = false
	l.resetBreak()

	if l.deps.OnAction != nil && l.deps.OnAction(h, hud) {
		l.resetTimeout(now)
		l.sleepSettle()
		return true
	}

	accept := Predicate(l.deps.Mode, l.deps.BattleType)
	rects := CardRects(n)
	results := DetectAll(shot, rects)
	lastIndex := n - 1
	best, found := RecommendCard(results, n, lastIndex, SkipIndex, accept)
	if l.deps.DebugExport != nil {
		recommendedIndex := -1
		if found {
			recommendedIndex = best.Index
		}
		l.deps.DebugExport(rects, results, recommendedIndex, shot.Seq)
	}
	if found {
		center := CardCenter(rects[best.Index])
		_ = l.deps.Device.DoubleClick(center.X, center.Y)
		l.resetTimeout(now)
		l.sleepSettle()
		return true
	}

	if now.After(l.timeoutDeadline) {
		return l.fallback(n, now)
	}
	return false
}

func (l *Loop) readHud(shot vision.Screenshot) BattleHud {
	runs := l.deps.Vision.OCR(shot, hudTurnsBox)
	turns := firstInt(runs)
	hp := firstInt(l.deps.Vision.OCR(shot, hudHPBox))
	genki := firstInt(l.deps.Vision.OCR(shot, hudGenkiBox))
	return BattleHud{HudInfo: hand.HudInfo{TurnsRemaining: turns, HitPoints: hp, Genki: genki}}
}

func (l *Loop) handleEmptyHand(now time.Time, hud BattleHud) bool {
	if !l.waitingNoCard {
		l.waitingNoCard = true
		l.noCardSince = now
	}
	if now.Sub(l.noCardSince) >= l.deps.Config.NoCardWait {
		_ = l.deps.Device.ClickRect(SkipRect)
		l.waitingNoCard = false
	}
	if l.deps.End != nil && l.deps.End() {
		if !l.breaking {
			l.breaking = true
			l.breakSince = now
		}
		if now.Sub(l.breakSince) >= l.deps.Config.BreakConfirm {
			l.done = true
		}
	} else {
		l.breaking = false
	}
	return false
}

func (l *Loop) resetBreak() {
	l.breaking = false
}

func (l *Loop) resetTimeout(now time.Time) {
	l.timeoutDeadline = now.Add(l.deps.Config.RecommendTimeout)
}

func (l *Loop) sleepSettle() {
	l.deps.Sleep(l.deps.Config.PostActionSettle)
}

// fallback implements step 7: on recommended-card timeout, rotate through
// hand slots by fixed id so the agent always makes forward progress even
// when recognition fails entirely.
func (l *Loop) fallback(n int, now time.Time) bool {
	if l.timeoutCardID > n {
		l.timeoutCardID = 1
	}
	rects := CardRects(n)
	idx := l.timeoutCardID - 1
	center := CardCenter(rects[idx])
	_ = l.deps.Device.DoubleClick(center.X, center.Y)
	l.timeoutCardID++
	if l.timeoutCardID > n {
		l.timeoutCardID = 1
	}
	l.resetTimeout(now)
	return true
}

// Fixed HUD read boxes.
var (
	hudTurnsBox = image.Rect(20, 40, 140, 80)
	hudHPBox    = image.Rect(160, 40, 280, 80)
	hudGenkiBox = image.Rect(300, 40, 420, 80)
)

func firstInt(runs []vision.TextRun) int {
	for _, r := range runs {
		if v, ok := parseFirstInt(r.Text); ok {
			return v
		}
	}
	return 0
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
