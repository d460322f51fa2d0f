package controller

import "github.com/harukaze/producecore/internal/scene"

// Strategy implements one hook per scene variant plus the battle entry/exit
// hooks (spec.md §4.4). Hooks receive a Context bound to the current scene.
type Strategy interface {
	// Interrupt-layer hooks, invoked by the interrupt pump/handler, never
	// the main dispatcher.
	OnLoading(ctx *Context) error
	OnPDrinkMax(ctx *Context) error
	OnPDrinkMaxConfirm(ctx *Context) error
	OnSelectDrink(ctx *Context) error
	OnSelectCard(ctx *Context) error
	OnSelectPItem(ctx *Context) error
	OnSkillCardEnhance(ctx *Context) error
	OnSkillCardRemoval(ctx *Context) error
	OnNetworkError(ctx *Context) error

	// TrySkipCommu is the pump's last-resort handler, tried against the raw
	// screenshot when neither the wait predicate nor check_interrupt_scene
	// matched. Reports whether it consumed the tick.
	TrySkipCommu(ctx *Context) bool

	// Main-layer hooks, invoked by the main dispatcher only when no
	// interrupt is pending and no sub-flow is active.
	OnIdle(ctx *Context) error
	OnActionSelect(ctx *Context) error
	OnStudy(ctx *Context) error
	OnOuting(ctx *Context) error
	// OnConsult installs the consult Flow into ctx.Session.
	OnConsult(ctx *Context) error
	OnAllowance(ctx *Context) error
	OnUnknown(ctx *Context) error

	// Battle hooks: OnPractice/OnExam are invoked every tick the scene
	// remains in that state (they drive the battle engine's per-turn loop
	// forward one tick each call). OnBattleExit fires once on the
	// transition away from PRACTICE/EXAM to any other scene.
	OnPractice(ctx *Context) error
	OnExam(ctx *Context) error
	OnBattleExit(ctx *Context, was scene.Type) error
}
