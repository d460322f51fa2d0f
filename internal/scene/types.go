// Package scene classifies a screenshot into the fixed set of states the
// produce session controller dispatches on. A recognizer never issues
// input; it only reads via the vision.Vision contract.
package scene

import "image"

// Type is the tag of the Scene union.
type Type int

const (
	Unknown Type = iota
	Idle
	Loading
	ActionSelect
	Practice
	Exam
	Study
	Outing
	Consult
	Allowance
	SelectDrink
	SelectCard
	SelectPItem
	SkillCardEnhance
	SkillCardRemoval
	InitialDrinkOrCardSelect
	PDrinkMax
	PDrinkMaxConfirm
	NetworkError
	DateChange
)

func (t Type) String() string {
	switch t {
	case Idle:
		return "IDLE"
	case Loading:
		return "LOADING"
	case ActionSelect:
		return "ACTION_SELECT"
	case Practice:
		return "PRACTICE"
	case Exam:
		return "EXAM"
	case Study:
		return "STUDY"
	case Outing:
		return "OUTING"
	case Consult:
		return "CONSULT"
	case Allowance:
		return "ALLOWANCE"
	case SelectDrink:
		return "SELECT_DRINK"
	case SelectCard:
		return "SELECT_CARD"
	case SelectPItem:
		return "SELECT_PITEM"
	case SkillCardEnhance:
		return "SKILL_CARD_ENHANCE"
	case SkillCardRemoval:
		return "SKILL_CARD_REMOVAL"
	case InitialDrinkOrCardSelect:
		return "INITIAL_DRINK_OR_CARD_SELECT"
	case PDrinkMax:
		return "PDRINK_MAX"
	case PDrinkMaxConfirm:
		return "PDRINK_MAX_CONFIRM"
	case NetworkError:
		return "NETWORK_ERROR"
	case DateChange:
		return "DATE_CHANGE"
	default:
		return "UNKNOWN"
	}
}

// Button is a detected on-screen button, used as a payload for scenes that
// carry data (e.g. the initial 2-button choice dialog).
type Button struct {
	Rect    image.Rectangle
	Label   string
	Orange  bool // has the orange border the initial-choice prompt uses
}

// Scene is the tagged-union result of classifying one screenshot.
type Scene struct {
	Type    Type
	Buttons []Button // populated for InitialDrinkOrCardSelect and similar
}

// IsInterrupt reports whether this scene type is one of the modal
// dialog/overlay scenes the controller's interrupt pump handles before any
// main-state dispatch.
func (s Scene) IsInterrupt() bool {
	switch s.Type {
	case Loading, PDrinkMax, PDrinkMaxConfirm,
		SelectCard, SelectPItem, SelectDrink,
		SkillCardEnhance, SkillCardRemoval, NetworkError:
		return true
	default:
		return false
	}
}

// IsBattle reports whether this scene is one of the two card-battle
// flavours the battle engine drives.
func (s Scene) IsBattle() bool {
	return s.Type == Practice || s.Type == Exam
}
