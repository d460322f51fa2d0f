// Package hand models the on-screen hand of cards during a battle, the HUD
// readouts, and the small positional entities (drink/p-item/choice slots)
// other dialogs present.
package hand

import (
	"image"

	"github.com/harukaze/producecore/internal/catalogue"
)

// Slot is one on-screen card position.
type Slot struct {
	Index     int
	Rect      image.Rectangle
	Letter    string // "A", "M", or "T"
	Available bool
	Card      *catalogue.SkillCard // nil if unresolved
}

// Hand is the ordered sequence of 0-5 on-screen card slots.
type Hand struct {
	Slots []Slot
}

// Len returns the number of cards currently in hand.
func (h Hand) Len() int { return len(h.Slots) }

// Available returns the subset of slots that can currently be played.
func (h Hand) Available() []Slot {
	out := make([]Slot, 0, len(h.Slots))
	for _, s := range h.Slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

// HudInfo is the per-turn state read from fixed HUD boxes.
type HudInfo struct {
	TurnsRemaining int
	HitPoints      int
	Genki          int
}

// DrinkSlot is a P-drink position in a drink dialog.
type DrinkSlot struct {
	Index int
	Rect  image.Rectangle
	Drink *catalogue.Drink // nil if unresolved
}

// PItemSlot is a P-item position in a p-item dialog.
type PItemSlot struct {
	Index int
	Rect  image.Rectangle
}

// ChoiceButton is a generic labeled option button (study/outing/consult
// option lists, yes/no confirms, etc).
type ChoiceButton struct {
	Index int
	Rect  image.Rectangle
	Label string
}
