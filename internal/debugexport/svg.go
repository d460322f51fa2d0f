// Package debugexport renders a single tick's recognized state (the
// screenshot frame, detected card slots, and the recommended-card result)
// to SVG for offline inspection, grounded on dshills-dungo's
// pkg/export/svg.go canvas-composition shape: fixed-size canvas,
// background rect, then layered shape passes, then an optional legend.
package debugexport

import (
	"bytes"
	"fmt"
	"image"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/harukaze/producecore/internal/battle"
	"github.com/harukaze/producecore/internal/vision"
)

// Options configures a tick's SVG export.
type Options struct {
	Width, Height int
	ShowLegend    bool
	Title         string
}

// DefaultOptions mirrors the logical frame size every coordinate in this
// module is already expressed in.
func DefaultOptions() Options {
	return Options{
		Width:      vision.LogicalWidth,
		Height:     vision.LogicalHeight,
		ShowLegend: true,
		Title:      "tick",
	}
}

// CardSlot is one rectangle to render, labeled by its detector score.
type CardSlot struct {
	Index     int
	Rect      image.Rectangle
	Score     float64
	Recommend bool
}

// ExportTick renders the card slots (highlighting the recommended one, if
// any) over a blank frame-sized canvas.
func ExportTick(slots []CardSlot, bt battle.BattleType, opts Options) []byte {
	if opts.Width <= 0 {
		opts.Width = vision.LogicalWidth
	}
	if opts.Height <= 0 {
		opts.Height = vision.LogicalHeight
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	sorted := append([]CardSlot(nil), slots...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	for _, s := range sorted {
		color := "#4299e1"
		if s.Recommend {
			color = "#f6e05e"
		}
		r := s.Rect
		canvas.Rect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:3;opacity:0.9", color))
		canvas.Text(r.Min.X+6, r.Min.Y+18, fmt.Sprintf("#%d %.3f", s.Index, s.Score),
			"font-size:12px;font-family:monospace;fill:#e2e8f0")
	}

	if opts.Title != "" {
		canvas.Text(opts.Width/2, 24, fmt.Sprintf("%s (%s)", opts.Title, battleTypeLabel(bt)),
			"text-anchor:middle;font-size:16px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}
	if opts.ShowLegend {
		drawLegend(canvas, opts)
	}

	canvas.End()
	return buf.Bytes()
}

func drawLegend(canvas *svg.SVG, opts Options) {
	x, y := opts.Width-170, 50
	canvas.Rect(x-10, y-20, 160, 70, "fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	canvas.Circle(x+6, y, 6, "fill:#f6e05e")
	canvas.Text(x+20, y+4, "recommended", "font-size:11px;fill:#cbd5e0")
	canvas.Circle(x+6, y+24, 6, "fill:#4299e1")
	canvas.Text(x+20, y+28, "detected", "font-size:11px;fill:#cbd5e0")
}

// CardSlotsFromResults converts a detector pass into exportable CardSlots,
// flagging the single recommendedIndex (or -1 for none) as the recommended
// slot.
func CardSlotsFromResults(rects []image.Rectangle, results []battle.CardResult, recommendedIndex int) []CardSlot {
	out := make([]CardSlot, 0, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(rects) {
			continue
		}
		out = append(out, CardSlot{
			Index:     r.Index,
			Rect:      rects[r.Index],
			Score:     r.Score,
			Recommend: r.Index == recommendedIndex,
		})
	}
	return out
}

func battleTypeLabel(bt battle.BattleType) string {
	switch bt {
	case battle.BattlePractice:
		return "practice"
	case battle.BattleExamMid:
		return "exam-mid"
	case battle.BattleExamFinal:
		return "exam-final"
	default:
		return "unknown"
	}
}
