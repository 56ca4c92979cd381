package eval

import (
	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/musictheory"
)

// SlotKind tags which field of a BlockSlot is live.
type SlotKind int

const (
	SlotNote SlotKind = iota
	SlotRest
	SlotChord
	SlotNested // a tuplet, evaluated into its own fully-resolved Block
)

// BlockSlot is one already-evaluated element of a Block. Unlike ast.Slot,
// which stores a relative Weight against its siblings, a BlockSlot stores
// its final Duration directly: spec.md §8 invariant 9 requires `++` to
// preserve each operand's original per-slot durations exactly, which is
// only possible once weights have been resolved against a concrete
// total_beats and baked in as absolute rationals.
type BlockSlot struct {
	Kind         SlotKind
	Interval     musictheory.Interval   // SlotNote
	ChordNotes   []musictheory.Interval // SlotChord
	Nested       *Block                 // SlotNested
	Articulation ast.Articulation
	Duration     *Rat
}

// Block is slots plus the exact total duration they sum to (spec.md §3).
type Block struct {
	Slots      []BlockSlot
	TotalBeats *Rat
}

// newWeightedBlock builds a Block from parallel slices of already-evaluated
// slot content and integer weights, dividing total exactly among them in
// proportion to weight — the one formula every literal block, and every
// tuplet's own inner division, uses (a tuplet's `:n` sets its *own*
// children's total_beats budget, not its span within an enclosing block,
// which is governed by its slot weight like any other slot).
func newWeightedBlock(kinds []SlotKind, intervals []musictheory.Interval, chords [][]musictheory.Interval, nested []*Block, artics []ast.Articulation, weights []int, total *Rat) *Block {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	slots := make([]BlockSlot, len(kinds))
	for i := range kinds {
		var dur Rat
		if sum > 0 {
			dur.Mul(total, big1(weights[i], sum))
		}
		slots[i] = BlockSlot{
			Kind: kinds[i], Articulation: artics[i], Duration: new(Rat).Set(&dur),
		}
		if i < len(intervals) {
			slots[i].Interval = intervals[i]
		}
		if i < len(chords) {
			slots[i].ChordNotes = chords[i]
		}
		if i < len(nested) {
			slots[i].Nested = nested[i]
		}
	}
	return &Block{Slots: slots, TotalBeats: new(Rat).Set(total)}
}

func big1(num, den int) *Rat { return newRat(int64(num), int64(den)) }

// concatBlocks implements `++` over blocks (spec.md §4.6): slot sequence
// concatenates verbatim (so every per-slot Duration is untouched, the
// rhythm-preservation contract of invariant 9), and TotalBeats is the exact
// sum of the operands' totals.
func concatBlocks(a, b *Block) *Block {
	slots := make([]BlockSlot, 0, len(a.Slots)+len(b.Slots))
	slots = append(slots, a.Slots...)
	slots = append(slots, b.Slots...)
	total := new(Rat).Add(a.TotalBeats, b.TotalBeats)
	return &Block{Slots: slots, TotalBeats: total}
}

// reverseBlock reverses slot order while preserving each slot's own
// duration (spec.md §8 invariant 7: reverse is an involution).
func reverseBlock(b *Block) *Block {
	slots := make([]BlockSlot, len(b.Slots))
	for i, s := range b.Slots {
		slots[len(b.Slots)-1-i] = s
	}
	return &Block{Slots: slots, TotalBeats: new(Rat).Set(b.TotalBeats)}
}
