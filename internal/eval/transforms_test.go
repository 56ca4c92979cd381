package eval

import (
	"testing"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/musictheory"
	"github.com/stretchr/testify/assert"
)

func noteBlock(cents ...int) *Block {
	kinds := make([]SlotKind, len(cents))
	intervals := make([]musictheory.Interval, len(cents))
	weights := make([]int, len(cents))
	artics := make([]ast.Articulation, len(cents))
	for i, c := range cents {
		kinds[i] = SlotNote
		intervals[i] = musictheory.Interval{Cents: c}
		weights[i] = 1
	}
	return newWeightedBlock(kinds, intervals, nil, nil, artics, weights, big1(1, 1))
}

func blocksEqual(t *testing.T, a, b *Block) {
	t.Helper()
	a1 := assert.New(t)
	a1.Equal(0, a.TotalBeats.Cmp(b.TotalBeats))
	a1.Len(b.Slots, len(a.Slots))
	for i := range a.Slots {
		a1.Equal(a.Slots[i].Kind, b.Slots[i].Kind)
		a1.Equal(a.Slots[i].Interval.Cents, b.Slots[i].Interval.Cents)
		a1.Equal(0, a.Slots[i].Duration.Cmp(b.Slots[i].Duration))
	}
}

// TestTransposeRoundTrip is spec.md §8 invariant 6: transpose(-i,
// transpose(i, block)) is structurally identical to block.
func TestTransposeRoundTrip(t *testing.T) {
	b := noteBlock(0, 200, 400)
	iv := musictheory.Interval{Cents: 700}
	up := transposeBlock(iv, b)
	back := transposeBlock(musictheory.Interval{Cents: -iv.Cents}, up)
	blocksEqual(t, b, back)
}

// TestReverseInvolution is spec.md §8 invariant 7: reverse(reverse(block))
// is structurally identical to block.
func TestReverseInvolution(t *testing.T) {
	b := noteBlock(0, 200, 400, 700)
	twice := reverseBlock(reverseBlock(b))
	blocksEqual(t, b, twice)
}

// TestConcatAssociative is spec.md §8 invariant 8: concat(a,b) ++ c is
// structurally identical to a ++ concat(b,c).
func TestConcatAssociative(t *testing.T) {
	a := noteBlock(0, 200)
	b := noteBlock(400)
	c := noteBlock(700, 1100)
	left := concatBlocks(concatBlocks(a, b), c)
	right := concatBlocks(a, concatBlocks(b, c))
	blocksEqual(t, left, right)
}

// TestConcatPreservesRhythm is spec.md §8 invariant 9: `++` leaves each
// operand's own per-slot durations untouched rather than renormalizing
// them against the combined total.
func TestConcatPreservesRhythm(t *testing.T) {
	fast := noteBlock(0, 200, 400, 500, 700, 500, 400, 200) // 8 slots, total 1 beat
	slow := noteBlock(0, 700)                                // 2 slots, total 1 beat
	combined := concatBlocks(fast, slow)

	a1 := assert.New(t)
	a1.Equal(0, combined.TotalBeats.Cmp(newRat(2, 1)))
	for i := 0; i < 8; i++ {
		a1.Equal(0, combined.Slots[i].Duration.Cmp(newRat(1, 8)), "slot %d", i)
	}
	for i := 8; i < 10; i++ {
		a1.Equal(0, combined.Slots[i].Duration.Cmp(newRat(1, 2)), "slot %d", i)
	}
}

// TestBlockWeightsSumToTotal is spec.md §8 invariant 5: slot durations
// weighted by their integer weight sum exactly to the block's total.
func TestBlockWeightsSumToTotal(t *testing.T) {
	kinds := []SlotKind{SlotNote, SlotNote, SlotNote}
	intervals := []musictheory.Interval{{Cents: 0}, {Cents: 200}, {Cents: 400}}
	artics := make([]ast.Articulation, 3)
	weights := []int{1, 2, 1}
	total := newRat(3, 1)
	b := newWeightedBlock(kinds, intervals, nil, nil, artics, weights, total)
	assert.Equal(t, 0, recomputeTotal(b.Slots).Cmp(total))
}
