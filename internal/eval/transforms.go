package eval

import (
	"math"
	"math/big"

	"github.com/relanote-lang/relanote/internal/musictheory"
)

// recomputeTotal keeps Block.TotalBeats consistent with the sum of its own
// slots' Duration after any transform edits them, preserving spec.md §8
// invariant 5 ("Σ slot_duration ≡ T") as a representation invariant rather
// than a one-off check.
func recomputeTotal(slots []BlockSlot) *Rat {
	total := new(Rat)
	for _, s := range slots {
		total.Add(total, s.Duration)
	}
	return total
}

func repeatBlock(n int64, b *Block) *Block {
	if n <= 0 {
		return &Block{TotalBeats: new(Rat)}
	}
	out := b
	for i := int64(1); i < n; i++ {
		out = concatBlocks(out, b)
	}
	return out
}

// transposeBlock adds iv to every Note/Chord interval, recursing into
// nested tuplets (spec.md §4.6: "adds the interval to every Note/
// ScaleDegree/Chord interval"; ScaleDegree has already been resolved to a
// concrete Interval by the time a Block value exists).
func transposeBlock(iv musictheory.Interval, b *Block) *Block {
	slots := make([]BlockSlot, len(b.Slots))
	for i, s := range b.Slots {
		ns := s
		switch s.Kind {
		case SlotNote:
			ns.Interval = musictheory.Interval{Cents: s.Interval.Cents + iv.Cents}
		case SlotChord:
			chord := make([]musictheory.Interval, len(s.ChordNotes))
			for j, c := range s.ChordNotes {
				chord[j] = musictheory.Interval{Cents: c.Cents + iv.Cents}
			}
			ns.ChordNotes = chord
		case SlotNested:
			ns.Nested = transposeBlock(iv, s.Nested)
		}
		slots[i] = ns
	}
	return &Block{Slots: slots, TotalBeats: new(Rat).Set(b.TotalBeats)}
}

// swingBlock multiplies even-indexed slot durations by 4/3 and odd-indexed
// by 2/3 (spec.md §4.6's fixed swing ratio), then rebuilds TotalBeats from
// the result.
func swingBlock(b *Block) *Block {
	up := big.NewRat(4, 3)
	down := big.NewRat(2, 3)
	slots := make([]BlockSlot, len(b.Slots))
	for i, s := range b.Slots {
		ns := s
		factor := down
		if i%2 == 0 {
			factor = up
		}
		ns.Duration = new(Rat).Mul(s.Duration, factor)
		slots[i] = ns
	}
	return &Block{Slots: slots, TotalBeats: recomputeTotal(slots)}
}

func scaleTime(factor *Rat, b *Block) *Block {
	slots := make([]BlockSlot, len(b.Slots))
	for i, s := range b.Slots {
		ns := s
		ns.Duration = new(Rat).Mul(s.Duration, factor)
		if s.Kind == SlotNested {
			ns.Nested = scaleTime(factor, s.Nested)
		}
		slots[i] = ns
	}
	return &Block{Slots: slots, TotalBeats: recomputeTotal(slots)}
}

func doubleTimeBlock(b *Block) *Block { return scaleTime(big.NewRat(1, 2), b) }
func halfTimeBlock(b *Block) *Block   { return scaleTime(big.NewRat(2, 1), b) }

// stretchBlock and compressBlock scale every duration by r and 1/r
// respectively; the symmetric pairing is a simplification, since spec.md's
// glossary defines both only by name.
func stretchBlock(r float64, b *Block) *Block {
	return scaleTime(floatToRat(r), b)
}

func compressBlock(r float64, b *Block) *Block {
	if r == 0 {
		r = 1
	}
	return scaleTime(floatToRat(1 / r), b)
}

func floatToRat(f float64) *Rat {
	r := new(Rat)
	r.SetFloat64(f)
	return r
}

// invertBlock mirrors every Note interval around the first Note slot found
// (standard melodic inversion); Rest, Chord, and nested Tuplet slots pass
// through unchanged, a simplification for slot kinds inversion has no
// single agreed meaning for.
func invertBlock(b *Block) *Block {
	var axis *musictheory.Interval
	for _, s := range b.Slots {
		if s.Kind == SlotNote {
			iv := s.Interval
			axis = &iv
			break
		}
	}
	slots := make([]BlockSlot, len(b.Slots))
	for i, s := range b.Slots {
		ns := s
		if axis != nil && s.Kind == SlotNote {
			ns.Interval = musictheory.Interval{Cents: 2*axis.Cents - s.Interval.Cents}
		}
		slots[i] = ns
	}
	return &Block{Slots: slots, TotalBeats: new(Rat).Set(b.TotalBeats)}
}

// rotateBlock cyclically shifts slot order by n positions; each slot keeps
// its own Duration, so TotalBeats (a sum over the same multiset) is
// unchanged.
func rotateBlock(n int64, b *Block) *Block {
	count := int64(len(b.Slots))
	if count == 0 {
		return &Block{TotalBeats: new(Rat)}
	}
	shift := ((n % count) + count) % count
	slots := make([]BlockSlot, count)
	for i := int64(0); i < count; i++ {
		slots[i] = b.Slots[(i+shift)%count]
	}
	return &Block{Slots: slots, TotalBeats: new(Rat).Set(b.TotalBeats)}
}

// quantizeBlock snaps every slot boundary (including the block's own end)
// to the nearest multiple of 1/denom beats, per the glossary's Quantize
// entry. Rounding to the nearest grid point goes through a float64
// intermediate purely to choose the nearest integer numerator; the
// reconstructed boundary is an exact rational multiple of 1/denom.
func quantizeBlock(denom int64, b *Block) *Block {
	if denom <= 0 {
		denom = 1
	}
	n := len(b.Slots)
	starts := make([]*Rat, n+1)
	cum := new(Rat)
	for i, s := range b.Slots {
		starts[i] = quantizeRat(cum, denom)
		cum = new(Rat).Add(cum, s.Duration)
	}
	starts[n] = quantizeRat(cum, denom)

	slots := make([]BlockSlot, n)
	for i, s := range b.Slots {
		ns := s
		ns.Duration = new(Rat).Sub(starts[i+1], starts[i])
		slots[i] = ns
	}
	return &Block{Slots: slots, TotalBeats: starts[n]}
}

func quantizeRat(r *Rat, denom int64) *Rat {
	scaled := new(Rat).Mul(r, big.NewRat(denom, 1))
	f, _ := scaled.Float64()
	rounded := int64(math.Round(f))
	return big.NewRat(rounded, denom)
}
