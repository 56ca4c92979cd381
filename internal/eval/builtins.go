package eval

import (
	"fmt"

	"github.com/relanote-lang/relanote/internal/prelude"
	"github.com/relanote-lang/relanote/internal/resolver"
)

// lookupBuiltin resolves a SymBuiltin reference to its callable Function
// Value the first time it is referenced, mirroring lookupPreludeName's
// lazy-cache-into-env treatment of scale/chord/synth prelude names.
func (ev *evaluator) lookupBuiltin(sym *resolver.Symbol) (Value, bool) {
	arity, ok := prelude.BuiltinArity(sym.Name)
	if !ok {
		return Value{}, false
	}
	call, ok := builtinCall(sym.Name)
	if !ok {
		return Value{}, false
	}
	return FunctionValue(&Function{Arity: arity, Name: sym.Name, Call: call}), true
}

// callFn applies a curried Function Value to one argument, the single
// primitive every higher-order builtin below is written in terms of.
func callFn(fn Value, arg Value) (Value, error) {
	if fn.Kind != KFunction {
		return Value{}, fmt.Errorf("expected a function argument, found %s", fn.Kind)
	}
	return fn.Fn.Apply(arg)
}

// builtinCall returns the Call closure for a builtin name; the table is
// split out from lookupBuiltin so prelude.Builtins (names+arity) remains
// the single source of truth for what exists, while this function is the
// single source of truth for what each one does.
func builtinCall(name string) (func(args []Value) (Value, error), bool) {
	switch name {
	case "map":
		return func(args []Value) (Value, error) {
			arr := args[1]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("map: expected an Array")
			}
			out := make([]Value, len(arr.Elems))
			for i, el := range arr.Elems {
				v, err := callFn(args[0], el)
				if err != nil {
					return Value{}, err
				}
				out[i] = v
			}
			return ArrayValue(out), nil
		}, true
	case "filter":
		return func(args []Value) (Value, error) {
			arr := args[1]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("filter: expected an Array")
			}
			var out []Value
			for _, el := range arr.Elems {
				v, err := callFn(args[0], el)
				if err != nil {
					return Value{}, err
				}
				if v.Bool {
					out = append(out, el)
				}
			}
			return ArrayValue(out), nil
		}, true
	case "foldl":
		return func(args []Value) (Value, error) {
			acc := args[1]
			arr := args[2]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("foldl: expected an Array")
			}
			for _, el := range arr.Elems {
				step, err := callFn(args[0], acc)
				if err != nil {
					return Value{}, err
				}
				acc, err = callFn(step, el)
				if err != nil {
					return Value{}, err
				}
			}
			return acc, nil
		}, true
	case "foldr":
		return func(args []Value) (Value, error) {
			acc := args[1]
			arr := args[2]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("foldr: expected an Array")
			}
			for i := len(arr.Elems) - 1; i >= 0; i-- {
				step, err := callFn(args[0], arr.Elems[i])
				if err != nil {
					return Value{}, err
				}
				var err2 error
				acc, err2 = callFn(step, acc)
				if err2 != nil {
					return Value{}, err2
				}
			}
			return acc, nil
		}, true
	case "flatMap":
		return func(args []Value) (Value, error) {
			arr := args[1]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("flatMap: expected an Array")
			}
			var out []Value
			for _, el := range arr.Elems {
				v, err := callFn(args[0], el)
				if err != nil {
					return Value{}, err
				}
				if v.Kind != KArray {
					return Value{}, fmt.Errorf("flatMap: function must return an Array")
				}
				out = append(out, v.Elems...)
			}
			return ArrayValue(out), nil
		}, true
	case "find":
		return func(args []Value) (Value, error) {
			arr := args[1]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("find: expected an Array")
			}
			for _, el := range arr.Elems {
				v, err := callFn(args[0], el)
				if err != nil {
					return Value{}, err
				}
				if v.Bool {
					return el, nil
				}
			}
			// No match: spec.md §4.6 documents this as the Unit outcome,
			// the Value-level stand-in for Option's None (Value has no
			// distinct Option variant).
			return UnitValue(), nil
		}, true
	case "any":
		return func(args []Value) (Value, error) {
			arr := args[1]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("any: expected an Array")
			}
			for _, el := range arr.Elems {
				v, err := callFn(args[0], el)
				if err != nil {
					return Value{}, err
				}
				if v.Bool {
					return BoolValue(true), nil
				}
			}
			return BoolValue(false), nil
		}, true
	case "all":
		return func(args []Value) (Value, error) {
			arr := args[1]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("all: expected an Array")
			}
			for _, el := range arr.Elems {
				v, err := callFn(args[0], el)
				if err != nil {
					return Value{}, err
				}
				if !v.Bool {
					return BoolValue(false), nil
				}
			}
			return BoolValue(true), nil
		}, true
	case "zip":
		return func(args []Value) (Value, error) {
			a, b := args[0], args[1]
			if a.Kind != KArray || b.Kind != KArray {
				return Value{}, fmt.Errorf("zip: expected two Arrays")
			}
			n := len(a.Elems)
			if len(b.Elems) < n {
				n = len(b.Elems)
			}
			out := make([]Value, n)
			for i := 0; i < n; i++ {
				out[i] = TupleValue([]Value{a.Elems[i], b.Elems[i]})
			}
			return ArrayValue(out), nil
		}, true
	case "take":
		return func(args []Value) (Value, error) {
			n := args[0].Int
			arr := args[1]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("take: expected an Array")
			}
			if n < 0 {
				n = 0
			}
			if int(n) > len(arr.Elems) {
				n = int64(len(arr.Elems))
			}
			out := make([]Value, n)
			copy(out, arr.Elems[:n])
			return ArrayValue(out), nil
		}, true
	case "drop":
		return func(args []Value) (Value, error) {
			n := args[0].Int
			arr := args[1]
			if arr.Kind != KArray {
				return Value{}, fmt.Errorf("drop: expected an Array")
			}
			if n < 0 {
				n = 0
			}
			if int(n) > len(arr.Elems) {
				n = int64(len(arr.Elems))
			}
			out := make([]Value, len(arr.Elems)-int(n))
			copy(out, arr.Elems[n:])
			return ArrayValue(out), nil
		}, true
	case "concat":
		return func(args []Value) (Value, error) {
			return concatValues(args[0], args[1])
		}, true
	case "len":
		return func(args []Value) (Value, error) {
			if args[0].Kind != KArray {
				return Value{}, fmt.Errorf("len: expected an Array")
			}
			return IntValue(int64(len(args[0].Elems))), nil
		}, true
	case "reverse":
		return func(args []Value) (Value, error) {
			switch args[0].Kind {
			case KBlock:
				return BlockValue(reverseBlock(args[0].Block)), nil
			case KArray:
				elems := make([]Value, len(args[0].Elems))
				for i, el := range args[0].Elems {
					elems[len(elems)-1-i] = el
				}
				return ArrayValue(elems), nil
			}
			return Value{}, fmt.Errorf("reverse: expected an Array or Block")
		}, true

	case "repeat":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[1])
			if !ok {
				return Value{}, fmt.Errorf("repeat: expected a Block")
			}
			return BlockValue(repeatBlock(args[0].Int, b)), nil
		}, true
	case "transpose":
		return func(args []Value) (Value, error) {
			if args[0].Kind != KInterval {
				return Value{}, fmt.Errorf("transpose: expected an Interval")
			}
			b, ok := asBlock(args[1])
			if !ok {
				return Value{}, fmt.Errorf("transpose: expected a Block")
			}
			return BlockValue(transposeBlock(args[0].Interval, b)), nil
		}, true
	case "swing":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[1])
			if !ok {
				return Value{}, fmt.Errorf("swing: expected a Block")
			}
			return BlockValue(swingBlock(b)), nil
		}, true
	case "double_time":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[0])
			if !ok {
				return Value{}, fmt.Errorf("double_time: expected a Block")
			}
			return BlockValue(doubleTimeBlock(b)), nil
		}, true
	case "half_time":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[0])
			if !ok {
				return Value{}, fmt.Errorf("half_time: expected a Block")
			}
			return BlockValue(halfTimeBlock(b)), nil
		}, true
	case "invert":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[0])
			if !ok {
				return Value{}, fmt.Errorf("invert: expected a Block")
			}
			return BlockValue(invertBlock(b)), nil
		}, true
	case "retrograde":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[0])
			if !ok {
				return Value{}, fmt.Errorf("retrograde: expected a Block")
			}
			return BlockValue(reverseBlock(b)), nil
		}, true
	case "rotate":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[1])
			if !ok {
				return Value{}, fmt.Errorf("rotate: expected a Block")
			}
			return BlockValue(rotateBlock(args[0].Int, b)), nil
		}, true
	case "stretch":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[1])
			if !ok {
				return Value{}, fmt.Errorf("stretch: expected a Block")
			}
			return BlockValue(stretchBlock(toFloat(args[0]), b)), nil
		}, true
	case "compress":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[1])
			if !ok {
				return Value{}, fmt.Errorf("compress: expected a Block")
			}
			return BlockValue(compressBlock(toFloat(args[0]), b)), nil
		}, true
	case "quantize":
		return func(args []Value) (Value, error) {
			b, ok := asBlock(args[1])
			if !ok {
				return Value{}, fmt.Errorf("quantize: expected a Block")
			}
			return BlockValue(quantizeBlock(args[0].Int, b)), nil
		}, true

	case "voice":
		return effectVoice, true
	case "volume":
		return func(args []Value) (Value, error) { return effectFloatField("volume", args) }, true
	case "pan":
		return func(args []Value) (Value, error) { return effectFloatField("pan", args) }, true
	case "reverb":
		return func(args []Value) (Value, error) { return effectFloatField("reverb", args) }, true
	case "cutoff":
		return func(args []Value) (Value, error) { return effectFloatField("cutoff", args) }, true
	case "resonance":
		return func(args []Value) (Value, error) { return effectFloatField("resonance", args) }, true
	case "detune":
		return func(args []Value) (Value, error) { return effectFloatField("detune", args) }, true
	case "adsr":
		return effectADSR, true
	case "layer":
		return effectLayer, true
	}
	return nil, false
}
