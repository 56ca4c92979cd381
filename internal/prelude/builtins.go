package prelude

// Builtin describes one built-in function's name and arity (curried, so
// arity is the number of arguments before full application, as every
// relanote function is applied one argument at a time via ApplyExpr).
type Builtin struct {
	Name  string
	Arity int
}

// Builtins is the full built-in function table: general list/sequence
// combinators plus the music-specific transforms and effects spec.md §4.5
// and §4.6 require every module to have in scope without a `use`.
var Builtins = []Builtin{
	// general sequence combinators
	{"map", 2},
	{"filter", 2},
	{"foldl", 3},
	{"foldr", 3},
	{"flatMap", 2},
	{"find", 2},
	{"any", 2},
	{"all", 2},
	{"zip", 2},
	{"take", 2},
	{"drop", 2},
	{"concat", 2},
	{"len", 1},
	{"reverse", 1},

	// music-specific transforms (Block -> Block)
	{"repeat", 2},
	{"transpose", 2},
	{"swing", 2},
	{"double_time", 1},
	{"half_time", 1},
	{"invert", 1},
	{"retrograde", 1},
	{"rotate", 2},
	{"stretch", 2},
	{"compress", 2},
	{"quantize", 2},

	// effect/voicing builtins (Block -> Block, attaching Part metadata)
	{"voice", 2},
	{"volume", 2},
	{"pan", 2},
	{"reverb", 2},
	{"cutoff", 2},
	{"resonance", 2},
	{"detune", 2},
	{"adsr", 5},
	{"layer", 1},
}

// builtinNames is computed once at package init so BuiltinNames and the
// resolver's base-scope seeding do not re-walk Builtins on every call.
var builtinNames = computeBuiltinNames()

func computeBuiltinNames() map[string]int {
	m := make(map[string]int, len(Builtins))
	for _, b := range Builtins {
		m[b.Name] = b.Arity
	}
	return m
}

// BuiltinNames returns every builtin function name.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinNames))
	for name := range builtinNames {
		names = append(names, name)
	}
	return names
}

// BuiltinArity reports a builtin's curried arity and whether it exists.
func BuiltinArity(name string) (int, bool) {
	a, ok := builtinNames[name]
	return a, ok
}
