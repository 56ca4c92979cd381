// Package resolver builds the module graph for a compilation (following
// `mod` declarations through a FileProvider), detects import cycles, and
// resolves every identifier to a Symbol within its module's lexical scope.
// It mirrors the teacher's habit of returning a result plus a diagnostic
// list rather than failing outright: a module with an unresolved name still
// produces a best-effort Result so later stages can report more errors in
// one pass instead of stopping at the first one.
package resolver

import (
	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/lexer"
	"github.com/relanote-lang/relanote/internal/parser"
	"github.com/relanote-lang/relanote/internal/prelude"
)

// Module is one parsed, loaded file in the module graph.
type Module struct {
	Path    string // logical path as named by `mod`, "" for the root
	File    *ast.File
	Symbols map[string]*Symbol // names this module exports at top level
}

// Result is the resolver's output: the full module graph plus a side table
// mapping every identifier reference to the Symbol it resolved to (or nil
// for one the resolver could not resolve, with a diagnostic already
// recorded for it). ParamSyms and PatternSyms expose the exact Symbol
// instances bound for lambda parameters and let/match patterns, so the
// types stage can seed its environment with the very same identity the
// Refs table already points at, instead of re-deriving new ones.
type Result struct {
	Root        *Module
	Modules     map[string]*Module
	Refs        map[*ast.IdentExpr]*Symbol
	ParamSyms   map[*ast.LambdaExpr][]*Symbol
	PatternSyms map[ast.Pattern][]*Symbol
}

type resolver struct {
	provider    FileProvider
	modules     map[string]*Module
	refs        map[*ast.IdentExpr]*Symbol
	paramSyms   map[*ast.LambdaExpr][]*Symbol
	patternSyms map[ast.Pattern][]*Symbol
	bag         *diag.Bag
	nextID      int
	loading     map[string]bool // DFS "gray" set for cycle detection
}

// Resolve parses the root file's dependency graph (via provider), binds
// every top-level name, and resolves every identifier expression to a
// Symbol, returning partial results alongside any diagnostics.
func Resolve(rootFile *ast.File, provider FileProvider) (*Result, []diag.Diagnostic) {
	r := &resolver{
		provider:    provider,
		modules:     make(map[string]*Module),
		refs:        make(map[*ast.IdentExpr]*Symbol),
		paramSyms:   make(map[*ast.LambdaExpr][]*Symbol),
		patternSyms: make(map[ast.Pattern][]*Symbol),
		bag:         diag.NewBag(),
		loading:     make(map[string]bool),
	}
	root := &Module{Path: "", File: rootFile, Symbols: make(map[string]*Symbol)}
	r.modules[""] = root
	r.loadDeps(root)
	r.bindTopLevel(root)
	for _, m := range r.modules {
		if m != root {
			r.bindTopLevel(m)
		}
	}
	baseScope := r.baseScope()
	r.resolveModule(root, baseScope)
	for path, m := range r.modules {
		if path != "" {
			r.resolveModule(m, baseScope)
		}
	}
	return &Result{
		Root: root, Modules: r.modules, Refs: r.refs,
		ParamSyms: r.paramSyms, PatternSyms: r.patternSyms,
	}, r.bag.Items()
}

// loadDeps walks `mod` declarations reachable from m, parsing and
// registering each one exactly once, and reports circular or missing
// modules without aborting the rest of the graph.
func (r *resolver) loadDeps(m *Module) {
	r.loading[m.Path] = true
	defer delete(r.loading, m.Path)

	for _, item := range m.File.Items {
		decl, ok := item.(*ast.ModDecl)
		if !ok {
			continue
		}
		if r.loading[decl.Name] {
			r.bag.Errorf(diag.KindCircularModule, decl.Span, "circular module dependency involving %q", decl.Name)
			continue
		}
		if _, already := r.modules[decl.Name]; already {
			continue
		}
		src, ok := r.provider.Load(decl.Name)
		if !ok {
			r.bag.Errorf(diag.KindModuleNotFound, decl.Span, "module %q not found", decl.Name)
			continue
		}
		toks, lexDiags := lexer.Lex(src)
		r.bag.Extend(lexDiags)
		file, parseDiags := parser.Parse(toks)
		r.bag.Extend(parseDiags)

		dep := &Module{Path: decl.Name, File: file, Symbols: make(map[string]*Symbol)}
		r.modules[decl.Name] = dep
		r.loadDeps(dep)
	}
}

// bindTopLevel registers every name a module declares (let/scale/chord/
// synth/set) as a Symbol in that module's export table. Duplicate names
// within one module are reported but the first binding wins.
func (r *resolver) bindTopLevel(m *Module) {
	for _, item := range m.File.Items {
		var name string
		var kind SymbolKind
		var span diag.Span
		switch decl := item.(type) {
		case *ast.LetDecl:
			ip, ok := decl.Pattern.(*ast.IdentPattern)
			if !ok {
				continue // destructuring let-patterns bind no single top-level name
			}
			name, kind, span = ip.Name, SymLet, decl.Span
		case *ast.ScaleDecl:
			name, kind, span = decl.Name, SymScale, decl.Span
		case *ast.ChordDecl:
			name, kind, span = decl.Name, SymChord, decl.Span
		case *ast.SynthDecl:
			name, kind, span = decl.Name, SymSynth, decl.Span
		case *ast.SetDecl:
			name, kind, span = decl.Name, SymLet, decl.Span
		default:
			continue
		}
		if _, dup := m.Symbols[name]; dup {
			r.bag.Errorf(diag.KindDuplicateName, span, "%q is already declared in this module", name)
			continue
		}
		m.Symbols[name] = r.newSymbol(name, m.Path, kind, span)
	}
}

func (r *resolver) newSymbol(name, module string, kind SymbolKind, span diag.Span) *Symbol {
	r.nextID++
	return &Symbol{ID: r.nextID, Name: name, Module: module, Kind: kind, DefSpan: span}
}

// scope is a chain of lexical frames; lookups walk outward to the base
// (prelude/builtin) frame.
type scope struct {
	names  map[string]*Symbol
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{names: make(map[string]*Symbol), parent: parent}
}

func (s *scope) lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (s *scope) bind(name string, sym *Symbol) {
	s.names[name] = sym
}

// baseScope seeds every module's outermost frame with builtin function,
// scale, and chord names so unqualified references like `transpose` or
// `Major` resolve without an explicit `use`, per spec.md §4.5.
func (r *resolver) baseScope() *scope {
	base := newScope(nil)
	for _, name := range prelude.BuiltinNames() {
		base.bind(name, r.newSymbol(name, "", SymBuiltin, diag.Span{}))
	}
	for _, name := range prelude.ScaleNames() {
		base.bind(name, r.newSymbol(name, "", SymScale, diag.Span{}))
	}
	for _, name := range prelude.ChordNames() {
		base.bind(name, r.newSymbol(name, "", SymChord, diag.Span{}))
	}
	for _, name := range prelude.SynthNames() {
		base.bind(name, r.newSymbol(name, "", SymSynth, diag.Span{}))
	}
	return base
}

func (r *resolver) resolveModule(m *Module, base *scope) {
	moduleScope := newScope(base)
	r.applyUses(m, moduleScope)
	// Top-level let/scale/chord/synth names are visible to every item in
	// the module, including ones declared earlier in the file, matching
	// the teacher convention of resolving a whole unit before evaluating it.
	for name, sym := range m.Symbols {
		moduleScope.bind(name, sym)
	}
	for _, item := range m.File.Items {
		r.resolveItem(item, moduleScope)
	}
}

// applyUses binds names imported via `use` declarations, following simple,
// glob, and grouped/aliased forms against the already-loaded dependency
// modules.
func (r *resolver) applyUses(m *Module, s *scope) {
	for _, item := range m.File.Items {
		use, ok := item.(*ast.UseDecl)
		if !ok {
			continue
		}
		modPath, leaf := splitUsePath(use.Path)
		dep, ok := r.modules[modPath]
		if !ok {
			r.bag.Errorf(diag.KindModuleNotFound, use.Span, "module %q not found", modPath)
			continue
		}
		switch use.Kind {
		case ast.UseSimple:
			sym, ok := dep.Symbols[leaf]
			if !ok {
				r.bag.Errorf(diag.KindUnresolvedIdent, use.Span, "%q has no member %q", modPath, leaf)
				continue
			}
			s.bind(leaf, sym)
		case ast.UseGlob:
			for name, sym := range dep.Symbols {
				s.bind(name, sym)
			}
		case ast.UseGroup:
			for _, gi := range use.Items {
				sym, ok := dep.Symbols[gi.Name]
				if !ok {
					r.bag.Errorf(diag.KindUnresolvedIdent, use.Span, "%q has no member %q", modPath, gi.Name)
					continue
				}
				bindName := gi.Name
				if gi.Alias != "" {
					bindName = gi.Alias
				}
				s.bind(bindName, sym)
			}
		}
	}
}

// splitUsePath separates a `use a::b::c` path into the module path "a::b"
// and the leaf member name "c". A single-segment path (`use a::*` or
// `use a::{...}`, whose path holds only the module name) is itself the
// module key the loader registered, with an empty leaf.
func splitUsePath(path []string) (modPath string, leaf string) {
	if len(path) == 0 {
		return "", ""
	}
	if len(path) == 1 {
		return path[0], ""
	}
	modPath = path[0]
	for _, seg := range path[1 : len(path)-1] {
		modPath += "::" + seg
	}
	return modPath, path[len(path)-1]
}

func (r *resolver) resolveItem(item ast.Item, s *scope) {
	switch it := item.(type) {
	case *ast.LetDecl:
		r.resolveExpr(it.Value, s)
	case *ast.ScaleDecl:
		for _, e := range it.Intervals {
			r.resolveExpr(e, s)
		}
	case *ast.ChordDecl:
		for _, e := range it.Intervals {
			r.resolveExpr(e, s)
		}
	case *ast.SynthDecl:
		for _, f := range it.Fields {
			r.resolveExpr(f.Value, s)
		}
	case *ast.SetDecl:
		r.resolveExpr(it.Value, s)
	case *ast.ExprItem:
		r.resolveExpr(it.Value, s)
	}
}

func (r *resolver) resolveExpr(e ast.Expr, s *scope) {
	switch n := e.(type) {
	case *ast.IdentExpr:
		sym, ok := s.lookup(n.Name)
		if !ok {
			r.bag.Errorf(diag.KindUnresolvedIdent, n.Span, "unresolved identifier %q", n.Name)
			r.refs[n] = nil
			return
		}
		r.refs[n] = sym
	case *ast.ArrayLitExpr:
		for _, el := range n.Elems {
			r.resolveExpr(el, s)
		}
	case *ast.ChordLitExpr:
		for _, el := range n.Elems {
			r.resolveExpr(el, s)
		}
	case *ast.RecordLitExpr:
		for _, f := range n.Fields {
			r.resolveExpr(f.Value, s)
		}
	case *ast.LambdaExpr:
		inner := newScope(s)
		syms := make([]*Symbol, len(n.Params))
		for i, p := range n.Params {
			sym := r.newSymbol(p, "", SymParam, n.Span)
			inner.bind(p, sym)
			syms[i] = sym
		}
		r.paramSyms[n] = syms
		r.resolveExpr(n.Body, inner)
	case *ast.ApplyExpr:
		r.resolveExpr(n.Fn, s)
		r.resolveExpr(n.Arg, s)
	case *ast.BinaryExpr:
		r.resolveExpr(n.Left, s)
		r.resolveExpr(n.Right, s)
	case *ast.UnaryExpr:
		r.resolveExpr(n.Expr, s)
	case *ast.PipeExpr:
		r.resolveExpr(n.Left, s)
		r.resolveExpr(n.Right, s)
	case *ast.ComposeExpr:
		r.resolveExpr(n.Left, s)
		r.resolveExpr(n.Right, s)
	case *ast.LetExpr:
		r.resolveExpr(n.Value, s)
		inner := newScope(s)
		r.bindPattern(n.Pattern, inner)
		r.resolveExpr(n.Body, inner)
	case *ast.IfExpr:
		r.resolveExpr(n.Cond, s)
		r.resolveExpr(n.Then, s)
		r.resolveExpr(n.Else, s)
	case *ast.MatchExpr:
		r.resolveExpr(n.Scrutinee, s)
		for _, arm := range n.Arms {
			inner := newScope(s)
			r.bindPattern(arm.Pattern, inner)
			r.resolveExpr(arm.Body, inner)
		}
	case *ast.FieldAccessExpr:
		r.resolveExpr(n.Target, s)
	case *ast.BlockExpr:
		for _, slot := range n.Slots {
			r.resolveExpr(slot.Value, s)
		}
		if n.TotalBeats != nil {
			r.resolveExpr(n.TotalBeats, s)
		}
	case *ast.TupletExpr:
		for _, slot := range n.Slots {
			r.resolveExpr(slot.Value, s)
		}
		r.resolveExpr(n.Beats, s)
	case *ast.DurationExpr:
		r.resolveExpr(n.Target, s)
		r.resolveExpr(n.N, s)
	// IntLitExpr, FloatLitExpr, StringLitExpr, BoolLitExpr, IntervalLitExpr,
	// PitchLitExpr, DegreeExpr, RestExpr carry no sub-expressions or
	// identifier references.
	default:
	}
}

// bindPattern binds every name a pattern introduces into s, recording the
// full flat list of Symbols it created against the pattern's root node so
// the types stage can seed its environment with the same identities the
// Refs table already points occurrences at.
func (r *resolver) bindPattern(root ast.Pattern, s *scope) {
	var syms []*Symbol
	var walk func(p ast.Pattern)
	walk = func(p ast.Pattern) {
		switch pat := p.(type) {
		case *ast.IdentPattern:
			sym := r.newSymbol(pat.Name, "", SymLet, pat.Span)
			s.bind(pat.Name, sym)
			syms = append(syms, sym)
		case *ast.TuplePattern:
			for _, elem := range pat.Elems {
				walk(elem)
			}
		case *ast.WildcardPattern, *ast.UnitPattern, *ast.LitPattern:
			// binds nothing
		}
	}
	walk(root)
	r.patternSyms[root] = syms
}
