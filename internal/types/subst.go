package types

import "fmt"

// subst is a union-find-style substitution from type-variable ID to the
// Type it has been unified with. Lookups walk the chain (path compression
// happens on apply, not on every lookup, matching the simplicity the
// teacher's other table-driven code favours over cleverness).
type subst struct {
	m      map[int]*Type
	nextID int
}

func newSubst() *subst { return &subst{m: make(map[int]*Type)} }

func (s *subst) fresh() *Type {
	s.nextID++
	return &Type{Kind: KVar, ID: s.nextID}
}

// apply resolves t through the current substitution, recursively, without
// mutating t.
func (s *subst) apply(t *Type) *Type {
	switch t.Kind {
	case KVar:
		if bound, ok := s.m[t.ID]; ok {
			resolved := s.apply(bound)
			s.m[t.ID] = resolved // path compression
			return resolved
		}
		return t
	case KArray:
		return TArray(s.apply(t.Elem))
	case KOption:
		return TOption(s.apply(t.Elem))
	case KTuple:
		elems := make([]*Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = s.apply(e)
		}
		return TTuple(elems...)
	case KFunc:
		return TFunc(s.apply(t.Param), s.apply(t.Ret))
	default:
		return t
	}
}

func occurs(id int, t *Type) bool {
	switch t.Kind {
	case KVar:
		return t.ID == id
	case KArray, KOption:
		return occurs(id, t.Elem)
	case KTuple:
		for _, e := range t.Elems {
			if occurs(id, e) {
				return true
			}
		}
		return false
	case KFunc:
		return occurs(id, t.Param) || occurs(id, t.Ret)
	default:
		return false
	}
}

// unify attempts to make a and b equal under s, recording new variable
// bindings as needed. It returns an error describing the mismatch (never
// panics); callers turn that into a diagnostic at the call site so the span
// of the offending expression is preserved.
func (s *subst) unify(a, b *Type) error {
	a, b = s.apply(a), s.apply(b)
	if a.IsError() || b.IsError() {
		return nil // already reported; do not cascade
	}
	if a.Kind == KVar {
		return s.bindVar(a.ID, b)
	}
	if b.Kind == KVar {
		return s.bindVar(b.ID, a)
	}
	if a.Kind != b.Kind {
		return fmt.Errorf("expected %s but found %s", a, b)
	}
	switch a.Kind {
	case KCon:
		if a.Con != b.Con {
			return fmt.Errorf("expected %s but found %s", a, b)
		}
		return nil
	case KArray, KOption:
		return s.unify(a.Elem, b.Elem)
	case KTuple:
		if len(a.Elems) != len(b.Elems) {
			return fmt.Errorf("expected %s but found %s", a, b)
		}
		for i := range a.Elems {
			if err := s.unify(a.Elems[i], b.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case KFunc:
		if err := s.unify(a.Param, b.Param); err != nil {
			return err
		}
		return s.unify(a.Ret, b.Ret)
	}
	return fmt.Errorf("expected %s but found %s", a, b)
}

func (s *subst) bindVar(id int, t *Type) error {
	if t.Kind == KVar && t.ID == id {
		return nil
	}
	if occurs(id, t) {
		return fmt.Errorf("occurs check failed: t%d occurs in %s", id, t)
	}
	s.m[id] = t
	return nil
}

// freeVars collects the free type-variable IDs in t.
func freeVars(t *Type, out map[int]bool) {
	switch t.Kind {
	case KVar:
		out[t.ID] = true
	case KArray, KOption:
		freeVars(t.Elem, out)
	case KTuple:
		for _, e := range t.Elems {
			freeVars(e, out)
		}
	case KFunc:
		freeVars(t.Param, out)
		freeVars(t.Ret, out)
	}
}

// instantiate replaces every quantified variable in a Scheme with a fresh
// one, the standard HM "use a polymorphic binding at a concrete type" step.
func (s *subst) instantiate(sc *Scheme) *Type {
	if len(sc.Vars) == 0 {
		return sc.Type
	}
	mapping := make(map[int]*Type, len(sc.Vars))
	for _, v := range sc.Vars {
		mapping[v] = s.fresh()
	}
	var rewrite func(t *Type) *Type
	rewrite = func(t *Type) *Type {
		switch t.Kind {
		case KVar:
			if fresh, ok := mapping[t.ID]; ok {
				return fresh
			}
			return t
		case KArray:
			return TArray(rewrite(t.Elem))
		case KOption:
			return TOption(rewrite(t.Elem))
		case KTuple:
			elems := make([]*Type, len(t.Elems))
			for i, e := range t.Elems {
				elems[i] = rewrite(e)
			}
			return TTuple(elems...)
		case KFunc:
			return TFunc(rewrite(t.Param), rewrite(t.Ret))
		default:
			return t
		}
	}
	return rewrite(sc.Type)
}

// generalize quantifies every free variable in t that does not also appear
// free in the environment, producing a polymorphic Scheme. Per spec.md
// §4.4 this is only called for let-bindings whose right-hand side is a
// syntactic value (literal, lambda, or constructor application).
func generalize(t *Type, envFree map[int]bool) *Scheme {
	free := make(map[int]bool)
	freeVars(t, free)
	var vars []int
	for id := range free {
		if !envFree[id] {
			vars = append(vars, id)
		}
	}
	return &Scheme{Vars: vars, Type: t}
}
