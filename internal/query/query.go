// Package query implements the query AST and its evaluator: a small
// boolean algebra over term-exists and integer-range filters, each
// bound to a declared attribute, evaluated against a collection's
// indices inside a read transaction.
package query

import (
	"github.com/Aman-CERP/rarian/internal/collection"
	"github.com/Aman-CERP/rarian/internal/entrystore"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rangeindex"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
	"github.com/Aman-CERP/rarian/internal/uid"
)

// FilterKind distinguishes the two leaf filter shapes.
type FilterKind uint8

const (
	// TermExistsFilter matches entries whose indexed string attribute
	// tokenizes to the given term.
	TermExistsFilter FilterKind = iota
	// IntInRangeFilter matches entries whose indexed integer attribute
	// falls within the given bounds.
	IntInRangeFilter
)

// Filter is one leaf condition: either TermExists(string) or
// IntInRange(lower, upper).
type Filter struct {
	Kind  FilterKind
	Term  string
	Lower rangeindex.Bound
	Upper rangeindex.Bound
}

// TermExists builds a TermExistsFilter.
func TermExists(term string) Filter {
	return Filter{Kind: TermExistsFilter, Term: term}
}

// IntInRange builds an IntInRangeFilter.
func IntInRange(lower, upper rangeindex.Bound) Filter {
	return Filter{Kind: IntInRangeFilter, Lower: lower, Upper: upper}
}

// NodeKind distinguishes the AST's node shapes.
type NodeKind uint8

const (
	// NodeFilter is a leaf: a Filter applied to an AttributeKey.
	NodeFilter NodeKind = iota
	NodeAnd
	NodeOr
	NodeNot
)

// Query is the AST: F(Filter, AttributeKey) | AND | OR | NOT.
type Query struct {
	Kind NodeKind

	// Leaf fields, valid when Kind == NodeFilter.
	Filter    Filter
	Attribute metadata.AttributeKey

	// Branch fields, valid when Kind is AND/OR/NOT. Right is unused
	// for NOT.
	Left  *Query
	Right *Query
}

// F builds a leaf query node.
func F(filter Filter, attr metadata.AttributeKey) *Query {
	return &Query{Kind: NodeFilter, Filter: filter, Attribute: attr}
}

// And builds an AND branch.
func And(left, right *Query) *Query {
	return &Query{Kind: NodeAnd, Left: left, Right: right}
}

// Or builds an OR branch.
func Or(left, right *Query) *Query {
	return &Query{Kind: NodeOr, Left: left, Right: right}
}

// Not builds a NOT branch.
func Not(q *Query) *Query {
	return &Query{Kind: NodeNot, Left: q}
}

// Set is the evaluator's result type: a set of entry UUIDs.
type Set map[uid.UID]struct{}

func setOf(ids ...uid.UID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func union(a, b Set) Set {
	out := make(Set, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

func intersect(a, b Set) Set {
	out := make(Set)
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for id := range small {
		if _, ok := big[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func complement(all, s Set) Set {
	out := make(Set, len(all))
	for id := range all {
		if _, ok := s[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// allUIDs enumerates every UUID in the entry store, for NOT's universe.
func allUIDs(tx *kv.Tx, c *collection.Collection) (Set, error) {
	out := make(Set)
	err := c.IterEntries(tx, func(u uid.UID, _ entrystore.Entry) error {
		out[u] = struct{}{}
		return nil
	})
	return out, err
}

// Eval evaluates q against c inside tx, returning the matching UUID
// set. The evaluator preserves no element order and evaluates each
// subtree at most once per node.
func Eval(tx *kv.Tx, c *collection.Collection, q *Query) (Set, error) {
	switch q.Kind {
	case NodeFilter:
		return evalFilter(tx, c, q.Filter, q.Attribute)

	case NodeAnd:
		left, err := Eval(tx, c, q.Left)
		if err != nil {
			return nil, err
		}
		right, err := Eval(tx, c, q.Right)
		if err != nil {
			return nil, err
		}
		return intersect(left, right), nil

	case NodeOr:
		left, err := Eval(tx, c, q.Left)
		if err != nil {
			return nil, err
		}
		right, err := Eval(tx, c, q.Right)
		if err != nil {
			return nil, err
		}
		return union(left, right), nil

	case NodeNot:
		inner, err := Eval(tx, c, q.Left)
		if err != nil {
			return nil, err
		}
		all, err := allUIDs(tx, c)
		if err != nil {
			return nil, err
		}
		return complement(all, inner), nil

	default:
		return nil, rarianerrors.New(rarianerrors.ErrCodeQueryType, "unknown query node kind", nil)
	}
}

func evalFilter(tx *kv.Tx, c *collection.Collection, f Filter, attr metadata.AttributeKey) (Set, error) {
	switch f.Kind {
	case TermExistsFilter:
		idx, ok := c.TermIndex(attr)
		if !ok {
			if _, isRange := c.RangeIndex(attr); isRange {
				return nil, rarianerrors.New(rarianerrors.ErrCodeQueryType,
					"TermExists filter against a RangeTree-indexed attribute", nil)
			}
			return nil, rarianerrors.New(rarianerrors.ErrCodeQueryIterating,
				"no index declared for attribute "+attr.String(), nil)
		}
		matches, err := idx.Lookup(tx, f.Term)
		if err != nil {
			return nil, err
		}
		out := make(Set, len(matches))
		for u := range matches {
			out[u] = struct{}{}
		}
		return out, nil

	case IntInRangeFilter:
		idx, ok := c.RangeIndex(attr)
		if !ok {
			if _, isTerm := c.TermIndex(attr); isTerm {
				return nil, rarianerrors.New(rarianerrors.ErrCodeQueryType,
					"IntInRange filter against a StemmedTerm-indexed attribute", nil)
			}
			return nil, rarianerrors.New(rarianerrors.ErrCodeQueryIterating,
				"no index declared for attribute "+attr.String(), nil)
		}
		entries, err := idx.Range(tx, f.Lower, f.Upper)
		if err != nil {
			return nil, err
		}
		ids := make([]uid.UID, len(entries))
		for i, e := range entries {
			ids[i] = e.UID
		}
		return setOf(ids...), nil

	default:
		return nil, rarianerrors.New(rarianerrors.ErrCodeQueryType, "unknown filter kind", nil)
	}
}
