// Package queryparser implements the query text parser (spec.md
// §4.8): a small left-fold grammar over AND/OR combinators and
// attribute:filter leaves, deliberately not a full expression
// language (no parentheses, no precedence beyond left-fold).
package queryparser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/query"
	"github.com/Aman-CERP/rarian/internal/rangeindex"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// attributeNames maps the parser's lowercase token prefixes to
// attribute keys (spec §6's "Attribute-name mapping").
var attributeNames = map[string]metadata.AttributeKey{
	"title":       metadata.Title,
	"artist":      metadata.Artist,
	"date":        metadata.Date,
	"comment":     metadata.Comment,
	"description": metadata.Description,
	"album":       metadata.Album,
	"tracknumber": metadata.TrackNumber,
	"albumartist": metadata.Albumartist,
}

type combinator uint8

const (
	combOr combinator = iota
	combAnd
)

// Parse parses a single line of query text into an AST.
func Parse(line string) (*query.Query, error) {
	tokens := strings.FieldsFunc(line, unicode.IsSpace)

	var root *query.Query
	pending := combOr

	for _, tok := range tokens {
		switch strings.ToUpper(tok) {
		case "AND":
			pending = combAnd
			continue
		case "OR":
			pending = combOr
			continue
		}

		leaf, err := parseLeaf(tok)
		if err != nil {
			return nil, err
		}

		if root == nil {
			root = leaf
			continue
		}

		if pending == combAnd {
			root = query.And(root, leaf)
		} else {
			root = query.Or(root, leaf)
		}
		pending = combOr
	}

	if root == nil {
		return nil, rarianerrors.New(rarianerrors.ErrCodeQueryEOS, "empty query", nil)
	}
	return root, nil
}

// parseLeaf parses one non-combinator token into a leaf Query node.
func parseLeaf(tok string) (*query.Query, error) {
	attr := metadata.Title
	body := tok

	if i := strings.IndexByte(tok, ':'); i >= 0 {
		name := tok[:i]
		key, ok := attributeNames[name]
		if !ok {
			return nil, rarianerrors.New(rarianerrors.ErrCodeBadMetakey, "unknown attribute name: "+name, nil)
		}
		attr = key
		body = tok[i+1:]
	}

	filter, err := parseFilter(body)
	if err != nil {
		return nil, err
	}
	return query.F(filter, attr), nil
}

// parseFilter parses a filter body: either a range filter
// "[<lo>..<hi>]" or a bare TermExists string.
func parseFilter(body string) (query.Filter, error) {
	if !strings.HasPrefix(body, "[") {
		return query.TermExists(body), nil
	}

	if !strings.HasSuffix(body, "]") {
		return query.Filter{}, rarianerrors.New(rarianerrors.ErrCodeQueryEOS, "range filter missing closing ]", nil)
	}
	inner := body[1 : len(body)-1]

	i := strings.Index(inner, "..")
	if i < 0 {
		return query.Filter{}, rarianerrors.New(rarianerrors.ErrCodeQueryEOS, "range filter missing ..", nil)
	}

	loStr, hiStr := inner[:i], inner[i+2:]

	lower, err := parseBound(loStr)
	if err != nil {
		return query.Filter{}, err
	}
	upper, err := parseBound(hiStr)
	if err != nil {
		return query.Filter{}, err
	}
	return query.IntInRange(lower, upper), nil
}

func parseBound(s string) (rangeindex.Bound, error) {
	if s == "" {
		return rangeindex.UnboundedBound(), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return rangeindex.Bound{}, rarianerrors.New(rarianerrors.ErrCodeQueryBadInt, "not a valid integer: "+s, err)
	}
	return rangeindex.InclusiveBound(v), nil
}
