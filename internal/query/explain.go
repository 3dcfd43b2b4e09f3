package query

import "fmt"

// Explain renders q as a parenthesized string, mirroring the shape of
// the S3 scenario's notation (e.g. "AND(F(TermExists(python),Title),
// F(TermExists(pi),Description))"). Purely a debugging aid; it has no
// effect on Eval.
func Explain(q *Query) string {
	if q == nil {
		return "<nil>"
	}

	switch q.Kind {
	case NodeFilter:
		return fmt.Sprintf("F(%s,%s)", explainFilter(q.Filter), q.Attribute.String())
	case NodeAnd:
		return fmt.Sprintf("AND(%s,%s)", Explain(q.Left), Explain(q.Right))
	case NodeOr:
		return fmt.Sprintf("OR(%s,%s)", Explain(q.Left), Explain(q.Right))
	case NodeNot:
		return fmt.Sprintf("NOT(%s)", Explain(q.Left))
	default:
		return "<unknown>"
	}
}

func explainFilter(f Filter) string {
	switch f.Kind {
	case TermExistsFilter:
		return fmt.Sprintf("TermExists(%s)", f.Term)
	case IntInRangeFilter:
		return fmt.Sprintf("IntInRange(%s,%s)", f.Lower, f.Upper)
	default:
		return "<unknown filter>"
	}
}
