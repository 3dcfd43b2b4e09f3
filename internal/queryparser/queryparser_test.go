package queryparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/rarian/internal/query"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

func TestParse_DefaultOrBetweenBareLeaves(t *testing.T) {
	q, err := Parse("python raspberry")
	require.NoError(t, err)
	assert.Equal(t, "OR(F(TermExists(python),Title),F(TermExists(raspberry),Title))", query.Explain(q))
}

func TestParse_AndWithAttributePrefix(t *testing.T) {
	q, err := Parse("python AND description:pi")
	require.NoError(t, err)
	assert.Equal(t, "AND(F(TermExists(python),Title),F(TermExists(pi),Description))", query.Explain(q))
}

func TestParse_RangeFilterInclusiveLowerUnboundedUpper(t *testing.T) {
	q, err := Parse("date:[1557784800..]")
	require.NoError(t, err)
	assert.Equal(t, "F(IntInRange(Inclusive(1557784800),Unbounded),Date)", query.Explain(q))
}

func TestParse_RangeFilterBothBounds(t *testing.T) {
	q, err := Parse("date:[1577836800..1609459200]")
	require.NoError(t, err)
	assert.Equal(t, "F(IntInRange(Inclusive(1577836800),Inclusive(1609459200)),Date)", query.Explain(q))
}

func TestParse_UnboundedLower(t *testing.T) {
	q, err := Parse("date:[..1557784800]")
	require.NoError(t, err)
	assert.Equal(t, "F(IntInRange(Unbounded,Inclusive(1557784800)),Date)", query.Explain(q))
}

func TestParse_UnknownAttributeIsBadMetakey(t *testing.T) {
	_, err := Parse("bogus:foo")
	require.Error(t, err)
	assert.Equal(t, rarianerrors.ErrCodeBadMetakey, rarianerrors.GetCode(err))
}

func TestParse_MissingRangeSeparatorIsQueryEOS(t *testing.T) {
	_, err := Parse("date:[100]")
	require.Error(t, err)
	assert.Equal(t, rarianerrors.ErrCodeQueryEOS, rarianerrors.GetCode(err))
}

func TestParse_NonIntegerBoundIsQueryBadInt(t *testing.T) {
	_, err := Parse("date:[abc..200]")
	require.Error(t, err)
	assert.Equal(t, rarianerrors.ErrCodeQueryBadInt, rarianerrors.GetCode(err))
}

func TestParse_CaseInsensitiveCombinators(t *testing.T) {
	q, err := Parse("python and raspberry")
	require.NoError(t, err)
	assert.Equal(t, "AND(F(TermExists(python),Title),F(TermExists(raspberry),Title))", query.Explain(q))

	q, err = Parse("python or raspberry")
	require.NoError(t, err)
	assert.Equal(t, "OR(F(TermExists(python),Title),F(TermExists(raspberry),Title))", query.Explain(q))
}

func TestParse_EmptyQueryFails(t *testing.T) {
	_, err := Parse("   ")
	require.Error(t, err)
	assert.Equal(t, rarianerrors.ErrCodeQueryEOS, rarianerrors.GetCode(err))
}
