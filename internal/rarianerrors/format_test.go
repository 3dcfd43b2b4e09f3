package rarianerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_StructuredError(t *testing.T) {
	err := New(ErrCodeTriplicate, "entry would merge two identities", nil)
	out := FormatForCLI(err)
	assert.Contains(t, out, "entry would merge two identities")
	assert.Contains(t, out, ErrCodeTriplicate)
}

func TestFormatForCLI_NilReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", FormatForCLI(nil))
}

func TestFormatForCLI_WrapsPlainError(t *testing.T) {
	out := FormatForCLI(errors.New("boom"))
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, ErrCodeInternal)
}

func TestFormatJSON_RoundTripsFields(t *testing.T) {
	err := New(ErrCodeBadMetakey, "unknown attribute", errors.New("cause")).WithDetail("token", "nope")
	data, marshalErr := FormatJSON(err)
	require.NoError(t, marshalErr)
	assert.Contains(t, string(data), `"code":"ERR_306_BAD_METAKEY"`)
	assert.Contains(t, string(data), `"cause":"cause"`)
	assert.Contains(t, string(data), `"token":"nope"`)
}

func TestFormatForLog_IncludesDetails(t *testing.T) {
	err := New(ErrCodeQueryEOS, "missing ..", nil).WithDetail("query", "date:[1..")
	attrs := FormatForLog(err)
	assert.Equal(t, ErrCodeQueryEOS, attrs["error_code"])
	assert.Equal(t, "date:[1..", attrs["detail_query"])
}

func TestFormatForLog_PlainError(t *testing.T) {
	attrs := FormatForLog(errors.New("plain"))
	assert.Equal(t, "plain", attrs["error"])
}
