package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSimpleCSV(t *testing.T) {
	records, err := Decode("Name,Age\nAda,30\n", CSV)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Name", "Age"}, {"Ada", "30"}}, records)
}

func TestDecodeNormalizesCRLF(t *testing.T) {
	records, err := Decode("a,b\r\nc,d\r\n", CSV)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, records)
}

func TestDecodeTSV(t *testing.T) {
	records, err := Decode("a\tb\nc\td\n", TSV)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, records)
}

func TestDecodeQuotedFieldWithSeparatorAndNewline(t *testing.T) {
	records, err := Decode("a,\"b,c\nd\",e\n", CSV)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b,c\nd", "e"}}, records)
}

func TestDecodeDoubledInternalQuote(t *testing.T) {
	records, err := Decode(`a,"say ""hi""",b`+"\n", CSV)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", `say "hi"`, "b"}}, records)
}

func TestDecodePreservesEmptyTrailingCellsAndRows(t *testing.T) {
	records, err := Decode("a,,\n\n", CSV)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "", ""}, {""}}, records)
}

func TestDecodeNoTrailingNewlineStillCapturesLastRecord(t *testing.T) {
	records, err := Decode("a,b", CSV)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}}, records)
}

func TestEncodeQuotesWhenNeeded(t *testing.T) {
	out := Encode([][]string{{"a", "b,c", `d"e`, "f\ng"}}, CSV)
	require.Equal(t, "a,\"b,c\",\"d\"\"e\",\"f\ng\"\n", out)
}

func TestRoundTrip(t *testing.T) {
	original := [][]string{{"Name", "Age"}, {"Ada", "30"}, {""}, {"Grace, the", `she said "hi"`}}
	encoded := Encode(original, CSV)
	decoded, err := Decode(encoded, CSV)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}
