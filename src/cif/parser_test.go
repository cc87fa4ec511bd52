package cif

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railcore/cif-engine/src/common/types"
)

const sampleTrailer = "ZZ" + "                                                                              "

func TestParseAccumulatesErrors(t *testing.T) {
	input := strings.Join([]string{
		sampleHeader,
		"garbage",
		sampleTiplocInsert,
		"XX" + sampleBasicSchedule[2:],
		sampleBasicSchedule,
		sampleTrailer,
	}, "\n")

	file, errs, err := Parse(strings.NewReader(input), ParseOptions{})
	require.NoError(t, err)

	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, 4, errs[1].Line)

	require.Len(t, file.Records, 4)
	assert.Equal(t, types.KindHeader, file.Records[0].Kind())
	assert.Equal(t, types.KindTrailer, file.Records[3].Kind())
	assert.Equal(t, []int{1, 3, 5, 6}, file.Lines)
}

func TestParseSurvivesOverlongLine(t *testing.T) {
	// a line far past the 80 column record length is a per-line error, not
	// a terminal read failure
	input := strings.Join([]string{
		sampleHeader,
		strings.Repeat("Q", 4096),
		sampleBasicSchedule,
		sampleTrailer,
	}, "\n")

	file, errs, err := Parse(strings.NewReader(input), ParseOptions{})
	require.NoError(t, err)

	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Line)
	var uerr *UnknownRecordTypeError
	require.ErrorAs(t, errs[0], &uerr)

	require.Len(t, file.Records, 3)
	assert.Equal(t, []int{1, 3, 4}, file.Lines)
}

func TestParseFailFast(t *testing.T) {
	input := strings.Join([]string{
		sampleHeader,
		"garbage",
		sampleBasicSchedule,
	}, "\n")

	file, errs, err := Parse(strings.NewReader(input), ParseOptions{FailFast: true})
	require.Error(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Line)
	// records before the failure are kept
	require.Len(t, file.Records, 1)
}

func TestReaderStopsAfterTrailer(t *testing.T) {
	input := strings.Join([]string{
		sampleHeader,
		sampleTrailer,
		sampleBasicSchedule,
	}, "\n")

	r := NewReader(strings.NewReader(input))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, types.KindHeader, rec.Kind())

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, types.KindTrailer, rec.Kind())

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderLineNumbers(t *testing.T) {
	input := sampleHeader + "\n" + sampleBasicSchedule + "\n"

	r := NewReader(strings.NewReader(input))

	_, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Line())

	_, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Line())
}
