package cif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railcore/cif-engine/src/common/types"
)

const sampleBSExtra = "BX" +
	"    " + "     " + "VT" + "Y" + "VT123400" + "T" +
	"                                                         "

const sampleOrigin = "LO" +
	"EUSTON  " + "1000 " + "1001" + "1  " + "   " + "  " + "  " +
	"TB          " + "  " +
	"                                     "

const sampleIntermediate = "LI" +
	"WATFDJ  " + "1030 " + "1032H" + "     " + "1030" + "1032" +
	"6  " + "   " + "   " + "T           " + "  " + "  " + "  " +
	"                    "

const sampleTerminus = "LT" +
	"MNCRPIC " + "1200 " + "1203" + "14 " + "   " + "TF          " +
	"                                           "

const sampleChangeEnRoute = "CR" +
	"WATFDJ  " + "XX" + "1A24" + "    " + "1" + "12345678" + " " +
	"EMU" + "    " + "100" + "      " + "    " + "    " + "    " +
	"    " + "     " + "        " + "     "

func mustDecode(t *testing.T, line string) types.Record {
	t.Helper()
	require.Len(t, line, 80)
	rec, err := DecodeLine(line)
	require.NoError(t, err)
	return rec
}

func TestAggregatorCompleteRun(t *testing.T) {
	agg := NewAggregator()

	for _, line := range []string{sampleBasicSchedule, sampleBSExtra, sampleOrigin, sampleIntermediate} {
		sched, err := agg.Feed(mustDecode(t, line))
		require.NoError(t, err)
		assert.Nil(t, sched)
	}
	assert.True(t, agg.InSchedule())

	sched, err := agg.Feed(mustDecode(t, sampleTerminus))
	require.NoError(t, err)
	require.NotNil(t, sched)
	assert.False(t, agg.InSchedule())

	assert.Equal(t, "C12345", sched.TrainUID)
	assert.Equal(t, "VT", sched.ATOCCode)
	assert.Equal(t, "VT123400", sched.RSID)
	assert.True(t, sched.SubjectToMonitoring)

	require.Len(t, sched.Journey, 3)
	assert.Equal(t, types.RoleOrigin, sched.Journey[0].Role)
	assert.Equal(t, "EUSTON", sched.Journey[0].Tiploc)
	assert.Equal(t, types.RoleIntermediate, sched.Journey[1].Role)
	assert.Equal(t, types.RoleTerminus, sched.Journey[2].Role)
	assert.Equal(t, "MNCRPIC", sched.Terminus().Tiploc)
	assert.True(t, sched.CallsAt("WATFDJ"))
}

func TestAggregatorLoneCancellation(t *testing.T) {
	agg := NewAggregator()

	line := sampleBasicSchedule[:79] + "C"
	sched, err := agg.Feed(mustDecode(t, line))
	require.NoError(t, err)
	require.NotNil(t, sched)
	assert.Equal(t, types.STPCancellation, sched.STP)
	assert.Empty(t, sched.Journey)
	assert.False(t, agg.InSchedule())
}

func TestAggregatorLoneDelete(t *testing.T) {
	agg := NewAggregator()

	line := "BS" + "D" + sampleBasicSchedule[3:]
	sched, err := agg.Feed(mustDecode(t, line))
	require.NoError(t, err)
	require.NotNil(t, sched)
	assert.Equal(t, types.TransactionDelete, sched.Transaction)
	assert.False(t, agg.InSchedule())
}

func TestAggregatorRecoversAfterSequenceError(t *testing.T) {
	agg := NewAggregator()

	secondBS := sampleBasicSchedule[:3] + "C99999" + sampleBasicSchedule[9:]

	var errs []error
	var completed []*types.Schedule
	for _, line := range []string{
		sampleBasicSchedule, sampleOrigin, sampleIntermediate,
		secondBS, sampleOrigin, sampleIntermediate, sampleTerminus,
	} {
		sched, err := agg.Feed(mustDecode(t, line))
		if err != nil {
			errs = append(errs, err)
		}
		if sched != nil {
			completed = append(completed, sched)
		}
	}

	// the first run is discarded once, the second completes cleanly
	require.Len(t, errs, 1)
	var serr *MalformedScheduleSequenceError
	require.ErrorAs(t, errs[0], &serr)
	assert.Equal(t, types.KindBasicSchedule, serr.Got)
	assert.Equal(t, "C12345", serr.TrainUID)

	require.Len(t, completed, 1)
	assert.Equal(t, "C99999", completed[0].TrainUID)
	require.Len(t, completed[0].Journey, 3)
}

func TestAggregatorBodyRecordOutsideRun(t *testing.T) {
	agg := NewAggregator()

	_, err := agg.Feed(mustDecode(t, sampleOrigin))
	var serr *MalformedScheduleSequenceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, types.KindLocationOrigin, serr.Got)
	assert.False(t, agg.InSchedule())
}

func TestAggregatorNonScheduleRecordMidRun(t *testing.T) {
	agg := NewAggregator()

	_, err := agg.Feed(mustDecode(t, sampleBasicSchedule))
	require.NoError(t, err)

	sched, err := agg.Feed(mustDecode(t, sampleTiplocInsert))
	assert.Nil(t, sched)
	var serr *MalformedScheduleSequenceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, types.KindTiplocInsert, serr.Got)
	assert.False(t, agg.InSchedule())
}

func TestAggregatorChangeEnRoute(t *testing.T) {
	t.Run("attaches to preceding intermediate", func(t *testing.T) {
		agg := NewAggregator()
		for _, line := range []string{sampleBasicSchedule, sampleOrigin, sampleIntermediate, sampleChangeEnRoute} {
			_, err := agg.Feed(mustDecode(t, line))
			require.NoError(t, err)
		}

		sched, err := agg.Feed(mustDecode(t, sampleTerminus))
		require.NoError(t, err)
		require.NotNil(t, sched)

		change := sched.Journey[1].Change
		require.NotNil(t, change)
		assert.Equal(t, "XX", change.TrainCategory)
		assert.Equal(t, "1A24", change.TrainIdentity)
	})

	t.Run("rejected after origin", func(t *testing.T) {
		agg := NewAggregator()
		for _, line := range []string{sampleBasicSchedule, sampleOrigin} {
			_, err := agg.Feed(mustDecode(t, line))
			require.NoError(t, err)
		}

		_, err := agg.Feed(mustDecode(t, sampleChangeEnRoute))
		var serr *MalformedScheduleSequenceError
		require.ErrorAs(t, err, &serr)
	})
}

func TestAggregatorFlush(t *testing.T) {
	agg := NewAggregator()

	_, err := agg.Feed(mustDecode(t, sampleBasicSchedule))
	require.NoError(t, err)
	_, err = agg.Feed(mustDecode(t, sampleOrigin))
	require.NoError(t, err)

	err = agg.Flush()
	var serr *MalformedScheduleSequenceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "C12345", serr.TrainUID)

	assert.NoError(t, agg.Flush())
}
