package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railcore/cif-engine/src/common/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newBS(tx types.TransactionType, uid string, from, to time.Time, days types.DaysRun, stp types.STPIndicator) types.BasicSchedule {
	return types.BasicSchedule{
		Transaction: tx,
		TrainUID:    uid,
		RunsFrom:    from,
		RunsTo:      to,
		Days:        days,
		TrainStatus: 'P',
		STP:         stp,
	}
}

func origin(tiploc string, hour int) types.LocationOrigin {
	return types.LocationOrigin{
		Location:           tiploc,
		ScheduledDeparture: types.JourneyTime{Hour: hour},
		PublicDeparture:    types.JourneyTime{Hour: hour, Minute: 1},
	}
}

func terminus(tiploc string, hour int) types.LocationTerminus {
	return types.LocationTerminus{
		Location:         tiploc,
		ScheduledArrival: types.JourneyTime{Hour: hour},
		PublicArrival:    types.JourneyTime{Hour: hour},
	}
}

// scheduleRun builds the record run for one simple two stop schedule.
func scheduleRun(bs types.BasicSchedule, from, to string) []types.Record {
	return []types.Record{bs, origin(from, 10), terminus(to, 12)}
}

func tiplocInsert(code, crs, desc string) types.TiplocInsert {
	return types.TiplocInsert{
		Tiploc:         code,
		TPSDescription: desc,
		ThreeAlphaCode: crs,
		Stanox:         types.Numeric{Value: 72410},
		NLC:            types.Numeric{Value: 144400},
	}
}

func TestApplyInsertsSchedule(t *testing.T) {
	db := New()

	bs := newBS(types.TransactionNew, "C12345", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	rep, err := db.Apply(scheduleRun(bs, "EUSTON", "MNCRPIC"), Options{})
	require.NoError(t, err)
	assert.Zero(t, rep.ErrorCount())
	assert.Equal(t, 1, rep.Schedules.Inserted)

	scheds := db.SchedulesFor("C12345")
	require.Len(t, scheds, 1)
	require.Len(t, scheds[0].Journey, 2)
	assert.Equal(t, "EUSTON", scheds[0].Origin().Tiploc)
	assert.Equal(t, "MNCRPIC", scheds[0].Terminus().Tiploc)
	assert.Equal(t, []string{"C12345"}, db.TrainUIDs())
}

func TestApplyDuplicateSchedule(t *testing.T) {
	db := New()

	bs := newBS(types.TransactionNew, "C12345", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	records := append(scheduleRun(bs, "EUSTON", "MNCRPIC"), scheduleRun(bs, "EUSTON", "MNCRPIC")...)

	rep, err := db.Apply(records, Options{})
	require.NoError(t, err)

	require.Equal(t, 1, rep.ErrorCount())
	var derr *DuplicateKeyError
	require.ErrorAs(t, rep.Errors[0], &derr)
	assert.Equal(t, EntitySchedule, derr.Entity)

	assert.Equal(t, 1, rep.Schedules.Inserted)
	assert.Equal(t, 1, db.ScheduleCount())
}

func TestApplyReviseSchedule(t *testing.T) {
	db := New()

	bs := newBS(types.TransactionNew, "C12345", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	_, err := db.Apply(scheduleRun(bs, "EUSTON", "MNCRPIC"), Options{})
	require.NoError(t, err)

	revised := newBS(types.TransactionRevise, "C12345", date(2024, 1, 1), date(2024, 12, 31), types.Weekdays, types.STPPermanent)
	rep, err := db.Apply(scheduleRun(revised, "EUSTON", "LIVST"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Schedules.Revised)

	scheds := db.SchedulesFor("C12345")
	require.Len(t, scheds, 1)
	assert.Equal(t, types.Weekdays, scheds[0].Window.Days)
	assert.Equal(t, "LIVST", scheds[0].Terminus().Tiploc)
}

func TestApplyReviseUnknownSchedule(t *testing.T) {
	db := New()

	bs := newBS(types.TransactionRevise, "C12345", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	rep, err := db.Apply(scheduleRun(bs, "EUSTON", "MNCRPIC"), Options{})
	require.NoError(t, err)

	require.Equal(t, 1, rep.ErrorCount())
	var rerr *UnknownKeyForRevisionError
	require.ErrorAs(t, rep.Errors[0], &rerr)
	assert.Zero(t, db.ScheduleCount())
}

func TestApplyDeleteSchedule(t *testing.T) {
	db := New()

	bs := newBS(types.TransactionNew, "C12345", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	_, err := db.Apply(scheduleRun(bs, "EUSTON", "MNCRPIC"), Options{})
	require.NoError(t, err)

	// a delete is a lone BS carrying only the start date
	del := newBS(types.TransactionDelete, "C12345", date(2024, 1, 1), time.Time{}, 0, types.STPPermanent)
	rep, err := db.Apply([]types.Record{del}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Schedules.Deleted)
	assert.Zero(t, db.ScheduleCount())
	assert.Empty(t, db.TrainUIDs())

	rep, err = db.Apply([]types.Record{del}, Options{})
	require.NoError(t, err)
	var uerr *UnknownKeyForDeletionError
	require.ErrorAs(t, rep.Errors[0], &uerr)
}

func TestApplyConflictingOverlays(t *testing.T) {
	db := New()

	first := newBS(types.TransactionNew, "C12345", date(2024, 1, 10), date(2024, 1, 20), types.EveryDay, types.STPOverlay)
	second := newBS(types.TransactionNew, "C12345", date(2024, 1, 15), date(2024, 1, 25), types.EveryDay, types.STPOverlay)

	records := append(scheduleRun(first, "EUSTON", "MNCRPIC"), scheduleRun(second, "EUSTON", "MNCRPIC")...)
	rep, err := db.Apply(records, Options{})
	require.NoError(t, err)

	require.Equal(t, 1, rep.ErrorCount())
	var cerr *ConflictingScheduleError
	require.ErrorAs(t, rep.Errors[0], &cerr)
	assert.Equal(t, "C12345", cerr.TrainUID)
	assert.Equal(t, 1, db.ScheduleCount())
}

func TestApplyDisjointDaysNotConflicting(t *testing.T) {
	db := New()

	// same dates, disjoint running days: both may coexist
	mon := newBS(types.TransactionNew, "C12345", date(2024, 1, 1), date(2024, 1, 31), types.Monday, types.STPOverlay)
	tue := newBS(types.TransactionNew, "C12345", date(2024, 1, 2), date(2024, 1, 31), types.Tuesday, types.STPOverlay)

	records := append(scheduleRun(mon, "EUSTON", "MNCRPIC"), scheduleRun(tue, "EUSTON", "MNCRPIC")...)
	rep, err := db.Apply(records, Options{})
	require.NoError(t, err)
	assert.Zero(t, rep.ErrorCount())
	assert.Equal(t, 2, db.ScheduleCount())
}

func TestApplyTiplocLifecycle(t *testing.T) {
	db := New()

	rep, err := db.Apply([]types.Record{tiplocInsert("EUSTON ", "EUS", "LONDON EUSTON")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Tiplocs.Inserted)

	tp, ok := db.Tiploc("EUSTON")
	require.True(t, ok)
	assert.Equal(t, "EUS", tp.CRS)
	assert.Equal(t, "LONDON EUSTON", tp.Description)
	assert.Equal(t, 72410, tp.Stanox)

	rep, err = db.Apply([]types.Record{tiplocInsert("EUSTON ", "EUS", "LONDON EUSTON")}, Options{})
	require.NoError(t, err)
	var derr *DuplicateKeyError
	require.ErrorAs(t, rep.Errors[0], &derr)
	assert.Equal(t, EntityTiploc, derr.Entity)

	amend := types.TiplocAmend{
		Tiploc:         "EUSTON ",
		TPSDescription: "LONDON EUSTON MAIN",
		ThreeAlphaCode: "EUS",
		Stanox:         types.Numeric{Value: 72410},
	}
	rep, err = db.Apply([]types.Record{amend}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Tiplocs.Revised)
	tp, _ = db.Tiploc("EUSTON")
	assert.Equal(t, "LONDON EUSTON MAIN", tp.Description)

	rep, err = db.Apply([]types.Record{types.TiplocDelete{Tiploc: "EUSTON "}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Tiplocs.Deleted)
	_, ok = db.Tiploc("EUSTON")
	assert.False(t, ok)

	rep, err = db.Apply([]types.Record{types.TiplocDelete{Tiploc: "EUSTON "}}, Options{})
	require.NoError(t, err)
	var uerr *UnknownKeyForDeletionError
	require.ErrorAs(t, rep.Errors[0], &uerr)
}

func TestApplyTiplocRename(t *testing.T) {
	db := New()

	_, err := db.Apply([]types.Record{tiplocInsert("EUSTON ", "EUS", "LONDON EUSTON")}, Options{})
	require.NoError(t, err)

	amend := types.TiplocAmend{
		Tiploc:         "EUSTON ",
		TPSDescription: "LONDON EUSTON",
		ThreeAlphaCode: "EUS",
		Stanox:         types.Numeric{Value: 72410},
		NewTiploc:      "EUSTON2",
	}
	rep, err := db.Apply([]types.Record{amend}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Tiplocs.Revised)

	_, ok := db.Tiploc("EUSTON")
	assert.False(t, ok)
	tp, ok := db.Tiploc("EUSTON2")
	require.True(t, ok)
	assert.Equal(t, "LONDON EUSTON", tp.Description)
}

func TestApplyAssociationLifecycle(t *testing.T) {
	db := New()

	aa := types.AssociationRecord{
		Transaction:   types.TransactionNew,
		MainTrainUID:  "C12345",
		AssocTrainUID: "C67890",
		StartDate:     date(2024, 1, 1),
		EndDate:       date(2024, 12, 31),
		Days:          types.EveryDay,
		Category:      "JJ",
		Location:      "EUSTON ",
		STP:           types.STPPermanent,
	}

	rep, err := db.Apply([]types.Record{aa}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Associations.Inserted)

	assocs := db.AssociationsFor("C67890")
	require.Len(t, assocs, 1)
	assert.Equal(t, "JJ", assocs[0].Category)
	assert.Equal(t, "EUSTON", assocs[0].Location)

	rep, err = db.Apply([]types.Record{aa}, Options{})
	require.NoError(t, err)
	var derr *DuplicateKeyError
	require.ErrorAs(t, rep.Errors[0], &derr)
	assert.Equal(t, EntityAssociation, derr.Entity)

	aa.Transaction = types.TransactionRevise
	aa.Category = "VV"
	rep, err = db.Apply([]types.Record{aa}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Associations.Revised)
	assert.Equal(t, "VV", db.Associations()[0].Category)

	aa.Transaction = types.TransactionDelete
	rep, err = db.Apply([]types.Record{aa}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Associations.Deleted)
	assert.Empty(t, db.Associations())
}

func TestApplyFullExtractResets(t *testing.T) {
	db := New()

	bs := newBS(types.TransactionNew, "C12345", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	records := append([]types.Record{tiplocInsert("EUSTON ", "EUS", "LONDON EUSTON")}, scheduleRun(bs, "EUSTON", "MNCRPIC")...)
	_, err := db.Apply(records, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, db.ScheduleCount())

	full := types.Header{
		Update:        types.UpdateFull,
		DateOfExtract: date(2024, 6, 1),
		TimeOfExtract: types.JourneyTime{Hour: 20, Minute: 30},
	}
	_, err = db.Apply([]types.Record{full}, Options{})
	require.NoError(t, err)

	assert.Zero(t, db.ScheduleCount())
	assert.Empty(t, db.Tiplocs())
	assert.Equal(t, time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC), db.ExtractedAt())
}

func TestApplyIncrementalExtractKeepsState(t *testing.T) {
	db := New()

	bs := newBS(types.TransactionNew, "C12345", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	_, err := db.Apply(scheduleRun(bs, "EUSTON", "MNCRPIC"), Options{})
	require.NoError(t, err)

	update := types.Header{
		Update:        types.UpdateIncremental,
		DateOfExtract: date(2024, 6, 2),
		TimeOfExtract: types.JourneyTime{Hour: 1},
	}
	_, err = db.Apply([]types.Record{update}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, db.ScheduleCount())
}

func TestApplyFailFast(t *testing.T) {
	badRevise := newBS(types.TransactionRevise, "C11111", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	goodNew := newBS(types.TransactionNew, "C22222", date(2024, 1, 1), date(2024, 12, 31), types.EveryDay, types.STPPermanent)
	records := append(scheduleRun(badRevise, "EUSTON", "MNCRPIC"), scheduleRun(goodNew, "EUSTON", "MNCRPIC")...)

	db := New()
	rep, err := db.Apply(records, Options{FailFast: true})
	require.Error(t, err)
	assert.Equal(t, 1, rep.ErrorCount())
	assert.Zero(t, db.ScheduleCount())

	// accumulate mode applies everything that can apply
	db = New()
	rep, err = db.Apply(records, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.ErrorCount())
	assert.Equal(t, 1, db.ScheduleCount())
	assert.Len(t, db.SchedulesFor("C22222"), 1)
}
