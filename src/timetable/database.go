// Package timetable resolves parsed CIF records into a queryable in-memory
// schedule database. Records are folded in file order; each record applies
// atomically, and overlapping schedule definitions for one train UID are
// resolved by STP precedence at query time.
package timetable

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/railcore/cif-engine/src/cif"
	"github.com/railcore/cif-engine/src/common/types"
)

// Database owns all post-resolution timetable state: schedules by train UID,
// TIPLOC entries and associations. It is single threaded by design; records
// must be applied in file order for transaction semantics to hold.
type Database struct {
	extractedAt  time.Time
	tiplocs      map[string]types.Tiploc
	associations map[string]types.Association
	schedules    map[string][]*types.Schedule
	log          *zap.SugaredLogger
}

// Options selects the error policy for an apply pass.
type Options struct {
	// FailFast aborts the pass at the first error. Records applied before
	// the failing one remain applied.
	FailFast bool
}

// New returns an empty database that logs nowhere.
func New() *Database {
	return NewWithLogger(zap.NewNop().Sugar())
}

// NewWithLogger returns an empty database emitting progress and apply events
// through the given logger.
func NewWithLogger(log *zap.SugaredLogger) *Database {
	return &Database{
		tiplocs:      make(map[string]types.Tiploc),
		associations: make(map[string]types.Association),
		schedules:    make(map[string][]*types.Schedule),
		log:          log,
	}
}

// ExtractedAt returns the extract timestamp of the most recently applied
// header record.
func (db *Database) ExtractedAt() time.Time { return db.extractedAt }

// ApplyFile folds a parsed file into the database, tagging errors with
// source line numbers.
func (db *Database) ApplyFile(file *cif.File, opts Options) (Report, error) {
	return db.apply(file.Records, file.Lines, opts)
}

// Apply folds an ordered record sequence into the database. The returned
// error is non-nil only in fail fast mode, where it equals the first
// reported error.
func (db *Database) Apply(records []types.Record, opts Options) (Report, error) {
	return db.apply(records, nil, opts)
}

func (db *Database) apply(records []types.Record, lines []int, opts Options) (Report, error) {
	var rep Report
	agg := cif.NewAggregator()

	lineOf := func(i int) int {
		if lines != nil && i < len(lines) {
			return lines[i]
		}
		return 0
	}

	for i, rec := range records {
		if i > 0 && i%10000 == 0 {
			db.log.Infow("applying records", "processed", i, "total", len(records))
		}

		sched, seqErr := agg.Feed(rec)
		if seqErr != nil {
			rep.record(i, lineOf(i), seqErr)
			if opts.FailFast {
				return rep, rep.Errors[len(rep.Errors)-1]
			}
		}
		if sched != nil {
			if err := db.applySchedule(sched, &rep); err != nil {
				rep.record(i, lineOf(i), err)
				if opts.FailFast {
					return rep, rep.Errors[len(rep.Errors)-1]
				}
			}
		}
		if types.IsScheduleBody(rec.Kind()) || rec.Kind() == types.KindBasicSchedule {
			continue
		}
		if err := db.applyRecord(rec, &rep); err != nil {
			rep.record(i, lineOf(i), err)
			if opts.FailFast {
				return rep, rep.Errors[len(rep.Errors)-1]
			}
		}
	}

	if err := agg.Flush(); err != nil {
		rep.record(len(records), 0, err)
		if opts.FailFast {
			return rep, rep.Errors[len(rep.Errors)-1]
		}
	}
	return rep, nil
}

// applyRecord handles the non-schedule record kinds, which carry their own
// transaction semantics on unique keys.
func (db *Database) applyRecord(rec types.Record, rep *Report) error {
	switch r := rec.(type) {
	case types.Header:
		if r.Update == types.UpdateFull {
			// a full extract replaces everything loaded so far
			db.log.Infow("full extract header, clearing database")
			db.tiplocs = make(map[string]types.Tiploc)
			db.associations = make(map[string]types.Association)
			db.schedules = make(map[string][]*types.Schedule)
		}
		db.extractedAt = time.Date(
			r.DateOfExtract.Year(), r.DateOfExtract.Month(), r.DateOfExtract.Day(),
			r.TimeOfExtract.Hour, r.TimeOfExtract.Minute, 0, 0, time.UTC)

	case types.TiplocInsert:
		code := trimmed(r.Tiploc)
		if _, ok := db.tiplocs[code]; ok {
			return &DuplicateKeyError{Entity: EntityTiploc, Key: code}
		}
		db.tiplocs[code] = tiplocEntity(r, code)
		rep.Tiplocs.Inserted++

	case types.TiplocAmend:
		code := trimmed(r.Tiploc)
		if _, ok := db.tiplocs[code]; !ok {
			return &UnknownKeyForRevisionError{Entity: EntityTiploc, Key: code}
		}
		stored := code
		if nt := trimmed(r.NewTiploc); nt != "" {
			// amendment renames the location
			delete(db.tiplocs, code)
			stored = nt
		}
		db.tiplocs[stored] = tiplocEntity(types.TiplocInsert{
			Tiploc:         r.Tiploc,
			TPSDescription: r.TPSDescription,
			Stanox:         r.Stanox,
			NLC:            r.NLC,
			ThreeAlphaCode: r.ThreeAlphaCode,
		}, stored)
		rep.Tiplocs.Revised++

	case types.TiplocDelete:
		code := trimmed(r.Tiploc)
		if _, ok := db.tiplocs[code]; !ok {
			return &UnknownKeyForDeletionError{Entity: EntityTiploc, Key: code}
		}
		delete(db.tiplocs, code)
		rep.Tiplocs.Deleted++

	case types.AssociationRecord:
		return db.applyAssociation(r, rep)

	case types.Trailer:
	}
	return nil
}

func (db *Database) applyAssociation(r types.AssociationRecord, rep *Report) error {
	assoc := types.Association{
		MainTrainUID:  trimmed(r.MainTrainUID),
		AssocTrainUID: trimmed(r.AssocTrainUID),
		Window: types.ValidityWindow{
			From: r.StartDate,
			To:   r.EndDate,
			Days: r.Days,
		},
		Category:      trimmed(r.Category),
		DateIndicator: r.DateIndicator,
		Location:      trimmed(r.Location),
		DiagramType:   r.DiagramType,
		STP:           r.STP,
	}
	key := assoc.Key()

	switch r.Transaction {
	case types.TransactionNew:
		if _, ok := db.associations[key]; ok {
			return &DuplicateKeyError{Entity: EntityAssociation, Key: key}
		}
		db.associations[key] = assoc
		rep.Associations.Inserted++
	case types.TransactionRevise:
		if _, ok := db.associations[key]; !ok {
			return &UnknownKeyForRevisionError{Entity: EntityAssociation, Key: key}
		}
		db.associations[key] = assoc
		rep.Associations.Revised++
	case types.TransactionDelete:
		if _, ok := db.associations[key]; !ok {
			return &UnknownKeyForDeletionError{Entity: EntityAssociation, Key: key}
		}
		delete(db.associations, key)
		rep.Associations.Deleted++
	}
	return nil
}

// applySchedule handles one aggregated schedule with its transaction
// semantics and same-precedence conflict detection. It mutates nothing when
// it returns an error.
func (db *Database) applySchedule(s *types.Schedule, rep *Report) error {
	uid := s.TrainUID
	list := db.schedules[uid]
	match := -1
	for i, existing := range list {
		if existing.STP == s.STP && existing.Window.From.Equal(s.Window.From) {
			match = i
			break
		}
	}

	switch s.Transaction {
	case types.TransactionNew:
		if match >= 0 {
			return &DuplicateKeyError{Entity: EntitySchedule, Key: scheduleKey(s)}
		}
		if err := db.checkConflict(s, list, -1); err != nil {
			return err
		}
		db.insertSchedule(uid, s)
		rep.Schedules.Inserted++
		db.log.Debugw("schedule inserted", "uid", uid, "stp", s.STP.String(), "from", s.Window.From)

	case types.TransactionRevise:
		if match < 0 {
			return &UnknownKeyForRevisionError{Entity: EntitySchedule, Key: scheduleKey(s)}
		}
		if err := db.checkConflict(s, list, match); err != nil {
			return err
		}
		list[match] = s
		db.log.Debugw("schedule revised", "uid", uid, "stp", s.STP.String(), "from", s.Window.From)
		rep.Schedules.Revised++

	case types.TransactionDelete:
		if match < 0 {
			return &UnknownKeyForDeletionError{Entity: EntitySchedule, Key: scheduleKey(s)}
		}
		list = append(list[:match], list[match+1:]...)
		if len(list) == 0 {
			delete(db.schedules, uid)
		} else {
			db.schedules[uid] = list
		}
		db.log.Debugw("schedule deleted", "uid", uid, "stp", s.STP.String(), "from", s.Window.From)
		rep.Schedules.Deleted++
	}
	return nil
}

// checkConflict rejects a schedule whose validity window overlaps another at
// the same STP precedence for the same train UID. exclude skips the entry a
// revise transaction is about to replace.
func (db *Database) checkConflict(s *types.Schedule, list []*types.Schedule, exclude int) error {
	for i, existing := range list {
		if i == exclude {
			continue
		}
		if existing.STP.Precedence() != s.STP.Precedence() {
			continue
		}
		if existing.Window.Overlaps(s.Window) {
			return &ConflictingScheduleError{
				TrainUID: s.TrainUID,
				STP:      s.STP,
				Window:   s.Window,
				Other:    existing.Window,
			}
		}
	}
	return nil
}

// insertSchedule keeps each UID's schedules ordered by window start.
func (db *Database) insertSchedule(uid string, s *types.Schedule) {
	list := db.schedules[uid]
	at := sort.Search(len(list), func(i int) bool {
		return list[i].Window.From.After(s.Window.From)
	})
	list = append(list, nil)
	copy(list[at+1:], list[at:])
	list[at] = s
	db.schedules[uid] = list
}

func tiplocEntity(r types.TiplocInsert, code string) types.Tiploc {
	return types.Tiploc{
		Code:        code,
		CRS:         trimmed(r.ThreeAlphaCode),
		Description: trimmed(r.TPSDescription),
		Stanox:      r.Stanox.Value,
		NLC:         r.NLC.Value,
	}
}

func scheduleKey(s *types.Schedule) string {
	return s.TrainUID + "/" + string(byte(s.STP)) + "/" + s.Window.From.Format("2006-01-02")
}

func trimmed(s string) string {
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	return s
}
