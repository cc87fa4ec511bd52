package timetable

import (
	"sort"
	"time"

	"github.com/railcore/cif-engine/src/common/types"
)

// SchedulesFor returns every stored schedule for a train UID, ordered by
// validity window start. The slice is shared with the database and must not
// be mutated.
func (db *Database) SchedulesFor(uid string) []*types.Schedule {
	return db.schedules[uid]
}

// TrainUIDs returns every train UID with at least one stored schedule,
// sorted.
func (db *Database) TrainUIDs() []string {
	uids := make([]string, 0, len(db.schedules))
	for uid := range db.schedules {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

// Tiploc looks up a timing point location by code.
func (db *Database) Tiploc(code string) (types.Tiploc, bool) {
	t, ok := db.tiplocs[code]
	return t, ok
}

// Tiplocs returns every known timing point location, sorted by code.
func (db *Database) Tiplocs() []types.Tiploc {
	out := make([]types.Tiploc, 0, len(db.tiplocs))
	for _, t := range db.tiplocs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Associations returns every stored association.
func (db *Database) Associations() []types.Association {
	out := make([]types.Association, 0, len(db.associations))
	for _, a := range db.associations {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// AssociationsFor returns the associations naming the given UID as either the
// main or the associated train.
func (db *Database) AssociationsFor(uid string) []types.Association {
	var out []types.Association
	for _, a := range db.associations {
		if a.MainTrainUID == uid || a.AssocTrainUID == uid {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// ActiveOn resolves the schedule for a train UID on a given date. Candidates
// are the stored schedules whose window contains the date; among them the
// highest STP precedence wins, so a cancellation is returned as the winner
// and callers decide what a cancelled service means to them. A nil schedule
// with a nil error means the train simply does not run that day.
//
// Two candidates at the same precedence are a data fault and reported as a
// ConflictingScheduleError.
func (db *Database) ActiveOn(uid string, date time.Time) (*types.Schedule, error) {
	var winner *types.Schedule
	for _, s := range db.schedules[uid] {
		if !s.Window.Contains(date) {
			continue
		}
		if winner == nil || s.STP.Precedence() > winner.STP.Precedence() {
			winner = s
			continue
		}
		if s.STP.Precedence() == winner.STP.Precedence() {
			return nil, &ConflictingScheduleError{
				TrainUID: uid,
				STP:      s.STP,
				Window:   s.Window,
				Other:    winner.Window,
			}
		}
	}
	return winner, nil
}

// ActiveSchedules resolves every train UID for a date and returns the
// schedules actually running: cancellation winners are dropped, since the
// train does not run. UIDs whose candidates conflict are skipped.
func (db *Database) ActiveSchedules(date time.Time) []*types.Schedule {
	var out []*types.Schedule
	for uid := range db.schedules {
		s, err := db.ActiveOn(uid, date)
		if err != nil || s == nil || s.STP == types.STPCancellation {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrainUID < out[j].TrainUID })
	return out
}

// SchedulesCallingAt returns the schedules running on a date that call at the
// given TIPLOC.
func (db *Database) SchedulesCallingAt(tiploc string, date time.Time) []*types.Schedule {
	active := db.ActiveSchedules(date)
	out := active[:0:0]
	for _, s := range active {
		if s.CallsAt(tiploc) {
			out = append(out, s)
		}
	}
	return out
}

// ScheduleCount returns the number of stored schedule entries across all
// UIDs.
func (db *Database) ScheduleCount() int {
	n := 0
	for _, list := range db.schedules {
		n += len(list)
	}
	return n
}
