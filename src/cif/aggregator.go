package cif

import (
	"github.com/railcore/cif-engine/src/common/types"
)

// Aggregator folds runs of physically separate schedule records into single
// logical schedules. The grammar is BS [BX] LO (LI [CR])* LT; a lone BS is a
// complete schedule when it is a delete transaction or an STP cancellation,
// which carry no journey.
//
// It is an explicit state machine. Any record arriving out of grammar order
// discards the in-progress schedule with a MalformedScheduleSequenceError
// and the offending record is reprocessed from the awaiting state, so one
// corrupt run never cascades into the rest of the file.
type Aggregator struct {
	state   aggState
	partial *types.Schedule
	bxSeen  bool
}

type aggState int

const (
	awaitingSchedule aggState = iota
	inSchedule
)

func (s aggState) String() string {
	if s == inSchedule {
		return "assembling a schedule"
	}
	return "awaiting a schedule"
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// InSchedule reports whether a schedule run is currently being assembled.
func (a *Aggregator) InSchedule() bool { return a.state == inSchedule }

// Feed advances the state machine by one record.
//
// The returned schedule is non-nil when rec completed a run. Non-schedule
// records return (nil, nil) and should be handled by the caller directly;
// receiving one mid-run is a sequence error, after which the caller should
// still handle the record itself. A sequence error caused by a BS record
// also starts (or, for lone deletes and cancellations, completes) the new
// run in the same call, so both return values can be set at once.
func (a *Aggregator) Feed(rec types.Record) (*types.Schedule, error) {
	if !types.IsScheduleBody(rec.Kind()) && rec.Kind() != types.KindBasicSchedule {
		if a.state == inSchedule {
			err := a.abort(rec.Kind())
			return nil, err
		}
		return nil, nil
	}

	switch r := rec.(type) {
	case types.BasicSchedule:
		var seqErr error
		if a.state == inSchedule {
			seqErr = a.abort(rec.Kind())
		}
		if r.Transaction == types.TransactionDelete || r.STP == types.STPCancellation {
			return scheduleFromBS(r), seqErr
		}
		a.state = inSchedule
		a.partial = scheduleFromBS(r)
		a.bxSeen = false
		return nil, seqErr

	case types.BasicScheduleExtra:
		if a.state != inSchedule || a.bxSeen || len(a.partial.Journey) > 0 {
			return nil, a.abort(rec.Kind())
		}
		a.bxSeen = true
		a.partial.ATOCCode = trim(r.ATOCCode)
		a.partial.RSID = trim(r.RSID)
		a.partial.SubjectToMonitoring = r.ApplicableTimetable == 'Y'
		return nil, nil

	case types.LocationOrigin:
		if a.state != inSchedule || len(a.partial.Journey) > 0 {
			return nil, a.abort(rec.Kind())
		}
		dep := r.ScheduledDeparture
		pub := r.PublicDeparture
		a.partial.Journey = append(a.partial.Journey, types.JourneyLocation{
			Role:            types.RoleOrigin,
			Tiploc:          trim(r.Location),
			Departure:       &dep,
			PublicDeparture: &pub,
			Platform:        trim(r.Platform),
			Line:            trim(r.Line),
			Activity:        trim(r.Activity),
		})
		return nil, nil

	case types.LocationIntermediate:
		if a.state != inSchedule || len(a.partial.Journey) == 0 {
			return nil, a.abort(rec.Kind())
		}
		a.partial.Journey = append(a.partial.Journey, types.JourneyLocation{
			Role:            types.RoleIntermediate,
			Tiploc:          trim(r.Location),
			Arrival:         r.ScheduledArrival,
			Departure:       r.ScheduledDeparture,
			Pass:            r.ScheduledPass,
			PublicArrival:   r.PublicArrival,
			PublicDeparture: r.PublicDeparture,
			Platform:        trim(r.Platform),
			Line:            trim(r.Line),
			Path:            trim(r.Path),
			Activity:        trim(r.Activity),
		})
		return nil, nil

	case types.ChangeEnRoute:
		if a.state != inSchedule || len(a.partial.Journey) == 0 {
			return nil, a.abort(rec.Kind())
		}
		last := &a.partial.Journey[len(a.partial.Journey)-1]
		if last.Role != types.RoleIntermediate || last.Change != nil {
			return nil, a.abort(rec.Kind())
		}
		cr := r
		last.Change = &cr
		return nil, nil

	case types.LocationTerminus:
		if a.state != inSchedule || len(a.partial.Journey) == 0 {
			return nil, a.abort(rec.Kind())
		}
		arr := r.ScheduledArrival
		pub := r.PublicArrival
		a.partial.Journey = append(a.partial.Journey, types.JourneyLocation{
			Role:          types.RoleTerminus,
			Tiploc:        trim(r.Location),
			Arrival:       &arr,
			PublicArrival: &pub,
			Platform:      trim(r.Platform),
			Path:          trim(r.Path),
			Activity:      trim(r.Activity),
		})
		done := a.partial
		a.reset()
		return done, nil
	}

	return nil, nil
}

// Flush reports a run left unterminated at end of input as a sequence error
// and discards it.
func (a *Aggregator) Flush() error {
	if a.state != inSchedule {
		return nil
	}
	err := &MalformedScheduleSequenceError{
		Got:      types.KindTrailer,
		State:    a.state.String(),
		TrainUID: a.partial.TrainUID,
	}
	a.reset()
	return err
}

func (a *Aggregator) abort(got types.RecordKind) error {
	err := &MalformedScheduleSequenceError{Got: got, State: a.state.String()}
	if a.partial != nil {
		err.TrainUID = a.partial.TrainUID
	}
	a.reset()
	return err
}

func (a *Aggregator) reset() {
	a.state = awaitingSchedule
	a.partial = nil
	a.bxSeen = false
}

func scheduleFromBS(r types.BasicSchedule) *types.Schedule {
	return &types.Schedule{
		Transaction: r.Transaction,
		TrainUID:    trim(r.TrainUID),
		Window: types.ValidityWindow{
			From: r.RunsFrom,
			To:   r.RunsTo,
			Days: r.Days,
		},
		BankHolidayRunning:       r.BankHolidayRunning,
		TrainStatus:              r.TrainStatus,
		TrainCategory:            trim(r.TrainCategory),
		TrainIdentity:            trim(r.TrainIdentity),
		TrainServiceCode:         trim(r.TrainServiceCode),
		PortionID:                r.PortionID,
		PowerType:                trim(r.PowerType),
		TimingLoad:               trim(r.TimingLoad),
		Speed:                    trim(r.Speed),
		OperatingCharacteristics: trim(r.OperatingCharacteristics),
		SeatingClass:             r.SeatingClass,
		Sleepers:                 r.Sleepers,
		Reservations:             r.Reservations,
		CateringCode:             trim(r.CateringCode),
		ServiceBranding:          trim(r.ServiceBranding),
		STP:                      r.STP,
	}
}
