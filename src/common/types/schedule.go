package types

import (
	"fmt"
	"time"
)

// TransactionType governs how a record mutates database state.
type TransactionType byte

const (
	TransactionNew    TransactionType = 'N'
	TransactionDelete TransactionType = 'D'
	TransactionRevise TransactionType = 'R'
)

func (t TransactionType) String() string {
	switch t {
	case TransactionNew:
		return "new"
	case TransactionDelete:
		return "delete"
	case TransactionRevise:
		return "revise"
	}
	return fmt.Sprintf("unknown(%c)", byte(t))
}

// STPIndicator marks a schedule as permanent or as a short term planning
// variant layered over it.
type STPIndicator byte

const (
	STPCancellation STPIndicator = 'C'
	STPNew          STPIndicator = 'N'
	STPOverlay      STPIndicator = 'O'
	STPPermanent    STPIndicator = 'P'
)

// Precedence orders STP indicators for overlay resolution. Higher wins.
func (s STPIndicator) Precedence() int {
	switch s {
	case STPCancellation:
		return 3
	case STPOverlay:
		return 2
	case STPNew:
		return 1
	case STPPermanent:
		return 0
	}
	return -1
}

func (s STPIndicator) String() string {
	switch s {
	case STPCancellation:
		return "cancellation"
	case STPNew:
		return "stp-new"
	case STPOverlay:
		return "overlay"
	case STPPermanent:
		return "permanent"
	}
	return fmt.Sprintf("unknown(%c)", byte(s))
}

// DaysRun is the weekly running days bitmask, Monday as the highest bit.
type DaysRun uint8

const (
	Monday    DaysRun = 0b1000000
	Tuesday   DaysRun = 0b0100000
	Wednesday DaysRun = 0b0010000
	Thursday  DaysRun = 0b0001000
	Friday    DaysRun = 0b0000100
	Saturday  DaysRun = 0b0000010
	Sunday    DaysRun = 0b0000001

	Weekdays = Monday | Tuesday | Wednesday | Thursday | Friday
	Weekends = Saturday | Sunday
	EveryDay = Weekdays | Weekends
)

// RunsOn reports whether the mask includes the given weekday.
func (d DaysRun) RunsOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return d&Monday != 0
	case time.Tuesday:
		return d&Tuesday != 0
	case time.Wednesday:
		return d&Wednesday != 0
	case time.Thursday:
		return d&Thursday != 0
	case time.Friday:
		return d&Friday != 0
	case time.Saturday:
		return d&Saturday != 0
	case time.Sunday:
		return d&Sunday != 0
	}
	return false
}

// Intersects reports whether two masks share at least one running day.
func (d DaysRun) Intersects(other DaysRun) bool {
	return d&other != 0
}

// String renders the mask in CIF column order, Monday first.
func (d DaysRun) String() string {
	b := make([]byte, 7)
	for i := 0; i < 7; i++ {
		if d&(1<<(6-i)) != 0 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// JourneyTime is a timetable time with CIF's half minute resolution.
type JourneyTime struct {
	Hour   int
	Minute int
	Half   bool
}

func (t JourneyTime) String() string {
	if t.Half {
		return fmt.Sprintf("%02d:%02d:30", t.Hour, t.Minute)
	}
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute)
}

// ValidityWindow is a closed date range plus the weekly running days within
// it.
type ValidityWindow struct {
	From time.Time
	To   time.Time
	Days DaysRun
}

// Contains reports whether the window covers the given date, including the
// running days mask.
func (w ValidityWindow) Contains(date time.Time) bool {
	if date.Before(w.From) || date.After(w.To) {
		return false
	}
	return w.Days.RunsOn(date.Weekday())
}

// Overlaps reports whether two windows share at least one calendar date and
// one running day.
func (w ValidityWindow) Overlaps(other ValidityWindow) bool {
	if w.From.After(other.To) || other.From.After(w.To) {
		return false
	}
	return w.Days.Intersects(other.Days)
}

// LocationRole distinguishes stops within a journey.
type LocationRole byte

const (
	RoleOrigin       LocationRole = 'O'
	RoleIntermediate LocationRole = 'I'
	RoleTerminus     LocationRole = 'T'
)

// JourneyLocation is one resolved stop of a schedule.
type JourneyLocation struct {
	Role            LocationRole
	Tiploc          string
	Arrival         *JourneyTime
	Departure       *JourneyTime
	Pass            *JourneyTime
	PublicArrival   *JourneyTime
	PublicDeparture *JourneyTime
	Platform        string
	Line            string
	Path            string
	Activity        string
	// Change carries a change en route annotation taking effect at this stop.
	Change *ChangeEnRoute
}

// Schedule is one logical train schedule after continuation aggregation: the
// basic schedule header plus its ordered journey. A schedule is identified by
// TrainUID, STP indicator and the start of its validity window.
type Schedule struct {
	Transaction              TransactionType
	TrainUID                 string
	Window                   ValidityWindow
	BankHolidayRunning       byte
	TrainStatus              byte
	TrainCategory            string
	TrainIdentity            string
	TrainServiceCode         string
	PortionID                byte
	PowerType                string
	TimingLoad               string
	Speed                    string
	OperatingCharacteristics string
	SeatingClass             byte
	Sleepers                 byte
	Reservations             byte
	CateringCode             string
	ServiceBranding          string
	ATOCCode                 string
	RSID                     string
	SubjectToMonitoring      bool
	STP                      STPIndicator
	Journey                  []JourneyLocation
}

// Origin returns the first stop, or nil for a schedule with no journey
// (cancellations and deletes).
func (s *Schedule) Origin() *JourneyLocation {
	if len(s.Journey) == 0 {
		return nil
	}
	return &s.Journey[0]
}

// Terminus returns the last stop.
func (s *Schedule) Terminus() *JourneyLocation {
	if len(s.Journey) == 0 {
		return nil
	}
	return &s.Journey[len(s.Journey)-1]
}

// CallsAt reports whether the journey includes the given TIPLOC.
func (s *Schedule) CallsAt(tiploc string) bool {
	for i := range s.Journey {
		if s.Journey[i].Tiploc == tiploc {
			return true
		}
	}
	return false
}

// Tiploc is a resolved timing point location.
type Tiploc struct {
	Code        string
	CRS         string
	Description string
	Stanox      int
	NLC         int
}

// Association links two train UIDs at a location, for joins, splits and
// next-working relationships.
type Association struct {
	MainTrainUID  string
	AssocTrainUID string
	Window        ValidityWindow
	Category      string
	DateIndicator byte
	Location      string
	DiagramType   byte
	STP           STPIndicator
}

// Key identifies an association uniquely within the database.
func (a Association) Key() string {
	return fmt.Sprintf("%s/%s/%s/%c",
		a.MainTrainUID, a.AssocTrainUID, a.Window.From.Format("2006-01-02"), byte(a.STP))
}
