package types

import "time"

// RecordKind is the two character identifier at the start of every CIF line.
type RecordKind string

const (
	KindHeader             RecordKind = "HD"
	KindTiplocInsert       RecordKind = "TI"
	KindTiplocAmend        RecordKind = "TA"
	KindTiplocDelete       RecordKind = "TD"
	KindAssociation        RecordKind = "AA"
	KindBasicSchedule      RecordKind = "BS"
	KindBasicScheduleExtra RecordKind = "BX"
	KindLocationOrigin     RecordKind = "LO"
	KindLocationIntermed   RecordKind = "LI"
	KindChangeEnRoute      RecordKind = "CR"
	KindLocationTerminus   RecordKind = "LT"
	KindTrailer            RecordKind = "ZZ"
)

// Record is one decoded CIF line. The set of implementations is closed: every
// record kind a CIF file can carry has exactly one type here, and the parser
// never produces anything else.
type Record interface {
	Kind() RecordKind
}

// UpdateKind marks a CIF extract as a full file or an incremental update.
type UpdateKind byte

const (
	UpdateFull        UpdateKind = 'F'
	UpdateIncremental UpdateKind = 'U'
)

type Header struct {
	MainframeIdentity string
	DateOfExtract     time.Time
	TimeOfExtract     JourneyTime
	CurrentFileRef    string
	LastFileRef       string
	Update            UpdateKind
	Version           byte
	UserStartDate     time.Time
	UserEndDate       time.Time
}

func (Header) Kind() RecordKind { return KindHeader }

// Numeric is a fixed width CIF numeric column. Leading spaces count as
// zeros; Raw keeps the column text exactly as read so records re-encode
// byte for byte.
type Numeric struct {
	Value int
	Raw   string
}

type TiplocInsert struct {
	Tiploc                 string
	CapitalsIdentification Numeric
	NLC                    Numeric
	NLCCheckChar           byte
	TPSDescription         string
	Stanox                 Numeric
	POMCPCode              string
	ThreeAlphaCode         string
	NLCDescription         string
}

func (TiplocInsert) Kind() RecordKind { return KindTiplocInsert }

type TiplocAmend struct {
	Tiploc                 string
	CapitalsIdentification Numeric
	NLC                    Numeric
	NLCCheckChar           byte
	TPSDescription         string
	Stanox                 Numeric
	POMCPCode              string
	ThreeAlphaCode         string
	NLCDescription         string
	// NewTiploc is blank unless the amendment renames the location.
	NewTiploc string
}

func (TiplocAmend) Kind() RecordKind { return KindTiplocAmend }

type TiplocDelete struct {
	Tiploc string
}

func (TiplocDelete) Kind() RecordKind { return KindTiplocDelete }

type AssociationRecord struct {
	Transaction         TransactionType
	MainTrainUID        string
	AssocTrainUID       string
	StartDate           time.Time
	EndDate             time.Time
	Days                DaysRun
	// DaysBlank marks an all-space days column, distinct from an explicit
	// 0000000 mask. Delete transactions leave the column blank.
	DaysBlank           bool
	Category            string
	DateIndicator       byte
	Location            string
	BaseLocationSuffix  byte
	AssocLocationSuffix byte
	DiagramType         byte
	AssociationType     byte
	STP                 STPIndicator
}

func (AssociationRecord) Kind() RecordKind { return KindAssociation }

type BasicSchedule struct {
	Transaction              TransactionType
	TrainUID                 string
	RunsFrom                 time.Time
	// RunsTo is zero for delete transactions, which only carry the start date.
	RunsTo                   time.Time
	Days                     DaysRun
	// DaysBlank marks an all-space days column, distinct from an explicit
	// 0000000 mask.
	DaysBlank                bool
	BankHolidayRunning       byte
	TrainStatus              byte
	TrainCategory            string
	TrainIdentity            string
	Headcode                 string
	CourseIndicator          string
	TrainServiceCode         string
	PortionID                byte
	PowerType                string
	TimingLoad               string
	Speed                    string
	OperatingCharacteristics string
	SeatingClass             byte
	Sleepers                 byte
	Reservations             byte
	ConnectionIndicator      byte
	CateringCode             string
	ServiceBranding          string
	STP                      STPIndicator
}

func (BasicSchedule) Kind() RecordKind { return KindBasicSchedule }

type BasicScheduleExtra struct {
	TractionClass       string
	UICCode             string
	ATOCCode            string
	ApplicableTimetable byte
	RSID                string
	DataSource          byte
}

func (BasicScheduleExtra) Kind() RecordKind { return KindBasicScheduleExtra }

type LocationOrigin struct {
	Location             string
	ScheduledDeparture   JourneyTime
	PublicDeparture      JourneyTime
	Platform             string
	Line                 string
	EngineeringAllowance string
	PathingAllowance     string
	Activity             string
	PerformanceAllowance string
}

func (LocationOrigin) Kind() RecordKind { return KindLocationOrigin }

type LocationIntermediate struct {
	Location             string
	ScheduledArrival     *JourneyTime
	ScheduledDeparture   *JourneyTime
	ScheduledPass        *JourneyTime
	PublicArrival        *JourneyTime
	PublicDeparture      *JourneyTime
	Platform             string
	Line                 string
	Path                 string
	Activity             string
	EngineeringAllowance string
	PathingAllowance     string
	PerformanceAllowance string
}

func (LocationIntermediate) Kind() RecordKind { return KindLocationIntermed }

type LocationTerminus struct {
	Location         string
	ScheduledArrival JourneyTime
	PublicArrival    JourneyTime
	Platform         string
	Path             string
	Activity         string
}

func (LocationTerminus) Kind() RecordKind { return KindLocationTerminus }

type ChangeEnRoute struct {
	Location                 string
	TrainCategory            string
	TrainIdentity            string
	Headcode                 string
	CourseIndicator          string
	TrainServiceCode         string
	PortionID                byte
	PowerType                string
	TimingLoad               string
	Speed                    string
	OperatingCharacteristics string
	SeatingClass             byte
	Sleepers                 byte
	Reservations             byte
	ConnectionIndicator      byte
	CateringCode             string
	ServiceBranding          string
	TractionClass            string
	UICCode                  string
	RSID                     string
}

func (ChangeEnRoute) Kind() RecordKind { return KindChangeEnRoute }

type Trailer struct{}

func (Trailer) Kind() RecordKind { return KindTrailer }

// IsScheduleBody reports whether the record kind only makes sense inside a
// BS..LT schedule run.
func IsScheduleBody(k RecordKind) bool {
	switch k {
	case KindBasicScheduleExtra, KindLocationOrigin, KindLocationIntermed,
		KindChangeEnRoute, KindLocationTerminus:
		return true
	}
	return false
}
