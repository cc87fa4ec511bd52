package cif

import (
	"fmt"
	"strings"
	"time"

	"github.com/railcore/cif-engine/src/common/types"
)

// Encode renders a record back to its 80 column CIF line. Decoding a
// syntactically valid line and encoding the result reproduces the line byte
// for byte; text fields keep their original padding and numeric fields are
// zero padded the way CIF extracts emit them.
func Encode(rec types.Record) string {
	var b strings.Builder
	b.Grow(recordLength)
	b.WriteString(string(rec.Kind()))

	switch r := rec.(type) {
	case types.Header:
		pad(&b, r.MainframeIdentity, 20)
		encDate(&b, r.DateOfExtract, layoutHeaderDate)
		encPublicTime(&b, &r.TimeOfExtract)
		pad(&b, r.CurrentFileRef, 7)
		pad(&b, r.LastFileRef, 7)
		b.WriteByte(byte(r.Update))
		b.WriteByte(r.Version)
		encDate(&b, r.UserStartDate, layoutHeaderDate)
		encDate(&b, r.UserEndDate, layoutHeaderDate)

	case types.TiplocInsert:
		encTiplocBody(&b, r)

	case types.TiplocAmend:
		encTiplocBody(&b, types.TiplocInsert{
			Tiploc:                 r.Tiploc,
			CapitalsIdentification: r.CapitalsIdentification,
			NLC:                    r.NLC,
			NLCCheckChar:           r.NLCCheckChar,
			TPSDescription:         r.TPSDescription,
			Stanox:                 r.Stanox,
			POMCPCode:              r.POMCPCode,
			ThreeAlphaCode:         r.ThreeAlphaCode,
			NLCDescription:         r.NLCDescription,
		})
		pad(&b, r.NewTiploc, 7)

	case types.TiplocDelete:
		pad(&b, r.Tiploc, 7)

	case types.AssociationRecord:
		b.WriteByte(byte(r.Transaction))
		pad(&b, r.MainTrainUID, 6)
		pad(&b, r.AssocTrainUID, 6)
		encDate(&b, r.StartDate, layoutDate)
		encDate(&b, r.EndDate, layoutDate)
		encDays(&b, r.Days, r.DaysBlank)
		pad(&b, r.Category, 2)
		b.WriteByte(r.DateIndicator)
		pad(&b, r.Location, 7)
		b.WriteByte(r.BaseLocationSuffix)
		b.WriteByte(r.AssocLocationSuffix)
		b.WriteByte(r.DiagramType)
		b.WriteByte(r.AssociationType)
		pad(&b, "", 31)
		b.WriteByte(byte(r.STP))

	case types.BasicSchedule:
		b.WriteByte(byte(r.Transaction))
		pad(&b, r.TrainUID, 6)
		encDate(&b, r.RunsFrom, layoutDate)
		encDate(&b, r.RunsTo, layoutDate)
		encDays(&b, r.Days, r.DaysBlank)
		b.WriteByte(r.BankHolidayRunning)
		b.WriteByte(r.TrainStatus)
		pad(&b, r.TrainCategory, 2)
		pad(&b, r.TrainIdentity, 4)
		pad(&b, r.Headcode, 4)
		pad(&b, r.CourseIndicator, 1)
		pad(&b, r.TrainServiceCode, 8)
		b.WriteByte(r.PortionID)
		pad(&b, r.PowerType, 3)
		pad(&b, r.TimingLoad, 4)
		pad(&b, r.Speed, 3)
		pad(&b, r.OperatingCharacteristics, 6)
		b.WriteByte(r.SeatingClass)
		b.WriteByte(r.Sleepers)
		b.WriteByte(r.Reservations)
		b.WriteByte(r.ConnectionIndicator)
		pad(&b, r.CateringCode, 4)
		pad(&b, r.ServiceBranding, 4)
		pad(&b, "", 1)
		b.WriteByte(byte(r.STP))

	case types.BasicScheduleExtra:
		pad(&b, r.TractionClass, 4)
		pad(&b, r.UICCode, 5)
		pad(&b, r.ATOCCode, 2)
		b.WriteByte(r.ApplicableTimetable)
		pad(&b, r.RSID, 8)
		b.WriteByte(r.DataSource)

	case types.LocationOrigin:
		pad(&b, r.Location, 8)
		encJourneyTime(&b, &r.ScheduledDeparture)
		encPublicTime(&b, &r.PublicDeparture)
		pad(&b, r.Platform, 3)
		pad(&b, r.Line, 3)
		pad(&b, r.EngineeringAllowance, 2)
		pad(&b, r.PathingAllowance, 2)
		pad(&b, r.Activity, 12)
		pad(&b, r.PerformanceAllowance, 2)

	case types.LocationIntermediate:
		pad(&b, r.Location, 8)
		encJourneyTime(&b, r.ScheduledArrival)
		encJourneyTime(&b, r.ScheduledDeparture)
		encJourneyTime(&b, r.ScheduledPass)
		encPublicTime(&b, r.PublicArrival)
		encPublicTime(&b, r.PublicDeparture)
		pad(&b, r.Platform, 3)
		pad(&b, r.Line, 3)
		pad(&b, r.Path, 3)
		pad(&b, r.Activity, 12)
		pad(&b, r.EngineeringAllowance, 2)
		pad(&b, r.PathingAllowance, 2)
		pad(&b, r.PerformanceAllowance, 2)

	case types.LocationTerminus:
		pad(&b, r.Location, 8)
		encJourneyTime(&b, &r.ScheduledArrival)
		encPublicTime(&b, &r.PublicArrival)
		pad(&b, r.Platform, 3)
		pad(&b, r.Path, 3)
		pad(&b, r.Activity, 12)

	case types.ChangeEnRoute:
		pad(&b, r.Location, 8)
		pad(&b, r.TrainCategory, 2)
		pad(&b, r.TrainIdentity, 4)
		pad(&b, r.Headcode, 4)
		pad(&b, r.CourseIndicator, 1)
		pad(&b, r.TrainServiceCode, 8)
		b.WriteByte(r.PortionID)
		pad(&b, r.PowerType, 3)
		pad(&b, r.TimingLoad, 4)
		pad(&b, r.Speed, 3)
		pad(&b, r.OperatingCharacteristics, 6)
		b.WriteByte(r.SeatingClass)
		b.WriteByte(r.Sleepers)
		b.WriteByte(r.Reservations)
		b.WriteByte(r.ConnectionIndicator)
		pad(&b, r.CateringCode, 4)
		pad(&b, r.ServiceBranding, 4)
		pad(&b, r.TractionClass, 4)
		pad(&b, r.UICCode, 5)
		pad(&b, r.RSID, 8)

	case types.Trailer:
	}

	out := b.String()
	if len(out) < recordLength {
		out += strings.Repeat(" ", recordLength-len(out))
	}
	return out
}

func pad(b *strings.Builder, s string, n int) {
	if len(s) > n {
		s = s[:n]
	}
	b.WriteString(s)
	for i := len(s); i < n; i++ {
		b.WriteByte(' ')
	}
}

func encDate(b *strings.Builder, t time.Time, layout string) {
	if t.IsZero() {
		b.WriteString("      ")
		return
	}
	b.WriteString(t.Format(layout))
}

func encJourneyTime(b *strings.Builder, t *types.JourneyTime) {
	if t == nil {
		b.WriteString("     ")
		return
	}
	fmt.Fprintf(b, "%02d%02d", t.Hour, t.Minute)
	if t.Half {
		b.WriteByte('H')
	} else {
		b.WriteByte(' ')
	}
}

func encPublicTime(b *strings.Builder, t *types.JourneyTime) {
	if t == nil {
		b.WriteString("    ")
		return
	}
	fmt.Fprintf(b, "%02d%02d", t.Hour, t.Minute)
}

// encDays writes the running days mask. A blank column stays blank; an
// explicit all-zero mask stays 0000000.
func encDays(b *strings.Builder, d types.DaysRun, blank bool) {
	if blank {
		b.WriteString("       ")
		return
	}
	b.WriteString(d.String())
}

// encNumeric writes the raw column text when the record came from a decoded
// line, preserving any space padding; records built in code fall back to
// zero padding.
func encNumeric(b *strings.Builder, n types.Numeric, width int) {
	if len(n.Raw) == width {
		b.WriteString(n.Raw)
		return
	}
	fmt.Fprintf(b, "%0*d", width, n.Value)
}

func encTiplocBody(b *strings.Builder, r types.TiplocInsert) {
	pad(b, r.Tiploc, 7)
	encNumeric(b, r.CapitalsIdentification, 2)
	encNumeric(b, r.NLC, 6)
	b.WriteByte(r.NLCCheckChar)
	pad(b, r.TPSDescription, 26)
	encNumeric(b, r.Stanox, 5)
	pad(b, r.POMCPCode, 4)
	pad(b, r.ThreeAlphaCode, 3)
	pad(b, r.NLCDescription, 16)
}
