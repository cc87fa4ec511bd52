package cif

import (
	"github.com/railcore/cif-engine/src/common/types"
)

func decodeHeader(raw string) (types.Record, error) {
	r := newRow(types.KindHeader, raw)
	var rec types.Header
	var err error
	if rec.MainframeIdentity, err = r.text("file mainframe identity", 2, 22); err != nil {
		return nil, err
	}
	if rec.DateOfExtract, err = r.date("date of extract", 22, layoutHeaderDate); err != nil {
		return nil, err
	}
	if rec.TimeOfExtract, err = r.publicTime("time of extract", 28); err != nil {
		return nil, err
	}
	if rec.CurrentFileRef, err = r.text("current file reference", 32, 39); err != nil {
		return nil, err
	}
	if rec.LastFileRef, err = r.text("last file reference", 39, 46); err != nil {
		return nil, err
	}
	switch raw[46] {
	case 'U':
		rec.Update = types.UpdateIncremental
	case 'F':
		rec.Update = types.UpdateFull
	default:
		return nil, r.fail("update indicator", 46, string(raw[46]), "must be 'U' or 'F'")
	}
	if rec.Version, err = r.char("version", 47); err != nil {
		return nil, err
	}
	if rec.UserStartDate, err = r.date("user start date", 48, layoutHeaderDate); err != nil {
		return nil, err
	}
	if rec.UserEndDate, err = r.date("user end date", 54, layoutHeaderDate); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeTiplocInsert(raw string) (types.Record, error) {
	r := newRow(types.KindTiplocInsert, raw)
	rec, err := decodeTiplocBody(r)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeTiplocAmend(raw string) (types.Record, error) {
	r := newRow(types.KindTiplocAmend, raw)
	body, err := decodeTiplocBody(r)
	if err != nil {
		return nil, err
	}
	rec := types.TiplocAmend{
		Tiploc:                 body.Tiploc,
		CapitalsIdentification: body.CapitalsIdentification,
		NLC:                    body.NLC,
		NLCCheckChar:           body.NLCCheckChar,
		TPSDescription:         body.TPSDescription,
		Stanox:                 body.Stanox,
		POMCPCode:              body.POMCPCode,
		ThreeAlphaCode:         body.ThreeAlphaCode,
		NLCDescription:         body.NLCDescription,
	}
	if rec.NewTiploc, err = r.text("new tiploc", 72, 79); err != nil {
		return nil, err
	}
	return rec, nil
}

// decodeTiplocBody covers columns shared by TI and TA records.
func decodeTiplocBody(r row) (types.TiplocInsert, error) {
	var rec types.TiplocInsert
	var err error
	if rec.Tiploc, err = r.text("tiploc", 2, 9); err != nil {
		return rec, err
	}
	if rec.CapitalsIdentification, err = r.number("capitals identification", 9, 11); err != nil {
		return rec, err
	}
	if rec.NLC, err = r.number("national location code", 11, 17); err != nil {
		return rec, err
	}
	if rec.NLCCheckChar, err = r.char("NLC check character", 17); err != nil {
		return rec, err
	}
	if rec.TPSDescription, err = r.text("TPS description", 18, 44); err != nil {
		return rec, err
	}
	if rec.Stanox, err = r.number("stanox", 44, 49); err != nil {
		return rec, err
	}
	if rec.POMCPCode, err = r.text("PO MCP code", 49, 53); err != nil {
		return rec, err
	}
	if rec.ThreeAlphaCode, err = r.text("three alpha code", 53, 56); err != nil {
		return rec, err
	}
	if rec.NLCDescription, err = r.text("NLC description", 56, 72); err != nil {
		return rec, err
	}
	return rec, nil
}

func decodeTiplocDelete(raw string) (types.Record, error) {
	r := newRow(types.KindTiplocDelete, raw)
	var rec types.TiplocDelete
	var err error
	if rec.Tiploc, err = r.text("tiploc", 2, 9); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeAssociation(raw string) (types.Record, error) {
	r := newRow(types.KindAssociation, raw)
	var rec types.AssociationRecord
	var err error
	if rec.Transaction, err = decodeTransaction(r, 2); err != nil {
		return nil, err
	}
	if rec.MainTrainUID, err = r.text("main train UID", 3, 9); err != nil {
		return nil, err
	}
	if rec.AssocTrainUID, err = r.text("associated train UID", 9, 15); err != nil {
		return nil, err
	}
	if rec.StartDate, err = r.date("association start date", 15, layoutDate); err != nil {
		return nil, err
	}
	if rec.EndDate, err = r.optionalDate("association end date", 21, layoutDate); err != nil {
		return nil, err
	}
	if rec.Days, rec.DaysBlank, err = r.daysRun("association days", 27); err != nil {
		return nil, err
	}
	if rec.Category, err = r.text("association category", 34, 36); err != nil {
		return nil, err
	}
	if rec.DateIndicator, err = r.char("association date indicator", 36); err != nil {
		return nil, err
	}
	if rec.Location, err = r.text("association location", 37, 44); err != nil {
		return nil, err
	}
	if rec.BaseLocationSuffix, err = r.char("base location suffix", 44); err != nil {
		return nil, err
	}
	if rec.AssocLocationSuffix, err = r.char("associated location suffix", 45); err != nil {
		return nil, err
	}
	if rec.DiagramType, err = r.char("diagram type", 46); err != nil {
		return nil, err
	}
	if rec.AssociationType, err = r.char("association type", 47); err != nil {
		return nil, err
	}
	if rec.STP, err = decodeSTP(r, 79); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeBasicSchedule(raw string) (types.Record, error) {
	r := newRow(types.KindBasicSchedule, raw)
	var rec types.BasicSchedule
	var err error
	if rec.Transaction, err = decodeTransaction(r, 2); err != nil {
		return nil, err
	}
	if rec.TrainUID, err = r.text("train UID", 3, 9); err != nil {
		return nil, err
	}
	if rec.RunsFrom, err = r.date("date runs from", 9, layoutDate); err != nil {
		return nil, err
	}
	if rec.RunsTo, err = r.optionalDate("date runs to", 15, layoutDate); err != nil {
		return nil, err
	}
	if rec.Days, rec.DaysBlank, err = r.daysRun("days run", 21); err != nil {
		return nil, err
	}
	if rec.BankHolidayRunning, err = r.char("bank holiday running", 28); err != nil {
		return nil, err
	}
	if rec.TrainStatus, err = r.char("train status", 29); err != nil {
		return nil, err
	}
	if rec.TrainCategory, err = r.text("train category", 30, 32); err != nil {
		return nil, err
	}
	if rec.TrainIdentity, err = r.text("train identity", 32, 36); err != nil {
		return nil, err
	}
	if rec.Headcode, err = r.text("headcode", 36, 40); err != nil {
		return nil, err
	}
	if rec.CourseIndicator, err = r.text("course indicator", 40, 41); err != nil {
		return nil, err
	}
	if rec.TrainServiceCode, err = r.text("train service code", 41, 49); err != nil {
		return nil, err
	}
	if rec.PortionID, err = r.char("portion id", 49); err != nil {
		return nil, err
	}
	if rec.PowerType, err = r.text("power type", 50, 53); err != nil {
		return nil, err
	}
	if rec.TimingLoad, err = r.text("timing load", 53, 57); err != nil {
		return nil, err
	}
	if rec.Speed, err = r.text("speed", 57, 60); err != nil {
		return nil, err
	}
	if rec.OperatingCharacteristics, err = r.text("operating characteristics", 60, 66); err != nil {
		return nil, err
	}
	if rec.SeatingClass, err = r.char("seating class", 66); err != nil {
		return nil, err
	}
	if rec.Sleepers, err = r.char("sleepers", 67); err != nil {
		return nil, err
	}
	if rec.Reservations, err = r.char("reservations", 68); err != nil {
		return nil, err
	}
	if rec.ConnectionIndicator, err = r.char("connection indicator", 69); err != nil {
		return nil, err
	}
	if rec.CateringCode, err = r.text("catering code", 70, 74); err != nil {
		return nil, err
	}
	if rec.ServiceBranding, err = r.text("service branding", 74, 78); err != nil {
		return nil, err
	}
	if rec.STP, err = decodeSTP(r, 79); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeBasicScheduleExtra(raw string) (types.Record, error) {
	r := newRow(types.KindBasicScheduleExtra, raw)
	var rec types.BasicScheduleExtra
	var err error
	if rec.TractionClass, err = r.text("traction class", 2, 6); err != nil {
		return nil, err
	}
	if rec.UICCode, err = r.text("UIC code", 6, 11); err != nil {
		return nil, err
	}
	if rec.ATOCCode, err = r.text("ATOC code", 11, 13); err != nil {
		return nil, err
	}
	if rec.ApplicableTimetable, err = r.char("applicable timetable code", 13); err != nil {
		return nil, err
	}
	if rec.RSID, err = r.text("retail service id", 14, 22); err != nil {
		return nil, err
	}
	if rec.DataSource, err = r.char("data source", 22); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeLocationOrigin(raw string) (types.Record, error) {
	r := newRow(types.KindLocationOrigin, raw)
	var rec types.LocationOrigin
	var err error
	if rec.Location, err = r.text("location", 2, 10); err != nil {
		return nil, err
	}
	if rec.ScheduledDeparture, err = r.journeyTime("scheduled departure", 10); err != nil {
		return nil, err
	}
	if rec.PublicDeparture, err = r.publicTime("public departure", 15); err != nil {
		return nil, err
	}
	if rec.Platform, err = r.text("platform", 19, 22); err != nil {
		return nil, err
	}
	if rec.Line, err = r.text("line", 22, 25); err != nil {
		return nil, err
	}
	if rec.EngineeringAllowance, err = r.text("engineering allowance", 25, 27); err != nil {
		return nil, err
	}
	if rec.PathingAllowance, err = r.text("pathing allowance", 27, 29); err != nil {
		return nil, err
	}
	if rec.Activity, err = r.text("activity", 29, 41); err != nil {
		return nil, err
	}
	if rec.PerformanceAllowance, err = r.text("performance allowance", 41, 43); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeLocationIntermediate(raw string) (types.Record, error) {
	r := newRow(types.KindLocationIntermed, raw)
	var rec types.LocationIntermediate
	var err error
	if rec.Location, err = r.text("location", 2, 10); err != nil {
		return nil, err
	}
	if rec.ScheduledArrival, err = r.optionalJourneyTime("scheduled arrival", 10); err != nil {
		return nil, err
	}
	if rec.ScheduledDeparture, err = r.optionalJourneyTime("scheduled departure", 15); err != nil {
		return nil, err
	}
	if rec.ScheduledPass, err = r.optionalJourneyTime("scheduled pass", 20); err != nil {
		return nil, err
	}
	if rec.PublicArrival, err = r.optionalPublicTime("public arrival", 25); err != nil {
		return nil, err
	}
	if rec.PublicDeparture, err = r.optionalPublicTime("public departure", 29); err != nil {
		return nil, err
	}
	if rec.Platform, err = r.text("platform", 33, 36); err != nil {
		return nil, err
	}
	if rec.Line, err = r.text("line", 36, 39); err != nil {
		return nil, err
	}
	if rec.Path, err = r.text("path", 39, 42); err != nil {
		return nil, err
	}
	if rec.Activity, err = r.text("activity", 42, 54); err != nil {
		return nil, err
	}
	if rec.EngineeringAllowance, err = r.text("engineering allowance", 54, 56); err != nil {
		return nil, err
	}
	if rec.PathingAllowance, err = r.text("pathing allowance", 56, 58); err != nil {
		return nil, err
	}
	if rec.PerformanceAllowance, err = r.text("performance allowance", 58, 60); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeLocationTerminus(raw string) (types.Record, error) {
	r := newRow(types.KindLocationTerminus, raw)
	var rec types.LocationTerminus
	var err error
	if rec.Location, err = r.text("location", 2, 10); err != nil {
		return nil, err
	}
	if rec.ScheduledArrival, err = r.journeyTime("scheduled arrival", 10); err != nil {
		return nil, err
	}
	if rec.PublicArrival, err = r.publicTime("public arrival", 15); err != nil {
		return nil, err
	}
	if rec.Platform, err = r.text("platform", 19, 22); err != nil {
		return nil, err
	}
	if rec.Path, err = r.text("path", 22, 25); err != nil {
		return nil, err
	}
	if rec.Activity, err = r.text("activity", 25, 37); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeChangeEnRoute(raw string) (types.Record, error) {
	r := newRow(types.KindChangeEnRoute, raw)
	var rec types.ChangeEnRoute
	var err error
	if rec.Location, err = r.text("location", 2, 10); err != nil {
		return nil, err
	}
	if rec.TrainCategory, err = r.text("train category", 10, 12); err != nil {
		return nil, err
	}
	if rec.TrainIdentity, err = r.text("train identity", 12, 16); err != nil {
		return nil, err
	}
	if rec.Headcode, err = r.text("headcode", 16, 20); err != nil {
		return nil, err
	}
	if rec.CourseIndicator, err = r.text("course indicator", 20, 21); err != nil {
		return nil, err
	}
	if rec.TrainServiceCode, err = r.text("train service code", 21, 29); err != nil {
		return nil, err
	}
	if rec.PortionID, err = r.char("portion id", 29); err != nil {
		return nil, err
	}
	if rec.PowerType, err = r.text("power type", 30, 33); err != nil {
		return nil, err
	}
	if rec.TimingLoad, err = r.text("timing load", 33, 37); err != nil {
		return nil, err
	}
	if rec.Speed, err = r.text("speed", 37, 40); err != nil {
		return nil, err
	}
	if rec.OperatingCharacteristics, err = r.text("operating characteristics", 40, 46); err != nil {
		return nil, err
	}
	if rec.SeatingClass, err = r.char("seating class", 46); err != nil {
		return nil, err
	}
	if rec.Sleepers, err = r.char("sleepers", 47); err != nil {
		return nil, err
	}
	if rec.Reservations, err = r.char("reservations", 48); err != nil {
		return nil, err
	}
	if rec.ConnectionIndicator, err = r.char("connection indicator", 49); err != nil {
		return nil, err
	}
	if rec.CateringCode, err = r.text("catering code", 50, 54); err != nil {
		return nil, err
	}
	if rec.ServiceBranding, err = r.text("service branding", 54, 58); err != nil {
		return nil, err
	}
	if rec.TractionClass, err = r.text("traction class", 58, 62); err != nil {
		return nil, err
	}
	if rec.UICCode, err = r.text("UIC code", 62, 67); err != nil {
		return nil, err
	}
	if rec.RSID, err = r.text("retail service id", 67, 75); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeTrailer(string) (types.Record, error) {
	return types.Trailer{}, nil
}

func decodeTransaction(r row, at int) (types.TransactionType, error) {
	switch r.raw[at] {
	case 'N':
		return types.TransactionNew, nil
	case 'D':
		return types.TransactionDelete, nil
	case 'R':
		return types.TransactionRevise, nil
	}
	return 0, r.fail("transaction type", at, string(r.raw[at]), "must be 'N', 'D' or 'R'")
}

func decodeSTP(r row, at int) (types.STPIndicator, error) {
	switch r.raw[at] {
	case 'C':
		return types.STPCancellation, nil
	case 'N':
		return types.STPNew, nil
	case 'O':
		return types.STPOverlay, nil
	case 'P':
		return types.STPPermanent, nil
	}
	return 0, r.fail("STP indicator", at, string(r.raw[at]), "must be 'C', 'N', 'O' or 'P'")
}
