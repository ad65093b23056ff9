package calc

import "sensitivity-calc.klederson.com/internal/units"

// Event is a named transition of the calculator state: a user edit, a
// command, or a reply from the calculation service. The set is closed.
type Event interface {
	isEvent()
}

// Started issues the lookups the opening state needs.
type Started struct{}

type DeclinationEdited struct{ Text string }

// DeclinationCommitted is sent when the user leaves the field; the text is
// reformatted into canonical form.
type DeclinationCommitted struct{ Text string }

type FrequencyEdited struct{ Value float64 }

type FrequencyUnitChanged struct{ Unit units.Unit }

type BandwidthEdited struct{ Value float64 }

type BandwidthUnitChanged struct{ Unit units.Unit }

type PolarisationChanged struct{ Polarisation Polarisation }

type AntennasEdited struct {
	Array ArrayID
	Value float64
}

// ResolutionEdited is ignored for the total-power array, whose beam is
// derived from the frequency.
type ResolutionEdited struct {
	Array ArrayID
	Value float64
}

type ResolutionUnitChanged struct {
	Array ArrayID
	Unit  units.Unit
}

type TimeEdited struct {
	Array ArrayID
	Value float64
}

type TimeUnitChanged struct {
	Array ArrayID
	Unit  units.Unit
}

type SensitivityEdited struct {
	Array ArrayID
	Value float64
}

type SensitivityUnitChanged struct {
	Array ArrayID
	Unit  units.Unit
}

type SensitivityPolicyChanged struct{ Policy UnitPolicy }

type TimePolicyChanged struct{ Policy UnitPolicy }

// RescaleModeSet switches unit changes between rescaling and relabelling.
type RescaleModeSet struct{ On bool }

// OctileSelected is a user choice of octile.
type OctileSelected struct{ Octile int }

type OctileModeChanged struct{ Mode OctileMode }

type BandSelected struct{ Band string }

type CalculateSensitivity struct{}

type CalculateTime struct{}

// OctileReceived carries the atmosphere for the octile the service picked.
type OctileReceived struct {
	Token      Token
	Octile     int
	Atmosphere Atmosphere
}

type OctileFailed struct {
	Token   Token
	Message string
}

type BandsReceived struct {
	Token Token
	Bands []string
}

type BandsFailed struct {
	Token   Token
	Message string
}

// SensitivityReceived carries a computed sensitivity in Jy.
type SensitivityReceived struct {
	Array  ArrayID
	Token  Token
	Jansky float64
}

type SensitivityFailed struct {
	Array   ArrayID
	Token   Token
	Message string
}

// TimeReceived carries a computed integration time in seconds.
type TimeReceived struct {
	Array   ArrayID
	Token   Token
	Seconds float64
}

type TimeFailed struct {
	Array   ArrayID
	Token   Token
	Message string
}

func (Started) isEvent()                  {}
func (DeclinationEdited) isEvent()        {}
func (DeclinationCommitted) isEvent()     {}
func (FrequencyEdited) isEvent()          {}
func (FrequencyUnitChanged) isEvent()     {}
func (BandwidthEdited) isEvent()          {}
func (BandwidthUnitChanged) isEvent()     {}
func (PolarisationChanged) isEvent()      {}
func (AntennasEdited) isEvent()           {}
func (ResolutionEdited) isEvent()         {}
func (ResolutionUnitChanged) isEvent()    {}
func (TimeEdited) isEvent()               {}
func (TimeUnitChanged) isEvent()          {}
func (SensitivityEdited) isEvent()        {}
func (SensitivityUnitChanged) isEvent()   {}
func (SensitivityPolicyChanged) isEvent() {}
func (TimePolicyChanged) isEvent()        {}
func (RescaleModeSet) isEvent()           {}
func (OctileSelected) isEvent()           {}
func (OctileModeChanged) isEvent()        {}
func (BandSelected) isEvent()             {}
func (CalculateSensitivity) isEvent()     {}
func (CalculateTime) isEvent()            {}
func (OctileReceived) isEvent()           {}
func (OctileFailed) isEvent()             {}
func (BandsReceived) isEvent()            {}
func (BandsFailed) isEvent()              {}
func (SensitivityReceived) isEvent()      {}
func (SensitivityFailed) isEvent()        {}
func (TimeReceived) isEvent()             {}
func (TimeFailed) isEvent()               {}
