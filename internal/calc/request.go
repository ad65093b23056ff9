package calc

import "fmt"

// Request is remote work Reduce asks the caller to perform. Every request
// is answered by exactly one reply event carrying the same token.
type Request interface {
	isRequest()
	// Kind names the request for logs and metrics.
	Kind() string
}

// OctileLookup fetches atmosphere details. With BestFit set the service
// picks the octile and Octile is ignored.
type OctileLookup struct {
	Token      Token
	Band       string
	Octile     int
	BestFit    bool
	FreqGHz    float64
	DecDegrees float64
}

// BandLookup fetches the receiver bands covering a frequency.
type BandLookup struct {
	Token   Token
	FreqGHz float64
}

// Observation is the common payload of a sensitivity or time calculation.
type Observation struct {
	Array        ArrayID
	BeamArcsec   float64
	FreqGHz      float64
	BandwidthGHz float64
	DecDegrees   float64
	Antennas     int
	Polarisation Polarisation
	Octile       int
	Band         string
}

// SensitivityCalc asks for the sensitivity reached in TimeSec seconds.
type SensitivityCalc struct {
	Token Token
	Observation
	TimeSec float64
}

// TimeCalc asks for the integration time that reaches SensitivityJy.
type TimeCalc struct {
	Token Token
	Observation
	SensitivityJy float64
}

func (OctileLookup) isRequest()    {}
func (BandLookup) isRequest()      {}
func (SensitivityCalc) isRequest() {}
func (TimeCalc) isRequest()        {}

func (OctileLookup) Kind() string    { return "octile" }
func (BandLookup) Kind() string      { return "bands" }
func (SensitivityCalc) Kind() string { return "sensitivity" }
func (TimeCalc) Kind() string        { return "time" }

// Failure builds the failure event answering req.
func Failure(req Request, message string) Event {
	switch r := req.(type) {
	case OctileLookup:
		return OctileFailed{Token: r.Token, Message: message}
	case BandLookup:
		return BandsFailed{Token: r.Token, Message: message}
	case SensitivityCalc:
		return SensitivityFailed{Array: r.Array, Token: r.Token, Message: message}
	case TimeCalc:
		return TimeFailed{Array: r.Array, Token: r.Token, Message: message}
	default:
		panic(fmt.Sprintf("calc: unhandled request %T", req))
	}
}
