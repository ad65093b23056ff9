package service

import (
	"context"
	"fmt"

	"sensitivity-calc.klederson.com/internal/calc"
)

// Client is the remote calculation service.
type Client interface {
	// Atmosphere returns the conditions for a lookup. With BestFit set the
	// service picks the octile.
	Atmosphere(ctx context.Context, q calc.OctileLookup) (AtmosphereReply, error)
	// ReceiverBands lists the receiver bands covering a frequency.
	ReceiverBands(ctx context.Context, freqGHz float64) ([]string, error)
	// Sensitivity returns the sensitivity in Jy reached after timeSec.
	Sensitivity(ctx context.Context, obs calc.Observation, timeSec float64) (float64, error)
	// IntegrationTime returns the seconds needed to reach sensJy.
	IntegrationTime(ctx context.Context, obs calc.Observation, sensJy float64) (float64, error)
}

// AtmosphereReply is the body of an atmDetailsForBand reply.
type AtmosphereReply struct {
	Octile     int     `json:"id"`
	TauAndTsky string  `json:"tauAndTsky"`
	Tsys       float64 `json:"tsys"`
	Message    string  `json:"message,omitempty"`
}

// RemoteError is a non-success reply. Message is shown to the user as is.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service replied with status %d", e.Status)
	}
	return e.Message
}

type calcBody struct {
	BeamsizeInArcsecs       float64  `json:"beamsizeInArcsecs"`
	IntegrationTimeInSec    *float64 `json:"integrationTimeInSec,omitempty"`
	SensitivityInJ          *float64 `json:"sensitivityInJ,omitempty"`
	ObservingFrequencyInGHZ float64  `json:"observingFrequencyInGHZ"`
	Bandwidth               float64  `json:"bandwidth"`
	Dec                     float64  `json:"dec"`
	NumberOfAntennas        int      `json:"numberOfAntennas"`
	AntennaArray            string   `json:"antennaArray"`
	Polarization            string   `json:"polarization"`
	WvIndex                 int      `json:"wvIndex"`
	ReceiverBand            string   `json:"receiverBand"`
}

func newCalcBody(obs calc.Observation) calcBody {
	return calcBody{
		BeamsizeInArcsecs:       obs.BeamArcsec,
		ObservingFrequencyInGHZ: obs.FreqGHz,
		Bandwidth:               obs.BandwidthGHz,
		Dec:                     obs.DecDegrees,
		NumberOfAntennas:        obs.Antennas,
		AntennaArray:            obs.Array.Tag(),
		Polarization:            obs.Polarisation.String(),
		WvIndex:                 obs.Octile,
		ReceiverBand:            obs.Band,
	}
}

type sensitivityReply struct {
	SensitivityInJ float64 `json:"sensitivityInJ"`
}

type timeReply struct {
	IntegrationTimeInSec float64 `json:"integrationTimeInSec"`
}

type bandsReply struct {
	Items []string `json:"items"`
}

type errorReply struct {
	Message string `json:"message"`
}
