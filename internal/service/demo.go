package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	"gonum.org/v1/gonum/unit/constant"

	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/flux"
)

const (
	almaLatitudeDeg = -23.029
	atmosphereTempK = 270.0
	apertureEff     = 0.7
	forwardEff      = 0.95
	janskyInSI      = 1e-26
)

// Zenith opacity per mm of water vapour, and the dry floor, by band.
var bandOpacity = map[string]struct{ wet, dry, trx float64 }{
	"ALMA_RB_01": {0.002, 0.010, 25},
	"ALMA_RB_02": {0.010, 0.020, 30},
	"ALMA_RB_03": {0.012, 0.020, 40},
	"ALMA_RB_04": {0.020, 0.025, 51},
	"ALMA_RB_05": {0.150, 0.030, 65},
	"ALMA_RB_06": {0.060, 0.030, 55},
	"ALMA_RB_07": {0.110, 0.040, 75},
	"ALMA_RB_08": {0.350, 0.060, 150},
	"ALMA_RB_09": {0.900, 0.100, 110},
	"ALMA_RB_10": {1.200, 0.150, 230},
}

// octileWaterMM is the water column behind each octile label.
var octileWaterMM = [calc.NumOctiles]float64{0.472, 0.658, 0.913, 1.262, 1.796, 2.748, 5.186}

// dishDiameterM is the antenna size used by each array.
var dishDiameterM = [calc.NumArrays]float64{12, 7, flux.TotalPowerDishM}

// DemoClient answers every call in-process with a simple atmosphere and
// radiometer model. Replies arrive after a random delay so that they can
// overtake each other.
type DemoClient struct {
	minLatency time.Duration
	maxLatency time.Duration
}

type DemoOption func(*DemoClient)

// WithLatency bounds the random reply delay.
func WithLatency(lo, hi time.Duration) DemoOption {
	return func(d *DemoClient) {
		d.minLatency, d.maxLatency = lo, hi
	}
}

// NewDemoClient creates the in-process service used by --demo.
func NewDemoClient(opts ...DemoOption) *DemoClient {
	d := &DemoClient{
		minLatency: 150 * time.Millisecond,
		maxLatency: 900 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DemoClient) wait(ctx context.Context) error {
	delay := d.minLatency
	if span := d.maxLatency - d.minLatency; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	if delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func badRequest(format string, args ...interface{}) error {
	return &RemoteError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// resolveBand checks that band covers freqGHz, resolving "Unknown" to the
// first covering band.
func resolveBand(band string, freqGHz float64) (string, error) {
	covering := LookupBands(freqGHz)
	if len(covering) == 0 {
		return "", badRequest("Invalid frequency: %s GHz is outside every receiver band", formatFloat(freqGHz))
	}
	if band == "" || band == calc.UnknownBand {
		return covering[0], nil
	}
	for _, name := range covering {
		if name == band {
			return band, nil
		}
	}
	return "", badRequest("Unknown frequency: %s GHz for receiver band %s", formatFloat(freqGHz), band)
}

// airmass at transit for a source at decDeg.
func airmass(decDeg float64) float64 {
	elevation := 90 - math.Abs(decDeg-almaLatitudeDeg)
	if elevation < 5 {
		elevation = 5
	}
	return 1 / math.Sin(elevation*math.Pi/180)
}

// bestOctile picks the wettest octile that keeps the zenith opacity of the
// band below 0.25, falling back to the driest.
func bestOctile(band string) int {
	op := bandOpacity[band]
	for o := calc.NumOctiles - 1; o > 0; o-- {
		if op.dry+op.wet*octileWaterMM[o] < 0.25 {
			return o
		}
	}
	return 0
}

type conditions struct {
	tau  float64
	tsky float64
	tsys float64
}

func atmosphereAt(band string, octile int, decDeg float64) conditions {
	op := bandOpacity[band]
	tau := (op.dry + op.wet*octileWaterMM[octile]) * airmass(decDeg)
	tsky := atmosphereTempK * (1 - math.Exp(-tau))
	tsys := (op.trx + forwardEff*tsky + (1-forwardEff)*atmosphereTempK) * math.Exp(tau)
	return conditions{tau: tau, tsky: tsky, tsys: tsys}
}

func (d *DemoClient) Atmosphere(ctx context.Context, q calc.OctileLookup) (AtmosphereReply, error) {
	if err := d.wait(ctx); err != nil {
		return AtmosphereReply{}, err
	}
	band, err := resolveBand(q.Band, q.FreqGHz)
	if err != nil {
		return AtmosphereReply{}, err
	}
	octile := q.Octile
	if q.BestFit {
		octile = bestOctile(band)
	}
	if octile < 0 || octile >= calc.NumOctiles {
		return AtmosphereReply{}, badRequest("Unknown octile %d", octile)
	}
	c := atmosphereAt(band, octile, q.DecDegrees)
	return AtmosphereReply{
		Octile:     octile,
		TauAndTsky: fmt.Sprintf("tau=%.3f Tsky=%.1f K", c.tau, c.tsky),
		Tsys:       math.Round(c.tsys*10) / 10,
	}, nil
}

func (d *DemoClient) ReceiverBands(ctx context.Context, freqGHz float64) ([]string, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return LookupBands(freqGHz), nil
}

// noiseScale is the sensitivity in Jy reached after one second.
func noiseScale(obs calc.Observation) (float64, error) {
	band, err := resolveBand(obs.Band, obs.FreqGHz)
	if err != nil {
		return 0, err
	}
	if obs.Octile < 0 || obs.Octile >= calc.NumOctiles {
		return 0, badRequest("Unknown octile %d", obs.Octile)
	}
	if !(obs.BandwidthGHz > 0) {
		return 0, badRequest("Bandwidth must be positive")
	}

	correlations := float64(obs.Antennas)
	if obs.Array != calc.TotalPower {
		if obs.Antennas < 2 {
			return 0, badRequest("An interferometer needs at least 2 antennas")
		}
		correlations = float64(obs.Antennas * (obs.Antennas - 1))
	} else if obs.Antennas < 1 {
		return 0, badRequest("Number of antennas must be positive")
	}
	pols := 2.0
	if obs.Polarisation == calc.Single {
		pols = 1
	}

	c := atmosphereAt(band, obs.Octile, obs.DecDegrees)
	radius := dishDiameterM[obs.Array] / 2
	area := math.Pi * radius * radius
	sefd := 2 * float64(constant.Boltzmann) * c.tsys / (apertureEff * area) / janskyInSI
	return sefd / math.Sqrt(correlations*pols*obs.BandwidthGHz*1e9), nil
}

func (d *DemoClient) Sensitivity(ctx context.Context, obs calc.Observation, timeSec float64) (float64, error) {
	if err := d.wait(ctx); err != nil {
		return 0, err
	}
	if !(timeSec > 0) {
		return 0, badRequest("Integration time must be positive")
	}
	scale, err := noiseScale(obs)
	if err != nil {
		return 0, err
	}
	return scale / math.Sqrt(timeSec), nil
}

func (d *DemoClient) IntegrationTime(ctx context.Context, obs calc.Observation, sensJy float64) (float64, error) {
	if err := d.wait(ctx); err != nil {
		return 0, err
	}
	if !(sensJy > 0) {
		return 0, badRequest("Sensitivity must be positive")
	}
	scale, err := noiseScale(obs)
	if err != nil {
		return 0, err
	}
	return (scale / sensJy) * (scale / sensJy), nil
}
