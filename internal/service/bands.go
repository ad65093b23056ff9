package service

// ReceiverBand is the frequency coverage of one ALMA receiver.
type ReceiverBand struct {
	Name   string
	MinGHz float64
	MaxGHz float64
}

// receiverBands lists the ALMA front-end cartridges.
var receiverBands = []ReceiverBand{
	{"ALMA_RB_01", 35, 50},
	{"ALMA_RB_02", 67, 116},
	{"ALMA_RB_03", 84, 116},
	{"ALMA_RB_04", 125, 163},
	{"ALMA_RB_05", 163, 211},
	{"ALMA_RB_06", 211, 275},
	{"ALMA_RB_07", 275, 373},
	{"ALMA_RB_08", 385, 500},
	{"ALMA_RB_09", 602, 720},
	{"ALMA_RB_10", 787, 950},
}

// LookupBands returns the names of the bands covering freqGHz, in band
// order. An uncovered frequency yields an empty list.
func LookupBands(freqGHz float64) []string {
	names := []string{}
	for _, b := range receiverBands {
		if freqGHz >= b.MinGHz && freqGHz <= b.MaxGHz {
			names = append(names, b.Name)
		}
	}
	return names
}

// LookupBand returns the coverage of a named band.
func LookupBand(name string) (ReceiverBand, bool) {
	for _, b := range receiverBands {
		if b.Name == name {
			return b, true
		}
	}
	return ReceiverBand{}, false
}
