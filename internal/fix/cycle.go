package fix

import (
	"math"

	"gnss-monitor/internal/nmea"
)

// Fix is the merged position and time of one cycle.
type Fix struct {
	Latitude  float64 // NaN when absent
	Longitude float64 // NaN when absent
	Altitude  float64 // NaN when absent
	// NumSatellites is the GGA satellites-in-use count, 0 when absent.
	NumSatellites int
	// Epoch is the RMC instant in Unix seconds, nmea.NoEpoch when absent.
	Epoch int64
	// UTC is Epoch formatted with nmea.UTCLayout, "" when absent.
	UTC string
	// Time is the raw GGA time-of-day field.
	Time string
}

// EmptyFix is the fix of a cycle without GGA or RMC.
func EmptyFix() Fix {
	return Fix{
		Latitude:  math.NaN(),
		Longitude: math.NaN(),
		Altitude:  math.NaN(),
		Epoch:     nmea.NoEpoch,
	}
}

// SentenceCheck is the checksum verdict of one framed sentence.
type SentenceCheck struct {
	Text  string
	Kind  nmea.Kind
	Valid bool
}

// Cycle is everything decoded from the sentences drained in one cycle.
type Cycle struct {
	// Sentences lists every input sentence in arrival order.
	Sentences []SentenceCheck
	// ChecksumErrors counts sentences excluded for a bad checksum.
	ChecksumErrors int

	// GGA and RMC hold the last sentence of each type, nil when absent.
	GGA *nmea.GGA
	RMC *nmea.RMC
	GSA []nmea.GSA
	GSV []nmea.GSV
}

// Collect verifies and decodes one cycle of sentences. Sentences failing
// the checksum are counted and never parsed. Later GGA and RMC sentences
// replace earlier ones; GSA and GSV sentences accumulate in order.
func Collect(sentences []string) Cycle {
	c := Cycle{Sentences: make([]SentenceCheck, 0, len(sentences))}
	for _, s := range sentences {
		kind := nmea.KindOf(s)
		ok := nmea.Verify(s)
		c.Sentences = append(c.Sentences, SentenceCheck{Text: s, Kind: kind, Valid: ok})
		if !ok {
			c.ChecksumErrors++
			continue
		}
		switch kind {
		case nmea.KindGGA:
			g := nmea.ParseGGA(s)
			c.GGA = &g
		case nmea.KindRMC:
			r := nmea.ParseRMC(s)
			c.RMC = &r
		case nmea.KindGSA:
			c.GSA = append(c.GSA, nmea.ParseGSA(s))
		case nmea.KindGSV:
			c.GSV = append(c.GSV, nmea.ParseGSV(s))
		}
	}
	return c
}

// Fix merges the cycle's GGA position with its RMC time.
func (c Cycle) Fix() Fix {
	f := EmptyFix()
	if c.GGA != nil {
		f.Latitude = c.GGA.Latitude
		f.Longitude = c.GGA.Longitude
		f.Altitude = c.GGA.Altitude
		f.NumSatellites = c.GGA.NumSatellites
		f.Time = c.GGA.Time
	}
	if c.RMC != nil {
		f.Epoch = c.RMC.Epoch
		f.UTC = c.RMC.UTC()
	}
	return f
}
