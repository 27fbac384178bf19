package nmea

import "strings"

// Kind identifies the sentence types this package decodes.
type Kind int

const (
	KindUnknown Kind = iota
	KindGGA
	KindRMC
	KindGSA
	KindGSV
)

func (k Kind) String() string {
	switch k {
	case KindGGA:
		return "GGA"
	case KindRMC:
		return "RMC"
	case KindGSA:
		return "GSA"
	case KindGSV:
		return "GSV"
	default:
		return "unknown"
	}
}

// KindOf classifies a sentence by the type name found in its address token
// (the text before the first comma), so "$GPGGA", "$GNGGA" and "$GAGGA" all
// route to KindGGA regardless of talker.
func KindOf(sentence string) Kind {
	addr := sentence
	if i := strings.IndexAny(sentence, ",*"); i >= 0 {
		addr = sentence[:i]
	}
	switch {
	case strings.Contains(addr, "GGA"):
		return KindGGA
	case strings.Contains(addr, "RMC"):
		return KindRMC
	case strings.Contains(addr, "GSA"):
		return KindGSA
	case strings.Contains(addr, "GSV"):
		return KindGSV
	default:
		return KindUnknown
	}
}

// Constellation is the GNSS system a satellite list belongs to. The numeric
// values match the NMEA 4.10 system IDs carried in GSA field 18.
type Constellation int

const (
	ConstellationUnknown Constellation = 0
	GPS                  Constellation = 1
	GLONASS              Constellation = 2
	Galileo              Constellation = 3
	BeiDou               Constellation = 4
)

func (c Constellation) String() string {
	switch c {
	case GPS:
		return "GPS"
	case GLONASS:
		return "GLONASS"
	case Galileo:
		return "Galileo"
	case BeiDou:
		return "BeiDou"
	default:
		return ""
	}
}

// TalkerConstellation maps a GSV address token to its constellation.
// GP covers GPS and SBAS.
func TalkerConstellation(token string) Constellation {
	switch strings.TrimSpace(token) {
	case "$GPGSV":
		return GPS
	case "$GLGSV":
		return GLONASS
	case "$GAGSV":
		return Galileo
	case "$GBGSV":
		return BeiDou
	default:
		return ConstellationUnknown
	}
}
