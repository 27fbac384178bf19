package nmea

import (
	"math"
	"strconv"
)

// GGA is the position part of a "Global Positioning System Fix Data"
// sentence.
//
// Latitude, Longitude and Altitude are NaN when the receiver left the field
// empty or it could not be decoded. NumSatellites is 0 in the same case.
type GGA struct {
	// Time is the raw hhmmss.ss UTC time-of-day field.
	Time          string
	Latitude      float64 // decimal degrees, south negative
	Longitude     float64 // decimal degrees, west negative
	Altitude      float64 // meters above mean sea level
	NumSatellites int
}

// ParseGGA decodes a GGA sentence. Fields:
//
//	0: talker+type
//	1: time (hhmmss.ss)
//	2: latitude (ddmm.mmmm)
//	3: N/S
//	4: longitude (dddmm.mmmm)
//	5: E/W
//	6: fix quality
//	7: number of satellites in use
//	8: HDOP
//	9: altitude (meters)
func ParseGGA(sentence string) GGA {
	f := splitFields(sentence)
	return GGA{
		Time:          field(f, 1),
		Latitude:      parseCoordinate(field(f, 2), field(f, 3), 2, "N", "S"),
		Longitude:     parseCoordinate(field(f, 4), field(f, 5), 3, "E", "W"),
		Altitude:      floatOr(field(f, 9), math.NaN()),
		NumSatellites: intOr(field(f, 7), 0),
	}
}

// parseCoordinate decodes a degrees+minutes value whose first degDigits
// characters are whole degrees and the remainder decimal minutes.
func parseCoordinate(v, hemi string, degDigits int, pos, neg string) float64 {
	if len(v) <= degDigits {
		return math.NaN()
	}
	deg, err := strconv.Atoi(v[:degDigits])
	if err != nil || deg < 0 {
		return math.NaN()
	}
	mins, ok := parseFloat(v[degDigits:])
	if !ok || mins < 0 {
		return math.NaN()
	}
	dec := float64(deg) + mins/60.0
	switch hemi {
	case pos:
		return dec
	case neg:
		return -dec
	default:
		return math.NaN()
	}
}
