package nmea

// DOPUnavailable is reported for PDOP/HDOP/VDOP when the receiver did not
// provide a usable value. u-blox receivers use the same figure when no fix is
// available.
const DOPUnavailable = 99.99

// gsaFieldCount is the token count of an NMEA 4.10 GSA sentence after
// splitting on ',' and '*': address, 2 modes, 12 SV slots, PDOP, HDOP, VDOP,
// system id and checksum.
const gsaFieldCount = 20

// GSA lists the satellites used in the solution of one constellation and the
// resulting dilution of precision.
type GSA struct {
	OpMode  string // M=manual, A=automatic
	NavMode string // 1=no fix, 2=2D, 3=3D
	// Satellites holds the IDs of the satellites used, empty slots skipped.
	Satellites []int
	PDOP       float64
	HDOP       float64
	VDOP       float64
	// SystemID is the NMEA 4.10 GNSS system id, -1 when absent.
	SystemID int
}

// ParseGSA decodes a GSA sentence:
//
//	$xxGSA,opMode,navMode{,svid},PDOP,HDOP,VDOP,systemId*cs
//
// A sentence that does not split into exactly 20 tokens (for example the
// NMEA 2.3 form without system id) yields the sentinel GSA: DOPs at
// DOPUnavailable, SystemID -1, no satellites.
func ParseGSA(sentence string) GSA {
	g := GSA{
		PDOP:     DOPUnavailable,
		HDOP:     DOPUnavailable,
		VDOP:     DOPUnavailable,
		SystemID: -1,
	}
	f := splitFields(sentence)
	if len(f) != gsaFieldCount {
		return g
	}
	g.OpMode = field(f, 1)
	g.NavMode = field(f, 2)
	for i := 3; i < 15; i++ {
		if sv, ok := parseInt(field(f, i)); ok {
			g.Satellites = append(g.Satellites, sv)
		}
	}
	g.PDOP = floatOr(field(f, 15), DOPUnavailable)
	g.HDOP = floatOr(field(f, 16), DOPUnavailable)
	g.VDOP = floatOr(field(f, 17), DOPUnavailable)
	g.SystemID = intOr(field(f, 18), -1)
	return g
}

// Uses reports whether svid is part of the solution.
func (g GSA) Uses(svid int) bool {
	for _, sv := range g.Satellites {
		if sv == svid {
			return true
		}
	}
	return false
}
