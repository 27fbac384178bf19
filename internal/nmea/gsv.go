package nmea

// SatelliteInView is one satellite group of a GSV sentence. Each field is -1
// when the receiver left it empty (typically elevation/azimuth before the
// almanac is known, or C/N0 when the satellite is not tracked).
type SatelliteInView struct {
	SVID      int
	Elevation int // degrees
	Azimuth   int // degrees true
	CNo       int // dB-Hz
}

// GSV is one message of a "Satellites in View" sequence.
type GSV struct {
	Constellation    Constellation
	TotalMessages    int
	MessageNumber    int
	SatellitesInView int
	Satellites       []SatelliteInView
	// SignalID is the NMEA 4.10 signal id, -1 when absent.
	SignalID int
}

// ParseGSV decodes a GSV sentence:
//
//	$xxGSV,numMsg,msgNum,numSV{,svid,elv,az,cno},signalId*cs
//
// Messages before the last of a sequence carry four satellite groups; the
// last one carries numSV mod 4, so a last message with a multiple of four
// satellites yields none. The count is clamped to the groups actually
// present. The signal id is the token left over after the whole groups.
func ParseGSV(sentence string) GSV {
	f := splitFields(sentence)
	g := GSV{
		Constellation:    TalkerConstellation(field(f, 0)),
		TotalMessages:    intOr(field(f, 1), 0),
		MessageNumber:    intOr(field(f, 2), 0),
		SatellitesInView: intOr(field(f, 3), 0),
		SignalID:         -1,
	}

	groups := gsvGroupCount(g.TotalMessages, g.MessageNumber, g.SatellitesInView)
	// 4 header tokens and the checksum token; an optional signal id does not
	// add a full group.
	if avail := (len(f) - 5) / 4; groups > avail {
		groups = avail
	}
	if groups < 0 {
		groups = 0
	}

	for i := 0; i < groups; i++ {
		base := 4 + i*4
		g.Satellites = append(g.Satellites, SatelliteInView{
			SVID:      intOr(field(f, base), -1),
			Elevation: intOr(field(f, base+1), -1),
			Azimuth:   intOr(field(f, base+2), -1),
			CNo:       intOr(field(f, base+3), -1),
		})
	}
	if (len(f)-5)%4 == 1 {
		g.SignalID = intOr(field(f, len(f)-2), -1)
	}
	return g
}

func gsvGroupCount(total, num, sats int) int {
	if num < total {
		return 4
	}
	if sats <= 0 {
		return 0
	}
	return sats % 4
}

// Satellite returns the group for svid.
func (g GSV) Satellite(svid int) (SatelliteInView, bool) {
	for _, sv := range g.Satellites {
		if sv.SVID == svid {
			return sv, true
		}
	}
	return SatelliteInView{}, false
}

// SVIDs returns the satellite IDs in message order.
func (g GSV) SVIDs() []int {
	out := make([]int, 0, len(g.Satellites))
	for _, sv := range g.Satellites {
		out = append(out, sv.SVID)
	}
	return out
}
