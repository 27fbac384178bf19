package nmea

import (
	"reflect"
	"testing"
)

func TestParseGSV_FullMessage(t *testing.T) {
	g := ParseGSV("$GPGSV,3,1,10,01,27,064,23,03,56,049,25,04,27,118,24,06,33,284,26,1*69")
	if g.Constellation != GPS {
		t.Fatalf("constellation=%v want GPS", g.Constellation)
	}
	want := []SatelliteInView{
		{SVID: 1, Elevation: 27, Azimuth: 64, CNo: 23},
		{SVID: 3, Elevation: 56, Azimuth: 49, CNo: 25},
		{SVID: 4, Elevation: 27, Azimuth: 118, CNo: 24},
		{SVID: 6, Elevation: 33, Azimuth: 284, CNo: 26},
	}
	if !reflect.DeepEqual(g.Satellites, want) {
		t.Fatalf("satellites=%+v", g.Satellites)
	}
	if g.SignalID != 1 {
		t.Fatalf("signal=%d want 1", g.SignalID)
	}
}

func TestParseGSV_NotLastMessageAlwaysFourGroups(t *testing.T) {
	// Declared total of 2 would give 2 groups on a last message.
	g := ParseGSV(nmeaLine("GLGSV,3,1,02,65,17,182,,70,04,024,,71,45,054,26,72,53,139,,1"))
	if len(g.Satellites) != 4 {
		t.Fatalf("groups=%d want 4", len(g.Satellites))
	}
}

func TestParseGSV_LastMessageCarriesRemainder(t *testing.T) {
	g := ParseGSV("$GPGSV,3,3,10,21,07,079,,28,,,25,1*52")
	want := []SatelliteInView{
		{SVID: 21, Elevation: 7, Azimuth: 79, CNo: -1},
		{SVID: 28, Elevation: -1, Azimuth: -1, CNo: 25},
	}
	if !reflect.DeepEqual(g.Satellites, want) {
		t.Fatalf("satellites=%+v", g.Satellites)
	}
	if g.SignalID != 1 {
		t.Fatalf("signal=%d want 1", g.SignalID)
	}
}

func TestParseGSV_LastMessageWithMultipleOfFour(t *testing.T) {
	g := ParseGSV(nmeaLine("GAGSV,2,2,08,05,10,100,30,07,20,200,31,09,30,300,32,11,40,040,33,7"))
	if len(g.Satellites) != 0 {
		t.Fatalf("groups=%d want 8 mod 4 = 0", len(g.Satellites))
	}
	if g.Constellation != Galileo || g.SignalID != 7 {
		t.Fatalf("constellation=%v signal=%d", g.Constellation, g.SignalID)
	}
}

func TestGSVGroupCount(t *testing.T) {
	cases := []struct {
		total, num, sats, want int
	}{
		{3, 1, 10, 4},
		{3, 3, 10, 2},
		{2, 2, 8, 0},
		{2, 2, 12, 0},
		{1, 1, 3, 3},
		{1, 1, 0, 0},
	}
	for _, tc := range cases {
		if got := gsvGroupCount(tc.total, tc.num, tc.sats); got != tc.want {
			t.Fatalf("gsvGroupCount(%d,%d,%d)=%d want %d", tc.total, tc.num, tc.sats, got, tc.want)
		}
	}
}

func TestParseGSV_NoSatellites(t *testing.T) {
	g := ParseGSV("$GBGSV,1,1,00,1*76")
	if g.Constellation != BeiDou {
		t.Fatalf("constellation=%v want BeiDou", g.Constellation)
	}
	if len(g.Satellites) != 0 {
		t.Fatalf("satellites=%+v want none", g.Satellites)
	}
	if g.SignalID != 1 {
		t.Fatalf("signal=%d want 1", g.SignalID)
	}
}

func TestParseGSV_TalkerMapping(t *testing.T) {
	cases := map[string]Constellation{
		"$GPGSV": GPS,
		"$GLGSV": GLONASS,
		"$GAGSV": Galileo,
		"$GBGSV": BeiDou,
		"$GQGSV": ConstellationUnknown,
		"$GNGSV": ConstellationUnknown,
	}
	for token, want := range cases {
		if got := ParseGSV(token + ",1,1,00*00").Constellation; got != want {
			t.Fatalf("%s: constellation=%v want %v", token, got, want)
		}
	}
}

func TestParseGSV_ClampsToPresentFields(t *testing.T) {
	// Claims a full message but only two groups were transmitted.
	g := ParseGSV(nmeaLine("GPGSV,2,1,08,01,27,064,23,03,56,049,25"))
	if len(g.Satellites) != 2 {
		t.Fatalf("groups=%d want 2", len(g.Satellites))
	}
	if g.SignalID != -1 {
		t.Fatalf("signal=%d want -1", g.SignalID)
	}
}

func TestParseGSV_NoSignalID(t *testing.T) {
	g := ParseGSV(nmeaLine("GPGSV,1,1,03,12,,,42,24,,,47,32,,,37"))
	if !reflect.DeepEqual(g.SVIDs(), []int{12, 24, 32}) {
		t.Fatalf("svids=%v", g.SVIDs())
	}
	if g.SignalID != -1 {
		t.Fatalf("signal=%d want -1", g.SignalID)
	}
	sv, ok := g.Satellite(24)
	if !ok || sv.CNo != 47 || sv.Elevation != -1 {
		t.Fatalf("Satellite(24)=%+v,%v", sv, ok)
	}
}

func TestParseGSV_MalformedHeader(t *testing.T) {
	g := ParseGSV(nmeaLine("GPGSV,x,y,z,01,27,064,23"))
	if len(g.Satellites) != 0 {
		t.Fatalf("satellites=%+v want none", g.Satellites)
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]Kind{
		"$GNGGA,1,2*00": KindGGA,
		"$GPRMC,1*00":   KindRMC,
		"$GNGSA,A,3*00": KindGSA,
		"$GLGSV,1,1*00": KindGSV,
		"$GNVTG,,T*00":  KindUnknown,
		"$GNTXT,GGA*00": KindUnknown,
		"garbage":       KindUnknown,
	}
	for s, want := range cases {
		if got := KindOf(s); got != want {
			t.Fatalf("KindOf(%q)=%v want %v", s, got, want)
		}
	}
}
