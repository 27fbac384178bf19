package nmea

import (
	"fmt"
	"math"
	"testing"
)

func nmeaLine(payload string) string {
	return fmt.Sprintf("$%s*%02X", payload, Checksum(payload))
}

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Fatalf("%s=%v want %v (±%v)", name, got, want, tol)
	}
}

// receiverBurst is one second of output from a u-blox M9 on DDC.
var receiverBurst = []string{
	"$GNRMC,085505.00,A,3540.23799,N,13922.23373,E,0.407,,110422,,,A,V*17",
	"$GNVTG,,T,,M,0.407,N,0.754,K,A*38",
	"$GNGGA,085505.00,3540.23799,N,13922.23373,E,1,10,0.99,148.0,M,38.9,M,,*48",
	"$GNGSA,A,3,19,04,03,17,14,01,06,,,,,,1.79,0.99,1.49,1*09",
	"$GNGSA,A,3,71,88,,,,,,,,,,,1.79,0.99,1.49,2*07",
	"$GNGSA,A,3,33,,,,,,,,,,,,1.79,0.99,1.49,3*00",
	"$GNGSA,A,3,,,,,,,,,,,,,1.79,0.99,1.49,4*07",
	"$GPGSV,3,1,10,01,27,064,23,03,56,049,25,04,27,118,24,06,33,284,26,1*69",
	"$GPGSV,3,2,10,09,18,154,,14,40,213,24,17,69,334,22,19,48,320,27,1*6E",
	"$GPGSV,3,3,10,21,07,079,,28,,,25,1*52",
	"$GLGSV,3,1,11,65,17,182,,70,04,024,,71,45,054,26,72,53,139,,1*7B",
	"$GLGSV,3,2,11,76,06,213,17,77,22,258,,78,15,315,,85,03,098,,1*74",
	"$GLGSV,3,3,11,86,39,068,,87,44,336,22,88,11,302,20,1*48",
	"$GAGSV,1,1,01,33,63,351,25,7*47",
	"$GBGSV,1,1,00,1*76",
	"$GNGLL,3540.23799,N,13922.23373,E,085505.00,A,A*73",
}
