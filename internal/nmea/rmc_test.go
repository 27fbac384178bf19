package nmea

import (
	"testing"
	"time"

	gonmea "github.com/adrianmo/go-nmea"
)

func TestParseRMC_Epoch(t *testing.T) {
	r := ParseRMC("$GNRMC,085505.00,A,3540.23799,N,13922.23373,E,0.407,,110422,,,A,V*17")
	want := time.Date(2022, 4, 11, 8, 55, 5, 0, time.UTC).Unix()
	if r.Epoch != want {
		t.Fatalf("epoch=%d want %d", r.Epoch, want)
	}
	if r.UTC() != "2022-04-11 08:55:05" {
		t.Fatalf("UTC()=%q", r.UTC())
	}
	if r.Status != "A" || r.Date != "110422" || r.Time != "085505.00" {
		t.Fatalf("raw fields: %+v", r)
	}
}

func TestParseRMC_AgreesWithGoNMEA(t *testing.T) {
	line := "$GNRMC,085505.00,A,3540.23799,N,13922.23373,E,0.407,,110422,,,A,V*17"
	s, err := gonmea.Parse(line)
	if err != nil {
		t.Fatalf("go-nmea parse: %v", err)
	}
	ref, ok := s.(gonmea.RMC)
	if !ok {
		t.Fatalf("go-nmea type=%T", s)
	}
	want := time.Date(2000+ref.Date.YY, time.Month(ref.Date.MM), ref.Date.DD,
		ref.Time.Hour, ref.Time.Minute, ref.Time.Second, 0, time.UTC).Unix()
	if got := ParseRMC(line).Epoch; got != want {
		t.Fatalf("epoch=%d want %d", got, want)
	}
}

func TestEpochSeconds_MatchesTimePackage(t *testing.T) {
	days := []time.Time{
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 2, 29, 12, 0, 0, 0, time.UTC),
		time.Date(2000, 3, 1, 0, 0, 1, 0, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range days {
		date := d.Format("020106")
		tod := d.Format("150405") + ".00"
		if got := epochSeconds(date, tod); got != d.Unix() {
			t.Fatalf("epochSeconds(%s,%s)=%d want %d", date, tod, got, d.Unix())
		}
	}
}

func TestParseRMC_InvalidDateOrTime(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{name: "EmptyDate", payload: "GNRMC,085505.00,V,,,,,,,,,,N,V"},
		{name: "ShortTime", payload: "GNRMC,0855,A,,,,,,,110422,,,A,V"},
		{name: "ShortDate", payload: "GNRMC,085505.00,A,,,,,,,1104,,,A,V"},
		{name: "BadMonth", payload: "GNRMC,085505.00,A,,,,,,,111322,,,A,V"},
		{name: "Feb30", payload: "GNRMC,085505.00,A,,,,,,,300222,,,A,V"},
		{name: "BadHour", payload: "GNRMC,245505.00,A,,,,,,,110422,,,A,V"},
		{name: "NonDigit", payload: "GNRMC,08a505.00,A,,,,,,,110422,,,A,V"},
		{name: "Truncated", payload: "GNRMC,085505.00,A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := ParseRMC(nmeaLine(tc.payload))
			if r.Epoch != NoEpoch {
				t.Fatalf("epoch=%d want %d", r.Epoch, NoEpoch)
			}
			if r.UTC() != "" {
				t.Fatalf("UTC()=%q want empty", r.UTC())
			}
		})
	}
}
