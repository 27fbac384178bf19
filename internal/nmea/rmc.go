package nmea

import "time"

// NoEpoch marks an RMC sentence whose date or time could not be decoded.
const NoEpoch int64 = -1

// UTCLayout is the layout used for human-readable fix times.
const UTCLayout = "2006-01-02 15:04:05"

// RMC carries the UTC instant of a "Recommended Minimum" sentence.
type RMC struct {
	Time   string // raw hhmmss.ss
	Date   string // raw ddmmyy
	Status string // A=active, V=void
	// Epoch is seconds since 1970-01-01T00:00:00Z, or NoEpoch.
	Epoch int64
}

// ParseRMC decodes an RMC sentence. Fields:
//
//	0: talker+type
//	1: time (hhmmss.ss)
//	2: status
//	3-6: position
//	7: speed over ground (knots)
//	8: course over ground
//	9: date (ddmmyy)
func ParseRMC(sentence string) RMC {
	f := splitFields(sentence)
	r := RMC{
		Time:   field(f, 1),
		Status: field(f, 2),
		Date:   field(f, 9),
	}
	r.Epoch = epochSeconds(r.Date, r.Time)
	return r
}

// UTC formats Epoch as "YYYY-MM-DD HH:MM:SS", or "" when Epoch is not
// positive.
func (r RMC) UTC() string {
	return FormatEpoch(r.Epoch)
}

// FormatEpoch formats epoch seconds with UTCLayout; non-positive values
// format as "".
func FormatEpoch(epoch int64) string {
	if epoch <= 0 {
		return ""
	}
	return time.Unix(epoch, 0).UTC().Format(UTCLayout)
}

// cumulativeDays[m] is the number of days before month m+1 in a common year.
var cumulativeDays = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeap(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// leapsThrough counts leap years in [1, y] under the Gregorian rule.
func leapsThrough(y int) int {
	return y/4 - y/100 + y/400
}

// daysSinceEpoch counts days from 1970-01-01 to y-m-d (proleptic Gregorian).
func daysSinceEpoch(y, m, d int) int64 {
	days := 365*(y-1970) + leapsThrough(y-1) - leapsThrough(1969)
	days += cumulativeDays[m-1] + d - 1
	if m > 2 && isLeap(y) {
		days++
	}
	return int64(days)
}

// epochSeconds combines an RMC ddmmyy date (year 2000+yy) and hhmmss[.ss]
// time. Fractional seconds are dropped.
func epochSeconds(date, tod string) int64 {
	if len(date) < 6 || len(tod) < 6 {
		return NoEpoch
	}
	day, ok1 := parseDigits(date[0:2])
	mon, ok2 := parseDigits(date[2:4])
	yy, ok3 := parseDigits(date[4:6])
	hh, ok4 := parseDigits(tod[0:2])
	mm, ok5 := parseDigits(tod[2:4])
	ss, ok6 := parseDigits(tod[4:6])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return NoEpoch
	}
	year := 2000 + yy
	if mon < 1 || mon > 12 {
		return NoEpoch
	}
	maxDay := monthDays[mon-1]
	if mon == 2 && isLeap(year) {
		maxDay = 29
	}
	if day < 1 || day > maxDay || hh > 23 || mm > 59 || ss > 60 {
		return NoEpoch
	}
	return daysSinceEpoch(year, mon, day)*86400 + int64(hh*3600+mm*60+ss)
}

// parseDigits decodes a short run of ASCII digits (no sign, no spaces).
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}
