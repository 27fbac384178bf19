package nmea

import (
	"encoding/hex"
	"strings"
)

// Checksum returns the XOR of every byte in payload (the text between '$'
// and '*').
func Checksum(payload string) byte {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return ck
}

// Verify reports whether the sentence carries a valid checksum.
//
// The XOR covers the bytes strictly between the first '$' and the first '*'
// and is compared against the two hex digits after '*' (either case). A
// sentence without '$', '*' or two hex digits is reported invalid.
func Verify(sentence string) bool {
	start := strings.IndexByte(sentence, '$')
	star := strings.IndexByte(sentence, '*')
	if start < 0 || star < 0 || star < start {
		return false
	}
	if len(sentence) < star+3 {
		return false
	}
	want, err := hex.DecodeString(sentence[star+1 : star+3])
	if err != nil || len(want) != 1 {
		return false
	}
	return Checksum(sentence[start+1:star]) == want[0]
}
