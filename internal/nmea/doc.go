// Package nmea frames and decodes the NMEA-0183 sentences a GNSS receiver
// streams over its DDC (I2C) or UART port.
//
// It is deliberately narrow:
// - Framer turns arbitrarily fragmented bytes into "\r\n"-terminated sentences
// - Verify checks the XOR checksum before anything is parsed
// - ParseGGA, ParseRMC, ParseGSA and ParseGSV decode the four fix sentences
//
// Parsers never fail. Empty or malformed fields decode to documented sentinel
// values (NaN, 0, -1, DOPUnavailable) so a single bad field never discards the
// rest of the sentence.
package nmea
