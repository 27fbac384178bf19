package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gnss-monitor/internal/fix"
)

// LoadBounds reads a receiver bounds file on top of base. The format is one
// "Key = value" per line with '#' starting a comment:
//
//	MinimumLatitude  = 35.0
//	MaximumAltitude  = 3000
//
// Unknown keys are ignored. A missing file yields base unchanged.
func LoadBounds(path string, base fix.Bounds) (fix.Bounds, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return base, err
	}
	defer f.Close()

	b, err := parseBounds(f, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func parseBounds(r io.Reader, b fix.Bounds) (fix.Bounds, error) {
	fields := map[string]*float64{
		"MinimumLatitude":  &b.MinLatitude,
		"MaximumLatitude":  &b.MaxLatitude,
		"MinimumLongitude": &b.MinLongitude,
		"MaximumLongitude": &b.MaxLongitude,
		"MinimumAltitude":  &b.MinAltitude,
		"MaximumAltitude":  &b.MaxAltitude,
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		dst, known := fields[strings.TrimSpace(key)]
		if !known {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return b, fmt.Errorf("line %d: %s: %w", lineNo, strings.TrimSpace(key), err)
		}
		*dst = v
	}
	if err := sc.Err(); err != nil {
		return b, err
	}
	if err := b.Validate(); err != nil {
		return b, err
	}
	return b, nil
}
