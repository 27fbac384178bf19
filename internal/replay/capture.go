// Package replay records and replays raw receiver polls.
//
// Capture format, one record per line:
//
//	# comment
//	START
//	<t_ns>,<hex>
//	<t_ns>,BUSY
//
// t_ns is nanoseconds since the preceding START. A hex line is one Data poll
// (the bytes exactly as read from the receiver, so sentence fragmentation is
// preserved); BUSY is a poll that found the receiver busy. Blank lines are
// ignored.
package replay

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Kind is the record type.
type Kind int

const (
	KindStart Kind = iota
	KindData
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "START"
	case KindData:
		return "DATA"
	case KindBusy:
		return "BUSY"
	default:
		return "?"
	}
}

const busyToken = "BUSY"

type Record struct {
	At    time.Duration
	Kind  Kind
	Chunk []byte // KindData only
}

type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Open reads a whole capture file.
func Open(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

func (rr *Reader) ReadAll() ([]Record, error) {
	s := bufio.NewScanner(rr.r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var recs []Record
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "START" {
			recs = append(recs, Record{Kind: KindStart})
			continue
		}

		tsStr, payload, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("line %d: missing comma: %q", lineNo, line)
		}
		tsStr = strings.TrimSpace(tsStr)
		payload = strings.TrimSpace(payload)
		if tsStr == "" || payload == "" {
			return nil, fmt.Errorf("line %d: empty field: %q", lineNo, line)
		}
		tsNs, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: timestamp %q: %w", lineNo, tsStr, err)
		}
		if tsNs < 0 {
			return nil, fmt.Errorf("line %d: negative timestamp %d", lineNo, tsNs)
		}
		at := time.Duration(tsNs)

		if strings.EqualFold(payload, busyToken) {
			recs = append(recs, Record{At: at, Kind: KindBusy})
			continue
		}
		b, err := hex.DecodeString(strings.ReplaceAll(payload, " ", ""))
		if err != nil {
			return nil, fmt.Errorf("line %d: hex payload: %w", lineNo, err)
		}
		if len(b) == 0 {
			return nil, fmt.Errorf("line %d: empty payload", lineNo)
		}
		recs = append(recs, Record{At: at, Kind: KindData, Chunk: b})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Writer appends polls to a capture file. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	f      *os.File
	w      *bufio.Writer
	start  time.Time
	closed bool
}

// CreateWriter truncates path and writes the START marker.
func CreateWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriterSize(f, 64*1024)
	if _, err := bw.WriteString("START\n"); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, w: bw, start: time.Now()}, nil
}

// WriteChunk records a Data poll.
func (ww *Writer) WriteChunk(now time.Time, chunk []byte) error {
	if len(chunk) == 0 {
		return errors.New("replay: empty chunk")
	}
	return ww.writeLine(now, hex.EncodeToString(chunk))
}

// WriteBusy records a Busy poll.
func (ww *Writer) WriteBusy(now time.Time) error {
	return ww.writeLine(now, busyToken)
}

func (ww *Writer) writeLine(now time.Time, payload string) error {
	ww.mu.Lock()
	defer ww.mu.Unlock()
	if ww.closed {
		return errors.New("replay: writer is closed")
	}
	d := now.Sub(ww.start)
	if d < 0 {
		d = 0
	}
	_, err := fmt.Fprintf(ww.w, "%d,%s\n", d.Nanoseconds(), payload)
	return err
}

func (ww *Writer) Flush() error {
	ww.mu.Lock()
	defer ww.mu.Unlock()
	if ww.closed {
		return nil
	}
	return ww.w.Flush()
}

func (ww *Writer) Close() error {
	ww.mu.Lock()
	defer ww.mu.Unlock()
	if ww.closed {
		return nil
	}
	ww.closed = true
	if err := ww.w.Flush(); err != nil {
		_ = ww.f.Close()
		return err
	}
	return ww.f.Close()
}
