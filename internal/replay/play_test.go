package replay

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestPlay_RespectsTimingAndStart(t *testing.T) {
	var kinds []Kind
	fs := &fakeSleeper{}

	recs := []Record{
		{Kind: KindStart},
		{At: 0, Kind: KindData, Chunk: []byte{0xAA}},
		{At: 100, Kind: KindBusy},
		{Kind: KindStart},
		{At: 50, Kind: KindData, Chunk: []byte{0xCC}},
		{At: 80, Kind: KindData, Chunk: []byte{0xDD}},
	}

	err := Play(recs, 1.0, false, fs, func(r Record) error {
		kinds = append(kinds, r.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if !reflect.DeepEqual(kinds, []Kind{KindData, KindBusy, KindData, KindData}) {
		t.Fatalf("kinds=%v", kinds)
	}
	if !reflect.DeepEqual(fs.slept, []time.Duration{100, 30}) {
		t.Fatalf("slept=%v want [100ns 30ns]", fs.slept)
	}
}

func TestPlay_SpeedMultiplier(t *testing.T) {
	fs := &fakeSleeper{}
	recs := []Record{
		{At: 0, Kind: KindData, Chunk: []byte{0x01}},
		{At: 100, Kind: KindData, Chunk: []byte{0x02}},
	}
	if err := Play(recs, 2.0, false, fs, func(Record) error { return nil }); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if !reflect.DeepEqual(fs.slept, []time.Duration{50}) {
		t.Fatalf("slept=%v want [50ns]", fs.slept)
	}
}

func TestPlay_LoopStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	n := 0
	recs := []Record{{Kind: KindData, Chunk: []byte{0x01}}}
	err := Play(recs, 1.0, true, &fakeSleeper{}, func(Record) error {
		n++
		if n == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || n != 3 {
		t.Fatalf("err=%v n=%d", err, n)
	}
}

func TestPlay_InvalidArgs(t *testing.T) {
	recs := []Record{{Kind: KindData, Chunk: []byte{0x01}}}
	if err := Play(recs, 0, false, nil, func(Record) error { return nil }); err == nil {
		t.Fatalf("expected error for zero speed")
	}
	if err := Play(nil, 1, false, nil, func(Record) error { return nil }); err == nil {
		t.Fatalf("expected error for no records")
	}
	if err := Play(recs, 1, false, nil, nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}
}
