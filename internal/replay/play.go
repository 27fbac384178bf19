package replay

import (
	"errors"
	"fmt"
	"time"
)

type Sleeper interface {
	Sleep(d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// Play hands records to cb with their relative timing. START markers reset
// the origin and are not passed to cb.
//
// speed: 1.0 = real time, 2.0 = twice as fast, 0.5 = half speed.
func Play(records []Record, speed float64, loop bool, sleeper Sleeper, cb func(Record) error) error {
	if speed <= 0 {
		return fmt.Errorf("replay: speed must be > 0")
	}
	if sleeper == nil {
		sleeper = realSleeper{}
	}
	if cb == nil {
		return errors.New("replay: callback is nil")
	}
	if len(records) == 0 {
		return errors.New("replay: no records")
	}

	for {
		var lastAt time.Duration
		var haveLast bool

		for _, r := range records {
			if r.Kind == KindStart {
				lastAt = 0
				haveLast = false
				continue
			}
			if haveLast {
				wait := r.At - lastAt
				if wait > 0 {
					if d := time.Duration(float64(wait) / speed); d > 0 {
						sleeper.Sleep(d)
					}
				}
			}
			if err := cb(r); err != nil {
				return err
			}
			lastAt = r.At
			haveLast = true
		}

		if !loop {
			return nil
		}
	}
}
