package logging

import (
	"sync"
	"time"
)

// rotator is the subset of *lumberjack.Logger the daily rotation needs.
type rotator interface {
	Rotate() error
}

// dailyRotation starts a new log file at every local midnight, on top of
// lumberjack's size-based rotation.
type dailyRotation struct {
	target rotator
	now    func() time.Time
	onErr  func(error)

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func startDailyRotation(target rotator, onErr func(error)) *dailyRotation {
	d := &dailyRotation{
		target: target,
		now:    time.Now,
		onErr:  onErr,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dailyRotation) run() {
	defer close(d.done)
	for {
		now := d.now()
		timer := time.NewTimer(nextMidnight(now).Sub(now))
		select {
		case <-timer.C:
			if err := d.target.Rotate(); err != nil && d.onErr != nil {
				d.onErr(err)
			}
		case <-d.stop:
			timer.Stop()
			return
		}
	}
}

// Stop ends the rotation loop and waits for it to exit.
func (d *dailyRotation) Stop() {
	d.once.Do(func() { close(d.stop) })
	<-d.done
}

// nextMidnight returns the first midnight strictly after t, in t's location.
func nextMidnight(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day+1, 0, 0, 0, 0, t.Location())
}
