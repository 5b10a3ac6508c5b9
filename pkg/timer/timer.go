package timer

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// RepeatTimer calls a method every interval until it is stopped. Calls never overlap: a tick
// that arrives while the method is still running is dropped.
type RepeatTimer struct {
	interval     time.Duration
	methodToCall func()
	timerChannel chan struct{}
	done         chan struct{}
	startOnce    sync.Once
	stopOnce     sync.Once
	started      bool
	mutex        sync.Mutex
}

// NewRepeatTimer creates a RepeatTimer that calls methodToCall every interval once started.
func NewRepeatTimer(interval time.Duration, methodToCall func()) *RepeatTimer {
	if interval <= 0 {
		interval = time.Second
	}
	t := RepeatTimer{
		interval:     interval,
		methodToCall: methodToCall,
		timerChannel: make(chan struct{}),
		done:         make(chan struct{}),
	}
	return &t
}

// Start starts the timer in its own goroutine. Calling Start more than once, or after
// Stop, has no effect.
func (t *RepeatTimer) Start() {
	t.startOnce.Do(func() {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		select {
		case <-t.timerChannel:
			// already stopped
			close(t.done)
			return
		default:
		}
		t.started = true
		go t.run()
	})
}

// run calls the method on every tick until the timer is stopped.
func (t *RepeatTimer) run() {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.methodToCall()
		case <-t.timerChannel:
			return
		}
	}
}

// Running reports whether the timer has been started and not yet stopped.
func (t *RepeatTimer) Running() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.started {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Stop disables the timer and waits for an in-progress call to return. It is safe to call
// Stop more than once.
func (t *RepeatTimer) Stop() {
	log.Debug("--> timer.Stop")
	defer log.Debug("<-- timer.Stop")

	t.stopOnce.Do(func() {
		t.mutex.Lock()
		close(t.timerChannel)
		started := t.started
		t.mutex.Unlock()
		if started {
			<-t.done
		}
	})
}
