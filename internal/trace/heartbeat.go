package trace

import (
	"fmt"
	"runtime"
	"time"
)

// Heartbeat emits periodic events during long directory runs. A heartbeat
// with no file span ending since the previous one points at a stuck worker.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
}

// StartHeartbeat emits a heartbeat every interval until Stop. It returns nil
// when tracing is off.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(tracer, interval, time.Now())
	return h
}

func (h *Heartbeat) loop(tracer Tracer, interval time.Duration, started time.Time) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case now := <-ticker.C:
			tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d elapsed=%s goroutines=%d", beat, now.Sub(started).Round(time.Millisecond), runtime.NumGoroutine()),
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the heartbeat and waits for the last event. Safe on nil and
// idempotent.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	<-h.done
}
