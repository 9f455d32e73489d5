package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits periodic events so a stuck fixed-point loop is visible in
// the stream: heartbeats keep coming while pass spans stop closing.
type Heartbeat struct {
	tracer   Tracer
	session  string
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// StartHeartbeat starts the heartbeat goroutine. It returns nil when
// tracing is off or interval is not positive; Stop is safe on nil.
func StartHeartbeat(tracer Tracer, session string, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		session:  session,
		interval: interval,
		stop:     make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var beat uint64
	for {
		select {
		case <-ticker.C:
			beat++
			h.tracer.Emit(&Event{
				Time:    time.Now(),
				Kind:    KindHeartbeat,
				Scope:   ScopeDriver,
				Session: h.session,
				Name:    "heartbeat",
				Detail:  "#" + strconv.FormatUint(beat, 10),
			})
		case <-h.stop:
			return
		}
	}
}

// Stop halts the goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.wg.Wait()
}
