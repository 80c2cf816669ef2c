// ABOUTME: Shared test helpers for the stream writer
// ABOUTME: A goroutine consumer and a recording configurer
package stream

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Resonate-Protocol/i2sout-go/pkg/audio"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/hw"
	"github.com/Resonate-Protocol/i2sout-go/pkg/audio/triple"
)

// collector drains buffers on its own goroutine, like a transmitter would
type collector struct {
	buffers *triple.Coordinator
	delay   time.Duration
	stop    atomic.Bool
	done    chan struct{}
	got     []int16
}

func startCollector(buffers *triple.Coordinator, delay time.Duration) *collector {
	c := &collector{
		buffers: buffers,
		delay:   delay,
		done:    make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *collector) run() {
	defer close(c.done)
	for {
		if b := c.buffers.ConsumerTakeReadyBuffer(); b != nil {
			c.got = append(c.got, b.Samples()...)
		} else if c.stop.Load() {
			return
		}
		if c.delay > 0 {
			time.Sleep(c.delay)
		} else {
			runtime.Gosched()
		}
	}
}

// finish stops the collector and returns everything it drained
func (c *collector) finish() []int16 {
	c.stop.Store(true)
	<-c.done
	return c.got
}

// recordingConfigurer keeps every clock request
type recordingConfigurer struct {
	requests []hw.Config
	err      error
}

func (r *recordingConfigurer) Configure(cfg hw.Config) error {
	r.requests = append(r.requests, cfg)
	return r.err
}

func newTestWriter(t *testing.T, capacity int, opts ...Option) (*Writer, *triple.Coordinator) {
	t.Helper()
	buffers, err := triple.New(capacity)
	if err != nil {
		t.Fatalf("triple.New: %v", err)
	}
	return NewWriter(buffers, opts...), buffers
}

// lastPair returns the most recently written pair. Test goroutine only.
func lastPair(t *testing.T, buffers *triple.Coordinator) audio.Sample {
	t.Helper()
	slots := buffers.AcquireWriteBuffer().Samples()
	if len(slots) < 2 {
		t.Fatal("expected a written pair")
	}
	return audio.Sample{slots[len(slots)-2], slots[len(slots)-1]}
}
