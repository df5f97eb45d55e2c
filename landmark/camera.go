package landmark

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCameraClosed is returned when opening a camera that was already closed.
var ErrCameraClosed = errors.New("camera closed")

// TickerCamera is a frame clock: it emits empty frames at a fixed rate and is
// paired with a Detector that does not need pixels (such as a Recording).
type TickerCamera struct {
	interval time.Duration
	width    int
	height   int

	mu      sync.Mutex
	frames  chan Frame
	stop    chan struct{}
	done    chan struct{}
	opened  bool
	closed  bool
	dropped uint64
}

// NewTickerCamera creates a camera emitting fps frames per second.
func NewTickerCamera(fps float64, width, height int) *TickerCamera {
	if fps <= 0 {
		fps = 30
	}
	return &TickerCamera{
		interval: time.Duration(float64(time.Second) / fps),
		width:    width,
		height:   height,
		frames:   make(chan Frame, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Open starts the capture goroutine.
func (c *TickerCamera) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCameraClosed
	}
	if c.opened {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.opened = true
	go c.run(ctx)
	return nil
}

func (c *TickerCamera) run(ctx context.Context) {
	defer close(c.done)
	defer close(c.frames)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case now := <-ticker.C:
			f := Frame{Seq: seq, At: now, Width: c.width, Height: c.height}
			seq++
			// A real sensor overwrites its buffer when nobody reads it.
			select {
			case c.frames <- f:
			default:
				c.mu.Lock()
				c.dropped++
				c.mu.Unlock()
			}
		}
	}
}

// Frames returns the capture channel.
func (c *TickerCamera) Frames() <-chan Frame {
	return c.frames
}

// Dropped returns the number of frames overwritten before being read.
func (c *TickerCamera) Dropped() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Close stops the capture goroutine and waits for it to exit.
func (c *TickerCamera) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	opened := c.opened
	close(c.stop)
	c.mu.Unlock()

	if opened {
		<-c.done
	} else {
		close(c.frames)
	}
	return nil
}
