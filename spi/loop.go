package spi

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-lumenati/model"
)

const DFLT_FPS = 30

// Looper steps an animation against an LED string at a fixed rate and
// renders each frame, until interrupted.
type Looper struct {
	quit     chan bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       *sync.WaitGroup
	c        chan os.Signal
	start    time.Time
	leds     *model.LEDString
	renderer *Renderer
	step     func(*model.LEDString, time.Duration)
}

func (l *Looper) refresh() {
	delta := 1000 * time.Millisecond / time.Duration(DFLT_FPS)
	ticker := time.NewTicker(delta)

	fd := float32(delta)

	for {
		select {
		case <-ticker.C:
			t := time.Now()
			duration := t.Sub(l.start)
			l.step(l.leds, duration)
			if err := l.renderer.Render(); err != nil {
				fmt.Printf("render failed: %v\n", err)
			}

			delta = time.Duration(fd) - time.Since(t)
			if delta.Milliseconds() > 0 {
				ticker.Stop()
				ticker = time.NewTicker(delta)
			}

		case <-l.quit:
			ticker.Stop()
			l.cancel()
			l.wg.Done()
			return

		case sig := <-l.c:
			fmt.Printf("Got %s signal. Aborting...\n", sig)
			ticker.Stop()
			l.cancel()
			l.wg.Done()
			return

		case <-l.ctx.Done():
			ticker.Stop()
			l.cancel()
			l.wg.Done()
			return
		}

	}
}

// InitSPILooper builds a looper over s driving step every frame. The
// second return reports whether a real SPI device backs the renderer.
func InitSPILooper(s *model.LEDString, step func(*model.LEDString, time.Duration)) (Looper, bool, error) {
	r, err := InitLedRenderer(s)
	if err != nil {
		return Looper{}, false, err
	}
	v := Looper{
		leds:     s,
		renderer: r,
		step:     step,
	}

	return v, r.Spi, nil
}

// Start runs the loop on a background goroutine and blocks until it ends.
func (l *Looper) Start() {
	l.quit = make(chan bool)

	l.ctx = context.Background()
	l.ctx, l.cancel = context.WithCancel(l.ctx)

	l.wg = &sync.WaitGroup{}
	l.wg.Add(1)

	l.c = make(chan os.Signal, 1)
	signal.Notify(l.c, os.Interrupt)
	defer func() {
		signal.Stop(l.c)
		l.cancel()
	}()

	l.start = time.Now()
	go l.refresh()

	l.wg.Wait()
}
