// Package stats keeps running latency quantiles for completed estimates.
package stats

import (
	"sync"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
)

const relativeAccuracy = 0.01

type Summary struct {
	Count uint64  `json:"count"`
	Min   float64 `json:"min_sec"`
	Max   float64 `json:"max_sec"`
	P50   float64 `json:"p50_sec"`
	P90   float64 `json:"p90_sec"`
	P99   float64 `json:"p99_sec"`
}

// Latency tracks one DDSketch per series name. It is safe for concurrent use.
type Latency struct {
	mu       sync.Mutex
	sketches map[string]*ddsketch.DDSketch
}

func NewLatency() *Latency {
	return &Latency{
		sketches: make(map[string]*ddsketch.DDSketch),
	}
}

func (l *Latency) Observe(series string, d time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sketch, ok := l.sketches[series]
	if !ok {
		var err error
		sketch, err = ddsketch.NewDefaultDDSketch(relativeAccuracy)
		if err != nil {
			return err
		}
		l.sketches[series] = sketch
	}

	return sketch.Add(d.Seconds())
}

// Snapshot returns a summary for every series observed so far.
func (l *Latency) Snapshot() map[string]Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]Summary, len(l.sketches))
	for name, sketch := range l.sketches {
		if sketch.IsEmpty() {
			continue
		}
		lo, _ := sketch.GetMinValue()
		hi, _ := sketch.GetMaxValue()
		p50, _ := sketch.GetValueAtQuantile(0.50)
		p90, _ := sketch.GetValueAtQuantile(0.90)
		p99, _ := sketch.GetValueAtQuantile(0.99)
		out[name] = Summary{
			Count: uint64(sketch.GetCount()),
			Min:   lo,
			Max:   hi,
			P50:   p50,
			P90:   p90,
			P99:   p99,
		}
	}

	return out
}
