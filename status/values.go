package status

import (
	"math"
	"sync/atomic"
	"unicode/utf8"
)

// LabelLen caps label values so the monitor column stays narrow
const LabelLen = 24

// Gauge is a float64 sample readable from any goroutine
// The zero value reads 0
type Gauge struct {
	bits   atomic.Uint64
	peak   atomic.Uint64
	seeded atomic.Bool
}

// Set stores v and raises the peak when exceeded
func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
	for {
		old := g.peak.Load()
		if v <= math.Float64frombits(old) {
			return
		}
		if g.peak.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}

// Smooth folds v into an exponential moving average with weight alpha and returns the average
// The first sample is taken as is
func (g *Gauge) Smooth(v, alpha float64) float64 {
	if g.seeded.CompareAndSwap(false, true) {
		g.Set(v)
		return v
	}
	for {
		old := g.bits.Load()
		avg := math.Float64frombits(old)*(1-alpha) + v*alpha
		if g.bits.CompareAndSwap(old, math.Float64bits(avg)) {
			if v > math.Float64frombits(g.peak.Load()) {
				g.peak.Store(math.Float64bits(v))
			}
			return avg
		}
	}
}

// Load returns the current value
func (g *Gauge) Load() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Peak returns the largest sample seen
func (g *Gauge) Peak() float64 {
	return math.Float64frombits(g.peak.Load())
}

// Label is a short string value readable from any goroutine
type Label struct {
	ptr atomic.Pointer[string]
}

// Store sets the label, cutting it to at most LabelLen bytes on a rune boundary
func (l *Label) Store(s string) {
	if len(s) > LabelLen {
		cut := LabelLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	l.ptr.Store(&s)
}

// Load returns the label, empty when never set
func (l *Label) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
