// Package pattern holds the breakout setup detectors. All functions are pure
// and operate on bar sequences ordered oldest to newest, where the final bar
// is still forming.
package pattern

import (
	"breakout-trading-bot/internal/types"
)

// Lookback is the rolling window the detectors need; callers must not run
// them on fewer bars.
const Lookback = 30

// Setup is a detected, not yet confirmed, entry setup.
type Setup struct {
	Pattern      types.Pattern
	TriggerPrice float64
	// StopRef is the stop-loss reference the sizer uses: the red bar's low
	// for a pullback, point C for an ABCD.
	StopRef float64
}

func isGreen(b types.Bar) bool { return b.Close > b.Open }
func isRed(b types.Bar) bool   { return b.Close < b.Open }

// DetectPullback fires on a bull flag: the last completed bar is red and the
// one before it is green. The trigger is the red bar's high.
func DetectPullback(bars []types.Bar) (Setup, bool) {
	if len(bars) < 3 {
		return Setup{}, false
	}
	last := bars[len(bars)-2]
	prev := bars[len(bars)-3]
	if !isGreen(prev) || !isRed(last) {
		return Setup{}, false
	}
	return Setup{
		Pattern:      types.PatternPullback,
		TriggerPrice: last.High,
		StopRef:      last.Low,
	}, true
}

// DetectABCD fires when, over the last Lookback bars, the swing low after
// the window high (point C) sits above the window's opening price and the
// current close is curling back up between C and the high (point B).
// Not evaluated when B is the window's last bar (no room for C).
func DetectABCD(bars []types.Bar) (Setup, bool) {
	if len(bars) < Lookback {
		return Setup{}, false
	}
	window := bars[len(bars)-Lookback:]
	current := window[len(window)-1]

	bIdx := 0
	for i, b := range window {
		if b.High > window[bIdx].High {
			bIdx = i
		}
	}
	if bIdx == len(window)-1 {
		return Setup{}, false
	}
	pointB := window[bIdx].High

	pointC := window[bIdx+1].Low
	for _, b := range window[bIdx+1:] {
		if b.Low < pointC {
			pointC = b.Low
		}
	}

	// The window's first open stands in for the session open.
	sessionOpen := window[0].Open

	higherLow := pointC > sessionOpen
	curlingUp := pointC < current.Close && current.Close < pointB
	if !higherLow || !curlingUp {
		return Setup{}, false
	}
	return Setup{
		Pattern:      types.PatternABCD,
		TriggerPrice: pointB,
		StopRef:      pointC,
	}, true
}

// Detect selects at most one setup for the bar sequence. A pullback wins
// when both detectors fire.
func Detect(bars []types.Bar) (Setup, bool) {
	if s, ok := DetectPullback(bars); ok {
		return s, true
	}
	return DetectABCD(bars)
}

// Confirmed reports whether the forming bar breaks out over the trigger on
// rising volume. Unconfirmed setups are forgotten; nothing carries across
// runs.
func Confirmed(bars []types.Bar, triggerPrice float64) bool {
	if len(bars) < 2 {
		return false
	}
	current := bars[len(bars)-1]
	last := bars[len(bars)-2]
	return current.Close >= triggerPrice && current.Vol > last.Vol
}
