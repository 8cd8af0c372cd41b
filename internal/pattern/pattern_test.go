package pattern

import (
	"testing"

	"breakout-trading-bot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(open, high, low, close, vol float64) types.Bar {
	return types.Bar{Open: open, High: high, Low: low, Close: close, Vol: vol}
}

// flatBars returns n identical doji-ish bars that fire neither detector.
func flatBars(n int, px float64) []types.Bar {
	bars := make([]types.Bar, n)
	for i := range bars {
		bars[i] = bar(px, px+0.1, px-0.1, px, 100)
	}
	return bars
}

func TestPullbackGreenThenRed(t *testing.T) {
	bars := flatBars(30, 10)
	bars[27] = bar(10, 10.6, 9.9, 10.5, 100) // green
	bars[28] = bar(10.5, 10.4, 10.1, 10.2, 90) // red
	bars[29] = bar(10.2, 10.5, 10.2, 10.45, 120)

	s, ok := DetectPullback(bars)
	require.True(t, ok)
	assert.Equal(t, types.PatternPullback, s.Pattern)
	assert.Equal(t, 10.4, s.TriggerPrice)
	assert.Equal(t, 10.1, s.StopRef)
}

func TestPullbackRedThenGreenNeverFires(t *testing.T) {
	bars := flatBars(30, 10)
	bars[27] = bar(10.5, 10.6, 10.1, 10.2, 100) // red
	bars[28] = bar(10.2, 10.7, 10.2, 10.6, 90)  // green
	_, ok := DetectPullback(bars)
	assert.False(t, ok)
}

func TestPullbackDojiDoesNotFire(t *testing.T) {
	// close == open is neither green nor red
	bars := flatBars(30, 10)
	bars[27] = bar(10, 10.2, 9.9, 10, 100)
	bars[28] = bar(10, 10.1, 9.8, 9.9, 90)
	_, ok := DetectPullback(bars)
	assert.False(t, ok)
}

// abcdWindow builds a 30-bar window whose last six bars carry the
// high sequence [1,2,5,3,2,4] with lows after the swing high of [3,2,4-ish],
// so point B = 5 and point C = 2.
func abcdWindow(sessionOpen, currentClose float64) []types.Bar {
	bars := make([]types.Bar, 0, 30)
	bars = append(bars, bar(sessionOpen, 0.6, 0.4, 0.5, 100))
	for len(bars) < 24 {
		bars = append(bars, bar(0.5, 0.6, 0.4, 0.5, 100))
	}
	bars = append(bars,
		bar(0.9, 1, 0.8, 0.9, 100),
		bar(1.8, 2, 1.6, 1.9, 100),
		bar(4.5, 5, 4.2, 4.8, 100), // point B
		bar(3.2, 3.4, 3, 3.1, 100),
		bar(2.4, 2.6, 2, 2.2, 100), // point C low
		bar(3.8, 4, 3.5, currentClose, 100),
	)
	return bars
}

func TestABCDFires(t *testing.T) {
	s, ok := DetectABCD(abcdWindow(1.5, 3.9))
	require.True(t, ok)
	assert.Equal(t, types.PatternABCD, s.Pattern)
	assert.Equal(t, 5.0, s.TriggerPrice)
	assert.Equal(t, 2.0, s.StopRef)
}

func TestABCDRequiresHigherLow(t *testing.T) {
	// session open above point C: not a higher low
	_, ok := DetectABCD(abcdWindow(2.5, 3.9))
	assert.False(t, ok)
}

func TestABCDRequiresCurlingUp(t *testing.T) {
	// current close below point C
	_, ok := DetectABCD(abcdWindow(1.5, 1.8))
	assert.False(t, ok)

	// current close at/above point B
	_, ok = DetectABCD(abcdWindow(1.5, 5.0))
	assert.False(t, ok)
}

func TestABCDSkippedWhenHighIsLastBar(t *testing.T) {
	bars := flatBars(30, 1)
	bars[29] = bar(4.5, 5, 4.2, 4.8, 100)
	_, ok := DetectABCD(bars)
	assert.False(t, ok)
}

func TestDetectPrefersPullback(t *testing.T) {
	bars := abcdWindow(1.5, 3.9)
	// overlay a green-then-red pair so both detectors fire
	bars[27] = bar(3, 3.4, 3, 3.3, 100)   // green
	bars[28] = bar(3.3, 3.2, 2.0, 2.2, 90) // red, low keeps point C at 2
	s, ok := Detect(bars)
	require.True(t, ok)
	assert.Equal(t, types.PatternPullback, s.Pattern)
}

func TestConfirmedNeedsCloseOverTriggerAndRisingVolume(t *testing.T) {
	bars := flatBars(30, 10)
	bars[28] = bar(10, 10.4, 9.9, 10.1, 100)
	bars[29] = bar(10.1, 10.6, 10.1, 10.5, 150)

	assert.True(t, Confirmed(bars, 10.5))  // close == trigger counts
	assert.True(t, Confirmed(bars, 10.4))
	assert.False(t, Confirmed(bars, 10.6)) // close below trigger

	bars[29].Vol = 100 // volume not rising
	assert.False(t, Confirmed(bars, 10.4))
}
