package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "mode: DRY_RUN\n"))
	require.NoError(t, err)

	assert.Equal(t, "STATIC", cfg.DataSource)
	assert.Equal(t, "QUOTES", cfg.SnapshotSource)
	assert.Equal(t, 5.0, cfg.Screen.PriceMin)
	assert.Equal(t, 200.0, cfg.Screen.PriceMax)
	assert.Equal(t, 2.0, cfg.Screen.PctChangeMin)
	assert.Equal(t, 1.5, cfg.Screen.RelVolMin)
	assert.Equal(t, 500000.0, cfg.Screen.VolMin)
	assert.Equal(t, 100, cfg.Screen.MaxScreen)
	assert.Equal(t, 0.01, cfg.Risk.PerTradeRiskPct)
	assert.Equal(t, 0.03, cfg.Risk.DailyMaxLossPct)
	assert.Equal(t, "09:24", cfg.Window.Start)
	assert.Equal(t, "11:00", cfg.Window.End)
	assert.Equal(t, 60, cfg.Scan.BarCount)
	assert.Equal(t, 30, cfg.Scan.MinBars)

	start, end := cfg.WindowMinutes()
	assert.Equal(t, 9*60+24, start)
	assert.Equal(t, 11*60, end)
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "mode: PAPER\n"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadWindow(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "mode: DRY_RUN\nwindow:\n  start: \"11:30\"\n  end: \"09:30\"\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "mode: DRY_RUN\nwindow:\n  start: \"late\"\n"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadRiskPct(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "mode: DRY_RUN\nrisk:\n  per_trade_risk_pct: 40\n"))
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
mode: LIVE
data_source: LIVE
snapshot_source: SCRAPE
candidates: [RELIANCE, TCS]
screen:
  price_min: 10
  max_screen: 25
risk:
  per_trade_risk_pct: 0.005
`))
	require.NoError(t, err)
	assert.Equal(t, "LIVE", cfg.Mode)
	assert.Equal(t, []string{"RELIANCE", "TCS"}, cfg.Candidates)
	assert.Equal(t, 10.0, cfg.Screen.PriceMin)
	assert.Equal(t, 25, cfg.Screen.MaxScreen)
	assert.Equal(t, 0.005, cfg.Risk.PerTradeRiskPct)
}
