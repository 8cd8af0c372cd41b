package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"breakout-trading-bot/internal/markethours"
)

type Config struct {
	Mode           string   `yaml:"mode"`            // DRY_RUN or LIVE
	DataSource     string   `yaml:"data_source"`     // STATIC or LIVE
	SnapshotSource string   `yaml:"snapshot_source"` // QUOTES or SCRAPE
	Exchange       string   `yaml:"exchange"`
	PollSeconds    int      `yaml:"poll_seconds"`
	HTTPAddr       string   `yaml:"http_addr"`
	JournalPath    string   `yaml:"journal_path"`
	Candidates     []string `yaml:"candidates"` // quote universe for the snapshot
	Screen         struct {
		PriceMin     float64 `yaml:"price_min"`
		PriceMax     float64 `yaml:"price_max"`
		PctChangeMin float64 `yaml:"pct_change_min"`
		RelVolMin    float64 `yaml:"rel_vol_min"`
		VolMin       float64 `yaml:"vol_min"`
		MaxScreen    int     `yaml:"max_screen"`
	} `yaml:"screen"`
	Risk struct {
		PerTradeRiskPct float64 `yaml:"per_trade_risk_pct"`
		DailyMaxLossPct float64 `yaml:"daily_max_loss_pct"`
	} `yaml:"risk"`
	Window struct {
		Start string `yaml:"start"` // "HH:MM" exchange-local
		End   string `yaml:"end"`
	} `yaml:"window"`
	Scan struct {
		BarCount int `yaml:"bar_count"`
		MinBars  int `yaml:"min_bars"`
	} `yaml:"scan"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.DataSource != "STATIC" && c.DataSource != "LIVE" {
		return fmt.Errorf("invalid data_source '%s': must be 'STATIC' or 'LIVE'", c.DataSource)
	}
	if c.SnapshotSource != "QUOTES" && c.SnapshotSource != "SCRAPE" {
		return fmt.Errorf("invalid snapshot_source '%s': must be 'QUOTES' or 'SCRAPE'", c.SnapshotSource)
	}
	if c.Risk.PerTradeRiskPct <= 0 || c.Risk.PerTradeRiskPct >= 1 {
		return fmt.Errorf("risk.per_trade_risk_pct must be a fraction in (0,1), got %v", c.Risk.PerTradeRiskPct)
	}
	if c.Risk.DailyMaxLossPct <= 0 || c.Risk.DailyMaxLossPct >= 1 {
		return fmt.Errorf("risk.daily_max_loss_pct must be a fraction in (0,1), got %v", c.Risk.DailyMaxLossPct)
	}
	if markethours.ParseClock(c.Window.Start) < 0 {
		return fmt.Errorf("window.start %q is not a valid HH:MM clock time", c.Window.Start)
	}
	if markethours.ParseClock(c.Window.End) < 0 {
		return fmt.Errorf("window.end %q is not a valid HH:MM clock time", c.Window.End)
	}
	if markethours.ParseClock(c.Window.Start) > markethours.ParseClock(c.Window.End) {
		return fmt.Errorf("window.start %s is after window.end %s", c.Window.Start, c.Window.End)
	}
	if c.Screen.PriceMin > c.Screen.PriceMax {
		return fmt.Errorf("screen.price_min %v exceeds screen.price_max %v", c.Screen.PriceMin, c.Screen.PriceMax)
	}
	return nil
}

// applyDefaults fills unset fields with the documented run defaults.
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.SnapshotSource == "" {
		c.SnapshotSource = "QUOTES"
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 60
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.JournalPath == "" {
		c.JournalPath = "tradelog.db"
	}
	if c.Screen.PriceMin == 0 {
		c.Screen.PriceMin = 5
	}
	if c.Screen.PriceMax == 0 {
		c.Screen.PriceMax = 200
	}
	if c.Screen.PctChangeMin == 0 {
		c.Screen.PctChangeMin = 2
	}
	if c.Screen.RelVolMin == 0 {
		c.Screen.RelVolMin = 1.5
	}
	if c.Screen.VolMin == 0 {
		c.Screen.VolMin = 500000
	}
	if c.Screen.MaxScreen == 0 {
		c.Screen.MaxScreen = 100
	}
	if c.Risk.PerTradeRiskPct == 0 {
		c.Risk.PerTradeRiskPct = 0.01
	}
	if c.Risk.DailyMaxLossPct == 0 {
		c.Risk.DailyMaxLossPct = 0.03
	}
	if c.Window.Start == "" {
		c.Window.Start = "09:24"
	}
	if c.Window.End == "" {
		c.Window.End = "11:00"
	}
	if c.Scan.BarCount == 0 {
		c.Scan.BarCount = 60
	}
	if c.Scan.MinBars == 0 {
		c.Scan.MinBars = 30
	}
}

// WindowMinutes returns the entry window as minutes past midnight.
func (c *Config) WindowMinutes() (start, end int) {
	return markethours.ParseClock(c.Window.Start), markethours.ParseClock(c.Window.End)
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// DefaultConfig returns a config with every default applied, used when no
// config file is supplied.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	return &c
}
