package model

import "time"

// Config is the complete liarlens configuration
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Menus   MenuConfig    `yaml:"menus" mapstructure:"menus"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// DataConfig selects where the corpus is loaded from. Exactly one source is used;
// Dir wins over CSV, CSV wins over SQLite.
type DataConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`       // Directory holding train.tsv, test.tsv, valid.tsv
	CSV    string `yaml:"csv" mapstructure:"csv"`       // Preprocessed liar.csv with a header row
	SQLite string `yaml:"sqlite" mapstructure:"sqlite"` // Snapshot written by `liarlens import`
}

// RenderConfig holds render defaults applied when a query does not override them
type RenderConfig struct {
	DatapointsPerDot int    `yaml:"datapoints_per_dot" mapstructure:"datapoints_per_dot"`
	HideOthers       bool   `yaml:"hide_others" mapstructure:"hide_others"`
	Dots             bool   `yaml:"dots" mapstructure:"dots"`
	Format           string `yaml:"format" mapstructure:"format"` // text, html, png
	Width            int    `yaml:"width" mapstructure:"width"`   // Dot grid row width in cells, 0 disables wrapping
	Color            string `yaml:"color" mapstructure:"color"`   // auto, always, never
	ChartWidth       int    `yaml:"chart_width" mapstructure:"chart_width"`
	ChartHeight      int    `yaml:"chart_height" mapstructure:"chart_height"`
}

// MenuConfig sizes each selector menu
type MenuConfig struct {
	Subject    MenuSpec `yaml:"subject" mapstructure:"subject"`
	Speaker    MenuSpec `yaml:"speaker" mapstructure:"speaker"`
	Profession MenuSpec `yaml:"profession" mapstructure:"profession"`
	State      MenuSpec `yaml:"state" mapstructure:"state"`
	Party      MenuSpec `yaml:"party" mapstructure:"party"`
	Context    MenuSpec `yaml:"context" mapstructure:"context"`
}

// MenuSpec is the top-k size and ordering of one menu
type MenuSpec struct {
	K            int  `yaml:"k" mapstructure:"k"`
	Alphabetical bool `yaml:"alphabetical" mapstructure:"alphabetical"`
}

// For returns the menu spec of dimension d
func (m MenuConfig) For(d Dimension) MenuSpec {
	switch d {
	case DimSubject:
		return m.Subject
	case DimSpeaker:
		return m.Speaker
	case DimProfession:
		return m.Profession
	case DimState:
		return m.State
	case DimParty:
		return m.Party
	case DimContext:
		return m.Context
	default:
		return MenuSpec{}
	}
}

// CacheConfig controls memoization of menu listings
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ScanConfig controls how aggregation scans the corpus
type ScanConfig struct {
	Workers   int `yaml:"workers" mapstructure:"workers"`       // 0 or 1 scans sequentially
	ShardSize int `yaml:"shard_size" mapstructure:"shard_size"` // Records per parallel shard
}

// SessionConfig throttles the interactive explorer
type SessionConfig struct {
	RendersPerSecond float64 `yaml:"renders_per_second" mapstructure:"renders_per_second"`
	Burst            int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls diagnostic output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults. Menu sizes match the
// notebook widget the corpus was first explored with.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "data",
		},
		Render: RenderConfig{
			DatapointsPerDot: 1,
			Format:           "text",
			Width:            100,
			Color:            "auto",
			Dots:             true,
			ChartWidth:       1000,
			ChartHeight:      500,
		},
		Menus: MenuConfig{
			Subject:    MenuSpec{K: 10, Alphabetical: true},
			Speaker:    MenuSpec{K: 5, Alphabetical: false},
			Profession: MenuSpec{K: 10, Alphabetical: true},
			State:      MenuSpec{K: 99, Alphabetical: true},
			Party:      MenuSpec{K: 5, Alphabetical: false},
			Context:    MenuSpec{K: 10, Alphabetical: true},
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Scan: ScanConfig{
			Workers:   1,
			ShardSize: 2048,
		},
		Session: SessionConfig{
			RendersPerSecond: 10,
			Burst:            3,
		},
	}
}
