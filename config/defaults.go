package config

import "time"

// Defaults holds the process-wide option defaults a queue falls back to when
// a caller does not pass an explicit Option: lane order, priority order,
// whether the await channel is enabled, whether fast mode is in effect, and
// how a worker reaches the manager. These are meant to be resolved once, at
// process start, per the "process-wide defaults... may be set once at module
// load" latitude described for the underlying queue semantics.
type Defaults struct {
	LaneType      string // "fifo" or "lifo"
	PriorityOrder string // "highest" or "lowest"
	Await         bool
	Fast          bool
	BindAddr      string // manager control socket path, e.g. unix:///tmp/hqueue.sock
	DialTimeout   time.Duration
}

// DefaultDefaults returns the built-in fallback used when no file or
// environment override is present.
func DefaultDefaults() Defaults {
	return Defaults{
		LaneType:      "fifo",
		PriorityOrder: "highest",
		Await:         false,
		Fast:          false,
		BindAddr:      "unix:///tmp/hqueue.sock",
		DialTimeout:   5 * time.Second,
	}
}

// LoadDefaults reads process-wide defaults from a JSON/YAML/TOML/.env file.
// Missing keys keep their DefaultDefaults() value.
func LoadDefaults(path string) (Defaults, error) {
	d := DefaultDefaults()
	if path == "" {
		return d, nil
	}
	c, err := Load(path)
	if err != nil {
		return d, err
	}
	applyDefaults(c, &d)
	return d, nil
}

// DefaultsFromEnv reads process-wide defaults from environment variables
// under prefix, e.g. HQUEUE_TYPE, HQUEUE_PORDER, HQUEUE_AWAIT, HQUEUE_FAST,
// HQUEUE_BIND, HQUEUE_DIAL_TIMEOUT.
func DefaultsFromEnv(prefix string) Defaults {
	d := DefaultDefaults()
	c := New()
	c.LoadEnv(prefix)
	applyDefaults(c, &d)
	return d
}

func applyDefaults(c *Config, d *Defaults) {
	d.LaneType = c.GetStringDefault("type", d.LaneType)
	d.PriorityOrder = c.GetStringDefault("porder", d.PriorityOrder)
	d.Await = c.GetBoolDefault("await", d.Await)
	d.Fast = c.GetBoolDefault("fast", d.Fast)
	d.BindAddr = c.GetStringDefault("bind", d.BindAddr)
	d.DialTimeout = c.GetDurationDefault("dial_timeout", d.DialTimeout)
	// LoadEnv stores PREFIX_DIAL_TIMEOUT under the dotted key dial.timeout.
	d.DialTimeout = c.GetDurationDefault("dial.timeout", d.DialTimeout)
}
