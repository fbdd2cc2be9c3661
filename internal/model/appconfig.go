package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default geometry applied to new sessions
	DefaultPalletLength float64 `json:"default_pallet_length"`
	DefaultPalletWidth  float64 `json:"default_pallet_width"`
	DefaultBoxLength    float64 `json:"default_box_length"`
	DefaultBoxWidth     float64 `json:"default_box_width"`
	DefaultBoxHeight    float64 `json:"default_box_height"`
	DefaultLabelSides   Sides   `json:"default_label_sides"` // Box faces carrying a label, in box frame

	// Editor behaviour
	CollisionTolerance  float64 `json:"collision_tolerance"`   // mm, edge overlap ignored by the renderer
	SearchDirection     string  `json:"search_direction"`      // "x" fills rows first, "y" fills columns first
	CenterPattern       bool    `json:"center_pattern"`        // Center the pattern on the pallet when drawing
	MaxSearchCandidates int     `json:"max_search_candidates"` // 0 = unbounded

	// Application preferences
	LibraryDir     string   `json:"library_dir"` // Pattern library directory, empty = default
	RecentPatterns []string `json:"recent_patterns"`
	Theme          string   `json:"theme"`     // "light", "dark", "system"
	LogLevel       string   `json:"log_level"` // "debug", "info", "warn", "error"
	LogFile        string   `json:"log_file"`  // optional rotated log file
}

// DefaultAppConfig returns an AppConfig for a EUR pallet and a 300x200 carton.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultPalletLength: 1200,
		DefaultPalletWidth:  800,
		DefaultBoxLength:    300,
		DefaultBoxWidth:     200,
		DefaultBoxHeight:    150,
		DefaultLabelSides:   Sides{false, false, true, false},
		CollisionTolerance:  0.1,
		SearchDirection:     "x",
		CenterPattern:       true,
		MaxSearchCandidates: 0,
		RecentPatterns:      []string{},
		Theme:               "system",
		LogLevel:            "info",
	}
}

// DefaultPallet returns the configured default pallet.
func (c AppConfig) DefaultPallet() Pallet {
	return NewPallet(c.DefaultPalletLength, c.DefaultPalletWidth)
}

// DefaultBox returns the configured default box.
func (c AppConfig) DefaultBox() Box {
	return NewBox(c.DefaultBoxLength, c.DefaultBoxWidth, c.DefaultBoxHeight)
}

// AddRecentPattern moves name to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentPattern(name string, max int) {
	out := []string{name}
	for _, n := range c.RecentPatterns {
		if n != name {
			out = append(out, n)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	c.RecentPatterns = out
}
