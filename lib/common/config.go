package common

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the resolved settings of the command line tool
type Config struct {
	// File is the snapshot file the kv commands operate on
	File string

	// engine settings
	Shards     int
	GCInterval time.Duration

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Storage")
	addField("Snapshot File", c.File)

	addSection("Engine")
	shards := "auto"
	if c.Shards > 0 {
		shards = fmt.Sprintf("%d", c.Shards)
	}
	addField("Shards", shards)
	addField("GC Interval", c.GCInterval.String())

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
