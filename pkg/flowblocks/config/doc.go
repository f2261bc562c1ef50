/*
Package config loads flowblocks settings from YAML or JSON files.

# Overview

Settings are read through Values, a wrapper over the decoded document with
typed accessors that return a default when a key is missing or holds the
wrong type. A partially written file therefore still yields usable settings.

# Basic Usage

	s, err := config.Load("flowblocks.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	r := flowblocks.NewResolver(g, flowblocks.WithMaxIterations(s.MaxIterations))

Start from config.Default() when no file is given.

# Type Coercion

Duration accepts a string ("5s", "1m30s") or a number of seconds.
Int accepts float64 values without a fractional part, as produced by JSON.

# Thread Safety

Values and Settings are safe for concurrent read access.
*/
package config
