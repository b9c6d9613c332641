// Package config loads settings for the idxtree tools.
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML file (Load)
//  3. IDXTREE_* environment variables (ApplyEnv)
//
// Command-line flags are applied on top by the binaries themselves.
//
// Example file:
//
//	[log]
//	level = "debug"
//
//	[workload]
//	seed = 42
//	ops = 100000
//	max_size = 5000
//	check_every = 100
//
//	[workload.mix]
//	insert = 4
//	remove = 3
//	set = 1
//	get = 2
//
//	[script]
//	path = "scripts/drain.lua"
//	timeout = "10s"
package config
