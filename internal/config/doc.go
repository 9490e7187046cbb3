// Package config provides the configuration system for gyobango.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← GYOBANGO_SEQUENCE_HEADROOM=200
//	├─────────────────────────────┤
//	│  2. Config File             │  ← gyobango.toml or gyobango.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Configuration Files
//
// TOML and YAML are both accepted; the format follows the file extension:
//
//	# gyobango.toml
//	[sequence]
//	width = 5
//	headroom = 100
//
//	[scratch]
//	path = "numbers.txt"
//	lineEnding = "lf"
//
// # Error Handling
//
//   - *loader.ParseError: a configuration file could not be parsed
//   - *ValidationError: a setting has an invalid value (matches ErrValidationFailed)
//   - ErrFileNotFound: an explicitly requested file doesn't exist
package config
