// Package config provides the configuration for aditor.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← ADITOR_SECTION_KEY, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← aditor.toml / aditor.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← lowest priority
//	└─────────────────────────────┘
//
// Each layer is read into a map by the loader package. The maps are deep
// merged and decoded onto the defaults with mapstructure, so a layer only
// needs the keys it changes.
//
// # Configuration Files
//
//	# aditor.toml
//	[log]
//	level = "debug"
//	file = "/tmp/aditor.log"
//
//	[editor]
//	composition_delay = "20ms"
//	text_node = "text"
//
//	[schema.rules]
//	root = ["paragraph", "heading", "quote"]
//
// Schema rules from a file extend the built-in rules.
package config
