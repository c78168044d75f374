package config

import "embed"

// vintageFS embeds the per-state, per-year dataset configuration documents.
//
//go:embed vintages/*.yaml
var vintageFS embed.FS
