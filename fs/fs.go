// Package appfs embeds application assets.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
