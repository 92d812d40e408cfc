package siteweb

import "embed"

// EmbeddedAssets contains the stylesheet and script every page loads:
// site.css and site.js.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
