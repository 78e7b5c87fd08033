// Package web provides the embedded frontend for the VoFo Music API.
package web

import "embed"

// StaticFS contains the embedded frontend (index.html and its assets).
//
//go:embed all:static
var StaticFS embed.FS
