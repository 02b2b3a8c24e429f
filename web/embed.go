// Package web carries the embedded templates and static assets so the
// binary ships self-contained.
package web

import "embed"

// Templates holds the server-rendered page and layout templates.
//
//go:embed templates/*/*.html templates/pages/*/*.html
var Templates embed.FS

// Static holds the stylesheet and other public assets.
//
//go:embed static/**/*
var Static embed.FS
