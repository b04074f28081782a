package web

import "embed"

// StaticFS holds the embedded frontend assets.
//
//go:embed static/*
var StaticFS embed.FS
