// Package web carries the embedded UI assets served by the HTTP layer.
package web

import "embed"

// TemplatesFS holds the server-rendered HTML templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and client-side scripts.
//
//go:embed static/*
var StaticFS embed.FS
