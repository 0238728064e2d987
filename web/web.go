// Package web embeds the HTML pages served by the server.
package web

import "embed"

// Views holds views/login.html and views/app.html.
//
//go:embed views/*.html
var Views embed.FS

const (
	LoginPage = "views/login.html"
	AppPage   = "views/app.html"
)
