package handler

import (
	"io/fs"

	"github.com/labstack/echo/v4"

	"usergate/web"
)

// PageHandler serves the HTML pages.
type PageHandler struct {
	views fs.FS
}

// NewPageHandler serves pages from views; nil selects the embedded pages.
func NewPageHandler(views fs.FS) *PageHandler {
	if views == nil {
		views = web.Views
	}
	return &PageHandler{views: views}
}

// Landing serves the public login page.
func (h *PageHandler) Landing(c echo.Context) error {
	return echo.StaticFileHandler(web.LoginPage, h.views)(c)
}

// App serves the page behind the token check.
func (h *PageHandler) App(c echo.Context) error {
	return echo.StaticFileHandler(web.AppPage, h.views)(c)
}
