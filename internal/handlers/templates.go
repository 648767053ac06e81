package handlers

import (
	"io"
)

// TemplateExecutor renders a page or partial by its file name.
// *web.TemplateRegistry is the production implementation.
type TemplateExecutor interface {
	ExecuteTemplate(wr io.Writer, name string, data interface{}) error
}
