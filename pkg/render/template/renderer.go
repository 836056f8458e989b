// Package template defines the rendering seam the form builder delegates to.
// The contract mirrors the github.com/goliatone/go-template engine so any
// engine satisfying it can render nested field fragments.
package template

import "io"

// TemplateRenderer renders named templates or inline template content into
// fragment strings. Render decides between the two based on its argument;
// GlobalContext seeds data visible to every render.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
