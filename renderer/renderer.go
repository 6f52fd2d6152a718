package renderer

import "github.com/ByLCY/labelgrid/layout"

// Renderer turns a laid-out label sheet into a finished document, such as PDF bytes.
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
