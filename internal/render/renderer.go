package render

import "image/color"

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int, err error)
	Clear()
	Fill(row, column int, message string)
	FillColor(row, column int, c color.RGBA, message string)
	AddDecoration(row, column int, content string, frames int)

	// Flush writes the buffered frame and ages decorations by one frame.
	Flush() error
}
