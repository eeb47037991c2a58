package render

import (
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	// Out defaults to stdout. Tests point it at a buffer.
	Out io.Writer

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	Row, Column int
	Content     string
	Frames      int // remaining frames until removed
}

func (r *DefaultRenderer) Init() error {
	state, err := term.MakeRaw(int(os.Stdout.Fd()))
	if nil != err {
		return err
	}
	r.restoreState = state

	r.buffer.WriteString(
		"\033[?1049h" + // Enable alternate buffer
			"\033[?25l" + // Make the cursor invisible
			"\033[2J", // Clear the screen
	)
	return r.Flush()
}

func (r *DefaultRenderer) Deinit() error {
	r.buffer.WriteString(
		"\033[?1049l" + // Disable alternate buffer
			"\033[?25h", // Make the cursor visible
	)
	if err := r.Flush(); nil != err {
		return err
	}
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

func (r *DefaultRenderer) Clear() {
	r.buffer.WriteString("\033[2J")
}

func (r *DefaultRenderer) AddDecoration(row, column int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		Row:     row,
		Column:  column,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, column, content)
}

func (r *DefaultRenderer) tickDecorations() {
	kept := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Row, d.Column, " ")
			continue
		}
		kept = append(kept, d)
		d.Frames--
	}
	r.decorations = kept
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column int, c color.RGBA, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.Itoa(int(c.R)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.G)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.B)))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) Flush() error {
	r.tickDecorations()
	out := r.Out
	if nil == out {
		out = os.Stdout
	}
	_, err := io.WriteString(out, r.buffer.String())
	r.buffer.Reset()
	return err
}
