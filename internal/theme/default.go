package theme

import (
	"fmt"
	"image/color"

	"github.com/beatfall/beatfall/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) Note(lane int) string {
	c := laneColors[lane%len(laneColors)]
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, noteSym)
}

func (t *DefaultTheme) HitField(lane int) string {
	return barSym
}

func (t *DefaultTheme) JudgementMark(j game.Judgement) string {
	c := t.JudgementColor(j)
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, judgementSyms[j])
}

func (t *DefaultTheme) JudgementColor(j game.Judgement) color.RGBA {
	c, ok := judgementColors[j]
	if !ok {
		return color.RGBA{R: 255, G: 255, B: 255}
	}
	return c
}

func (t *DefaultTheme) WhiffMark() string {
	return fmt.Sprintf("\033[38;2;106;106;106m%v\033[0m", whiffSym)
}

func (t *DefaultTheme) SpectrumBar(level float64) string {
	i := int(level * float64(len(blockSyms)))
	if i > len(blockSyms)-1 {
		i = len(blockSyms) - 1
	}
	if i < 0 {
		i = 0
	}
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", 106, 0, 236, blockSyms[i])
}

const (
	noteSym  = "⬤"
	barSym   = "─"
	whiffSym = "·"
)

var (
	judgementSyms = map[game.Judgement]string{
		game.JudgementPerfect: "◆",
		game.JudgementGood:    "◇",
		game.JudgementMiss:    "⨯",
	}
	blockSyms = [...]string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	laneColors = [...]color.RGBA{
		{R: 236, G: 30, B: 0},    // red
		{R: 0, G: 118, B: 236},   // blue
		{R: 236, G: 195, B: 0},   // yellow
		{R: 106, G: 0, B: 236},   // purple
		{R: 0, G: 236, B: 128},   // green
		{R: 236, G: 0, B: 106},   // pink
		{R: 236, G: 128, B: 0},   // orange
		{R: 173, G: 236, B: 236}, // light blue
	}
	judgementColors = map[game.Judgement]color.RGBA{
		game.JudgementPerfect: {R: 173, G: 236, B: 236},
		game.JudgementGood:    {R: 0, G: 236, B: 128},
		game.JudgementMiss:    {R: 236, G: 30, B: 0},
	}
)
