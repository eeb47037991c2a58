package theme

import (
	"image/color"

	"github.com/beatfall/beatfall/internal/game"
)

type Theme interface {
	Note(lane int) string
	HitField(lane int) string
	JudgementMark(j game.Judgement) string
	JudgementColor(j game.Judgement) color.RGBA
	WhiffMark() string
	SpectrumBar(level float64) string
}
