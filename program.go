package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/beatfall/beatfall/internal/audio"
	"github.com/beatfall/beatfall/internal/chart"
	"github.com/beatfall/beatfall/internal/config"
	"github.com/beatfall/beatfall/internal/game"
	"github.com/beatfall/beatfall/internal/input"
	"github.com/beatfall/beatfall/internal/log"
	"github.com/beatfall/beatfall/internal/render"
	"github.com/beatfall/beatfall/internal/score"
	"github.com/beatfall/beatfall/internal/spectrum"
	"github.com/beatfall/beatfall/internal/theme"
)

// Program owns one play-through end to end: the fixed-rate loop driving the
// judgment engine, the terminal frame, and the results screen. All session
// state is mutated from the loop goroutine only.
type Program struct {
	Renderer render.Renderer
	Theme    theme.Theme
	Input    input.Input
	Scorer   score.Scorer
	Log      *log.Logger

	Track    *audio.Track
	Chart    *chart.Chart
	Session  *game.Session
	Spectrum *spectrum.Analyzer

	rows, cols int
	laneCols   []int
	fieldTop   int
	hitRow     int
	fieldEnd   int // last row a scrolled-past note may still occupy
	keyRow     int
	specRow    int
	sideCol    int

	flashFrames int
	occupied    [][]bool // lane x row note cells, rebuilt each frame

	lastPhase game.Phase
	onResults bool
	result    *score.Result
	best      *score.Result
}

// Run drives the session until it ends, is abandoned, or the results screen
// is dismissed. The returned result is nil when the player quit early.
func (p *Program) Run() (*score.Result, error) {
	if err := p.layout(); nil != err {
		return nil, err
	}
	if err := p.Track.InitSpeaker(); nil != err {
		return nil, fmt.Errorf("unable to open speaker: %w", err)
	}

	p.drawStatic()
	p.Session.Start()

	ticker := time.NewTicker(config.TickPeriod)
	defer ticker.Stop()
	for range ticker.C {
		quit, err := p.tick()
		if nil != err {
			return nil, err
		}
		if quit {
			return p.result, nil
		}
	}
	return p.result, nil
}

// layout derives every screen position from the terminal size. Rows from
// top: progress line, falling field, hit bar, a short overshoot zone for
// notes scrolling past, the key caption row, and the spectrum bars.
func (p *Program) layout() error {
	cols, rows, err := p.Renderer.Size()
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}
	p.cols, p.rows = cols, rows

	p.fieldTop = 2
	p.hitRow = rows - int(*config.BarRow)
	p.fieldEnd = p.hitRow + 3
	p.keyRow = p.fieldEnd + 1
	p.specRow = p.fieldEnd + 2

	lanes := p.Chart.Lanes
	half := int(*config.Spacing) / 2
	if half < 1 {
		half = 1
	}
	mid := cols / 2
	p.laneCols = make([]int, lanes)
	for i := range p.laneCols {
		p.laneCols[i] = mid + (2*i-(lanes-1))*half
	}
	if p.hitRow <= p.fieldTop+4 || p.laneCols[0] < 3 || p.laneCols[lanes-1] > cols-2 {
		return errors.New("terminal too small for the playfield")
	}

	p.sideCol = p.laneCols[0] - 30
	if p.sideCol < 2 {
		p.sideCol = 2
	}

	p.flashFrames = int(*config.TickRate) * 3 / 10
	p.occupied = make([][]bool, lanes)
	for i := range p.occupied {
		p.occupied[i] = make([]bool, p.fieldEnd+1)
	}
	return nil
}

func (p *Program) tick() (bool, error) {
	events := p.Input.Poll()
	if p.onResults {
		// Any key leaves the results screen.
		return len(events) > 0, nil
	}

	var inputs []game.Input
	now := p.Session.SongTime()
	for _, ev := range events {
		switch ev.Kind {
		case input.KindQuit:
			p.abandon()
			return true, nil
		case input.KindPause:
			p.togglePause()
		case input.KindLane:
			inputs = append(inputs, game.Input{Lane: ev.Lane, Time: now})
		}
	}

	res := p.Session.Tick(inputs)
	if res.Started {
		p.Track.Play()
		p.Log.Infof("playback started")
	}
	p.drainEvents()

	if !p.onResults {
		p.render(res)
	}
	return false, p.Renderer.Flush()
}

func (p *Program) togglePause() {
	switch p.Session.Phase() {
	case game.PhasePlaying:
		if p.Session.Pause() {
			p.Track.Pause()
		}
	case game.PhasePaused:
		if p.Session.Resume() {
			p.Track.Resume()
		}
	}
}

func (p *Program) abandon() {
	p.Session.Abandon()
	p.drainEvents()
	p.Track.Stop()
}

func (p *Program) drainEvents() {
	for {
		select {
		case ev := <-p.Session.Events():
			p.handleEvent(ev)
		default:
			return
		}
	}
}

func (p *Program) handleEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventStarted:
		p.Log.Infof("session started")
	case game.EventPaused:
		p.Log.Infof("session paused at %v", p.Session.SongTime())
	case game.EventResumed:
		p.Log.Infof("session resumed at %v", p.Session.SongTime())
	case game.EventEnded:
		p.Log.Infof("session ended, score %v, combo %v, accuracy %.2f",
			ev.Score, ev.MaxCombo, ev.Accuracy)
		p.finish()
	case game.EventAbandoned:
		p.Log.Infof("session abandoned, score %v", ev.Score)
	}
}

// finish stores the result and swaps the loop onto the results screen.
func (p *Program) finish() {
	p.Track.Stop()
	st := p.Session.State()
	r := &score.Result{
		Sum:        score.Sum(p.Chart),
		Score:      st.Score,
		MaxCombo:   st.MaxCombo,
		Accuracy:   st.Accuracy,
		Perfects:   st.Perfects,
		Goods:      st.Goods,
		Missed:     st.Missed,
		Difficulty: p.Chart.Difficulty,
		Lanes:      p.Chart.Lanes,
	}

	best, err := p.Scorer.Best(r.Sum)
	if nil != err {
		p.Log.Errorf("unable to load best result: %v", err)
	}
	p.best = best
	if err := p.Scorer.Save(r); nil != err {
		p.Log.Errorf("unable to save result: %v", err)
	}

	p.result = r
	p.onResults = true
	p.renderResults()
}

func (p *Program) render(res game.TickResult) {
	if res.Phase != p.lastPhase {
		// Old overlay text may span non-lane cells; wipe its rows once.
		blank := strings.Repeat(" ", p.cols-2)
		cen := p.rows / 2
		for row := cen - 1; row <= cen+1; row++ {
			p.Renderer.Fill(row, 2, blank)
		}
		p.lastPhase = res.Phase
	}

	p.renderProgress(res.Now)
	p.renderSpectrum(res.Now)
	p.renderField(res)
	p.renderSidebar()

	switch res.Phase {
	case game.PhaseCountdown:
		p.renderCountdown()
	case game.PhasePaused:
		p.renderPauseOverlay()
	}
}

// drawStatic paints the cells no frame ever touches again: the key captions
// under the overshoot zone.
func (p *Program) drawStatic() {
	keys := config.Keys()
	for i, col := range p.laneCols {
		if i < len(keys) {
			p.Renderer.Fill(p.keyRow, col, string(keys[i]))
		}
	}
}

func (p *Program) renderProgress(now time.Duration) {
	width := p.cols - 2
	frac := 0.0
	if p.Session.Length() > 0 {
		frac = float64(now) / float64(p.Session.Length())
	}
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	p.Renderer.Fill(1, 2, strings.Repeat("━", filled)+strings.Repeat("─", width-filled))
}

func (p *Program) renderSpectrum(now time.Duration) {
	levels := p.Spectrum.Levels(now)
	col := p.cols/2 - len(levels)
	for i, level := range levels {
		p.Renderer.Fill(p.specRow, col+i*2, p.Theme.SpectrumBar(level))
	}
}

func (p *Program) renderField(res game.TickResult) {
	for i := range p.occupied {
		for j := range p.occupied[i] {
			p.occupied[i][j] = false
		}
	}
	lookahead := rowsToDuration(p.hitRow - p.fieldTop)
	p.Session.Active(res.Now-game.MissThreshold, res.Now+lookahead, func(n chart.Note) {
		row := p.noteRow(n.Time, res.Now)
		if row < p.fieldTop || row > p.fieldEnd {
			return
		}
		p.occupied[n.Lane][row] = true
	})

	for lane, col := range p.laneCols {
		for row := p.fieldTop; row <= p.fieldEnd; row++ {
			switch {
			case p.occupied[lane][row]:
				p.Renderer.Fill(row, col, p.Theme.Note(lane))
			case row == p.hitRow:
				p.Renderer.Fill(row, col, p.Theme.HitField(lane))
			default:
				p.Renderer.Fill(row, col, " ")
			}
		}
	}

	for _, hit := range res.Hits {
		col := p.laneCols[hit.Note.Lane]
		p.Renderer.AddDecoration(p.hitRow, col+1, p.Theme.JudgementMark(hit.Judgement), p.flashFrames)
	}
	for _, n := range res.Missed {
		p.Renderer.AddDecoration(p.hitRow, p.laneCols[n.Lane]+1, p.Theme.JudgementMark(game.JudgementMiss), p.flashFrames)
	}
	for _, in := range res.Whiffs {
		if in.Lane < 0 || in.Lane >= len(p.laneCols) {
			continue
		}
		p.Renderer.AddDecoration(p.hitRow, p.laneCols[in.Lane]-1, p.Theme.WhiffMark(), p.flashFrames)
	}
}

func (p *Program) renderSidebar() {
	st := p.Session.State()
	p.Renderer.Fill(3, p.sideCol, fmt.Sprintf("      Score:  %8v", st.Score))
	p.Renderer.Fill(4, p.sideCol, fmt.Sprintf("      Combo:  %8v", st.Combo))
	p.Renderer.Fill(5, p.sideCol, fmt.Sprintf(" Multiplier:  %8v", fmt.Sprintf("×%v", st.Multiplier)))
	p.Renderer.Fill(6, p.sideCol, fmt.Sprintf("  Max Combo:  %8v", st.MaxCombo))
	p.Renderer.Fill(7, p.sideCol, fmt.Sprintf("   Accuracy:  %7.2f%%", st.Accuracy))
	p.Renderer.Fill(9, p.sideCol, fmt.Sprintf("    Perfect:  %8v", st.Perfects))
	p.Renderer.Fill(10, p.sideCol, fmt.Sprintf("       Good:  %8v", st.Goods))
	p.Renderer.Fill(11, p.sideCol, fmt.Sprintf("       Miss:  %8v", st.Missed))
	p.Renderer.Fill(13, p.sideCol, fmt.Sprintf("  Remaining:  %8v", p.Session.Remaining()))
	p.Renderer.Fill(14, p.sideCol, fmt.Sprintf("       Time:  %v / %v",
		fmtDuration(p.Session.SongTime()), fmtDuration(p.Session.Length())))
}

func (p *Program) renderCountdown() {
	// The final half second reads GO!, each full second before it a number.
	left := p.Session.CountdownRemaining()
	label := "GO!"
	if left > 500*time.Millisecond {
		label = fmt.Sprintf("%v", int(math.Ceil((left - 500*time.Millisecond).Seconds())))
	}
	p.centerText(p.rows/2, label)
}

func (p *Program) renderPauseOverlay() {
	p.centerText(p.rows/2, "PAUSED")
	p.centerText(p.rows/2+1, "esc resumes, q quits")
}

func (p *Program) renderResults() {
	p.Renderer.Clear()
	r := p.result
	cen := p.rows / 2

	p.centerText(cen-6, "TRACK COMPLETE")
	p.centerText(cen-4, fmt.Sprintf("Score      %8v", r.Score))
	p.centerText(cen-3, fmt.Sprintf("Max Combo  %8v", r.MaxCombo))
	p.centerText(cen-2, fmt.Sprintf("Accuracy   %7.2f%%", r.Accuracy))
	p.centerColor(cen, p.Theme.JudgementColor(game.JudgementPerfect), fmt.Sprintf("Perfect    %8v", r.Perfects))
	p.centerColor(cen+1, p.Theme.JudgementColor(game.JudgementGood), fmt.Sprintf("Good       %8v", r.Goods))
	p.centerColor(cen+2, p.Theme.JudgementColor(game.JudgementMiss), fmt.Sprintf("Miss       %8v", r.Missed))

	if nil == p.best || r.Score > p.best.Score {
		p.centerText(cen+4, "New best!")
	} else {
		p.centerText(cen+4, fmt.Sprintf("Best       %8v", p.best.Score))
	}
	p.centerText(cen+6, "press any key")
}

func (p *Program) centerText(row int, s string) {
	p.Renderer.Fill(row, p.cols/2-len([]rune(s))/2, s)
}

func (p *Program) centerColor(row int, c color.RGBA, s string) {
	p.Renderer.FillColor(row, p.cols/2-len([]rune(s))/2, c, s)
}

func (p *Program) noteRow(at, now time.Duration) int {
	dt := (at - now).Seconds()
	return p.hitRow - int(math.Round(dt * *config.Scroll))
}

func rowsToDuration(rows int) time.Duration {
	return time.Duration(float64(rows) / *config.Scroll * float64(time.Second))
}

func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%v:%02v", int(d.Minutes()), int(d.Seconds())%60)
}
