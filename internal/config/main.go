package config

import (
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Audio       = kingpin.Arg("audio", "Audio file to play (.mp3, .ogg, .wav, .flac)").Required().ExistingFile()
	Difficulty  = kingpin.Flag("difficulty", "Minimum seconds between notes, smaller is harder").Default("0.2").Short('d').Float64()
	Lanes       = kingpin.Flag("lanes", "Number of lanes").Default("4").Short('l').Int()
	Offset      = kingpin.Flag("offset", "Latency offset added to song time, lower it if hits judge late").Default("0ms").Short('o').Duration()
	Countdown   = kingpin.Flag("countdown", "Countdown before playback starts").Default("3.5s").Duration()
	TickRate    = kingpin.Flag("tick-rate", "Judgment loop updates per second").Default("60").Uint()
	Scroll      = kingpin.Flag("scroll", "Note scroll speed in rows per second").Default("16").Short('s').Float64()
	Spacing     = kingpin.Flag("spacing", "Columns between lanes").Default("6").Short('S').Uint()
	BarRow      = kingpin.Flag("bar-row", "Rows between the hit bar and the bottom edge").Default("6").Uint()
	Database    = kingpin.Flag("db", "Results database path").Default("beatfall.db").String()
	ChartFile   = kingpin.Flag("chart", "Play a previously exported chart instead of analyzing").String()
	ExportChart = kingpin.Flag("export-chart", "Write the generated chart to this path").String()
	LogFile     = kingpin.Flag("log", "Write diagnostics to this file").String()
	LogLevel    = kingpin.Flag("log-level", "One of debug, info, error, none").Default("info").String()
	keys        = kingpin.Flag("keys", "Lane keys, leftmost lane first").Default("asdf").Short('k').String()

	TickPeriod time.Duration
)

func Keys() []rune {
	return []rune(*keys)
}

func KeyLane(r rune) int {
	for i, c := range Keys() {
		if r == c {
			return i
		}
	}
	return -1
}

// Parse is called from main rather than an init so that tests can set the
// flag targets directly without arguments being consumed.
func Parse() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	TickPeriod = time.Second / time.Duration(*TickRate)
}
