package score

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"math"
	"time"

	"github.com/beatfall/beatfall/internal/chart"
)

// Result is one finished session's aggregates, keyed to the chart it was
// played on by Sum.
type Result struct {
	ID         string
	Sum        string
	Score      int
	MaxCombo   int
	Accuracy   float64
	Perfects   int
	Goods      int
	Missed     int
	Difficulty float64
	Lanes      int
	PlayedAt   time.Time
}

type Scorer interface {
	Init(path string) error
	Deinit()

	// Save stores the result, assigning ID and PlayedAt when unset.
	Save(r *Result) error

	// Best is the highest scoring result for a chart, nil when the chart
	// has never been played.
	Best(sum string) (*Result, error)

	History(sum string, limit int) ([]Result, error)
}

// Sum fingerprints a chart so results attach to the exact note sequence that
// was played, not just the audio file name.
func Sum(c *chart.Chart) string {
	h := sha256.New()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(c.Difficulty))
	h.Write(buf)
	binary.BigEndian.PutUint64(buf, uint64(c.Lanes))
	h.Write(buf)
	binary.BigEndian.PutUint64(buf, uint64(c.Duration))
	h.Write(buf)
	for _, n := range c.Notes {
		binary.BigEndian.PutUint64(buf, uint64(n.Time))
		h.Write(buf)
		binary.BigEndian.PutUint64(buf, uint64(n.Lane))
		h.Write(buf)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
