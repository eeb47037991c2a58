package input

// Kind classifies a key press after mapping through the configured lane keys.
type Kind int

const (
	KindLane Kind = iota
	KindPause
	KindQuit
	KindOther
)

// Event is one key-down, already mapped to its game meaning. Lane is only
// meaningful for KindLane events.
type Event struct {
	Kind Kind
	Lane int
}

type Input interface {
	Open(size int) error

	// Poll drains every key event buffered since the last call. It never
	// blocks; an empty slice means no keys were pressed.
	Poll() []Event

	Close() error
}
