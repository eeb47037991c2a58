package input

import (
	"github.com/beatfall/beatfall/internal/config"
	"github.com/eiannone/keyboard"
)

type DefaultInput struct {
	keys <-chan keyboard.KeyEvent
}

func (in *DefaultInput) Open(size int) error {
	keys, err := keyboard.GetKeys(size)
	if nil != err {
		return err
	}
	in.keys = keys
	return nil
}

func (in *DefaultInput) Poll() []Event {
	var events []Event
	for i := len(in.keys); i > 0; i-- {
		key, ok := <-in.keys
		if !ok || nil != key.Err {
			break
		}
		events = append(events, mapKey(key))
	}
	return events
}

func (in *DefaultInput) Close() error {
	return keyboard.Close()
}

// mapKey translates a raw key event. Lane keys take precedence over the
// quit rune, so a layout like --keys qwer keeps q playable.
func mapKey(key keyboard.KeyEvent) Event {
	if key.Key == keyboard.KeyEsc {
		return Event{Kind: KindPause, Lane: -1}
	}
	if lane := config.KeyLane(key.Rune); lane >= 0 {
		return Event{Kind: KindLane, Lane: lane}
	}
	if key.Key == keyboard.KeyCtrlC || key.Rune == 'q' {
		return Event{Kind: KindQuit, Lane: -1}
	}
	return Event{Kind: KindOther, Lane: -1}
}
