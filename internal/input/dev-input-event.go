package input

import (
	"io"
	"os"
	"time"

	"github.com/temoto/inputevent-go"
	"github.com/astridmart/kiosk/internal/types"
)

const DevInputEventTag = "dev-input-event"

// DevInputEventSource reads a /dev/input/event* character device.
// Both the membrane keyboard and the USB barcode scanner show up here.
type DevInputEventSource struct {
	f io.ReadCloser
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }

func NewDevInputEventSource(device string) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return &DevInputEventSource{f: f}, nil
}

func (self *DevInputEventSource) Close() error { return self.f.Close() }

func (self *DevInputEventSource) Read() (types.InputEvent, error) {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			return types.InputEvent{}, err
		}
		if ie.Type != inputevent.EV_KEY {
			continue
		}
		if inputevent.KeyEventState(ie.Value) == inputevent.KeyStateHold {
			// autorepeat is noise for both scan bursts and the combo
			continue
		}
		ev := types.InputEvent{
			// kernel timestamp, not read time: scanner burst gaps stay
			// accurate even when the game loop is briefly busy
			At:     time.Unix(ie.Time.Unix()),
			Source: DevInputEventTag,
			Key:    types.InputKey(ie.Code),
			Up:     inputevent.KeyEventState(ie.Value) == inputevent.KeyStateUp,
		}
		return ev, nil
	}
}
