package input

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/astridmart/kiosk/internal/types"
)

const SerialTag = "serial"

// SerialSource reads a dedicated scanner wired to a serial line
// (/dev/ttyUSB*) that sends one terminated code per trigger pull.
// Port speed and raw mode are the host's job (stty in the unit file),
// here the device is just a file of lines. Each line is replayed as
// key down/up events so serial scans ride the same classifier and
// cooldown as the keyboard wedge.
type SerialSource struct {
	f     io.ReadCloser
	br    *bufio.Reader
	queue []types.InputEvent
}

var _ Source = new(SerialSource)

func NewSerialSource(device string) (*SerialSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return newSerialSource(f), nil
}

func newSerialSource(f io.ReadCloser) *SerialSource {
	return &SerialSource{f: f, br: bufio.NewReader(f)}
}

func (self *SerialSource) String() string { return SerialTag }

func (self *SerialSource) Close() error { return self.f.Close() }

func (self *SerialSource) Read() (types.InputEvent, error) {
	for len(self.queue) == 0 {
		line, err := self.br.ReadString('\n')
		if err != nil {
			return types.InputEvent{}, err
		}
		self.queue = replayLine(strings.TrimRight(line, "\r\n"), time.Now())
	}
	ev := self.queue[0]
	self.queue = self.queue[1:]
	return ev, nil
}

// replayLine turns a scanned code into the key events a wedge scanner
// would have produced. Lines with non-digit garbage are dropped whole,
// length checks stay with the classifier.
func replayLine(code string, at time.Time) []types.InputEvent {
	evs := make([]types.InputEvent, 0, 2*len(code)+2)
	push := func(k types.InputKey) {
		evs = append(evs,
			types.InputEvent{At: at, Source: SerialTag, Key: k},
			types.InputEvent{At: at, Source: SerialTag, Key: k, Up: true},
		)
	}
	for i := 0; i < len(code); i++ {
		key, ok := KeyFromDigit(code[i])
		if !ok {
			return nil
		}
		push(key)
	}
	if len(evs) == 0 {
		return nil
	}
	push(KeyEnter)
	return evs
}
