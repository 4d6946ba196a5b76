package input

import (
	"io"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/astridmart/kiosk/internal/types"
)

const JoystickTag = "joystick"

// JoystickSource reads arcade cabinet buttons through the SDL joystick
// subsystem. Only joystick events are pumped; no window or renderer is
// created here, drawing belongs to the display collaborator.
type JoystickSource struct {
	joy *sdl.Joystick
}

// compile-time interface compliance test
var _ Source = new(JoystickSource)

func (self *JoystickSource) String() string { return JoystickTag }

func NewJoystickSource(index int) (*JoystickSource, error) {
	if err := sdl.InitSubSystem(sdl.INIT_JOYSTICK); err != nil {
		return nil, err
	}
	sdl.JoystickEventState(sdl.ENABLE)
	joy := sdl.JoystickOpen(index)
	if joy == nil {
		return nil, sdl.GetError()
	}
	return &JoystickSource{joy: joy}, nil
}

func (self *JoystickSource) Close() error {
	self.joy.Close()
	sdl.QuitSubSystem(sdl.INIT_JOYSTICK)
	return nil
}

func (self *JoystickSource) Read() (types.InputEvent, error) {
	for {
		event := sdl.WaitEventTimeout(1000)
		if event == nil {
			if self.joy.Attached() {
				continue
			}
			return types.InputEvent{}, io.EOF
		}
		switch ev := event.(type) {
		case *sdl.JoyButtonEvent:
			return types.InputEvent{
				At:     time.Now(),
				Source: JoystickTag,
				Key:    types.InputKey(ev.Button),
				Up:     ev.State == sdl.RELEASED,
			}, nil
		case *sdl.QuitEvent:
			return types.InputEvent{}, io.EOF
		}
	}
}
