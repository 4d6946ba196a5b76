package ui

import (
	"fmt"

	"github.com/astridmart/kiosk/helpers"
	"github.com/astridmart/kiosk/internal/types"
	"github.com/juju/errors"
)

type Color uint8

const (
	ColorNone Color = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorRed
	ColorPlayer1
)

func (c Color) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorRed:
		return "red"
	case ColorPlayer1:
		return "player1"
	}
	return "none"
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "green":
		return ColorGreen, nil
	case "blue":
		return ColorBlue, nil
	case "yellow":
		return ColorYellow, nil
	case "red":
		return ColorRed, nil
	case "player1":
		return ColorPlayer1, nil
	}
	return ColorNone, errors.NotValidf("button color=%s", s)
}

type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionConfirm
	ActionCancel
	ActionClearCart
	ActionRemoveLast
	ActionScrollUp
	ActionScrollDown
	ActionProductManager
	ActionLearning
	ActionScan
	ActionShutdown
)

func (k ActionKind) String() string {
	switch k {
	case ActionConfirm:
		return "confirm"
	case ActionCancel:
		return "cancel"
	case ActionClearCart:
		return "clear-cart"
	case ActionRemoveLast:
		return "remove-last"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	case ActionProductManager:
		return "product-manager"
	case ActionLearning:
		return "learning"
	case ActionScan:
		return "scan"
	case ActionShutdown:
		return "shutdown"
	}
	return "none"
}

type Action struct {
	Code string
	Kind ActionKind
}

func (a Action) String() string {
	if a.Kind == ActionScan {
		return fmt.Sprintf("scan(%s)", a.Code)
	}
	return a.Kind.String()
}

// ButtonMapping resolves raw device codes to logical button colors.
// Joystick button indexes and keyboard key codes are separate spaces.
type ButtonMapping struct {
	joy map[types.InputKey]Color
	key map[types.InputKey]Color
}

// Original wiring of the donated arcade cabinet.
var defaultJoystick = map[string]int{
	"green":   0,
	"blue":    1,
	"yellow":  2,
	"red":     3,
	"player1": 4,
}

func NewButtonMapping(joystick, key map[string]int) (ButtonMapping, error) {
	if len(joystick) == 0 {
		joystick = defaultJoystick
	}
	m := ButtonMapping{
		joy: make(map[types.InputKey]Color, len(joystick)),
		key: make(map[types.InputKey]Color, len(key)),
	}
	errs := make([]error, 0)
	for name, code := range joystick {
		color, err := ParseColor(name)
		if err != nil {
			errs = append(errs, errors.Annotate(err, "buttons.joystick"))
			continue
		}
		m.joy[types.InputKey(code)] = color
	}
	for name, code := range key {
		color, err := ParseColor(name)
		if err != nil {
			errs = append(errs, errors.Annotate(err, "buttons.key"))
			continue
		}
		m.key[types.InputKey(code)] = color
	}
	return m, helpers.FoldErrors(errs)
}

func (m ButtonMapping) JoyColor(code types.InputKey) (Color, bool) {
	c, ok := m.joy[code]
	return c, ok
}

func (m ButtonMapping) KeyColor(code types.InputKey) (Color, bool) {
	c, ok := m.key[code]
	return c, ok
}

// colorAction is the fixed button layout per mode. Every mode maps red
// to cancel so a lost customer can always back out.
func colorAction(s State, c Color) ActionKind {
	switch s {
	case StateMenu:
		switch c {
		case ColorGreen:
			return ActionConfirm
		case ColorBlue:
			return ActionLearning
		case ColorYellow:
			return ActionProductManager
		case ColorRed:
			return ActionCancel
		}

	case StateSelfCheckout:
		switch c {
		case ColorGreen:
			return ActionConfirm
		case ColorBlue:
			return ActionRemoveLast
		case ColorYellow:
			return ActionClearCart
		case ColorRed:
			return ActionCancel
		}

	case StatePayment, StateReceipt:
		switch c {
		case ColorBlue:
			return ActionConfirm
		case ColorRed:
			return ActionCancel
		}

	case StateLearning, StateProductManager:
		if c == ColorRed {
			return ActionCancel
		}

	case StateLearningSummary:
		switch c {
		case ColorBlue:
			return ActionConfirm
		case ColorRed:
			return ActionCancel
		}
	}
	return ActionNone
}
