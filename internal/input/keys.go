package input

import "github.com/astridmart/kiosk/internal/types"

// Linux input-event-codes.h subset used by the kiosk. The barcode
// scanner is a USB HID keyboard, so digits arrive as these codes too.
const (
	KeyEsc   types.InputKey = 1
	Key1     types.InputKey = 2
	Key0     types.InputKey = 11
	KeyEnter types.InputKey = 28
	KeyUp    types.InputKey = 103
	KeyDown  types.InputKey = 108

	KeyKpEnter types.InputKey = 96
	KeyKp7     types.InputKey = 71
	KeyKp8     types.InputKey = 72
	KeyKp9     types.InputKey = 73
	KeyKp4     types.InputKey = 75
	KeyKp5     types.InputKey = 76
	KeyKp6     types.InputKey = 77
	KeyKp1     types.InputKey = 79
	KeyKp2     types.InputKey = 80
	KeyKp3     types.InputKey = 81
	KeyKp0     types.InputKey = 82
)

// DigitKey translates a key code to its ASCII digit.
func DigitKey(k types.InputKey) (byte, bool) {
	switch {
	case k >= Key1 && k < Key0:
		return byte('1' + (k - Key1)), true
	case k == Key0:
		return '0', true
	case k >= KeyKp7 && k <= KeyKp9:
		return byte('7' + (k - KeyKp7)), true
	case k >= KeyKp4 && k <= KeyKp6:
		return byte('4' + (k - KeyKp4)), true
	case k >= KeyKp1 && k <= KeyKp3:
		return byte('1' + (k - KeyKp1)), true
	case k == KeyKp0:
		return '0', true
	}
	return 0, false
}

func IsEnterKey(k types.InputKey) bool { return k == KeyEnter || k == KeyKpEnter }

// KeyFromDigit is the reverse of DigitKey, used by the dev console to
// synthesize keyboard events from typed characters.
func KeyFromDigit(c byte) (types.InputKey, bool) {
	switch {
	case c == '0':
		return Key0, true
	case c >= '1' && c <= '9':
		return Key1 + types.InputKey(c-'1'), true
	}
	return 0, false
}
