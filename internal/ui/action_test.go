package ui

import (
	"testing"

	"github.com/astridmart/kiosk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"green", "blue", "yellow", "red", "player1"} {
		c, err := ParseColor(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.String())
	}
	_, err := ParseColor("purple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
}

func TestButtonMappingDefaults(t *testing.T) {
	t.Parallel()

	m, err := NewButtonMapping(nil, nil)
	require.NoError(t, err)
	cases := []struct {
		btn   types.InputKey
		color Color
	}{
		{0, ColorGreen},
		{1, ColorBlue},
		{2, ColorYellow},
		{3, ColorRed},
		{4, ColorPlayer1},
	}
	for _, c := range cases {
		color, ok := m.JoyColor(c.btn)
		require.True(t, ok, "button=%d", c.btn)
		assert.Equal(t, c.color, color)
	}
	_, ok := m.JoyColor(9)
	assert.False(t, ok)
}

func TestButtonMappingInvalidColor(t *testing.T) {
	t.Parallel()

	_, err := NewButtonMapping(map[string]int{"purple": 0}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buttons.joystick")
}

func TestColorActionLayout(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state  State
		color  Color
		expect ActionKind
	}{
		{StateMenu, ColorGreen, ActionConfirm},
		{StateMenu, ColorBlue, ActionLearning},
		{StateMenu, ColorYellow, ActionProductManager},
		{StateMenu, ColorRed, ActionCancel},
		{StateMenu, ColorPlayer1, ActionNone},

		{StateSelfCheckout, ColorGreen, ActionConfirm},
		{StateSelfCheckout, ColorBlue, ActionRemoveLast},
		{StateSelfCheckout, ColorYellow, ActionClearCart},
		{StateSelfCheckout, ColorRed, ActionCancel},

		{StatePayment, ColorBlue, ActionConfirm},
		{StatePayment, ColorGreen, ActionNone},
		{StatePayment, ColorRed, ActionCancel},

		{StateReceipt, ColorBlue, ActionConfirm},
		{StateReceipt, ColorRed, ActionCancel},

		{StateLearning, ColorRed, ActionCancel},
		{StateLearning, ColorGreen, ActionNone},
		{StateLearningSummary, ColorBlue, ActionConfirm},
		{StateProductManager, ColorRed, ActionCancel},
		{StateProductManager, ColorGreen, ActionNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, colorAction(c.state, c.color),
			"state=%s color=%s", c.state.String(), c.color.String())
	}
}
