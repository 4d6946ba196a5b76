package ui

import (
	"fmt"
	"testing"
	"time"

	"github.com/astridmart/kiosk/currency"
	"github.com/astridmart/kiosk/internal/input"
	"github.com/astridmart/kiosk/internal/state"
	"github.com/astridmart/kiosk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	codeEggs  = "4740489001247"
	codeBread = "4740125896314"
	codeMilk  = "4740621345556"
)

func testGame(t *testing.T) *Game {
	conf := fmt.Sprintf(`
persist { root = "%s" }
catalog {
	product "%s" { name = "Fresh Eggs" price = "3.20" category = "dairy" }
	product "%s" { name = "Rye Bread" price = "1.20" category = "bakery" }
	product "%s" { name = "Milk" price = "2.40" category = "dairy" }
	shortcut "1" { product = "%s" }
}`, t.TempDir(), codeEggs, codeBread, codeMilk, codeMilk)
	ctx, _ := state.NewTestContext(t, conf)
	game := &Game{}
	require.NoError(t, game.Init(ctx))
	return game
}

func joyPress(g *Game, btn types.InputKey, at time.Time) []Action {
	return g.ProcessEvent(types.InputEvent{At: at, Source: input.JoystickTag, Key: btn})
}

func joyRelease(g *Game, btn types.InputKey, at time.Time) []Action {
	return g.ProcessEvent(types.InputEvent{At: at, Source: input.JoystickTag, Key: btn, Up: true})
}

func applyAll(g *Game, actions []Action) State {
	next := g.State()
	for _, a := range actions {
		next = g.Apply(a)
	}
	return next
}

func scan(g *Game, code string) State {
	return g.Apply(Action{Kind: ActionScan, Code: code})
}

func startSession(t *testing.T, g *Game) {
	t0 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	next := applyAll(g, joyPress(g, 0, t0))
	require.Equal(t, StateSelfCheckout, next)
	require.True(t, g.Cart().Empty())
}

func TestMenuGreenStartsFreshSession(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	require.Equal(t, StateMenu, g.State())
	startSession(t, g)
}

func TestScanBurstAddsToCart(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)

	// full pipeline: keyboard digit events 10ms apart, like a scanner
	at := time.Date(2026, 8, 31, 9, 0, 1, 0, time.UTC)
	var actions []Action
	for i := 0; i < len(codeEggs); i++ {
		key, ok := input.KeyFromDigit(codeEggs[i])
		require.True(t, ok)
		actions = append(actions, g.ProcessEvent(types.InputEvent{At: at, Source: input.DevInputEventTag, Key: key})...)
		at = at.Add(10 * time.Millisecond)
	}
	require.Len(t, actions, 1)
	assert.Equal(t, ActionScan, actions[0].Kind)
	assert.Equal(t, codeEggs, actions[0].Code)

	applyAll(g, actions)
	assert.Equal(t, 1, g.Cart().Len())
	assert.Equal(t, currency.Amount(320), g.Cart().Total())
}

func TestScanCooldownSwallowsDoubleTrigger(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)

	burst := func(start time.Time) []Action {
		at := start
		var actions []Action
		for i := 0; i < len(codeEggs); i++ {
			key, _ := input.KeyFromDigit(codeEggs[i])
			actions = append(actions, g.ProcessEvent(types.InputEvent{At: at, Source: input.DevInputEventTag, Key: key})...)
			at = at.Add(10 * time.Millisecond)
		}
		return actions
	}

	t0 := time.Date(2026, 8, 31, 9, 0, 1, 0, time.UTC)
	assert.Len(t, burst(t0), 1)
	// nervous trigger finger, same label scanned again 300ms later
	assert.Len(t, burst(t0.Add(300*time.Millisecond)), 0)
	// a second deliberate scan after the cooldown is legitimate
	assert.Len(t, burst(t0.Add(2*time.Second)), 1)
}

func TestUnknownCodeDoesNotTouchCart(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)

	next := scan(g, "9999999999999")
	assert.Equal(t, StateSelfCheckout, next)
	assert.True(t, g.Cart().Empty())
	assert.Equal(t, g.g.Config.Game.MsgUnknownCode, g.Message())
}

func TestRemoveLastAndClear(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)

	scan(g, codeBread)
	scan(g, codeMilk)
	require.Equal(t, currency.Amount(360), g.Cart().Total())

	t0 := time.Date(2026, 8, 31, 9, 1, 0, 0, time.UTC)
	applyAll(g, joyPress(g, 1, t0)) // blue = remove last
	assert.Equal(t, currency.Amount(120), g.Cart().Total())
	joyRelease(g, 1, t0.Add(50*time.Millisecond))

	applyAll(g, joyPress(g, 2, t0.Add(time.Second))) // yellow = clear
	assert.True(t, g.Cart().Empty())
}

func TestCartScrollFollowsCart(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)
	for i := 0; i < 6; i++ {
		scan(g, codeEggs)
	}
	require.Equal(t, 6, g.Cart().Len())

	g.Apply(Action{Kind: ActionScrollDown})
	g.Apply(Action{Kind: ActionScrollDown})
	assert.Equal(t, 2, g.Scroll())

	// clamped at the last line
	for i := 0; i < 10; i++ {
		g.Apply(Action{Kind: ActionScrollDown})
	}
	assert.Equal(t, 5, g.Scroll())

	// removing the tail pulls the offset back in range
	g.Apply(Action{Kind: ActionRemoveLast})
	assert.Equal(t, 4, g.Scroll())

	g.Apply(Action{Kind: ActionScrollUp})
	assert.Equal(t, 3, g.Scroll())

	g.Apply(Action{Kind: ActionClearCart})
	assert.Equal(t, 0, g.Scroll())
}

func TestPaymentConfirmOnEmptyCartStays(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)

	next := g.Apply(Action{Kind: ActionConfirm})
	assert.Equal(t, StateSelfCheckout, next)
}

func TestPaymentCancelKeepsCart(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)
	scan(g, codeEggs)

	require.Equal(t, StatePayment, g.Apply(Action{Kind: ActionConfirm}))
	require.Equal(t, StatePayment, g.Apply(Action{Kind: ActionConfirm}))
	assert.Equal(t, StateSelfCheckout, g.Apply(Action{Kind: ActionCancel}))
	assert.Equal(t, 1, g.Cart().Len())

	// next attempt starts over from the first step
	require.Equal(t, StatePayment, g.Apply(Action{Kind: ActionConfirm}))
	assert.Equal(t, 0, g.paymentStep)
}

func TestPaymentCompleteArchivesAndClears(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)
	scan(g, codeEggs)
	scan(g, codeMilk)

	require.Equal(t, StatePayment, g.Apply(Action{Kind: ActionConfirm}))
	require.Equal(t, StatePayment, g.Apply(Action{Kind: ActionConfirm}))
	require.Equal(t, StatePayment, g.Apply(Action{Kind: ActionConfirm}))
	require.Equal(t, StateReceipt, g.Apply(Action{Kind: ActionConfirm}))

	assert.True(t, g.Cart().Empty())
	assert.Equal(t, currency.Amount(560), g.LastReceipt().Total)
	require.Len(t, g.LastReceipt().Lines, 2)

	stored, ok, err := g.g.Receipts.LoadLast()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, g.LastReceipt().Id, stored.Id)

	// continue shopping starts a fresh cart
	next := g.Apply(Action{Kind: ActionConfirm})
	assert.Equal(t, StateSelfCheckout, next)
	assert.True(t, g.Cart().Empty())
}

func TestReceiptCancelReturnsToMenu(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)
	scan(g, codeEggs)
	for i := 0; i < 4; i++ {
		g.Apply(Action{Kind: ActionConfirm})
	}
	require.Equal(t, StateReceipt, g.State())
	assert.Equal(t, StateMenu, g.Apply(Action{Kind: ActionCancel}))
}

func TestMenuCancelQuits(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	require.Equal(t, StateMenu, g.State())
	assert.Equal(t, StateStop, g.Apply(Action{Kind: ActionCancel}))
}

func TestLearningMatchAdvancesMismatchDoesNot(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	t0 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	next := applyAll(g, joyPress(g, 1, t0)) // blue from menu
	require.Equal(t, StateLearning, next)
	require.Len(t, g.learnQueue, 3)

	wrong := codeEggs
	if g.learnQueue[0].Code == codeEggs {
		wrong = codeBread
	}
	require.Equal(t, StateLearning, scan(g, wrong))
	score, total := g.LearningProgress()
	assert.Equal(t, 0, score)
	assert.Equal(t, 3, total)

	require.Equal(t, StateLearning, scan(g, g.learnQueue[0].Code))
	score, _ = g.LearningProgress()
	assert.Equal(t, 1, score)

	require.Equal(t, StateLearning, scan(g, g.learnQueue[1].Code))
	require.Equal(t, StateLearningSummary, scan(g, g.learnQueue[2].Code))
	score, _ = g.LearningProgress()
	assert.Equal(t, 3, score)

	assert.Equal(t, StateMenu, g.Apply(Action{Kind: ActionConfirm}))
}

func TestProductManagerScroll(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	t0 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	next := applyAll(g, joyPress(g, 2, t0)) // yellow from menu
	require.Equal(t, StateProductManager, next)

	// clamp at top
	g.Apply(Action{Kind: ActionScrollUp})
	assert.Equal(t, 0, g.Scroll())

	g.Apply(Action{Kind: ActionScrollDown})
	g.Apply(Action{Kind: ActionScrollDown})
	assert.Equal(t, 2, g.Scroll())
	// clamp at bottom, catalog has 3 products
	g.Apply(Action{Kind: ActionScrollDown})
	assert.Equal(t, 2, g.Scroll())

	// scanning means nothing while browsing the catalog
	g.Apply(Action{Kind: ActionScan, Code: codeEggs})
	assert.Equal(t, 2, g.Scroll())

	assert.Equal(t, StateMenu, g.Apply(Action{Kind: ActionCancel}))
}

func TestShutdownComboThroughPipeline(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	t0 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	// red alone from menu is just cancel
	actions := joyPress(g, 3, t0)
	require.Len(t, actions, 1)
	assert.Equal(t, ActionCancel, actions[0].Kind)

	// player1 has no action of its own
	require.Len(t, joyPress(g, 4, t0.Add(100*time.Millisecond)), 0)

	// held not long enough
	assert.Len(t, g.Tick(t0.Add(2*time.Second)), 0)

	actions = g.Tick(t0.Add(3*time.Second+100*time.Millisecond))
	require.Len(t, actions, 1)
	require.Equal(t, ActionShutdown, actions[0].Kind)
	assert.Equal(t, StateShutdown, g.Apply(actions[0]))
}

func TestShortcutDigitResolvesToProduct(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)

	t0 := time.Date(2026, 8, 31, 9, 0, 5, 0, time.UTC)
	key, ok := input.KeyFromDigit('1')
	require.True(t, ok)
	require.Len(t, g.ProcessEvent(types.InputEvent{At: t0, Source: input.DevInputEventTag, Key: key}), 0)

	// quiet period promotes the lone digit to a manual shortcut
	actions := g.Tick(t0.Add(time.Second))
	require.Len(t, actions, 1)
	require.Equal(t, ActionScan, actions[0].Kind)
	assert.Equal(t, codeMilk, actions[0].Code)

	applyAll(g, actions)
	assert.Equal(t, currency.Amount(240), g.Cart().Total())
}

func TestEscCancelsFromKeyboard(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	startSession(t, g)

	t0 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	actions := g.ProcessEvent(types.InputEvent{At: t0, Source: input.DevInputEventTag, Key: input.KeyEsc})
	require.Len(t, actions, 1)
	assert.Equal(t, ActionCancel, actions[0].Kind)
	assert.Equal(t, StateMenu, applyAll(g, actions))
}
