package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/astridmart/kiosk/helpers"
	"github.com/astridmart/kiosk/internal/cart"
	"github.com/astridmart/kiosk/internal/catalog"
	"github.com/astridmart/kiosk/internal/input"
	"github.com/astridmart/kiosk/internal/state"
	"github.com/astridmart/kiosk/internal/tele"
	"github.com/astridmart/kiosk/internal/types"
	"github.com/juju/errors"
	"github.com/temoto/atomic_clock"
)

const paymentStepSuccess = 2

// Game is the kiosk mode state machine. It consumes raw input events,
// runs them through the scan burst classifier and the button mapping,
// and applies the resulting actions to the current mode.
//
// ProcessEvent/Tick/Apply are synchronous and single-goroutine, only
// Loop and State are safe to call concurrently.
type Game struct { //nolint:maligned
	g          *state.Global
	state      State
	cart       *cart.Cart
	classifier *input.Classifier
	buttons    ButtonMapping
	combo      *ComboDetector

	scanCooldown time.Duration
	lastScanAt   time.Time

	paymentStep int
	lastReceipt cart.Receipt

	learnQueue []catalog.Product
	learnIndex int
	learnScore int

	scroll int

	sessionStart *atomic_clock.Clock

	msg     string
	inputch chan types.InputEvent

	shutdownRequested uint32

	XXX_testHook func(State)
}

func (self *Game) Init(ctx context.Context) error {
	self.g = state.GetGlobal(ctx)

	if self.g.Config.Game.MsgIntro == "" {
		self.g.Config.Game.MsgIntro = "Welcome! Press green to start"
	}
	if self.g.Config.Game.MsgError == "" {
		self.g.Config.Game.MsgError = "Sorry, something went wrong"
	}
	if self.g.Config.Game.MsgUnknownCode == "" {
		self.g.Config.Game.MsgUnknownCode = "Unknown product"
	}

	buttons, err := NewButtonMapping(self.g.Config.Input.Buttons.Joystick, self.g.Config.Input.Buttons.Key)
	if err != nil {
		return errors.Annotate(err, "game.Init buttons")
	}
	self.buttons = buttons
	self.classifier = input.NewClassifier(self.g.Config.ScanConfig(), self.g.Log)
	self.combo = NewComboDetector(self.g.Config.ShutdownHold())
	self.scanCooldown = self.g.Config.ScanCooldown()
	self.cart = cart.New()
	self.sessionStart = atomic_clock.New()
	self.inputch = self.g.Hardware.Input.SubscribeChan("game", self.g.Alive.StopChan())

	self.msg = self.g.Config.Game.MsgIntro
	self.setState(StateMenu)
	self.g.Tele.State(tele.State_Nominal)
	return nil
}

// Message is the current customer-facing status line.
func (self *Game) Message() string { return self.msg }

func (self *Game) Cart() *cart.Cart          { return self.cart }
func (self *Game) LastReceipt() cart.Receipt { return self.lastReceipt }
func (self *Game) Scroll() int               { return self.scroll }

// LearningProgress returns matched count and queue length.
func (self *Game) LearningProgress() (int, int) { return self.learnScore, len(self.learnQueue) }

// ProcessEvent turns one device event into zero or more actions.
func (self *Game) ProcessEvent(e types.InputEvent) []Action {
	switch e.Source {
	case input.JoystickTag:
		return self.processJoystick(e)
	default:
		return self.processKey(e)
	}
}

func (self *Game) processJoystick(e types.InputEvent) []Action {
	color, ok := self.buttons.JoyColor(e.Key)
	if !ok {
		self.g.Log.Debugf("game joystick unmapped button=%d", e.Key)
		return nil
	}
	return self.processColor(color, e)
}

func (self *Game) processKey(e types.InputEvent) []Action {
	if color, ok := self.buttons.KeyColor(e.Key); ok {
		return self.processColor(color, e)
	}
	if e.Up {
		return nil
	}

	switch {
	case e.Key == input.KeyEsc:
		return []Action{{Kind: ActionCancel}}
	case e.Key == input.KeyUp:
		return []Action{{Kind: ActionScrollUp}}
	case e.Key == input.KeyDown:
		return []Action{{Kind: ActionScrollDown}}
	case input.IsEnterKey(e.Key):
		return self.scanResult(self.classifier.FeedEnter(e.At), e.At)
	}
	if ch, ok := input.DigitKey(e.Key); ok {
		return self.scanResult(self.classifier.Feed(ch, e.At), e.At)
	}
	self.g.Log.Debugf("game key ignored code=%d", e.Key)
	return nil
}

func (self *Game) processColor(color Color, e types.InputEvent) []Action {
	actions := make([]Action, 0, 2)
	if e.Up {
		self.combo.Release(color, e.At)
		return nil
	}
	self.combo.Press(color, e.At)
	if self.combo.Check(e.At) {
		actions = append(actions, Action{Kind: ActionShutdown})
	}
	if kind := colorAction(self.State(), color); kind != ActionNone {
		actions = append(actions, Action{Kind: kind})
	}
	return actions
}

// Tick runs the time-driven parts: scan buffer promotion/flush and the
// held shutdown combo.
func (self *Game) Tick(now time.Time) []Action {
	actions := self.scanResult(self.classifier.Tick(now), now)
	if self.combo.Check(now) {
		actions = append(actions, Action{Kind: ActionShutdown})
	}
	return actions
}

func (self *Game) scanResult(r input.Result, at time.Time) []Action {
	switch r.Kind {
	case input.ResultBarcode:
		if self.State() == StateProductManager {
			// scanning means nothing while browsing the catalog
			return nil
		}
		if !self.lastScanAt.IsZero() && at.Sub(self.lastScanAt) < self.scanCooldown {
			self.g.Log.Debugf("game scan cooldown code=%s", r.Code)
			return nil
		}
		self.lastScanAt = at
		return []Action{{Kind: ActionScan, Code: r.Code}}

	case input.ResultShortcut:
		code, ok := self.g.Catalog.Shortcut(r.Code[0])
		if !ok {
			self.g.Log.Debugf("game shortcut unmapped digit=%s", r.Code)
			return nil
		}
		return []Action{{Kind: ActionScan, Code: code}}

	case input.ResultReject:
		self.g.Log.Debugf("game scan rejected")
	}
	return nil
}

// Apply runs one action against the current mode and returns the next
// state. All mode transition side effects happen here.
func (self *Game) Apply(a Action) State {
	current := self.State()
	next := self.apply(current, a)
	if next != current {
		self.g.Log.Debugf("game %s -[%s]-> %s", current.String(), a.String(), next.String())
		self.setState(next)
	}
	if self.XXX_testHook != nil {
		self.XXX_testHook(next)
	}
	return next
}

func (self *Game) apply(s State, a Action) State {
	if a.Kind == ActionShutdown {
		return StateShutdown
	}

	switch s {
	case StateMenu:
		return self.applyMenu(a)
	case StateSelfCheckout:
		return self.applySelfCheckout(a)
	case StatePayment:
		return self.applyPayment(a)
	case StateReceipt:
		return self.applyReceipt(a)
	case StateLearning:
		return self.applyLearning(a)
	case StateLearningSummary:
		return self.applyLearningSummary(a)
	case StateProductManager:
		return self.applyProductManager(a)
	}
	return s
}

func (self *Game) applyMenu(a Action) State {
	switch a.Kind {
	case ActionConfirm:
		return self.beginSession()

	case ActionScan:
		// scanning from the attract screen opens a session right away
		next := self.beginSession()
		self.addScan(a.Code)
		return next

	case ActionLearning:
		queue := self.g.Catalog.Shuffled(helpers.RandUnix())
		if len(queue) == 0 {
			self.g.Log.Infof("game learning empty catalog")
			return StateMenu
		}
		self.learnQueue = queue
		self.learnIndex = 0
		self.learnScore = 0
		self.msg = fmt.Sprintf("Find: %s", queue[0].Name)
		return StateLearning

	case ActionProductManager:
		self.scroll = 0
		return StateProductManager

	case ActionCancel:
		// cancel on the attract screen quits the program, the host
		// decides what happens next
		return StateStop
	}
	return StateMenu
}

func (self *Game) applySelfCheckout(a Action) State {
	switch a.Kind {
	case ActionScan:
		self.addScan(a.Code)

	case ActionRemoveLast:
		if line, ok := self.cart.RemoveLast(); ok {
			self.msg = fmt.Sprintf("Removed %s", line.Name)
			if n := self.cart.Len(); self.scroll >= n {
				self.scroll = 0
				if n > 0 {
					self.scroll = n - 1
				}
			}
		}

	case ActionClearCart:
		self.cart.Clear()
		self.scroll = 0
		self.msg = "Cart cleared"

	case ActionScrollUp:
		if self.scroll > 0 {
			self.scroll--
		}

	case ActionScrollDown:
		if self.scroll < self.cart.Len()-1 {
			self.scroll++
		}

	case ActionConfirm:
		if self.cart.Empty() {
			self.msg = "Cart is empty, scan something first"
			return StateSelfCheckout
		}
		self.paymentStep = 0
		self.msg = fmt.Sprintf("Total %s", self.cart.Total().Format100I())
		return StatePayment

	case ActionCancel:
		self.g.Log.Infof("game session abandoned items=%d total=%s",
			self.cart.Len(), self.cart.Total().Format100I())
		self.cart.Clear()
		self.msg = self.g.Config.Game.MsgIntro
		self.g.Tele.State(tele.State_Nominal)
		return StateMenu
	}
	return StateSelfCheckout
}

func (self *Game) applyPayment(a Action) State {
	switch a.Kind {
	case ActionConfirm:
		if self.paymentStep < paymentStepSuccess {
			self.paymentStep++
			return StatePayment
		}
		return self.finishPayment()

	case ActionCancel:
		// back to scanning, cart kept
		self.msg = "Payment cancelled"
		return StateSelfCheckout
	}
	return StatePayment
}

func (self *Game) finishPayment() State {
	at := time.Now()
	r := self.cart.Snapshot(at)
	if err := self.g.Receipts.Store(r); err != nil {
		self.g.Error(errors.Annotatef(err, "receipt id=%s", r.Id))
	}
	self.g.Tele.Transaction(r)
	self.lastReceipt = r
	self.cart.Clear()
	self.g.Log.Infof("game transaction id=%s total=%s duration=%v",
		r.Id, r.Total.Format100I(), atomic_clock.Since(self.sessionStart))
	self.msg = "Thank you!"
	return StateReceipt
}

func (self *Game) applyReceipt(a Action) State {
	switch a.Kind {
	case ActionConfirm:
		// continue shopping with a fresh cart
		return self.beginSession()

	case ActionScan:
		next := self.beginSession()
		self.addScan(a.Code)
		return next

	case ActionCancel:
		self.msg = self.g.Config.Game.MsgIntro
		self.g.Tele.State(tele.State_Nominal)
		return StateMenu
	}
	return StateReceipt
}

func (self *Game) applyLearning(a Action) State {
	switch a.Kind {
	case ActionScan:
		target := self.learnQueue[self.learnIndex]
		if a.Code != target.Code {
			self.msg = fmt.Sprintf("Not quite, find: %s", target.Name)
			return StateLearning
		}
		self.learnScore++
		self.learnIndex++
		if self.learnIndex >= len(self.learnQueue) {
			self.msg = fmt.Sprintf("Done! Found %d of %d", self.learnScore, len(self.learnQueue))
			return StateLearningSummary
		}
		self.msg = fmt.Sprintf("Find: %s", self.learnQueue[self.learnIndex].Name)

	case ActionCancel:
		self.msg = self.g.Config.Game.MsgIntro
		return StateMenu
	}
	return StateLearning
}

func (self *Game) applyLearningSummary(a Action) State {
	switch a.Kind {
	case ActionConfirm, ActionCancel:
		self.msg = self.g.Config.Game.MsgIntro
		return StateMenu
	}
	return StateLearningSummary
}

func (self *Game) applyProductManager(a Action) State {
	switch a.Kind {
	case ActionScrollUp:
		if self.scroll > 0 {
			self.scroll--
		}

	case ActionScrollDown:
		if self.scroll < self.g.Catalog.Len()-1 {
			self.scroll++
		}

	case ActionCancel:
		self.msg = self.g.Config.Game.MsgIntro
		return StateMenu
	}
	return StateProductManager
}

func (self *Game) beginSession() State {
	self.cart = cart.New()
	self.scroll = 0
	self.sessionStart.SetNow()
	self.msg = "Scan your products"
	self.g.Tele.State(tele.State_Session)
	return StateSelfCheckout
}

func (self *Game) addScan(code string) {
	p, ok := self.g.Catalog.Lookup(code)
	self.g.Tele.Scan(code, ok)
	if !ok {
		self.g.Log.Infof("game scan unknown code=%s", code)
		self.msg = self.g.Config.Game.MsgUnknownCode
		return
	}
	self.cart.Add(p, time.Now())
	self.msg = fmt.Sprintf("%s %s", p.Name, p.Price.Format100I())
}
