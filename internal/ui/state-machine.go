package ui

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/astridmart/kiosk/internal/tele"
	"github.com/astridmart/kiosk/internal/types"
)

type State uint32

const (
	StateDefault State = iota

	StateMenu           // attract screen, mode select
	StateSelfCheckout   // scanning session, cart open
	StatePayment        // pretend payment steps
	StateReceipt        // transaction done, receipt shown
	StateLearning       // find-the-product quiz
	StateLearningSummary
	StateProductManager // catalog browser

	StateShutdown // combo requested system shutdown
	StateStop
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "Default"
	case StateMenu:
		return "Menu"
	case StateSelfCheckout:
		return "SelfCheckout"
	case StatePayment:
		return "Payment"
	case StateReceipt:
		return "Receipt"
	case StateLearning:
		return "Learning"
	case StateLearningSummary:
		return "LearningSummary"
	case StateProductManager:
		return "ProductManager"
	case StateShutdown:
		return "Shutdown"
	case StateStop:
		return "Stop"
	}
	return "?"
}

func (self *Game) State() State       { return State(atomic.LoadUint32((*uint32)(&self.state))) }
func (self *Game) setState(new State) { atomic.StoreUint32((*uint32)(&self.state), uint32(new)) }

const tickInterval = 50 * time.Millisecond

func (self *Game) Loop(ctx context.Context) {
	self.g.Alive.Add(1)
	defer self.g.Alive.Done()

	for self.State() != StateStop && self.g.Alive.IsRunning() {
		e := self.wait(tickInterval)
		var actions []Action
		switch e.Kind {
		case types.EventInput:
			actions = self.ProcessEvent(e.Input)
		case types.EventTime:
			actions = self.Tick(time.Now())
		case types.EventStop:
			self.setState(StateStop)
			continue
		}
		for _, a := range actions {
			next := self.Apply(a)
			switch next {
			case StateShutdown:
				self.g.Log.Infof("game shutdown requested")
				self.g.Tele.State(tele.State_Shutdown)
				atomic.StoreUint32(&self.shutdownRequested, 1)
				self.g.Stop()
			case StateStop:
				self.g.Log.Infof("game quit")
				self.g.Stop()
			}
		}
	}
	self.setState(StateStop)
	self.g.Log.Debugf("game loop end")
}

// ShutdownRequested reports whether the stop was caused by the button
// combo, as opposed to a signal or tele command.
func (self *Game) ShutdownRequested() bool {
	return atomic.LoadUint32(&self.shutdownRequested) == 1
}

func (self *Game) wait(timeout time.Duration) types.Event {
	tmr := time.NewTimer(timeout)
	defer tmr.Stop()
	select {
	case e := <-self.inputch:
		return types.Event{Kind: types.EventInput, Input: e}

	case <-self.g.Alive.StopChan():
		return types.Event{Kind: types.EventStop}

	case <-tmr.C:
		return types.Event{Kind: types.EventTime}
	}
}
