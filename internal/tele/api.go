package tele

import (
	"context"
	"time"

	"github.com/astridmart/kiosk/internal/cart"
	"github.com/astridmart/kiosk/log2"
)

type State byte

const (
	State_Invalid  State = 0
	State_Boot     State = 1
	State_Nominal  State = 2
	State_Session  State = 3
	State_Problem  State = 4
	State_Shutdown State = 5
)

func (s State) String() string {
	switch s {
	case State_Boot:
		return "boot"
	case State_Nominal:
		return "nominal"
	case State_Session:
		return "session"
	case State_Problem:
		return "problem"
	case State_Shutdown:
		return "shutdown"
	}
	return "invalid"
}

// Teler is the telemetry client, kiosk side.
// Contract:
// - Init() fails only with invalid config, network issues are ignored
// - Public API calls never block on network, messages go out in background
// - Transaction messages are delivered at least once, state may be lost
type Teler interface {
	Init(context.Context, *log2.Log, Config) error
	Close()
	State(State)
	Scan(code string, known bool)
	Transaction(cart.Receipt)
	Error(error)
}

type stub struct{}

func (stub) Init(context.Context, *log2.Log, Config) error { return nil }
func (stub) Close()                                        {}
func (stub) State(State)                                   {}
func (stub) Scan(code string, known bool)                  {}
func (stub) Transaction(cart.Receipt)                      {}
func (stub) Error(error)                                   {}

func NewStub() Teler { return stub{} }

// wire formats, JSON for broker side simplicity

type stateMessage struct {
	KioskId int    `json:"kiosk_id"`
	State   string `json:"state"`
	At      int64  `json:"at"`
}

type scanMessage struct {
	KioskId int    `json:"kiosk_id"`
	Code    string `json:"code"`
	Known   bool   `json:"known"`
	At      int64  `json:"at"`
}

type transactionMessage struct {
	KioskId int          `json:"kiosk_id"`
	Receipt cart.Receipt `json:"receipt"`
}

type errorMessage struct {
	KioskId int    `json:"kiosk_id"`
	Error   string `json:"error"`
	At      int64  `json:"at"`
}

func now() int64 { return time.Now().Unix() }
