package state

import (
	"context"
	"testing"

	"github.com/astridmart/kiosk/internal/catalog"
	"github.com/astridmart/kiosk/internal/receipt"
	"github.com/astridmart/kiosk/internal/tele"
	"github.com/astridmart/kiosk/log2"
	"github.com/temoto/alive/v2"
)

func NewContext(log *log2.Log, teler tele.Teler) (context.Context, *Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &Global{
		Alive:    alive.NewAlive(),
		Catalog:  catalog.NewCatalog(),
		Receipts: &receipt.Archive{},
		Log:      log,
		Tele:     teler,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, ContextKey, g)

	return ctx, g
}

func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log, tele.NewStub())
	g.MustInit(ctx, MustReadConfig(log, fs, "test-inline"))

	return ctx, g
}
