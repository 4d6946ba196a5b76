package state

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/astridmart/kiosk/helpers"
	"github.com/astridmart/kiosk/internal/catalog"
	"github.com/astridmart/kiosk/internal/input"
	"github.com/astridmart/kiosk/internal/receipt"
	"github.com/astridmart/kiosk/internal/tele"
	"github.com/astridmart/kiosk/log2"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
)

type Global struct {
	Alive    *alive.Alive
	Config   *Config
	Catalog  *catalog.Catalog
	Hardware struct {
		Input *input.Dispatch
	}
	Receipts *receipt.Archive
	Log      *log2.Log
	Tele     tele.Teler

	initInputOnce sync.Once

	lk sync.Mutex //nolint:unused
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg

	if g.Config.Persist.Root == "" {
		g.Config.Persist.Root = "./tmp-kiosk-db"
		g.Log.Errorf("config: persist.root=empty changed=%s", g.Config.Persist.Root)
	}
	g.Log.Debugf("config: persist.root=%s", g.Config.Persist.Root)

	// Tele is the remote error reporting mechanism, init before anything else
	if g.Config.Tele.StorePath == "" {
		g.Config.Tele.StorePath = filepath.Join(g.Config.Persist.Root, "tele")
	}
	if err := g.Tele.Init(ctx, g.Log, g.Config.Tele); err != nil {
		return errors.Annotate(err, "tele init")
	}

	errs := make([]error, 0)

	if err := g.Catalog.Init(&g.Config.Catalog, g.Log); err != nil {
		errs = append(errs, err)
	}
	{
		err := g.Receipts.Init(receipt.Config{
			Root: g.Config.Persist.Root,
			Keep: g.Config.Persist.ReceiptKeep,
		}, g.Log)
		if err != nil {
			g.Error(err)
			g.Tele.State(tele.State_Problem)
			errs = append(errs, err)
		}
	}

	g.initInput()

	return helpers.FoldErrors(errs)
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Errorf(errors.ErrorStack(err))
		g.Tele.Error(err)
	}
}

func (g *Global) Stop() {
	g.Alive.Stop()
}

func (g *Global) initInput() {
	g.initInputOnce.Do(func() {
		g.Hardware.Input = input.NewDispatch(g.Log, g.Alive.StopChan())
	})
}

// InputSources opens the devices enabled in config.
func (g *Global) InputSources() ([]input.Source, error) {
	sources := make([]input.Source, 0, 2)
	errs := make([]error, 0)

	if g.Config.Input.DevInputEvent.Enable {
		src, err := input.NewDevInputEventSource(g.Config.Input.DevInputEvent.Device)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "input dev_input_event device=%s", g.Config.Input.DevInputEvent.Device))
		} else {
			sources = append(sources, src)
		}
	}
	if g.Config.Input.Joystick.Enable {
		src, err := input.NewJoystickSource(g.Config.Input.Joystick.Index)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "input joystick index=%d", g.Config.Input.Joystick.Index))
		} else {
			sources = append(sources, src)
		}
	}
	if g.Config.Input.Serial.Enable {
		src, err := input.NewSerialSource(g.Config.Input.Serial.Device)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "input serial device=%s", g.Config.Input.Serial.Device))
		} else {
			sources = append(sources, src)
		}
	}

	return sources, helpers.FoldErrors(errs)
}
