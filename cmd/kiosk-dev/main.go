// Development console: drives the game loop with synthetic input
// events instead of real scanner/joystick hardware.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/astridmart/kiosk/helpers/cli"
	"github.com/astridmart/kiosk/internal/input"
	"github.com/astridmart/kiosk/internal/state"
	"github.com/astridmart/kiosk/internal/tele"
	"github.com/astridmart/kiosk/internal/types"
	"github.com/astridmart/kiosk/internal/ui"
	"github.com/astridmart/kiosk/log2"
	prompt "github.com/c-bata/go-prompt"
)

var log = log2.NewStderr(log2.LDebug)

const usage = `commands:
scan <digits>   emulate scanner burst, 10ms between keys, enter at the end
type <digits>   emulate manual typing, 300ms between keys
key <k>         single key: 0-9 enter esc up down
btn <color>     joystick press+release: green blue yellow red player1
hold <color>    joystick press without release
release <color> joystick release
state cart msg receipt  show game internals
exit`

type console struct {
	g    *state.Global
	game *ui.Game
	joy  map[string]types.InputKey
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "kiosk.hcl", "")
	cmdline.Parse(os.Args[1:]) //nolint:errcheck

	log.SetFlags(log2.LInteractiveFlags)

	ctx, g := state.NewContext(log, tele.NewStub())
	g.MustInit(ctx, state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig))

	game := &ui.Game{}
	if err := game.Init(ctx); err != nil {
		log.Fatal(err)
	}
	go game.Loop(ctx)

	c := &console{g: g, game: game, joy: joystickMap(g)}
	log.Infof("kiosk-dev ready, `help` lists commands")
	cli.MainLoop("kiosk-dev", c.exec, c.complete)
}

func joystickMap(g *state.Global) map[string]types.InputKey {
	m := map[string]types.InputKey{
		"green": 0, "blue": 1, "yellow": 2, "red": 3, "player1": 4,
	}
	for name, code := range g.Config.Input.Buttons.Joystick {
		m[name] = types.InputKey(code)
	}
	return m
}

func (c *console) emit(source string, key types.InputKey, up bool) {
	c.g.Hardware.Input.Emit(types.InputEvent{At: time.Now(), Source: source, Key: key, Up: up})
}

func (c *console) emitDigits(digits string, step time.Duration) {
	for i := 0; i < len(digits); i++ {
		key, ok := input.KeyFromDigit(digits[i])
		if !ok {
			fmt.Printf("not a digit: %c\n", digits[i])
			return
		}
		c.emit(input.DevInputEventTag, key, false)
		c.emit(input.DevInputEventTag, key, true)
		time.Sleep(step)
	}
}

func (c *console) exec(line string) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}
	arg := ""
	if len(words) > 1 {
		arg = words[1]
	}

	switch words[0] {
	case "help":
		fmt.Println(usage)

	case "scan":
		c.emitDigits(arg, 10*time.Millisecond)
		c.emit(input.DevInputEventTag, input.KeyEnter, false)
		c.emit(input.DevInputEventTag, input.KeyEnter, true)

	case "type":
		c.emitDigits(arg, 300*time.Millisecond)

	case "key":
		var key types.InputKey
		switch arg {
		case "enter":
			key = input.KeyEnter
		case "esc":
			key = input.KeyEsc
		case "up":
			key = input.KeyUp
		case "down":
			key = input.KeyDown
		default:
			if len(arg) != 1 {
				fmt.Println("key <0-9|enter|esc|up|down>")
				return
			}
			k, ok := input.KeyFromDigit(arg[0])
			if !ok {
				fmt.Println("key <0-9|enter|esc|up|down>")
				return
			}
			key = k
		}
		c.emit(input.DevInputEventTag, key, false)
		c.emit(input.DevInputEventTag, key, true)

	case "btn", "hold", "release":
		key, ok := c.joy[arg]
		if !ok {
			fmt.Println("btn <green|blue|yellow|red|player1>")
			return
		}
		switch words[0] {
		case "btn":
			c.emit(input.JoystickTag, key, false)
			c.emit(input.JoystickTag, key, true)
		case "hold":
			c.emit(input.JoystickTag, key, false)
		case "release":
			c.emit(input.JoystickTag, key, true)
		}

	case "state":
		fmt.Println(c.game.State().String())

	case "msg":
		fmt.Println(c.game.Message())

	case "cart":
		for _, l := range c.game.Cart().Lines() {
			fmt.Printf("%-30s %s\n", l.Name, l.Price.Format100I())
		}
		fmt.Printf("total=%s\n", c.game.Cart().Total().Format100I())

	case "receipt":
		r := c.game.LastReceipt()
		if r.Id == "" {
			fmt.Println("no receipt yet")
			return
		}
		for _, line := range r.Render(c.g.Config.Game.ReceiptHeader) {
			fmt.Println(line)
		}

	case "exit", "quit":
		c.g.Stop()
		os.Exit(0)

	default:
		fmt.Println(usage)
	}
}

func (c *console) complete(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "scan", Description: "emulate scanner burst"},
		{Text: "type", Description: "emulate manual typing"},
		{Text: "key", Description: "single key event"},
		{Text: "btn", Description: "joystick button pulse"},
		{Text: "hold", Description: "joystick button press"},
		{Text: "release", Description: "joystick button release"},
		{Text: "state", Description: "current game state"},
		{Text: "cart", Description: "cart content"},
		{Text: "msg", Description: "status line"},
		{Text: "receipt", Description: "last receipt"},
		{Text: "help", Description: ""},
		{Text: "exit", Description: ""},
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}
