package main

import (
	"flag"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/astridmart/kiosk/internal/state"
	"github.com/astridmart/kiosk/internal/tele"
	"github.com/astridmart/kiosk/internal/ui"
	"github.com/astridmart/kiosk/log2"
	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
)

var log = log2.NewStderr(log2.LDebug)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "kiosk.hcl", "")
	cmdline.Parse(os.Args[1:]) //nolint:errcheck

	if sdnotify("start") {
		// under systemd, journal adds timestamps
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.Debugf("hello")

	ctx, g := state.NewContext(log, tele.New())
	g.MustInit(ctx, state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig))

	sources, err := g.InputSources()
	if err != nil {
		// partial input is still a working kiosk, report and continue
		g.Error(errors.Annotate(err, "input devices"))
	}
	if len(sources) == 0 {
		log.Infof("no input devices enabled, check config input{}")
	}
	go g.Hardware.Input.Run(sources)

	game := &ui.Game{}
	if err := game.Init(ctx); err != nil {
		log.Fatal(errors.ErrorStack(errors.Annotate(err, "game init")))
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-signalCh
		log.Infof("signal=%v", s)
		g.Stop()
	}()

	sdnotify(daemon.SdNotifyReady)
	log.Infof("init complete, running")
	game.Loop(ctx)
	g.Alive.Wait()
	g.Tele.Close()

	if game.ShutdownRequested() && g.Config.Game.ShutdownCmd != "" {
		log.Infof("executing shutdown_cmd=%s", g.Config.Game.ShutdownCmd)
		cmd := exec.Command("/bin/sh", "-c", g.Config.Game.ShutdownCmd)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			log.Errorf("shutdown_cmd err=%v", err)
		}
	}
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
