package state

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/astridmart/kiosk/helpers"
	"github.com/astridmart/kiosk/internal/catalog"
	"github.com/astridmart/kiosk/internal/input"
	"github.com/astridmart/kiosk/internal/tele"
	"github.com/astridmart/kiosk/log2"
	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Input struct {
		DevInputEvent struct {
			Enable bool   `hcl:"enable"`
			Device string `hcl:"device"`
		} `hcl:"dev_input_event"`
		Joystick struct {
			Enable bool `hcl:"enable"`
			Index  int  `hcl:"index"`
		} `hcl:"joystick"`
		Serial struct {
			Enable bool   `hcl:"enable"`
			Device string `hcl:"device"`
		} `hcl:"serial"`
		ScannerGapMs       int `hcl:"scanner_gap_ms"`
		ManualConfirmMs    int `hcl:"manual_confirm_ms"`
		ScanFlushTimeoutMs int `hcl:"scan_flush_timeout_ms"`
		BarcodeMinLen      int `hcl:"barcode_min_len"`
		BarcodeMaxLen      int `hcl:"barcode_max_len"`
		Buttons            struct {
			Joystick map[string]int `hcl:"joystick"`
			Key      map[string]int `hcl:"key"`
		} `hcl:"buttons"`
	}

	Game struct {
		ScanCooldownMs int    `hcl:"scan_cooldown_ms"`
		ShutdownHoldMs int    `hcl:"shutdown_hold_ms"`
		ShutdownCmd    string `hcl:"shutdown_cmd"`
		ReceiptHeader  string `hcl:"receipt_header"`
		MsgIntro       string `hcl:"msg_intro"`
		MsgError       string `hcl:"msg_error"`
		MsgUnknownCode string `hcl:"msg_unknown_code"`
	}

	Catalog catalog.Config `hcl:"catalog"`

	Persist struct {
		Root        string `hcl:"root"`
		ReceiptKeep int    `hcl:"receipt_keep"`
	}

	Tele tele.Config

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) ScanConfig() input.ScanConfig {
	return input.ScanConfig{
		Gap:           helpers.IntMillisecondDefault(c.Input.ScannerGapMs, input.DefaultScanGap),
		ManualConfirm: helpers.IntMillisecondDefault(c.Input.ManualConfirmMs, input.DefaultManualConfirm),
		FlushTimeout:  helpers.IntMillisecondDefault(c.Input.ScanFlushTimeoutMs, input.DefaultScanFlushTimeout),
		MinLen:        c.Input.BarcodeMinLen,
		MaxLen:        c.Input.BarcodeMaxLen,
	}
}

func (c *Config) ScanCooldown() time.Duration {
	return helpers.IntMillisecondDefault(c.Game.ScanCooldownMs, 1*time.Second)
}

func (c *Config) ShutdownHold() time.Duration {
	return helpers.IntMillisecondDefault(c.Game.ShutdownHoldMs, 3*time.Second)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		log.Fatalf("config duplicate source=%s", source.Name)
	} else {
		log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	}
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
			return
		}
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
