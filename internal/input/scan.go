package input

import (
	"time"

	"github.com/astridmart/kiosk/log2"
)

const (
	DefaultScanGap          = 100 * time.Millisecond
	DefaultManualConfirm    = 250 * time.Millisecond
	DefaultScanFlushTimeout = 500 * time.Millisecond
	DefaultBarcodeMinLen    = 8
	DefaultBarcodeMaxLen    = 13
)

type ScanConfig struct {
	// Gap is the maximum pause between two characters of one scanner
	// burst. A gap equal to the threshold still counts as a burst.
	Gap time.Duration
	// ManualConfirm is the quiet period after which a lone character
	// is promoted to a confirmed manual shortcut.
	ManualConfirm time.Duration
	// FlushTimeout flushes a buffered burst from scanners that send
	// no terminator key.
	FlushTimeout time.Duration
	MinLen       int
	MaxLen       int
}

func (c ScanConfig) withDefaults() ScanConfig {
	if c.Gap == 0 {
		c.Gap = DefaultScanGap
	}
	if c.ManualConfirm == 0 {
		c.ManualConfirm = DefaultManualConfirm
	}
	if c.FlushTimeout == 0 {
		c.FlushTimeout = DefaultScanFlushTimeout
	}
	if c.MinLen == 0 {
		c.MinLen = DefaultBarcodeMinLen
	}
	if c.MaxLen == 0 {
		c.MaxLen = DefaultBarcodeMaxLen
	}
	return c
}

type ResultKind uint8

const (
	ResultNone ResultKind = iota
	ResultPending
	ResultBarcode
	ResultShortcut
	ResultReject
)

type Result struct {
	Code string
	Kind ResultKind
}

// Classifier decides by timing whether a character stream is a barcode
// scanner burst or manual typing. A scanner emulating a keyboard sends
// 8-13 characters well under 100ms apart; a human cannot, and the only
// legitimate manual numeric input is a single shortcut keystroke.
//
// One character alone is ambiguous: it may be a manual shortcut or the
// start of a burst. The caller resolves it by time, calling Tick once
// per frame; after ManualConfirm of silence the character is promoted
// to a shortcut, a follow-up within Gap demotes it into the burst
// buffer.
type Classifier struct {
	log  *log2.Log
	cfg  ScanConfig
	buf  []byte
	last time.Time
}

func NewClassifier(cfg ScanConfig, log *log2.Log) *Classifier {
	cfg = cfg.withDefaults()
	return &Classifier{
		log: log,
		cfg: cfg,
		buf: make([]byte, 0, cfg.MaxLen),
	}
}

func (self *Classifier) Pending() string { return string(self.buf) }

// Feed accepts the next character of the stream.
func (self *Classifier) Feed(ch byte, t time.Time) Result {
	if ch < '0' || ch > '9' {
		// not plausible for a barcode: whatever was buffered was typing
		if len(self.buf) > 0 {
			self.log.Debugf("scan reject manual char=%q buffered=%q", ch, self.buf)
			self.reset()
			return Result{Kind: ResultReject}
		}
		return Result{Kind: ResultNone}
	}

	if len(self.buf) > 0 && t.Sub(self.last) > self.cfg.Gap {
		// stale buffer was manual typing, not a scan
		self.log.Debugf("scan stale gap=%v buffered=%q", t.Sub(self.last), self.buf)
		self.buf = self.buf[:0]
	}

	self.buf = append(self.buf, ch)
	self.last = t

	if len(self.buf) >= self.cfg.MaxLen {
		return self.complete()
	}
	return Result{Kind: ResultPending}
}

// FeedEnter handles the scanner terminator key.
func (self *Classifier) FeedEnter(t time.Time) Result {
	if len(self.buf) == 0 {
		return Result{Kind: ResultNone}
	}
	return self.complete()
}

// Tick runs time-driven promotion and flushing. Call once per frame.
func (self *Classifier) Tick(now time.Time) Result {
	if len(self.buf) == 0 {
		return Result{Kind: ResultNone}
	}
	quiet := now.Sub(self.last)
	if len(self.buf) == 1 {
		if quiet >= self.cfg.ManualConfirm {
			code := string(self.buf)
			self.reset()
			return Result{Kind: ResultShortcut, Code: code}
		}
		return Result{Kind: ResultNone}
	}
	if quiet >= self.cfg.FlushTimeout {
		// scanner without terminator key
		return self.complete()
	}
	return Result{Kind: ResultNone}
}

func (self *Classifier) complete() Result {
	code := string(self.buf)
	self.reset()
	if len(code) >= self.cfg.MinLen && len(code) <= self.cfg.MaxLen {
		return Result{Kind: ResultBarcode, Code: code}
	}
	self.log.Debugf("scan reject len=%d code=%q", len(code), code)
	return Result{Kind: ResultReject}
}

func (self *Classifier) reset() {
	self.buf = self.buf[:0]
	self.last = time.Time{}
}
