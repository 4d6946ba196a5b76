// Package receipt keeps finished transactions on disk, surviving the
// power cuts an unattended kiosk is regularly subjected to.
package receipt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/astridmart/kiosk/internal/cart"
	"github.com/astridmart/kiosk/log2"
	"github.com/juju/errors"
	"github.com/temoto/extremofile"
)

const DefaultKeep = 100

type Config struct {
	Root string `hcl:"root"`
	Keep int    `hcl:"keep"`
}

type storage interface {
	Read() ([]byte, error)
	io.Writer
}

type document struct {
	Receipts []cart.Receipt `json:"receipts"`
}

// Archive binds receipt history to persistent storage.
type Archive struct {
	sync.Mutex
	log     *log2.Log
	keep    int
	storage storage
}

func (self *Archive) Init(c Config, log *log2.Log) error {
	self.log = log
	self.keep = c.Keep
	if self.keep == 0 {
		self.keep = DefaultKeep
	}
	if c.Root == "" {
		self.log.Debugf("receipt archive disabled root=empty")
		return nil
	}
	self.storage = extremofile.New(extremofile.Config{
		Dir:      filepath.Join(c.Root, "receipts"),
		DirPerm:  0755,
		FilePerm: 0644,
	})
	return nil
}

func (self *Archive) Enabled() bool { return self.storage != nil }

// Store appends a receipt, trimming history to the configured size.
func (self *Archive) Store(r cart.Receipt) error {
	if self.storage == nil {
		return nil
	}
	self.Lock()
	defer self.Unlock()

	doc, err := self.load()
	if err != nil {
		// history is best effort, the new receipt must not be lost
		self.log.Errorf("receipt archive ignore non-critical err=%v", err)
		doc = document{}
	}
	doc.Receipts = append(doc.Receipts, r)
	if len(doc.Receipts) > self.keep {
		doc.Receipts = doc.Receipts[len(doc.Receipts)-self.keep:]
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Annotatef(err, "receipt archive marshal id=%s", r.Id)
	}
	tbegin := time.Now()
	_, err = self.storage.Write(b)
	self.log.Debugf("receipt archive write duration=%v", time.Since(tbegin))
	return errors.Annotatef(err, "receipt archive store id=%s", r.Id)
}

// LoadLast returns the most recent receipt, ok=false on empty history.
func (self *Archive) LoadLast() (cart.Receipt, bool, error) {
	if self.storage == nil {
		return cart.Receipt{}, false, nil
	}
	self.Lock()
	defer self.Unlock()

	doc, err := self.load()
	if err != nil {
		return cart.Receipt{}, false, errors.Annotate(err, "receipt archive load")
	}
	if len(doc.Receipts) == 0 {
		return cart.Receipt{}, false, nil
	}
	return doc.Receipts[len(doc.Receipts)-1], true, nil
}

// LoadAll returns history oldest first.
func (self *Archive) LoadAll() ([]cart.Receipt, error) {
	if self.storage == nil {
		return nil, nil
	}
	self.Lock()
	defer self.Unlock()

	doc, err := self.load()
	if err != nil {
		return nil, errors.Annotate(err, "receipt archive load")
	}
	return doc.Receipts, nil
}

func (self *Archive) load() (document, error) {
	doc := document{}
	b, err := self.storage.Read()
	if b == nil {
		return doc, err
	}
	if err != nil {
		self.log.Errorf("receipt archive ignore non-critical storage err=%v", err)
	}
	err = json.Unmarshal(b, &doc)
	return doc, err
}
