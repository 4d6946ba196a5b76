// Package catalog is the product database of the kiosk.
// Products are declared in config, loaded once at startup and
// immutable afterwards. Editing happens outside this process.
package catalog

import (
	"math/rand"

	"github.com/juju/errors"
	"github.com/astridmart/kiosk/currency"
	"github.com/astridmart/kiosk/helpers"
	"github.com/astridmart/kiosk/log2"
)

type Config struct {
	Products  []ProductConfig  `hcl:"product"`
	Shortcuts []ShortcutConfig `hcl:"shortcut"`
}

type ProductConfig struct {
	Code        string `hcl:"code,key"`
	Name        string `hcl:"name"`
	Price       string `hcl:"price"`
	Category    string `hcl:"category"`
	Description string `hcl:"description"`
}

// ShortcutConfig binds a single digit key to a product for manual input
// without scanner hardware.
type ShortcutConfig struct {
	Digit   string `hcl:"digit,key"`
	Product string `hcl:"product"`
}

type Product struct {
	Code        string
	Name        string
	Price       currency.Amount
	Category    string
	Description string
}

type Catalog struct {
	log       *log2.Log
	byCode    map[string]Product
	order     []string
	shortcuts map[byte]string
}

func NewCatalog() *Catalog {
	return &Catalog{
		byCode:    make(map[string]Product),
		shortcuts: make(map[byte]string),
	}
}

func (self *Catalog) Init(c *Config, log *log2.Log) error {
	self.log = log
	self.byCode = make(map[string]Product, len(c.Products))
	self.order = make([]string, 0, len(c.Products))
	self.shortcuts = make(map[byte]string, len(c.Shortcuts))

	errs := make([]error, 0)
	for _, pc := range c.Products {
		if pc.Code == "" {
			errs = append(errs, errors.NotValidf("catalog product code=empty name=%s", pc.Name))
			continue
		}
		if _, ok := self.byCode[pc.Code]; ok {
			errs = append(errs, errors.Errorf("catalog product code=%s duplicate", pc.Code))
			continue
		}
		price, err := currency.Parse(pc.Price)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "catalog product code=%s", pc.Code))
			continue
		}
		p := Product{
			Code:        pc.Code,
			Name:        pc.Name,
			Price:       price,
			Category:    pc.Category,
			Description: pc.Description,
		}
		self.byCode[p.Code] = p
		self.order = append(self.order, p.Code)
	}

	for _, sc := range c.Shortcuts {
		if len(sc.Digit) != 1 || sc.Digit[0] < '0' || sc.Digit[0] > '9' {
			errs = append(errs, errors.NotValidf("catalog shortcut digit=%s", sc.Digit))
			continue
		}
		d := sc.Digit[0]
		if _, ok := self.shortcuts[d]; ok {
			errs = append(errs, errors.Errorf("catalog shortcut digit=%s duplicate", sc.Digit))
			continue
		}
		if _, ok := self.byCode[sc.Product]; !ok {
			errs = append(errs, errors.Errorf("catalog shortcut digit=%s product=%s is not declared", sc.Digit, sc.Product))
			continue
		}
		self.shortcuts[d] = sc.Product
	}

	self.log.Debugf("catalog products=%d shortcuts=%d", len(self.byCode), len(self.shortcuts))
	return helpers.FoldErrors(errs)
}

func (self *Catalog) Lookup(code string) (Product, bool) {
	p, ok := self.byCode[code]
	return p, ok
}

// Shortcut resolves a manual digit key to the mapped product code.
func (self *Catalog) Shortcut(digit byte) (string, bool) {
	code, ok := self.shortcuts[digit]
	return code, ok
}

func (self *Catalog) Len() int { return len(self.order) }

// All returns products in declaration order.
func (self *Catalog) All() []Product {
	ps := make([]Product, 0, len(self.order))
	for _, code := range self.order {
		ps = append(ps, self.byCode[code])
	}
	return ps
}

// Shuffled returns all products in random order for the learning game.
func (self *Catalog) Shuffled(r *rand.Rand) []Product {
	ps := self.All()
	r.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
	return ps
}
