package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/astridmart/kiosk/currency"
)

// Receipt is an immutable snapshot of a paid cart. The game keeps no
// live reference to the cart inside a receipt, so later cart mutation
// cannot alter a receipt that was already issued.
type Receipt struct {
	Id    string          `json:"id"`
	At    time.Time       `json:"at"`
	Lines []Line          `json:"lines"`
	Total currency.Amount `json:"total"`
}

func (self *Cart) Snapshot(at time.Time) Receipt {
	return Receipt{
		Id:    uuid.New().String(),
		At:    at,
		Lines: self.Lines(),
		Total: self.Total(),
	}
}

// Render formats the receipt for the display/printer collaborator.
func (self *Receipt) Render(header string) []string {
	const width = 40
	sep := strings.Repeat("=", width)
	thin := strings.Repeat("-", width)

	out := make([]string, 0, len(self.Lines)+8)
	out = append(out, sep)
	if header != "" {
		out = append(out, centerPad(header, width))
	}
	out = append(out, sep)
	out = append(out, fmt.Sprintf("Receipt: %s", self.Id))
	out = append(out, fmt.Sprintf("Date: %s", self.At.Format("2006-01-02 15:04:05")))
	out = append(out, thin)
	for _, l := range self.Lines {
		out = append(out, fmt.Sprintf("%-30s €%s", clip(l.Name, 30), l.Price.Format100I()))
	}
	out = append(out, thin)
	out = append(out, fmt.Sprintf("Total items: %d", len(self.Lines)))
	out = append(out, fmt.Sprintf("%-30s €%s", "TOTAL:", self.Total.Format100I()))
	out = append(out, sep)
	return out
}

// QR encodes receipt id and total as a PNG for the display collaborator.
func (self *Receipt) QR(size int) ([]byte, error) {
	content := fmt.Sprintf("%s %s", self.Id, self.Total.Format100I())
	return qrcode.Encode(content, qrcode.Medium, size)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func centerPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
