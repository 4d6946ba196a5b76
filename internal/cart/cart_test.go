package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/astridmart/kiosk/currency"
	"github.com/astridmart/kiosk/internal/catalog"
)

var (
	eggs  = catalog.Product{Code: "4740489001247", Name: "Fresh Eggs", Price: 320, Category: "Dairy"}
	bread = catalog.Product{Code: "7501234567890", Name: "White Bread", Price: 120, Category: "Bakery"}
	milk  = catalog.Product{Code: "7501234567891", Name: "Whole Milk", Price: 240, Category: "Dairy"}
)

func TestTotalIsSumOfLines(t *testing.T) {
	t.Parallel()

	c := New()
	now := time.Now()
	assert.Equal(t, currency.Amount(0), c.Total())

	c.Add(eggs, now)
	assert.Equal(t, currency.Amount(320), c.Total())

	// same product scanned twice is two lines, not quantity=2
	c.Add(eggs, now)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, currency.Amount(640), c.Total())

	c.Add(bread, now)
	assert.Equal(t, currency.Amount(760), c.Total())

	c.Clear()
	assert.Equal(t, currency.Amount(0), c.Total())
	assert.True(t, c.Empty())
	c.Clear()
	assert.Equal(t, currency.Amount(0), c.Total())
}

func TestRemoveLast(t *testing.T) {
	t.Parallel()

	c := New()
	now := time.Now()
	c.Add(bread, now) // 1.20
	c.Add(milk, now)  // 2.40
	assert.Equal(t, currency.Amount(360), c.Total())

	removed, ok := c.RemoveLast()
	require.True(t, ok)
	assert.Equal(t, milk.Code, removed.Code)
	assert.Equal(t, currency.Amount(120), c.Total())

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, bread.Code, lines[0].Code)
}

func TestRemoveLastEmptyNoop(t *testing.T) {
	t.Parallel()

	c := New()
	_, ok := c.RemoveLast()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, currency.Amount(0), c.Total())
}

func TestSnapshotImmutable(t *testing.T) {
	t.Parallel()

	c := New()
	now := time.Now()
	c.Add(eggs, now)
	c.Add(bread, now)

	r := c.Snapshot(now)
	assert.NotEmpty(t, r.Id)
	assert.Equal(t, currency.Amount(440), r.Total)
	require.Len(t, r.Lines, 2)

	c.Clear()
	assert.Len(t, r.Lines, 2, "receipt must not alias live cart")
	assert.Equal(t, currency.Amount(440), r.Total)

	r2 := c.Snapshot(now)
	assert.NotEqual(t, r.Id, r2.Id)
}

func TestReceiptRender(t *testing.T) {
	t.Parallel()

	c := New()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	c.Add(eggs, now)
	r := c.Snapshot(now)

	lines := r.Render("ASTRID MART")
	joined := ""
	for _, l := range lines {
		joined += l + "\n"
	}
	assert.Contains(t, joined, "ASTRID MART")
	assert.Contains(t, joined, "Fresh Eggs")
	assert.Contains(t, joined, "€3.20")
	assert.Contains(t, joined, "Total items: 1")
}

func TestReceiptQR(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(eggs, time.Now())
	r := c.Snapshot(time.Now())
	png, err := r.QR(256)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
