package input

import (
	"io"
	"strings"
	"testing"

	"github.com/astridmart/kiosk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainSerial(t *testing.T, src *SerialSource) []types.InputEvent {
	evs := make([]types.InputEvent, 0, 32)
	for {
		ev, err := src.Read()
		if err == io.EOF {
			return evs
		}
		require.NoError(t, err)
		evs = append(evs, ev)
	}
}

func TestSerialLineClassifiesAsBarcode(t *testing.T) {
	t.Parallel()

	const code = "4740489001247"
	src := newSerialSource(io.NopCloser(strings.NewReader(code + "\r\n")))
	c := newTestClassifier(t)

	results := make([]Result, 0, 1)
	for _, ev := range drainSerial(t, src) {
		assert.Equal(t, SerialTag, ev.Source)
		if ev.Up {
			continue
		}
		var r Result
		if IsEnterKey(ev.Key) {
			r = c.FeedEnter(ev.At)
		} else {
			d, ok := DigitKey(ev.Key)
			require.True(t, ok)
			r = c.Feed(d, ev.At)
		}
		if r.Kind == ResultBarcode {
			results = append(results, r)
		}
	}
	require.Len(t, results, 1)
	assert.Equal(t, code, results[0].Code)
}

func TestSerialGarbageLineDropped(t *testing.T) {
	t.Parallel()

	src := newSerialSource(io.NopCloser(strings.NewReader("NoRead\n\n12345678\n")))
	evs := drainSerial(t, src)
	// only the clean line survives: 8 digits + enter, down and up each
	require.Len(t, evs, 18)
	assert.True(t, IsEnterKey(evs[16].Key))
}
