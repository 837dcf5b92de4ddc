package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	order := make([]int, 0, 10)
	For(10, func(i int) {
		order = append(order, i)
	}, cfg)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestFor_ZeroItems(t *testing.T) {
	called := false
	For(0, func(_ int) { called = true }, DefaultConfig())
	assert.False(t, called)
}

func TestForErr_LowestIndexWins(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}
	errBoom := errors.New("boom")

	var ran int64
	err := ForErr(40, func(i int) error {
		atomic.AddInt64(&ran, 1)
		if i == 7 || i == 31 {
			return fmt.Errorf("item %d: %w", i, errBoom)
		}
		return nil
	}, cfg)

	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "item 7")
	assert.Equal(t, int64(40), ran, "all items run")
}

func TestForErr_WritesDistinctSlots(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 2}
	out := make([]int, 25)

	require.NoError(t, ForErr(len(out), func(i int) error {
		out[i] = i * i
		return nil
	}, cfg))

	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}
