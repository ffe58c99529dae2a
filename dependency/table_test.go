package dependency_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blockqr/blockqr/dependency"
)

func TestTable_InitiallyFalse(t *testing.T) {
	tbl := dependency.NewTable(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.False(t, tbl.Get(i, j))
		}
	}
}

func TestTable_SetGet(t *testing.T) {
	tbl := dependency.NewTable(2, 2)
	tbl.Set(1, 0)

	assert.True(t, tbl.Get(1, 0))
	assert.False(t, tbl.Get(0, 0))
	assert.False(t, tbl.Get(1, 1))
}

// TestTable_ConcurrentSetGet exercises the atomic flags under -race: many
// goroutines set disjoint cells while many others poll arbitrary cells.
func TestTable_ConcurrentSetGet(t *testing.T) {
	const tr, tc = 8, 8
	tbl := dependency.NewTable(tr, tc)

	var wg sync.WaitGroup
	for i := 0; i < tr; i++ {
		for j := 0; j < tc; j++ {
			wg.Add(1)
			go func(i, j int) {
				defer wg.Done()
				tbl.Set(i, j)
			}(i, j)
		}
	}

	for k := 0; k < 100; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tbl.Get(0, 0)
		}()
	}

	wg.Wait()

	for i := 0; i < tr; i++ {
		for j := 0; j < tc; j++ {
			assert.True(t, tbl.Get(i, j))
		}
	}
}
