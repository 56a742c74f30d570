package dynamicproblem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumeChangeReturnsTrueExactlyOnce(t *testing.T) {
	var flag ChangeFlag

	assert.False(t, flag.ConsumeChange())

	flag.Set()
	assert.True(t, flag.HasChanged())
	assert.True(t, flag.HasChanged(), "querying must not clear the flag")

	assert.True(t, flag.ConsumeChange())
	assert.False(t, flag.ConsumeChange())
	assert.False(t, flag.HasChanged())
}

func TestRepeatedSetsCollapseIntoOnePendingSignal(t *testing.T) {
	var flag ChangeFlag

	flag.Set()
	flag.Set()
	flag.Set()

	assert.True(t, flag.ConsumeChange())
	assert.False(t, flag.ConsumeChange())
}

func TestConcurrentSetsNeverLoseTheSignal(t *testing.T) {
	var flag ChangeFlag

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flag.Set()
		}()
	}
	wg.Wait()

	assert.True(t, flag.ConsumeChange())
	assert.False(t, flag.ConsumeChange())
}
