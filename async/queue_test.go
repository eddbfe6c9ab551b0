package async

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func source(vals ...int) <-chan int {
	ch := make(chan int)

	go func() {
		defer close(ch)

		for _, v := range vals {
			ch <- v
		}
	}()

	return ch
}

func TestQueue_SpliceAndPushKeepFIFO(t *testing.T) {
	q := NewQueue[int]()

	require.NoError(t, q.Splice(source(1, 2, 3)))
	require.NoError(t, q.Push(4))
	require.NoError(t, q.Splice(source(5, 6)))
	require.NoError(t, q.Close())

	got := slices.Collect(q.All(context.Background()))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)
}

func TestQueue_SecondSourceWaitsForFirst(t *testing.T) {
	q := NewQueue[int]()

	first := make(chan int)
	second := make(chan int, 2)
	second <- 10
	second <- 11
	close(second)

	require.NoError(t, q.Splice(first))
	require.NoError(t, q.Splice(second))

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, q.items(), "second source must not be read while first is open")

	first <- 1
	close(first)
	require.NoError(t, q.Close())

	<-q.Done()
	assert.Equal(t, []int{1, 10, 11}, q.items())
}

func TestQueue_ReadersReplayIndependently(t *testing.T) {
	q := NewQueue[int]()
	require.NoError(t, q.Splice(source(1, 2, 3)))
	require.NoError(t, q.Close())

	<-q.Done()

	a := slices.Collect(q.All(context.Background()))
	b := slices.Collect(q.All(context.Background()))
	assert.Equal(t, a, b)
	assert.Len(t, a, 3)
}

func TestQueue_ConcurrentReaderSeesLiveElements(t *testing.T) {
	q := NewQueue[int]()

	done := make(chan []int)
	go func() {
		done <- slices.Collect(q.All(context.Background()))
	}()

	for i := range 5 {
		require.NoError(t, q.Push(i))
	}

	require.NoError(t, q.Close())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, <-done)
}

func TestQueue_ClosedRejectsProducers(t *testing.T) {
	q := NewQueue[int]()
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Push(1), ErrQueueClosed)
	assert.ErrorIs(t, q.Splice(source()), ErrQueueClosed)
	assert.ErrorIs(t, q.Close(), ErrQueueClosed)
}

func TestQueue_ReaderStopsOnContextCancel(t *testing.T) {
	q := NewQueue[int]()
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Push(1))

	var got []int
	for v := range q.All(ctx) {
		got = append(got, v)
		cancel()
	}

	assert.Equal(t, []int{1}, got)
}
