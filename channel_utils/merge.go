package channel_utils

import (
	"context"
	"sync"
)

// MergeChannels fans in the given channels. The merged channel closes once every
// input is closed; after ctx is done remaining values are drained and dropped.
// Forwarders are plain goroutines: they only wait on channels, so they must not
// hold workers that leaf calls need.
func MergeChannels[T any](ctx context.Context, channels ...<-chan T) <-chan T {
	var wg sync.WaitGroup
	merged := make(chan T)

	output := func(c <-chan T) {
		defer wg.Done()
		for val := range c {
			select {
			case merged <- val:
			case <-ctx.Done():
			}
		}
	}

	wg.Add(len(channels))
	for _, c := range channels {
		go output(c)
	}

	go func() {
		wg.Wait()
		close(merged)
	}()

	return merged
}
