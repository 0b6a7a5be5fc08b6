// Package concurrent runs iterator elements through worker goroutines.
package concurrent

import (
	"golang.org/x/sync/errgroup"

	"github.com/geomsync/geomsync/pkg/sequence"
)

// Concurrent runs the action for each element of the iterator in its own
// goroutine and waits for all of them. The first error encountered is
// returned.
func Concurrent[T any](i *sequence.Iterator[T], action func(T) error) error {
	errGroup := errgroup.Group{}
	next, stop := i.Pull()
	defer stop()

	for {
		value, valid := next()
		if !valid {
			break
		}

		errGroup.Go(func() error {
			return action(value)
		})
	}

	return errGroup.Wait()
}
