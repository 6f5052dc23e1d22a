package officials

import (
	"context"
	"fmt"

	"citizenhub/pkg/models"
)

// Result is the single outcome of an asynchronous lookup.
type Result struct {
	Legislators []models.Legislator
	Err         error
}

// Go runs one lookup on src in the background. The returned channel yields
// exactly one Result and is then closed.
func Go(ctx context.Context, src Source, key string) <-chan Result {
	return goLookup(func() ([]models.Legislator, error) {
		return src.Legislators(ctx, key)
	})
}

func goLookup(fn func() ([]models.Legislator, error)) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		var res Result
		func() {
			defer func() {
				if r := recover(); r != nil {
					res = Result{Err: fmt.Errorf("officials: lookup panicked: %v", r)}
				}
			}()
			res.Legislators, res.Err = fn()
		}()
		ch <- res
	}()
	return ch
}
