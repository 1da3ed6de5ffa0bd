package promotion

import (
	"context"
	"errors"
	"testing"
)

type blockingRunner struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRunner) Run(ctx context.Context) (*Report, error) {
	close(b.entered)
	<-b.release
	return &Report{Promoted: 1}, nil
}

func TestExclusive_RejectsOverlap(t *testing.T) {
	inner := &blockingRunner{entered: make(chan struct{}), release: make(chan struct{})}
	ex := NewExclusive(inner)

	done := make(chan *Report, 1)
	go func() {
		r, _ := ex.Run(context.Background())
		done <- r
	}()
	<-inner.entered

	if _, err := ex.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("second run err = %v, want ErrRunInProgress", err)
	}

	close(inner.release)
	if r := <-done; r == nil || r.Promoted != 1 {
		t.Errorf("first run report = %+v", r)
	}
}

type countingRunner struct{ n int }

func (c *countingRunner) Run(ctx context.Context) (*Report, error) {
	c.n++
	return &Report{}, nil
}

func TestExclusive_SequentialRunsPass(t *testing.T) {
	inner := &countingRunner{}
	ex := NewExclusive(inner)
	for i := 0; i < 3; i++ {
		if _, err := ex.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if inner.n != 3 {
		t.Errorf("inner ran %d times", inner.n)
	}
}
