package delayed

import (
	"context"
	"fmt"
	"time"
)

// Run is a frame loop calling Poll once per frame
// on the calling goroutine until ctx is done.
// Errors returned by Poll are passed to the error handler
// (see WithErrorHandler) and don't stop the loop.
// Returns the context's error.
func (s *Scheduler) Run(ctx context.Context, frame Duration) error {
	if frame < 1 {
		return fmt.Errorf("invalid frame duration: %s", frame)
	}

	s.logger.Printf("delayed: frame loop started (frame: %s)\n", frame)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("delayed: frame loop stopped: %v\n", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := s.Poll(); err != nil {
				s.onError(err)
			}
		}
	}
}
