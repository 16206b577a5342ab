package store

import (
	"context"
)

// scheduleAutosave (re)arms the debounce timer. Callers hold s.mu.
func (s *Store) scheduleAutosave() {
	if s.persister == nil || s.autosaveDebounce <= 0 {
		return
	}
	if s.debounce != nil {
		s.debounce.Reset(s.autosaveDebounce, "store", "debounce")
		return
	}
	s.debounce = s.clock.AfterFunc(s.autosaveDebounce, func() {
		s.autosave(context.Background(), "debounce")
	}, "store", "debounce")
}

func (s *Store) stopDebounce() {
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
}

// StartAutosave saves every interval while the game is dirty, until ctx is
// cancelled. The returned function blocks until the ticker has stopped.
func (s *Store) StartAutosave(ctx context.Context) (wait func() error) {
	if s.persister == nil || s.autosaveInterval <= 0 {
		return func() error { return nil }
	}
	w := s.clock.TickerFunc(ctx, s.autosaveInterval, func() error {
		s.autosave(ctx, "interval")
		return nil
	}, "store", "interval")
	return func() error { return w.Wait() }
}

// Close stops the debounce timer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopDebounce()
}

func (s *Store) autosave(ctx context.Context, trigger string) {
	if !s.Dirty() {
		return
	}
	if err := s.Save(ctx); err != nil {
		s.logger.Error("Autosave failed", "trigger", trigger, "error", err)
		return
	}
	s.logger.Debug("Autosaved", "trigger", trigger)
}
