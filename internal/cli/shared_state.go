package cli

import (
	"github.com/alexanderramin/estatedesk/internal/notify"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Notice is the latest notification, shown above the status bar.
	Notice notify.Notification

	// Terminal dimensions
	Width  int
	Height int
}

// pullNotices moves queued notices into the notice line. Only the latest
// one is kept; a loading notice is replaced by its outcome.
func (s *SharedState) pullNotices() {
	queued := s.App.notices().Drain()
	if len(queued) > 0 {
		s.Notice = queued[len(queued)-1]
	}
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator),
// notice line (1 line) and status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}
