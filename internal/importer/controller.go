package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/estatedesk/internal/cms"
	"github.com/alexanderramin/estatedesk/internal/notify"
)

// DefaultTick is the interval between simulated progress steps.
const DefaultTick = 200 * time.Millisecond

// AutoCloseDelay is how long a successful import stays on screen.
const AutoCloseDelay = 1500 * time.Millisecond

// Endpoint performs the multipart import call.
type Endpoint interface {
	Import(ctx context.Context, filename, contentType string, content io.Reader) (cms.ImportResult, error)
}

// Result is a completed import.
type Result struct {
	File              string
	Inserted          *int
	SkippedDuplicates *int
	Total             *int
	Summary           string
}

// Controller runs one import at a time for an entity.
type Controller struct {
	endpoint Endpoint
	singular string
	notifier notify.Notifier

	// Refresh reloads the list after a successful import.
	Refresh func(ctx context.Context) error
	// OnProgress receives every simulated progress value.
	OnProgress func(percent int)
	// Tick overrides DefaultTick.
	Tick time.Duration
}

// NewController returns a controller posting to endpoint. singular names
// the records in messages.
func NewController(endpoint Endpoint, singular string, notifier notify.Notifier) *Controller {
	return &Controller{endpoint: endpoint, singular: singular, notifier: notify.OrDiscard(notifier)}
}

// Upload accepts exactly one CSV or spreadsheet file and sends it. Rejected
// files never reach the endpoint. A failed import surfaces the server's
// message and does not refresh the list.
func (c *Controller) Upload(ctx context.Context, files []File) (Result, error) {
	f, err := Accept(files)
	if err != nil {
		notify.Error(c.notifier, rejectMessage(err))
		return Result{}, err
	}

	var p Progress
	stop := c.simulate(&p)
	res, err := c.endpoint.Import(ctx, f.Name, f.ContentType, bytes.NewReader(f.Data))
	stop()
	if err == nil && !res.Success {
		err = &cms.HTTPError{Status: http.StatusOK, Message: res.Message}
	}
	if err != nil {
		msg := FailureMessage(err, c.singular)
		notify.Error(c.notifier, msg)
		return Result{}, fmt.Errorf("import %s: %w", f.Name, err)
	}
	c.progress(p.Complete())

	out := Result{
		File:              f.Name,
		Inserted:          res.Inserted,
		SkippedDuplicates: res.SkippedDuplicates,
		Total:             res.Total,
	}
	out.Summary = summary(out)
	notify.Success(c.notifier, out.Summary)

	if c.Refresh != nil {
		if err := c.Refresh(ctx); err != nil {
			return out, fmt.Errorf("refresh after import: %w", err)
		}
	}
	return out, nil
}

// simulate advances p on a ticker until the returned stop func runs. p is
// only touched by the ticker goroutine until stop returns.
func (c *Controller) simulate(p *Progress) func() {
	if c.OnProgress == nil {
		return func() {}
	}
	tick := c.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c.OnProgress(p.Advance())
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func (c *Controller) progress(v int) {
	if c.OnProgress != nil {
		c.OnProgress(v)
	}
}

// FailureMessage is the text shown for a failed import: the server's
// message when it sent one.
func FailureMessage(err error, singular string) string {
	if msg := cms.MessageOf(err); msg != "" {
		return msg
	}
	if errors.Is(err, cms.ErrTimeout) {
		return "The server timed out. Please try again in a moment."
	}
	return fmt.Sprintf("Failed to import %s records. Please try again.", singular)
}

func rejectMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotAccepted):
		return "Only .csv, .xlsx and .xls files can be imported."
	case errors.Is(err, ErrMultipleFiles):
		return "Drop a single file to import."
	}
	return "Select a file to import."
}

func summary(r Result) string {
	if r.Inserted == nil && r.Total == nil {
		return "Import completed successfully."
	}
	msg := fmt.Sprintf("Imported %d", deref(r.Inserted))
	if r.Total != nil {
		msg += fmt.Sprintf(" of %d", *r.Total)
	}
	msg += " entries"
	if r.SkippedDuplicates != nil && *r.SkippedDuplicates > 0 {
		msg += fmt.Sprintf(" (%d duplicates skipped)", *r.SkippedDuplicates)
	}
	return msg + "."
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
