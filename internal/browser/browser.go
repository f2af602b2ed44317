// Package browser drives a live Chrome tab: it loads quiz pages into
// documents, captures question screenshots and replays applied answers.
package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"quizpilot/internal/answer"
	"quizpilot/internal/dom"
	"quizpilot/internal/question"
	"quizpilot/internal/screenshot"
)

// Options configure the Chrome instance.
type Options struct {
	Headless     bool
	ExecPath     string
	UserDataDir  string
	WaitSelector string
	Timeout      time.Duration
	Logger       *zap.Logger
}

const defaultTimeout = 30 * time.Second

// Browser owns one Chrome tab.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options
	logger      *zap.Logger
}

// Launch starts Chrome and opens a blank tab.
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if strings.TrimSpace(opts.WaitSelector) == "" {
		opts.WaitSelector = "body"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.Flag("headless", opts.Headless))
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	sugar := logger.Sugar()
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Warnf),
	)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return &Browser{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel, opts: opts, logger: logger}, nil
}

// Close shuts the tab and the browser down.
func (b *Browser) Close() {
	b.cancel()
	b.allocCancel()
}

// run executes actions in the tab bounded by ctx and the configured timeout.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.ctx, b.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Open navigates to pageURL and returns a document built from the rendered
// markup.
func (b *Browser) Open(ctx context.Context, pageURL string) (*dom.Document, error) {
	if err := b.run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(b.opts.WaitSelector, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("open %s: %w", pageURL, err)
	}
	return b.Snapshot(ctx)
}

// Snapshot reads the current tab into a new document.
func (b *Browser) Snapshot(ctx context.Context) (*dom.Document, error) {
	var location, markup string
	if err := b.run(ctx,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	doc, err := dom.ParseString(markup, location)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	b.logger.Debug("page snapshot", zap.String("url", location), zap.Int("bytes", len(markup)))
	return doc, nil
}

// Capture implements screenshot.Provider with an element screenshot.
func (b *Browser) Capture(ctx context.Context, target screenshot.Target) ([]byte, error) {
	if strings.TrimSpace(target.Selector) == "" {
		return nil, screenshot.ErrUnavailable
	}
	var image []byte
	if err := b.run(ctx, chromedp.Screenshot(target.Selector, &image, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return nil, fmt.Errorf("capture %s: %w", target.QuestionID, err)
	}
	return image, nil
}

// Mirror replays applied changes in the tab so the host page sees the same
// widget state and receives its own input and change events.
func (b *Browser) Mirror(ctx context.Context, changes []answer.Change) error {
	for _, change := range changes {
		script, err := mirrorScript(change)
		if err != nil {
			return err
		}
		var found bool
		if err := b.run(ctx, chromedp.Evaluate(script, &found)); err != nil {
			return fmt.Errorf("mirror %s: %w", change.Path, err)
		}
		if !found {
			return fmt.Errorf("mirror %s: element not found in live page", change.Path)
		}
	}
	return nil
}

func mirrorScript(change answer.Change) (string, error) {
	var args bytes.Buffer
	enc := json.NewEncoder(&args)
	enc.SetEscapeHTML(false)
	toggle := change.Kind == question.KindSingle || change.Kind == question.KindMulti
	if err := enc.Encode([]any{change.Path, toggle, change.Checked, change.Value}); err != nil {
		return "", fmt.Errorf("encode change: %w", err)
	}
	return fmt.Sprintf(`((path, toggle, checked, value) => {
  const el = document.querySelector(path);
  if (!el) return false;
  if (toggle) { el.checked = checked; } else { el.value = value; }
  el.dispatchEvent(new Event("input", { bubbles: true }));
  el.dispatchEvent(new Event("change", { bubbles: true }));
  return true;
})(...%s)`, bytes.TrimSpace(args.Bytes())), nil
}
