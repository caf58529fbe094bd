package services

import (
	"MenuScout/config/environment"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// ErrWaitTimeout is returned by every bounded wait that ran out of time.
var ErrWaitTimeout = errors.New("wait timed out")

// PageSource is the pipeline's view of the live page. Every blocking call is
// bounded: waits carry an explicit timeout and the rest inherit whatever
// deadline the caller's context has. One PageSource belongs to exactly one
// scrape request and is never shared.
type PageSource interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	WaitHidden(ctx context.Context, selector string, timeout time.Duration) error
	Click(ctx context.Context, selector string) error
	ClickNth(ctx context.Context, selector string, index int) error
	NodeTexts(ctx context.Context, selector string) ([]string, error)
	NodeAttrs(ctx context.Context, selector, attr string) ([]string, error)
	OuterHTML(ctx context.Context, selector string) (string, error)
	Eval(ctx context.Context, expression string, out interface{}) error
	ScrollBy(ctx context.Context, pixels int) error
	ScrollPosition(ctx context.Context) (float64, error)
	Close()
}

// SessionFactory opens a fresh browser session. The scrape service takes a
// factory instead of a session so tests can hand it a fake page.
type SessionFactory func(ctx context.Context) (PageSource, error)

// BrowserSession drives one headless Chrome tab through chromedp.
type BrowserSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewBrowserSession launches Chrome and opens a tab sized like a portrait
// tablet, which is what the storefront layouts are tuned for.
func NewBrowserSession(ctx context.Context) (PageSource, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", environment.Headless()),
		chromedp.WindowSize(1024, 1024),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so a broken Chrome install
	// surfaces here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &BrowserSession{ctx: browserCtx, cancel: cancel, allocCancel: allocCancel}, nil
}

func (s *BrowserSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *BrowserSession) Reload(ctx context.Context) error {
	return s.run(ctx, chromedp.Reload())
}

func (s *BrowserSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(wctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		if wctx.Err() != nil {
			return ErrWaitTimeout
		}
		return err
	}
	return nil
}

func (s *BrowserSession) WaitHidden(ctx context.Context, selector string, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(wctx, chromedp.WaitNotVisible(selector, chromedp.ByQuery)); err != nil {
		if wctx.Err() != nil {
			return ErrWaitTimeout
		}
		return err
	}
	return nil
}

func (s *BrowserSession) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

// ClickNth clicks the index-th match of selector. Virtualized menu lists
// detach and reattach their nodes on every scroll, so elements are addressed
// by a fresh query each time instead of a held node reference.
func (s *BrowserSession) ClickNth(ctx context.Context, selector string, index int) error {
	js := fmt.Sprintf(`(() => {
		const nodes = document.querySelectorAll(%q);
		if (nodes.length <= %d) { return false; }
		nodes[%d].scrollIntoView({block: 'center'});
		nodes[%d].click();
		return true;
	})()`, selector, index, index, index)
	var clicked bool
	if err := s.Eval(ctx, js, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("no element at index %d for selector %s", index, selector)
	}
	return nil
}

func (s *BrowserSession) NodeTexts(ctx context.Context, selector string) ([]string, error) {
	js := fmt.Sprintf(`[...document.querySelectorAll(%q)].map(n => n.innerText)`, selector)
	var texts []string
	if err := s.Eval(ctx, js, &texts); err != nil {
		return nil, err
	}
	return texts, nil
}

func (s *BrowserSession) NodeAttrs(ctx context.Context, selector, attr string) ([]string, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	attrs := make([]string, 0, len(nodes))
	for _, node := range nodes {
		attrs = append(attrs, node.AttributeValue(attr))
	}
	return attrs, nil
}

func (s *BrowserSession) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
	return html, err
}

func (s *BrowserSession) Eval(ctx context.Context, expression string, out interface{}) error {
	return s.run(ctx, chromedp.Evaluate(expression, out))
}

func (s *BrowserSession) ScrollBy(ctx context.Context, pixels int) error {
	return s.run(ctx, chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d);", pixels), nil))
}

func (s *BrowserSession) ScrollPosition(ctx context.Context) (float64, error) {
	var position float64
	err := s.run(ctx, chromedp.Evaluate("window.scrollY;", &position))
	return position, err
}

// Close tears down the tab and the browser process. Safe on every exit path.
func (s *BrowserSession) Close() {
	s.cancel()
	s.allocCancel()
}

func (s *BrowserSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.ctx, actions...)
}

// WaitFor polls cond every interval until it reports true, the timeout
// elapses, or the context dies. It replaces the fixed retry-sleeps the
// storefront scrapers tend to accumulate.
func WaitFor(ctx context.Context, timeout, interval time.Duration, cond func(context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrWaitTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
