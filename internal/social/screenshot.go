package social

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Screenshotter captures one element of a web page as a PNG.
type Screenshotter interface {
	Capture(ctx context.Context, url, selector string) ([]byte, error)
}

// ChromeScreenshotter drives a headless Chrome.
type ChromeScreenshotter struct {
	timeout  time.Duration
	execPath string
}

// NewChromeScreenshotter creates a screenshotter. An empty execPath uses
// the Chrome found on PATH.
func NewChromeScreenshotter(timeout time.Duration, execPath string) *ChromeScreenshotter {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &ChromeScreenshotter{timeout: timeout, execPath: execPath}
}

// Capture loads url, waits for selector to render and screenshots it.
func (c *ChromeScreenshotter) Capture(ctx context.Context, url, selector string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.WindowSize(1200, 1600),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, c.timeout)
	defer cancelTimeout()

	var image []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Screenshot(selector, &image, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s on %s: %w", selector, url, err)
	}
	return image, nil
}
