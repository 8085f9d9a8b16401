package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"smart-resume-match/internal/config"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
)

const (
	defaultTimeout = 25 * time.Second
	maxBodySize    = 5 << 20
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

var (
	ErrInvalidURL = errors.New("invalid job posting url")
	ErrNoText     = errors.New("job posting has no readable text")
)

// PageRenderer returns the visible text of a page after scripts ran.
type PageRenderer interface {
	RenderText(ctx context.Context, pageURL string) (string, error)
}

// JobDescriptionFetcher downloads a job posting and returns its body text.
// Pages rendered client side yield nothing to the static collector, so a
// headless browser is tried when one is configured.
type JobDescriptionFetcher struct {
	timeout  time.Duration
	renderer PageRenderer
	logger   *log.Logger
}

func NewJobDescriptionFetcher(cfg config.FetchConfig, logger *log.Logger) *JobDescriptionFetcher {
	f := &JobDescriptionFetcher{timeout: cfg.Timeout, logger: logger}
	if f.timeout <= 0 {
		f.timeout = defaultTimeout
	}
	if cfg.Headless {
		f.renderer = ChromeRenderer{Timeout: f.timeout}
	}
	return f
}

func (f *JobDescriptionFetcher) WithRenderer(r PageRenderer) *JobDescriptionFetcher {
	f.renderer = r
	return f
}

func (f *JobDescriptionFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	text, err := f.fetchStatic(ctx, pageURL)
	if err == nil && text != "" {
		f.logf("fetch mode=static status=ok url=%q chars=%d duration=%s", pageURL, len(text), time.Since(start))
		return text, nil
	}
	if err != nil {
		f.logf("fetch mode=static status=error url=%q err=%v", pageURL, err)
	}

	if f.renderer == nil {
		if err != nil {
			return "", err
		}
		return "", ErrNoText
	}

	text, rerr := f.renderer.RenderText(ctx, pageURL)
	if rerr != nil {
		f.logf("fetch mode=headless status=error url=%q err=%v", pageURL, rerr)
		return "", rerr
	}
	text = collapseSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	f.logf("fetch mode=headless status=ok url=%q chars=%d duration=%s", pageURL, len(text), time.Since(start))
	return text, nil
}

func (f *JobDescriptionFetcher) fetchStatic(ctx context.Context, pageURL string) (string, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.MaxBodySize(maxBodySize),
	)
	c.SetRequestTimeout(f.timeout)

	var text string
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnHTML("body", func(e *colly.HTMLElement) {
		e.DOM.Find("script, style, noscript, template, svg").Remove()
		text = collapseSpace(e.DOM.Text())
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = fmt.Errorf("status=%d: %w", r.StatusCode, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return "", err
	}
	c.Wait()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if reqErr != nil {
		return "", reqErr
	}
	return text, nil
}

func (f *JobDescriptionFetcher) logf(format string, args ...any) {
	if f != nil && f.logger != nil {
		f.logger.Printf(format, args...)
	}
}

// ChromeRenderer loads the page in headless Chrome.
type ChromeRenderer struct {
	Timeout time.Duration
}

func (r ChromeRenderer) RenderText(ctx context.Context, pageURL string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(userAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, timeout)
	defer reqCancel()

	var text string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return text, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	return u.String(), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
