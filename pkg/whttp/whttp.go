package whttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
)

const userAgent = "protek (+https://github.com/protek/protek)"

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 32 << 20

var maxBodySize int64 = MaxBodySize

// ErrBodyTooLarge is returned when a response body exceeds MaxBodySize.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

type WHTTPRes struct {
	StatusCode     int
	ResponseLength int
	HTTPTitle      string
	Body           []byte
}

// NewClient builds a retrying client. Retries exhausted on a 5xx still hand
// the last response back so callers can report the real status code.
func NewClient(retryMax int, timeout time.Duration, logger retryablehttp.LeveledLogger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retryMax
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if timeout > 0 {
		c.HTTPClient.Timeout = timeout
	}
	if logger != nil {
		c.Logger = logger
	} else {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Get fetches url and returns the body of a 2xx response. Non-2xx responses
// produce a *StatusError.
func Get(ctx context.Context, client *retryablehttp.Client, url string) (*WHTTPRes, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", "en")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", url, err)
	}
	if int64(len(body)) > maxBodySize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrBodyTooLarge, url, maxBodySize)
	}

	wRes := &WHTTPRes{
		StatusCode:     resp.StatusCode,
		Body:           body,
		ResponseLength: len(body),
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		if title, ok := pageTitle(body); ok {
			wRes.HTTPTitle = CleanText(title)
		}
	}
	return wRes, nil
}

// CleanText collapses line breaks and surrounding space the way page titles
// are displayed.
func CleanText(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", "")
	return strings.ToValidUTF8(strings.Join(strings.Fields(s), " "), "")
}

// pageTitle returns the text of the first <title> element, if there is one.
func pageTitle(body []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}
