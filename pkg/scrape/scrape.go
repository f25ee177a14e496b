// Package scrape fetches HTML pages and pulls readable text and headlines
// out of them. The news refresher and knowledge URL ingest both use it.
package scrape

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var (
	ErrTooLarge    = errors.New("page too large")
	ErrContentType = errors.New("unsupported content type")
)

var DefaultClient = &http.Client{Timeout: 20 * time.Second}

// Page is a fetched document. Doc is nil for text/plain responses.
type Page struct {
	URL   *url.URL
	Title string
	Doc   *goquery.Document
	Body  string
}

// Fetch downloads rawURL, reading at most maxBytes of the body.
func Fetch(ctx context.Context, client *http.Client, rawURL string, maxBytes int) (*Page, error) {
	if client == nil {
		client = DefaultClient
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "scrape: parse url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "scrape: new request")
	}
	req.Header.Set("User-Agent", "KisanSetu/1.0")
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "scrape: get %s", u.Host)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("scrape: %s returned %d", u.Host, resp.StatusCode)
	}
	if maxBytes > 0 && resp.ContentLength > int64(maxBytes) {
		return nil, ErrTooLarge
	}
	var r io.Reader = resp.Body
	if maxBytes > 0 {
		r = io.LimitReader(resp.Body, int64(maxBytes))
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "scrape: read body")
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "text/plain"):
		body := string(b)
		return &Page{URL: u, Title: guessTitle(body), Body: body}, nil
	case strings.Contains(ct, "text/html"):
	default:
		return nil, errors.Wrap(ErrContentType, ct)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "scrape: parse html")
	}
	return &Page{
		URL:   u,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Doc:   doc,
		Body:  string(b),
	}, nil
}

// MainText returns the readable text of the page: headings, paragraphs and
// list items under main/article, or the whole document when neither exists.
func (p *Page) MainText() string {
	if p.Doc == nil {
		return p.Body
	}
	var parts []string
	sel := p.Doc.Find("main, article")
	if sel.Length() == 0 {
		sel = p.Doc.Selection
	}
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return cleanWhitespace(strings.Join(parts, "\n"))
}

type Headline struct {
	Title     string
	URL       string
	Summary   string
	Category  string
	Published time.Time
}

// Headlines lists the stories on a news page. Each <article> is one story;
// pages without articles fall back to linked h2/h3 headings.
func (p *Page) Headlines() []Headline {
	if p.Doc == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []Headline
	add := func(h Headline) {
		h.Title = collapse(h.Title)
		h.Summary = collapse(h.Summary)
		key := h.URL
		if key == "" {
			key = h.Title
		}
		if h.Title == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, h)
	}

	articles := p.Doc.Find("article")
	if articles.Length() > 0 {
		articles.Each(func(_ int, a *goquery.Selection) {
			h := Headline{
				Title:    a.Find("h1,h2,h3,h4").First().Text(),
				Summary:  a.Find("p").First().Text(),
				Category: strings.TrimSpace(a.AttrOr("data-category", "")),
			}
			link := a.Find("a[href]").First()
			if h.Title == "" {
				h.Title = link.Text()
			}
			h.URL = p.resolve(link.AttrOr("href", ""))
			if dt, ok := a.Find("time[datetime]").First().Attr("datetime"); ok {
				h.Published = parseTime(dt)
			}
			add(h)
		})
		return out
	}

	p.Doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a[href]").First()
		if link.Length() == 0 {
			link = s.Closest("a[href]")
		}
		if link.Length() == 0 {
			return
		}
		add(Headline{
			Title:   s.Text(),
			URL:     p.resolve(link.AttrOr("href", "")),
			Summary: s.NextFiltered("p").Text(),
		})
	})
	return out
}

func (p *Page) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || p.URL == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.URL.ResolveReference(ref).String()
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

var (
	wsRX    = regexp.MustCompile(`\s+\n`)
	spaceRX = regexp.MustCompile(`\s+`)
)

func cleanWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return wsRX.ReplaceAllString(s, "\n")
}

func collapse(s string) string { return strings.TrimSpace(spaceRX.ReplaceAllString(s, " ")) }

func guessTitle(s string) string {
	line := strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
	if r := []rune(line); len(r) > 120 {
		line = string(r[:120])
	}
	return strings.TrimSpace(line)
}
