// Package linkcheck verifies that URLs referenced by the blog still
// resolve: every REPO-* value in the configuration and every external
// link in a page body. Results are cached by URL with a TTL, optionally
// in a NATS JetStream bucket shared between machines.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/lint"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/markdown"
	"git.home.luguber.info/inful/blogkit/internal/site"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// RuleName is the lint rule identifier link outcomes are reported under.
const RuleName = "external-link"

const maxRedirects = 10

var errRedirectLimit = errors.New("redirect limit reached")

// Source is one place in the repository that references a URL.
type Source struct {
	File string // path relative to the blog root
	Line int    // 0 when unknown (page-body links)
}

// Target is a deduplicated URL with every location that references it.
type Target struct {
	URL     string
	Sources []Source
}

// State classifies a check outcome.
type State int

const (
	StateOK State = iota
	// StateWarning covers transient-looking failures: timeouts and
	// redirect chains that never settle.
	StateWarning
	// StateError covers definite breakage: 4xx/5xx and DNS failures.
	StateError
)

func (s State) String() string {
	switch s {
	case StateWarning:
		return "warning"
	case StateError:
		return "broken"
	default:
		return "ok"
	}
}

// Outcome is the verdict for one URL.
type Outcome struct {
	URL     string
	Status  int // last HTTP status, 0 when the request never completed
	State   State
	Detail  string
	Cached  bool
	Sources []Source
}

// Checker verifies external URLs with bounded concurrency.
type Checker struct {
	settings siteconfig.LinkCheckSettings
	cache    Cache
	events   EventPublisher // nil when no broker is configured
	client   *http.Client
	sem      chan struct{}
}

// NewChecker builds a checker from the blogkit link_check settings. With
// nats_url set the cache lives in a JetStream KV bucket and broken links
// are published as events; otherwise everything stays in-process.
func NewChecker(settings siteconfig.LinkCheckSettings) (*Checker, error) {
	var cache Cache = NewMemoryCache()
	var events EventPublisher
	if settings.NATSURL != "" {
		nc, err := NewNATSCache(settings)
		if err != nil {
			return nil, err
		}
		cache = nc
		events = nc
	}

	return &Checker{
		settings: settings,
		cache:    cache,
		events:   events,
		client: &http.Client{
			Timeout: settings.RequestTimeout(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errRedirectLimit
				}
				return nil
			},
		},
		sem: make(chan struct{}, settings.MaxConcurrent()),
	}, nil
}

// Close releases the cache backend.
func (c *Checker) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}

// CollectTargets gathers every external URL the site references, grouped
// by URL. REPO-* sources carry their config line; page links are
// file-level.
func CollectTargets(s *site.Site) []Target {
	byURL := map[string][]Source{}

	for _, suffix := range s.Config.Repos.Suffixes() {
		u, _ := s.Config.Repos.Get(suffix)
		if !isExternal(u) {
			continue
		}
		byURL[u] = append(byURL[u], Source{
			File: s.ConfigPath(),
			Line: s.Config.Repos.Line(suffix),
		})
	}

	for _, page := range s.Pages {
		if page.FrontMatterErr != nil {
			continue
		}
		for _, link := range markdown.ExtractLinks(page.Body) {
			if link.Kind == markdown.LinkKindImage {
				continue
			}
			if !isExternal(link.Destination) {
				continue
			}
			byURL[link.Destination] = append(byURL[link.Destination], Source{File: page.Path})
		}
	}

	urls := make([]string, 0, len(byURL))
	for u := range byURL {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	targets := make([]Target, 0, len(urls))
	for _, u := range urls {
		targets = append(targets, Target{URL: u, Sources: byURL[u]})
	}
	return targets
}

func isExternal(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// Run verifies all of the site's external URLs and returns one outcome
// per URL, sorted by URL.
func (c *Checker) Run(ctx context.Context, s *site.Site) []Outcome {
	targets := CollectTargets(s)
	outcomes := make([]Outcome, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		if c.settings.Skipped(target.URL) {
			outcomes[i] = Outcome{URL: target.URL, State: StateOK, Detail: "skipped", Sources: target.Sources}
			continue
		}

		select {
		case <-ctx.Done():
			outcomes[i] = Outcome{URL: target.URL, State: StateWarning, Detail: "check canceled", Sources: target.Sources}
			continue
		case c.sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()
			defer func() { <-c.sem }()
			outcomes[i] = c.checkTarget(ctx, target)
		}(i, target)
	}
	wg.Wait()

	return outcomes
}

func (c *Checker) checkTarget(ctx context.Context, target Target) Outcome {
	if entry, ok, err := c.cache.Get(ctx, target.URL); err != nil {
		slog.Debug("Link cache lookup failed", logfields.URL(target.URL), logfields.Error(err))
	} else if ok && time.Since(entry.CheckedAt) < c.settings.ResultTTL() {
		out := Outcome{
			URL:     target.URL,
			Status:  entry.Status,
			State:   State(entry.State),
			Detail:  entry.Detail,
			Cached:  true,
			Sources: target.Sources,
		}
		return out
	}

	out := c.check(ctx, target.URL)
	out.Sources = target.Sources

	entry := &Entry{
		URL:       out.URL,
		Status:    out.Status,
		State:     int(out.State),
		Detail:    out.Detail,
		CheckedAt: time.Now(),
	}
	if err := c.cache.Put(ctx, entry); err != nil {
		slog.Debug("Link cache update failed", logfields.URL(target.URL), logfields.Error(err))
	}

	if out.State != StateOK {
		slog.Warn("Broken link",
			logfields.URL(out.URL),
			slog.Int("status", out.Status),
			slog.String("detail", out.Detail))
		c.publish(ctx, out)
	}
	return out
}

// check performs the HTTP verification for a single URL. HEAD goes first;
// servers that reject or mishandle HEAD get a GET retry. URLs carrying a
// fragment go straight to GET because the anchor check needs the body.
func (c *Checker) check(ctx context.Context, rawURL string) Outcome {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Outcome{URL: rawURL, State: StateError, Detail: fmt.Sprintf("invalid URL: %v", err)}
	}

	fragment := parsed.Fragment
	if fragment != "" {
		return c.checkWithFragment(ctx, parsed)
	}

	status, err := c.request(ctx, http.MethodHead, rawURL, nil)
	if err == nil && headUnsupported(status) {
		status, err = c.request(ctx, http.MethodGet, rawURL, nil)
	}
	return classify(rawURL, status, err)
}

// checkWithFragment fetches the page body and verifies the anchor exists.
func (c *Checker) checkWithFragment(ctx context.Context, parsed *url.URL) Outcome {
	fragment := parsed.Fragment
	stripped := *parsed
	stripped.Fragment = ""
	rawURL := parsed.String()

	var body []byte
	status, err := c.request(ctx, http.MethodGet, stripped.String(), &body)
	out := classify(rawURL, status, err)
	if out.State != StateOK {
		return out
	}

	ok, err := FragmentExists(body, fragment)
	if err != nil {
		return Outcome{URL: rawURL, Status: status, State: StateWarning, Detail: fmt.Sprintf("fragment check failed: %v", err)}
	}
	if !ok {
		return Outcome{URL: rawURL, Status: status, State: StateError, Detail: fmt.Sprintf("broken fragment: no anchor %q on the page", fragment)}
	}
	return out
}

// request performs one HTTP request. When body is non-nil the response
// body is captured into it, otherwise it is drained and discarded.
func (c *Checker) request(ctx context.Context, method, rawURL string, body *[]byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "blogkit-linkcheck/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if body != nil {
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if readErr != nil {
			return resp.StatusCode, readErr
		}
		*body = data
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

// headUnsupported reports status codes where a GET retry is warranted:
// servers that reject HEAD outright or hide behind it.
func headUnsupported(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}

func classify(rawURL string, status int, err error) Outcome {
	if err != nil {
		if isTimeout(err) {
			return Outcome{URL: rawURL, State: StateWarning, Detail: "request timed out"}
		}
		if errors.Is(err, errRedirectLimit) {
			return Outcome{URL: rawURL, State: StateWarning, Detail: "too many redirects"}
		}
		return Outcome{URL: rawURL, State: StateError, Detail: fmt.Sprintf("request failed: %v", err)}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// The URL resolves but our anonymous request is refused. Readers
		// may still reach it, so this is not definite breakage.
		return Outcome{URL: rawURL, Status: status, State: StateWarning, Detail: fmt.Sprintf("HTTP %d (access denied)", status)}
	case status >= 400:
		return Outcome{URL: rawURL, Status: status, State: StateError, Detail: fmt.Sprintf("HTTP %d", status)}
	default:
		return Outcome{URL: rawURL, Status: status, State: StateOK}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Checker) publish(ctx context.Context, out Outcome) {
	if c.events == nil {
		return
	}
	event := &BrokenLinkEvent{
		URL:    out.URL,
		Status: out.Status,
		Detail: out.Detail,
	}
	for _, src := range out.Sources {
		event.Sources = append(event.Sources, src.File)
	}
	if err := c.events.PublishBrokenLink(ctx, event); err != nil {
		slog.Error("Failed to publish broken link event", logfields.URL(out.URL), logfields.Error(err))
	}
}

// Issues converts check outcomes into lint issues, one per source
// location, so they merge into a normal lint result.
func Issues(outcomes []Outcome) []lint.Issue {
	var issues []lint.Issue
	for _, out := range outcomes {
		if out.State == StateOK {
			continue
		}
		severity := lint.SeverityError
		if out.State == StateWarning {
			severity = lint.SeverityWarning
		}
		for _, src := range out.Sources {
			issues = append(issues, lint.Issue{
				FilePath: src.File,
				Line:     src.Line,
				Severity: severity,
				Rule:     RuleName,
				Message:  fmt.Sprintf("link %s is broken: %s", out.URL, out.Detail),
				Fix:      "Update or remove the URL, or add it to blogkit.link_check.skip.",
			})
		}
	}
	return issues
}
