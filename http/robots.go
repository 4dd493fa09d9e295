package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/sitesearch"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// Ensure RobotsService implements sitesearch.RobotsPolicy.
var _ sitesearch.RobotsPolicy = (*RobotsService)(nil)

// RobotsService answers robots.txt questions for a crawler user agent.
// Each host's robots.txt is fetched at most once; concurrent first
// requests for a host share a single fetch.
type RobotsService struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
	fetch singleflight.Group
}

// NewRobotsService creates a RobotsService for userAgent.
// If client is nil, http.DefaultClient is used.
func NewRobotsService(client *http.Client, userAgent string) *RobotsService {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsService{
		client:    client,
		userAgent: userAgent,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether rawURL may be fetched. An unreachable robots.txt
// or a 4xx response allows everything; a 5xx response disallows everything.
func (s *RobotsService) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	data := s.robots(ctx, u)
	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, s.userAgent)
}

func (s *RobotsService) robots(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := strings.ToLower(u.Scheme + "://" + u.Host)

	s.mu.Lock()
	data, ok := s.hosts[key]
	s.mu.Unlock()
	if ok {
		return data
	}

	v, _, _ := s.fetch.Do(key, func() (any, error) {
		s.mu.Lock()
		data, ok := s.hosts[key]
		s.mu.Unlock()
		if ok {
			return data, nil
		}

		data = s.load(ctx, key)
		s.mu.Lock()
		s.hosts[key] = data
		s.mu.Unlock()
		return data, nil
	})
	data, _ = v.(*robotstxt.RobotsData)
	return data
}

// load fetches and parses robots.txt. A nil result means no restrictions.
func (s *RobotsService) load(ctx context.Context, origin string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data
}
