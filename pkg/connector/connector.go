// Package connector implements the remote-resolution capability for
// endpoint-backed graphs: it turns an entity IRI into its outgoing edges by
// querying a SPARQL endpoint.
//
// Responses are cached with a TTL so that hub entities touched by many walks
// are fetched once. Network or decoding failures resolve to an empty edge
// set: the graph treats them as dead ends unless it runs in strict mode, in
// which case the error is surfaced as well.
package connector

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/msanta/kgwalk/pkg/graph"
	"github.com/msanta/kgwalk/pkg/metrics"
)

// Options configures a SPARQL connector.
type Options struct {
	// Timeout bounds one HTTP round trip. Default: 30s.
	Timeout time.Duration

	// CacheTTL is how long a resolved entity stays cached. Default: 20min.
	CacheTTL time.Duration

	// CacheSize caps the number of cached entities. Default: 1024.
	CacheSize int

	// SkipPredicates lists predicate IRIs whose edges must never be
	// surfaced to the core (e.g. the label being predicted downstream).
	SkipPredicates []string
}

// DefaultOptions returns a standard connector configuration.
func DefaultOptions() Options {
	return Options{
		Timeout:   30 * time.Second,
		CacheTTL:  20 * time.Minute,
		CacheSize: 1024,
	}
}

// SPARQL resolves entities against a SPARQL endpoint. It implements
// graph.Resolver.
type SPARQL struct {
	endpoint string
	client   *http.Client
	skip     map[string]bool

	mu      sync.Mutex
	cache   map[string]cacheEntry
	ttl     time.Duration
	maxSize int
}

type cacheEntry struct {
	edges   []graph.Edge
	expires time.Time
}

// New creates a SPARQL connector for the given endpoint URL.
func New(endpoint string, opts Options) *SPARQL {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	skip := make(map[string]bool, len(opts.SkipPredicates))
	for _, p := range opts.SkipPredicates {
		skip[p] = true
	}
	return &SPARQL{
		endpoint: endpoint,
		client:   &http.Client{Timeout: opts.Timeout},
		skip:     skip,
		cache:    make(map[string]cacheEntry),
		ttl:      opts.CacheTTL,
		maxSize:  opts.CacheSize,
	}
}

// sparqlResponse mirrors the application/sparql-results+json layout.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Resolve fetches the outgoing edges of the entity. Excluded predicates and
// literal objects are filtered out before the edges reach the core.
func (c *SPARQL) Resolve(entity string) ([]graph.Edge, error) {
	if edges, ok := c.cached(entity); ok {
		metrics.ResolverRequests.WithLabelValues("hit").Inc()
		return edges, nil
	}

	edges, err := c.fetch(entity)
	if err != nil {
		metrics.ResolverRequests.WithLabelValues("error").Inc()
		slog.Warn("entity resolution failed", "entity", entity, "error", err)
		return nil, err
	}
	metrics.ResolverRequests.WithLabelValues("miss").Inc()

	c.store(entity, edges)
	return edges, nil
}

func (c *SPARQL) fetch(entity string) ([]graph.Edge, error) {
	query := fmt.Sprintf("SELECT ?p ?o WHERE { <%s> ?p ?o . }", entity)
	reqURL := c.endpoint + "/query?query=" + url.QueryEscape(query)

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying endpoint: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endpoint returned status %d", res.StatusCode)
	}

	var parsed sparqlResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding sparql response: %w", err)
	}

	var edges []graph.Edge
	for _, binding := range parsed.Results.Bindings {
		pred, okP := binding["p"]
		obj, okO := binding["o"]
		if !okP || !okO {
			continue
		}
		// Walks traverse entities only: literal objects carry no outgoing
		// structure and are dropped here.
		if obj.Type != "uri" {
			continue
		}
		if c.skip[pred.Value] {
			continue
		}
		edges = append(edges, graph.Edge{Predicate: pred.Value, Object: obj.Value})
	}
	return edges, nil
}

func (c *SPARQL) cached(entity string) ([]graph.Edge, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[entity]
	if !ok || time.Now().After(entry.expires) {
		delete(c.cache, entity)
		return nil, false
	}
	return entry.edges, true
}

func (c *SPARQL) store(entity string, edges []graph.Edge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Crude eviction: once full, drop expired entries first, then accept
	// the overflow. The cache is a bandwidth saver, not a correctness
	// concern, so precise LRU is not worth the bookkeeping.
	if len(c.cache) >= c.maxSize {
		now := time.Now()
		for k, v := range c.cache {
			if now.After(v.expires) {
				delete(c.cache, k)
			}
		}
	}
	c.cache[entity] = cacheEntry{edges: edges, expires: time.Now().Add(c.ttl)}
}
