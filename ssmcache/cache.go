package ssmcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/cache"
)

// Resource labels telemetry for parameter lookups.
const Resource = "ssm"

const (
	msgNoParameter  = "No value found for parameter"
	msgNoParameters = "No parameters found for params"
)

// ErrTooManyPages is returned when a listing exceeds its MaxPages guard.
var ErrTooManyPages = errors.New("ssmcache: listing exceeded max pages")

// Cache caches Parameter Store reads. The embedded client exposes the region
// and default TTL accessors.
type Cache struct {
	*cache.Client
	fetcher Fetcher
}

// New creates a parameter cache over fetcher.
func New(cfg cache.Config, fetcher Fetcher, opts ...cache.Option) *Cache {
	return &Cache{
		Client:  cache.NewClient(Resource, cfg, opts...),
		fetcher: fetcher,
	}
}

// NewFromAWS creates a parameter cache backed by SSM. wrap, if non-nil, is
// applied once to every SSM client the cache creates.
func NewFromAWS(cfg cache.Config, s awsclient.Settings, wrap awsclient.Wrapper[API], opts ...cache.Option) *Cache {
	return New(cfg, NewAWSFetcher(s, wrap), opts...)
}

// GetParameter returns the value of a parameter.
func (c *Cache) GetParameter(ctx context.Context, req GetParameterRequest) (string, error) {
	r := c.Resolve(req.Overrides, req.Name)

	return cache.GetAndCache(ctx, c.Client, cache.GetParams[string]{
		CacheKey:            r.CacheKey,
		TTL:                 &r.TTL,
		NoValueFoundMessage: msgNoParameter,
		Operation:           "GetParameter",
		Region:              r.Region,
		Fetch: func(ctx context.Context) (string, bool, error) {
			return c.fetcher.GetParameter(ctx, r.Region, req.Name)
		},
	})
}

// GetStringListParameter returns a StringList parameter split on commas.
func (c *Cache) GetStringListParameter(ctx context.Context, req GetParameterRequest) ([]string, error) {
	value, err := c.GetParameter(ctx, req)
	if err != nil {
		return nil, err
	}
	return strings.Split(value, ","), nil
}

// GetParameterAsJSON decodes the parameter value into v.
func (c *Cache) GetParameterAsJSON(ctx context.Context, req GetParameterRequest, v any) error {
	value, err := c.GetParameter(ctx, req)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(value), v)
}

// GetParametersByPath returns one page of parameters under req.Path.
func (c *Cache) GetParametersByPath(ctx context.Context, req GetParametersByPathRequest) (*Page, error) {
	r := c.Resolve(req.Overrides, pageKey(req.Path, req.NextToken))
	q := PathQuery{
		Path:             req.Path,
		NextToken:        req.NextToken,
		MaxResults:       req.MaxResults,
		Recursive:        req.Recursive,
		ParameterFilters: req.ParameterFilters,
	}

	return cache.GetAndCache(ctx, c.Client, cache.GetParams[*Page]{
		CacheKey:            r.CacheKey,
		TTL:                 &r.TTL,
		NoValueFoundMessage: msgNoParameters,
		Operation:           "GetParametersByPath",
		Region:              r.Region,
		Fetch: func(ctx context.Context) (*Page, bool, error) {
			page, err := c.fetcher.GetParametersByPath(ctx, r.Region, q)
			return page, page != nil, err
		},
	})
}

// firstPage stands in for the missing token of a first page so that its key
// never equals the key of the aggregated listing.
const firstPage = "#first"

func pageKey(path, nextToken string) string {
	if nextToken == "" {
		nextToken = firstPage
	}
	return path + nextToken
}

// GetAllParametersByPath walks every page under req.Path and returns the
// non-empty values in order. The whole list is cached as one entry.
func (c *Cache) GetAllParametersByPath(ctx context.Context, req GetAllParametersByPathRequest) ([]string, error) {
	r := c.Resolve(req.Overrides, req.Path)

	return cache.GetAndCache(ctx, c.Client, cache.GetParams[[]string]{
		CacheKey:            r.CacheKey,
		TTL:                 &r.TTL,
		NoValueFoundMessage: msgNoParameters,
		Operation:           "GetAllParametersByPath",
		Region:              r.Region,
		Fetch: func(ctx context.Context) ([]string, bool, error) {
			return c.fetchAll(ctx, r.Region, req)
		},
	})
}

func (c *Cache) fetchAll(ctx context.Context, region string, req GetAllParametersByPathRequest) ([]string, bool, error) {
	q := PathQuery{
		Path:             req.Path,
		Recursive:        req.Recursive,
		ParameterFilters: req.ParameterFilters,
	}

	values := []string{}
	for pages := 1; ; pages++ {
		if req.MaxPages > 0 && pages > req.MaxPages {
			return nil, false, fmt.Errorf("%w: %d pages under %q", ErrTooManyPages, req.MaxPages, req.Path)
		}

		page, err := c.fetcher.GetParametersByPath(ctx, region, q)
		if err != nil {
			return nil, false, err
		}
		if page == nil {
			if pages == 1 {
				return nil, false, nil
			}
			break
		}

		for _, p := range page.Parameters {
			if p.Value != "" {
				values = append(values, p.Value)
			}
		}

		if page.NextToken == "" {
			break
		}
		q.NextToken = page.NextToken
	}

	return values, true, nil
}
