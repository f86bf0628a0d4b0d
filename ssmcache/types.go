package ssmcache

import (
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/jonwraymond/awscache/cache"
)

// Parameter is one named value of a listing.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Page is one page of a listing by path.
type Page struct {
	Parameters []Parameter `json:"parameters"`
	// NextToken continues the listing. Empty on the last page.
	NextToken string `json:"nextToken,omitempty"`
}

// PathQuery selects parameters under a path.
type PathQuery struct {
	Path             string
	NextToken        string
	MaxResults       int32
	Recursive        bool
	ParameterFilters []types.ParameterStringFilter
}

// GetParameterRequest reads a single parameter.
type GetParameterRequest struct {
	Name string
	cache.Overrides
}

// GetParametersByPathRequest reads one page of parameters under Path.
// The default cache key is Path followed by NextToken, or by "#first" when
// NextToken is empty.
type GetParametersByPathRequest struct {
	Path             string
	NextToken        string
	MaxResults       int32
	Recursive        bool
	ParameterFilters []types.ParameterStringFilter
	cache.Overrides
}

// GetAllParametersByPathRequest reads every page of parameters under Path.
// The default cache key is Path.
type GetAllParametersByPathRequest struct {
	Path             string
	Recursive        bool
	ParameterFilters []types.ParameterStringFilter
	// MaxPages stops the walk with ErrTooManyPages. 0 means unbounded.
	MaxPages int
	cache.Overrides
}
