package awsclient

import "github.com/jonwraymond/awscache/resilience"

// Settings are shared by the AWS fetchers of every resource cache.
type Settings struct {
	// Options configure SDK client construction.
	Options Options
	// Executor, when set, wraps every SDK call.
	Executor *resilience.Executor
}
