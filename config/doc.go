// Package config loads the YAML configuration of the caching stack and
// builds a ready-to-use Runtime from it.
//
// A minimal file:
//
//	region: eu-west-1
//	default_ttl: 15m
//	store:
//	  backend: redis
//	  redis_url: ${REDIS_URL}
//	resilience:
//	  retry:
//	    enabled: true
//
// ${VAR} references are expanded before parsing and fail when VAR is unset.
// Durations use Go syntax ("90s", "15m").
package config
