// Package awsclient builds and pools AWS SDK clients for the resource caches.
//
// A [Pool] creates one client per region on first use and applies an optional
// [Wrapper] to it once, so instrumentation or test doubles can be injected
// without touching the caches. [LoadConfig] resolves credentials through the
// SDK default chain, with optional static credentials and a custom endpoint
// for local emulators.
package awsclient
