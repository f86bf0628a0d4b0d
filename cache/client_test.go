package cache

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestConfig_With(t *testing.T) {
	base := Config{Region: "us-east-1", DefaultTTL: time.Minute}

	got := base.With(Overrides{})
	if got != base {
		t.Errorf("With(empty) = %+v, want %+v", got, base)
	}

	got = base.With(Overrides{Region: "eu-west-1", TTL: TTL(0)})
	if got.Region != "eu-west-1" || got.DefaultTTL != 0 {
		t.Errorf("With() = %+v", got)
	}
	if base.Region != "us-east-1" {
		t.Error("With() mutated the receiver")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (Config{DefaultTTL: -time.Second}).Validate(); !errors.Is(err, ErrInvalidTTL) {
		t.Errorf("Validate() = %v, want ErrInvalidTTL", err)
	}
	if err := (Config{}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestClient_Accessors(t *testing.T) {
	c := NewClient("ssm", Config{Region: "us-east-1", DefaultTTL: time.Second})

	if c.Resource() != "ssm" {
		t.Errorf("Resource() = %q", c.Resource())
	}
	if c.Store() != Store(DefaultStore()) {
		t.Error("Store() should default to DefaultStore()")
	}

	c.SetRegion("eu-central-1")
	c.SetDefaultTTL(5 * time.Second)

	if c.Region() != "eu-central-1" {
		t.Errorf("Region() = %q", c.Region())
	}
	if c.DefaultTTL() != 5*time.Second {
		t.Errorf("DefaultTTL() = %v", c.DefaultTTL())
	}
	if got := c.Config(); got.Region != "eu-central-1" || got.DefaultTTL != 5*time.Second {
		t.Errorf("Config() = %+v", got)
	}
}

func TestClient_WithStoreNilKeepsDefault(t *testing.T) {
	c := NewClient("ssm", Config{}, WithStore(nil), WithKeyer(nil), WithMiddleware(nil))
	if c.Store() != Store(DefaultStore()) {
		t.Error("WithStore(nil) replaced the default store")
	}
}

func TestClient_Resolve(t *testing.T) {
	c := NewClient("ssm", Config{Region: "us-east-1", DefaultTTL: 1000 * time.Second},
		WithStore(NewMemoryStore(0)))

	tests := []struct {
		name       string
		overrides  Overrides
		defaultKey string
		want       Resolved
	}{
		{
			name:       "instance defaults",
			defaultKey: "/app/key",
			want:       Resolved{CacheKey: "/app/key", TTL: 1000 * time.Second, Region: "us-east-1"},
		},
		{
			name:       "explicit overrides win",
			overrides:  Overrides{CacheKey: "custom", TTL: TTL(1300 * time.Second), Region: "ap-south-1"},
			defaultKey: "/app/key",
			want:       Resolved{CacheKey: "custom", TTL: 1300 * time.Second, Region: "ap-south-1"},
		},
		{
			name:       "derived key is normalised",
			defaultKey: "a\x00b",
			want: Resolved{
				CacheKey: NewDefaultKeyer().Key("a\x00b"),
				TTL:      1000 * time.Second,
				Region:   "us-east-1",
			},
		},
		{
			name:       "explicit key is verbatim",
			overrides:  Overrides{CacheKey: strings.Repeat("k", MaxKeyLength+10)},
			defaultKey: "ignored",
			want: Resolved{
				CacheKey: strings.Repeat("k", MaxKeyLength+10),
				TTL:      1000 * time.Second,
				Region:   "us-east-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Resolve(tt.overrides, tt.defaultKey); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClient_ResolveAppliesPolicy(t *testing.T) {
	c := NewClient("kms", Config{}, WithPolicy(Policy{MaxTTL: time.Minute}))
	if got := c.Resolve(Overrides{}, "k").TTL; got != time.Minute {
		t.Errorf("Resolve().TTL = %v, want %v", got, time.Minute)
	}
}

func TestClient_ConcurrentSetters(t *testing.T) {
	c := NewClient("ssm", Config{})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.SetRegion("eu-west-1")
		}()
		go func(i int) {
			defer wg.Done()
			c.SetDefaultTTL(time.Duration(i) * time.Second)
			_ = c.Resolve(Overrides{}, "k")
		}(i)
	}
	wg.Wait()

	if c.Region() != "eu-west-1" {
		t.Errorf("Region() = %q, a concurrent setter was lost", c.Region())
	}
}
