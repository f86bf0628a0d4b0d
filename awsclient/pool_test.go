package awsclient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	region  string
	wrapped bool
}

func countingFactory(n *atomic.Int32) Factory[*fakeClient] {
	return func(_ context.Context, region string) (*fakeClient, error) {
		n.Add(1)
		return &fakeClient{region: region}, nil
	}
}

func TestPool_OneClientPerRegion(t *testing.T) {
	var created atomic.Int32
	p := NewPool(countingFactory(&created), nil)
	ctx := context.Background()

	a1, err := p.Get(ctx, "eu-west-1")
	require.NoError(t, err)
	a2, err := p.Get(ctx, "eu-west-1")
	require.NoError(t, err)
	b, err := p.Get(ctx, "us-east-1")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, "us-east-1", b.region)
	assert.Equal(t, int32(2), created.Load())
	assert.Equal(t, 2, p.Len())
}

func TestPool_WrapperAppliedOnce(t *testing.T) {
	var created, wrapped atomic.Int32
	p := NewPool(countingFactory(&created), func(c *fakeClient) *fakeClient {
		wrapped.Add(1)
		c.wrapped = true
		return c
	})

	for range 3 {
		c, err := p.Get(context.Background(), "eu-west-1")
		require.NoError(t, err)
		assert.True(t, c.wrapped)
	}
	assert.Equal(t, int32(1), wrapped.Load())
}

func TestPool_MissingRegion(t *testing.T) {
	var created atomic.Int32
	p := NewPool(countingFactory(&created), nil)

	_, err := p.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingRegion)
	assert.Zero(t, created.Load())
}

func TestPool_FactoryErrorNotCached(t *testing.T) {
	calls := 0
	p := NewPool(func(_ context.Context, region string) (*fakeClient, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("no credentials")
		}
		return &fakeClient{region: region}, nil
	}, nil)

	_, err := p.Get(context.Background(), "eu-west-1")
	require.Error(t, err)

	c, err := p.Get(context.Background(), "eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", c.region)
}

func TestPool_Concurrent(t *testing.T) {
	var created atomic.Int32
	p := NewPool(countingFactory(&created), nil)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Get(context.Background(), "eu-west-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}

func TestStatic(t *testing.T) {
	c := &fakeClient{region: "fixed"}
	got, err := Static(c)(context.Background(), "anywhere")
	require.NoError(t, err)
	assert.Same(t, c, got)
}
