package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefetch(t *testing.T) {
	in := &countingIntrospector{}
	s, err := Prefetch(context.Background(), in, "A", "B", "C")
	require.NoError(t, err)
	assert.Len(t, s, 3)
	assert.EqualValues(t, 3, in.calls.Load())
	idx, err := s.Indexes(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "B_PK", idx[0].Name)

	s, err = Prefetch(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestPrefetch_Error(t *testing.T) {
	in := IntrospectorFunc(func(_ context.Context, table string) ([]*Index, error) {
		if table == "BAD" {
			return nil, errors.New("denied")
		}
		return nil, nil
	})
	_, err := Prefetch(context.Background(), in, "A", "BAD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefetch BAD: denied")
}
