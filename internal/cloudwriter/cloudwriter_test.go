package cloudwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWriterUploadsOnClose(t *testing.T) {
	f := NewMemoryFactory()
	w, err := f.NewWriter("bucket", "events/a.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)

	_, ok := f.Object("bucket/events/a.parquet")
	assert.False(t, ok, "nothing is visible before Close")

	require.NoError(t, w.Close())
	data, ok := f.Object("bucket/events/a.parquet")
	require.True(t, ok)
	assert.Equal(t, "PAR1", string(data))
	assert.Equal(t, []string{"bucket/events/a.parquet"}, f.Keys())

	_, err = w.Write([]byte("x"))
	assert.Error(t, err)
	assert.NoError(t, w.Close())
}

func TestMemoryFactoryRequiresBucket(t *testing.T) {
	_, err := NewMemoryFactory().NewWriter("", "x")
	assert.Error(t, err)
}
