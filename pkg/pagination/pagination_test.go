package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	p := Params{}.Normalize()
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)

	p = Params{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{}.Offset())
	assert.Equal(t, 20, Params{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 50, Params{Page: 2, Limit: 50}.Offset())
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 10))
	assert.Equal(t, 1, Pages(1, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 2, Pages(11, 10))
	assert.Equal(t, 3, Pages(25, 10))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Params{}.Validate())
	require.NoError(t, Params{Page: 1, Limit: 100}.Validate())
	require.Error(t, Params{Page: -1}.Validate())
	require.Error(t, Params{Limit: 101}.Validate())
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 5}, 12)
	assert.Equal(t, Meta{Page: 2, Limit: 5, Total: 12, Pages: 3}, meta)
}
