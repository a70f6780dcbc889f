package container_test

import (
	"testing"

	"github.com/simmobility/st-core/utils/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type incItem struct {
	container.IncrementalItemBase
	id int
}

func TestIncrementalArrayAddMoreThanRemove(t *testing.T) {
	a := container.NewIncrementalArray[*incItem]()
	x := &incItem{id: 1}
	a.Add(x)
	a.Prepare()
	require.Equal(t, 1, a.Len())
	assert.Equal(t, 0, x.Index())

	y := &incItem{id: 2}
	a.Add(y)
	a.Remove(x)
	a.Prepare()
	require.Equal(t, 1, a.Len())
	assert.Equal(t, y, a.Data()[0])
}

func TestIncrementalArrayRemoveMoreThanAdd(t *testing.T) {
	a := container.NewIncrementalArray[*incItem]()
	x, y, z := &incItem{id: 1}, &incItem{id: 2}, &incItem{id: 3}
	a.Add(x)
	a.Add(y)
	a.Add(z)
	a.Prepare()
	require.Equal(t, 3, a.Len())

	a.Remove(x)
	a.Remove(y)
	a.Prepare()
	require.Equal(t, 1, a.Len())
	assert.Equal(t, z, a.Data()[0])
	assert.Equal(t, 0, z.Index())
}
