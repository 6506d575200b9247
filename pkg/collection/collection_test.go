package collection_test

import (
	"testing"

	"github.com/rohmanhakim/fake-xhr/pkg/collection"
	"github.com/stretchr/testify/assert"
)

func TestSet_AddContainsRemove(t *testing.T) {
	set := collection.NewSet("host", "te")
	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("host"))
	assert.False(t, set.Contains("accept"))

	set.Add("host")
	assert.Equal(t, 2, set.Size())

	set.Remove("host")
	assert.False(t, set.Contains("host"))
	assert.Equal(t, 1, set.Size())

	set.Clear()
	assert.Equal(t, 0, set.Size())
}

func TestFIFOQueue_Order(t *testing.T) {
	queue := collection.NewFIFOQueue("first")
	queue.Enqueue("second")
	queue.Enqueue("third")
	assert.Equal(t, 3, queue.Size())

	for _, expected := range []string{"first", "second", "third"} {
		item, ok := queue.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, expected, item)
	}

	item, ok := queue.Dequeue()
	assert.False(t, ok)
	assert.Empty(t, item)
	assert.Equal(t, 0, queue.Size())
}
