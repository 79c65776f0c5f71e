package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkKeys_Empty(t *testing.T) {
	assert.Nil(t, chunkKeys(nil, ChunkSize))
	assert.Nil(t, chunkKeys([]interface{}{}, ChunkSize))
}

func TestChunkKeys_UnderOneChunk(t *testing.T) {
	chunks := chunkKeys(keyList(5), ChunkSize)
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 5)
}

func TestChunkKeys_ExactMultiple(t *testing.T) {
	chunks := chunkKeys(keyList(200), ChunkSize)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
}

func TestChunkKeys_Remainder(t *testing.T) {
	chunks := chunkKeys(keyList(101), ChunkSize)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 1)
}

func TestChunkKeys_PreservesOrder(t *testing.T) {
	chunks := chunkKeys(keyList(150), ChunkSize)
	assert.Equal(t, 1, chunks[0][0])
	assert.Equal(t, 100, chunks[0][99])
	assert.Equal(t, 101, chunks[1][0])
	assert.Equal(t, 150, chunks[1][49])
}

func TestChunkKeys_SizeOne(t *testing.T) {
	chunks := chunkKeys(keyList(3), 1)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, []interface{}{i + 1}, chunk)
	}
}
