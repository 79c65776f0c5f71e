package core

// ChunkSize is the maximum number of primary keys bound into a single
// physical statement. Key lists longer than this are split into multiple
// statements. Module-wide constant, not configurable per call.
const ChunkSize = 100

// chunkKeys partitions an ordered key list into contiguous windows of at most
// size keys, preserving order. An empty list yields zero windows.
func chunkKeys(keys []interface{}, size int) [][]interface{} {
	if len(keys) == 0 {
		return nil
	}

	chunks := make([][]interface{}, 0, (len(keys)+size-1)/size)
	for offset := 0; offset < len(keys); offset += size {
		end := offset + size
		if end > len(keys) {
			end = len(keys)
		}
		chunks = append(chunks, keys[offset:end])
	}
	return chunks
}
