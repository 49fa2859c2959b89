package stream

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeOffsets struct {
	dataRoot []byte
	offset   int64
	size     int64
}

func (f fakeOffsets) GetTxOffset(ctx context.Context, txID []byte) ([]byte, int64, int64, error) {
	return f.dataRoot, f.offset, f.size, nil
}

type fakeChunks struct {
	data  []byte
	chunk int64
	calls []int64
}

func (f *fakeChunks) GetChunkDataByAbsoluteOrRelativeOffset(ctx context.Context, txSize, absoluteOffset int64, dataRoot []byte, relativeOffset int64) ([]byte, error) {
	f.calls = append(f.calls, relativeOffset)
	end := relativeOffset + f.chunk
	if end > int64(len(f.data)) {
		end = int64(len(f.data))
	}
	return f.data[relativeOffset:end], nil
}

// Invariant 7: stream length equals the declared size, and chunks are
// requested in strict ascending relative-offset order.
func TestGetTxData_StreamLengthAndOrder(t *testing.T) {
	payload := []byte("0123456789abcdef") // 16 bytes
	offsets := fakeOffsets{dataRoot: []byte("root"), offset: 99, size: int64(len(payload))}
	chunks := &fakeChunks{data: payload, chunk: 5}

	stream, size, err := GetTxData(context.Background(), offsets, chunks, []byte("tx"))
	require.NoError(t, err)
	require.EqualValues(t, len(payload), size)

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.Equal(t, []int64{0, 5, 10, 15}, chunks.calls)
}

type erroringChunks struct{}

func (erroringChunks) GetChunkDataByAbsoluteOrRelativeOffset(ctx context.Context, txSize, absoluteOffset int64, dataRoot []byte, relativeOffset int64) ([]byte, error) {
	return nil, errors.New("fetch failed")
}

func TestGetTxData_ChunkFetchFailureDestroysStream(t *testing.T) {
	offsets := fakeOffsets{dataRoot: []byte("root"), offset: 9, size: 10}
	stream, _, err := GetTxData(context.Background(), offsets, erroringChunks{}, []byte("tx"))
	require.NoError(t, err)

	_, err = io.ReadAll(stream)
	require.Error(t, err)
}

// Invariant 8: chunk cache idempotence — repeated gets for the same
// (dataRoot, relativeOffset) return the bytes the underlying source
// returned on first miss, and the underlying source is hit only once.
func TestCachedChunkSource_Idempotent(t *testing.T) {
	chunks := &fakeChunks{data: []byte("hello world"), chunk: 5}
	cached, err := NewCachedChunkSource(chunks, 16)
	require.NoError(t, err)

	first, err := cached.GetChunkDataByAbsoluteOrRelativeOffset(context.Background(), 11, 100, []byte("root"), 0)
	require.NoError(t, err)
	second, err := cached.GetChunkDataByAbsoluteOrRelativeOffset(context.Background(), 11, 999, []byte("root"), 0)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, chunks.calls, 1)
}
