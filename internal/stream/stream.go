// Package stream implements the streaming transaction-data assembler:
// pull a transaction's chunks in strict order from a chunk source and
// push them through an io.Pipe, matching Go's "producer goroutine writes,
// caller reads" idiom rather than a callback or async-iterator interface.
package stream

import (
	"context"
	"fmt"
	"io"
)

// TxOffsetSource resolves a transaction's data root and its absolute byte
// range in the weave. One GetTxOffset call returns data_root together with
// (offset, size), rather than two separate fetches.
type TxOffsetSource interface {
	GetTxOffset(ctx context.Context, txID []byte) (dataRoot []byte, absoluteOffset int64, size int64, err error)
}

// ChunkSource fetches one chunk of a transaction's data by its absolute
// weave offset, also carrying the content-addressed coordinates
// (dataRoot, relativeOffset) a cache needs to key on.
type ChunkSource interface {
	GetChunkDataByAbsoluteOrRelativeOffset(ctx context.Context, txSize, absoluteOffset int64, dataRoot []byte, relativeOffset int64) ([]byte, error)
}

// GetTxData returns a stream of txID's data and its total size. Reads off
// the returned ReadCloser pull chunks from chunks one at a time, in strict
// offset order; a fetch failure is delivered as a read error via
// io.Pipe's error-carrying Close, never silently truncating the stream.
func GetTxData(ctx context.Context, offsets TxOffsetSource, chunks ChunkSource, txID []byte) (io.ReadCloser, int64, error) {
	dataRoot, absoluteOffset, size, err := offsets.GetTxOffset(ctx, txID)
	if err != nil {
		return nil, 0, fmt.Errorf("stream: get tx offset: %w", err)
	}

	startOffset := absoluteOffset - size + 1
	pr, pw := io.Pipe()

	go func() {
		var written int64
		for written < size {
			chunk, err := chunks.GetChunkDataByAbsoluteOrRelativeOffset(ctx, size, startOffset+written, dataRoot, written)
			if err != nil {
				pw.CloseWithError(fmt.Errorf("stream: fetch chunk at relative offset %d: %w", written, err))
				return
			}
			if _, err := pw.Write(chunk); err != nil {
				return // reader went away; nothing left to clean up.
			}
			written += int64(len(chunk))
		}
		pw.Close()
	}()

	return pr, size, nil
}
