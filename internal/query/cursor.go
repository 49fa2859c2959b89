package query

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/sm4rtLabel/ar-io-node/internal/errs"
	"github.com/sm4rtLabel/ar-io-node/internal/ids"
)

// cursor is the decoded form of the opaque pagination token: a position in
// the total order (height, blockTransactionIndex, dataItemId, indexedAt,
// id). Fields are nil/zero when the cursor marks the very first page.
type cursor struct {
	Height        *int64
	BlockTransactionIndex *int
	DataItemID      []byte
	IndexedAt       *int64
	ID          []byte
}

// encodeCursor renders a cursor as the opaque, URL-safe-base64(JSON tuple)
// string callers round-trip.
func encodeCursor(c cursor) string {
	tuple := []any{c.Height, c.BlockTransactionIndex, encodeOptionalID(c.DataItemID), c.IndexedAt, encodeOptionalID(c.ID)}
	raw, err := json.Marshal(tuple)
	if err != nil {
		// tuple is entirely built from nil/int64/string — cannot fail.
		panic(fmt.Sprintf("query: marshal cursor: %v", err))
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(raw)
}

// decodeCursor parses the opaque cursor string produced by encodeCursor.
// An empty string decodes to the zero cursor (first page).
func decodeCursor(s string) (cursor, error) {
	if s == "" {
		return cursor{}, nil
	}
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(s)
	if err != nil {
		return cursor{}, fmt.Errorf("%w: %v", errs.ErrCursorInvalid, err)
	}
	var tuple [5]json.RawMessage
	if err := json.Unmarshal(raw, &tuple); err != nil {
		return cursor{}, fmt.Errorf("%w: %v", errs.ErrCursorInvalid, err)
	}
	var c cursor
	if err := unmarshalOptionalInt64(tuple[0], &c.Height); err != nil {
		return cursor{}, fmt.Errorf("%w: height: %v", errs.ErrCursorInvalid, err)
	}
	var bti *int
	if err := json.Unmarshal(tuple[1], &bti); err != nil {
		return cursor{}, fmt.Errorf("%w: blockTransactionIndex: %v", errs.ErrCursorInvalid, err)
	}
	c.BlockTransactionIndex = bti
	var dataItemID *string
	if err := json.Unmarshal(tuple[2], &dataItemID); err != nil {
		return cursor{}, fmt.Errorf("%w: dataItemId: %v", errs.ErrCursorInvalid, err)
	}
	if dataItemID != nil {
		decoded, err := ids.Decode(*dataItemID)
		if err != nil {
			return cursor{}, fmt.Errorf("%w: dataItemId: %v", errs.ErrCursorInvalid, err)
		}
		c.DataItemID = decoded
	}
	if err := unmarshalOptionalInt64(tuple[3], &c.IndexedAt); err != nil {
		return cursor{}, fmt.Errorf("%w: indexedAt: %v", errs.ErrCursorInvalid, err)
	}
	var id *string
	if err := json.Unmarshal(tuple[4], &id); err != nil {
		return cursor{}, fmt.Errorf("%w: id: %v", errs.ErrCursorInvalid, err)
	}
	if id != nil {
		decoded, err := ids.Decode(*id)
		if err != nil {
			return cursor{}, fmt.Errorf("%w: id: %v", errs.ErrCursorInvalid, err)
		}
		c.ID = decoded
	}
	return c, nil
}

func encodeOptionalID(b []byte) *string {
	if b == nil {
		return nil
	}
	s := ids.Encode(b)
	return &s
}

func unmarshalOptionalInt64(raw json.RawMessage, dst **int64) error {
	var v *int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// cursorOf returns the cursor that resumes pagination immediately after n.
func cursorOf(n Node) cursor {
	bti := n.BlockTransactionIndex
	indexedAt := n.IndexedAt
	return cursor{
		Height:        n.Height,
		BlockTransactionIndex: &bti,
		DataItemID:      n.DataItemID,
		IndexedAt:       &indexedAt,
		ID:          n.ID,
	}
}
