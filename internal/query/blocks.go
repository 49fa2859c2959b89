package query

import (
	"context"
	"database/sql"
	"fmt"
)

// BlockQueryParams is the input to GetGqlBlocks, narrowed to the one thing
// blocks actually vary on: height.
type BlockQueryParams struct {
	PageSize int
	Cursor  string // opaque, encodes a height; empty means "first page"
	SortOrder SortOrder
	IDs    [][]byte // indep_hash values
	MinHeight *int64
	MaxHeight *int64
}

// BlockNode is the projection returned for a block.
type BlockNode struct {
	Height    int64
	IndepHash   []byte
	PreviousBlock []byte
	Timestamp   int64
	TxCount    int
}

// BlockEdge pairs a BlockNode with the cursor that resumes pagination
// immediately after it.
type BlockEdge struct {
	Cursor string
	Node  BlockNode
}

// BlockPage is the result of a paginated block query.
type BlockPage struct {
	PageInfo PageInfo
	Edges  []BlockEdge
}

// GetGqlBlocks pages over new_blocks and stable_blocks, ordered by height,
// unioned the same way GetGqlTransactions unions its four sources.
func (p *Planner) GetGqlBlocks(ctx context.Context, params BlockQueryParams) (BlockPage, error) {
	if params.PageSize <= 0 {
		params.PageSize = 100
	}
	startHeight, err := decodeBlockCursor(params.Cursor)
	if err != nil {
		return BlockPage{}, err
	}

	fetchLimit := params.PageSize + 1
	newNodes, err := p.queryBlocks(ctx, "new_blocks", params, startHeight, fetchLimit)
	if err != nil {
		return BlockPage{}, err
	}
	stableNodes, err := p.queryBlocks(ctx, "stable_blocks", params, startHeight, fetchLimit)
	if err != nil {
		return BlockPage{}, err
	}

	merged := mergeSortedBlocks(newNodes, stableNodes, params.SortOrder)
	hasNextPage := len(merged) > params.PageSize
	if hasNextPage {
		merged = merged[:params.PageSize]
	}

	edges := make([]BlockEdge, len(merged))
	for i, n := range merged {
		edges[i] = BlockEdge{Cursor: encodeBlockCursor(n.Height), Node: n}
	}
	return BlockPage{PageInfo: PageInfo{HasNextPage: hasNextPage}, Edges: edges}, nil
}

// GetGqlBlock is a point lookup by indep_hash, checking stable_blocks
// first (the common case for a chain-confirmed block) then new_blocks.
func (p *Planner) GetGqlBlock(ctx context.Context, indepHash []byte) (*BlockNode, error) {
	for _, table := range []string{"stable_blocks", "new_blocks"} {
		query := fmt.Sprintf(
			"SELECT height, indep_hash, previous_block, block_timestamp, tx_count FROM %s WHERE indep_hash = ?", table)
		row := p.db.QueryRowContext(ctx, query, indepHash)
		var n BlockNode
		err := row.Scan(&n.Height, &n.IndepHash, &n.PreviousBlock, &n.Timestamp, &n.TxCount)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("query: getGqlBlock %s: %w", table, err)
		}
		return &n, nil
	}
	return nil, nil
}

func (p *Planner) queryBlocks(ctx context.Context, table string, params BlockQueryParams, startHeight *int64, limit int) ([]BlockNode, error) {
	var where []string
	var args []any

	if len(params.IDs) > 0 {
		where = append(where, "indep_hash IN ("+placeholders(len(params.IDs))+")")
		args = appendBytes(args, params.IDs)
	}
	if params.MinHeight != nil {
		where = append(where, "height >= ?")
		args = append(args, *params.MinHeight)
	}
	if params.MaxHeight != nil {
		where = append(where, "height <= ?")
		args = append(args, *params.MaxHeight)
	}
	if startHeight != nil {
		if params.SortOrder == HeightAscending {
			where = append(where, "height > ?")
		} else {
			where = append(where, "height < ?")
		}
		args = append(args, *startHeight)
	}

	query := fmt.Sprintf("SELECT height, indep_hash, previous_block, block_timestamp, tx_count FROM %s", table)
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}

	if params.SortOrder == HeightAscending {
		query += " ORDER BY height ASC"
	} else {
		query += " ORDER BY height DESC"
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: queryBlocks %s: %w", table, err)
	}
	defer rows.Close()

	var out []BlockNode
	for rows.Next() {
		var n BlockNode
		if err := rows.Scan(&n.Height, &n.IndepHash, &n.PreviousBlock, &n.Timestamp, &n.TxCount); err != nil {
			return nil, fmt.Errorf("query: scan block: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func mergeSortedBlocks(a, b []BlockNode, order SortOrder) []BlockNode {
	out := make([]BlockNode, 0, len(a)+len(b))
	i, j := 0, 0
	less := func(x, y int64) bool {
		if order == HeightAscending {
			return x < y
		}
		return x > y
	}
	for i < len(a) && j < len(b) {
		if a[i].Height == b[j].Height {
			out = append(out, a[i])
			i++
			j++
			continue
		}
		if less(a[i].Height, b[j].Height) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func encodeBlockCursor(height int64) string {
	return encodeCursor(cursor{Height: &height})
}

func decodeBlockCursor(s string) (*int64, error) {
	c, err := decodeCursor(s)
	if err != nil {
		return nil, err
	}
	return c.Height, nil
}
