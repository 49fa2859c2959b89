package query

import (
	"context"
	"database/sql"
	"fmt"
)

// Planner answers paginated, tag-filtered queries over the four physical
// sources (stable/new transactions and data items), unioned into a
// single sorted stream. db is the core store's
// connection with the bundles schema ATTACHed (bundles.Store.Open does the
// reverse attach; either attachment lets one connection see both schemas).
type Planner struct {
	db *sql.DB
}

// NewPlanner wraps a database connection that can see both the core and
// bundles schemas.
func NewPlanner(db *sql.DB) *Planner {
	return &Planner{db: db}
}

// sourcesFor returns the physical sources a query must touch, given its
// bundledIn filter (null/list/omitted).
func sourcesFor(b *BundledIn) []source {
	mode := BundledInOmitted
	if b != nil {
		mode = b.Mode
	}
	switch mode {
	case BundledInNull:
		return []source{sourceNewTxs, sourceStableTxs}
	case BundledInList:
		return []source{sourceNewItems, sourceStableItems}
	default:
		return []source{sourceNewTxs, sourceStableTxs, sourceNewItems, sourceStableItems}
	}
}

// GetGqlTransactions runs params over every applicable source and merges
// the results into one page in the shared total order.
func (p *Planner) GetGqlTransactions(ctx context.Context, params TransactionQueryParams) (Page, error) {
	if params.PageSize <= 0 {
		params.PageSize = 100
	}
	c, err := decodeCursor(params.Cursor)
	if err != nil {
		return Page{}, err
	}

	fetchLimit := params.PageSize + 1
	var merged []Node
	for _, src := range sourcesFor(params.BundledIn) {
		rows, err := p.queryOne(ctx, src, params, c, fetchLimit)
		if err != nil {
			return Page{}, err
		}
		merged = mergeSorted(merged, rows, params.SortOrder)
	}

	hasNextPage := len(merged) > params.PageSize
	if hasNextPage {
		merged = merged[:params.PageSize]
	}

	for i := range merged {
		if err := decodeTags(ctx, p.db, &merged[i]); err != nil {
			return Page{}, err
		}
	}

	edges := make([]Edge, len(merged))
	for i, n := range merged {
		edges[i] = Edge{Cursor: encodeCursor(cursorOf(n)), Node: n}
	}
	return Page{PageInfo: PageInfo{HasNextPage: hasNextPage}, Edges: edges}, nil
}

// GetGqlTransaction is a point lookup by id, trying every source in turn.
func (p *Planner) GetGqlTransaction(ctx context.Context, id []byte) (*Node, error) {
	params := TransactionQueryParams{PageSize: 1, IDs: [][]byte{id}, SortOrder: HeightDescending}
	for _, src := range []source{sourceStableTxs, sourceStableItems, sourceNewTxs, sourceNewItems} {
		rows, err := p.queryOne(ctx, src, params, cursor{}, 1)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			if err := decodeTags(ctx, p.db, &rows[0]); err != nil {
				return nil, err
			}
			return &rows[0], nil
		}
	}
	return nil, nil
}

// MatchMode selects how GetGqlSearchByTags compares tag filter values:
// EXACT/WILDCARD/FUZZY_AND/FUZZY_OR. EXACT keeps the hash-indexed
// value_hash IN(...) join; the other three join the plaintext tag_values
// dictionary instead and compare with LIKE, since the hash index can't
// express a partial match.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchWildcard
	MatchFuzzyAnd
	MatchFuzzyOr
)

// GetGqlSearchByTags runs GetGqlTransactions with params' tag filters
// compared under mode; every other filter in params applies unchanged.
func (p *Planner) GetGqlSearchByTags(ctx context.Context, params TransactionQueryParams, mode MatchMode) (Page, error) {
	params.TagMatchMode = mode
	return p.GetGqlTransactions(ctx, params)
}

func (p *Planner) queryOne(ctx context.Context, src source, params TransactionQueryParams, c cursor, limit int) ([]Node, error) {
	sqlText, args := buildQuery(src, params, c, limit)
	rows, err := p.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query: source %d: %w", src, err)
	}
	defer rows.Close()

	var out []Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNode(rows *sql.Rows) (Node, error) {
	var n Node
	var height sql.NullInt64
	var dataItemID []byte
	var blockIndepHash, blockPrev sql.NullString
	var blockTimestamp sql.NullInt64
	var parentID []byte
	var publicModulus []byte
	var blockTxIndex sql.NullInt64

	if err := rows.Scan(
		&height, &dataItemID, &n.IndexedAt, &n.ID, &n.Anchor, &n.Signature, &n.Target,
		&n.Reward, &n.Quantity, &n.DataSize, &n.ContentType, &n.OwnerAddress, &publicModulus,
		&blockIndepHash, &blockTimestamp, &blockPrev, &parentID, &blockTxIndex); err != nil {
		return Node{}, fmt.Errorf("query: scan row: %w", err)
	}

	if height.Valid {
		h := height.Int64
		n.Height = &h
	}
	n.DataItemID = dataItemID
	n.PublicModulus = publicModulus
	n.ParentID = parentID
	if blockIndepHash.Valid {
		n.BlockIndepHash = []byte(blockIndepHash.String)
	}
	if blockPrev.Valid {
		n.BlockPreviousBlock = []byte(blockPrev.String)
	}
	if blockTimestamp.Valid {
		n.BlockTimestamp = blockTimestamp.Int64
	}
	if blockTxIndex.Valid {
		n.BlockTransactionIndex = int(blockTxIndex.Int64)
	}
	return n, nil
}

// mergeSorted merges two already-sorted (per order) Node slices into one
// sorted slice holding every row of both — callers pass the running
// merged accumulator as a and the newly fetched source as b, and clip the
// result to pageSize afterwards.
func mergeSorted(a, b []Node, order SortOrder) []Node {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]Node, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if nodeLess(a[i], b[j], order) {
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

// nodeLess orders two nodes per the shared total order: height (NULL first
// on descending, last on ascending), then blockTransactionIndex, then
// dataItemId, then indexedAt, then id.
func nodeLess(a, b Node, order SortOrder) bool {
	ah, bh := a.Height, b.Height
	if (ah == nil) != (bh == nil) {
		if order == HeightDescending {
			return ah == nil
		}
		return bh == nil
	}
	if ah != nil && bh != nil && *ah != *bh {
		if order == HeightDescending {
			return *ah > *bh
		}
		return *ah < *bh
	}
	if a.BlockTransactionIndex != b.BlockTransactionIndex {
		if order == HeightDescending {
			return a.BlockTransactionIndex > b.BlockTransactionIndex
		}
		return a.BlockTransactionIndex < b.BlockTransactionIndex
	}
	if cmp := compareBytes(a.DataItemID, b.DataItemID); cmp != 0 {
		if order == HeightDescending {
			return cmp > 0
		}
		return cmp < 0
	}
	if a.IndexedAt != b.IndexedAt {
		if order == HeightDescending {
			return a.IndexedAt > b.IndexedAt
		}
		return a.IndexedAt < b.IndexedAt
	}
	cmp := compareBytes(a.ID, b.ID)
	if order == HeightDescending {
		return cmp > 0
	}
	return cmp < 0
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
