package query

import (
	"fmt"
	"strings"

	"github.com/sm4rtLabel/ar-io-node/internal/ids"
)

// lowSelectivityTagNames are sorted last in a tag join chain because they
// match a large fraction of rows.
var lowSelectivityTagNames = map[string]bool{
	"App-Name":  true,
	"Content-Type": true,
}

// sourceSpec names the physical tables one of the four sources reads from.
// Every source joins the core block_transactions table to recover
// blockTransactionIndex, since that column lives on the tx/block join, not
// on the transaction or data item row itself; items sources join it
// through their root transaction id.
type sourceSpec struct {
	src     source
	table    string // transactions or data items table, schema-qualified
	tagTable   string
	tagOwnerCol string // "transaction_id" or "data_item_id"
	blockTxTable string // core's {{P}}_block_transactions, for block_transaction_index
	blockTxJoinCol string // column on t that block_transactions.transaction_id matches
	walletsTable string
	blocksTable string
}

func specFor(src source) sourceSpec {
	switch src {
	case sourceStableTxs:
		return sourceSpec{src: src, table: "stable_transactions", tagTable: "stable_transaction_tags", tagOwnerCol: "transaction_id", blockTxTable: "stable_block_transactions", blockTxJoinCol: "id", blocksTable: "stable_blocks", walletsTable: "wallets"}
	case sourceNewTxs:
		return sourceSpec{src: src, table: "new_transactions", tagTable: "new_transaction_tags", tagOwnerCol: "transaction_id", blockTxTable: "new_block_transactions", blockTxJoinCol: "id", blocksTable: "new_blocks", walletsTable: "wallets"}
	case sourceStableItems:
		return sourceSpec{src: src, table: "bundles.stable_data_items", tagTable: "bundles.stable_data_item_tags", tagOwnerCol: "data_item_id", blockTxTable: "stable_block_transactions", blockTxJoinCol: "root_transaction_id", blocksTable: "stable_blocks", walletsTable: "bundles.wallets"}
	case sourceNewItems:
		return sourceSpec{src: src, table: "bundles.new_data_items", tagTable: "bundles.new_data_item_tags", tagOwnerCol: "data_item_id", blockTxTable: "new_block_transactions", blockTxJoinCol: "root_transaction_id", blocksTable: "new_blocks", walletsTable: "bundles.wallets"}
	}
	panic("query: unknown source")
}

// orderedTags sorts tag filters so low-selectivity names are joined last.
func orderedTags(tags []TagFilter) []TagFilter {
	sorted := make([]TagFilter, 0, len(tags))
	for _, t := range tags {
		if !lowSelectivityTagNames[string(t.Name)] {
			sorted = append(sorted, t)
		}
	}
	for _, t := range tags {
		if lowSelectivityTagNames[string(t.Name)] {
			sorted = append(sorted, t)
		}
	}
	return sorted
}

// buildQuery constructs the parameterized SELECT for one source, applying
// filters, the cursor predicate, and ordering. It returns the
// SQL text and its positional args.
func buildQuery(src source, params TransactionQueryParams, c cursor, limit int) (string, []any) {
	spec := specFor(src)
	var b strings.Builder
	var args []any

	b.WriteString("SELECT t.height, ")
	if spec.src.isItems() {
		b.WriteString("t.id AS data_item_id, ")
	} else {
		b.WriteString("X'' AS data_item_id, ")
	}
	b.WriteString("t.indexed_at, t.id, t.anchor, t.signature, t.target, ")
	if spec.src.isItems() {
		b.WriteString("'0' AS reward, '0' AS quantity, t.data_size, ")
	} else {
		b.WriteString("t.reward, t.quantity, t.data_size, ")
	}
	b.WriteString("t.content_type, t.owner_address, w.public_modulus, ")
	b.WriteString("bl.indep_hash, bl.block_timestamp, bl.previous_block, ")
	if spec.src.isItems() {
		b.WriteString("t.parent_id, ")
	} else {
		b.WriteString("NULL AS parent_id, ")
	}
	b.WriteString("bt.block_transaction_index")
	fmt.Fprintf(&b, "\nFROM %s t\n", spec.table)
	fmt.Fprintf(&b, "LEFT JOIN %s w ON w.address = t.owner_address\n", spec.walletsTable)
	fmt.Fprintf(&b, "LEFT JOIN %s bt ON bt.transaction_id = t.%s\n", spec.blockTxTable, spec.blockTxJoinCol)
	fmt.Fprintf(&b, "LEFT JOIN %s bl ON bl.height = t.height\n", spec.blocksTable)

	var where []string

	tags := orderedTags(params.Tags)
	for i, tag := range tags {
		alias := fmt.Sprintf("tag%d", i)

		if params.TagMatchMode == MatchExact {
			valuePlaceholders := make([]string, len(tag.Values))
			for j := range tag.Values {
				valuePlaceholders[j] = "?"
			}
			if i == 0 {
				fmt.Fprintf(&b, "JOIN %s %s ON %s.%s = t.%s AND %s.name_hash = ? AND %s.value_hash IN (%s)\n",
					spec.tagTable, alias, alias, spec.tagOwnerCol, idColFor(spec), alias, alias, strings.Join(valuePlaceholders, ","))
			} else {
				prev := fmt.Sprintf("tag%d", i-1)
				fmt.Fprintf(&b, "JOIN %s %s INDEXED BY %s ON %s.%s = %s.%s AND %s.name_hash = ? AND %s.value_hash IN (%s)\n",
					spec.tagTable, alias, indexHintFor(spec), alias, spec.tagOwnerCol, prev, spec.tagOwnerCol, alias, alias, strings.Join(valuePlaceholders, ","))
			}
			args = append(args, ids.TagNameHash(tag.Name))
			for _, v := range tag.Values {
				args = append(args, ids.TagValueHash(v))
			}
			continue
		}

		// WILDCARD/FUZZY_* match against the plaintext value, which the
		// hashed value_hash join can't express, so join the name hash only
		// and bring in the plaintext tag_values dictionary for the value
		// comparison.
		if i == 0 {
			fmt.Fprintf(&b, "JOIN %s %s ON %s.%s = t.%s AND %s.name_hash = ?\n",
				spec.tagTable, alias, alias, spec.tagOwnerCol, idColFor(spec), alias)
		} else {
			prev := fmt.Sprintf("tag%d", i-1)
			fmt.Fprintf(&b, "JOIN %s %s INDEXED BY %s ON %s.%s = %s.%s AND %s.name_hash = ?\n",
				spec.tagTable, alias, indexHintFor(spec), alias, spec.tagOwnerCol, prev, spec.tagOwnerCol, alias)
		}
		args = append(args, ids.TagNameHash(tag.Name))

		valAlias := fmt.Sprintf("tagval%d", i)
		fmt.Fprintf(&b, "JOIN %s %s ON %s.hash = %s.value_hash\n", tagValuesTableFor(spec), valAlias, valAlias, alias)

		joiner := " OR "
		if params.TagMatchMode == MatchFuzzyAnd {
			joiner = " AND "
		}
		conds := make([]string, len(tag.Values))
		for j, v := range tag.Values {
			// value is stored BLOB; CAST to TEXT so LIKE compares as text
			// rather than silently failing to match a BLOB operand.
			conds[j] = fmt.Sprintf("CAST(%s.value AS TEXT) LIKE ? ESCAPE '\\'", valAlias)
			if params.TagMatchMode == MatchWildcard {
				args = append(args, string(v)) // caller-supplied pattern, used as-is
			} else {
				args = append(args, "%"+escapeLike(string(v))+"%")
			}
		}
		where = append(where, "("+strings.Join(conds, joiner)+")")
	}

	if len(params.IDs) > 0 {
		where = append(where, "t.id IN ("+placeholders(len(params.IDs))+")")
		args = appendBytes(args, params.IDs)
	}
	if len(params.Recipients) > 0 {
		where = append(where, "t.target IN ("+placeholders(len(params.Recipients))+")")
		args = appendBytes(args, params.Recipients)
	}
	if len(params.Owners) > 0 {
		where = append(where, "t.owner_address IN ("+placeholders(len(params.Owners))+")")
		args = appendBytes(args, params.Owners)
	}
	if params.MinHeight != nil {
		where = append(where, "t.height >= ?")
		args = append(args, *params.MinHeight)
	}
	if params.MaxHeight != nil {
		where = append(where, "t.height <= ?")
		args = append(args, *params.MaxHeight)
	}
	if spec.src.isItems() && params.BundledIn != nil && params.BundledIn.Mode == BundledInList {
		where = append(where, "t.parent_id IN ("+placeholders(len(params.BundledIn.IDs))+")")
		args = appendBytes(args, params.BundledIn.IDs)
	}

	cursorWhere, cursorArgs := cursorPredicate(spec, c, params.SortOrder)
	if cursorWhere != "" {
		where = append(where, cursorWhere)
		args = append(args, cursorArgs...)
	}

	if len(where) > 0 {
		b.WriteString("WHERE " + strings.Join(where, " AND ") + "\n")
	}

	b.WriteString(orderByClause(params.SortOrder, spec.src.isItems()))
	fmt.Fprintf(&b, "\nLIMIT %d", limit)

	return b.String(), args
}

func idColFor(spec sourceSpec) string {
	return "id"
}

// prefixFor returns the new_/stable_ table prefix a source's schema was
// instantiated with (schema.go's {{P}} template parameter).
func prefixFor(src source) string {
	if src.isStable() {
		return "stable"
	}
	return "new"
}

// indexHintFor names the tag-join index schema.go creates for this
// source's tag table, matching core's "{{P}}_transaction_tags_tx_id_idx"
// and bundles' "{{P}}_data_item_tags_item_id_idx" naming.
func indexHintFor(spec sourceSpec) string {
	prefix := prefixFor(spec.src)
	if spec.src.isItems() {
		return fmt.Sprintf("%s_data_item_tags_item_id_idx", prefix)
	}
	return fmt.Sprintf("%s_transaction_tags_tx_id_idx", prefix)
}

// cursorPredicate builds the WHERE fragment resuming strictly after cursor c
// in the shared (height, blockTransactionIndex, dataItemId, indexedAt, id)
// total order. height and block_transaction_index are NULL together for
// unconfirmed ("new", not yet block-assigned) rows, so the NULL-height plane
// only needs to tiebreak on the remaining three columns.
func cursorPredicate(spec sourceSpec, c cursor, order SortOrder) (string, []any) {
	if c.Height == nil && c.IndexedAt == nil {
		return "", nil
	}

	lt, gt := "<", ">"
	op := lt
	if order == HeightAscending {
		op = gt
	}

	dataItemIDExpr := dataItemIDExprFor(spec)
	dataItemID := c.DataItemID
	if dataItemID == nil {
		dataItemID = []byte{}
	}

	// A nil cursor height marks the boundary between the NULL-height (new,
	// unconfirmed) plane and the real-height plane. Stable sources have no NULL heights, so they are
	// unaffected and return every row on that side of the seek.
	if c.Height == nil {
		if spec.src.isStable() {
			return "", nil
		}
		rest, args := seekTuple(
			[]string{dataItemIDExpr, "t.indexed_at", "t.id"},
			[]any{dataItemID, *c.IndexedAt, c.ID},
			op,
		)
		return "t.height IS NULL AND " + rest, args
	}

	bti := 0
	if c.BlockTransactionIndex != nil {
		bti = *c.BlockTransactionIndex
	}

	// t.height IS NULL sorts before every real height in descending order
	// (NULLS FIRST) and after every real height in ascending order (NULLS
	// LAST). A real-height cursor has therefore already passed the NULL
	// plane in descending order (exclude it), but has not yet reached it in
	// ascending order (admit every NULL-height row unconditionally).
	// block_transaction_index is assigned alongside height (both land in one
	// SaveBlockAndTxs transaction), so a real-height row always has one too.
	core, args := seekTuple(
		[]string{"t.height", "bt.block_transaction_index", dataItemIDExpr, "t.indexed_at", "t.id"},
		[]any{*c.Height, bti, dataItemID, *c.IndexedAt, c.ID},
		op,
	)
	if order == HeightAscending {
		return "(t.height IS NULL OR " + core + ")", args
	}
	return "(t.height IS NOT NULL AND " + core + ")", args
}

// seekTuple builds the standard nested keyset-pagination predicate over cols
// in strict lexicographic order:
// col[0] op ? OR (col[0] = ? AND (col[1] op ? OR (col[1] = ? AND ...))).
func seekTuple(cols []string, vals []any, op string) (string, []any) {
	if len(cols) == 1 {
		return fmt.Sprintf("%s %s ?", cols[0], op), []any{vals[0]}
	}
	rest, restArgs := seekTuple(cols[1:], vals[1:], op)
	args := append([]any{vals[0], vals[0]}, restArgs...)
	return fmt.Sprintf("(%s %s ? OR (%s = ? AND %s))", cols[0], op, cols[0], rest), args
}

// dataItemIDExprFor returns the physical SQL expression a source's rows
// carry their data-item id tiebreaker in: the item row's own id for items
// sources, the same zero-length-blob sentinel the SELECT list projects for
// bare transaction sources (WHERE cannot see SELECT-list aliases, so this
// must match buildQuery's "X'' AS data_item_id" projection exactly).
func dataItemIDExprFor(spec sourceSpec) string {
	if spec.src.isItems() {
		return "t.id"
	}
	return "X''"
}

func orderByClause(order SortOrder, items bool) string {
	dir := "DESC"
	nulls := "NULLS FIRST"
	if order == HeightAscending {
		dir = "ASC"
		nulls = "NULLS LAST"
	}
	dataItemIDExpr := "X''"
	if items {
		dataItemIDExpr = "t.id"
	}
	return fmt.Sprintf("ORDER BY t.height %s %s, bt.block_transaction_index %s %s, %s %s, t.indexed_at %s, t.id %s",
		dir, nulls, dir, nulls, dataItemIDExpr, dir, dir, dir)
}

// tagValuesTableFor returns the plaintext tag-value dictionary table for a
// source: core's shared tag_values for tx sources, bundles' own copy for
// item sources (the bundles store's schema keeps a separate dictionary since it
// lives in a different attached database file).
func tagValuesTableFor(spec sourceSpec) string {
	if spec.src.isItems() {
		return "bundles.tag_values"
	}
	return "tag_values"
}

// escapeLike escapes the LIKE metacharacters in s for use inside a
// "LIKE ? ESCAPE '\'" pattern, so fuzzy matching treats a tag value's own
// %, _, and \ literally before substring-wrapping it.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ",")
}

func appendBytes(args []any, values [][]byte) []any {
	for _, v := range values {
		args = append(args, v)
	}
	return args
}
