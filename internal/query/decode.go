package query

import (
	"context"
	"database/sql"
	"fmt"
)

// decodeTags lazily fills n.Tags from whichever tag table matches n's kind
// (data item vs bare transaction), trying the stable table first and
// falling back to new — a node's id lives in exactly one of the two at any
// moment outside the brief promotion window.
func decodeTags(ctx context.Context, db *sql.DB, n *Node) error {
	var tagTable, ownerCol string
	if n.IsDataItem() {
		tagTable, ownerCol = "bundles.stable_data_item_tags", "data_item_id"
	} else {
		tagTable, ownerCol = "stable_transaction_tags", "transaction_id"
	}

	tags, err := queryTags(ctx, db, tagTable, ownerCol, n.ID)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		if n.IsDataItem() {
			tagTable, ownerCol = "bundles.new_data_item_tags", "data_item_id"
		} else {
			tagTable, ownerCol = "new_transaction_tags", "transaction_id"
		}
		tags, err = queryTags(ctx, db, tagTable, ownerCol, n.ID)
		if err != nil {
			return err
		}
	}
	n.Tags = tags
	return nil
}

func queryTags(ctx context.Context, db *sql.DB, tagTable, ownerCol string, id []byte) ([]NodeTag, error) {
	indexCol := "transaction_tag_index"
	tagNames, tagValues := "tag_names", "tag_values"
	if ownerCol == "data_item_id" {
		indexCol = "data_item_tag_index"
		tagNames, tagValues = "bundles.tag_names", "bundles.tag_values"
	}
	sqlText := fmt.Sprintf(
		`SELECT tn.name, tv.value
		 FROM %s tag
		 JOIN %s tn ON tn.hash = tag.name_hash
		 JOIN %s tv ON tv.hash = tag.value_hash
		 WHERE tag.%s = ?
		 ORDER BY tag.%s`, tagTable, tagNames, tagValues, ownerCol, indexCol)

	rows, err := db.QueryContext(ctx, sqlText, id)
	if err != nil {
		return nil, fmt.Errorf("query: decode tags: %w", err)
	}
	defer rows.Close()

	var tags []NodeTag
	for rows.Next() {
		var t NodeTag
		if err := rows.Scan(&t.Name, &t.Value); err != nil {
			return nil, fmt.Errorf("query: scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
