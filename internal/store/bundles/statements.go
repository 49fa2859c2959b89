package bundles

// statements returns every named SQL fragment the bundles store prepares at
// worker construction.
func statements() map[string]string {
	return map[string]string{
		"insertOrIgnoreTagName": `INSERT OR IGNORE INTO tag_names (hash, name) VALUES (?, ?)`,
		"insertOrIgnoreTagValue": `INSERT OR IGNORE INTO tag_values (hash, value) VALUES (?, ?)`,
		"insertOrIgnoreWallet":  `INSERT OR IGNORE INTO wallets (address, public_modulus) VALUES (?, ?)`,

		"insertOrIgnoreFilter": `INSERT OR IGNORE INTO filters (filter) VALUES (?)`,
		"selectFilterId":    `SELECT id FROM filters WHERE filter = ?`,
		"insertOrIgnoreBundleFormat": `INSERT OR IGNORE INTO bundle_formats (name) VALUES (?)`,
		"selectBundleFormatId":    `SELECT id FROM bundle_formats WHERE name = ?`,

		"upsertNewDataItemTag": `
			INSERT INTO new_data_item_tags (data_item_id, name_hash, value_hash, data_item_tag_index, indexed_at, height)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (data_item_id, data_item_tag_index) DO UPDATE SET
				name_hash = excluded.name_hash,
				value_hash = excluded.value_hash,
				indexed_at = excluded.indexed_at,
				height = excluded.height`,

		"upsertNewDataItem": `
			INSERT INTO new_data_items (
				id, parent_id, root_transaction_id, owner_address, anchor, signature, target,
				data_offset, data_size, tag_count, content_type, filter_id, indexed_at, height
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				parent_id = excluded.parent_id,
				root_transaction_id = excluded.root_transaction_id,
				owner_address = excluded.owner_address,
				anchor = excluded.anchor,
				signature = excluded.signature,
				target = excluded.target,
				data_offset = excluded.data_offset,
				data_size = excluded.data_size,
				tag_count = excluded.tag_count,
				content_type = excluded.content_type,
				filter_id = excluded.filter_id,
				indexed_at = excluded.indexed_at,
				height = COALESCE(excluded.height, new_data_items.height)`,

		"upsertNewBundle": `
			INSERT INTO new_bundles (
				id, root_transaction_id, format_id, unbundle_filter_id, index_filter_id,
				data_item_count, matched_data_item_count, queued_at, skipped_at, unbundled_at, fully_indexed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				root_transaction_id = excluded.root_transaction_id,
				format_id = excluded.format_id,
				unbundle_filter_id = excluded.unbundle_filter_id,
				index_filter_id = excluded.index_filter_id,
				data_item_count = excluded.data_item_count,
				matched_data_item_count = excluded.matched_data_item_count,
				queued_at = COALESCE(excluded.queued_at, new_bundles.queued_at),
				skipped_at = COALESCE(excluded.skipped_at, new_bundles.skipped_at),
				unbundled_at = COALESCE(excluded.unbundled_at, new_bundles.unbundled_at),
				fully_indexed_at = COALESCE(excluded.fully_indexed_at, new_bundles.fully_indexed_at)`,

		"updateBundleFullyIndexedAt": `
			UPDATE new_bundles SET fully_indexed_at = ? WHERE id = ?`,

		"updateDataItemsForFilterChange": `
			UPDATE new_data_items SET filter_id = ? WHERE root_transaction_id = ?`,

		"selectFailedBundleIds": `
			SELECT id FROM new_bundles
			WHERE skipped_at IS NOT NULL AND unbundled_at IS NULL
			ORDER BY skipped_at
			LIMIT ?`,

		"selectBackfillBundleIds": `
			SELECT root_transaction_id FROM new_data_items
			WHERE root_transaction_id NOT IN (SELECT root_transaction_id FROM new_bundles)
			LIMIT ?`,

		// Promotion: copy new_* rows at or below endHeight into stable_*.
		"insertOrIgnoreStableDataItems": `
			INSERT OR IGNORE INTO stable_data_items SELECT * FROM new_data_items WHERE height <= ?`,
		"insertOrIgnoreStableDataItemTags": `
			INSERT OR IGNORE INTO stable_data_item_tags SELECT * FROM new_data_item_tags WHERE height <= ?`,

		// resetToHeight: roll back the tip without touching stable_*.
		"clearHeightsOnNewDataItemsAboveHeight": `
			UPDATE new_data_items SET height = NULL WHERE height > ?`,
		"clearHeightsOnNewDataItemTagsAboveHeight": `
			UPDATE new_data_item_tags SET height = NULL WHERE height > ?`,

		// Garbage collection of rows already promoted to stable.
		"deleteStaleNewDataItems": `
			DELETE FROM new_data_items WHERE height <= ? OR indexed_at < ?`,
		"deleteStaleNewDataItemTags": `
			DELETE FROM new_data_item_tags WHERE height <= ? OR indexed_at < ?`,

		// Debug counts and the bundle-staleness warning.
		"selectStaleFullyIndexedCutoffBundles": `
			SELECT COUNT(*) FROM new_bundles
			WHERE fully_indexed_at IS NULL AND unbundled_at IS NOT NULL AND unbundled_at < ?`,
	}
}
