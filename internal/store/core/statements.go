package core

// statements returns every named SQL fragment the core store prepares at
// worker construction. Names are domain verbs: one purpose-named statement
// per SQL shape rather than building queries ad hoc per call site.
func statements() map[string]string {
	s := map[string]string{
		"insertOrIgnoreNewBlock": `
			INSERT OR IGNORE INTO new_blocks (
				height, indep_hash, previous_block, nonce, mining_hash, block_timestamp,
				diff, cumulative_diff, last_retarget, reward_addr, reward_pool,
				block_size, weave_size,
				usd_to_ar_rate_dividend, usd_to_ar_rate_divisor,
				scheduled_usd_to_ar_rate_dividend, scheduled_usd_to_ar_rate_divisor,
				hash_list_merkle, wallet_list_hash, tx_root, tx_count, missing_tx_count
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"insertOrIgnoreNewBlockTransaction": `
			INSERT OR IGNORE INTO new_block_transactions (height, transaction_id, block_transaction_index)
			VALUES (?, ?, ?)`,

		"insertOrIgnoreTagName": `INSERT OR IGNORE INTO tag_names (hash, name) VALUES (?, ?)`,
		"insertOrIgnoreTagValue": `INSERT OR IGNORE INTO tag_values (hash, value) VALUES (?, ?)`,
		"insertOrIgnoreWallet":  `INSERT OR IGNORE INTO wallets (address, public_modulus) VALUES (?, ?)`,

		"upsertNewTransactionTag": `
			INSERT INTO new_transaction_tags (transaction_id, name_hash, value_hash, transaction_tag_index, indexed_at, height)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (transaction_id, transaction_tag_index) DO UPDATE SET
				name_hash = excluded.name_hash,
				value_hash = excluded.value_hash,
				indexed_at = excluded.indexed_at,
				height = excluded.height`,

		"upsertNewTransaction": `
			INSERT INTO new_transactions (
				id, signature, format, last_tx, owner_address, target, quantity, reward,
				data_size, data_root, tag_count, content_type, created_at, indexed_at, height
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				signature = excluded.signature,
				format = excluded.format,
				last_tx = excluded.last_tx,
				owner_address = excluded.owner_address,
				target = excluded.target,
				quantity = excluded.quantity,
				reward = excluded.reward,
				data_size = excluded.data_size,
				data_root = excluded.data_root,
				tag_count = excluded.tag_count,
				content_type = excluded.content_type,
				indexed_at = excluded.indexed_at,
				height = COALESCE(excluded.height, new_transactions.height)`,

		"insertOrIgnoreMissingTransaction": `
			INSERT OR IGNORE INTO missing_transactions (height, transaction_id) VALUES (?, ?)`,
		"deleteMissingTransaction":     `DELETE FROM missing_transactions WHERE transaction_id = ?`,
		"selectMissingTransactionHeight":  `SELECT height FROM missing_transactions WHERE transaction_id = ?`,

		"selectMaxNewHeight":     `SELECT MAX(height) FROM new_blocks`,
		"selectMaxStableBlockHeight": `SELECT MAX(height) FROM stable_blocks`,
		"selectMaxStableBlockTimestamp": `SELECT MAX(block_timestamp) FROM stable_blocks`,
		"selectNewBlockHashByHeight":  `SELECT indep_hash FROM new_blocks WHERE height = ?`,
		"selectStableBlockHashByHeight": `SELECT indep_hash FROM stable_blocks WHERE height = ?`,

		"selectMissingTxIdsUpToHeight": `
			SELECT transaction_id FROM missing_transactions WHERE height <= ? ORDER BY height, transaction_id`,

		"selectTransactionHeight": `
			SELECT height FROM new_transactions WHERE id = ?
			UNION ALL
			SELECT height FROM stable_transactions WHERE id = ?
			LIMIT 1`,

		"upsertTransactionOffset": `
			INSERT INTO transaction_offsets (transaction_id, absolute_offset) VALUES (?, ?)
			ON CONFLICT (transaction_id) DO UPDATE SET absolute_offset = excluded.absolute_offset
			WHERE transaction_offsets.absolute_offset IS NULL`,

		"selectTxIdsMissingOffsets": `
			SELECT t.id FROM (
				SELECT id FROM new_transactions
				UNION
				SELECT id FROM stable_transactions
			) t
			LEFT JOIN transaction_offsets o ON o.transaction_id = t.id
			WHERE o.absolute_offset IS NULL
			LIMIT ?`,

		// Promotion: copy new_* rows at or below endHeight into stable_*.
		"insertOrIgnoreStableBlocks": `
			INSERT OR IGNORE INTO stable_blocks SELECT * FROM new_blocks WHERE height <= ?`,
		"insertOrIgnoreStableBlockTransactions": `
			INSERT OR IGNORE INTO stable_block_transactions SELECT * FROM new_block_transactions WHERE height <= ?`,
		"insertOrIgnoreStableTransactions": `
			INSERT OR IGNORE INTO stable_transactions SELECT * FROM new_transactions WHERE height <= ?`,
		"insertOrIgnoreStableTransactionTags": `
			INSERT OR IGNORE INTO stable_transaction_tags SELECT * FROM new_transaction_tags WHERE height <= ?`,

		// resetToHeight: roll back the tip without touching stable_*.
		"clearHeightsOnNewTransactionsAboveHeight": `
			UPDATE new_transactions SET height = NULL WHERE height > ?`,
		"clearHeightsOnNewTransactionTagsAboveHeight": `
			UPDATE new_transaction_tags SET height = NULL WHERE height > ?`,
		"deleteNewBlocksAboveHeight":       `DELETE FROM new_blocks WHERE height > ?`,
		"deleteNewBlockTransactionsAboveHeight":  `DELETE FROM new_block_transactions WHERE height > ?`,
		"deleteMissingTransactionsAboveHeight":  `DELETE FROM missing_transactions WHERE height > ?`,

		// Garbage collection of rows already promoted to stable.
		"deleteStaleNewTransactions": `
			DELETE FROM new_transactions WHERE height <= ? OR indexed_at < ?`,
		"deleteStaleNewTransactionTags": `
			DELETE FROM new_transaction_tags WHERE height <= ? OR indexed_at < ?`,
		"deleteStaleNewBlockTransactions": `
			DELETE FROM new_block_transactions WHERE NOT EXISTS (
				SELECT 1 FROM new_transactions t WHERE t.id = new_block_transactions.transaction_id
			)`,

		// Debug / invariant checks.
		"selectStableTxIdsNotInStableBlockTransactions": `
			SELECT id FROM stable_transactions
			WHERE id NOT IN (SELECT transaction_id FROM stable_block_transactions)
			LIMIT 1`,
		"selectStableBlockCount":   `SELECT COUNT(*) FROM stable_blocks`,
		"selectStableBlockHeightRange": `SELECT MIN(height), MAX(height) FROM stable_blocks`,
		"selectStableTxCount":    `SELECT COUNT(*) FROM stable_transactions`,
		"selectStableBlockTxCount":  `SELECT COUNT(*) FROM stable_block_transactions`,
	}
	return s
}

// blockColumns lists the new_blocks/stable_blocks columns in the order
// insertOrIgnoreNewBlock binds them, shared with the row-scan helpers.
var blockColumns = []string{
	"height", "indep_hash", "previous_block", "nonce", "mining_hash", "block_timestamp",
	"diff", "cumulative_diff", "last_retarget", "reward_addr", "reward_pool",
	"block_size", "weave_size",
	"usd_to_ar_rate_dividend", "usd_to_ar_rate_divisor",
	"scheduled_usd_to_ar_rate_dividend", "scheduled_usd_to_ar_rate_divisor",
	"hash_list_merkle", "wallet_list_hash", "tx_root", "tx_count", "missing_tx_count",
}
