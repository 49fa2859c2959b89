package data

func statements() map[string]string {
	return map[string]string{
		"insertOrIgnoreDataHash": `
			INSERT OR IGNORE INTO data_hashes (hash, data_size, original_source_content_type, cached_at, indexed_at)
			VALUES (?, ?, ?, ?, ?)`,
		"insertOrIgnoreDataId":   `INSERT OR IGNORE INTO data_ids (id, hash) VALUES (?, ?)`,
		"insertOrIgnoreDataRoot": `INSERT OR IGNORE INTO data_roots (data_root, hash) VALUES (?, ?)`,

		"insertOrIgnoreNestedDataId": `
			INSERT OR IGNORE INTO nested_data_ids (id, parent_id, data_offset, data_size) VALUES (?, ?, ?, ?)`,
		"insertOrIgnoreNestedDataHash": `
			INSERT OR IGNORE INTO nested_data_hashes (hash, parent_id, data_offset) VALUES (?, ?, ?)`,

		"selectHashById":     `SELECT hash FROM data_ids WHERE id = ?`,
		"selectHashByRoot":   `SELECT hash FROM data_roots WHERE data_root = ?`,
		"selectDataHash":     `SELECT data_size, original_source_content_type, cached_at, indexed_at FROM data_hashes WHERE hash = ?`,
		"selectNestedByHash": `SELECT parent_id, data_offset FROM nested_data_hashes WHERE hash = ? LIMIT 1`,
		"selectNestedById":   `SELECT parent_id, data_offset, data_size FROM nested_data_ids WHERE id = ?`,
	}
}
