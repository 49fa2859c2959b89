package moderation

func statements() map[string]string {
	return map[string]string{
		"insertOrIgnoreBlockSource": `INSERT OR IGNORE INTO block_sources (name) VALUES (?)`,
		"selectBlockSourceId":       `SELECT id FROM block_sources WHERE name = ?`,

		"insertOrIgnoreBlockedId": `
			INSERT OR IGNORE INTO blocked_ids (id, source_id, notes, blocked_at) VALUES (?, ?, ?, ?)`,
		"insertOrIgnoreBlockedHash": `
			INSERT OR IGNORE INTO blocked_hashes (hash, source_id, notes, blocked_at) VALUES (?, ?, ?, ?)`,

		"selectIsIdBlocked":   `SELECT 1 FROM blocked_ids WHERE id = ?`,
		"selectIsHashBlocked": `SELECT 1 FROM blocked_hashes WHERE hash = ?`,
	}
}
