// Package moderation implements the `moderation` store: id and content-hash
// blocklists.
package moderation

const schema = `
CREATE TABLE IF NOT EXISTS block_sources (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS blocked_ids (
	id BLOB PRIMARY KEY,
	source_id INTEGER,
	notes TEXT,
	blocked_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS blocked_hashes (
	hash BLOB PRIMARY KEY,
	source_id INTEGER,
	notes TEXT,
	blocked_at INTEGER NOT NULL
);
`
