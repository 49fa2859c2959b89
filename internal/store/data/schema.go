// Package data implements the `data` store: the content-hash and
// parent-offset index that resolves a transaction or data item id to its
// canonical verifiable content hash. Unlike core/bundles, it carries no
// new_/stable_ staging split — content-hash facts do not fork.
package data

const schema = `
CREATE TABLE IF NOT EXISTS data_hashes (
	hash BLOB PRIMARY KEY,
	data_size INTEGER NOT NULL,
	original_source_content_type TEXT,
	cached_at INTEGER,
	indexed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS data_ids (
	id BLOB PRIMARY KEY,
	hash BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS data_ids_hash_idx ON data_ids (hash);

CREATE TABLE IF NOT EXISTS data_roots (
	data_root BLOB PRIMARY KEY,
	hash BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS data_roots_hash_idx ON data_roots (hash);

CREATE TABLE IF NOT EXISTS nested_data_ids (
	id BLOB PRIMARY KEY,
	parent_id BLOB NOT NULL,
	data_offset INTEGER NOT NULL,
	data_size INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS nested_data_ids_parent_idx ON nested_data_ids (parent_id);

CREATE TABLE IF NOT EXISTS nested_data_hashes (
	hash BLOB NOT NULL,
	parent_id BLOB NOT NULL,
	data_offset INTEGER NOT NULL,
	PRIMARY KEY (hash, parent_id)
);
CREATE INDEX IF NOT EXISTS nested_data_hashes_parent_idx ON nested_data_hashes (parent_id);
`
