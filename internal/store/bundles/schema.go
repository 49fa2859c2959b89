package bundles

import "strings"

// tablesTemplate mirrors core's new_*/stable_* staging split 
// for data items and their tags. {{P}} is instantiated once per prefix.
const tablesTemplate = `
CREATE TABLE IF NOT EXISTS {{P}}_data_items (
	id BLOB PRIMARY KEY,
	parent_id BLOB NOT NULL,
	root_transaction_id BLOB NOT NULL,
	owner_address BLOB NOT NULL,
	anchor BLOB,
	signature BLOB,
	target BLOB,
	data_offset INTEGER NOT NULL DEFAULT 0,
	data_size INTEGER NOT NULL DEFAULT 0,
	tag_count INTEGER NOT NULL DEFAULT 0,
	content_type TEXT,
	filter_id INTEGER,
	indexed_at INTEGER NOT NULL,
	height INTEGER
);
CREATE INDEX IF NOT EXISTS {{P}}_data_items_root_tx_idx ON {{P}}_data_items (root_transaction_id);
CREATE INDEX IF NOT EXISTS {{P}}_data_items_parent_idx ON {{P}}_data_items (parent_id);
CREATE INDEX IF NOT EXISTS {{P}}_data_items_height_idx ON {{P}}_data_items (height);

CREATE TABLE IF NOT EXISTS {{P}}_data_item_tags (
	data_item_id BLOB NOT NULL,
	name_hash BLOB NOT NULL,
	value_hash BLOB NOT NULL,
	data_item_tag_index INTEGER NOT NULL,
	indexed_at INTEGER NOT NULL,
	height INTEGER,
	PRIMARY KEY (data_item_id, data_item_tag_index)
);
CREATE INDEX IF NOT EXISTS {{P}}_data_item_tags_name_value_idx ON {{P}}_data_item_tags (name_hash, value_hash);
CREATE INDEX IF NOT EXISTS {{P}}_data_item_tags_item_id_idx ON {{P}}_data_item_tags (data_item_id);

CREATE TABLE IF NOT EXISTS {{P}}_bundles (
	id BLOB PRIMARY KEY,
	root_transaction_id BLOB NOT NULL,
	format_id INTEGER NOT NULL,
	unbundle_filter_id INTEGER,
	index_filter_id INTEGER,
	data_item_count INTEGER NOT NULL DEFAULT 0,
	matched_data_item_count INTEGER NOT NULL DEFAULT 0,
	queued_at INTEGER,
	skipped_at INTEGER,
	unbundled_at INTEGER,
	fully_indexed_at INTEGER
);
CREATE INDEX IF NOT EXISTS {{P}}_bundles_fully_indexed_idx ON {{P}}_bundles (fully_indexed_at);
`

// sharedTables are created exactly once: dimension/lookup tables shared by
// both the new_* and stable_* families, plus this store's own copy of
// tag_names/tag_values/wallets (bundles is a separate file from core, so it
// keeps its own — "core and bundles attach each other").
const sharedTables = `
CREATE TABLE IF NOT EXISTS tag_names (hash BLOB PRIMARY KEY, name BLOB NOT NULL);
CREATE TABLE IF NOT EXISTS tag_values (hash BLOB PRIMARY KEY, value BLOB NOT NULL);
CREATE TABLE IF NOT EXISTS wallets (address BLOB PRIMARY KEY, public_modulus BLOB);

CREATE TABLE IF NOT EXISTS filters (id INTEGER PRIMARY KEY AUTOINCREMENT, filter TEXT NOT NULL UNIQUE);
CREATE TABLE IF NOT EXISTS bundle_formats (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE);
`

func schema() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(tablesTemplate, "{{P}}", "new"))
	b.WriteString(strings.ReplaceAll(tablesTemplate, "{{P}}", "stable"))
	b.WriteString(sharedTables)
	return b.String()
}
