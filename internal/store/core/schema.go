package core

import "strings"

// tablesTemplate is instantiated once for "new" and once for "stable",
// generalized to the new/stable staging duplication the chain lifecycle
// requires. {{P}} is replaced with "new" or "stable".
const tablesTemplate = `
CREATE TABLE IF NOT EXISTS {{P}}_blocks (
  height INTEGER PRIMARY KEY,
  indep_hash BLOB NOT NULL UNIQUE,
  previous_block BLOB,
  nonce BLOB,
  mining_hash BLOB,
  block_timestamp INTEGER NOT NULL,
  diff TEXT NOT NULL,
  cumulative_diff TEXT NOT NULL,
  last_retarget INTEGER,
  reward_addr BLOB,
  reward_pool TEXT,
  block_size INTEGER,
  weave_size INTEGER,
  usd_to_ar_rate_dividend INTEGER,
  usd_to_ar_rate_divisor INTEGER,
  scheduled_usd_to_ar_rate_dividend INTEGER,
  scheduled_usd_to_ar_rate_divisor INTEGER,
  hash_list_merkle BLOB,
  wallet_list_hash BLOB,
  tx_root BLOB,
  tx_count INTEGER NOT NULL DEFAULT 0,
  missing_tx_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS {{P}}_block_transactions (
  height INTEGER NOT NULL,
  transaction_id BLOB NOT NULL,
  block_transaction_index INTEGER NOT NULL,
  PRIMARY KEY (height, transaction_id)
);
CREATE INDEX IF NOT EXISTS idx_{{P}}_block_transactions_tx ON {{P}}_block_transactions(transaction_id);
CREATE INDEX IF NOT EXISTS idx_{{P}}_block_transactions_height_bti ON {{P}}_block_transactions(height, block_transaction_index);

CREATE TABLE IF NOT EXISTS {{P}}_transactions (
  id BLOB PRIMARY KEY,
  signature BLOB,
  format INTEGER NOT NULL DEFAULT 1,
  last_tx BLOB,
  owner_address BLOB NOT NULL,
  target BLOB,
  quantity TEXT NOT NULL DEFAULT '0',
  reward TEXT NOT NULL DEFAULT '0',
  data_size INTEGER NOT NULL DEFAULT 0,
  data_root BLOB,
  tag_count INTEGER NOT NULL DEFAULT 0,
  content_type TEXT,
  created_at INTEGER NOT NULL,
  indexed_at INTEGER NOT NULL,
  height INTEGER
);
CREATE INDEX IF NOT EXISTS idx_{{P}}_transactions_target ON {{P}}_transactions(target);
CREATE INDEX IF NOT EXISTS idx_{{P}}_transactions_owner ON {{P}}_transactions(owner_address);
CREATE INDEX IF NOT EXISTS idx_{{P}}_transactions_height ON {{P}}_transactions(height);

CREATE TABLE IF NOT EXISTS {{P}}_transaction_tags (
  transaction_id BLOB NOT NULL,
  name_hash BLOB NOT NULL,
  value_hash BLOB NOT NULL,
  transaction_tag_index INTEGER NOT NULL,
  indexed_at INTEGER NOT NULL,
  height INTEGER,
  PRIMARY KEY (transaction_id, transaction_tag_index)
);
CREATE INDEX IF NOT EXISTS idx_{{P}}_transaction_tags_name_value ON {{P}}_transaction_tags(name_hash, value_hash);
CREATE INDEX IF NOT EXISTS {{P}}_transaction_tags_tx_id_idx ON {{P}}_transaction_tags(transaction_id);
`

// sharedTables is created exactly once: tag/wallet dictionaries and the
// tx-offset backfill queue are not duplicated between new_ and stable_
// (tag name/value bytes and wallet addresses are immutable once seen;
// duplicating them per staging tier would only waste space).
const sharedTables = `
CREATE TABLE IF NOT EXISTS tag_names (
  hash BLOB PRIMARY KEY,
  name BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS tag_values (
  hash BLOB PRIMARY KEY,
  value BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS wallets (
  address BLOB PRIMARY KEY,
  public_modulus BLOB
);

CREATE TABLE IF NOT EXISTS transaction_offsets (
  transaction_id BLOB PRIMARY KEY,
  absolute_offset INTEGER
);

CREATE TABLE IF NOT EXISTS missing_transactions (
  height INTEGER NOT NULL,
  transaction_id BLOB NOT NULL,
  PRIMARY KEY (height, transaction_id)
);
`

func schema() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(tablesTemplate, "{{P}}", "new"))
	b.WriteString(strings.ReplaceAll(tablesTemplate, "{{P}}", "stable"))
	b.WriteString(sharedTables)
	return b.String()
}
