// Package model defines the chain entities the indexing core persists and
// serves: blocks, transactions, tags, data items, bundle records, and the
// content-addressed data index.
package model

// Rate is a (dividend, divisor) pair describing a USD<->chain-token rate.
type Rate struct {
	Dividend int64
	Divisor int64
}

// Block is a chain block header.
type Block struct {
	Height        int64
	IndepHash      []byte
	PreviousBlock    []byte
	Nonce        []byte
	MiningHash      []byte
	Timestamp      int64
	Diff         string
	CumulativeDiff    string
	LastRetarget     int64
	RewardAddr      []byte // empty means "unclaimed"
	RewardPool      string
	BlockSize      int64
	WeaveSize      int64
	USDToARRate     Rate
	ScheduledUSDToARRate Rate
	HashListMerkle    []byte
	WalletListHash    []byte
	TxRoot        []byte
	TxCount       int
	MissingTxCount    int
}

// Tag is a single (name, value) occurrence attached to a transaction or
// data item, recorded at a given index within its owner's tag list.
type Tag struct {
	Name []byte
	Value []byte
}

// Transaction is a bare on-chain transaction.
type Transaction struct {
	ID      []byte
	Signature   []byte
	Format    int
	LastTx    []byte
	OwnerAddress []byte
	Target    []byte
	Quantity   string // big-integer decimal string
	Reward    string // big-integer decimal string
	DataSize   int64
	DataRoot   []byte
	Tags     []Tag
	ContentType  string
	CreatedAt   int64
	IndexedAt   int64
	Height    *int64 // nil until the owning block is linked
	BlockTxIndex int  // position within the block's tx list, once linked
}

// DataItem is a bundled sub-transaction.
type DataItem struct {
	ID        []byte
	ParentID     []byte // enclosing bundle or enclosing data item
	RootTransactionID []byte
	OwnerAddress   []byte
	Anchor      []byte
	Signature     []byte
	Target      []byte
	DataOffset    int64
	DataSize     int64
	Tags       []Tag
	ContentType    string
	Height      *int64
	IndexedAt     int64
	Filter      string
}

// BundleFormat enumerates the normalized bundle container formats.
type BundleFormat string

const (
	BundleFormatANS102 BundleFormat = "ans-102"
	BundleFormatANS104 BundleFormat = "ans-104"
)

// BundleRecord tracks the lifecycle of a bundle transaction.
type BundleRecord struct {
	ID         []byte
	RootTransactionID  []byte
	Format       BundleFormat
	UnbundleFilter   string
	IndexFilter     string
	DataItemCount    int
	MatchedDataItemCount int
	QueuedAt      *int64
	SkippedAt      *int64
	UnbundledAt     *int64
	FullyIndexedAt    *int64
}

// DataContentAttributes describes the canonical content hash resolved for
// a transaction or data item id.
type DataContentAttributes struct {
	ID     []byte
	DataRoot  []byte // optional
	Hash    []byte
	DataSize  int64
	ContentType string
	CachedAt  *int64
}

// DataParent describes a sub-range of a parent's payload, used to resolve
// nested data items to their canonical content hash.
type DataParent struct {
	ParentID  []byte
	DataOffset int64
	DataSize  int64
}

// BlockedRecord is an entry in the moderation blocklist.
type BlockedRecord struct {
	ID    []byte
	Hash   []byte
	SourceID *int64
	Notes  string
}
