package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sm4rtLabel/ar-io-node/internal/model"
)

// SaveDataContentAttributes inserts the canonical content hash for id (and,
// when supplied, its data root).
func (s *Store) SaveDataContentAttributes(ctx context.Context, attrs model.DataContentAttributes) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("data: begin saveDataContentAttributes: %w", err)
	}
	defer tx.Rollback()

	indexedAt := int64(0)
	if attrs.CachedAt != nil {
		indexedAt = *attrs.CachedAt
	}
	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreDataHash")).ExecContext(ctx,
		attrs.Hash, attrs.DataSize, attrs.ContentType, attrs.CachedAt, indexedAt); err != nil {
		return fmt.Errorf("data: insert data_hash: %w", err)
	}
	if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreDataId")).ExecContext(ctx, attrs.ID, attrs.Hash); err != nil {
		return fmt.Errorf("data: insert data_id: %w", err)
	}
	if len(attrs.DataRoot) > 0 {
		if _, err := tx.StmtContext(ctx, s.stmts.Stmt("insertOrIgnoreDataRoot")).ExecContext(ctx, attrs.DataRoot, attrs.Hash); err != nil {
			return fmt.Errorf("data: insert data_root: %w", err)
		}
	}
	return tx.Commit()
}

// SaveNestedDataId records that id is a sub-range of parentId's payload.
func (s *Store) SaveNestedDataId(ctx context.Context, id, parentID []byte, dataOffset, dataSize int64) error {
	_, err := s.stmts.Stmt("insertOrIgnoreNestedDataId").ExecContext(ctx, id, parentID, dataOffset, dataSize)
	if err != nil {
		return fmt.Errorf("data: saveNestedDataId: %w", err)
	}
	return nil
}

// SaveNestedDataHash records that content hash is a sub-range of
// parentId's payload.
func (s *Store) SaveNestedDataHash(ctx context.Context, hash, parentID []byte, dataOffset int64) error {
	_, err := s.stmts.Stmt("insertOrIgnoreNestedDataHash").ExecContext(ctx, hash, parentID, dataOffset)
	if err != nil {
		return fmt.Errorf("data: saveNestedDataHash: %w", err)
	}
	return nil
}

// GetDataAttributes resolves id to its canonical content hash's verifiable
// attributes. Returns (nil, nil) if id is unknown.
func (s *Store) GetDataAttributes(ctx context.Context, id []byte) (*model.DataContentAttributes, error) {
	var hash []byte
	err := s.stmts.Stmt("selectHashById").QueryRowContext(ctx, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("data: select hash by id: %w", err)
	}

	var dataSize int64
	var contentType sql.NullString
	var cachedAt, indexedAt sql.NullInt64
	err = s.stmts.Stmt("selectDataHash").QueryRowContext(ctx, hash).Scan(&dataSize, &contentType, &cachedAt, &indexedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("data: select data_hash: %w", err)
	}

	attrs := &model.DataContentAttributes{
		ID:     id,
		Hash:    hash,
		DataSize:  dataSize,
		ContentType: contentType.String,
	}
	if cachedAt.Valid {
		attrs.CachedAt = &cachedAt.Int64
	}
	return attrs, nil
}

// GetDataParent resolves id's enclosing parent range, checking
// nested_data_ids first (id nested directly) and falling back to
// nested_data_hashes via id's resolved content hash. Returns (nil, nil) if
// id has no known parent.
func (s *Store) GetDataParent(ctx context.Context, id []byte) (*model.DataParent, error) {
	var parentID []byte
	var dataOffset, dataSize int64
	err := s.stmts.Stmt("selectNestedById").QueryRowContext(ctx, id).Scan(&parentID, &dataOffset, &dataSize)
	if err == nil {
		return &model.DataParent{ParentID: parentID, DataOffset: dataOffset, DataSize: dataSize}, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("data: select nested_data_id: %w", err)
	}

	var hash []byte
	err = s.stmts.Stmt("selectHashById").QueryRowContext(ctx, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("data: select hash by id: %w", err)
	}

	err = s.stmts.Stmt("selectNestedByHash").QueryRowContext(ctx, hash).Scan(&parentID, &dataOffset)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("data: select nested_data_hash: %w", err)
	}
	return &model.DataParent{ParentID: parentID, DataOffset: dataOffset}, nil
}
