package indexcore

import (
	"context"

	"github.com/sm4rtLabel/ar-io-node/internal/pool"
	"github.com/sm4rtLabel/ar-io-node/internal/query"
)

// GetGqlTransactions implements GqlQueryable.
func (c *Core) GetGqlTransactions(ctx context.Context, params query.TransactionQueryParams) (query.Page, error) {
	v, err := c.submit(ctx, pool.NameGql, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*query.Planner).GetGqlTransactions(ctx, params)
	})
	if err != nil {
		return query.Page{}, err
	}
	return v.(query.Page), nil
}

// GetGqlTransaction implements GqlQueryable.
func (c *Core) GetGqlTransaction(ctx context.Context, id []byte) (*query.Node, error) {
	v, err := c.submit(ctx, pool.NameGql, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*query.Planner).GetGqlTransaction(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*query.Node), nil
}

// GetGqlBlocks implements GqlQueryable.
func (c *Core) GetGqlBlocks(ctx context.Context, params query.BlockQueryParams) (query.BlockPage, error) {
	v, err := c.submit(ctx, pool.NameGql, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*query.Planner).GetGqlBlocks(ctx, params)
	})
	if err != nil {
		return query.BlockPage{}, err
	}
	return v.(query.BlockPage), nil
}

// GetGqlBlock implements GqlQueryable.
func (c *Core) GetGqlBlock(ctx context.Context, indepHash []byte) (*query.BlockNode, error) {
	v, err := c.submit(ctx, pool.NameGql, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*query.Planner).GetGqlBlock(ctx, indepHash)
	})
	if err != nil {
		return nil, err
	}
	return v.(*query.BlockNode), nil
}
