package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos 绑定在同一事务上的仓储
type TxRepos struct {
	Content     ContentRepo
	Interaction InteractionRepo
	User        UserRepo
	Follow      UserFollowRepo
}

func newTxRepos(tx *gorm.DB) *TxRepos {
	return &TxRepos{
		Content:     NewContentRepo(tx),
		Interaction: NewInteractionRepo(tx),
		User:        NewUserRepo(tx),
		Follow:      NewUserFollowRepo(tx),
	}
}

// Transactor 多表写入的事务边界，回调内只能使用 r 中的仓储
type Transactor interface {
	InTx(ctx context.Context, fn func(r *TxRepos) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (s *gormTransactor) InTx(ctx context.Context, fn func(r *TxRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepos(tx))
	})
}
