package repository

import (
	"context"

	"github.com/jaekwang-park/todo-items/internal/model"
	"github.com/jaekwang-park/todo-items/internal/store"
)

const (
	FieldEmail   = "email"
	FieldSubject = "subject"
)

type AccountRepository interface {
	Save(ctx context.Context, account model.Account) (model.Account, error)
	FindOne(ctx context.Context, filter store.Filter) (model.Account, error)
}

type accountMapper struct{}

func (accountMapper) ToFields(a model.Account) map[string]string {
	return map[string]string{
		FieldEmail:   a.Email,
		FieldSubject: a.Subject,
	}
}

func (accountMapper) FromDocument(d store.Document) model.Account {
	return model.Account{
		ID:        d.ID,
		Email:     d.Fields[FieldEmail],
		Subject:   d.Fields[FieldSubject],
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func NewAccountRepository(coll store.Collection) *Repository[model.Account] {
	return New[model.Account](coll, accountMapper{})
}

var _ AccountRepository = (*Repository[model.Account])(nil)
