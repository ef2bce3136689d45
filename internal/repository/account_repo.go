package repository

import (
	"academyhub/internal/model"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrDuplicateEmail = errors.New("email already registered")

type AccountRepo interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

type accountRepo struct {
	collection *mongo.Collection
}

func NewAccountRepo(db *mongo.Database) AccountRepo {
	return &accountRepo{
		collection: db.Collection(AccountsCollection),
	}
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	if account.ID == "" {
		account.ID = NewID()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *accountRepo) findOne(ctx context.Context, filter bson.M) (*model.Account, error) {
	var account model.Account
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}
