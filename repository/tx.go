package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoTxRunner struct {
	client *mongo.Client
}

// NewTxRunner returns a TxRunner backed by MongoDB sessions. The session
// context passed to fn carries the transaction, so repository calls made with
// it are committed or aborted as a unit.
func NewTxRunner(client *mongo.Client) TxRunner {
	return &mongoTxRunner{client: client}
}

func (r *mongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
