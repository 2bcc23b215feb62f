package payments

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const paymentsCollection = "payments"

// MongoStore is the production payment store backed by MongoDB.
type MongoStore struct {
	coll *mongo.Collection
}

type paymentDoc struct {
	ID          string    `bson:"_id"`
	OrderID     string    `bson:"order_id"`
	UserID      string    `bson:"user_id"`
	Amount      int64     `bson:"amount"`
	Currency    string    `bson:"currency"`
	Description string    `bson:"description,omitempty"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// NewMongoStore constructs a MongoStore over the given database.
func NewMongoStore(db *mongo.Database) (*MongoStore, error) {
	if db == nil {
		return nil, errors.New("payments: nil mongo database")
	}
	return &MongoStore{coll: db.Collection(paymentsCollection)}, nil
}

// EnsureIndexes creates lookup indexes for order ids and owner listings.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_order_id"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("by_user_created"),
		},
	})
	if err != nil {
		return OpError{Op: "payments.EnsureIndexes", Kind: ErrUnavailable, Msg: "index creation failed"}
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, p Payment) error {
	_, err := s.coll.InsertOne(ctx, toDoc(p))
	if err != nil {
		return OpError{Op: "payments.Insert", Kind: ErrUnavailable}
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (Payment, error) {
	var doc paymentDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Payment{}, NotFoundError{Op: "payments.FindByID", Resource: "payment"}
	case err != nil:
		return Payment{}, OpError{Op: "payments.FindByID", Kind: ErrUnavailable}
	}
	return fromDoc(doc), nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]Payment, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, OpError{Op: "payments.ListByUser", Kind: ErrUnavailable}
	}

	var docs []paymentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, OpError{Op: "payments.ListByUser", Kind: ErrUnavailable}
	}

	out := make([]Payment, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDoc(d))
	}
	return out, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, in UpdateInput, now time.Time) (Payment, error) {
	set := bson.M{"updated_at": now}
	if in.Amount != nil {
		set["amount"] = *in.Amount
	}
	if in.Currency != nil {
		set["currency"] = *in.Currency
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}

	var doc paymentDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Payment{}, NotFoundError{Op: "payments.Update", Resource: "payment"}
	case err != nil:
		return Payment{}, OpError{Op: "payments.Update", Kind: ErrUnavailable}
	}
	return fromDoc(doc), nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id string, status Status, now time.Time) (Payment, error) {
	var doc paymentDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Payment{}, NotFoundError{Op: "payments.UpdateStatus", Resource: "payment"}
	case err != nil:
		return Payment{}, OpError{Op: "payments.UpdateStatus", Kind: ErrUnavailable}
	}
	return fromDoc(doc), nil
}

func (s *MongoStore) UpdateStatusByOrderID(ctx context.Context, orderID string, status Status, now time.Time) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": now}},
	)
	if err != nil {
		return OpError{Op: "payments.UpdateStatusByOrderID", Kind: ErrUnavailable}
	}
	if res.MatchedCount == 0 {
		return NotFoundError{Op: "payments.UpdateStatusByOrderID", Resource: "payment"}
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return OpError{Op: "payments.Delete", Kind: ErrUnavailable}
	}
	if res.DeletedCount == 0 {
		return NotFoundError{Op: "payments.Delete", Resource: "payment"}
	}
	return nil
}

func toDoc(p Payment) paymentDoc {
	return paymentDoc{
		ID:          p.ID,
		OrderID:     p.OrderID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromDoc(d paymentDoc) Payment {
	return Payment{
		ID:          d.ID,
		OrderID:     d.OrderID,
		UserID:      d.UserID,
		Amount:      d.Amount,
		Currency:    d.Currency,
		Description: d.Description,
		Status:      Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
