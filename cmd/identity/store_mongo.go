package identity

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const accountsCollection = "users"

// MongoStore is the production credential store backed by MongoDB.
type MongoStore struct {
	coll *mongo.Collection
}

// accountDoc is the wire representation of an Account.
// The plaintext password never appears here; "password" holds the digest,
// matching the collection layout this service has always used.
type accountDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"created_at"`
}

// NewMongoStore constructs a MongoStore over the given database.
func NewMongoStore(db *mongo.Database) (*MongoStore, error) {
	if db == nil {
		return nil, errors.New("identity: nil mongo database")
	}
	return &MongoStore{coll: db.Collection(accountsCollection)}, nil
}

// EnsureIndexes creates the unique index on email.
// The index is the real uniqueness authority: Signup's lookup-then-insert is
// not atomic, and only this constraint closes the race (see Service.Signup).
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return OpError{Op: "identity.EnsureIndexes", Kind: ErrUnavailable, Msg: "index creation failed"}
	}
	return nil
}

// FindByEmail looks up an account by normalized email.
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	var doc accountDoc
	err := s.coll.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Account{}, NotFoundError{Op: "identity.FindByEmail", Resource: "account"}
	case err != nil:
		return Account{}, OpError{Op: "identity.FindByEmail", Kind: ErrUnavailable}
	}

	return Account{
		ID:           doc.ID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// Insert persists a new account. Duplicate emails surface as ConflictError
// regardless of which caller lost the race.
func (s *MongoStore) Insert(ctx context.Context, acc Account) error {
	_, err := s.coll.InsertOne(ctx, accountDoc{
		ID:           acc.ID,
		Email:        acc.Email,
		PasswordHash: acc.PasswordHash,
		CreatedAt:    acc.CreatedAt,
	})
	switch {
	case mongo.IsDuplicateKeyError(err):
		return ConflictError{Op: "identity.Insert", Field: "email"}
	case err != nil:
		return OpError{Op: "identity.Insert", Kind: ErrUnavailable}
	}
	return nil
}
