package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Taraxa-project/networth-ledger/ledger/util"
)

type MongoConfig struct {
	URI        string        `json:"uri"`
	Database   string        `json:"database"`
	Collection string        `json:"collection"`
	Timeout    time.Duration `json:"timeout"`
}

var ErrMongoStandalone = util.ErrorString("mongo backend needs a replica set or sharded cluster for transactions")

// MongoDB keeps one document per key: {_id: key, v: value}.
type MongoDB struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

type mongoEntry struct {
	Key   []byte `bson:"_id"`
	Value []byte `bson:"v"`
}

func (this *MongoConfig) Open(ctx context.Context) (Store, error) {
	timeout := this.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	connect_ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(connect_ctx, options.Client().ApplyURI(this.URI))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(connect_ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	if err = requireTransactions(connect_ctx, client); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoDB{
		client:     client,
		collection: client.Database(this.Database).Collection(this.Collection),
		timeout:    timeout,
	}, nil
}

func (self *MongoDB) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), self.timeout)
}

func (self *MongoDB) Has(key []byte) (bool, error) {
	ctx, cancel := self.ctx()
	defer cancel()
	n, err := self.collection.CountDocuments(ctx, bson.M{"_id": key}, options.Count().SetLimit(1))
	return n > 0, err
}

func (self *MongoDB) Get(key []byte) ([]byte, error) {
	ctx, cancel := self.ctx()
	defer cancel()
	var entry mongoEntry
	err := self.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (self *MongoDB) Put(key []byte, value []byte) error {
	ctx, cancel := self.ctx()
	defer cancel()
	_, err := self.collection.ReplaceOne(ctx, bson.M{"_id": key}, mongoEntry{key, value}, options.Replace().SetUpsert(true))
	return err
}

func (self *MongoDB) Delete(key []byte) error {
	ctx, cancel := self.ctx()
	defer cancel()
	_, err := self.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (self *MongoDB) NewBatch() Batch {
	return &mongoBatch{db: self}
}

func (self *MongoDB) Close() error {
	ctx, cancel := self.ctx()
	defer cancel()
	return self.client.Disconnect(ctx)
}

// mongoBatch applies its writes in one multi-document transaction.
type mongoBatch struct {
	db     *MongoDB
	models []mongo.WriteModel
}

func (self *mongoBatch) Put(key []byte, value []byte) error {
	self.models = append(self.models, mongo.NewReplaceOneModel().
		SetFilter(bson.M{"_id": key}).
		SetReplacement(mongoEntry{key, value}).
		SetUpsert(true))
	return nil
}

func (self *mongoBatch) Delete(key []byte) error {
	self.models = append(self.models, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": key}))
	return nil
}

func (self *mongoBatch) Write() error {
	if len(self.models) == 0 {
		return nil
	}
	ctx, cancel := self.db.ctx()
	defer cancel()
	return self.db.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		_, err := sc.WithTransaction(sc, func(sc mongo.SessionContext) (interface{}, error) {
			return self.db.collection.BulkWrite(sc, self.models, options.BulkWrite().SetOrdered(true))
		})
		return err
	})
}

// requireTransactions refuses standalone servers, where a batch could be applied in part.
func requireTransactions(ctx context.Context, client *mongo.Client) error {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	cmd := bson.D{{Key: "isMaster", Value: 1}}
	if err := client.Database("admin").RunCommand(ctx, cmd).Decode(&hello); err != nil {
		return fmt.Errorf("mongo topology: %w", err)
	}
	if hello.SetName == "" && hello.Msg != "isdbgrid" {
		return ErrMongoStandalone
	}
	return nil
}
