package mongodb

import (
	"github.com/anyswap/Escrow-Bridge/log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	tbSignRequests   string = "SignRequests"
	tbSubmittedTxs   string = "SubmittedTxs"
	tbReconciliation string = "Reconciliations"
)

var (
	database *mongo.Database

	collSignRequest    *mongo.Collection
	collSubmittedTx    *mongo.Collection
	collReconciliation *mongo.Collection
)

func initCollections() {
	database = client.Database(databaseName)

	initCollection(tbSignRequests, &collSignRequest, "state", "timestamp")
	initCollection(tbSubmittedTxs, &collSubmittedTx, "status", "timestamp")
	initCollection(tbReconciliation, &collReconciliation, "owner")
}

func initCollection(table string, collection **mongo.Collection, indexKey ...string) {
	*collection = database.Collection(table)
	if len(indexKey) != 0 {
		createOneIndex(*collection, indexKey...)
	}
}

func createOneIndex(coll *mongo.Collection, indexes ...string) {
	model := mongo.IndexModel{Keys: indexKeys(indexes...)}
	ctx, cancel := withTimeout()
	defer cancel()
	_, err := coll.Indexes().CreateOne(ctx, model)
	if err != nil {
		log.Error("[mongodb] create indexes failed", "collection", coll.Name(), "indexes", indexes, "err", err)
	}
}

func indexKeys(indexes ...string) bson.D {
	keys := make(bson.D, len(indexes))
	for i, index := range indexes {
		keys[i] = bson.E{Key: index, Value: 1}
	}
	return keys
}
