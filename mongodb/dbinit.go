package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anyswap/Escrow-Bridge/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client       *mongo.Client
	clientCtx    = context.Background()
	databaseName string

	appIdentifier string
)

const (
	connectTimeout = 10 * time.Second
	opTimeout      = 10 * time.Second
)

// HasClient has client connected
func HasClient() bool {
	return client != nil
}

// MongoServerInit init mongodb client and collections
func MongoServerInit(ctx context.Context, appName string, addrs []string, dbname, user, pass string) error {
	appIdentifier = appName
	databaseName = dbname

	opts := options.Client().
		ApplyURI(dbURI(addrs)).
		SetAppName(appName).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)
	if user != "" {
		opts.SetAuth(options.Credential{
			AuthSource: dbname,
			Username:   user,
			Password:   pass,
		})
	}

	log.Info("[mongodb] connect database start.", "addrs", addrs, "dbName", dbname)
	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("[mongodb] connect failed: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err = c.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = c.Disconnect(ctx)
		return fmt.Errorf("[mongodb] ping failed: %w", err)
	}
	client = c
	initCollections()
	log.Info("[mongodb] connect database finished.", "dbName", dbname)
	return nil
}

// MongoServerClose disconnect client
func MongoServerClose(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Warn("[mongodb] disconnect failed", "err", err)
	}
	client = nil
}

func dbURI(addrs []string) string {
	if len(addrs) == 1 && strings.Contains(addrs[0], "://") {
		return addrs[0]
	}
	return "mongodb://" + strings.Join(addrs, ",")
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(clientCtx, opTimeout)
}
