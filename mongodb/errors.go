package mongodb

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongodb special errors
var (
	ErrItemNotFound = errors.New("mgoError: Item not found")
	ErrItemIsDup    = errors.New("mgoError: Item is duplicate")
	ErrNotConnected = errors.New("mgoError: not connected")
)

func mgoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrItemNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrItemIsDup
	}
	return fmt.Errorf("mgoError: %w", err)
}
