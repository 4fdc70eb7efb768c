package mongodb

import (
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsDuplicateKey reports whether err is a duplicate key error on the named
// index. An empty index matches any duplicate key error.
func IsDuplicateKey(err error, index string) bool {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return false
	}
	return index == "" || strings.Contains(err.Error(), index)
}
