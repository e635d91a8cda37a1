package store

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-redis/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

func GetClientWithHTTPConfig(host, port string, httpClient *http.Client) (*mongo.Client, error) {
	uri := fmt.Sprintf("mongodb://%s:%s/", host, port)
	optionsClient := options.Client().ApplyURI(uri).SetHTTPClient(httpClient)
	return mongo.Connect(context.TODO(), optionsClient)
}

func GetRedisClient(host, port string) (*redis.Client, error) {
	address := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})
	return client, nil
}

// regexQuote escapes user-supplied text before it is embedded in a
// substring-match regex.
func regexQuote(s string) string {
	return regexp.QuoteMeta(s)
}

// translate maps driver-level failures onto the service error taxonomy.
// Connectivity problems must surface as Unavailable, never as NotFound.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return apperrors.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrConflict
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return apperrors.ErrUnavailable
	}
	return err
}
