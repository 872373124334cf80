// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a multi-document transaction on a fresh
// session. The transaction commits when fn returns nil and aborts otherwise.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// IsNotSupported reports whether an error indicates the deployment cannot run
// multi-document transactions (standalone mongod, old wire version). Callers
// use this to fall back to non-transactional writes in dev/test environments.
//
// Server error codes: 20 IllegalOperation variants, 51 and 263 are the codes a
// standalone or pre-4.0 server answers transaction commands with. String
// matching covers drivers and proxies that wrap the server message.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") {
		for _, kw := range []string{"replica set", "session", "illegal operation"} {
			if strings.Contains(msg, kw) {
				return true
			}
		}
	}
	return strings.Contains(msg, "session") && strings.Contains(msg, "not supported")
}
