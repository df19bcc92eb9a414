// Package datastore establishes the process's MongoDB connection.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// ErrEmptyURI is returned when no connection string was configured.
var ErrEmptyURI = errors.New("datastore: connection string is empty")

// Reason classifies a connection failure.
type Reason string

const (
	ReasonMalformed    Reason = "malformed"
	ReasonUnreachable  Reason = "unreachable"
	ReasonAuthRejected Reason = "auth_rejected"
)

// ConnectionError is returned when the datastore cannot be reached or
// rejects the connection.
type ConnectionError struct {
	Reason Reason
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("datastore connection %s: %v", e.Reason, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Options configures Connect.
type Options struct {
	URI         string
	MaxPoolSize uint64
	MinPoolSize uint64
	// Timeout bounds server selection and the verification ping.
	Timeout time.Duration
}

// ValidateURI checks that uri is a well-formed MongoDB connection string.
func ValidateURI(uri string) error {
	if strings.TrimSpace(uri) == "" {
		return ErrEmptyURI
	}
	if _, err := connstring.ParseAndValidate(uri); err != nil {
		return err
	}
	return nil
}

// Connect makes one attempt to connect to MongoDB and verifies the
// connection with a ping against the primary. There is no retry. On failure
// any partially opened client is disconnected and a *ConnectionError is
// returned.
func Connect(ctx context.Context, opts Options) (*mongo.Client, error) {
	if err := ValidateURI(opts.URI); err != nil {
		return nil, &ConnectionError{Reason: ReasonMalformed, Err: err}
	}

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.Timeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.Timeout)
		clientOpts.SetConnectTimeout(opts.Timeout)

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, &ConnectionError{Reason: classify(err), Err: err}
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
		return nil, &ConnectionError{Reason: classify(err), Err: err}
	}
	return client, nil
}

// authFailedCode is the server error code for AuthenticationFailed.
const authFailedCode = 18

func classify(err error) Reason {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == authFailedCode {
		return ReasonAuthRejected
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "auth error") || strings.Contains(msg, "authentication failed") {
		return ReasonAuthRejected
	}
	if strings.Contains(msg, "error parsing uri") {
		return ReasonMalformed
	}
	return ReasonUnreachable
}
