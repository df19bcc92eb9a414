// Package secretstore fetches credential bundles from a managed secret store.
//
// A bundle is the JSON object stored under one secret id, decoded into a
// flat string map. Every failure is returned as a *FetchError that says what
// kind of failure it was; callers treat all of them as fatal.
package secretstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// VersionCurrent selects the current version of a secret.
const VersionCurrent = "AWSCURRENT"

// Bundle is the key/value content of one secret version.
type Bundle map[string]string

// Fetcher retrieves the bundle stored under a secret id.
type Fetcher interface {
	Fetch(ctx context.Context, secretID string) (Bundle, error)
}

// Kind classifies a fetch failure.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindDecode     Kind = "decode"
	KindClient     Kind = "client"
	KindOther      Kind = "other"
)

// FetchError is returned for any failure while loading a secret.
type FetchError struct {
	SecretID string
	Kind     Kind
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch secret %q (%s): %v", e.SecretID, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsKind reports whether err is a *FetchError of the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// Decode parses a secret string into a Bundle. The secret must be exactly
// one JSON object; a null document or anything after the object is rejected.
// String values are taken as is; numbers and booleans are converted to their
// JSON text. Nulls, objects and arrays are rejected.
func Decode(secret string) (Bundle, error) {
	dec := json.NewDecoder(strings.NewReader(secret))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode secret JSON: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode secret JSON: document is null, want an object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode secret JSON: unexpected data after the object")
	}

	bundle := make(Bundle, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			bundle[k] = t
		case json.Number:
			bundle[k] = t.String()
		case bool:
			bundle[k] = strconv.FormatBool(t)
		default:
			return nil, fmt.Errorf("decode secret JSON: key %q has unsupported value type %T", k, v)
		}
	}
	return bundle, nil
}
