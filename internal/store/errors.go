package store

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound reports that the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// PersistenceError wraps a failed document-store operation: network,
// permission or any other transport-level rejection.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IndexRequiredError reports a query rejected because the store is missing a
// composite index for the requested equality+range+order combination. This is
// a deployment concern, surfaced distinctly so operators can tell it apart
// from transient failures.
type IndexRequiredError struct {
	Op  string
	Err error
}

func (e *IndexRequiredError) Error() string {
	return fmt.Sprintf("query %s requires a composite index: %v", e.Op, e.Err)
}

func (e *IndexRequiredError) Unwrap() error { return e.Err }

// classify maps a Firestore client error to the store error taxonomy.
// Firestore surfaces failures as gRPC status errors: NotFound for missing
// documents, FailedPrecondition mentioning an index for unindexed queries.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.NotFound:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case codes.FailedPrecondition:
			if strings.Contains(strings.ToLower(st.Message()), "index") {
				return &IndexRequiredError{Op: op, Err: err}
			}
		}
	}
	return &PersistenceError{Op: op, Err: err}
}
