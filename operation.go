package boxbulk

import (
	"context"
	"errors"
)

// OperationFunc performs a remote operation on behalf of a request record and returns the
// resulting remote entity.
type OperationFunc func(ctx context.Context, record Record) (Record, error)

// Operation is a remote operation applied to every request of a batch.
type Operation struct {
	Type OperationType
	Call OperationFunc
}

// NewOperation returns an Operation of the given type.
func NewOperation(opType OperationType, call OperationFunc) Operation {
	return Operation{Type: opType, Call: call}
}

// OperationType defines what an operation does to the remote entity. It is used as the verb of
// console messages and as the sub command name of reports.
type OperationType string

const (
	// OperationTypeCreate creates a new remote entity.
	OperationTypeCreate OperationType = "create"
	// OperationTypeUpdate updates an existing remote entity.
	OperationTypeUpdate OperationType = "update"
	// OperationTypeDelete deletes an existing remote entity.
	OperationTypeDelete OperationType = "delete"
	// OperationTypeAdd attaches an entity to another one, e.g. a collaboration to a folder.
	OperationTypeAdd OperationType = "add"
)

// String converts an OperationType to string.
func (t OperationType) String() string {
	return string(t)
}

// Past returns the past tense of the operation verb.
func (t OperationType) Past() string {
	switch t {
	case OperationTypeAdd:
		return "added"
	case OperationTypeCreate, OperationTypeUpdate, OperationTypeDelete:
		return string(t) + "d"
	}
	return string(t)
}

// Valid checks whether the assigned operation type value is valid.
func (t OperationType) Valid() error {
	switch t {
	case OperationTypeCreate, OperationTypeUpdate, OperationTypeDelete, OperationTypeAdd:
		return nil
	}
	return errors.New("invalid operation type")
}
