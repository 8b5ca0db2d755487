package core

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Operation represents a backend storage operation, one of Create, Read, Update, Delete, List, Clear
type Operation string

// all supported database operations
const (
	OperationCreate Operation = "create"
	OperationRead   Operation = "read"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationList   Operation = "list"
	OperationClear  Operation = "clear"
)

// UnmarshalJSON is a custom JSON unmarshaller
func (o *Operation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = Operation(s)
	switch *o {
	case OperationCreate, OperationRead, OperationUpdate, OperationDelete, OperationList, OperationClear:
		return nil
	default:
		return fmt.Errorf("%s is not valid Operation", s)
	}
}

// Plural returns the plural form of the passed singular string.
//
// This is the algorithm used to create idiomatic REST routes
func Plural(singular string) string {
	if strings.HasSuffix(singular, "y") {
		return strings.TrimSuffix(singular, "y") + "ies"
	}
	return singular + "s"
}
