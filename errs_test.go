package kvstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	nf := &UpdateNotFoundError{DocumentType: "doc", Table: "brokerage.docs", Key: "k", Message: "Record with specified key was not found to update"}
	require.Equal(t,
		"failed to update record of type 'doc' in table 'brokerage.docs' with key 'k': Record with specified key was not found to update",
		nf.Error())

	cfg := &ConfigurationError{TypeKey: "doc", Reason: "not mapped"}
	require.Equal(t, `table mapping for type "doc": not mapped`, cfg.Error())

	arg := &InvalidArgumentError{Name: "limit", Value: 0, Reason: "should be in range 1..1000"}
	require.Equal(t, "invalid argument limit=0: should be in range 1..1000", arg.Error())
}

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []error{
		&ConfigurationError{},
		&InvalidArgumentError{},
		&DuplicateKeyError{Err: errors.New("unique violation")},
		&UpdateNotFoundError{},
	}
	sentinels := []error{ErrConfiguration, ErrInvalidArgument, ErrKeyAlreadyExists, ErrKeyNotFound}

	for i, err := range kinds {
		wrapped := fmt.Errorf("op: %w", err)
		for j, s := range sentinels {
			require.Equal(t, i == j, errors.Is(wrapped, s), "kind %d sentinel %d", i, j)
		}
	}
}
