package kvstore

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("configuration error")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrKeyAlreadyExists = errors.New("key already exists")
	ErrKeyNotFound      = errors.New("key not found")
)

// ConfigurationError reports a broken table mapping. It is never retried.
type ConfigurationError struct {
	TypeKey string
	Table   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("table mapping for type %q (table %q): %s", e.TypeKey, e.Table, e.Reason)
	}
	return fmt.Sprintf("table mapping for type %q: %s", e.TypeKey, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

type InvalidArgumentError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%v: %s", e.Name, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// DuplicateKeyError is returned by Insert when the key is already stored.
// Err holds the uniqueness violation reported by the store.
type DuplicateKeyError struct {
	DocumentType string
	Table        string
	Key          string
	Err          error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("failed to insert record of type '%s' into table '%s' with key '%s': %v", e.DocumentType, e.Table, e.Key, e.Err)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrKeyAlreadyExists
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// UpdateNotFoundError is returned when update, delete or GetOr found no row
// for the key.
type UpdateNotFoundError struct {
	DocumentType string
	Table        string
	Key          string
	Message      string
}

func (e *UpdateNotFoundError) Error() string {
	return fmt.Sprintf("failed to update record of type '%s' in table '%s' with key '%s': %s", e.DocumentType, e.Table, e.Key, e.Message)
}

func (e *UpdateNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrKeyAlreadyExists)
}
