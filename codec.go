package kvstore

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec turns documents into the text stored in the value column.
type Codec[T any] interface {
	Marshal(v T) (string, error)
	Unmarshal(data string) (T, error)
}

// DocumentType binds a stable type key to the codec of its documents.
type DocumentType[T any] struct {
	Name  string
	Codec Codec[T]
}

// NewDocumentType returns a document type stored as JSON.
func NewDocumentType[T any](name string) DocumentType[T] {
	return DocumentType[T]{Name: name, Codec: JSONCodec[T]{}}
}

func (d DocumentType[T]) WithCodec(c Codec[T]) DocumentType[T] {
	d.Codec = c
	return d
}

type JSONCodec[T any] struct{}

func (JSONCodec[T]) Marshal(v T) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (JSONCodec[T]) Unmarshal(data string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(data), &v)
	return v, err
}

type YAMLCodec[T any] struct{}

func (YAMLCodec[T]) Marshal(v T) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (YAMLCodec[T]) Unmarshal(data string) (T, error) {
	var v T
	err := yaml.Unmarshal([]byte(data), &v)
	return v, err
}
