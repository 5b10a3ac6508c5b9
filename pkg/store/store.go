package store

import (
	"bytes"

	goccy "github.com/goccy/go-json"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Store owns the single JSON document holding the state of every guild. Reads and writes
// always cover the entire document.
type Store interface {
	// Name identifies the document, such as the file path, for logging.
	Name() string
	// Exists reports whether the document is present in the backing storage.
	Exists() (bool, error)
	// Create writes an empty document if none exists yet.
	Create() error
	// Read returns the decoded document, or ErrNotFound if it is missing.
	Read() (map[string]interface{}, error)
	// ReadAll returns the decoded document, creating an empty one first if it is missing.
	ReadAll() (map[string]interface{}, error)
	// WriteAll serializes and replaces the entire document.
	WriteAll(map[string]interface{}) error
	// Close releases any resources held by the store.
	Close() error
}

// backend performs the raw I/O for a document store.
type backend interface {
	name() string
	exists() (bool, error)
	read() ([]byte, error)
	write([]byte) error
	close() error
}

var emptyDocument = []byte("{}")

// documentStore implements the document semantics shared by every backend.
type documentStore struct {
	backend backend
}

// newDocumentStore returns a Store that encodes and decodes the document kept by the backend.
func newDocumentStore(b backend) Store {
	return &documentStore{backend: b}
}

// Name returns the name of the underlying document.
func (s *documentStore) Name() string {
	return s.backend.name()
}

// Exists reports whether the document exists.
func (s *documentStore) Exists() (bool, error) {
	return s.backend.exists()
}

// Create writes an empty document if one does not already exist.
func (s *documentStore) Create() error {
	ok, err := s.backend.exists()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	log.Infof("Creating empty storage document %s", s.backend.name())
	return s.backend.write(emptyDocument)
}

// Read reads and decodes the document without creating it.
func (s *documentStore) Read() (map[string]interface{}, error) {
	data, err := s.backend.read()
	if err != nil {
		return nil, err
	}
	return decode(s.backend.name(), data)
}

// ReadAll reads and decodes the document. A missing document is created as `{}`, while a
// document that does not decode to a JSON object is reported as ErrCorruptStorage.
func (s *documentStore) ReadAll() (map[string]interface{}, error) {
	data, err := s.backend.read()
	if errors.Is(err, ErrNotFound) {
		if err := s.backend.write(emptyDocument); err != nil {
			return nil, err
		}
		data = emptyDocument
	} else if err != nil {
		return nil, err
	}
	return decode(s.backend.name(), data)
}

// WriteAll encodes the document and writes it, unless the stored bytes are already identical.
func (s *documentStore) WriteAll(doc map[string]interface{}) error {
	if doc == nil {
		doc = make(map[string]interface{})
	}
	data, err := encode(doc)
	if err != nil {
		return errors.Wrapf(err, "unable to encode document %s", s.backend.name())
	}

	current, err := s.backend.read()
	if err == nil && bytes.Equal(current, data) {
		log.Tracef("Document %s is unchanged, skipping write", s.backend.name())
		return nil
	}
	return s.backend.write(data)
}

// Close releases the backend.
func (s *documentStore) Close() error {
	return s.backend.close()
}

// encode serializes the document with tab indentation.
func encode(doc map[string]interface{}) ([]byte, error) {
	return goccy.MarshalIndent(doc, "", "\t")
}

// decode parses the raw bytes of a document.
func decode(name string, data []byte) (map[string]interface{}, error) {
	var raw interface{}
	if err := goccy.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(ErrCorruptStorage, "%s: %s", name, err.Error())
	}
	doc, ok := raw.(map[string]interface{})
	if !ok || doc == nil {
		return nil, errors.Wrapf(ErrCorruptStorage, "%s: top-level value is not an object", name)
	}
	return doc, nil
}
