package store

import (
	log "github.com/sirupsen/logrus"
)

const (
	TypeFile  = "file"
	TypeMongo = "mongo"
)

// Options select and configure the backend for a Store.
type Options struct {
	Type          string
	Path          string
	MongoURI      string
	MongoDatabase string
}

// NewStore creates the Store described by the options. Unknown types fall back to a file.
func NewStore(opts Options) (Store, error) {
	log.Debug("Storage type:", opts.Type)
	if opts.Type == TypeMongo {
		return NewMongoStore(opts.MongoURI, opts.MongoDatabase, opts.Path)
	}
	return NewFileStore(opts.Path)
}
