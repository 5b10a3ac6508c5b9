// Package database is a key/value engine over a single JSON document. Keys are dotted
// paths into the document. Every operation reads the whole document from the store, and
// every mutation writes the whole document back while holding the database lock, so a
// read-modify-write such as Add is atomic with respect to other callers of the same DB.
package database

import (
	"errors"
	stdmath "math"
	"sort"
	"sync"

	"github.com/rbrabson/economy/pkg/dotpath"
	"github.com/rbrabson/economy/pkg/math"
	"github.com/rbrabson/economy/pkg/store"
	"github.com/rbrabson/economy/pkg/timer"
	log "github.com/sirupsen/logrus"
)

// DB is the key/value engine.
type DB struct {
	store         store.Store
	mutex         sync.RWMutex
	watchdog      *timer.RepeatTimer
	watchdogMutex sync.Mutex
	errs          chan error
}

// Open returns a DB that keeps its document in the store.
func Open(s store.Store) *DB {
	db := &DB{
		store: s,
		errs:  make(chan error, 1),
	}
	return db
}

// Fetch returns the value at the key. An empty key returns false, and a missing path
// returns nil; neither is an error.
func (db *DB) Fetch(key string) (interface{}, error) {
	if key == "" {
		return false, nil
	}

	doc, err := db.read()
	observe("fetch", err)
	if err != nil {
		return nil, err
	}
	value, _ := dotpath.Get(doc, key)
	return value, nil
}

// Get is an alias for Fetch.
func (db *DB) Get(key string) (interface{}, error) {
	return db.Fetch(key)
}

// Set stores the value at the key, creating intermediate objects as needed. It returns
// false without writing if the key is empty or the value is nil.
func (db *DB) Set(key string, value interface{}) (bool, error) {
	log.Trace("--> database.Set")
	defer log.Trace("<-- database.Set")

	if key == "" || value == nil {
		return false, nil
	}
	err := db.update("set", func(doc dotpath.Tree) (dotpath.Tree, error) {
		return dotpath.Set(doc, key, value), nil
	})
	return err == nil, err
}

// Add adds the value to the number stored at the key and returns the result. A missing
// target counts as 0.
func (db *DB) Add(key string, value interface{}) (float64, error) {
	log.Trace("--> database.Add")
	defer log.Trace("<-- database.Add")

	return db.arithmetic("add", key, value, func(current, amount float64) float64 {
		return current + amount
	})
}

// Subtract subtracts the value from the number stored at the key and returns the result.
// A missing target counts as 0.
func (db *DB) Subtract(key string, value interface{}) (float64, error) {
	log.Trace("--> database.Subtract")
	defer log.Trace("<-- database.Subtract")

	return db.arithmetic("subtract", key, value, func(current, amount float64) float64 {
		return current - amount
	})
}

// arithmetic applies fn to the number stored at the key and the value.
func (db *DB) arithmetic(op string, key string, value interface{}, fn func(current, amount float64) float64) (float64, error) {
	if key == "" {
		err := argumentError(op, "key", key, "a non-empty string")
		observe(op, err)
		return 0, err
	}
	amount, ok := math.ToNumber(value)
	if value == nil || !ok {
		err := argumentError(op, "value", value, "number")
		observe(op, err)
		return 0, err
	}

	var result float64
	err := db.update(op, func(doc dotpath.Tree) (dotpath.Tree, error) {
		var current float64
		stored, found := dotpath.Get(doc, key)
		if found && stored != nil {
			n, ok := math.ToNumber(stored)
			if !ok {
				return nil, targetError(op, key, stored, "number")
			}
			current = n
		}
		result = fn(current, amount)
		if stdmath.IsInf(result, 0) {
			return nil, argumentError(op, "value", value, "a finite result")
		}
		return dotpath.Set(doc, key, result), nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// Remove deletes the key from the document. It returns false if there was nothing to delete.
func (db *DB) Remove(key string) (bool, error) {
	log.Trace("--> database.Remove")
	defer log.Trace("<-- database.Remove")

	if key == "" {
		return false, nil
	}
	var removed bool
	err := db.update("remove", func(doc dotpath.Tree) (dotpath.Tree, error) {
		removed = dotpath.Remove(doc, key)
		return doc, nil
	})
	return removed, err
}

// Push appends the value to the list at the key. A missing or falsy target starts a new list.
func (db *DB) Push(key string, value interface{}) (bool, error) {
	log.Trace("--> database.Push")
	defer log.Trace("<-- database.Push")

	if key == "" {
		err := argumentError("push", "key", key, "a non-empty string")
		observe("push", err)
		return false, err
	}
	if value == nil {
		err := argumentError("push", "value", value, "any value")
		observe("push", err)
		return false, err
	}

	err := db.update("push", func(doc dotpath.Tree) (dotpath.Tree, error) {
		stored, _ := dotpath.Get(doc, key)
		var list []interface{}
		switch target := stored.(type) {
		case []interface{}:
			list = target
		default:
			if Truthy(stored) {
				return nil, targetError("push", key, stored, "array")
			}
			list = make([]interface{}, 0, 1)
		}
		list = append(list, value)
		return dotpath.Set(doc, key, list), nil
	})
	return err == nil, err
}

// RemoveElement removes the element at the index from the list at the key, shifting the
// following elements down.
func (db *DB) RemoveElement(key string, index int) (bool, error) {
	log.Trace("--> database.RemoveElement")
	defer log.Trace("<-- database.RemoveElement")

	err := db.updateList("removeElement", key, index, func(list []interface{}) []interface{} {
		return append(list[:index:index], list[index+1:]...)
	})
	return err == nil, err
}

// ChangeElement replaces the element at the index of the list at the key.
func (db *DB) ChangeElement(key string, index int, value interface{}) (bool, error) {
	log.Trace("--> database.ChangeElement")
	defer log.Trace("<-- database.ChangeElement")

	if value == nil {
		err := argumentError("changeElement", "value", value, "any value")
		observe("changeElement", err)
		return false, err
	}
	err := db.updateList("changeElement", key, index, func(list []interface{}) []interface{} {
		changed := make([]interface{}, len(list))
		copy(changed, list)
		changed[index] = value
		return changed
	})
	return err == nil, err
}

// updateList validates the key, the index and the list stored at the key before replacing
// the list with the one returned by fn.
func (db *DB) updateList(op string, key string, index int, fn func([]interface{}) []interface{}) error {
	if key == "" {
		err := argumentError(op, "key", key, "a non-empty string")
		observe(op, err)
		return err
	}
	if index < 0 {
		err := argumentError(op, "index", index, "a non-negative integer")
		observe(op, err)
		return err
	}

	return db.update(op, func(doc dotpath.Tree) (dotpath.Tree, error) {
		stored, _ := dotpath.Get(doc, key)
		list, ok := stored.([]interface{})
		if !ok {
			return nil, targetError(op, key, stored, "array")
		}
		if index >= len(list) {
			return nil, argumentError(op, "index", index, "an index within the array")
		}
		return dotpath.Set(doc, key, fn(list)), nil
	})
}

// Has reports whether the value at the key is truthy.
func (db *DB) Has(key string) (bool, error) {
	value, err := db.Fetch(key)
	if err != nil {
		return false, err
	}
	return Truthy(value), nil
}

// Includes is an alias for Has.
func (db *DB) Includes(key string) (bool, error) {
	return db.Has(key)
}

// KeyList returns the sorted keys of the object at the key. The empty key lists the top
// level of the document, omitting keys with falsy values; otherwise keys whose value is
// null are omitted. A path that does not lead to an object has no keys.
func (db *DB) KeyList(key string) ([]string, error) {
	doc, err := db.read()
	observe("keyList", err)
	if err != nil {
		return nil, err
	}

	keep := func(v interface{}) bool { return v != nil }
	if key == "" {
		keep = Truthy
	}
	stored, _ := dotpath.Get(doc, key)
	obj, ok := stored.(map[string]interface{})
	if !ok {
		return []string{}, nil
	}
	keys := make([]string, 0, len(obj))
	for k, v := range obj {
		if keep(v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// All returns the entire document.
func (db *DB) All() (map[string]interface{}, error) {
	doc, err := db.read()
	observe("all", err)
	return doc, err
}

// Close stops the watchdog and releases the store.
func (db *DB) Close() error {
	db.StopWatchdog()
	return db.store.Close()
}

// read returns the document under the read lock. A missing document is created under the
// write lock instead, so readers never write the store concurrently.
func (db *DB) read() (map[string]interface{}, error) {
	db.mutex.RLock()
	doc, err := db.store.Read()
	db.mutex.RUnlock()
	if !errors.Is(err, store.ErrNotFound) {
		return doc, err
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.store.ReadAll()
}

// update runs one read-modify-write cycle over the document while holding the write lock.
// The document returned by fn is written back to the store.
func (db *DB) update(op string, fn func(dotpath.Tree) (dotpath.Tree, error)) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	doc, err := db.store.ReadAll()
	if err == nil {
		doc, err = fn(doc)
	}
	if err == nil {
		err = db.store.WriteAll(doc)
	}
	observe(op, err)
	if err != nil {
		log.WithFields(log.Fields{
			"operation": op,
			"store":     db.store.Name(),
		}).Debug("operation failed: ", err)
	}
	return err
}

// Truthy reports whether a decoded JSON value is considered set: nil, false, 0 and the
// empty string are not.
func Truthy(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	}
	if math.IsNumeric(v) {
		n, ok := math.ToNumber(v)
		return ok && n != 0
	}
	return true
}
