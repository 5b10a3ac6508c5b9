package database

import (
	"errors"
	"time"

	"github.com/rbrabson/economy/pkg/store"
	"github.com/rbrabson/economy/pkg/timer"
	log "github.com/sirupsen/logrus"
)

const DefaultCheckInterval = 1000 * time.Millisecond

// StartWatchdog periodically verifies that the storage document exists and parses. A
// missing document is recreated; a corrupt one is reported on Errors. Starting an already
// running watchdog has no effect.
func (db *DB) StartWatchdog(interval time.Duration) {
	log.Trace("--> database.StartWatchdog")
	defer log.Trace("<-- database.StartWatchdog")

	db.watchdogMutex.Lock()
	defer db.watchdogMutex.Unlock()

	if db.watchdog != nil {
		return
	}
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	db.watchdog = timer.NewRepeatTimer(interval, func() {
		db.CheckStorage()
	})
	db.watchdog.Start()
	log.Infof("Checking storage %s every %s", db.store.Name(), interval)
}

// StopWatchdog stops the watchdog and waits for a running check to finish. It is safe to
// call when the watchdog is not running.
func (db *DB) StopWatchdog() {
	db.watchdogMutex.Lock()
	wd := db.watchdog
	db.watchdog = nil
	db.watchdogMutex.Unlock()

	if wd != nil {
		wd.Stop()
	}
}

// Errors returns the channel on which the watchdog reports fatal storage errors.
func (db *DB) Errors() <-chan error {
	return db.errs
}

// CheckStorage runs a single consistency check. It recreates a missing document and
// returns ErrCorruptStorage if the document does not parse. Fatal errors are also sent on
// the Errors channel.
func (db *DB) CheckStorage() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	ok, err := db.store.Exists()
	if err != nil {
		storageChecksTotal.WithLabelValues("error").Inc()
		log.Errorf("Unable to check storage %s, error=%s", db.store.Name(), err.Error())
		return err
	}
	if !ok {
		if err := store.ValidatePath(db.store.Name()); err != nil {
			storageChecksTotal.WithLabelValues("reserved").Inc()
			db.report(err)
			return err
		}
		log.Warningf("Storage %s is missing, recreating it", db.store.Name())
		if err := db.store.Create(); err != nil {
			storageChecksTotal.WithLabelValues("error").Inc()
			log.Errorf("Unable to recreate storage %s, error=%s", db.store.Name(), err.Error())
			return err
		}
		storageChecksTotal.WithLabelValues("recreated").Inc()
	}

	if _, err := db.store.ReadAll(); err != nil {
		if errors.Is(err, ErrCorruptStorage) {
			storageChecksTotal.WithLabelValues("corrupt").Inc()
			db.report(err)
		} else {
			storageChecksTotal.WithLabelValues("error").Inc()
			log.Errorf("Unable to read storage %s, error=%s", db.store.Name(), err.Error())
		}
		return err
	}
	if ok {
		storageChecksTotal.WithLabelValues("ok").Inc()
	}
	return nil
}

// report surfaces a fatal storage error without blocking the watchdog.
func (db *DB) report(err error) {
	log.Errorf("Storage %s failed its consistency check, error=%s", db.store.Name(), err.Error())
	select {
	case db.errs <- err:
	default:
	}
}
