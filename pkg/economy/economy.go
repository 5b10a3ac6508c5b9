// Package economy implements guild economies (balances, banks, shops, inventories,
// purchase history, cooldown-gated rewards and custom currencies) on top of the key/value
// database. Every record returned is a snapshot read from the document; changing it does
// not write through.
package economy

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rbrabson/economy/pkg/config"
	"github.com/rbrabson/economy/pkg/events"
	log "github.com/sirupsen/logrus"
)

// Engine is the set of key/value operations the economy is built on. *database.DB
// implements it.
type Engine interface {
	Fetch(key string) (interface{}, error)
	Set(key string, value interface{}) (bool, error)
	Add(key string, value interface{}) (float64, error)
	Subtract(key string, value interface{}) (float64, error)
	Remove(key string) (bool, error)
	Push(key string, value interface{}) (bool, error)
	RemoveElement(key string, index int) (bool, error)
	ChangeElement(key string, index int, value interface{}) (bool, error)
	Has(key string) (bool, error)
	KeyList(key string) ([]string, error)
	All() (map[string]interface{}, error)
}

// Economy is the entry point to every manager. The managers share one event emitter,
// owned by the Economy. Operations made of several engine calls, such as a purchase, hold
// the Economy's mutex so they do not interleave.
type Economy struct {
	mutex  sync.Mutex
	db     Engine
	events *events.Emitter
	now    func() time.Time
	random func(n int) int

	Settings   *SettingsManager
	Balance    *BalanceManager
	Bank       *BankManager
	Shop       *ShopManager
	Inventory  *InventoryManager
	History    *HistoryManager
	Cooldowns  *CooldownManager
	Rewards    *RewardManager
	Currencies *CurrencyManager
	Users      *UserManager
}

// New creates an Economy over the engine, using defaults for every setting a guild has not
// overridden.
func New(db Engine, defaults config.Defaults) *Economy {
	log.Trace("--> economy.New")
	defer log.Trace("<-- economy.New")

	e := &Economy{
		db:     db,
		events: events.New(),
		now:    time.Now,
		random: rand.Intn,
	}
	e.Settings = &SettingsManager{e: e, defaults: defaultSettings(defaults)}
	e.Balance = &BalanceManager{account{e: e, field: fieldMoney, setEvent: events.BalanceSet, addEvent: events.BalanceAdd, subtractEvent: events.BalanceSubtract}}
	e.Bank = &BankManager{account{e: e, field: fieldBank, setEvent: events.BankSet, addEvent: events.BankAdd, subtractEvent: events.BankSubtract}}
	e.Shop = &ShopManager{e: e}
	e.Inventory = &InventoryManager{e: e}
	e.History = &HistoryManager{e: e}
	e.Cooldowns = &CooldownManager{e: e}
	e.Rewards = &RewardManager{e: e}
	e.Currencies = &CurrencyManager{e: e}
	e.Users = &UserManager{e: e}
	return e
}

// Subscribe returns a channel receiving every event emitted by the managers.
func (e *Economy) Subscribe(buffer int) <-chan events.Event {
	return e.events.Subscribe(buffer)
}

// Close closes the event subscriptions. The engine is owned by the caller and is left open.
func (e *Economy) Close() {
	e.events.Close()
}

// emit publishes an event to the subscribers.
func (e *Economy) emit(name string, payload interface{}) {
	log.WithFields(log.Fields{"event": name}).Debug("economy event")
	e.events.Emit(name, payload)
}

// checkIDs verifies that each ID can be used as a path segment.
func checkIDs(ids ...string) error {
	for _, id := range ids {
		if id == "" || strings.Contains(id, ".") {
			return ErrInvalidID
		}
	}
	return nil
}

// checkMember verifies the guild and member IDs, and that the member ID does not collide
// with a key holding guild data.
func checkMember(guildID string, memberID string) error {
	if err := checkIDs(guildID, memberID); err != nil {
		return err
	}
	if reservedGuildKeys[memberID] {
		return ErrReservedID
	}
	return nil
}
