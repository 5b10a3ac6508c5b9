// Package events delivers domain events from the economy managers to subscribers.
package events

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Event names emitted by the economy managers.
const (
	BalanceSet      = "balanceSet"
	BalanceAdd      = "balanceAdd"
	BalanceSubtract = "balanceSubtract"
	BankSet         = "bankSet"
	BankAdd         = "bankAdd"
	BankSubtract    = "bankSubtract"
	ShopItemAdd     = "shopItemAdd"
	ShopItemRemove  = "shopItemRemove"
	ShopItemEdit    = "shopItemEdit"
	ShopClear       = "shopClear"
	ShopItemBuy     = "shopItemBuy"
	ShopItemUse     = "shopItemUse"
	InventorySell   = "inventorySell"
	DailyClaimed    = "dailyClaimed"
	WorkClaimed     = "workClaimed"
	WeeklyClaimed   = "weeklyClaimed"
	CurrencyCreate  = "currencyCreate"
	CurrencyDelete  = "currencyDelete"
	CurrencyEdit    = "currencyEdit"
	SettingsChange  = "settingsChange"
)

// Event is a named domain event and its payload.
type Event struct {
	Name    string
	Payload interface{}
}

// BalanceChange is the payload for balance, bank and reward events.
type BalanceChange struct {
	Type     string  `json:"type"`
	GuildID  string  `json:"guildID"`
	MemberID string  `json:"memberID"`
	Amount   float64 `json:"amount"`
	Balance  float64 `json:"balance"`
	Reason   string  `json:"reason"`
}

// ItemChange is the payload for shop and inventory events. Item holds a snapshot of the
// shop or inventory record.
type ItemChange struct {
	Type     string      `json:"type"`
	GuildID  string      `json:"guildID"`
	MemberID string      `json:"memberID,omitempty"`
	Item     interface{} `json:"item,omitempty"`
	Quantity int         `json:"quantity,omitempty"`
	Amount   float64     `json:"amount,omitempty"`
	Reason   string      `json:"reason,omitempty"`
}

// Emitter fans events out to its subscribers. The zero value is not usable; call New.
type Emitter struct {
	mutex       sync.RWMutex
	subscribers []chan Event
	closed      bool
}

// New creates an Emitter with no subscribers.
func New() *Emitter {
	return &Emitter{}
}

// Subscribe returns a channel that receives every event emitted after the call. Events are
// dropped for a subscriber whose buffer is full.
func (e *Emitter) Subscribe(buffer int) <-chan Event {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	ch := make(chan Event, buffer)
	if e.closed {
		close(ch)
		return ch
	}
	e.subscribers = append(e.subscribers, ch)
	return ch
}

// Emit sends the event to every subscriber without blocking.
func (e *Emitter) Emit(name string, payload interface{}) {
	if e == nil {
		return
	}
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	if e.closed {
		return
	}
	event := Event{Name: name, Payload: payload}
	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		default:
			log.Warningf("Dropping %s event, subscriber is not keeping up", name)
		}
	}
}

// Close closes every subscriber channel. Events emitted afterwards are discarded.
func (e *Emitter) Close() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	for _, ch := range e.subscribers {
		close(ch)
	}
	e.subscribers = nil
}
