package economy

import (
	stdmath "math"
	"strconv"
	"strings"

	"github.com/rbrabson/economy/pkg/events"
	"github.com/rbrabson/economy/pkg/math"
	log "github.com/sirupsen/logrus"
)

// ItemOptions are the fields of a new shop item.
type ItemOptions struct {
	Name        string
	Price       float64
	Message     string
	Description string
	MaxAmount   *int
	Role        *string
	Custom      map[string]interface{}
}

// PurchaseResult is the outcome of buying an item from the shop.
type PurchaseResult struct {
	Status     Status          `json:"status"`
	Item       *ShopItem       `json:"item,omitempty"`
	Quantity   int             `json:"quantity"`
	TotalPrice float64         `json:"totalPrice"`
	Balance    float64         `json:"balance"`
	Inventory  []InventoryItem `json:"inventory,omitempty"`
	History    *HistoryRecord  `json:"history,omitempty"`
}

// ShopManager manages the items a guild sells.
type ShopManager struct {
	e *Economy
}

func shopPath(guildID string) string {
	return guildPath(guildID, keyShop)
}

// AddItem adds an item to the guild's shop. Item names are unique within a shop.
func (m *ShopManager) AddItem(guildID string, opts ItemOptions) (*ShopItem, error) {
	log.Trace("--> ShopManager.AddItem")
	defer log.Trace("<-- ShopManager.AddItem")

	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	if err := validateItem(opts.Name, opts.Price, opts.MaxAmount); err != nil {
		return nil, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	existing, err := m.FindItem(guildID, opts.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInvalidItem
	}

	item := &ShopItem{
		Name:        opts.Name,
		Price:       opts.Price,
		Message:     opts.Message,
		Description: opts.Description,
		MaxAmount:   opts.MaxAmount,
		Role:        opts.Role,
		Date:        m.e.date(),
		Custom:      opts.Custom,
	}
	if item.Custom == nil {
		item.Custom = map[string]interface{}{}
	}
	id, err := m.e.appendRecord(shopPath(guildID), func(id int) interface{} {
		item.ID = id
		return item
	})
	if err != nil {
		log.Errorf("Unable to add item %s to the shop of guild %s, error=%s", opts.Name, guildID, err.Error())
		return nil, err
	}
	item.ID = id
	m.e.emit(events.ShopItemAdd, events.ItemChange{Type: "add", GuildID: guildID, Item: *item})
	return item, nil
}

// List returns the items in the guild's shop, in the order they were added.
func (m *ShopManager) List(guildID string) ([]ShopItem, error) {
	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	var items []ShopItem
	if err := m.e.fetchRecords(shopPath(guildID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindItem returns the item whose ID or name is ref, or nil if there is none.
func (m *ShopManager) FindItem(guildID string, ref string) (*ShopItem, error) {
	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	var item ShopItem
	found, err := m.e.findInList(shopPath(guildID), ref, &item)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

// RemoveItem removes the item whose ID or name is ref. It returns false if there is none.
func (m *ShopManager) RemoveItem(guildID string, ref string) (bool, error) {
	log.Trace("--> ShopManager.RemoveItem")
	defer log.Trace("<-- ShopManager.RemoveItem")

	if err := checkIDs(guildID); err != nil {
		return false, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	var item ShopItem
	removed, err := m.e.removeRecord(shopPath(guildID), ref, &item)
	if err != nil || !removed {
		return false, err
	}
	m.e.emit(events.ShopItemRemove, events.ItemChange{Type: "remove", GuildID: guildID, Item: item})
	return true, nil
}

// EditItem changes one field of the item whose ID or name is ref and returns the edited
// item, or nil if there is no such item. The editable fields are name, price, message,
// description, maxAmount, role and custom; a nil maxAmount or role clears it.
func (m *ShopManager) EditItem(guildID string, ref string, field string, value interface{}) (*ShopItem, error) {
	log.Trace("--> ShopManager.EditItem")
	defer log.Trace("<-- ShopManager.EditItem")

	if err := checkIDs(guildID); err != nil {
		return nil, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	key := shopPath(guildID)
	list, err := m.e.fetchList(key)
	if err != nil {
		return nil, err
	}
	i := findRecord(list, ref)
	if i < 0 {
		return nil, nil
	}
	var item ShopItem
	if err := decode(list[i], &item); err != nil {
		return nil, err
	}
	if err := applyEdit(&item, field, value); err != nil {
		return nil, err
	}
	if field == "name" {
		for j, other := range list {
			record, ok := other.(map[string]interface{})
			if ok && j != i && record["name"] == item.Name {
				return nil, ErrInvalidItem
			}
		}
	}

	var record interface{}
	if err := decode(item, &record); err != nil {
		return nil, err
	}
	if _, err := m.e.db.ChangeElement(key, i, record); err != nil {
		return nil, err
	}
	m.e.emit(events.ShopItemEdit, events.ItemChange{Type: field, GuildID: guildID, Item: item})
	return &item, nil
}

// Clear removes every item from the guild's shop. It returns false if the shop was empty.
func (m *ShopManager) Clear(guildID string) (bool, error) {
	log.Trace("--> ShopManager.Clear")
	defer log.Trace("<-- ShopManager.Clear")

	if err := checkIDs(guildID); err != nil {
		return false, err
	}
	cleared, err := m.e.db.Remove(shopPath(guildID))
	if err != nil || !cleared {
		return false, err
	}
	m.e.emit(events.ShopClear, events.ItemChange{Type: "clear", GuildID: guildID})
	return true, nil
}

// Buy sells quantity units of the item whose ID or name is ref to the member. Each unit is
// added to the member's inventory, and the purchase is recorded in the member's history
// when the guild saves purchase history. A refused purchase is reported by the status.
func (m *ShopManager) Buy(guildID string, memberID string, ref string, quantity int, reason string) (*PurchaseResult, error) {
	log.Trace("--> ShopManager.Buy")
	defer log.Trace("<-- ShopManager.Buy")

	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	item, err := m.FindItem(guildID, ref)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return &PurchaseResult{Status: StatusNotFound, Quantity: quantity}, nil
	}
	result := &PurchaseResult{Item: item, Quantity: quantity}
	if quantity < 1 {
		result.Status = StatusInvalidQuantity
		return result, nil
	}

	if item.MaxAmount != nil {
		owned, err := m.e.Inventory.count(guildID, memberID, item.ID)
		if err != nil {
			return nil, err
		}
		if owned+quantity > *item.MaxAmount {
			result.Status = StatusMaxAmount
			return result, nil
		}
	}

	result.TotalPrice = item.Price * float64(quantity)
	balance, err := m.e.Balance.Fetch(guildID, memberID)
	if err != nil {
		return nil, err
	}
	result.Balance = balance
	if balance < result.TotalPrice {
		result.Status = StatusInsufficientFunds
		return result, nil
	}

	if reason == "" {
		reason = "bought " + strconv.Itoa(quantity) + " " + item.Name
	}
	result.Balance, err = m.e.Balance.Subtract(guildID, memberID, result.TotalPrice, reason)
	if err != nil {
		return nil, err
	}
	result.Inventory, err = m.e.Inventory.add(guildID, memberID, item, quantity)
	if err != nil {
		return nil, err
	}
	save, err := m.e.Settings.boolean(guildID, SettingSavePurchasesHistory)
	if err != nil {
		return nil, err
	}
	if save {
		result.History, err = m.e.History.add(guildID, memberID, item, quantity)
		if err != nil {
			return nil, err
		}
	}

	m.e.emit(events.ShopItemBuy, events.ItemChange{
		Type:     "buy",
		GuildID:  guildID,
		MemberID: memberID,
		Item:     *item,
		Quantity: quantity,
		Amount:   result.TotalPrice,
		Reason:   reason,
	})
	return result, nil
}

// validateItem checks the fields every shop item must have.
func validateItem(name string, price float64, maxAmount *int) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidItem
	}
	if price < 0 || stdmath.IsNaN(price) || stdmath.IsInf(price, 0) {
		return ErrInvalidItem
	}
	if maxAmount != nil && *maxAmount < 1 {
		return ErrInvalidItem
	}
	return nil
}

// applyEdit sets one field of the item.
func applyEdit(item *ShopItem, field string, value interface{}) error {
	switch field {
	case "name":
		name, ok := value.(string)
		if !ok {
			return ErrInvalidField
		}
		item.Name = name
	case "price":
		price, ok := math.ToNumber(value)
		if !ok || !math.IsNumeric(value) {
			return ErrInvalidField
		}
		item.Price = price
	case "message":
		message, ok := value.(string)
		if !ok {
			return ErrInvalidField
		}
		item.Message = message
	case "description":
		description, ok := value.(string)
		if !ok {
			return ErrInvalidField
		}
		item.Description = description
	case "maxAmount":
		if value == nil {
			item.MaxAmount = nil
			break
		}
		n, ok := math.ToNumber(value)
		if !ok || !math.IsNumeric(value) {
			return ErrInvalidField
		}
		maxAmount := int(n)
		item.MaxAmount = &maxAmount
	case "role":
		if value == nil {
			item.Role = nil
			break
		}
		role, ok := value.(string)
		if !ok {
			return ErrInvalidField
		}
		item.Role = &role
	case "custom":
		custom, ok := value.(map[string]interface{})
		if !ok {
			return ErrInvalidField
		}
		item.Custom = custom
	default:
		return ErrInvalidField
	}
	return validateItem(item.Name, item.Price, item.MaxAmount)
}
