package economy

import (
	"github.com/rbrabson/economy/pkg/events"
	log "github.com/sirupsen/logrus"
)

// SaleResult is the outcome of selling an inventory item back to the shop.
type SaleResult struct {
	Status  Status         `json:"status"`
	Item    *InventoryItem `json:"item,omitempty"`
	Refund  float64        `json:"refund"`
	Balance float64        `json:"balance"`
}

// InventoryManager manages the items members own.
type InventoryManager struct {
	e *Economy
}

func inventoryPath(guildID string, memberID string) string {
	return memberPath(guildID, memberID, fieldInventory)
}

// List returns the member's inventory, in the order the items were acquired.
func (m *InventoryManager) List(guildID string, memberID string) ([]InventoryItem, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	var items []InventoryItem
	if err := m.e.fetchRecords(inventoryPath(guildID, memberID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Find returns the first inventory item whose ID or name is ref, or nil if there is none.
func (m *InventoryManager) Find(guildID string, memberID string, ref string) (*InventoryItem, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	var item InventoryItem
	found, err := m.e.findInList(inventoryPath(guildID, memberID), ref, &item)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

// Add gives the member quantity units of the shop item without charging for them.
func (m *InventoryManager) Add(guildID string, memberID string, item *ShopItem, quantity int) ([]InventoryItem, error) {
	log.Trace("--> InventoryManager.Add")
	defer log.Trace("<-- InventoryManager.Add")

	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	if item == nil || quantity < 1 {
		return nil, ErrInvalidItem
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	return m.add(guildID, memberID, item, quantity)
}

// add pushes one inventory record per unit. The caller holds the Economy's mutex.
func (m *InventoryManager) add(guildID string, memberID string, item *ShopItem, quantity int) ([]InventoryItem, error) {
	date := m.e.date()
	added := make([]InventoryItem, 0, quantity)
	for i := 0; i < quantity; i++ {
		var record InventoryItem
		_, err := m.e.appendRecord(inventoryPath(guildID, memberID), func(id int) interface{} {
			record = inventoryItem(id, item, date)
			return record
		})
		if err != nil {
			log.Errorf("Unable to add %s to the inventory of member %s, error=%s", item.Name, memberID, err.Error())
			return added, err
		}
		added = append(added, record)
	}
	return added, nil
}

// count returns how many units of the shop item the member owns.
func (m *InventoryManager) count(guildID string, memberID string, itemID int) (int, error) {
	items, err := m.List(guildID, memberID)
	if err != nil {
		return 0, err
	}
	owned := 0
	for _, item := range items {
		if item.ItemID == itemID {
			owned++
		}
	}
	return owned, nil
}

// Remove removes the first inventory item whose ID or name is ref. It returns false if
// there is none.
func (m *InventoryManager) Remove(guildID string, memberID string, ref string) (bool, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return false, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	return m.e.removeRecord(inventoryPath(guildID, memberID), ref, nil)
}

// Clear empties the member's inventory. It returns false if the member had no inventory.
func (m *InventoryManager) Clear(guildID string, memberID string) (bool, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return false, err
	}
	return m.e.db.Remove(inventoryPath(guildID, memberID))
}

// Use consumes the first inventory item whose ID or name is ref and returns it, so the
// caller can show its message. It returns nil if the member has no such item.
func (m *InventoryManager) Use(guildID string, memberID string, ref string) (*InventoryItem, error) {
	log.Trace("--> InventoryManager.Use")
	defer log.Trace("<-- InventoryManager.Use")

	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	var item InventoryItem
	used, err := m.e.removeRecord(inventoryPath(guildID, memberID), ref, &item)
	if err != nil || !used {
		return nil, err
	}
	m.e.emit(events.ShopItemUse, events.ItemChange{
		Type:     "use",
		GuildID:  guildID,
		MemberID: memberID,
		Item:     item,
		Quantity: 1,
	})
	return &item, nil
}

// Sell removes the first inventory item whose ID or name is ref and refunds the guild's
// selling percentage of its price to the member's balance.
func (m *InventoryManager) Sell(guildID string, memberID string, ref string, reason string) (*SaleResult, error) {
	log.Trace("--> InventoryManager.Sell")
	defer log.Trace("<-- InventoryManager.Sell")

	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	percent, err := m.e.Settings.number(guildID, SettingSellingItemPercent)
	if err != nil {
		return nil, err
	}
	var item InventoryItem
	sold, err := m.e.removeRecord(inventoryPath(guildID, memberID), ref, &item)
	if err != nil {
		return nil, err
	}
	if !sold {
		return &SaleResult{Status: StatusNotFound}, nil
	}

	refund := item.Price * percent / 100
	if reason == "" {
		reason = "sold " + item.Name
	}
	balance, err := m.e.Balance.Add(guildID, memberID, refund, reason)
	if err != nil {
		return nil, err
	}
	m.e.emit(events.InventorySell, events.ItemChange{
		Type:     "sell",
		GuildID:  guildID,
		MemberID: memberID,
		Item:     item,
		Quantity: 1,
		Amount:   refund,
		Reason:   reason,
	})
	return &SaleResult{Status: StatusOK, Item: &item, Refund: refund, Balance: balance}, nil
}
