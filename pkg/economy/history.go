package economy

// HistoryManager manages the purchase history of members.
type HistoryManager struct {
	e *Economy
}

func historyPath(guildID string, memberID string) string {
	return memberPath(guildID, memberID, fieldHistory)
}

// List returns the member's purchases, oldest first.
func (m *HistoryManager) List(guildID string, memberID string) ([]HistoryRecord, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	var records []HistoryRecord
	if err := m.e.fetchRecords(historyPath(guildID, memberID), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Find returns the first purchase whose ID or item name is ref, or nil if there is none.
func (m *HistoryManager) Find(guildID string, memberID string, ref string) (*HistoryRecord, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	var record HistoryRecord
	found, err := m.e.findInList(historyPath(guildID, memberID), ref, &record)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

// Add records a purchase of quantity units of the shop item.
func (m *HistoryManager) Add(guildID string, memberID string, item *ShopItem, quantity int) (*HistoryRecord, error) {
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

// add appends the purchase record. The caller holds the Economy's mutex.
func (m *HistoryManager) add(guildID string, memberID string, item *ShopItem, quantity int) (*HistoryRecord, error) {
	var record HistoryRecord
	date := m.e.date()
	_, err := m.e.appendRecord(historyPath(guildID, memberID), func(id int) interface{} {
		record = historyRecord(id, guildID, memberID, item, quantity, date)
		return record
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Remove removes the first purchase whose ID or item name is ref. It returns false if
// there is none.
func (m *HistoryManager) Remove(guildID string, memberID string, ref string) (bool, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return false, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	return m.e.removeRecord(historyPath(guildID, memberID), ref, nil)
}

// Clear removes the member's purchase history. It returns false if the member had none.
func (m *HistoryManager) Clear(guildID string, memberID string) (bool, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return false, err
	}
	return m.e.db.Remove(historyPath(guildID, memberID))
}
