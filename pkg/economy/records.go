package economy

// ShopItem is an item in a guild's shop.
type ShopItem struct {
	ID          int                    `json:"id"`
	Name        string                 `json:"name"`
	Price       float64                `json:"price"`
	Message     string                 `json:"message"`
	Description string                 `json:"description"`
	MaxAmount   *int                   `json:"maxAmount"`
	Role        *string                `json:"role"`
	Date        string                 `json:"date"`
	Custom      map[string]interface{} `json:"custom"`
}

// InventoryItem is an item owned by a member. The ID is unique within the member's
// inventory, while ItemID is the ID of the shop item it was bought as.
type InventoryItem struct {
	ID          int                    `json:"id"`
	ItemID      int                    `json:"itemID"`
	Name        string                 `json:"name"`
	Price       float64                `json:"price"`
	Message     string                 `json:"message"`
	Description string                 `json:"description"`
	MaxAmount   *int                   `json:"maxAmount"`
	Role        *string                `json:"role"`
	Date        string                 `json:"date"`
	Custom      map[string]interface{} `json:"custom"`
}

// HistoryRecord is a purchase made by a member.
type HistoryRecord struct {
	ID          int                    `json:"id"`
	ItemID      int                    `json:"itemID"`
	Name        string                 `json:"name"`
	Price       float64                `json:"price"`
	Quantity    int                    `json:"quantity"`
	TotalPrice  float64                `json:"totalPrice"`
	Message     string                 `json:"message"`
	Description string                 `json:"description"`
	Role        *string                `json:"role"`
	Date        string                 `json:"date"`
	Custom      map[string]interface{} `json:"custom"`
	MemberID    string                 `json:"memberID"`
	GuildID     string                 `json:"guildID"`
}

// Currency is a custom currency defined by a guild.
type Currency struct {
	ID     int                    `json:"id"`
	Name   string                 `json:"name"`
	Symbol string                 `json:"symbol"`
	Custom map[string]interface{} `json:"custom"`
}

// Member is a snapshot of a member's record.
type Member struct {
	ID             string             `json:"-"`
	GuildID        string             `json:"-"`
	Money          float64            `json:"money"`
	Bank           float64            `json:"bank"`
	DailyCooldown  int64              `json:"dailyCooldown,omitempty"`
	WorkCooldown   int64              `json:"workCooldown,omitempty"`
	WeeklyCooldown int64              `json:"weeklyCooldown,omitempty"`
	Inventory      []InventoryItem    `json:"inventory"`
	History        []HistoryRecord    `json:"history"`
	Currencies     map[string]float64 `json:"currencies,omitempty"`
}

// inventoryItem copies the fields of the shop item into a new inventory record.
func inventoryItem(id int, item *ShopItem, date string) InventoryItem {
	return InventoryItem{
		ID:          id,
		ItemID:      item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Message:     item.Message,
		Description: item.Description,
		MaxAmount:   item.MaxAmount,
		Role:        item.Role,
		Date:        date,
		Custom:      item.Custom,
	}
}

// historyRecord copies the fields of the shop item into a new purchase record.
func historyRecord(id int, guildID string, memberID string, item *ShopItem, quantity int, date string) HistoryRecord {
	return HistoryRecord{
		ID:          id,
		ItemID:      item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Quantity:    quantity,
		TotalPrice:  item.Price * float64(quantity),
		Message:     item.Message,
		Description: item.Description,
		Role:        item.Role,
		Date:        date,
		Custom:      item.Custom,
		MemberID:    memberID,
		GuildID:     guildID,
	}
}
