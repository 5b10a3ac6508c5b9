package economy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rbrabson/economy/pkg/events"
)

func mustAddItem(t *testing.T, e *Economy, opts ItemOptions) *ShopItem {
	t.Helper()
	item, err := e.Shop.AddItem(guild, opts)
	if err != nil {
		t.Fatal(err)
	}
	return item
}

func itemIDs(items []ShopItem) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestShopItemIDsAreNotReused(t *testing.T) {
	e := newTestEconomy(t)
	for _, name := range []string{"sword", "shield", "potion"} {
		mustAddItem(t, e, ItemOptions{Name: name, Price: 10})
	}
	removed, err := e.Shop.RemoveItem(guild, "2")
	if err != nil || !removed {
		t.Fatalf("RemoveItem(2) = %v, %v", removed, err)
	}
	bow := mustAddItem(t, e, ItemOptions{Name: "bow", Price: 20})
	if bow.ID != 4 {
		t.Errorf("new item has ID %d, want 4", bow.ID)
	}

	items, err := e.Shop.List(guild)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 3, 4}, itemIDs(items)); diff != "" {
		t.Errorf("unexpected item IDs (-want +got):\n%s", diff)
	}
}

func TestShopAddItem(t *testing.T) {
	e := newTestEconomy(t)
	ch := e.Subscribe(4)
	sword := mustAddItem(t, e, ItemOptions{Name: "sword", Price: 50, Message: "slash"})
	want := &ShopItem{ID: 1, Name: "sword", Price: 50, Message: "slash", Date: "2024-01-02T03:04:05Z", Custom: map[string]interface{}{}}
	if diff := cmp.Diff(want, sword); diff != "" {
		t.Errorf("unexpected item (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{events.ShopItemAdd}, drain(ch)); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}

	invalid := []ItemOptions{
		{Name: "sword", Price: 10},
		{Name: " ", Price: 10},
		{Name: "axe", Price: -1},
	}
	for _, opts := range invalid {
		if _, err := e.Shop.AddItem(guild, opts); !errors.Is(err, ErrInvalidItem) {
			t.Errorf("AddItem(%+v): got %v, want %v", opts, err, ErrInvalidItem)
		}
	}
}

func TestShopFindAndEdit(t *testing.T) {
	e := newTestEconomy(t)
	mustAddItem(t, e, ItemOptions{Name: "sword", Price: 50})
	mustAddItem(t, e, ItemOptions{Name: "shield", Price: 30})

	for _, ref := range []string{"shield", "2"} {
		item, err := e.Shop.FindItem(guild, ref)
		if err != nil {
			t.Fatal(err)
		}
		if item == nil || item.Name != "shield" {
			t.Errorf("FindItem(%q) = %+v, want shield", ref, item)
		}
	}
	if item, err := e.Shop.FindItem(guild, "axe"); err != nil || item != nil {
		t.Errorf("FindItem(axe) = %+v, %v; want nil", item, err)
	}

	item, err := e.Shop.EditItem(guild, "sword", "price", 75.0)
	if err != nil {
		t.Fatal(err)
	}
	if item.Price != 75 {
		t.Errorf("edited price is %v, want 75", item.Price)
	}
	if item, _ = e.Shop.FindItem(guild, "1"); item.Price != 75 {
		t.Errorf("stored price is %v, want 75", item.Price)
	}
	if item, err = e.Shop.EditItem(guild, "sword", "maxAmount", 3); err != nil || *item.MaxAmount != 3 {
		t.Errorf("EditItem(maxAmount) = %+v, %v", item, err)
	}

	if _, err := e.Shop.EditItem(guild, "sword", "colour", "red"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("unknown field: got %v, want %v", err, ErrInvalidField)
	}
	if _, err := e.Shop.EditItem(guild, "sword", "price", "cheap"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("non-numeric price: got %v, want %v", err, ErrInvalidField)
	}
	if _, err := e.Shop.EditItem(guild, "sword", "name", "shield"); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("duplicate name: got %v, want %v", err, ErrInvalidItem)
	}
	if item, err := e.Shop.EditItem(guild, "axe", "price", 1.0); err != nil || item != nil {
		t.Errorf("EditItem(axe) = %+v, %v; want nil", item, err)
	}
}

func TestShopClear(t *testing.T) {
	e := newTestEconomy(t)
	mustAddItem(t, e, ItemOptions{Name: "sword", Price: 50})
	if cleared, err := e.Shop.Clear(guild); err != nil || !cleared {
		t.Errorf("Clear = %v, %v", cleared, err)
	}
	items, err := e.Shop.List(guild)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("shop has %d items after Clear", len(items))
	}
	if cleared, _ := e.Shop.Clear(guild); cleared {
		t.Error("clearing an empty shop reported true")
	}
}

func TestBuy(t *testing.T) {
	e := newTestEconomy(t)
	mustBalance(t, e, "m1", 100)
	mustAddItem(t, e, ItemOptions{Name: "sword", Price: 50, Message: "slash"})
	ch := e.Subscribe(16)

	result, err := e.Shop.Buy(guild, "m1", "sword", 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusOK || result.TotalPrice != 100 || result.Balance != 0 {
		t.Errorf("unexpected purchase %+v", result)
	}
	if len(result.Inventory) != 2 || result.Inventory[0].ID != 1 || result.Inventory[1].ID != 2 {
		t.Errorf("unexpected inventory records %+v", result.Inventory)
	}
	if diff := cmp.Diff([]string{events.BalanceSubtract, events.ShopItemBuy}, drain(ch)); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}

	inventory, err := e.Inventory.List(guild, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(inventory) != 2 || inventory[0].ItemID != 1 || inventory[0].Message != "slash" {
		t.Errorf("unexpected inventory %+v", inventory)
	}
	history, err := e.History.List(guild, "m1")
	if err != nil {
		t.Fatal(err)
	}
	want := []HistoryRecord{{
		ID:         1,
		ItemID:     1,
		Name:       "sword",
		Price:      50,
		Quantity:   2,
		TotalPrice: 100,
		Message:    "slash",
		Date:       "2024-01-02T03:04:05Z",
		Custom:     map[string]interface{}{},
		MemberID:   "m1",
		GuildID:    guild,
	}}
	if diff := cmp.Diff(want, history); diff != "" {
		t.Errorf("unexpected history (-want +got):\n%s", diff)
	}
}

func TestBuyRefused(t *testing.T) {
	e := newTestEconomy(t)
	mustBalance(t, e, "m1", 100)
	mustAddItem(t, e, ItemOptions{Name: "sword", Price: 50})
	one := 1
	mustAddItem(t, e, ItemOptions{Name: "crown", Price: 10, MaxAmount: &one})

	if result, _ := e.Shop.Buy(guild, "m1", "crown", 1, ""); result.Status != StatusOK {
		t.Fatalf("first crown: status %s", result.Status)
	}

	tests := []struct {
		name     string
		ref      string
		quantity int
		want     Status
	}{
		{"unknown item", "axe", 1, StatusNotFound},
		{"zero quantity", "sword", 0, StatusInvalidQuantity},
		{"too expensive", "sword", 3, StatusInsufficientFunds},
		{"over the max amount", "crown", 1, StatusMaxAmount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := e.Shop.Buy(guild, "m1", tc.ref, tc.quantity, "")
			if err != nil {
				t.Fatal(err)
			}
			if result.Status != tc.want {
				t.Errorf("got status %s, want %s", result.Status, tc.want)
			}
		})
	}

	balance, _ := e.Balance.Fetch(guild, "m1")
	if balance != 90 {
		t.Errorf("refused purchases changed the balance to %v", balance)
	}
}

func TestBuyWithoutHistory(t *testing.T) {
	e := newTestEconomy(t)
	if _, err := e.Settings.Set(guild, SettingSavePurchasesHistory, false); err != nil {
		t.Fatal(err)
	}
	mustBalance(t, e, "m1", 100)
	mustAddItem(t, e, ItemOptions{Name: "sword", Price: 50})
	result, err := e.Shop.Buy(guild, "m1", "sword", 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.History != nil {
		t.Errorf("purchase was recorded: %+v", result.History)
	}
	history, _ := e.History.List(guild, "m1")
	if len(history) != 0 {
		t.Errorf("history has %d records", len(history))
	}
}

func TestInventoryUseAndSell(t *testing.T) {
	e := newTestEconomy(t)
	sword := mustAddItem(t, e, ItemOptions{Name: "sword", Price: 50, Message: "slash"})
	if _, err := e.Inventory.Add(guild, "m1", sword, 3); err != nil {
		t.Fatal(err)
	}
	ch := e.Subscribe(16)

	used, err := e.Inventory.Use(guild, "m1", "sword")
	if err != nil {
		t.Fatal(err)
	}
	if used == nil || used.ID != 1 || used.Message != "slash" {
		t.Errorf("Use returned %+v", used)
	}
	if used, _ = e.Inventory.Use(guild, "m1", "axe"); used != nil {
		t.Errorf("using a missing item returned %+v", used)
	}

	sale, err := e.Inventory.Sell(guild, "m1", "3", "")
	if err != nil {
		t.Fatal(err)
	}
	if sale.Status != StatusOK || sale.Refund != 37.5 || sale.Balance != 37.5 || sale.Item.ID != 3 {
		t.Errorf("unexpected sale %+v", sale)
	}
	if sale, _ = e.Inventory.Sell(guild, "m1", "3", ""); sale.Status != StatusNotFound {
		t.Errorf("selling a sold item: status %s", sale.Status)
	}
	want := []string{events.ShopItemUse, events.BalanceAdd, events.InventorySell}
	if diff := cmp.Diff(want, drain(ch)); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}

	item, err := e.Inventory.Find(guild, "m1", "sword")
	if err != nil {
		t.Fatal(err)
	}
	if item == nil || item.ID != 2 {
		t.Errorf("remaining item is %+v, want ID 2", item)
	}
	next, err := e.Inventory.Add(guild, "m1", sword, 1)
	if err != nil {
		t.Fatal(err)
	}
	if next[0].ID != 3 {
		t.Errorf("next inventory ID is %d, want 3", next[0].ID)
	}
	if cleared, err := e.Inventory.Clear(guild, "m1"); err != nil || !cleared {
		t.Errorf("Clear = %v, %v", cleared, err)
	}
}

func TestHistory(t *testing.T) {
	e := newTestEconomy(t)
	sword := mustAddItem(t, e, ItemOptions{Name: "sword", Price: 50})
	shield := mustAddItem(t, e, ItemOptions{Name: "shield", Price: 30})
	if _, err := e.History.Add(guild, "m1", sword, 1); err != nil {
		t.Fatal(err)
	}
	record, err := e.History.Add(guild, "m1", shield, 2)
	if err != nil {
		t.Fatal(err)
	}
	if record.ID != 2 || record.TotalPrice != 60 {
		t.Errorf("unexpected record %+v", record)
	}

	if found, _ := e.History.Find(guild, "m1", "shield"); found == nil || found.ID != 2 {
		t.Errorf("Find(shield) = %+v", found)
	}
	if removed, err := e.History.Remove(guild, "m1", "1"); err != nil || !removed {
		t.Errorf("Remove(1) = %v, %v", removed, err)
	}
	if removed, _ := e.History.Remove(guild, "m1", "1"); removed {
		t.Error("removing a missing record reported true")
	}
	records, _ := e.History.List(guild, "m1")
	if len(records) != 1 || records[0].Name != "shield" {
		t.Errorf("unexpected history %+v", records)
	}
	if cleared, err := e.History.Clear(guild, "m1"); err != nil || !cleared {
		t.Errorf("Clear = %v, %v", cleared, err)
	}
}
