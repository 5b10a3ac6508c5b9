package economy

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rbrabson/economy/pkg/config"
	"github.com/rbrabson/economy/pkg/database"
	"github.com/rbrabson/economy/pkg/events"
	"github.com/rbrabson/economy/pkg/store"
)

var testNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

const guild = "g1"

func newTestEconomy(t *testing.T) *Economy {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	db := database.Open(s)
	e := New(db, config.Default().Defaults)
	e.now = func() time.Time { return testNow }
	e.random = func(n int) int { return n - 1 }
	t.Cleanup(func() {
		e.Close()
		db.Close()
	})
	return e
}

// drain returns the names of the events waiting on the channel.
func drain(ch <-chan events.Event) []string {
	var names []string
	for {
		select {
		case event := <-ch:
			names = append(names, event.Name)
		default:
			return names
		}
	}
}

func mustBalance(t *testing.T, e *Economy, memberID string, amount float64) {
	t.Helper()
	if _, err := e.Balance.Set(guild, memberID, amount, "test"); err != nil {
		t.Fatal(err)
	}
}

func TestBalanceOperations(t *testing.T) {
	e := newTestEconomy(t)
	ch := e.Subscribe(16)

	balance, err := e.Balance.Fetch(guild, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if balance != 0 {
		t.Errorf("new member has balance %v, want 0", balance)
	}

	mustBalance(t, e, "m1", 100)
	if balance, err = e.Balance.Add(guild, "m1", 50, "bonus"); err != nil || balance != 150 {
		t.Errorf("Add = %v, %v; want 150", balance, err)
	}
	if balance, err = e.Balance.Subtract(guild, "m1", 30, "fine"); err != nil || balance != 120 {
		t.Errorf("Subtract = %v, %v; want 120", balance, err)
	}

	want := []string{events.BalanceSet, events.BalanceAdd, events.BalanceSubtract}
	if diff := cmp.Diff(want, drain(ch)); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestBalanceEventPayload(t *testing.T) {
	e := newTestEconomy(t)
	ch := e.Subscribe(4)
	mustBalance(t, e, "m1", 10)
	if _, err := e.Balance.Add(guild, "m1", 5, "gift"); err != nil {
		t.Fatal(err)
	}
	<-ch
	event := <-ch
	want := events.BalanceChange{Type: "add", GuildID: guild, MemberID: "m1", Amount: 5, Balance: 15, Reason: "gift"}
	if diff := cmp.Diff(want, event.Payload); diff != "" {
		t.Errorf("unexpected payload (-want +got):\n%s", diff)
	}
}

func TestInvalidIDs(t *testing.T) {
	e := newTestEconomy(t)
	if _, err := e.Balance.Fetch("", "m1"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("empty guild: got %v, want %v", err, ErrInvalidID)
	}
	if _, err := e.Balance.Fetch(guild, "a.b"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("dotted member: got %v, want %v", err, ErrInvalidID)
	}
	if _, err := e.Balance.Fetch(guild, "shop"); !errors.Is(err, ErrReservedID) {
		t.Errorf("reserved member: got %v, want %v", err, ErrReservedID)
	}
}

func TestPay(t *testing.T) {
	e := newTestEconomy(t)
	mustBalance(t, e, "m1", 100)

	tests := []struct {
		name     string
		receiver string
		amount   float64
		want     Status
	}{
		{"same member", "m1", 10, StatusSameMember},
		{"zero amount", "m2", 0, StatusInvalidAmount},
		{"too much", "m2", 500, StatusInsufficientFunds},
		{"ok", "m2", 40, StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := e.Balance.Pay(guild, "m1", tc.receiver, tc.amount, "")
			if err != nil {
				t.Fatal(err)
			}
			if result.Status != tc.want {
				t.Errorf("got status %s, want %s", result.Status, tc.want)
			}
		})
	}

	sender, _ := e.Balance.Fetch(guild, "m1")
	receiver, _ := e.Balance.Fetch(guild, "m2")
	if sender != 60 || receiver != 40 {
		t.Errorf("balances after paying are %v and %v, want 60 and 40", sender, receiver)
	}
}

func TestDepositAndWithdraw(t *testing.T) {
	e := newTestEconomy(t)
	mustBalance(t, e, "m1", 100)

	result, err := e.Bank.Deposit(guild, "m1", 70, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusOK || result.SenderBalance != 30 || result.ReceiverBalance != 70 {
		t.Errorf("unexpected deposit result %+v", result)
	}
	if result, _ = e.Bank.Deposit(guild, "m1", 50, ""); result.Status != StatusInsufficientFunds {
		t.Errorf("over-deposit status %s, want %s", result.Status, StatusInsufficientFunds)
	}

	result, err = e.Bank.Withdraw(guild, "m1", 20, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusOK || result.SenderBalance != 50 || result.ReceiverBalance != 50 {
		t.Errorf("unexpected withdraw result %+v", result)
	}
	if result, _ = e.Bank.Withdraw(guild, "m1", 80, ""); result.Status != StatusInsufficientFunds {
		t.Errorf("over-withdraw status %s, want %s", result.Status, StatusInsufficientFunds)
	}
}

func TestBankLimits(t *testing.T) {
	e := newTestEconomy(t)
	mustBalance(t, e, "m1", 1000)
	if _, err := e.Settings.Set(guild, SettingMaxBankAmount, 100.0); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Settings.Set(guild, SettingMinBankAmount, 10.0); err != nil {
		t.Fatal(err)
	}

	if result, _ := e.Bank.Deposit(guild, "m1", 150, ""); result.Status != StatusBankLimit {
		t.Errorf("deposit over the maximum: status %s, want %s", result.Status, StatusBankLimit)
	}
	if result, _ := e.Bank.Deposit(guild, "m1", 100, ""); result.Status != StatusOK {
		t.Errorf("deposit up to the maximum: status %s, want %s", result.Status, StatusOK)
	}
	if result, _ := e.Bank.Withdraw(guild, "m1", 95, ""); result.Status != StatusBankLimit {
		t.Errorf("withdraw below the minimum: status %s, want %s", result.Status, StatusBankLimit)
	}
	if result, _ := e.Bank.Withdraw(guild, "m1", 90, ""); result.Status != StatusOK {
		t.Errorf("withdraw down to the minimum: status %s, want %s", result.Status, StatusOK)
	}
}

func TestLeaderboard(t *testing.T) {
	e := newTestEconomy(t)
	mustBalance(t, e, "m1", 50)
	mustBalance(t, e, "m2", 1500)
	mustBalance(t, e, "m3", 50)
	if _, err := e.Shop.AddItem(guild, ItemOptions{Name: "sword", Price: 10}); err != nil {
		t.Fatal(err)
	}

	entries, err := e.Balance.Leaderboard(guild)
	if err != nil {
		t.Fatal(err)
	}
	want := []LeaderboardEntry{
		{Rank: 1, MemberID: "m2", Amount: 1500},
		{Rank: 2, MemberID: "m1", Amount: 50},
		{Rank: 3, MemberID: "m3", Amount: 50},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("unexpected leaderboard (-want +got):\n%s", diff)
	}
	if rank := GetRanking(entries, "m3"); rank != 3 {
		t.Errorf("GetRanking(m3) = %d, want 3", rank)
	}
	if rank := GetRanking(entries, "nobody"); rank != 0 {
		t.Errorf("GetRanking(nobody) = %d, want 0", rank)
	}
	if top := Top(entries, 2); len(top) != 2 {
		t.Errorf("Top(2) returned %d entries", len(top))
	}
	if top := Top(entries, 10); len(top) != 3 {
		t.Errorf("Top(10) returned %d entries", len(top))
	}

	table, err := e.RenderLeaderboard(guild, entries)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"m2", "1,500 coins", "50 coins"} {
		if !strings.Contains(table, s) {
			t.Errorf("leaderboard table is missing %q:\n%s", s, table)
		}
	}
}

func TestUsers(t *testing.T) {
	e := newTestEconomy(t)
	mustBalance(t, e, "m2", 5)
	if _, err := e.Shop.AddItem(guild, ItemOptions{Name: "sword", Price: 10}); err != nil {
		t.Fatal(err)
	}

	member, err := e.Users.Ensure(guild, "m1")
	if err != nil {
		t.Fatal(err)
	}
	want := &Member{ID: "m1", GuildID: guild, Inventory: []InventoryItem{}, History: []HistoryRecord{}}
	if diff := cmp.Diff(want, member); diff != "" {
		t.Errorf("unexpected default member (-want +got):\n%s", diff)
	}

	members, err := e.Users.Members(guild)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"m1", "m2"}, members); diff != "" {
		t.Errorf("unexpected members (-want +got):\n%s", diff)
	}
	guilds, err := e.Users.Guilds()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{guild}, guilds); diff != "" {
		t.Errorf("unexpected guilds (-want +got):\n%s", diff)
	}

	if member, err = e.Users.Fetch(guild, "m2"); err != nil || member.Money != 5 {
		t.Errorf("Fetch(m2) = %+v, %v", member, err)
	}
	if member, err = e.Users.Reset(guild, "m2"); err != nil || member.Money != 0 {
		t.Errorf("Reset(m2) = %+v, %v", member, err)
	}
	if deleted, err := e.Users.Delete(guild, "m2"); err != nil || !deleted {
		t.Errorf("Delete(m2) = %v, %v", deleted, err)
	}
	if member, err = e.Users.Fetch(guild, "m2"); err != nil || member != nil {
		t.Errorf("Fetch after Delete = %+v, %v; want nil", member, err)
	}
	if deleted, err := e.Users.DeleteGuild(guild); err != nil || !deleted {
		t.Errorf("DeleteGuild = %v, %v", deleted, err)
	}
	if guilds, _ = e.Users.Guilds(); len(guilds) != 0 {
		t.Errorf("guilds after DeleteGuild: %v", guilds)
	}
}
