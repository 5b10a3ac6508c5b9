package economy

import (
	stdmath "math"
	"sort"

	"github.com/rbrabson/economy/pkg/events"
	"github.com/rbrabson/economy/pkg/math"
	log "github.com/sirupsen/logrus"
)

// account implements the operations shared by the wallet and the bank: a numeric field of
// the member record.
type account struct {
	e             *Economy
	field         string
	setEvent      string
	addEvent      string
	subtractEvent string
}

// Fetch returns the member's balance. A member without a balance has 0.
func (a *account) Fetch(guildID string, memberID string) (float64, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return 0, err
	}
	return a.e.fetchNumber(memberPath(guildID, memberID, a.field))
}

// Set replaces the member's balance and returns it.
func (a *account) Set(guildID string, memberID string, amount float64, reason string) (float64, error) {
	log.Trace("--> account.Set")
	defer log.Trace("<-- account.Set")

	if err := checkAmount(guildID, memberID, amount); err != nil {
		return 0, err
	}
	if _, err := a.e.db.Set(memberPath(guildID, memberID, a.field), amount); err != nil {
		return 0, err
	}
	a.emit(a.setEvent, "set", guildID, memberID, amount, amount, reason)
	return amount, nil
}

// Add adds the amount to the member's balance and returns the new balance.
func (a *account) Add(guildID string, memberID string, amount float64, reason string) (float64, error) {
	log.Trace("--> account.Add")
	defer log.Trace("<-- account.Add")

	if err := checkAmount(guildID, memberID, amount); err != nil {
		return 0, err
	}
	balance, err := a.e.db.Add(memberPath(guildID, memberID, a.field), amount)
	if err != nil {
		return 0, err
	}
	a.emit(a.addEvent, "add", guildID, memberID, amount, balance, reason)
	return balance, nil
}

// Subtract subtracts the amount from the member's balance and returns the new balance.
func (a *account) Subtract(guildID string, memberID string, amount float64, reason string) (float64, error) {
	log.Trace("--> account.Subtract")
	defer log.Trace("<-- account.Subtract")

	if err := checkAmount(guildID, memberID, amount); err != nil {
		return 0, err
	}
	balance, err := a.e.db.Subtract(memberPath(guildID, memberID, a.field), amount)
	if err != nil {
		return 0, err
	}
	a.emit(a.subtractEvent, "subtract", guildID, memberID, amount, balance, reason)
	return balance, nil
}

// Leaderboard returns every member of the guild ranked by balance, highest first.
func (a *account) Leaderboard(guildID string) ([]LeaderboardEntry, error) {
	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	doc, err := a.e.db.All()
	if err != nil {
		return nil, err
	}
	guild, _ := doc[guildID].(map[string]interface{})
	entries := make([]LeaderboardEntry, 0, len(guild))
	for memberID, value := range guild {
		record, ok := value.(map[string]interface{})
		if reservedGuildKeys[memberID] || !ok {
			continue
		}
		amount, _ := math.ToNumber(record[a.field])
		entries = append(entries, LeaderboardEntry{MemberID: memberID, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		return entries[i].MemberID < entries[j].MemberID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (a *account) emit(name string, kind string, guildID string, memberID string, amount float64, balance float64, reason string) {
	a.e.emit(name, events.BalanceChange{
		Type:     kind,
		GuildID:  guildID,
		MemberID: memberID,
		Amount:   amount,
		Balance:  balance,
		Reason:   reason,
	})
}

// checkAmount verifies the IDs and that the amount is a finite number.
func checkAmount(guildID string, memberID string, amount float64) error {
	if err := checkMember(guildID, memberID); err != nil {
		return err
	}
	if stdmath.IsNaN(amount) || stdmath.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

// BalanceManager manages the money members carry.
type BalanceManager struct {
	account
}

// TransferResult is the outcome of moving money between balances.
type TransferResult struct {
	Status          Status
	Amount          float64
	SenderBalance   float64
	ReceiverBalance float64
}

// Pay moves the amount from the sender's balance to the receiver's.
func (m *BalanceManager) Pay(guildID string, senderID string, receiverID string, amount float64, reason string) (*TransferResult, error) {
	log.Trace("--> BalanceManager.Pay")
	defer log.Trace("<-- BalanceManager.Pay")

	if err := checkAmount(guildID, senderID, amount); err != nil {
		return nil, err
	}
	if err := checkMember(guildID, receiverID); err != nil {
		return nil, err
	}
	if senderID == receiverID {
		return &TransferResult{Status: StatusSameMember}, nil
	}
	if amount <= 0 {
		return &TransferResult{Status: StatusInvalidAmount}, nil
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	balance, err := m.Fetch(guildID, senderID)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return &TransferResult{Status: StatusInsufficientFunds, SenderBalance: balance}, nil
	}

	senderBalance, err := m.Subtract(guildID, senderID, amount, reason)
	if err != nil {
		return nil, err
	}
	receiverBalance, err := m.Add(guildID, receiverID, amount, reason)
	if err != nil {
		return nil, err
	}
	return &TransferResult{
		Status:          StatusOK,
		Amount:          amount,
		SenderBalance:   senderBalance,
		ReceiverBalance: receiverBalance,
	}, nil
}
