package economy

import (
	log "github.com/sirupsen/logrus"
)

// BankManager manages the money members keep in the bank.
type BankManager struct {
	account
}

// Deposit moves the amount from the member's balance into the bank. The deposit is refused
// if the member cannot cover it or it would exceed the guild's maximum bank amount.
func (m *BankManager) Deposit(guildID string, memberID string, amount float64, reason string) (*TransferResult, error) {
	log.Trace("--> BankManager.Deposit")
	defer log.Trace("<-- BankManager.Deposit")

	if err := checkAmount(guildID, memberID, amount); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return &TransferResult{Status: StatusInvalidAmount}, nil
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	money, err := m.e.Balance.Fetch(guildID, memberID)
	if err != nil {
		return nil, err
	}
	bank, err := m.Fetch(guildID, memberID)
	if err != nil {
		return nil, err
	}
	if money < amount {
		return &TransferResult{Status: StatusInsufficientFunds, SenderBalance: money, ReceiverBalance: bank}, nil
	}
	max, err := m.e.Settings.number(guildID, SettingMaxBankAmount)
	if err != nil {
		return nil, err
	}
	if max > 0 && bank+amount > max {
		return &TransferResult{Status: StatusBankLimit, SenderBalance: money, ReceiverBalance: bank}, nil
	}

	money, err = m.e.Balance.Subtract(guildID, memberID, amount, reason)
	if err != nil {
		return nil, err
	}
	bank, err = m.Add(guildID, memberID, amount, reason)
	if err != nil {
		return nil, err
	}
	return &TransferResult{Status: StatusOK, Amount: amount, SenderBalance: money, ReceiverBalance: bank}, nil
}

// Withdraw moves the amount from the bank to the member's balance. The withdrawal is refused
// if the bank cannot cover it or it would leave less than the guild's minimum bank amount.
func (m *BankManager) Withdraw(guildID string, memberID string, amount float64, reason string) (*TransferResult, error) {
	log.Trace("--> BankManager.Withdraw")
	defer log.Trace("<-- BankManager.Withdraw")

	if err := checkAmount(guildID, memberID, amount); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return &TransferResult{Status: StatusInvalidAmount}, nil
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	bank, err := m.Fetch(guildID, memberID)
	if err != nil {
		return nil, err
	}
	money, err := m.e.Balance.Fetch(guildID, memberID)
	if err != nil {
		return nil, err
	}
	if bank < amount {
		return &TransferResult{Status: StatusInsufficientFunds, SenderBalance: bank, ReceiverBalance: money}, nil
	}
	min, err := m.e.Settings.number(guildID, SettingMinBankAmount)
	if err != nil {
		return nil, err
	}
	if bank-amount < min {
		return &TransferResult{Status: StatusBankLimit, SenderBalance: bank, ReceiverBalance: money}, nil
	}

	bank, err = m.Subtract(guildID, memberID, amount, reason)
	if err != nil {
		return nil, err
	}
	money, err = m.e.Balance.Add(guildID, memberID, amount, reason)
	if err != nil {
		return nil, err
	}
	return &TransferResult{Status: StatusOK, Amount: amount, SenderBalance: bank, ReceiverBalance: money}, nil
}
