package economy

import (
	stdmath "math"
	"strconv"
	"strings"

	"github.com/rbrabson/economy/pkg/events"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyManager manages the custom currencies of a guild and the members' balances in them.
type CurrencyManager struct {
	e *Economy
}

func currenciesPath(guildID string) string {
	return guildPath(guildID, keyCurrencies)
}

func currencyBalancePath(guildID string, memberID string, id int) string {
	return memberPath(guildID, memberID, fieldCurrencies, strconv.Itoa(id))
}

// Create adds a currency to the guild. Currency names are unique within a guild.
func (m *CurrencyManager) Create(guildID string, name string, symbol string, custom map[string]interface{}) (*Currency, error) {
	log.Trace("--> CurrencyManager.Create")
	defer log.Trace("<-- CurrencyManager.Create")

	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidCurrency
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	existing, err := m.Find(guildID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInvalidCurrency
	}
	if custom == nil {
		custom = map[string]interface{}{}
	}
	currency := &Currency{Name: name, Symbol: symbol, Custom: custom}
	id, err := m.e.appendRecord(currenciesPath(guildID), func(id int) interface{} {
		currency.ID = id
		return currency
	})
	if err != nil {
		return nil, err
	}
	currency.ID = id
	m.e.emit(events.CurrencyCreate, events.ItemChange{Type: "create", GuildID: guildID, Item: *currency})
	return currency, nil
}

// List returns the guild's currencies.
func (m *CurrencyManager) List(guildID string) ([]Currency, error) {
	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	var currencies []Currency
	if err := m.e.fetchRecords(currenciesPath(guildID), &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

// Find returns the currency whose ID or name is ref, or nil if there is none.
func (m *CurrencyManager) Find(guildID string, ref string) (*Currency, error) {
	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	var currency Currency
	found, err := m.e.findInList(currenciesPath(guildID), ref, &currency)
	if err != nil || !found {
		return nil, err
	}
	return &currency, nil
}

// Delete removes the currency whose ID or name is ref, along with every member's balance
// in it. It returns false if there is no such currency.
func (m *CurrencyManager) Delete(guildID string, ref string) (bool, error) {
	log.Trace("--> CurrencyManager.Delete")
	defer log.Trace("<-- CurrencyManager.Delete")

	if err := checkIDs(guildID); err != nil {
		return false, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	var currency Currency
	deleted, err := m.e.removeRecord(currenciesPath(guildID), ref, &currency)
	if err != nil || !deleted {
		return false, err
	}
	members, err := m.e.Users.Members(guildID)
	if err != nil {
		return true, err
	}
	for _, memberID := range members {
		if _, err := m.e.db.Remove(currencyBalancePath(guildID, memberID, currency.ID)); err != nil {
			log.Warningf("Unable to remove currency %s from member %s, error=%s", currency.Name, memberID, err.Error())
		}
	}
	m.e.emit(events.CurrencyDelete, events.ItemChange{Type: "delete", GuildID: guildID, Item: currency})
	return true, nil
}

// Edit changes the name, symbol or custom field of the currency whose ID or name is ref.
// It returns nil if there is no such currency.
func (m *CurrencyManager) Edit(guildID string, ref string, field string, value interface{}) (*Currency, error) {
	log.Trace("--> CurrencyManager.Edit")
	defer log.Trace("<-- CurrencyManager.Edit")

	if err := checkIDs(guildID); err != nil {
		return nil, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	key := currenciesPath(guildID)
	list, err := m.e.fetchList(key)
	if err != nil {
		return nil, err
	}
	i := findRecord(list, ref)
	if i < 0 {
		return nil, nil
	}
	var currency Currency
	if err := decode(list[i], &currency); err != nil {
		return nil, err
	}
	switch field {
	case "name":
		name, ok := value.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, ErrInvalidField
		}
		for j, other := range list {
			record, ok := other.(map[string]interface{})
			if ok && j != i && record["name"] == name {
				return nil, ErrInvalidCurrency
			}
		}
		currency.Name = name
	case "symbol":
		symbol, ok := value.(string)
		if !ok {
			return nil, ErrInvalidField
		}
		currency.Symbol = symbol
	case "custom":
		custom, ok := value.(map[string]interface{})
		if !ok {
			return nil, ErrInvalidField
		}
		currency.Custom = custom
	default:
		return nil, ErrInvalidField
	}

	var record interface{}
	if err := decode(currency, &record); err != nil {
		return nil, err
	}
	if _, err := m.e.db.ChangeElement(key, i, record); err != nil {
		return nil, err
	}
	m.e.emit(events.CurrencyEdit, events.ItemChange{Type: field, GuildID: guildID, Item: currency})
	return &currency, nil
}

// Balance returns the member's balance in the currency whose ID or name is ref.
func (m *CurrencyManager) Balance(guildID string, memberID string, ref string) (float64, error) {
	currency, err := m.lookup(guildID, memberID, ref)
	if err != nil {
		return 0, err
	}
	return m.e.fetchNumber(currencyBalancePath(guildID, memberID, currency.ID))
}

// SetBalance replaces the member's balance in the currency and returns it.
func (m *CurrencyManager) SetBalance(guildID string, memberID string, ref string, amount float64) (float64, error) {
	currency, err := m.lookup(guildID, memberID, ref)
	if err != nil {
		return 0, err
	}
	if stdmath.IsNaN(amount) || stdmath.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if _, err := m.e.db.Set(currencyBalancePath(guildID, memberID, currency.ID), amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// AddBalance adds the amount to the member's balance in the currency and returns the result.
func (m *CurrencyManager) AddBalance(guildID string, memberID string, ref string, amount float64) (float64, error) {
	currency, err := m.lookup(guildID, memberID, ref)
	if err != nil {
		return 0, err
	}
	return m.e.db.Add(currencyBalancePath(guildID, memberID, currency.ID), amount)
}

// SubtractBalance subtracts the amount from the member's balance in the currency and
// returns the result.
func (m *CurrencyManager) SubtractBalance(guildID string, memberID string, ref string, amount float64) (float64, error) {
	currency, err := m.lookup(guildID, memberID, ref)
	if err != nil {
		return 0, err
	}
	return m.e.db.Subtract(currencyBalancePath(guildID, memberID, currency.ID), amount)
}

// lookup returns the currency for a member balance operation.
func (m *CurrencyManager) lookup(guildID string, memberID string, ref string) (*Currency, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	currency, err := m.Find(guildID, ref)
	if err != nil {
		return nil, err
	}
	if currency == nil {
		return nil, ErrInvalidCurrency
	}
	return currency, nil
}

// Format formats the amount in the currency using the guild's locale, such as "$1,234.5"
// or "1,234 gems".
func (m *CurrencyManager) Format(guildID string, amount float64, currency *Currency) (string, error) {
	locale, err := m.e.Settings.str(guildID, SettingDateLocale)
	if err != nil {
		return "", err
	}
	return formatAmount(locale, amount, currency.Name, currency.Symbol), nil
}

// FormatDefault formats the amount in the guild's default currency.
func (m *CurrencyManager) FormatDefault(guildID string, amount float64) (string, error) {
	locale, err := m.e.Settings.str(guildID, SettingDateLocale)
	if err != nil {
		return "", err
	}
	name, err := m.e.Settings.str(guildID, SettingCurrencyName)
	if err != nil {
		return "", err
	}
	symbol, err := m.e.Settings.str(guildID, SettingCurrencySymbol)
	if err != nil {
		return "", err
	}
	return formatAmount(locale, amount, name, symbol), nil
}

// formatAmount groups the digits of the amount for the locale, and adds the symbol as a
// prefix or else the name as a suffix.
func formatAmount(locale string, amount float64, name string, symbol string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	s := p.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
	switch {
	case symbol != "":
		return symbol + s
	case name != "":
		return s + " " + name
	default:
		return s
	}
}
