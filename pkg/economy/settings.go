package economy

import (
	stdmath "math"
	"time"

	"github.com/rbrabson/economy/pkg/config"
	"github.com/rbrabson/economy/pkg/events"
	"github.com/rbrabson/economy/pkg/math"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Setting is the name of a per-guild setting.
type Setting string

const (
	SettingDailyAmount          Setting = "dailyAmount"
	SettingWorkAmount           Setting = "workAmount"
	SettingWeeklyAmount         Setting = "weeklyAmount"
	SettingDailyCooldown        Setting = "dailyCooldown"
	SettingWorkCooldown         Setting = "workCooldown"
	SettingWeeklyCooldown       Setting = "weeklyCooldown"
	SettingSellingItemPercent   Setting = "sellingItemPercent"
	SettingDateLocale           Setting = "dateLocale"
	SettingCurrencyName         Setting = "currencyName"
	SettingCurrencySymbol       Setting = "currencySymbol"
	SettingMinBankAmount        Setting = "minBankAmount"
	SettingMaxBankAmount        Setting = "maxBankAmount"
	SettingSavePurchasesHistory Setting = "savePurchasesHistory"
)

// SettingChange is the payload of a settingsChange event.
type SettingChange struct {
	GuildID string      `json:"guildID"`
	Key     Setting     `json:"key"`
	Value   interface{} `json:"value"`
}

// settingValidators normalize a value for a setting, reporting false if it is not valid.
var settingValidators = map[Setting]func(interface{}) (interface{}, bool){
	SettingDailyAmount:          validateReward,
	SettingWorkAmount:           validateReward,
	SettingWeeklyAmount:         validateReward,
	SettingDailyCooldown:        validateCooldown,
	SettingWorkCooldown:         validateCooldown,
	SettingWeeklyCooldown:       validateCooldown,
	SettingSellingItemPercent:   validatePercent,
	SettingDateLocale:           validateLocale,
	SettingCurrencyName:         validateString,
	SettingCurrencySymbol:       validateString,
	SettingMinBankAmount:        validateNonNegative,
	SettingMaxBankAmount:        validateNonNegative,
	SettingSavePurchasesHistory: validateBool,
}

// SettingsManager manages the per-guild settings, which fall back to the global defaults.
type SettingsManager struct {
	e        *Economy
	defaults map[Setting]interface{}
}

// defaultSettings converts the configured defaults into setting values.
func defaultSettings(d config.Defaults) map[Setting]interface{} {
	return map[Setting]interface{}{
		SettingDailyAmount:          d.DailyAmount,
		SettingWorkAmount:           d.WorkAmount,
		SettingWeeklyAmount:         d.WeeklyAmount,
		SettingDailyCooldown:        float64(d.DailyCooldown / time.Millisecond),
		SettingWorkCooldown:         float64(d.WorkCooldown / time.Millisecond),
		SettingWeeklyCooldown:       float64(d.WeeklyCooldown / time.Millisecond),
		SettingSellingItemPercent:   d.SellingItemPercent,
		SettingDateLocale:           d.DateLocale,
		SettingCurrencyName:         d.CurrencyName,
		SettingCurrencySymbol:       d.CurrencySymbol,
		SettingMinBankAmount:        d.MinBankAmount,
		SettingMaxBankAmount:        d.MaxBankAmount,
		SettingSavePurchasesHistory: d.SavePurchasesHistory,
	}
}

// Get returns the value of the setting for the guild, or the default if the guild has not
// overridden it.
func (m *SettingsManager) Get(guildID string, key Setting) (interface{}, error) {
	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	def, ok := m.defaults[key]
	if !ok {
		return nil, ErrInvalidSetting
	}
	value, err := m.e.db.Fetch(guildPath(guildID, keySettings, string(key)))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return def, nil
	}
	return value, nil
}

// Set overrides the setting for the guild.
func (m *SettingsManager) Set(guildID string, key Setting, value interface{}) (bool, error) {
	log.Trace("--> SettingsManager.Set")
	defer log.Trace("<-- SettingsManager.Set")

	if err := checkIDs(guildID); err != nil {
		return false, err
	}
	validate, ok := settingValidators[key]
	if !ok {
		return false, ErrInvalidSetting
	}
	normalized, ok := validate(value)
	if !ok {
		return false, ErrInvalidSetting
	}
	if _, err := m.e.db.Set(guildPath(guildID, keySettings, string(key)), normalized); err != nil {
		return false, err
	}
	m.e.emit(events.SettingsChange, SettingChange{GuildID: guildID, Key: key, Value: normalized})
	return true, nil
}

// Remove restores the default for the setting. It returns false if the guild had not
// overridden it.
func (m *SettingsManager) Remove(guildID string, key Setting) (bool, error) {
	if err := checkIDs(guildID); err != nil {
		return false, err
	}
	def, ok := m.defaults[key]
	if !ok {
		return false, ErrInvalidSetting
	}
	removed, err := m.e.db.Remove(guildPath(guildID, keySettings, string(key)))
	if err != nil || !removed {
		return false, err
	}
	m.e.emit(events.SettingsChange, SettingChange{GuildID: guildID, Key: key, Value: def})
	return true, nil
}

// All returns every setting for the guild, with overrides applied to the defaults.
func (m *SettingsManager) All(guildID string) (map[Setting]interface{}, error) {
	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	all := make(map[Setting]interface{}, len(m.defaults))
	for key, value := range m.defaults {
		all[key] = value
	}
	value, err := m.e.db.Fetch(guildPath(guildID, keySettings))
	if err != nil {
		return nil, err
	}
	if overrides, ok := value.(map[string]interface{}); ok {
		for key, value := range overrides {
			if _, ok := m.defaults[Setting(key)]; ok && value != nil {
				all[Setting(key)] = value
			}
		}
	}
	return all, nil
}

// Reset removes every override for the guild.
func (m *SettingsManager) Reset(guildID string) (bool, error) {
	if err := checkIDs(guildID); err != nil {
		return false, err
	}
	return m.e.db.Remove(guildPath(guildID, keySettings))
}

// number returns a numeric setting.
func (m *SettingsManager) number(guildID string, key Setting) (float64, error) {
	value, err := m.Get(guildID, key)
	if err != nil {
		return 0, err
	}
	n, ok := math.ToNumber(value)
	if !ok {
		n, _ = math.ToNumber(m.defaults[key])
	}
	return n, nil
}

// duration returns a cooldown setting, stored in milliseconds.
func (m *SettingsManager) duration(guildID string, key Setting) (time.Duration, error) {
	ms, err := m.number(guildID, key)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// boolean returns a boolean setting.
func (m *SettingsManager) boolean(guildID string, key Setting) (bool, error) {
	value, err := m.Get(guildID, key)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		b, _ = m.defaults[key].(bool)
	}
	return b, nil
}

// str returns a string setting.
func (m *SettingsManager) str(guildID string, key Setting) (string, error) {
	value, err := m.Get(guildID, key)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		s, _ = m.defaults[key].(string)
	}
	return s, nil
}

// rewardRange returns the bounds of a reward setting. A fixed reward has equal bounds.
func (m *SettingsManager) rewardRange(guildID string, key Setting) (float64, float64, error) {
	value, err := m.Get(guildID, key)
	if err != nil {
		return 0, 0, err
	}
	normalized, ok := validateReward(value)
	if !ok {
		normalized, _ = validateReward(m.defaults[key])
	}
	switch reward := normalized.(type) {
	case []interface{}:
		lo, _ := math.ToNumber(reward[0])
		hi, _ := math.ToNumber(reward[1])
		return lo, hi, nil
	default:
		n, _ := math.ToNumber(reward)
		return n, n, nil
	}
}

func validateNonNegative(v interface{}) (interface{}, bool) {
	if !math.IsNumeric(v) {
		return nil, false
	}
	n, ok := math.ToNumber(v)
	if !ok || n < 0 {
		return nil, false
	}
	return n, true
}

// maxRewardSpread is the widest [min, max] reward range, so the random pick fits an int on
// every platform.
const maxRewardSpread = stdmath.MaxInt32 - 1

// validateReward accepts a non-negative number or a [min, max] pair of them no more than
// maxRewardSpread apart.
func validateReward(v interface{}) (interface{}, bool) {
	var pair []interface{}
	switch value := v.(type) {
	case []interface{}:
		pair = value
	case []float64:
		for _, n := range value {
			pair = append(pair, n)
		}
	case []int:
		for _, n := range value {
			pair = append(pair, n)
		}
	default:
		return validateNonNegative(v)
	}
	if len(pair) != 2 {
		return nil, false
	}
	lo, ok := validateNonNegative(pair[0])
	if !ok {
		return nil, false
	}
	hi, ok := validateNonNegative(pair[1])
	if !ok || hi.(float64) < lo.(float64) || hi.(float64)-lo.(float64) > maxRewardSpread {
		return nil, false
	}
	return []interface{}{lo, hi}, true
}

// validateCooldown accepts milliseconds or a time.Duration.
func validateCooldown(v interface{}) (interface{}, bool) {
	if d, ok := v.(time.Duration); ok {
		if d < 0 {
			return nil, false
		}
		return float64(d / time.Millisecond), true
	}
	return validateNonNegative(v)
}

func validatePercent(v interface{}) (interface{}, bool) {
	n, ok := validateNonNegative(v)
	if !ok || n.(float64) > 100 {
		return nil, false
	}
	return n, true
}

func validateLocale(v interface{}) (interface{}, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	if _, err := language.Parse(s); err != nil {
		return nil, false
	}
	return s, true
}

func validateString(v interface{}) (interface{}, bool) {
	s, ok := v.(string)
	return s, ok
}

func validateBool(v interface{}) (interface{}, bool) {
	b, ok := v.(bool)
	return b, ok
}
