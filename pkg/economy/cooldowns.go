package economy

import (
	"time"

	"github.com/rbrabson/economy/pkg/events"
	"github.com/rbrabson/economy/pkg/format"
)

// Reward is a kind of cooldown-gated reward.
type Reward string

const (
	RewardDaily  Reward = "daily"
	RewardWork   Reward = "work"
	RewardWeekly Reward = "weekly"
)

// AllRewards lists every reward kind.
var AllRewards = []Reward{RewardDaily, RewardWork, RewardWeekly}

// rewardKind ties a reward to the member field holding its last claim, and to its settings
// and event.
type rewardKind struct {
	field    string
	cooldown Setting
	amount   Setting
	event    string
}

var rewardKinds = map[Reward]rewardKind{
	RewardDaily:  {field: fieldDailyCooldown, cooldown: SettingDailyCooldown, amount: SettingDailyAmount, event: events.DailyClaimed},
	RewardWork:   {field: fieldWorkCooldown, cooldown: SettingWorkCooldown, amount: SettingWorkAmount, event: events.WorkClaimed},
	RewardWeekly: {field: fieldWeeklyCooldown, cooldown: SettingWeeklyCooldown, amount: SettingWeeklyAmount, event: events.WeeklyClaimed},
}

// Cooldown is the time remaining before a reward can be claimed again.
type Cooldown struct {
	Reward    Reward        `json:"reward"`
	Remaining time.Duration `json:"remaining"`
	ReadyAt   time.Time     `json:"readyAt"`
	Pretty    string        `json:"pretty"`
}

// Ready reports whether the reward can be claimed.
func (c Cooldown) Ready() bool {
	return c.Remaining <= 0
}

// CooldownManager tracks when members last claimed their rewards.
type CooldownManager struct {
	e *Economy
}

// Get returns the member's cooldown for the reward. A reward never claimed is ready.
func (m *CooldownManager) Get(guildID string, memberID string, reward Reward) (*Cooldown, error) {
	kind, ok := rewardKinds[reward]
	if !ok {
		return nil, ErrInvalidField
	}
	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	last, err := m.e.fetchNumber(memberPath(guildID, memberID, kind.field))
	if err != nil {
		return nil, err
	}
	length, err := m.e.Settings.duration(guildID, kind.cooldown)
	if err != nil {
		return nil, err
	}

	now := m.e.now()
	cooldown := &Cooldown{Reward: reward, ReadyAt: now}
	if last > 0 {
		cooldown.ReadyAt = fromMillis(int64(last)).Add(length)
	}
	cooldown.Remaining = cooldown.ReadyAt.Sub(now)
	if cooldown.Remaining <= 0 {
		cooldown.Remaining = 0
		cooldown.ReadyAt = now
		cooldown.Pretty = "now"
	} else {
		cooldown.Pretty = format.Duration(cooldown.Remaining)
	}
	return cooldown, nil
}

// Daily returns the member's daily reward cooldown.
func (m *CooldownManager) Daily(guildID string, memberID string) (*Cooldown, error) {
	return m.Get(guildID, memberID, RewardDaily)
}

// Work returns the member's work reward cooldown.
func (m *CooldownManager) Work(guildID string, memberID string) (*Cooldown, error) {
	return m.Get(guildID, memberID, RewardWork)
}

// Weekly returns the member's weekly reward cooldown.
func (m *CooldownManager) Weekly(guildID string, memberID string) (*Cooldown, error) {
	return m.Get(guildID, memberID, RewardWeekly)
}

// All returns the member's cooldown for every reward.
func (m *CooldownManager) All(guildID string, memberID string) (map[Reward]*Cooldown, error) {
	all := make(map[Reward]*Cooldown, len(AllRewards))
	for _, reward := range AllRewards {
		cooldown, err := m.Get(guildID, memberID, reward)
		if err != nil {
			return nil, err
		}
		all[reward] = cooldown
	}
	return all, nil
}

// Clear makes the reward claimable now. It returns false if the member had no cooldown
// recorded for it.
func (m *CooldownManager) Clear(guildID string, memberID string, reward Reward) (bool, error) {
	kind, ok := rewardKinds[reward]
	if !ok {
		return false, ErrInvalidField
	}
	if err := checkMember(guildID, memberID); err != nil {
		return false, err
	}
	return m.e.db.Remove(memberPath(guildID, memberID, kind.field))
}

// stamp records that the reward was claimed now.
func (m *CooldownManager) stamp(guildID string, memberID string, reward Reward) error {
	kind := rewardKinds[reward]
	_, err := m.e.db.Set(memberPath(guildID, memberID, kind.field), millis(m.e.now()))
	return err
}
