package economy

import (
	"github.com/rbrabson/economy/pkg/events"
	log "github.com/sirupsen/logrus"
)

// ClaimResult is the outcome of claiming a reward. When the reward is on cooldown nothing
// is paid and Cooldown holds the time remaining.
type ClaimResult struct {
	Status   Status    `json:"status"`
	Reward   Reward    `json:"reward"`
	Claimed  bool      `json:"claimed"`
	Amount   float64   `json:"amount"`
	Balance  float64   `json:"balance"`
	Cooldown *Cooldown `json:"cooldown"`
}

// RewardManager pays the cooldown-gated rewards.
type RewardManager struct {
	e *Economy
}

// Claim pays the reward to the member's balance and starts its cooldown, unless the member
// claimed it too recently. A reward configured as a [min, max] range pays a random whole
// amount within it.
func (m *RewardManager) Claim(guildID string, memberID string, reward Reward, reason string) (*ClaimResult, error) {
	log.Trace("--> RewardManager.Claim")
	defer log.Trace("<-- RewardManager.Claim")

	kind, ok := rewardKinds[reward]
	if !ok {
		return nil, ErrInvalidField
	}
	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}

	m.e.mutex.Lock()
	defer m.e.mutex.Unlock()

	cooldown, err := m.e.Cooldowns.Get(guildID, memberID, reward)
	if err != nil {
		return nil, err
	}
	result := &ClaimResult{Reward: reward, Cooldown: cooldown}
	if !cooldown.Ready() {
		result.Status = StatusOnCooldown
		result.Balance, err = m.e.Balance.Fetch(guildID, memberID)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	lo, hi, err := m.e.Settings.rewardRange(guildID, kind.amount)
	if err != nil {
		return nil, err
	}
	result.Amount = lo
	if hi > lo {
		result.Amount = lo + float64(m.e.random(int(hi-lo)+1))
	}
	if reason == "" {
		reason = string(reward) + " reward"
	}
	result.Balance, err = m.e.Balance.Add(guildID, memberID, result.Amount, reason)
	if err != nil {
		return nil, err
	}
	if err := m.e.Cooldowns.stamp(guildID, memberID, reward); err != nil {
		return nil, err
	}
	result.Cooldown, err = m.e.Cooldowns.Get(guildID, memberID, reward)
	if err != nil {
		return nil, err
	}
	result.Claimed = true
	result.Status = StatusOK

	log.WithFields(log.Fields{"guild": guildID, "member": memberID, "reward": reward, "amount": result.Amount}).Debug("reward claimed")
	m.e.emit(kind.event, events.BalanceChange{
		Type:     string(reward),
		GuildID:  guildID,
		MemberID: memberID,
		Amount:   result.Amount,
		Balance:  result.Balance,
		Reason:   reason,
	})
	return result, nil
}

// Daily claims the daily reward.
func (m *RewardManager) Daily(guildID string, memberID string, reason string) (*ClaimResult, error) {
	return m.Claim(guildID, memberID, RewardDaily, reason)
}

// Work claims the work reward.
func (m *RewardManager) Work(guildID string, memberID string, reason string) (*ClaimResult, error) {
	return m.Claim(guildID, memberID, RewardWork, reason)
}

// Weekly claims the weekly reward.
func (m *RewardManager) Weekly(guildID string, memberID string, reason string) (*ClaimResult, error) {
	return m.Claim(guildID, memberID, RewardWeekly, reason)
}
