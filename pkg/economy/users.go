package economy

import (
	log "github.com/sirupsen/logrus"
)

// UserManager manages whole member and guild records.
type UserManager struct {
	e *Economy
}

// defaultMember is the record of a member who has not done anything yet.
func defaultMember() map[string]interface{} {
	return map[string]interface{}{
		fieldMoney:     float64(0),
		fieldBank:      float64(0),
		fieldInventory: []interface{}{},
		fieldHistory:   []interface{}{},
	}
}

// Guilds returns the IDs of the guilds with data in the document.
func (m *UserManager) Guilds() ([]string, error) {
	return m.e.db.KeyList("")
}

// Members returns the IDs of the guild's members with a record.
func (m *UserManager) Members(guildID string) ([]string, error) {
	if err := checkIDs(guildID); err != nil {
		return nil, err
	}
	keys, err := m.e.db.KeyList(guildID)
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(keys))
	for _, key := range keys {
		if !reservedGuildKeys[key] {
			members = append(members, key)
		}
	}
	return members, nil
}

// Fetch returns a snapshot of the member's record, or nil if the member has none.
func (m *UserManager) Fetch(guildID string, memberID string) (*Member, error) {
	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	value, err := m.e.db.Fetch(memberPath(guildID, memberID))
	if err != nil {
		return nil, err
	}
	record, ok := value.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	member := &Member{}
	if err := decode(record, member); err != nil {
		return nil, err
	}
	member.ID = memberID
	member.GuildID = guildID
	return member, nil
}

// Ensure returns the member's record, creating a default one if the member has none.
func (m *UserManager) Ensure(guildID string, memberID string) (*Member, error) {
	member, err := m.Fetch(guildID, memberID)
	if err != nil || member != nil {
		return member, err
	}
	return m.Reset(guildID, memberID)
}

// Reset replaces the member's record with a default one and returns it.
func (m *UserManager) Reset(guildID string, memberID string) (*Member, error) {
	log.Trace("--> UserManager.Reset")
	defer log.Trace("<-- UserManager.Reset")

	if err := checkMember(guildID, memberID); err != nil {
		return nil, err
	}
	if _, err := m.e.db.Set(memberPath(guildID, memberID), defaultMember()); err != nil {
		log.Errorf("Unable to reset member %s of guild %s, error=%s", memberID, guildID, err.Error())
		return nil, err
	}
	return m.Fetch(guildID, memberID)
}

// Delete removes the member's record. It returns false if the member had none.
func (m *UserManager) Delete(guildID string, memberID string) (bool, error) {
	log.Trace("--> UserManager.Delete")
	defer log.Trace("<-- UserManager.Delete")

	if err := checkMember(guildID, memberID); err != nil {
		return false, err
	}
	return m.e.db.Remove(memberPath(guildID, memberID))
}

// DeleteGuild removes every record of the guild, including its shop and settings. It
// returns false if the guild had none.
func (m *UserManager) DeleteGuild(guildID string) (bool, error) {
	log.Trace("--> UserManager.DeleteGuild")
	defer log.Trace("<-- UserManager.DeleteGuild")

	if err := checkIDs(guildID); err != nil {
		return false, err
	}
	return m.e.db.Remove(guildID)
}
