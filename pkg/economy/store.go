package economy

import (
	"strconv"
	"time"

	goccy "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rbrabson/economy/pkg/dotpath"
	"github.com/rbrabson/economy/pkg/math"
)

// Keys within a guild and member record.
const (
	keyShop       = "shop"
	keySettings   = "settings"
	keyCurrencies = "currencies"

	fieldMoney          = "money"
	fieldBank           = "bank"
	fieldInventory      = "inventory"
	fieldHistory        = "history"
	fieldCurrencies     = "currencies"
	fieldDailyCooldown  = "dailyCooldown"
	fieldWorkCooldown   = "workCooldown"
	fieldWeeklyCooldown = "weeklyCooldown"
)

// reservedGuildKeys are keys of a guild that hold guild data rather than a member.
var reservedGuildKeys = map[string]bool{
	keyShop:       true,
	keySettings:   true,
	keyCurrencies: true,
}

func guildPath(guildID string, keys ...string) string {
	return dotpath.Join(append([]string{guildID}, keys...)...)
}

func memberPath(guildID string, memberID string, keys ...string) string {
	return dotpath.Join(append([]string{guildID, memberID}, keys...)...)
}

// decode converts a value read from the document into out.
func decode(value interface{}, out interface{}) error {
	data, err := goccy.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "unable to encode record")
	}
	if err := goccy.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "unable to decode record")
	}
	return nil
}

// fetchNumber returns the number at the key, or 0 if it is not set.
func (e *Economy) fetchNumber(key string) (float64, error) {
	value, err := e.db.Fetch(key)
	if err != nil {
		return 0, err
	}
	n, ok := math.ToNumber(value)
	if value == nil || !ok {
		return 0, nil
	}
	return n, nil
}

// fetchList returns the list at the key. A missing or non-list value is an empty list.
func (e *Economy) fetchList(key string) ([]interface{}, error) {
	value, err := e.db.Fetch(key)
	if err != nil {
		return nil, err
	}
	list, _ := value.([]interface{})
	return list, nil
}

// fetchRecords decodes the list at the key into out, which must point to a slice.
func (e *Economy) fetchRecords(key string, out interface{}) error {
	list, err := e.fetchList(key)
	if err != nil {
		return err
	}
	if list == nil {
		list = []interface{}{}
	}
	return decode(list, out)
}

// appendRecord appends the record built for the next ID of the list at the key, and
// returns the ID.
func (e *Economy) appendRecord(key string, build func(id int) interface{}) (int, error) {
	list, err := e.fetchList(key)
	if err != nil {
		return 0, err
	}
	id := nextID(list)
	var value interface{}
	if err := decode(build(id), &value); err != nil {
		return 0, err
	}
	if _, err := e.db.Push(key, value); err != nil {
		return 0, err
	}
	return id, nil
}

// removeRecord removes the first record of the list at the key matching ref, decoding it
// into out when out is not nil. It returns false if there is no such record.
func (e *Economy) removeRecord(key string, ref string, out interface{}) (bool, error) {
	list, err := e.fetchList(key)
	if err != nil {
		return false, err
	}
	i := findRecord(list, ref)
	if i < 0 {
		return false, nil
	}
	if out != nil {
		if err := decode(list[i], out); err != nil {
			return false, err
		}
	}
	return e.db.RemoveElement(key, i)
}

// findInList decodes the first record of the list at the key matching ref into out. It
// returns false if there is no such record.
func (e *Economy) findInList(key string, ref string, out interface{}) (bool, error) {
	list, err := e.fetchList(key)
	if err != nil {
		return false, err
	}
	i := findRecord(list, ref)
	if i < 0 {
		return false, nil
	}
	if err := decode(list[i], out); err != nil {
		return false, err
	}
	return true, nil
}

// nextID returns the ID for a record appended to the list: one more than the ID of the
// last record, or 1 for an empty list. IDs are never reused.
func nextID(list []interface{}) int {
	if len(list) == 0 {
		return 1
	}
	last, ok := list[len(list)-1].(map[string]interface{})
	if !ok {
		return len(list) + 1
	}
	id, ok := math.ToNumber(last["id"])
	if !ok {
		return len(list) + 1
	}
	return int(id) + 1
}

// findRecord returns the index of the first record whose ID or one of the name fields
// matches ref, or -1 if there is none.
func findRecord(list []interface{}, ref string) int {
	id, idErr := strconv.Atoi(ref)
	for i, element := range list {
		record, ok := element.(map[string]interface{})
		if !ok {
			continue
		}
		if idErr == nil {
			if n, ok := math.ToNumber(record["id"]); ok && int(n) == id {
				return i
			}
		}
		for _, field := range []string{"name", "itemName"} {
			if name, ok := record[field].(string); ok && name == ref {
				return i
			}
		}
	}
	return -1
}

// date returns the timestamp stored on new records.
func (e *Economy) date() string {
	return e.now().UTC().Format(time.RFC3339)
}

// millis converts a time to epoch milliseconds.
func millis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

// fromMillis converts epoch milliseconds to a time.
func fromMillis(ms int64) time.Time {
	return time.Unix(0, ms*int64(time.Millisecond))
}
