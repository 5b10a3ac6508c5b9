package economy

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rbrabson/economy/pkg/math"
	log "github.com/sirupsen/logrus"
)

// LeaderboardEntry is a member's position on a balance or bank leaderboard.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	MemberID string  `json:"memberID"`
	Amount   float64 `json:"amount"`
}

// GetRanking returns the rank of the member on the leaderboard, or 0 if the member is not on it.
func GetRanking(entries []LeaderboardEntry, memberID string) int {
	for _, entry := range entries {
		if entry.MemberID == memberID {
			return entry.Rank
		}
	}
	return 0
}

// Top returns the first `limit` entries of the leaderboard.
func Top(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	num := math.Min(math.Max(limit, 0), len(entries))
	return entries[:num]
}

// RenderLeaderboard formats the entries as a text table, with amounts formatted for the
// guild's locale and currency.
func (e *Economy) RenderLeaderboard(guildID string, entries []LeaderboardEntry) (string, error) {
	log.Trace("--> economy.RenderLeaderboard")
	defer log.Trace("<-- economy.RenderLeaderboard")

	var tableBuffer strings.Builder
	table := tablewriter.NewWriter(&tableBuffer)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.SetHeader([]string{"#", "Member", "Amount"})
	for _, entry := range entries {
		amount, err := e.Currencies.FormatDefault(guildID, entry.Amount)
		if err != nil {
			return "", err
		}
		table.Append([]string{strconv.Itoa(entry.Rank), entry.MemberID, amount})
	}
	table.Render()
	return tableBuffer.String(), nil
}
