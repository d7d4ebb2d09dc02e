package handlers

import (
	"fmt"
	"strings"

	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/jokes"
)

const previewLen = 50

var medals = []string{"🥇", "🥈", "🥉"}

func formatUserStats(name string, stats *database.UserChatStats, next *database.Rank) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n", name)
	fmt.Fprintf(&b, "Messages: %d\n", stats.MessageCount)
	if stats.RankName != "" {
		fmt.Fprintf(&b, "Rank: %s %s", stats.RankEmoji, stats.RankName)
	} else {
		b.WriteString("Rank: none")
	}
	if next != nil {
		fmt.Fprintf(&b, "\nNext rank: %s %s in %d message(s)", next.Emoji, next.Name, next.MinMessages-stats.MessageCount)
	}
	return b.String()
}

func formatTop(top []database.UserChatStats) string {
	var b strings.Builder
	b.WriteString("🏆 Most active members:\n")
	for i, u := range top {
		place := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			place = medals[i]
		}
		fmt.Fprintf(&b, "\n%s %s", place, u.DisplayName())
		if u.RankName != "" {
			fmt.Fprintf(&b, " [%s]", u.RankName)
		}
		fmt.Fprintf(&b, " - %d", u.MessageCount)
	}
	return b.String()
}

func formatSummary(summary *database.ChatSummary, leader *database.UserChatStats) string {
	var b strings.Builder
	b.WriteString("📊 Chat summary\n")
	fmt.Fprintf(&b, "Members: %d\n", summary.TotalUsers)
	fmt.Fprintf(&b, "Messages: %d", summary.TotalMessages)
	if leader != nil {
		fmt.Fprintf(&b, "\nMost active: %s (%d)", leader.DisplayName(), leader.MessageCount)
	}
	return b.String()
}

func formatAllStats(all []database.UserChatStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Chat statistics (%d members):\n", len(all))
	for i, u := range all {
		rankName := u.RankName
		if rankName == "" {
			rankName = "no rank"
		}
		fmt.Fprintf(&b, "\n%d. %s [%s] - %d (last %s)", i+1, u.DisplayName(), rankName, u.MessageCount,
			u.LastMessageAt.UTC().Format("2006-01-02 15:04"))
	}
	return b.String()
}

// splitMessage cuts text at line breaks into parts of at most limit bytes.
// A single longer line becomes its own part.
func splitMessage(text string, limit int) []string {
	var parts []string
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if b.Len() > 0 && b.Len()+len(line) > limit {
			parts = append(parts, strings.TrimRight(b.String(), "\n"))
			b.Reset()
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		parts = append(parts, strings.TrimRight(b.String(), "\n"))
	}
	return parts
}

func formatRanks(tiers []database.Rank) string {
	var b strings.Builder
	b.WriteString("🎖 Ranks:\n")
	for _, r := range tiers {
		fmt.Fprintf(&b, "\n%s %s (%s) from %d message(s)", r.Emoji, r.Name, r.Category, r.MinMessages)
	}
	return b.String()
}

func formatJokes(list []database.Joke) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📖 Jokes (%d):\n", len(list))
	for i, j := range list {
		fmt.Fprintf(&b, "\n%d. [%s] %s (sent %d)", i+1, j.Category, preview(j.Content), j.UsedCount)
	}
	return b.String()
}

func formatJokeStats(stats jokes.Stats) string {
	var b strings.Builder
	b.WriteString("📊 Joke statistics\n")
	fmt.Fprintf(&b, "Total: %d\n", stats.TotalJokes)
	fmt.Fprintf(&b, "Sent: %d", stats.TotalUsage)
	for _, c := range stats.Categories {
		fmt.Fprintf(&b, "\n- %s: %d joke(s), sent %d", c.Category, c.Count, c.Usage)
	}
	return b.String()
}

func formatAdmins(configured int64, admins []database.Admin) string {
	var b strings.Builder
	b.WriteString("👥 Admins:\n")
	fmt.Fprintf(&b, "\n%d (owner)", configured)
	for _, a := range admins {
		if a.TelegramID == configured {
			continue
		}
		fmt.Fprintf(&b, "\n%d", a.TelegramID)
	}
	return b.String()
}

func formatNotifications(list []database.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 Recent announcements (%d):\n", len(list))
	for _, n := range list {
		fmt.Fprintf(&b, "\n%s - %s", n.SentAt.UTC().Format("2006-01-02 15:04"), preview(n.Message))
	}
	return b.String()
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
