package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultLogLevel         = "info"
	DefaultDBPath           = "data/bot.db"
	DefaultIntervalUnit     = time.Minute
	DefaultTickTimeout      = 30 * time.Second
	DefaultMaintenanceCron  = "0 0 4 * * *" // 04:00 daily, seconds field enabled
	DefaultMaintenanceTask  = "sql_maintenance"
	DefaultMetricsAddr      = ""
	DefaultRankCategory     = ""
	DefaultReportErrorsFlag = false
	DefaultSendRatePerSec   = 25
	DefaultReactionChance   = 0.1
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", true)

	v.SetDefault("telegram.report_errors_to_admin", DefaultReportErrorsFlag)
	v.SetDefault("telegram.send_rate_per_sec", DefaultSendRatePerSec)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("autopost.interval_unit", DefaultIntervalUnit)
	v.SetDefault("autopost.tick_timeout", DefaultTickTimeout)

	v.SetDefault("ranks.category", DefaultRankCategory)

	v.SetDefault("scheduler.tasks", map[string]any{
		DefaultMaintenanceTask: map[string]any{
			"enabled":  true,
			"schedule": DefaultMaintenanceCron,
		},
	})

	v.SetDefault("metrics.addr", DefaultMetricsAddr)

	v.SetDefault("reactions.enabled", true)
	v.SetDefault("reactions.random_chance", DefaultReactionChance)

	v.SetDefault("messages.welcome", "👋 Hi! I count messages, hand out ranks and tell jokes. Try /help.")
	v.SetDefault("messages.help", "Commands:\n"+
		"/joke [category] - tell a joke\n"+
		"/stats - your message count in this chat\n"+
		"/top [N] - most active members\n"+
		"/allstats - everyone's message count\n"+
		"/summary - chat totals\n"+
		"/rank - your current rank\n"+
		"/ranks - all ranks\n\n"+
		"Admin:\n"+
		"/jokeson, /jokesoff, /setinterval N\n"+
		"/addjoke text, /jokes, /jokestats\n"+
		"/addadmin id, /removeadmin id, /admins\n"+
		"/notify text, /notifications")
	v.SetDefault("messages.unauthorized", "❌ This command is for admins only.")
	v.SetDefault("messages.general_error", "❌ Something went wrong. Please try again later.")
	v.SetDefault("messages.no_jokes", "😕 There are no jokes yet.")
	v.SetDefault("messages.jokes_enabled", "✅ Automatic jokes enabled.")
	v.SetDefault("messages.jokes_disabled", "✅ Automatic jokes disabled.")
	v.SetDefault("messages.interval_set", "✅ Interval set to %d minute(s).")
	v.SetDefault("messages.invalid_interval", "❌ The interval must be at least 1 minute.")
	v.SetDefault("messages.joke_added", "✅ Joke added.")
	v.SetDefault("messages.admin_added", "✅ User %d is now an admin.")
	v.SetDefault("messages.admin_removed", "✅ User %d is no longer an admin.")
	v.SetDefault("messages.no_admins", "😕 The admin list is empty.")
	v.SetDefault("messages.missing_argument", "❌ Missing argument. See /help.")
	v.SetDefault("messages.notification_head", "🔔 Announcement")
	v.SetDefault("messages.rank_earned", "✨ Congratulations %s! %s\n\nYou earned a new rank: %s!\n%s")
	v.SetDefault("messages.member_welcome", "✨ Welcome, %s!")
	v.SetDefault("messages.member_left", "👤 %s left the chat.")
	v.SetDefault("messages.no_user_stats", "📊 %s\nNo messages counted yet.")
	v.SetDefault("messages.no_chat_stats", "📊 No messages counted in this chat yet.")
	v.SetDefault("messages.no_ranks", "No ranks are configured.")
	v.SetDefault("messages.no_notifications", "🔔 No announcements yet.")
}
