package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler is a command handler with its match rules and middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

func command(pattern string, h tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Handler:     h,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  mw,
	}
}

// RegisterAllCommands initializes and returns a map of all available bot commands.
// Admin commands are wrapped in AdminOnly.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	admin := AdminOnly(deps)

	return map[string]RegisteredHandler{
		"/start":    command("start", NewStartHandler(deps)),
		"/help":     command("help", NewHelpHandler(deps)),
		"/joke":     command("joke", NewJokeHandler(deps)),
		"/stats":    command("stats", NewStatsHandler(deps)),
		"/top":      command("top", NewTopHandler(deps)),
		"/allstats": command("allstats", NewAllStatsHandler(deps)),
		"/summary":  command("summary", NewSummaryHandler(deps)),
		"/rank":     command("rank", NewRankHandler(deps)),
		"/ranks":    command("ranks", NewRanksHandler(deps)),

		"/jokeson":       command("jokeson", NewJokesOnHandler(deps), admin),
		"/jokesoff":      command("jokesoff", NewJokesOffHandler(deps), admin),
		"/setinterval":   command("setinterval", NewSetIntervalHandler(deps), admin),
		"/addjoke":       command("addjoke", NewAddJokeHandler(deps), admin),
		"/jokes":         command("jokes", NewJokesHandler(deps), admin),
		"/jokestats":     command("jokestats", NewJokeStatsHandler(deps), admin),
		"/addadmin":      command("addadmin", NewAddAdminHandler(deps), admin),
		"/removeadmin":   command("removeadmin", NewRemoveAdminHandler(deps), admin),
		"/admins":        command("admins", NewAdminsHandler(deps), admin),
		"/notify":        command("notify", NewNotifyHandler(deps), admin),
		"/notifications": command("notifications", NewNotificationsHandler(deps), admin),
	}
}
