package database

import (
	"context"
	"log/slog"
)

// DefaultRanks are the two built-in ladders, inserted on first start.
var DefaultRanks = []Rank{
	{Name: "Новичок", Category: "agency", MinMessages: 0, Description: "Только начинаешь свой путь", Emoji: "🐣"},
	{Name: "Агент-стажёр", Category: "agency", MinMessages: 10, Description: "Показал потенциал", Emoji: "🎓"},
	{Name: "Младший агент", Category: "agency", MinMessages: 50, Description: "Доказал свою полезность", Emoji: "🔫"},
	{Name: "Агент", Category: "agency", MinMessages: 100, Description: "Надёжный член команды", Emoji: "🕵️"},
	{Name: "Старший агент", Category: "agency", MinMessages: 250, Description: "Опытный профессионал", Emoji: "🎖️"},
	{Name: "Специальный агент", Category: "agency", MinMessages: 500, Description: "Элита агентства", Emoji: "⭐"},
	{Name: "Легенда агентства", Category: "agency", MinMessages: 1000, Description: "Живая легенда", Emoji: "🏆"},

	{Name: "Junior", Category: "interview", MinMessages: 0, Description: "Начинающий разработчик", Emoji: "🌱"},
	{Name: "Middle", Category: "interview", MinMessages: 50, Description: "Опытный разработчик", Emoji: "💻"},
	{Name: "Senior", Category: "interview", MinMessages: 150, Description: "Ведущий разработчик", Emoji: "🚀"},
	{Name: "Tech Lead", Category: "interview", MinMessages: 300, Description: "Технический лидер", Emoji: "👑"},
	{Name: "Architect", Category: "interview", MinMessages: 500, Description: "Архитектор решений", Emoji: "🏗️"},
	{Name: "CTO Material", Category: "interview", MinMessages: 1000, Description: "Потенциальный CTO", Emoji: "💎"},
}

// DefaultJokes give a fresh install something to post.
var DefaultJokes = []Joke{
	{Category: "programming", Content: "There are 10 kinds of people: those who understand binary and those who don't."},
	{Category: "programming", Content: "It works on my machine. Then we'll ship your machine."},
	{Category: "programming", Content: "A SQL query walks into a bar, goes up to two tables and asks: may I join you?"},
	{Category: "tech", Content: "Have you tried turning it off and on again?"},
	{Category: "work", Content: "The meeting that could have been an email was rescheduled to discuss the email."},
	{Category: "interview", Content: "Interviewer: where do you see yourself in five years? Me: debugging this same legacy service."},
	{Category: "agency", Content: "The agent encrypted his notes so well that he can no longer read them himself."},
	{Category: "general", Content: "I told a chemistry joke once. There was no reaction."},
}

// DefaultReactions answer a few common phrases; the untriggered ones are random picks.
var DefaultReactions = []Reaction{
	{TriggerText: "привет", Type: ReactionMessage, Content: "👋 Привет!"},
	{TriggerText: "спасибо", Type: ReactionMessage, Content: "🙏 Всегда пожалуйста!"},
	{TriggerText: "баг", Type: ReactionMessage, Content: "🐛 Это не баг, это фича.", Category: "programming"},
	{TriggerText: "деплой", Type: ReactionMessage, Content: "🚀 Только не в пятницу!", Category: "programming"},
	{Type: ReactionMessage, Content: "😂"},
	{Type: ReactionMessage, Content: "👍"},
	{Type: ReactionMessage, Content: "🔥"},
}

// Seed inserts the default ranks, jokes and reactions into empty tables. Tables that
// already hold rows are left untouched.
func Seed(ctx context.Context, store Store, log *slog.Logger) error {
	rankCount, err := store.CountRanks(ctx)
	if err != nil {
		return err
	}
	if rankCount == 0 {
		for i := range DefaultRanks {
			rank := DefaultRanks[i]
			if err := store.CreateRank(ctx, &rank); err != nil {
				return err
			}
		}
		log.InfoContext(ctx, "Seeded default ranks", "count", len(DefaultRanks))
	}

	jokeCount, err := store.CountJokes(ctx)
	if err != nil {
		return err
	}
	if jokeCount == 0 {
		for i := range DefaultJokes {
			joke := DefaultJokes[i]
			if err := store.AddJoke(ctx, &joke); err != nil {
				return err
			}
		}
		log.InfoContext(ctx, "Seeded default jokes", "count", len(DefaultJokes))
	}

	reactionCount, err := store.CountReactions(ctx)
	if err != nil {
		return err
	}
	if reactionCount == 0 {
		for i := range DefaultReactions {
			reaction := DefaultReactions[i]
			if err := store.AddReaction(ctx, &reaction); err != nil {
				return err
			}
		}
		log.InfoContext(ctx, "Seeded default reactions", "count", len(DefaultReactions))
	}
	return nil
}
