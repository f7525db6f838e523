package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	webmodels "github.com/parallelme/parallelme/backend/models"
	"github.com/parallelme/parallelme/backend/utils"
)

func ListQuests(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		list, err := webApp.Quests.List(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	})
}

// UnlockQuests retries a batch unlock that failed after a completion.
func UnlockQuests(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		progress, err := webApp.Quests.Unlock(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, progress, "Quest progress is up to date")
	})
}

func StartQuest(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		quest, err := webApp.Quests.Start(c.UserContext(), userID, c.Params("id"))
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, fiber.Map{"quest": quest}, "Quest started successfully")
	})
}

func CompleteQuest(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		var req webmodels.QuestCompleteRequest
		if err := utils.Bind(c, utils.SchemaQuestComplete, &req); err != nil {
			return utils.SendAppError(c, err)
		}

		result, err := webApp.Quests.Complete(c.UserContext(), userID, c.Params("id"), req.Reflection)
		if err != nil {
			return utils.SendAppError(c, err)
		}

		message := "Quest completed successfully"
		switch {
		case result.UnlockedNewBatch:
			message = "Quest completed! A new batch of quests is unlocked"
		case result.JourneyComplete:
			message = "Quest completed! Your journey is complete"
		}
		return utils.SendSuccess(c, result, message)
	})
}

func CompletedQuests(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		quests, err := webApp.Quests.Completed(c.UserContext(), userID, c.Query("search"))
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, webmodels.CompletedQuests{Quests: quests, Count: len(quests)}, "")
	})
}

func QuestStats(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		stats, err := webApp.Quests.Stats(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, fiber.Map{"stats": stats}, "")
	})
}
