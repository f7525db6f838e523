package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	webmodels "github.com/parallelme/parallelme/backend/models"
	"github.com/parallelme/parallelme/backend/utils"
)

func QuestSnippet(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		var req webmodels.QuestSnippetRequest
		if err := utils.Bind(c, utils.SchemaQuestSnippet, &req); err != nil {
			return utils.SendAppError(c, err)
		}

		story, err := webApp.Stories.QuestSnippet(c.UserContext(), userID, req.QuestID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendCreated(c, fiber.Map{"story": story}, "Story snippet generated")
	})
}

func BatchChapter(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		var req webmodels.BatchChapterRequest
		if err := utils.Bind(c, utils.SchemaBatchChapter, &req); err != nil {
			return utils.SendAppError(c, err)
		}

		story, err := webApp.Stories.BatchChapter(c.UserContext(), userID, req.BatchNumber)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendCreated(c, fiber.Map{"story": story}, "Chapter generated")
	})
}

func ListStories(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		ascending := strings.EqualFold(c.Query("order"), "asc")
		stories, err := webApp.Stories.List(c.UserContext(), userID, ascending)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, webmodels.StoryList{Stories: stories, Count: len(stories)}, "")
	})
}

func ExportJourney(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		result, err := webApp.Stories.Export(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendCreated(c, result, "Journey exported")
	})
}
