package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	webmodels "github.com/parallelme/parallelme/backend/models"
	"github.com/parallelme/parallelme/backend/utils"
	"github.com/parallelme/parallelme/parallelme/services"
)

func CreatePersona(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		var req webmodels.PersonaCreateRequest
		if err := utils.Bind(c, utils.SchemaPersonaCreate, &req); err != nil {
			return utils.SendAppError(c, err)
		}

		persona, generated, err := webApp.Personas.Create(c.UserContext(), userID, services.PersonaInput{
			Traits:       req.Traits,
			Fears:        req.Fears,
			Inspirations: req.Inspirations,
		})
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendCreated(c, webmodels.PersonaCreated{
			Persona:         persona,
			QuestsGenerated: generated,
		}, "Persona created successfully")
	})
}

func GetPersona(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		persona, err := webApp.Personas.Get(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, fiber.Map{"persona": persona}, "")
	})
}

func UpdatePersona(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		var req webmodels.PersonaUpdateRequest
		if err := utils.Bind(c, utils.SchemaPersonaUpdate, &req); err != nil {
			return utils.SendAppError(c, err)
		}

		persona, err := webApp.Personas.Update(c.UserContext(), userID, services.PersonaUpdate{
			Traits:       req.Traits,
			Fears:        req.Fears,
			Inspirations: req.Inspirations,
			Regenerate:   req.RegenerateAI,
		})
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, fiber.Map{"persona": persona}, "Persona updated successfully")
	})
}

func DeletePersona(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		if err := webApp.Personas.Delete(c.UserContext(), userID); err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, nil, "Persona deleted successfully")
	})
}
