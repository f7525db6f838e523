package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	webmodels "github.com/parallelme/parallelme/backend/models"
	"github.com/parallelme/parallelme/backend/utils"
)

func Register(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.RegisterRequest
		if err := utils.Bind(c, utils.SchemaRegister, &req); err != nil {
			return utils.SendAppError(c, err)
		}

		session, err := webApp.Auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendCreated(c, session, "User registered successfully")
	}
}

func Login(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.LoginRequest
		if err := utils.Bind(c, utils.SchemaLogin, &req); err != nil {
			return utils.SendAppError(c, err)
		}

		session, err := webApp.Auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, session, "Login successful")
	}
}

func Me(webApp *WebApp) fiber.Handler {
	return withUser(func(c *fiber.Ctx, userID primitive.ObjectID) error {
		user, err := webApp.Auth.Me(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, fiber.Map{"user": user}, "")
	})
}
