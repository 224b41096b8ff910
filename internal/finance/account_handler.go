package finance

import (
	"strings"

	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type AccountResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// POST /api/finance/accounts
func CreateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)
		if body.Code == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "code ve name zorunludur")
		}

		accType := models.AccountType(body.Type)
		switch accType {
		case models.AccountAsset, models.AccountLiability, models.AccountEquity,
			models.AccountRevenue, models.AccountExpense:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hesap tipi")
		}

		account := models.Account{
			Code: body.Code,
			Name: body.Name,
			Type: accType,
		}

		if err := database.DB.Create(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Hesap oluşturulamadı (kod kullanımda olabilir)")
		}

		return c.Status(fiber.StatusCreated).JSON(AccountResponse{
			ID:   account.ID,
			Code: account.Code,
			Name: account.Name,
			Type: string(account.Type),
		})
	}
}

// GET /api/finance/accounts
func ListAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accounts []models.Account
		if err := database.DB.Order("code ASC").Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesaplar listelenemedi")
		}

		resp := make([]AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			resp = append(resp, AccountResponse{
				ID:   a.ID,
				Code: a.Code,
				Name: a.Name,
				Type: string(a.Type),
			})
		}

		return c.JSON(resp)
	}
}
