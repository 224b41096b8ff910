package inventory

import (
	"errors"

	"texerp-backend/internal/auth"
	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type InspectStockRequest struct {
	StockID uint   `json:"stockId"`
	Note    string `json:"note"`
}

type InspectDividedRequest struct {
	DividedID uint   `json:"dividedId"`
	Note      string `json:"note"`
}

// POST /api/inventory/inspection/stock
func InspectStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body InspectStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.StockID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stockId zorunludur")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		stock, logRow, err := InspectStock(database.DB, body.StockID, user, body.Note)
		if err != nil {
			if errors.Is(err, ErrStockNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Stok bulunamadı")
			}
			log.Error().Err(err).Uint("stockId", body.StockID).Msg("Denetim kaydedilemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Denetim kaydedilemedi")
		}

		return c.JSON(fiber.Map{
			"stock": toStockResponse(stock),
			"log":   logRow,
		})
	}
}

// POST /api/inventory/inspection/divided
func InspectDividedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body InspectDividedRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.DividedID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dividedId zorunludur")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		divided, logRow, err := InspectDivided(database.DB, body.DividedID, user, body.Note)
		if err != nil {
			if errors.Is(err, ErrDividedNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Alt rulo bulunamadı")
			}
			log.Error().Err(err).Uint("dividedId", body.DividedID).Msg("Denetim kaydedilemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Denetim kaydedilemedi")
		}

		return c.JSON(fiber.Map{
			"divided": toDividedResponse(divided),
			"log":     logRow,
		})
	}
}

// GET /api/inventory/inspection/logs
func ListInspectionLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var logs []models.InspectionLog
		if err := database.DB.Order("created_at DESC, id DESC").Limit(500).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Denetim kayıtları listelenemedi")
		}

		return c.JSON(logs)
	}
}
