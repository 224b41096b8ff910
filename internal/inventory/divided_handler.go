package inventory

import (
	"errors"

	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type CreateDividedRequest struct {
	StockID      uint    `json:"stockId"`
	MeterPerRoll float64 `json:"meterPerRoll"`
	RollCount    int     `json:"rollCount"`
}

type BulkDeleteDividedRequest struct {
	IDs []uint `json:"ids"`
}

type DividedResponse struct {
	ID          uint    `json:"id"`
	StockID     uint    `json:"stockId"`
	RollNo      string  `json:"rollNo"`
	Barcode     string  `json:"barcode"`
	Width       int     `json:"width"`
	Length      float64 `json:"length"`
	Weight      float64 `json:"weight"`
	IsInspected bool    `json:"isInspected"`
	InspectedAt string  `json:"inspectedAt,omitempty"`
	InspectedBy string  `json:"inspectedBy,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

func toDividedResponse(d *models.Divided) DividedResponse {
	resp := DividedResponse{
		ID:          d.ID,
		StockID:     d.StockID,
		RollNo:      d.RollNo,
		Barcode:     d.Barcode,
		Width:       d.Width,
		Length:      d.Length,
		Weight:      d.Weight,
		IsInspected: d.IsInspected,
		InspectedBy: d.InspectedByName,
		CreatedAt:   d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if d.InspectedAt != nil {
		resp.InspectedAt = d.InspectedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// POST /api/inventory/divided/new
func CreateDividedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDividedRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.StockID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stockId zorunludur")
		}
		if body.MeterPerRoll <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "meterPerRoll 0'dan büyük olmalıdır")
		}
		if body.RollCount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "rollCount 0'dan büyük olmalıdır")
		}

		created, err := DivideStock(database.DB, body.StockID, body.MeterPerRoll, body.RollCount)
		if err != nil {
			var insufficient *InsufficientLengthError
			if errors.Is(err, ErrStockNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Stok bulunamadı")
			}
			if errors.As(err, &insufficient) {
				return fiber.NewError(fiber.StatusBadRequest, insufficient.Error())
			}
			log.Error().Err(err).Uint("stockId", body.StockID).Msg("Bölme işlemi başarısız")
			return fiber.NewError(fiber.StatusInternalServerError, "Bölme işlemi başarısız")
		}

		resp := make([]DividedResponse, 0, len(created))
		for i := range created {
			resp = append(resp, toDividedResponse(&created[i]))
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// DELETE /api/inventory/divided/bulk-delete
func BulkDeleteDividedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BulkDeleteDividedRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		// Veritabanına gitmeden önce reddedilir
		if len(body.IDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ids boş olamaz")
		}

		if _, err := BulkDeleteDivided(database.DB, body.IDs); err != nil {
			if errors.Is(err, ErrDividedNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Silinecek alt rulo bulunamadı")
			}
			log.Error().Err(err).Msg("Toplu silme başarısız")
			return fiber.NewError(fiber.StatusInternalServerError, "Toplu silme başarısız")
		}

		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/inventory/divided
func ListDividedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("roll_no ASC")
		if stockID := c.QueryInt("stockId"); stockID > 0 {
			q = q.Where("stock_id = ?", stockID)
		}

		var divideds []models.Divided
		if err := q.Find(&divideds).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt rulolar listelenemedi")
		}

		resp := make([]DividedResponse, 0, len(divideds))
		for i := range divideds {
			resp = append(resp, toDividedResponse(&divideds[i]))
		}

		return c.JSON(resp)
	}
}
