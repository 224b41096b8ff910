package inventory

import (
	"errors"
	"time"

	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type CreateStockRequest struct {
	RollNo       string  `json:"rollNo"` // boşsa otomatik üretilir
	MaterialType string  `json:"materialType"`
	Grammage     int     `json:"grammage"`
	Width        int     `json:"width"`
	Length       float64 `json:"length"`
	Weight       float64 `json:"weight"`
	Note         string  `json:"note"`
}

type StockResponse struct {
	ID              uint    `json:"id"`
	RollNo          string  `json:"rollNo"`
	Barcode         string  `json:"barcode"`
	MaterialType    string  `json:"materialType"`
	Grammage        int     `json:"grammage"`
	Width           int     `json:"width"`
	Length          float64 `json:"length"`
	Weight          float64 `json:"weight"`
	RemainingLength float64 `json:"remainingLength"`
	IsInspected     bool    `json:"isInspected"`
	InspectedAt     string  `json:"inspectedAt,omitempty"`
	InspectedBy     string  `json:"inspectedBy,omitempty"`
	Note            string  `json:"note"`
	CreatedAt       string  `json:"createdAt"`
}

func toStockResponse(s *models.Stock) StockResponse {
	resp := StockResponse{
		ID:              s.ID,
		RollNo:          s.RollNo,
		Barcode:         s.Barcode,
		MaterialType:    s.MaterialType,
		Grammage:        s.Grammage,
		Width:           s.Width,
		Length:          s.Length,
		Weight:          s.Weight,
		RemainingLength: s.RemainingLength,
		IsInspected:     s.IsInspected,
		InspectedBy:     s.InspectedByName,
		Note:            s.Note,
		CreatedAt:       s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if s.InspectedAt != nil {
		resp.InspectedAt = s.InspectedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// POST /api/inventory/stock
func CreateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.MaterialType == "" {
			return fiber.NewError(fiber.StatusBadRequest, "materialType zorunludur")
		}
		if body.Length <= 0 || body.Weight <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "length ve weight 0'dan büyük olmalıdır")
		}
		if body.Grammage <= 0 || body.Width <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "grammage ve width 0'dan büyük olmalıdır")
		}

		rollNo := body.RollNo
		if rollNo == "" {
			generated, err := GenerateRollNo(database.DB, time.Now())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Rulo numarası üretilemedi")
			}
			rollNo = generated
		}

		stock := models.Stock{
			RollNo:          rollNo,
			Barcode:         rollNo,
			MaterialType:    body.MaterialType,
			Grammage:        body.Grammage,
			Width:           body.Width,
			Length:          body.Length,
			Weight:          body.Weight,
			RemainingLength: body.Length, // giriş anında tamamı bölünmemiş
			Note:            body.Note,
		}

		if err := database.DB.Create(&stock).Error; err != nil {
			log.Error().Err(err).Str("rollNo", rollNo).Msg("Stok oluşturulamadı")
			return fiber.NewError(fiber.StatusConflict, "Stok oluşturulamadı (rulo numarası kullanımda olabilir)")
		}

		return c.Status(fiber.StatusCreated).JSON(toStockResponse(&stock))
	}
}

// GET /api/inventory/stock
func ListStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stocks []models.Stock
		if err := database.DB.Order("roll_no DESC").Find(&stocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stoklar listelenemedi")
		}

		resp := make([]StockResponse, 0, len(stocks))
		for i := range stocks {
			resp = append(resp, toStockResponse(&stocks[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/inventory/stock/:id
func GetStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var stock models.Stock
		if err := database.DB.Preload("Divideds").First(&stock, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok bulunamadı")
		}

		divideds := make([]DividedResponse, 0, len(stock.Divideds))
		for i := range stock.Divideds {
			divideds = append(divideds, toDividedResponse(&stock.Divideds[i]))
		}

		return c.JSON(fiber.Map{
			"stock":    toStockResponse(&stock),
			"divideds": divideds,
		})
	}
}

// DELETE /api/inventory/stock/:id
func DeleteStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		if err := DeleteStock(database.DB, uint(id)); err != nil {
			if errors.Is(err, ErrStockNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Stok bulunamadı")
			}
			if errors.Is(err, ErrStockHasChilds) {
				return fiber.NewError(fiber.StatusConflict, "Alt ruloları olan stok silinemez, önce alt ruloları silin")
			}
			log.Error().Err(err).Int("stockId", id).Msg("Stok silinemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Stok silinemedi")
		}

		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/inventory/stock/generate-roll-no
func GenerateRollNoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rollNo, err := GenerateRollNo(database.DB, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rulo numarası üretilemedi")
		}

		return c.JSON(fiber.Map{"rollNo": rollNo})
	}
}
