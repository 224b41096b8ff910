package shipment

import (
	"errors"

	"texerp-backend/internal/auth"
	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type CreateShipmentRequest struct {
	OrderID uint   `json:"orderId"`
	Note    string `json:"note"`
}

type ScanRequest struct {
	Barcode string `json:"barcode"`
}

type ShipmentItemResponse struct {
	ID        uint   `json:"id"`
	RollNo    string `json:"rollNo"`
	Scanned   bool   `json:"scanned"`
	ScannedAt string `json:"scannedAt,omitempty"`
	ScannedBy string `json:"scannedBy,omitempty"`
}

type ShipmentResponse struct {
	ID          uint                   `json:"id"`
	ReferenceNo string                 `json:"referenceNo"`
	OrderID     uint                   `json:"orderId"`
	OrderNo     string                 `json:"orderNo,omitempty"`
	Status      string                 `json:"status"`
	CompletedAt string                 `json:"completedAt,omitempty"`
	Note        string                 `json:"note"`
	CreatedAt   string                 `json:"createdAt"`
	Items       []ShipmentItemResponse `json:"items,omitempty"`
}

func toShipmentItemResponse(it *models.ShipmentItem) ShipmentItemResponse {
	resp := ShipmentItemResponse{
		ID:        it.ID,
		RollNo:    it.RollNo,
		Scanned:   it.ScannedAt != nil,
		ScannedBy: it.ScannedByName,
	}
	if it.ScannedAt != nil {
		resp.ScannedAt = it.ScannedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

func toShipmentResponse(s *models.Shipment) ShipmentResponse {
	resp := ShipmentResponse{
		ID:          s.ID,
		ReferenceNo: s.ReferenceNo,
		OrderID:     s.OrderID,
		OrderNo:     s.Order.OrderNo,
		Status:      string(s.Status),
		Note:        s.Note,
		CreatedAt:   s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if s.CompletedAt != nil {
		resp.CompletedAt = s.CompletedAt.Format("2006-01-02 15:04:05")
	}
	for i := range s.Items {
		resp.Items = append(resp.Items, toShipmentItemResponse(&s.Items[i]))
	}
	return resp
}

// POST /api/shipments
func CreateShipmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateShipmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.OrderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "orderId zorunludur")
		}

		shp, err := CreateShipment(database.DB, body.OrderID, body.Note)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
			if errors.Is(err, ErrOrderNotOpen) {
				return fiber.NewError(fiber.StatusBadRequest, "Sadece açık siparişler sevk edilebilir")
			}
			if errors.Is(err, ErrShipmentExists) {
				return fiber.NewError(fiber.StatusConflict, "Siparişin aktif sevkiyatı zaten var")
			}
			log.Error().Err(err).Uint("orderId", body.OrderID).Msg("Sevkiyat oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Sevkiyat oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toShipmentResponse(shp))
	}
}

// POST /api/shipments/:id/scan
func ScanBarcodeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var body ScanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Barcode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "barcode zorunludur")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		item, completed, err := ScanBarcode(database.DB, uint(id), body.Barcode, user)
		if err != nil {
			switch {
			case errors.Is(err, ErrShipmentNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Sevkiyat bulunamadı")
			case errors.Is(err, ErrBarcodeNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Barkod bu sevkiyatta yok")
			case errors.Is(err, ErrShipmentCompleted):
				return fiber.NewError(fiber.StatusBadRequest, "Sevkiyat zaten tamamlanmış")
			case errors.Is(err, ErrAlreadyScanned):
				return fiber.NewError(fiber.StatusBadRequest, "Barkod zaten okutulmuş")
			case errors.Is(err, ErrRollNotInspected):
				return fiber.NewError(fiber.StatusBadRequest, "Rulo denetimden geçmemiş, sevk edilemez")
			}
			log.Error().Err(err).Int("shipmentId", id).Str("barcode", body.Barcode).Msg("Barkod okutma başarısız")
			return fiber.NewError(fiber.StatusInternalServerError, "Barkod okutma başarısız")
		}

		return c.JSON(fiber.Map{
			"item":      toShipmentItemResponse(item),
			"completed": completed,
		})
	}
}

// GET /api/shipments
func ListShipmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shipments []models.Shipment
		if err := database.DB.Preload("Order").Order("id DESC").Find(&shipments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sevkiyatlar listelenemedi")
		}

		resp := make([]ShipmentResponse, 0, len(shipments))
		for i := range shipments {
			resp = append(resp, toShipmentResponse(&shipments[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/shipments/:id
func GetShipmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var shp models.Shipment
		if err := database.DB.Preload("Order").Preload("Items").First(&shp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sevkiyat bulunamadı")
		}

		return c.JSON(toShipmentResponse(&shp))
	}
}
