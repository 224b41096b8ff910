package sales

import (
	"errors"
	"time"

	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ItemType  string  `json:"itemType"` // "stock" | "divided"
	ItemID    uint    `json:"itemId"`
	UnitPrice float64 `json:"unitPrice"` // metre başına
}

type CreateOrderRequest struct {
	CustomerID uint               `json:"customerId"`
	OrderDate  string             `json:"orderDate"` // "2025-12-09", boşsa bugün
	Note       string             `json:"note"`
	Items      []OrderItemRequest `json:"items"`
}

type OrderItemResponse struct {
	ID        uint    `json:"id"`
	ItemType  string  `json:"itemType"`
	ItemID    uint    `json:"itemId"`
	RollNo    string  `json:"rollNo"`
	Length    float64 `json:"length"`
	UnitPrice string  `json:"unitPrice"`
	Amount    string  `json:"amount"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	OrderNo      string              `json:"orderNo"`
	CustomerID   uint                `json:"customerId"`
	CustomerName string              `json:"customerName,omitempty"`
	Status       string              `json:"status"`
	OrderDate    string              `json:"orderDate"`
	TotalAmount  string              `json:"totalAmount"`
	Note         string              `json:"note"`
	Items        []OrderItemResponse `json:"items,omitempty"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:           o.ID,
		OrderNo:      o.OrderNo,
		CustomerID:   o.CustomerID,
		CustomerName: o.Customer.Name,
		Status:       string(o.Status),
		OrderDate:    o.OrderDate.Format("2006-01-02"),
		TotalAmount:  o.TotalAmount.StringFixed(2),
		Note:         o.Note,
	}
	for i := range o.Items {
		it := &o.Items[i]
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        it.ID,
			ItemType:  string(it.ItemType),
			ItemID:    it.ItemID,
			RollNo:    it.RollNo,
			Length:    it.Length,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Amount:    it.Amount.StringFixed(2),
		})
	}
	return resp
}

// POST /api/sales/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "customerId zorunludur")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "items boş olamaz")
		}

		orderDate := time.Now()
		if body.OrderDate != "" {
			d, err := time.Parse("2006-01-02", body.OrderDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			orderDate = d
		}

		items := make([]OrderItemInput, 0, len(body.Items))
		for _, it := range body.Items {
			if it.UnitPrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unitPrice 0'dan büyük olmalıdır")
			}
			items = append(items, OrderItemInput{
				ItemType:  models.OrderItemType(it.ItemType),
				ItemID:    it.ItemID,
				UnitPrice: decimal.NewFromFloat(it.UnitPrice),
			})
		}

		order, invoice, err := CreateOrder(database.DB, body.CustomerID, orderDate, body.Note, items)
		if err != nil {
			var rollErr *RollError
			if errors.Is(err, ErrCustomerNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
			}
			if errors.As(err, &rollErr) {
				return fiber.NewError(fiber.StatusBadRequest, rollErr.Error())
			}
			log.Error().Err(err).Uint("customerId", body.CustomerID).Msg("Sipariş oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		// Kalemler response için tekrar okunur
		var full models.Order
		if err := database.DB.Preload("Items").Preload("Customer").First(&full, "id = ?", order.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"order":     toOrderResponse(&full),
			"invoiceNo": invoice.InvoiceNo,
		})
	}
}

// GET /api/sales/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Customer").Order("order_no DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/sales/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var order models.Order
		if err := database.DB.Preload("Items").Preload("Customer").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(toOrderResponse(&order))
	}
}

// DELETE /api/sales/orders/:id
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		if err := DeleteOrder(database.DB, uint(id)); err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
			if errors.Is(err, ErrOrderNotOpen) {
				return fiber.NewError(fiber.StatusBadRequest, "Sadece açık siparişler silinebilir")
			}
			if errors.Is(err, ErrOrderHasPayment) {
				return fiber.NewError(fiber.StatusConflict, "Tahsilatı olan sipariş silinemez")
			}
			if errors.Is(err, ErrOrderHasShipment) {
				return fiber.NewError(fiber.StatusConflict, "Hazırlanan sevkiyatı olan sipariş silinemez")
			}
			log.Error().Err(err).Int("orderId", id).Msg("Sipariş silinemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş silinemedi")
		}

		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/sales/orders/generate-order-no
func GenerateOrderNoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderNo, err := GenerateOrderNo(database.DB, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş numarası üretilemedi")
		}

		return c.JSON(fiber.Map{"orderNo": orderNo})
	}
}
