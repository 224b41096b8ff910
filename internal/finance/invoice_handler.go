package finance

import (
	"errors"
	"time"

	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CreateInvoiceRequest struct {
	CustomerID uint    `json:"customerId"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"dueDate"` // "2025-12-09", opsiyonel
}

type CreatePaymentRequest struct {
	InvoiceID   uint    `json:"invoiceId"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"paymentDate"` // boşsa bugün
	Method      string  `json:"method"`
	Note        string  `json:"note"`
}

type InvoiceResponse struct {
	ID           uint   `json:"id"`
	InvoiceNo    string `json:"invoiceNo"`
	CustomerID   uint   `json:"customerId"`
	CustomerName string `json:"customerName,omitempty"`
	OrderID      *uint  `json:"orderId,omitempty"`
	Amount       string `json:"amount"`
	PaidAmount   string `json:"paidAmount"`
	Status       string `json:"status"`
	DueDate      string `json:"dueDate,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

func toInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:           inv.ID,
		InvoiceNo:    inv.InvoiceNo,
		CustomerID:   inv.CustomerID,
		CustomerName: inv.Customer.Name,
		OrderID:      inv.OrderID,
		Amount:       inv.Amount.StringFixed(2),
		PaidAmount:   inv.PaidAmount.StringFixed(2),
		Status:       string(inv.Status),
		CreatedAt:    inv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format("2006-01-02")
	}
	return resp
}

// POST /api/finance/invoices (manuel fatura; sipariş faturaları otomatik açılır)
func CreateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "customerId zorunludur")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalıdır")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var dueDate *time.Time
		if body.DueDate != "" {
			d, err := time.Parse("2006-01-02", body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			dueDate = &d
		}

		invoiceNo, err := GenerateInvoiceNo(database.DB, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura numarası üretilemedi")
		}

		invoice := models.Invoice{
			InvoiceNo:  invoiceNo,
			CustomerID: body.CustomerID,
			Amount:     decimal.NewFromFloat(body.Amount),
			PaidAmount: decimal.Zero,
			Status:     models.InvoiceStatusOpen,
			DueDate:    dueDate,
		}

		if err := database.DB.Create(&invoice).Error; err != nil {
			log.Error().Err(err).Str("invoiceNo", invoiceNo).Msg("Fatura oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura oluşturulamadı")
		}

		invoice.Customer = customer
		return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(&invoice))
	}
}

// GET /api/finance/invoices
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Customer").Order("invoice_no DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var invoices []models.Invoice
		if err := q.Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar listelenemedi")
		}

		resp := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			resp = append(resp, toInvoiceResponse(&invoices[i]))
		}

		return c.JSON(resp)
	}
}

// POST /api/finance/payments
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.InvoiceID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invoiceId zorunludur")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalıdır")
		}

		paymentDate := time.Now()
		if body.PaymentDate != "" {
			d, err := time.Parse("2006-01-02", body.PaymentDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			paymentDate = d
		}

		payment, err := CreatePayment(database.DB, body.InvoiceID,
			decimal.NewFromFloat(body.Amount), paymentDate, body.Method, body.Note)
		if err != nil {
			if errors.Is(err, ErrInvoiceNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
			}
			if errors.Is(err, ErrOverpayment) {
				return fiber.NewError(fiber.StatusBadRequest, "Tahsilat fatura kalanını aşıyor")
			}
			log.Error().Err(err).Uint("invoiceId", body.InvoiceID).Msg("Tahsilat kaydedilemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Tahsilat kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":          payment.ID,
			"referenceNo": payment.ReferenceNo,
			"invoiceId":   payment.InvoiceID,
			"amount":      payment.Amount.StringFixed(2),
			"paymentDate": payment.PaymentDate.Format("2006-01-02"),
			"method":      payment.Method,
		})
	}
}

// GET /api/finance/payments
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("payment_date DESC, id DESC")
		if invoiceID := c.QueryInt("invoiceId"); invoiceID > 0 {
			q = q.Where("invoice_id = ?", invoiceID)
		}

		var payments []models.Payment
		if err := q.Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tahsilatlar listelenemedi")
		}

		resp := make([]fiber.Map, 0, len(payments))
		for _, p := range payments {
			resp = append(resp, fiber.Map{
				"id":          p.ID,
				"referenceNo": p.ReferenceNo,
				"invoiceId":   p.InvoiceID,
				"amount":      p.Amount.StringFixed(2),
				"paymentDate": p.PaymentDate.Format("2006-01-02"),
				"method":      p.Method,
				"note":        p.Note,
			})
		}

		return c.JSON(resp)
	}
}
