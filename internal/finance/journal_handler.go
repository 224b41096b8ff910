package finance

import (
	"errors"
	"time"

	"texerp-backend/internal/auth"
	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type JournalLineRequest struct {
	AccountID uint    `json:"accountId"`
	Debit     float64 `json:"debit"`
	Credit    float64 `json:"credit"`
}

type CreateJournalEntryRequest struct {
	EntryDate string               `json:"entryDate"` // "2025-12-09", boşsa bugün
	Memo      string               `json:"memo"`
	Lines     []JournalLineRequest `json:"lines"`
}

type JournalLineResponse struct {
	ID          uint   `json:"id"`
	AccountID   uint   `json:"accountId"`
	AccountCode string `json:"accountCode,omitempty"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

type JournalEntryResponse struct {
	ID        uint                  `json:"id"`
	EntryNo   string                `json:"entryNo"`
	EntryDate string                `json:"entryDate"`
	Memo      string                `json:"memo"`
	PostedBy  string                `json:"postedBy"`
	Lines     []JournalLineResponse `json:"lines,omitempty"`
}

func toJournalEntryResponse(e *models.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		ID:        e.ID,
		EntryNo:   e.EntryNo,
		EntryDate: e.EntryDate.Format("2006-01-02"),
		Memo:      e.Memo,
		PostedBy:  e.PostedBy,
	}
	for i := range e.Lines {
		l := &e.Lines[i]
		resp.Lines = append(resp.Lines, JournalLineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			AccountCode: l.Account.Code,
			Debit:       l.Debit.StringFixed(2),
			Credit:      l.Credit.StringFixed(2),
		})
	}
	return resp
}

// POST /api/finance/journal-entries
func CreateJournalEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateJournalEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		entryDate := time.Now()
		if body.EntryDate != "" {
			d, err := time.Parse("2006-01-02", body.EntryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			entryDate = d
		}

		lines := make([]JournalLineInput, 0, len(body.Lines))
		for _, l := range body.Lines {
			lines = append(lines, JournalLineInput{
				AccountID: l.AccountID,
				Debit:     decimal.NewFromFloat(l.Debit),
				Credit:    decimal.NewFromFloat(l.Credit),
			})
		}

		entry, err := CreateJournalEntry(database.DB, user, entryDate, body.Memo, lines)
		if err != nil {
			if errors.Is(err, ErrUnbalanced) {
				return fiber.NewError(fiber.StatusBadRequest, "Yevmiye kaydı dengesiz: borç ve alacak toplamları eşit olmalı, her satır ya borç ya alacak taşımalı")
			}
			if errors.Is(err, ErrAccountNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
			}
			log.Error().Err(err).Msg("Yevmiye kaydı oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Yevmiye kaydı oluşturulamadı")
		}

		var full models.JournalEntry
		if err := database.DB.Preload("Lines").Preload("Lines.Account").First(&full, "id = ?", entry.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yevmiye kaydı okunamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toJournalEntryResponse(&full))
	}
}

// GET /api/finance/journal-entries
func ListJournalEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entries []models.JournalEntry
		if err := database.DB.Order("entry_no DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yevmiye kayıtları listelenemedi")
		}

		resp := make([]JournalEntryResponse, 0, len(entries))
		for i := range entries {
			resp = append(resp, toJournalEntryResponse(&entries[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/finance/journal-entries/:id
func GetJournalEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var entry models.JournalEntry
		if err := database.DB.Preload("Lines").Preload("Lines.Account").First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yevmiye kaydı bulunamadı")
		}

		return c.JSON(toJournalEntryResponse(&entry))
	}
}
