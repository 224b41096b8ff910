package finance

import (
	"fmt"

	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// POST /api/finance/reconciliation/run
func RunReconciliationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := RunReconciliation(database.DB)
		if err != nil {
			log.Error().Err(err).Msg("Mutabakat koşusu başarısız")
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat koşusu başarısız")
		}

		return c.JSON(fiber.Map{
			"runId":      result.RunID,
			"checked":    result.Checked,
			"mismatches": result.Mismatches,
		})
	}
}

// GET /api/finance/reconciliation
func ListReconciliationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC, id DESC").Limit(500)
		if runID := c.Query("runId"); runID != "" {
			q = q.Where("run_id = ?", runID)
		}

		var entries []models.ReconciliationEntry
		if err := q.Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat kayıtları listelenemedi")
		}

		resp := make([]fiber.Map, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, fiber.Map{
				"id":             e.ID,
				"runId":          e.RunID,
				"invoiceId":      e.InvoiceID,
				"invoiceNo":      e.InvoiceNo,
				"storedAmount":   e.StoredAmount.StringFixed(2),
				"computedAmount": e.ComputedAmount.StringFixed(2),
				"detail":         e.Detail,
				"createdAt":      e.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/finance/reconciliation/export
// Son koşunun uyumsuzluk satırlarını .xlsx olarak indirir.
func ExportReconciliationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// En son koşunun run_id'si
		var latest models.ReconciliationEntry
		if err := database.DB.Order("created_at DESC, id DESC").First(&latest).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dışa aktarılacak mutabakat koşusu yok")
		}

		var entries []models.ReconciliationEntry
		if err := database.DB.Where("run_id = ?", latest.RunID).Order("id ASC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat kayıtları okunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		headers := []string{"Fatura No", "Kayıtlı Tahsilat", "Hesaplanan Tahsilat", "Fark", "Detay"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
			}
		}

		for row, e := range entries {
			diff := e.ComputedAmount.Sub(e.StoredAmount)
			values := []interface{}{
				e.InvoiceNo,
				e.StoredAmount.StringFixed(2),
				e.ComputedAmount.StringFixed(2),
				diff.StringFixed(2),
				e.Detail,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
				}
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			log.Error().Err(err).Msg("Excel dosyası yazılamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası yazılamadı")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="mutabakat-%s.xlsx"`, latest.RunID[:8]))
		return c.Send(buf.Bytes())
	}
}
