package finance

import (
	"errors"
	"fmt"
	"time"

	"texerp-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("hesap bulunamadı")
	ErrInvoiceNotFound = errors.New("fatura bulunamadı")
	ErrUnbalanced      = errors.New("borç ve alacak toplamları eşit değil")
	ErrOverpayment     = errors.New("tahsilat fatura kalanını aşıyor")
)

// GenerateEntryNo: Ay bazlı yevmiye numarası (JE<YYMM><seq>). Rulo
// numarası gibi sayım + 1; boşluk doldurmaz.
func GenerateEntryNo(db *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("JE%02d%02d", now.Year()%100, int(now.Month()))

	var count int64
	if err := db.Model(&models.JournalEntry{}).
		Where("entry_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// GenerateInvoiceNo: Ay bazlı fatura numarası (INV<YYMM><seq>).
func GenerateInvoiceNo(db *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV%02d%02d", now.Year()%100, int(now.Month()))

	var count int64
	if err := db.Model(&models.Invoice{}).
		Where("invoice_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// OpenInvoiceForOrder: Sipariş tutarı kadar AR faturası açar. Sipariş
// oluşturma transaction'ının içinden çağrılır.
func OpenInvoiceForOrder(tx *gorm.DB, order *models.Order) (*models.Invoice, error) {
	invoiceNo, err := GenerateInvoiceNo(tx, time.Now())
	if err != nil {
		return nil, err
	}

	invoice := models.Invoice{
		InvoiceNo:  invoiceNo,
		CustomerID: order.CustomerID,
		OrderID:    &order.ID,
		Amount:     order.TotalAmount,
		PaidAmount: decimal.Zero,
		Status:     models.InvoiceStatusOpen,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, err
	}

	return &invoice, nil
}

type JournalLineInput struct {
	AccountID uint
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// CreateJournalEntry: Dengeli yevmiye kaydı oluşturur. En az iki satır,
// her satır ya borç ya alacak, toplamlar eşit olmalı. Kayıt ve satırlar
// tek transaction içinde yazılır.
func CreateJournalEntry(db *gorm.DB, user *models.User, entryDate time.Time, memo string, lines []JournalLineInput) (*models.JournalEntry, error) {
	if len(lines) < 2 {
		return nil, ErrUnbalanced
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, ErrUnbalanced
		}
		// Satır ya borç ya alacak taşır
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return nil, ErrUnbalanced
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, ErrUnbalanced
	}

	var entry models.JournalEntry
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			var account models.Account
			if err := tx.First(&account, "id = ?", l.AccountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAccountNotFound
				}
				return err
			}
		}

		entryNo, err := GenerateEntryNo(tx, entryDate)
		if err != nil {
			return err
		}

		entry = models.JournalEntry{
			EntryNo:    entryNo,
			EntryDate:  entryDate,
			Memo:       memo,
			PostedByID: user.ID,
			PostedBy:   user.Name,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		for _, l := range lines {
			line := models.JournalLine{
				EntryID:   entry.ID,
				AccountID: l.AccountID,
				Debit:     l.Debit,
				Credit:    l.Credit,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// CreatePayment: Faturaya tahsilat işler. Tahsilat kaydı, faturanın
// paid_amount artışı ve durum geçişi tek transaction içindedir. Kalanı
// aşan tahsilat reddedilir.
func CreatePayment(db *gorm.DB, invoiceID uint, amount decimal.Decimal, paymentDate time.Time, method, note string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrOverpayment
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}

		remaining := invoice.Amount.Sub(invoice.PaidAmount)
		if amount.GreaterThan(remaining) {
			return ErrOverpayment
		}

		payment = models.Payment{
			ReferenceNo: uuid.NewString(),
			InvoiceID:   invoice.ID,
			Amount:      amount,
			PaymentDate: paymentDate,
			Method:      method,
			Note:        note,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		invoice.PaidAmount = invoice.PaidAmount.Add(amount)
		if invoice.PaidAmount.Equal(invoice.Amount) {
			invoice.Status = models.InvoiceStatusPaid
		} else {
			invoice.Status = models.InvoiceStatusPartial
		}
		return tx.Save(&invoice).Error
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// ReconciliationResult: Koşu özeti.
type ReconciliationResult struct {
	RunID      string
	Checked    int
	Mismatches int
}

// RunReconciliation: Her fatura için kayıtlı paid_amount ile tahsilat
// toplamını karşılaştırır, uyumsuzluk başına bir ReconciliationEntry yazar.
func RunReconciliation(db *gorm.DB) (*ReconciliationResult, error) {
	var invoices []models.Invoice
	if err := db.Preload("Payments").Find(&invoices).Error; err != nil {
		return nil, err
	}

	result := &ReconciliationResult{RunID: uuid.NewString()}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, inv := range invoices {
			result.Checked++

			computed := decimal.Zero
			for _, p := range inv.Payments {
				computed = computed.Add(p.Amount)
			}
			if computed.Equal(inv.PaidAmount) {
				continue
			}

			result.Mismatches++
			entry := models.ReconciliationEntry{
				RunID:          result.RunID,
				InvoiceID:      inv.ID,
				InvoiceNo:      inv.InvoiceNo,
				StoredAmount:   inv.PaidAmount,
				ComputedAmount: computed,
				Detail: fmt.Sprintf("Fatura %s: kayıtlı tahsilat %s, hesaplanan %s",
					inv.InvoiceNo, inv.PaidAmount.StringFixed(2), computed.StringFixed(2)),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
