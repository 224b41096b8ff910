package sales

import (
	"testing"
	"time"

	"texerp-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func createOrderRow(t *testing.T, db *gorm.DB, orderNo string, customerID uint) *models.Order {
	t.Helper()

	order := models.Order{
		OrderNo:     orderNo,
		CustomerID:  customerID,
		Status:      models.OrderStatusOpen,
		OrderDate:   time.Now(),
		TotalAmount: decimal.Zero,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("sipariş satırı oluşturulamadı: %v", err)
	}
	return &order
}

func TestGenerateOrderNo(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	orderNo, err := GenerateOrderNo(db, now)
	if err != nil {
		t.Fatalf("üretim başarısız: %v", err)
	}
	if orderNo != "SO260815001" {
		t.Errorf("SO260815001 beklenirken %q", orderNo)
	}

	createOrderRow(t, db, "SO260815001", customer.ID)
	createOrderRow(t, db, "SO260815002", customer.ID)

	orderNo, err = GenerateOrderNo(db, now)
	if err != nil {
		t.Fatalf("üretim başarısız: %v", err)
	}
	if orderNo != "SO260815003" {
		t.Errorf("SO260815003 beklenirken %q", orderNo)
	}
}

func TestGenerateOrderNoFillsGaps(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	first := createOrderRow(t, db, "SO260815001", customer.ID)
	createOrderRow(t, db, "SO260815002", customer.ID)
	createOrderRow(t, db, "SO260815003", customer.ID)

	if err := db.Delete(&models.Order{}, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("silme başarısız: %v", err)
	}

	// Rulo numarasının aksine boşluk doldurur: silinen 001 yeniden kullanılır
	orderNo, err := GenerateOrderNo(db, now)
	if err != nil {
		t.Fatalf("üretim başarısız: %v", err)
	}
	if orderNo != "SO260815001" {
		t.Errorf("boşluk doldurma SO260815001 üretmeli, %q üretti", orderNo)
	}
}

func TestGenerateOrderNoScopedByDay(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)

	createOrderRow(t, db, "SO260814001", customer.ID)

	orderNo, err := GenerateOrderNo(db, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("üretim başarısız: %v", err)
	}
	if orderNo != "SO260815001" {
		t.Errorf("önceki günün siparişi yeni günü etkilememeli: %q", orderNo)
	}
}
