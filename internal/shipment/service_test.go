package shipment

import (
	"errors"
	"testing"
	"time"

	"texerp-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Her test kendi isimli in-memory veritabanını kullanır; isimsiz
	// ":memory:" havuzdaki her bağlantıya ayrı veritabanı verir
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{}, &models.Customer{},
		&models.Stock{}, &models.Divided{},
		&models.Order{}, &models.OrderItem{},
		&models.Shipment{}, &models.ShipmentItem{},
	); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}
	return db
}

// openOrderWithRolls: İki denetimli ana rulo ve onları kapsayan açık sipariş kurar.
func openOrderWithRolls(t *testing.T, db *gorm.DB) (*models.Order, []*models.Stock) {
	t.Helper()

	customer := models.Customer{Name: "Aras Ambalaj"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("müşteri oluşturulamadı: %v", err)
	}

	now := time.Now()
	rollNos := []string{"SHZ2608001", "SHZ2608002"}
	stocks := make([]*models.Stock, 0, len(rollNos))
	for _, rollNo := range rollNos {
		stock := models.Stock{
			RollNo: rollNo, Barcode: rollNo, MaterialType: "kraft",
			Grammage: 80, Width: 1200, Length: 100, Weight: 400, RemainingLength: 100,
			IsInspected: true, InspectedAt: &now,
		}
		if err := db.Create(&stock).Error; err != nil {
			t.Fatalf("stok oluşturulamadı: %v", err)
		}
		stocks = append(stocks, &stock)
	}

	order := models.Order{
		OrderNo:     "SO260815001",
		CustomerID:  customer.ID,
		Status:      models.OrderStatusOpen,
		OrderDate:   now,
		TotalAmount: decimal.NewFromInt(2000),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("sipariş oluşturulamadı: %v", err)
	}
	for _, stock := range stocks {
		item := models.OrderItem{
			OrderID:   order.ID,
			ItemType:  models.OrderItemStock,
			ItemID:    stock.ID,
			RollNo:    stock.RollNo,
			Length:    stock.Length,
			UnitPrice: decimal.NewFromInt(10),
			Amount:    decimal.NewFromInt(1000),
		}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("kalem oluşturulamadı: %v", err)
		}
	}
	return &order, stocks
}

func newScanUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := models.User{Name: "Depocu", Email: "depo@example.com", PasswordHash: "x", Role: models.RoleFactory}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}
	return &user
}

func TestCreateShipment(t *testing.T) {
	db := newTestDB(t)
	order, _ := openOrderWithRolls(t, db)

	shp, err := CreateShipment(db, order.ID, "")
	if err != nil {
		t.Fatalf("sevkiyat oluşturulamadı: %v", err)
	}
	if shp.ReferenceNo == "" {
		t.Error("sevkiyat referans numarası almalı")
	}
	if len(shp.Items) != 2 {
		t.Fatalf("2 kalem beklenirken %d", len(shp.Items))
	}
	if shp.Items[0].RollNo != "SHZ2608001" {
		t.Errorf("kalem rulo numarası kopyalanmalı: %q", shp.Items[0].RollNo)
	}

	// Aynı sipariş için ikinci aktif sevkiyat açılamaz
	if _, err := CreateShipment(db, order.ID, ""); !errors.Is(err, ErrShipmentExists) {
		t.Fatalf("ErrShipmentExists beklenirken: %v", err)
	}
}

func TestCreateShipmentOrderChecks(t *testing.T) {
	db := newTestDB(t)
	order, _ := openOrderWithRolls(t, db)

	if _, err := CreateShipment(db, 999, ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("ErrOrderNotFound beklenirken: %v", err)
	}

	db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderStatusShipped)
	if _, err := CreateShipment(db, order.ID, ""); !errors.Is(err, ErrOrderNotOpen) {
		t.Fatalf("ErrOrderNotOpen beklenirken: %v", err)
	}
}

func TestScanBarcodeCompletesShipment(t *testing.T) {
	db := newTestDB(t)
	order, _ := openOrderWithRolls(t, db)
	user := newScanUser(t, db)

	shp, err := CreateShipment(db, order.ID, "")
	if err != nil {
		t.Fatalf("sevkiyat oluşturulamadı: %v", err)
	}

	item, completed, err := ScanBarcode(db, shp.ID, "SHZ2608001", user)
	if err != nil {
		t.Fatalf("okutma başarısız: %v", err)
	}
	if completed {
		t.Error("ilk okutma sevkiyatı tamamlamamalı")
	}
	if item.ScannedAt == nil || item.ScannedByName != "Depocu" {
		t.Errorf("okutma bilgileri set edilmeli: %+v", item)
	}

	_, completed, err = ScanBarcode(db, shp.ID, "SHZ2608002", user)
	if err != nil {
		t.Fatalf("okutma başarısız: %v", err)
	}
	if !completed {
		t.Error("son okutma sevkiyatı tamamlamalı")
	}

	// Sevkiyat ve sipariş durumu birlikte güncellenmeli
	var afterShp models.Shipment
	db.First(&afterShp, "id = ?", shp.ID)
	if afterShp.Status != models.ShipmentStatusCompleted || afterShp.CompletedAt == nil {
		t.Errorf("sevkiyat completed olmalı: %+v", afterShp.Status)
	}
	var afterOrder models.Order
	db.First(&afterOrder, "id = ?", order.ID)
	if afterOrder.Status != models.OrderStatusShipped {
		t.Errorf("sipariş shipped olmalı: %q", afterOrder.Status)
	}
}

func TestScanBarcodeErrors(t *testing.T) {
	db := newTestDB(t)
	order, stocks := openOrderWithRolls(t, db)
	user := newScanUser(t, db)

	shp, err := CreateShipment(db, order.ID, "")
	if err != nil {
		t.Fatalf("sevkiyat oluşturulamadı: %v", err)
	}

	if _, _, err := ScanBarcode(db, 999, "SHZ2608001", user); !errors.Is(err, ErrShipmentNotFound) {
		t.Errorf("ErrShipmentNotFound beklenirken: %v", err)
	}

	if _, _, err := ScanBarcode(db, shp.ID, "SHZ9999999", user); !errors.Is(err, ErrBarcodeNotFound) {
		t.Errorf("ErrBarcodeNotFound beklenirken: %v", err)
	}

	if _, _, err := ScanBarcode(db, shp.ID, "SHZ2608001", user); err != nil {
		t.Fatalf("okutma başarısız: %v", err)
	}
	if _, _, err := ScanBarcode(db, shp.ID, "SHZ2608001", user); !errors.Is(err, ErrAlreadyScanned) {
		t.Errorf("ErrAlreadyScanned beklenirken: %v", err)
	}

	// Denetim bayrağı sevk anında tekrar doğrulanır
	db.Model(&models.Stock{}).Where("id = ?", stocks[1].ID).Update("is_inspected", false)
	if _, _, err := ScanBarcode(db, shp.ID, "SHZ2608002", user); !errors.Is(err, ErrRollNotInspected) {
		t.Errorf("ErrRollNotInspected beklenirken: %v", err)
	}
}
