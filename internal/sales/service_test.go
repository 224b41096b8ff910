package sales

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
		&models.Customer{}, &models.Order{}, &models.OrderItem{},
		&models.Stock{}, &models.Divided{},
		&models.Invoice{}, &models.Payment{},
		&models.Shipment{}, &models.ShipmentItem{},
	); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}
	return db
}

func newTestCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()

	customer := models.Customer{Name: "Aras Ambalaj"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("müşteri oluşturulamadı: %v", err)
	}
	return &customer
}

func newInspectedStock(t *testing.T, db *gorm.DB, rollNo string, remaining float64) *models.Stock {
	t.Helper()

	now := time.Now()
	stock := models.Stock{
		RollNo:          rollNo,
		Barcode:         rollNo,
		MaterialType:    "kraft",
		Grammage:        80,
		Width:           1200,
		Length:          remaining,
		Weight:          400,
		RemainingLength: remaining,
		IsInspected:     true,
		InspectedAt:     &now,
	}
	if err := db.Create(&stock).Error; err != nil {
		t.Fatalf("stok oluşturulamadı: %v", err)
	}
	return &stock
}

func TestCreateOrder(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)
	stock := newInspectedStock(t, db, "SHZ2608001", 100)

	order, invoice, err := CreateOrder(db, customer.ID, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), "", []OrderItemInput{
		{ItemType: models.OrderItemStock, ItemID: stock.ID, UnitPrice: decimal.NewFromFloat(12.5)},
	})
	if err != nil {
		t.Fatalf("sipariş oluşturulamadı: %v", err)
	}

	if order.OrderNo != "SO260815001" {
		t.Errorf("sipariş no SO260815001 beklenirken %q", order.OrderNo)
	}
	// 100 m * 12.50 = 1250.00
	if !order.TotalAmount.Equal(decimal.NewFromFloat(1250)) {
		t.Errorf("toplam 1250 beklenirken %s", order.TotalAmount)
	}

	// Sipariş tutarı kadar AR faturası açılmalı
	if invoice == nil {
		t.Fatal("fatura açılmalıydı")
	}
	if !invoice.Amount.Equal(order.TotalAmount) {
		t.Errorf("fatura tutarı %s, sipariş toplamı %s", invoice.Amount, order.TotalAmount)
	}
	if invoice.OrderID == nil || *invoice.OrderID != order.ID {
		t.Error("fatura siparişe bağlı olmalı")
	}

	var items []models.OrderItem
	db.Where("order_id = ?", order.ID).Find(&items)
	if len(items) != 1 || items[0].RollNo != "SHZ2608001" {
		t.Errorf("kalem rulo numarası denormalize edilmeli: %+v", items)
	}
}

func TestCreateOrderRejectsUninspectedRoll(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)

	stock := models.Stock{
		RollNo: "SHZ2608001", Barcode: "SHZ2608001", MaterialType: "kraft",
		Grammage: 80, Width: 1200, Length: 100, Weight: 400, RemainingLength: 100,
	}
	if err := db.Create(&stock).Error; err != nil {
		t.Fatalf("stok oluşturulamadı: %v", err)
	}

	_, _, err := CreateOrder(db, customer.ID, time.Now(), "", []OrderItemInput{
		{ItemType: models.OrderItemStock, ItemID: stock.ID, UnitPrice: decimal.NewFromInt(10)},
	})
	var rollErr *RollError
	if !errors.As(err, &rollErr) {
		t.Fatalf("RollError beklenirken: %v", err)
	}

	// Başarısız sipariş hiçbir şey yazmamalı
	var orderCount, invoiceCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.Invoice{}).Count(&invoiceCount)
	if orderCount != 0 || invoiceCount != 0 {
		t.Errorf("başarısız sipariş kayıt bırakmamalı: order=%d invoice=%d", orderCount, invoiceCount)
	}
}

func TestCreateOrderRejectsRollOnOpenOrder(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)
	stock := newInspectedStock(t, db, "SHZ2608001", 100)

	items := []OrderItemInput{
		{ItemType: models.OrderItemStock, ItemID: stock.ID, UnitPrice: decimal.NewFromInt(10)},
	}
	if _, _, err := CreateOrder(db, customer.ID, time.Now(), "", items); err != nil {
		t.Fatalf("ilk sipariş oluşturulamadı: %v", err)
	}

	_, _, err := CreateOrder(db, customer.ID, time.Now(), "", items)
	var rollErr *RollError
	if !errors.As(err, &rollErr) {
		t.Fatalf("açık siparişteki rulo reddedilmeli: %v", err)
	}
}

func TestDeleteOrder(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)
	stock := newInspectedStock(t, db, "SHZ2608001", 100)

	order, _, err := CreateOrder(db, customer.ID, time.Now(), "", []OrderItemInput{
		{ItemType: models.OrderItemStock, ItemID: stock.ID, UnitPrice: decimal.NewFromInt(10)},
	})
	if err != nil {
		t.Fatalf("sipariş oluşturulamadı: %v", err)
	}

	if err := DeleteOrder(db, order.ID); err != nil {
		t.Fatalf("silme başarısız: %v", err)
	}

	var itemCount, invoiceCount int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount)
	db.Model(&models.Invoice{}).Where("order_id = ?", order.ID).Count(&invoiceCount)
	if itemCount != 0 || invoiceCount != 0 {
		t.Errorf("kalemler ve fatura da silinmeli: item=%d invoice=%d", itemCount, invoiceCount)
	}

	// Rulo tekrar sipariş edilebilir olmalı
	if _, _, err := CreateOrder(db, customer.ID, time.Now(), "", []OrderItemInput{
		{ItemType: models.OrderItemStock, ItemID: stock.ID, UnitPrice: decimal.NewFromInt(10)},
	}); err != nil {
		t.Fatalf("silinen siparişin rulosu tekrar satılabilmeli: %v", err)
	}
}

func TestDeleteOrderWithPayment(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)
	stock := newInspectedStock(t, db, "SHZ2608001", 100)

	order, invoice, err := CreateOrder(db, customer.ID, time.Now(), "", []OrderItemInput{
		{ItemType: models.OrderItemStock, ItemID: stock.ID, UnitPrice: decimal.NewFromInt(10)},
	})
	if err != nil {
		t.Fatalf("sipariş oluşturulamadı: %v", err)
	}

	invoice.PaidAmount = decimal.NewFromInt(100)
	if err := db.Save(invoice).Error; err != nil {
		t.Fatalf("fatura güncellenemedi: %v", err)
	}

	if err := DeleteOrder(db, order.ID); !errors.Is(err, ErrOrderHasPayment) {
		t.Fatalf("ErrOrderHasPayment beklenirken: %v", err)
	}
}

func TestDeleteOrderWithActiveShipment(t *testing.T) {
	db := newTestDB(t)
	customer := newTestCustomer(t, db)
	stock := newInspectedStock(t, db, "SHZ2608001", 100)

	order, _, err := CreateOrder(db, customer.ID, time.Now(), "", []OrderItemInput{
		{ItemType: models.OrderItemStock, ItemID: stock.ID, UnitPrice: decimal.NewFromInt(10)},
	})
	if err != nil {
		t.Fatalf("sipariş oluşturulamadı: %v", err)
	}

	shp := models.Shipment{
		ReferenceNo: "b7f3c1d0-0000-0000-0000-000000000001",
		OrderID:     order.ID,
		Status:      models.ShipmentStatusPreparing,
	}
	if err := db.Create(&shp).Error; err != nil {
		t.Fatalf("sevkiyat oluşturulamadı: %v", err)
	}

	// Sahipsiz sevkiyat kalmasın diye hazırlanan sevkiyatlı sipariş silinemez
	if err := DeleteOrder(db, order.ID); !errors.Is(err, ErrOrderHasShipment) {
		t.Fatalf("ErrOrderHasShipment beklenirken: %v", err)
	}

	// Tamamlanmış sevkiyat zaten shipped siparişe aittir; burada yapay olarak
	// completed'a çekilen sevkiyat silmeyi engellememeli
	db.Model(&models.Shipment{}).Where("id = ?", shp.ID).Update("status", models.ShipmentStatusCompleted)
	if err := DeleteOrder(db, order.ID); err != nil {
		t.Fatalf("tamamlanmış sevkiyat silmeyi engellememeli: %v", err)
	}
}
