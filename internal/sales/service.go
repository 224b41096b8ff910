package sales

import (
	"errors"
	"fmt"
	"time"

	"texerp-backend/internal/finance"
	"texerp-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound = errors.New("müşteri bulunamadı")
	ErrOrderNotFound    = errors.New("sipariş bulunamadı")
	ErrOrderNotOpen     = errors.New("sipariş açık durumda değil")
	ErrOrderHasPayment  = errors.New("tahsilatı olan sipariş silinemez")
	ErrOrderHasShipment = errors.New("hazırlanan sevkiyatı olan sipariş silinemez")
)

// RollError: Sipariş kalemindeki ruloyla ilgili doğrulama hatası.
type RollError struct {
	RollRef string // rulo numarası ya da "divided:<id>" gibi referans
	Reason  string
}

func (e *RollError) Error() string {
	return fmt.Sprintf("%s: %s", e.RollRef, e.Reason)
}

type OrderItemInput struct {
	ItemType  models.OrderItemType
	ItemID    uint
	UnitPrice decimal.Decimal
}

// resolveRoll: Kalemin bağlı olduğu ruloyu bulur, rulo numarası ve
// uzunluğunu döner. Denetimden geçmemiş rulo satılamaz.
func resolveRoll(tx *gorm.DB, in OrderItemInput) (string, float64, error) {
	switch in.ItemType {
	case models.OrderItemStock:
		var stock models.Stock
		if err := tx.First(&stock, "id = ?", in.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", 0, &RollError{RollRef: fmt.Sprintf("stock:%d", in.ItemID), Reason: "rulo bulunamadı"}
			}
			return "", 0, err
		}
		if !stock.IsInspected {
			return "", 0, &RollError{RollRef: stock.RollNo, Reason: "rulo denetimden geçmemiş, satılamaz"}
		}
		return stock.RollNo, stock.RemainingLength, nil

	case models.OrderItemDivided:
		var divided models.Divided
		if err := tx.First(&divided, "id = ?", in.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", 0, &RollError{RollRef: fmt.Sprintf("divided:%d", in.ItemID), Reason: "rulo bulunamadı"}
			}
			return "", 0, err
		}
		if !divided.IsInspected {
			return "", 0, &RollError{RollRef: divided.RollNo, Reason: "rulo denetimden geçmemiş, satılamaz"}
		}
		return divided.RollNo, divided.Length, nil

	default:
		return "", 0, &RollError{RollRef: string(in.ItemType), Reason: "geçersiz kalem tipi"}
	}
}

// CreateOrder: Siparişi, kalemlerini ve sipariş tutarı kadar AR faturasını
// tek transaction içinde oluşturur. Her kalemin rulosu var olmalı,
// denetimden geçmiş olmalı ve başka açık siparişte olmamalı.
func CreateOrder(db *gorm.DB, customerID uint, orderDate time.Time, note string, items []OrderItemInput) (*models.Order, *models.Invoice, error) {
	var order models.Order
	var invoice *models.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		orderNo, err := GenerateOrderNo(tx, orderDate)
		if err != nil {
			return err
		}

		order = models.Order{
			OrderNo:     orderNo,
			CustomerID:  customerID,
			Status:      models.OrderStatusOpen,
			OrderDate:   orderDate,
			TotalAmount: decimal.Zero,
			Note:        note,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, in := range items {
			rollNo, length, err := resolveRoll(tx, in)
			if err != nil {
				return err
			}

			// Aynı rulo başka açık siparişte olmamalı
			var conflict int64
			if err := tx.Model(&models.OrderItem{}).
				Joins("JOIN orders ON orders.id = order_items.order_id").
				Where("order_items.item_type = ? AND order_items.item_id = ? AND orders.status = ?",
					in.ItemType, in.ItemID, models.OrderStatusOpen).
				Count(&conflict).Error; err != nil {
				return err
			}
			if conflict > 0 {
				return &RollError{RollRef: rollNo, Reason: "rulo zaten açık bir siparişte"}
			}

			amount := in.UnitPrice.Mul(decimal.NewFromFloat(length))
			item := models.OrderItem{
				OrderID:   order.ID,
				ItemType:  in.ItemType,
				ItemID:    in.ItemID,
				RollNo:    rollNo,
				Length:    length,
				UnitPrice: in.UnitPrice,
				Amount:    amount,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total = total.Add(amount)
		}

		order.TotalAmount = total
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		invoice, err = finance.OpenInvoiceForOrder(tx, &order)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return &order, invoice, nil
}

// DeleteOrder: Sadece açık siparişler silinir; kalemler cascade ile gider.
// Bağlı faturada tahsilat varsa ya da hazırlanan bir sevkiyat varsa silme
// reddedilir, yoksa fatura da silinir.
func DeleteOrder(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != models.OrderStatusOpen {
			return ErrOrderNotOpen
		}

		// Silinen siparişin sevkiyatı sahipsiz kalır ve okutma tamamlanırsa
		// var olmayan siparişi shipped'e çekmeye çalışırdı
		var shipmentCount int64
		if err := tx.Model(&models.Shipment{}).
			Where("order_id = ? AND status = ?", orderID, models.ShipmentStatusPreparing).
			Count(&shipmentCount).Error; err != nil {
			return err
		}
		if shipmentCount > 0 {
			return ErrOrderHasShipment
		}

		var invoice models.Invoice
		err := tx.First(&invoice, "order_id = ?", orderID).Error
		if err == nil {
			if invoice.PaidAmount.IsPositive() {
				return ErrOrderHasPayment
			}
			if err := tx.Delete(&models.Invoice{}, "id = ?", invoice.ID).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Delete(&models.OrderItem{}, "order_id = ?", orderID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", orderID).Error
	})
}
