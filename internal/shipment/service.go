package shipment

import (
	"errors"
	"time"

	"texerp-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrShipmentNotFound  = errors.New("sevkiyat bulunamadı")
	ErrOrderNotFound     = errors.New("sipariş bulunamadı")
	ErrOrderNotOpen      = errors.New("sipariş açık durumda değil")
	ErrShipmentExists    = errors.New("siparişin aktif sevkiyatı zaten var")
	ErrShipmentCompleted = errors.New("sevkiyat zaten tamamlanmış")
	ErrBarcodeNotFound   = errors.New("barkod bu sevkiyatta yok")
	ErrAlreadyScanned    = errors.New("barkod zaten okutulmuş")
	ErrRollNotInspected  = errors.New("rulo denetimden geçmemiş")
)

// CreateShipment: Açık sipariş için sevkiyat açar; kalemler sipariş
// kalemlerinden kopyalanır. Sipariş başına bir aktif sevkiyat olabilir.
func CreateShipment(db *gorm.DB, orderID uint, note string) (*models.Shipment, error) {
	var shp models.Shipment

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != models.OrderStatusOpen {
			return ErrOrderNotOpen
		}

		var active int64
		if err := tx.Model(&models.Shipment{}).
			Where("order_id = ? AND status = ?", orderID, models.ShipmentStatusPreparing).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrShipmentExists
		}

		shp = models.Shipment{
			ReferenceNo: uuid.NewString(),
			OrderID:     order.ID,
			Status:      models.ShipmentStatusPreparing,
			Note:        note,
		}
		if err := tx.Create(&shp).Error; err != nil {
			return err
		}

		for _, it := range order.Items {
			item := models.ShipmentItem{
				ShipmentID:  shp.ID,
				OrderItemID: it.ID,
				RollNo:      it.RollNo,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			shp.Items = append(shp.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &shp, nil
}

// ScanBarcode: Okutulan barkodu sevkiyatın okutulmamış kalemleriyle
// eşleştirir. Barkod rulo numarasına eşittir; rulo hâlâ denetimli olmalıdır.
// Son kalem okutulduğunda sevkiyat tamamlanır ve sipariş "shipped" olur;
// bu iki güncelleme aynı transaction içindedir.
func ScanBarcode(db *gorm.DB, shipmentID uint, barcode string, user *models.User) (*models.ShipmentItem, bool, error) {
	var scanned models.ShipmentItem
	completed := false

	err := db.Transaction(func(tx *gorm.DB) error {
		var shp models.Shipment
		if err := tx.First(&shp, "id = ?", shipmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShipmentNotFound
			}
			return err
		}
		if shp.Status == models.ShipmentStatusCompleted {
			return ErrShipmentCompleted
		}

		var item models.ShipmentItem
		err := tx.Where("shipment_id = ? AND roll_no = ?", shipmentID, barcode).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBarcodeNotFound
			}
			return err
		}
		if item.ScannedAt != nil {
			return ErrAlreadyScanned
		}

		// Rulonun denetim durumu sevk anında tekrar doğrulanır
		var orderItem models.OrderItem
		if err := tx.First(&orderItem, "id = ?", item.OrderItemID).Error; err != nil {
			return err
		}
		inspected := false
		switch orderItem.ItemType {
		case models.OrderItemStock:
			var stock models.Stock
			if err := tx.First(&stock, "id = ?", orderItem.ItemID).Error; err != nil {
				return err
			}
			inspected = stock.IsInspected
		case models.OrderItemDivided:
			var divided models.Divided
			if err := tx.First(&divided, "id = ?", orderItem.ItemID).Error; err != nil {
				return err
			}
			inspected = divided.IsInspected
		}
		if !inspected {
			return ErrRollNotInspected
		}

		now := time.Now()
		item.ScannedBarcode = barcode
		item.ScannedAt = &now
		item.ScannedByID = &user.ID
		item.ScannedByName = user.Name
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		scanned = item

		var remaining int64
		if err := tx.Model(&models.ShipmentItem{}).
			Where("shipment_id = ? AND scanned_at IS NULL", shipmentID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			shp.Status = models.ShipmentStatusCompleted
			shp.CompletedAt = &now
			if err := tx.Save(&shp).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Order{}).Where("id = ?", shp.OrderID).
				Update("status", models.OrderStatusShipped).Error; err != nil {
				return err
			}
			completed = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &scanned, completed, nil
}
