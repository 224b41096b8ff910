package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"texerp-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrStockNotFound   = errors.New("stok bulunamadı")
	ErrDividedNotFound = errors.New("alt rulo bulunamadı")
	ErrStockHasChilds  = errors.New("alt ruloları olan stok silinemez")
)

// InsufficientLengthError: İstenen toplam uzunluk kalan uzunluğu aşıyor.
type InsufficientLengthError struct {
	Requested float64
	Available float64
}

func (e *InsufficientLengthError) Error() string {
	return fmt.Sprintf("istenen uzunluk kalan stoğu aşıyor (istenen: %.2f m, kalan: %.2f m)", e.Requested, e.Available)
}

// rollSuffix: 0 -> "A", 25 -> "Z", 26 -> "AA" (tablo kolonu mantığı)
func rollSuffix(i int) string {
	s := ""
	i++
	for i > 0 {
		i--
		s = string(rune('A'+i%26)) + s
		i /= 26
	}
	return s
}

// suffixIndex: rollSuffix'in tersi; "A" -> 0, "Z" -> 25, "AA" -> 26
func suffixIndex(s string) int {
	n := 0
	for _, r := range s {
		n = n*26 + int(r-'A') + 1
	}
	return n - 1
}

// DivideStock: Ana ruloyu rollCount adet meterPerRoll uzunluğunda alt ruloya
// böler. Alt rulo kayıtları ve ana rulonun remaining_length düşümü tek
// transaction içinde yapılır; hata olursa hiçbir şey yazılmaz.
func DivideStock(db *gorm.DB, stockID uint, meterPerRoll float64, rollCount int) ([]models.Divided, error) {
	created := make([]models.Divided, 0, rollCount)

	err := db.Transaction(func(tx *gorm.DB) error {
		var stock models.Stock
		if err := tx.First(&stock, "id = ?", stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		requested := meterPerRoll * float64(rollCount)
		if requested > stock.RemainingLength {
			return &InsufficientLengthError{Requested: requested, Available: stock.RemainingLength}
		}

		// Harf eki hayatta kalan kardeşlerin en büyüğünden devam eder.
		// Adetten türetmek olmaz: araya silme girdiğinde sayaç geriler
		// ve mevcut bir ek yeniden üretilir
		var siblingNos []string
		if err := tx.Model(&models.Divided{}).Where("stock_id = ?", stock.ID).
			Pluck("roll_no", &siblingNos).Error; err != nil {
			return err
		}
		next := 0
		for _, no := range siblingNos {
			if idx := suffixIndex(strings.TrimPrefix(no, stock.RollNo)); idx >= next {
				next = idx + 1
			}
		}

		for i := 0; i < rollCount; i++ {
			rollNo := stock.RollNo + rollSuffix(next+i)
			d := models.Divided{
				StockID: stock.ID,
				RollNo:  rollNo,
				Barcode: rollNo,
				Width:   stock.Width,
				Length:  meterPerRoll,
				Weight:  stock.Weight * meterPerRoll / stock.Length,
			}
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
			created = append(created, d)
		}

		return tx.Model(&models.Stock{}).Where("id = ?", stock.ID).
			Update("remaining_length", gorm.Expr("remaining_length - ?", requested)).Error
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// BulkDeleteDivided: Verilen alt ruloları siler ve uzunlukları ana rulo
// bazında gruplayıp remaining_length'e geri ekler. Birden fazla ana ruloya
// yayılan listeler desteklenir.
func BulkDeleteDivided(db *gorm.DB, ids []uint) (int, error) {
	var targets []models.Divided
	if err := db.Where("id IN ?", ids).Find(&targets).Error; err != nil {
		return 0, err
	}
	if len(targets) == 0 {
		return 0, ErrDividedNotFound
	}

	lengthByStock := make(map[uint]float64)
	targetIDs := make([]uint, 0, len(targets))
	for _, d := range targets {
		lengthByStock[d.StockID] += d.Length
		targetIDs = append(targetIDs, d.ID)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Divided{}, "id IN ?", targetIDs).Error; err != nil {
			return err
		}
		for stockID, total := range lengthByStock {
			if err := tx.Model(&models.Stock{}).Where("id = ?", stockID).
				Update("remaining_length", gorm.Expr("remaining_length + ?", total)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(targetIDs), nil
}

// InspectStock: Ana ruloyu denetlendi olarak işaretler ve InspectionLog
// kaydı ekler. İşaretleme ile log tek transaction içindedir; log'suz
// işaretleme oluşamaz. Tekrar denetim bayrağı geri çevirmez, sadece yeni
// log satırı ekler.
func InspectStock(db *gorm.DB, stockID uint, user *models.User, note string) (*models.Stock, *models.InspectionLog, error) {
	var stock models.Stock
	var logRow models.InspectionLog

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stock, "id = ?", stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		now := time.Now()
		stock.IsInspected = true
		stock.InspectedAt = &now
		stock.InspectedByID = &user.ID
		stock.InspectedByName = user.Name
		if err := tx.Save(&stock).Error; err != nil {
			return err
		}

		logRow = models.InspectionLog{
			EventType:  models.InspectionEventStock,
			ItemType:   models.InspectionItemStock,
			ItemRollNo: stock.RollNo,
			UserID:     user.ID,
			UserName:   user.Name,
			Note:       note,
		}
		return tx.Create(&logRow).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &stock, &logRow, nil
}

// InspectDivided: Alt rulo için denetim; InspectStock ile aynı sözleşme.
func InspectDivided(db *gorm.DB, dividedID uint, user *models.User, note string) (*models.Divided, *models.InspectionLog, error) {
	var divided models.Divided
	var logRow models.InspectionLog

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&divided, "id = ?", dividedID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDividedNotFound
			}
			return err
		}

		now := time.Now()
		divided.IsInspected = true
		divided.InspectedAt = &now
		divided.InspectedByID = &user.ID
		divided.InspectedByName = user.Name
		if err := tx.Save(&divided).Error; err != nil {
			return err
		}

		logRow = models.InspectionLog{
			EventType:  models.InspectionEventDivided,
			ItemType:   models.InspectionItemDivided,
			ItemRollNo: divided.RollNo,
			UserID:     user.ID,
			UserName:   user.Name,
			Note:       note,
		}
		return tx.Create(&logRow).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &divided, &logRow, nil
}

// DeleteStock: Alt rulosu olmayan stoğu siler. Kontrol ve silme aynı
// transaction içinde yapılır.
func DeleteStock(db *gorm.DB, stockID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var stock models.Stock
		if err := tx.First(&stock, "id = ?", stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		var childCount int64
		if err := tx.Model(&models.Divided{}).Where("stock_id = ?", stockID).Count(&childCount).Error; err != nil {
			return err
		}
		if childCount > 0 {
			return ErrStockHasChilds
		}

		return tx.Delete(&models.Stock{}, "id = ?", stockID).Error
	})
}
