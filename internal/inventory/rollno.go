package inventory

import (
	"fmt"
	"time"

	"texerp-backend/internal/models"

	"gorm.io/gorm"
)

// GenerateRollNo: Ay bazlı sıradaki rulo numarası (SHZ<YY><MM><seq>).
// Sıra numarası ay içindeki kayıt sayısı + 1'dir; silinen kayıtların
// boşluğunu doldurmaz. Çakışma roll_no unique index'ine takılır.
func GenerateRollNo(db *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("SHZ%02d%02d", now.Year()%100, int(now.Month()))

	var count int64
	if err := db.Model(&models.Stock{}).
		Where("roll_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}
