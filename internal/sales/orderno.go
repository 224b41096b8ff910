package sales

import (
	"fmt"
	"strconv"
	"time"

	"texerp-backend/internal/models"

	"gorm.io/gorm"
)

// GenerateOrderNo: Gün bazlı sıradaki sipariş numarası (SO<YYMMDD><seq>).
// Rulo numarasından farklı olarak boşluk doldurur: günün mevcut numaraları
// toplanır, 1'den yukarı taranarak kullanılmayan ilk sıra seçilir. Silinen
// siparişin numarası böylece yeniden kullanılır.
func GenerateOrderNo(db *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("SO%02d%02d%02d", now.Year()%100, int(now.Month()), now.Day())

	var existing []string
	if err := db.Model(&models.Order{}).
		Where("order_no LIKE ?", prefix+"%").
		Pluck("order_no", &existing).Error; err != nil {
		return "", err
	}

	used := make(map[int]bool, len(existing))
	for _, no := range existing {
		if len(no) <= len(prefix) {
			continue
		}
		if n, err := strconv.Atoi(no[len(prefix):]); err == nil {
			used[n] = true
		}
	}

	seq := 1
	for used[seq] {
		seq++
	}

	return fmt.Sprintf("%s%03d", prefix, seq), nil
}
