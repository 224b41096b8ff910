package database

import (
	"texerp-backend/internal/config"
	"texerp-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Veritabanına bağlanılamadı")
	}

	// remaining_length migration: Eski stok kayıtlarında kolon yoksa
	// AutoMigrate ekler ama mevcut satırlar 0 ile kalır. Bölünmemiş kısım
	// kaybolmasın diye length'ten alt ruloların toplamı düşülerek doldurulur.
	hadRemaining := DB.Migrator().HasTable(&models.Stock{}) &&
		DB.Migrator().HasColumn(&models.Stock{}, "remaining_length")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Stock{},
		&models.Divided{},
		&models.InspectionLog{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Shipment{},
		&models.ShipmentItem{},
		&models.Account{},
		&models.JournalEntry{},
		&models.JournalLine{},
		&models.Invoice{},
		&models.Payment{},
		&models.ReconciliationEntry{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate hatası")
	}

	if !hadRemaining && DB.Migrator().HasColumn(&models.Stock{}, "remaining_length") {
		var backfilled int64
		res := DB.Exec(`
			UPDATE stocks SET remaining_length = length - COALESCE(
				(SELECT SUM(d.length) FROM divideds d WHERE d.stock_id = stocks.id), 0)
			WHERE remaining_length = 0 AND length > 0`)
		if res.Error != nil {
			log.Error().Err(res.Error).Msg("remaining_length backfill hatası")
		} else {
			backfilled = res.RowsAffected
			if backfilled > 0 {
				log.Info().Int64("rows", backfilled).Msg("remaining_length backfill tamamlandı")
			}
		}
	}

	log.Info().Msg("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
