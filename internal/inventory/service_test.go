package inventory

import (
	"errors"
	"testing"
	"time"

	"texerp-backend/internal/models"

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

	if err := db.AutoMigrate(&models.User{}, &models.Stock{}, &models.Divided{}, &models.InspectionLog{}); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}
	return db
}

func newTestStock(t *testing.T, db *gorm.DB, rollNo string, length, weight float64) *models.Stock {
	t.Helper()

	stock := models.Stock{
		RollNo:          rollNo,
		Barcode:         rollNo,
		MaterialType:    "kraft",
		Grammage:        80,
		Width:           1200,
		Length:          length,
		Weight:          weight,
		RemainingLength: length,
	}
	if err := db.Create(&stock).Error; err != nil {
		t.Fatalf("stok oluşturulamadı: %v", err)
	}
	return &stock
}

func TestDivideStock(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)

	created, err := DivideStock(db, stock.ID, 30, 3)
	if err != nil {
		t.Fatalf("bölme başarısız: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("3 alt rulo beklenirken %d oluştu", len(created))
	}

	wantRollNos := []string{"SHZ2608001A", "SHZ2608001B", "SHZ2608001C"}
	for i, d := range created {
		if d.RollNo != wantRollNos[i] {
			t.Errorf("rulo no %q beklenirken %q", wantRollNos[i], d.RollNo)
		}
		if d.Barcode != d.RollNo {
			t.Errorf("barkod rulo numarasına eşit olmalı: %q != %q", d.Barcode, d.RollNo)
		}
		if d.Length != 30 {
			t.Errorf("uzunluk 30 beklenirken %.2f", d.Length)
		}
		if d.Width != stock.Width {
			t.Errorf("en ana rulodan miras alınmalı: %d != %d", d.Width, stock.Width)
		}
		// 500 * 30 / 100 = 150
		if d.Weight != 150 {
			t.Errorf("ağırlık 150 beklenirken %.2f", d.Weight)
		}
	}

	var after models.Stock
	if err := db.First(&after, "id = ?", stock.ID).Error; err != nil {
		t.Fatalf("stok okunamadı: %v", err)
	}
	if after.RemainingLength != 10 {
		t.Errorf("kalan uzunluk 10 beklenirken %.2f", after.RemainingLength)
	}
}

func TestDivideStockInsufficientLength(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)

	if _, err := DivideStock(db, stock.ID, 30, 3); err != nil {
		t.Fatalf("ilk bölme başarısız: %v", err)
	}

	// Kalan 10, istenen 30: reddedilmeli ve hiçbir şey değişmemeli
	_, err := DivideStock(db, stock.ID, 30, 1)
	var insufficient *InsufficientLengthError
	if !errors.As(err, &insufficient) {
		t.Fatalf("InsufficientLengthError beklenirken: %v", err)
	}
	if insufficient.Requested != 30 || insufficient.Available != 10 {
		t.Errorf("hata detayı yanlış: istenen %.2f, kalan %.2f", insufficient.Requested, insufficient.Available)
	}

	var after models.Stock
	db.First(&after, "id = ?", stock.ID)
	if after.RemainingLength != 10 {
		t.Errorf("başarısız bölme kalanı değiştirmemeli: %.2f", after.RemainingLength)
	}

	var childCount int64
	db.Model(&models.Divided{}).Where("stock_id = ?", stock.ID).Count(&childCount)
	if childCount != 3 {
		t.Errorf("başarısız bölme alt rulo eklememeli: %d", childCount)
	}
}

func TestDivideStockNotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := DivideStock(db, 999, 10, 1); !errors.Is(err, ErrStockNotFound) {
		t.Fatalf("ErrStockNotFound beklenirken: %v", err)
	}
}

func TestDivideStockSuffixContinues(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)

	if _, err := DivideStock(db, stock.ID, 10, 2); err != nil {
		t.Fatalf("ilk bölme başarısız: %v", err)
	}
	created, err := DivideStock(db, stock.ID, 10, 1)
	if err != nil {
		t.Fatalf("ikinci bölme başarısız: %v", err)
	}

	// İkinci bölme A'dan değil, kaldığı yerden devam etmeli
	if created[0].RollNo != "SHZ2608001C" {
		t.Errorf("rulo no SHZ2608001C beklenirken %q", created[0].RollNo)
	}
}

func TestDivideStockSuffixAfterPartialReversal(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)

	created, err := DivideStock(db, stock.ID, 10, 3) // A, B, C
	if err != nil {
		t.Fatalf("bölme başarısız: %v", err)
	}

	// Ortadaki B silinir: adet 2'ye düşer ama C hâlâ duruyor
	if _, err := BulkDeleteDivided(db, []uint{created[1].ID}); err != nil {
		t.Fatalf("toplu silme başarısız: %v", err)
	}

	again, err := DivideStock(db, stock.ID, 10, 1)
	if err != nil {
		t.Fatalf("kısmi geri alma sonrası bölme başarısız: %v", err)
	}
	if again[0].RollNo != "SHZ2608001D" {
		t.Errorf("rulo no SHZ2608001D beklenirken %q", again[0].RollNo)
	}
}

func TestRollSuffix(t *testing.T) {
	cases := map[int]string{
		0:  "A",
		1:  "B",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for in, want := range cases {
		if got := rollSuffix(in); got != want {
			t.Errorf("rollSuffix(%d) = %q, beklenen %q", in, got, want)
		}
		if got := suffixIndex(want); got != in {
			t.Errorf("suffixIndex(%q) = %d, beklenen %d", want, got, in)
		}
	}
}

func TestBulkDeleteDivided(t *testing.T) {
	db := newTestDB(t)
	stockA := newTestStock(t, db, "SHZ2608001", 100, 500)
	stockB := newTestStock(t, db, "SHZ2608002", 200, 800)

	createdA, err := DivideStock(db, stockA.ID, 20, 3) // kalan 40
	if err != nil {
		t.Fatalf("bölme başarısız: %v", err)
	}
	createdB, err := DivideStock(db, stockB.ID, 50, 2) // kalan 100
	if err != nil {
		t.Fatalf("bölme başarısız: %v", err)
	}

	// Farklı ana rulolara yayılan karışık liste
	ids := []uint{createdA[0].ID, createdA[2].ID, createdB[1].ID}
	n, err := BulkDeleteDivided(db, ids)
	if err != nil {
		t.Fatalf("toplu silme başarısız: %v", err)
	}
	if n != 3 {
		t.Errorf("3 silme beklenirken %d", n)
	}

	var afterA, afterB models.Stock
	db.First(&afterA, "id = ?", stockA.ID)
	db.First(&afterB, "id = ?", stockB.ID)
	if afterA.RemainingLength != 80 { // 40 + 2*20
		t.Errorf("stok A kalanı 80 beklenirken %.2f", afterA.RemainingLength)
	}
	if afterB.RemainingLength != 150 { // 100 + 50
		t.Errorf("stok B kalanı 150 beklenirken %.2f", afterB.RemainingLength)
	}

	var gone models.Divided
	if err := db.First(&gone, "id = ?", createdA[0].ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("silinen alt rulo hâlâ okunabiliyor")
	}
}

func TestDivisionReversalRoundTrip(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)

	created, err := DivideStock(db, stock.ID, 30, 3)
	if err != nil {
		t.Fatalf("bölme başarısız: %v", err)
	}

	ids := make([]uint, 0, len(created))
	for _, d := range created {
		ids = append(ids, d.ID)
	}
	if _, err := BulkDeleteDivided(db, ids); err != nil {
		t.Fatalf("toplu silme başarısız: %v", err)
	}

	var after models.Stock
	db.First(&after, "id = ?", stock.ID)
	if after.RemainingLength != 100 {
		t.Errorf("tam geri alma kalanı başlangıca döndürmeli: %.2f", after.RemainingLength)
	}
}

func TestBulkDeleteDividedEmptyTargets(t *testing.T) {
	db := newTestDB(t)

	if _, err := BulkDeleteDivided(db, []uint{42}); !errors.Is(err, ErrDividedNotFound) {
		t.Fatalf("ErrDividedNotFound beklenirken: %v", err)
	}
}

func TestInspectStock(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)
	user := &models.User{Name: "Kontrolcü", Email: "qc@example.com", PasswordHash: "x", Role: models.RoleFactory}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}

	inspected, logRow, err := InspectStock(db, stock.ID, user, "yüzey temiz")
	if err != nil {
		t.Fatalf("denetim başarısız: %v", err)
	}
	if !inspected.IsInspected || inspected.InspectedAt == nil {
		t.Error("denetim bayrağı ve zamanı set edilmeli")
	}
	if inspected.InspectedByName != "Kontrolcü" {
		t.Errorf("denetleyen adı yanlış: %q", inspected.InspectedByName)
	}
	if logRow.ItemRollNo != "SHZ2608001" || logRow.ItemType != models.InspectionItemStock {
		t.Errorf("log rulo numarası ile tutulmalı: %+v", logRow)
	}
	if logRow.Note != "yüzey temiz" {
		t.Errorf("log notu yanlış: %q", logRow.Note)
	}
}

func TestInspectTwiceKeepsFlagAddsLog(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)
	user := &models.User{Name: "Kontrolcü", Email: "qc@example.com", PasswordHash: "x", Role: models.RoleFactory}
	db.Create(user)

	if _, _, err := InspectStock(db, stock.ID, user, ""); err != nil {
		t.Fatalf("ilk denetim başarısız: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	inspected, _, err := InspectStock(db, stock.ID, user, "tekrar kontrol")
	if err != nil {
		t.Fatalf("ikinci denetim başarısız: %v", err)
	}

	if !inspected.IsInspected {
		t.Error("ikinci denetim bayrağı geri çevirmemeli")
	}

	var logCount int64
	db.Model(&models.InspectionLog{}).Where("item_roll_no = ?", stock.RollNo).Count(&logCount)
	if logCount != 2 {
		t.Errorf("2 log satırı beklenirken %d", logCount)
	}
}

func TestInspectDivided(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)
	user := &models.User{Name: "Kontrolcü", Email: "qc@example.com", PasswordHash: "x", Role: models.RoleFactory}
	db.Create(user)

	created, err := DivideStock(db, stock.ID, 25, 1)
	if err != nil {
		t.Fatalf("bölme başarısız: %v", err)
	}

	divided, logRow, err := InspectDivided(db, created[0].ID, user, "")
	if err != nil {
		t.Fatalf("denetim başarısız: %v", err)
	}
	if !divided.IsInspected {
		t.Error("denetim bayrağı set edilmeli")
	}
	if logRow.ItemType != models.InspectionItemDivided || logRow.ItemRollNo != "SHZ2608001A" {
		t.Errorf("log alanları yanlış: %+v", logRow)
	}

	if _, _, err := InspectDivided(db, 999, user, ""); !errors.Is(err, ErrDividedNotFound) {
		t.Errorf("ErrDividedNotFound beklenirken: %v", err)
	}
}

func TestDeleteStockWithChildren(t *testing.T) {
	db := newTestDB(t)
	stock := newTestStock(t, db, "SHZ2608001", 100, 500)

	created, err := DivideStock(db, stock.ID, 10, 1)
	if err != nil {
		t.Fatalf("bölme başarısız: %v", err)
	}

	if err := DeleteStock(db, stock.ID); !errors.Is(err, ErrStockHasChilds) {
		t.Fatalf("ErrStockHasChilds beklenirken: %v", err)
	}

	if _, err := BulkDeleteDivided(db, []uint{created[0].ID}); err != nil {
		t.Fatalf("toplu silme başarısız: %v", err)
	}
	if err := DeleteStock(db, stock.ID); err != nil {
		t.Fatalf("alt ruloları silinmiş stok silinebilmeli: %v", err)
	}
}
