package auth

import (
	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser: Oturumdaki kullanıcıyı veritabanından çözer. Servis
// fonksiyonlarına ortam (ambient) erişim yerine açık parametre olarak geçilir.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	userIDVal := c.Locals(CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Oturum bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		// Token geçerli ama kullanıcı tablodan silinmiş
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı kaydı bulunamadı")
	}

	return &user, nil
}
