package sales

import (
	"strings"

	"texerp-backend/internal/database"
	"texerp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCustomerRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

type CustomerResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	CreatedAt   string `json:"createdAt"`
}

func toCustomerResponse(cu *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          cu.ID,
		Name:        cu.Name,
		ContactName: cu.ContactName,
		Phone:       cu.Phone,
		Email:       cu.Email,
		Address:     cu.Address,
		CreatedAt:   cu.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/sales/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunludur")
		}

		customer := models.Customer{
			Name:        body.Name,
			ContactName: body.ContactName,
			Phone:       body.Phone,
			Email:       body.Email,
			Address:     body.Address,
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Müşteri oluşturulamadı (isim kullanımda olabilir)")
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(&customer))
	}
}

// GET /api/sales/customers
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customers []models.Customer
		if err := database.DB.Order("name ASC").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			resp = append(resp, toCustomerResponse(&customers[i]))
		}

		return c.JSON(resp)
	}
}

// PUT /api/sales/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
		}

		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		if name := strings.TrimSpace(body.Name); name != "" {
			customer.Name = name
		}
		customer.ContactName = body.ContactName
		customer.Phone = body.Phone
		customer.Email = body.Email
		customer.Address = body.Address

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		return c.JSON(toCustomerResponse(&customer))
	}
}
