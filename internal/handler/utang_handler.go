package handler

import (
	"go-tindahan-pos/internal/model"
	"go-tindahan-pos/internal/repository"
	"go-tindahan-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UtangHandler struct {
	service service.LedgerService
}

func NewUtangHandler(s service.LedgerService) *UtangHandler {
	return &UtangHandler{service: s}
}

// GetUtangRecords lists credit records, optionally filtered.
// Query params: customer_id, status (unpaid|partial|paid)
func (h *UtangHandler) GetUtangRecords(c *fiber.Ctx) error {
	var filter repository.UtangFilter

	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid customer_id filter"})
		}
		filter.CustomerID = &customerID
	}
	if raw := c.Query("status"); raw != "" {
		switch model.UtangStatus(raw) {
		case model.UtangUnpaid, model.UtangPartial, model.UtangPaid:
			filter.Status = model.UtangStatus(raw)
		default:
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status filter"})
		}
	}

	records, err := h.service.GetUtangRecords(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(records)
}

func (h *UtangHandler) GetUtangRecord(c *fiber.Ctx) error {
	recordID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid utang record ID"})
	}

	record, err := h.service.GetUtangRecordByID(recordID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(record)
}

func (h *UtangHandler) ApplyPayment(c *fiber.Ctx) error {
	recordID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid utang record ID"})
	}

	var req service.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.ApplyPayment(recordID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Payment applied", "data": updated})
}
