package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateTransactionRequest struct {
	GuruID        string          `json:"guruId"`
	StudentID     string          `json:"studentId"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          *flexDate       `json:"date"`
	PaidToTeacher bool            `json:"paidToTeacher"`
}

// CreateTransaction records a ledger entry by hand, for payments taken outside a booking.
func CreateTransaction(c *fiber.Ctx) error {
	var req CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	guruID, err := uuid.Parse(req.GuruID)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid or missing guruId")
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid or missing studentId")
	}
	if req.TransactionID == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid or missing transactionId")
	}
	if !req.Amount.IsPositive() {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid or missing amount")
	}

	taken, err := valueTaken(db(c), &models.Transaction{}, "transaction_id", req.TransactionID, uuid.Nil)
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	if taken {
		return utils.Fail(c, fiber.StatusConflict, "Transaction ID already exists")
	}

	txn := models.Transaction{
		GuruID:        guruID,
		StudentID:     studentID,
		TransactionID: req.TransactionID,
		Date:          time.Now(),
		PaidToTeacher: req.PaidToTeacher,
		Amount:        req.Amount,
	}
	if req.Date != nil && !req.Date.IsZero() {
		txn.Date = req.Date.Time
	}
	if err := db(c).Create(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Fail(c, fiber.StatusConflict, "Transaction ID already exists")
		}
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusCreated, "Transaction created successfully", txn)
}

// GetTransactions lists the ledger, newest first. ?paid=true|false filters by settlement.
func GetTransactions(c *fiber.Ctx) error {
	q := db(c).Preload("Guru", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "username") }).
		Preload("Student", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "username") }).
		Order("date desc")
	if paid := c.Query("paid"); paid != "" {
		q = q.Where("paid_to_teacher = ?", paid == "true")
	}

	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	out := make([]models.PopulatedTransaction, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.Populated())
	}
	return utils.Send(c, fiber.StatusOK, "Transactions fetched successfully", out)
}

type PayTeacherRequest struct {
	TransactionID string `json:"transactionId"`
}

// PayTeacher opens a gateway order for the amount of an unsettled transaction.
func PayTeacher(gateway OrderCreator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req PayTeacherRequest
		_ = c.BodyParser(&req)
		if req.TransactionID == "" {
			req.TransactionID = c.Params("id")
		}
		id, err := uuid.Parse(req.TransactionID)
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid or missing transaction ID")
		}

		var txn models.Transaction
		err = db(c).First(&txn, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Transaction not found")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Error processing transaction")
		}
		if txn.PaidToTeacher {
			return utils.Fail(c, fiber.StatusConflict, "Transaction has already been paid to the teacher")
		}

		order, err := gateway.CreateOrder(c.UserContext(), txn.Amount)
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Error processing transaction")
		}
		return utils.Send(c, fiber.StatusOK, "Transaction order created successfully", fiber.Map{
			"order":       order,
			"transaction": txn,
		})
	}
}

// GetReceipt renders a transaction receipt as a PDF for either party or an admin.
func GetReceipt(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid or missing transaction ID")
	}
	txn, err := services.LoadReceiptTransaction(db(c), id)
	if errors.Is(err, services.ErrTransactionNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "Transaction not found")
	}
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	if !actingAs(c, txn.GuruID) && !actingAs(c, txn.StudentID) {
		return utils.Fail(c, fiber.StatusForbidden, "Forbidden: not a party to this transaction")
	}

	page, err := services.RenderReceiptHTML(txn)
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Could not generate receipt")
	}
	pdf, err := services.PrintPDF(c.UserContext(), page)
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Could not generate receipt")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, txn.TransactionID))
	return c.Send(pdf)
}
