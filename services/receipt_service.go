package services

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	config "github.com/gurukul/gurukul-backend/configs"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

//go:embed templates/receipt.html
var receiptFS embed.FS

var receiptTemplate = template.Must(template.ParseFS(receiptFS, "templates/receipt.html"))

const receiptTimeout = 30 * time.Second

type receiptData struct {
	Code     string
	Date     string
	Student  string
	Guru     string
	Amount   string
	Currency string
	Paid     bool
}

// LoadReceiptTransaction fetches a transaction with both parties for rendering.
func LoadReceiptTransaction(db *gorm.DB, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := db.Preload("Guru", selectRef).Preload("Student", selectRef).First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load transaction")
	}
	return &txn, nil
}

func RenderReceiptHTML(txn *models.Transaction) (string, error) {
	data := receiptData{
		Code:     txn.TransactionID,
		Date:     txn.Date.Format("January 2, 2006"),
		Amount:   txn.Amount.StringFixed(2),
		Currency: config.Config("PAYMENT_CURRENCY"),
		Paid:     txn.PaidToTeacher,
	}
	if txn.Student != nil {
		data.Student = txn.Student.Username
	}
	if txn.Guru != nil {
		data.Guru = txn.Guru.Username
	}

	var rendered bytes.Buffer
	if err := receiptTemplate.Execute(&rendered, data); err != nil {
		return "", errors.Wrap(err, "render receipt")
	}
	return rendered.String(), nil
}

// PrintPDF prints an HTML document to PDF with a headless browser.
func PrintPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, receiptTimeout)
	defer cancel()
	ctx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "print pdf")
	}
	return pdfBuffer, nil
}
