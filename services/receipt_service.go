package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/storage"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const receiptTimeout = 45 * time.Second

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1f2933; margin: 48px; }
h1 { font-size: 22px; margin-bottom: 4px; }
.muted { color: #7b8794; font-size: 12px; }
table { width: 100%; border-collapse: collapse; margin-top: 32px; }
td { padding: 8px 0; border-bottom: 1px solid #e4e7eb; }
td.amount { text-align: right; }
tr.total td { font-weight: bold; border-bottom: none; }
</style>
</head>
<body>
<h1>Purchase receipt</h1>
<div class="muted">Receipt {{.PurchaseID}} &middot; {{.Date}}</div>
<p>Billed to {{.StudentName}}</p>
<table>
<tr><td>{{.Title}}</td><td class="amount">{{.Amount}}</td></tr>
<tr class="total"><td>Total paid</td><td class="amount">{{.Amount}}</td></tr>
</table>
</body>
</html>`))

type receiptStore interface {
	SetMaterialReceiptURL(ctx context.Context, id uuid.UUID, url string) error
	SetCourseReceiptURL(ctx context.Context, id uuid.UUID, url string) error
}

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer func(ctx context.Context, html string) ([]byte, error)

// ReceiptService renders a PDF receipt for every purchase and stores it as an asset.
// Failures are logged; the purchase itself is never affected.
type ReceiptService struct {
	purchases receiptStore
	users     userReader
	assets    storage.AssetStore
	render    PDFRenderer
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func NewReceiptService(purchases receiptStore, users userReader, assets storage.AssetStore, render PDFRenderer, logger *zap.Logger) *ReceiptService {
	if render == nil {
		render = ChromePDF
	}
	return &ReceiptService{purchases: purchases, users: users, assets: assets, render: render, logger: logger}
}

// Handle is an events.Handler. Rendering runs in the background.
func (s *ReceiptService) Handle(_ context.Context, event events.Event) {
	if event.Kind != events.MaterialPurchased && event.Kind != events.CoursePurchased {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), receiptTimeout)
		defer cancel()
		if _, err := s.Generate(ctx, event); err != nil {
			s.logger.Error("receipt generation failed", zap.String("purchase_id", event.EntityID), zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight receipts are done.
func (s *ReceiptService) Wait() {
	s.wg.Wait()
}

func (s *ReceiptService) Generate(ctx context.Context, event events.Event) (string, error) {
	purchaseID, err := uuid.Parse(event.EntityID)
	if err != nil {
		return "", fmt.Errorf("purchase id %q: %w", event.EntityID, err)
	}

	studentName := "Student"
	if student, err := s.users.GetByID(ctx, event.ActorID); err == nil {
		studentName = student.FullName
	}
	title := ""
	if payload, ok := event.Payload.(map[string]interface{}); ok {
		title, _ = payload["title"].(string)
	}

	var html bytes.Buffer
	err = receiptTemplate.Execute(&html, struct {
		PurchaseID  string
		Date        string
		StudentName string
		Title       string
		Amount      string
	}{
		PurchaseID:  purchaseID.String(),
		Date:        event.OccurredAt.Format("January 2, 2006"),
		StudentName: studentName,
		Title:       title,
		Amount:      fmt.Sprintf("%.2f", event.Amount),
	})
	if err != nil {
		return "", err
	}

	pdf, err := s.render(ctx, html.String())
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}

	url, err := s.assets.Store(ctx, storage.Upload{
		Reader:   bytes.NewReader(pdf),
		Filename: "receipt-" + purchaseID.String() + ".pdf",
		Size:     int64(len(pdf)),
		OwnerID:  event.ActorID,
	}, storage.CategoryReceipt)
	if err != nil {
		return "", fmt.Errorf("store receipt: %w", err)
	}

	if event.Kind == events.CoursePurchased {
		err = s.purchases.SetCourseReceiptURL(ctx, purchaseID, url)
	} else {
		err = s.purchases.SetMaterialReceiptURL(ctx, purchaseID, url)
	}
	if err != nil {
		return "", err
	}
	s.logger.Info("receipt stored", zap.String("purchase_id", purchaseID.String()), zap.String("url", url))
	return url, nil
}

// ChromePDF prints HTML to PDF with a headless Chrome.
func ChromePDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

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
		return nil, err
	}
	return pdfBuffer, nil
}
