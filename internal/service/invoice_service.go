package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/models"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// InvoiceService 生成 A4 PDF 发票
type InvoiceService struct {
	cfg            *config.Config
	settingService *SettingService
}

// NewInvoiceService 创建发票服务
func NewInvoiceService(cfg *config.Config, settingService *SettingService) *InvoiceService {
	return &InvoiceService{cfg: cfg, settingService: settingService}
}

type invoiceHeader struct {
	Name    string
	Address string
	Phone   string
	TaxID   string
	Footer  string
}

type invoiceLine struct {
	Description string
	Size        string
	Quantity    int
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

type invoiceData struct {
	Title          string
	Number         string
	IssuedOn       string
	ServiceDate    string
	CustomerName   string
	CustomerPhone  string
	Address        string
	Lines          []invoiceLine
	Note           string
	TaxRate        decimal.Decimal
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	DeliveryCharge decimal.Decimal
	Discount       decimal.Decimal
	AdvancePaid    decimal.Decimal
	Total          decimal.Decimal
	Pending        decimal.Decimal
	PaymentState   string
}

// RenderCateringOrder 餐饮订单发票
func (s *InvoiceService) RenderCateringOrder(order *models.CateringOrder) ([]byte, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	data := invoiceData{
		Title:          "Catering Invoice",
		Number:         order.OrderNo,
		IssuedOn:       formatDate(order.CreatedAt),
		ServiceDate:    strings.TrimSpace(formatDate(order.DeliveryDate) + " " + order.DeliveryTime),
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		Address:        order.DeliveryAddress,
		Note:           order.Note,
		TaxRate:        order.TaxRate,
		Subtotal:       order.Subtotal.Decimal,
		Tax:            order.TaxAmount.Decimal,
		DeliveryCharge: order.DeliveryCharge.Decimal,
		Discount:       order.Discount.Decimal,
		AdvancePaid:    order.AdvancePaid.Decimal,
		Total:          order.TotalAmount.Decimal,
		Pending:        order.PendingBalance.Decimal,
		PaymentState:   order.PaymentState(),
	}
	for _, item := range order.Items {
		data.Lines = append(data.Lines, invoiceLine{
			Description: item.Name,
			Size:        item.Size.String(),
			Quantity:    item.Quantity,
			UnitPrice:   item.PriceAtOrder,
			Amount:      item.LineTotal(),
		})
	}
	for _, item := range order.CustomItems {
		data.Lines = append(data.Lines, invoiceLine{
			Description: item.Name,
			Size:        item.Size,
			Quantity:    1,
			UnitPrice:   item.PriceAtOrder,
			Amount:      item.PriceAtOrder.Round(2),
		})
	}
	return s.render(data)
}

// RenderTiffinOrder 包月订阅发票
func (s *InvoiceService) RenderTiffinOrder(order *models.TiffinOrder) ([]byte, error) {
	if order == nil {
		return nil, ErrTiffinNotFound
	}
	qty := order.DeliveryDayCount * order.TiffinsPerDay
	data := invoiceData{
		Title:          "Tiffin Subscription Invoice",
		Number:         order.SubscriptionNo,
		IssuedOn:       formatDate(order.CreatedAt),
		ServiceDate:    formatDate(order.StartDate) + " ~ " + formatDate(order.EndDate),
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		Address:        order.DeliveryAddress,
		Note:           order.Note,
		TaxRate:        order.TaxRate,
		Subtotal:       order.Subtotal.Decimal,
		Tax:            order.TaxAmount.Decimal,
		DeliveryCharge: order.DeliveryCharge.Decimal,
		Discount:       order.Discount.Decimal,
		AdvancePaid:    order.AdvancePaid.Decimal,
		Total:          order.TotalAmount.Decimal,
		Pending:        order.PendingBalance.Decimal,
		PaymentState:   order.PaymentState(),
		Lines:          []invoiceLine{{
			Description: fmt.Sprintf("%s (%s, %d days x %d)", order.PlanName, order.MealType, order.DeliveryDayCount, order.TiffinsPerDay),
			Size:        strings.Join(order.DeliveryDays, ","),
			Quantity:    qty,
			UnitPrice:   order.PricePerTiffin.Decimal,
			Amount:      order.PricePerTiffin.Decimal.Mul(decimal.NewFromInt(int64(qty))).Round(2),
		}},
	}
	return s.render(data)
}

func (s *InvoiceService) header() invoiceHeader {
	h := invoiceHeader{}
	if s.cfg != nil {
		h = invoiceHeader{
			Name:    s.cfg.Invoice.BusinessName,
			Address: s.cfg.Invoice.BusinessAddress,
			Phone:   s.cfg.Invoice.BusinessPhone,
			TaxID:   s.cfg.Invoice.TaxID,
			Footer:  s.cfg.Invoice.Footer,
		}
	}
	if s.settingService == nil {
		return h
	}
	value, err := s.settingService.GetByKey(constants.SettingKeyBusinessConfig)
	if err != nil || value == nil {
		return h
	}
	override := func(target *string, field string) {
		if raw, ok := value[field].(string); ok && strings.TrimSpace(raw) != "" {
			*target = raw
		}
	}
	override(&h.Name, constants.SettingFieldBusinessName)
	override(&h.Address, constants.SettingFieldBusinessAddress)
	override(&h.Phone, constants.SettingFieldBusinessPhone)
	override(&h.Footer, constants.SettingFieldInvoiceFooter)
	return h
}

func (s *InvoiceService) currency() string {
	if s.cfg != nil && s.cfg.Order.Currency != "" {
		return s.cfg.Order.Currency
	}
	return "USD"
}

func (s *InvoiceService) render(data invoiceData) ([]byte, error) {
	header := s.header()
	currency := s.currency()
	money := func(d decimal.Decimal) string {
		return currency + " " + d.StringFixed(2)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(data.Title+" "+data.Number, true)
	pdf.SetCreator(header.Name, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		if header.Footer != "" {
			pdf.CellFormat(0, 5, tr(header.Footer), "", 1, "C", false, 0, "")
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, tr(header.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range []string{header.Address, header.Phone} {
		if strings.TrimSpace(line) != "" {
			pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	if header.TaxID != "" {
		pdf.CellFormat(0, 5, tr("Tax ID: "+header.TaxID), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 7, tr(data.Title), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, tr("No. "+data.Number), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, tr("Issued: "+data.IssuedOn), "", 1, "R", false, 0, "")
	if data.ServiceDate != "" {
		pdf.CellFormat(0, 5, tr("Delivery: "+data.ServiceDate), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Bill To", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, tr(data.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(data.CustomerPhone), "", 1, "L", false, 0, "")
	if data.Address != "" {
		pdf.MultiCell(0, 5, tr(data.Address), "", "L", false)
	}

	pdf.Ln(4)
	widths := []float64{80, 25, 15, 30, 30}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, title := range []string{"Item", "Size", "Qty", "Unit", "Amount"} {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, title, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, line := range data.Lines {
		pdf.CellFormat(widths[0], 6, tr(truncateRunes(line.Description, 48)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(line.Size), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, line.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	labelWidth, valueWidth := 150.0, 30.0
	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", money(data.Subtotal), false},
		{fmt.Sprintf("Tax (%s%%)", data.TaxRate.StringFixed(2)), money(data.Tax), false},
		{"Delivery", money(data.DeliveryCharge), false},
		{"Total", money(data.Total), true},
		{"Discount", "-" + money(data.Discount), false},
		{"Advance paid", "-" + money(data.AdvancePaid), false},
		{"Balance due", money(data.Pending), true},
	}
	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 9)
		pdf.CellFormat(labelWidth, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(valueWidth, 6, row.value, "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Payment status: "+data.PaymentState, "", 1, "R", false, 0, "")

	if strings.TrimSpace(data.Note) != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(0, 5, "Note", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr(data.Note), "", "L", false)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvoiceRender, err)
	}
	return out.Bytes(), nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "..."
}
