package orders

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// DownloadReceipt renders a PDF receipt for an order the caller may
// read. The QR code carries the order id for pickup verification.
func DownloadReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	order, ok := loadOrderForReader(w, r, ps.ByName("id"), user)
	if !ok {
		return
	}

	qrPNG, err := qrcode.Encode(order.OrderID, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "AgroSustain Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Placed: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Ship to: %s, %s %s, %s",
		order.ShippingAddress.Address, order.ShippingAddress.City,
		order.ShippingAddress.PostalCode, order.ShippingAddress.Country))
	pdf.Ln(12)

	for _, item := range order.OrderItems {
		pdf.Cell(0, 8, fmt.Sprintf("%d x %s @ %.2f = %.2f",
			item.Quantity, item.Name, item.Price, float64(item.Quantity)*item.Price))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.Cell(0, 8, fmt.Sprintf("Items: %.2f", order.ItemsPrice))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Shipping: %.2f", order.ShippingPrice))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Tax: %.2f", order.TaxPrice))
	pdf.Ln(7)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.TotalPrice))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
