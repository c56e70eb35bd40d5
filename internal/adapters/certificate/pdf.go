package certificate

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"eventhubconnect/internal/domain"
)

type pdfRenderer struct {
	issuerName string
}

// NewPDFRenderer returns a CertificateRenderer that produces a single-page
// landscape A4 certificate. issuerName appears as the signing organization.
func NewPDFRenderer(issuerName string) domain.CertificateRenderer {
	return &pdfRenderer{issuerName: issuerName}
}

func (r *pdfRenderer) Render(data *domain.CertificateData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("certificate data is nil")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate of Attendance", false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()

	// Border
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 60, 120)
	pdf.Rect(10, 10, pageW-20, 190, "D")

	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetTextColor(30, 60, 120)
	pdf.SetY(40)
	pdf.CellFormat(0, 16, "Certificate of Attendance", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(8)
	pdf.CellFormat(0, 8, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
	pdf.CellFormat(0, 14, data.AttendeeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(4)
	pdf.CellFormat(0, 8, "attended", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
	pdf.CellFormat(0, 10, data.EventTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(2)
	pdf.CellFormat(0, 8, "held on "+data.EventDate.Format("January 2, 2006"), "", 1, "C", false, 0, "")

	pdf.SetY(165)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, r.issuerName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Issued %s  ·  Serial %s",
		data.IssuedAt.Format("2006-01-02"), data.SerialNumber), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
