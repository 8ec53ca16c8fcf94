package export

import (
	"fmt"
	"io"
	"os"

	"FlipCards/internal/state"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 297.0
	pageHeight = 210.0
	margin     = 10.0
	headerGap  = 8.0
	minLine    = 0.2
)

// face is one printable side of a card.
type face struct {
	card    int
	front   bool
	strokes []state.Stroke
}

func printableFaces(p *state.Project) []face {
	var faces []face
	for i, c := range p.Cards() {
		for _, front := range []bool{true, false} {
			if strokes := c.Strokes(front); len(strokes) > 0 {
				faces = append(faces, face{card: i, front: front, strokes: strokes})
			}
		}
	}
	return faces
}

// WritePDF renders every card face that has strokes onto its own A4
// landscape page. A project without strokes yields a single title page.
func WritePDF(w io.Writer, p *state.Project) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(p.Name, true)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	faces := printableFaces(p)
	if len(faces) == 0 {
		pdf.AddPage()
		pdf.Text(margin, margin, p.Name)
	}
	for _, f := range faces {
		pdf.AddPage()
		side := "front"
		if !f.front {
			side = "back"
		}
		pdf.Text(margin, margin, fmt.Sprintf("%s - card %d (%s)", p.Name, f.card+1, side))

		for _, s := range f.strokes {
			drawStroke(pdf, s)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawStroke fits the stroke's reference surface into the page body,
// keeping its aspect ratio.
func drawStroke(pdf *gofpdf.Fpdf, s state.Stroke) {
	if s.Degenerate() {
		return
	}

	bodyX, bodyY := margin, margin+headerGap
	bodyW, bodyH := pageWidth-2*margin, pageHeight-2*margin-headerGap

	refW, refH := float64(s.Size.Width), float64(s.Size.Height)
	if refW <= 0 || refH <= 0 {
		b := s.Bounds(0)
		refW, refH = float64(b.X+b.Width), float64(b.Y+b.Height)
	}
	if refW <= 0 || refH <= 0 {
		return
	}
	scale := min(bodyW/refW, bodyH/refH)
	offX := bodyX + (bodyW-refW*scale)/2
	offY := bodyY + (bodyH-refH*scale)/2

	c := s.StrokeColor()
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	pdf.SetAlpha(float64(c.A)/255, "Normal")
	pdf.SetLineWidth(max(float64(s.Width)*scale, minLine))

	first := s.Points[0]
	pdf.MoveTo(offX+float64(first.X)*scale, offY+float64(first.Y)*scale)
	for _, pt := range s.Points[1:] {
		pdf.LineTo(offX+float64(pt.X)*scale, offY+float64(pt.Y)*scale)
	}
	pdf.DrawPath("D")
	pdf.SetAlpha(1, "Normal")
}

// ExportPDF writes the project to a PDF file at path.
func ExportPDF(path string, p *state.Project) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePDF(f, p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
