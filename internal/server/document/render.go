// Package document lays out a memoir booklet as an A4 PDF: a cover, the
// answers as continuous story, the answers as Q&A, the timeline and a
// two-column photo section.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
)

// Booklet is the decrypted content of one category of one account.
type Booklet struct {
	Account  *models.Account
	Category catalog.Category
	Answers  []*models.InterviewAnswer
	Events   []*models.TimelineEvent
	Photos   []*models.Photo
	Created  time.Time
}

// ImageSource opens stored photo bytes by URL.
type ImageSource interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

type rgb struct{ r, g, b int }

var (
	colorTitle    = rgb{0x5C, 0x40, 0x33}
	colorAccent   = rgb{0x8B, 0x73, 0x55}
	colorRule     = rgb{0xC4, 0xA8, 0x82}
	colorBody     = rgb{0x2C, 0x2C, 0x2C}
	colorMuted    = rgb{0x66, 0x66, 0x66}
	colorQuestion = rgb{0x6B, 0x4F, 0x3A}
)

const (
	marginX     = 25.0
	marginY     = 20.0
	pageWidth   = 210.0
	contentW    = pageWidth - 2*marginX
	photoW      = 78.0
	photoH      = 56.0
	photoGap    = 5.0
	unanswered  = "未回答"
	fontFamily  = "memo"
	maxImageLen = 20 << 20
)

type Renderer struct {
	fontPath string
	images   ImageSource
	log      logging.Logger
}

func NewRenderer(fontPath string, images ImageSource, log logging.Logger) *Renderer {
	return &Renderer{fontPath: fontPath, images: images, log: log}
}

// page wraps fpdf with the font fallback: a UTF-8 TTF when available,
// otherwise core Helvetica with text translated to cp1252.
type page struct {
	*fpdf.Fpdf
	family string
	utf8   bool
	tr     func(string) string
}

func (p *page) font(size float64, bold bool) {
	style := ""
	if bold && !p.utf8 {
		style = "B"
	}
	p.SetFont(p.family, style, size)
}

func (p *page) color(c rgb) { p.SetTextColor(c.r, c.g, c.b) }

func (p *page) rule() {
	p.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	p.SetLineWidth(0.3)
	y := p.GetY()
	p.Line(marginX, y, pageWidth-marginX, y)
}

func (p *page) text(w, h float64, s, align string) {
	p.MultiCell(w, h, p.tr(s), "", align, false)
}

func (r *Renderer) newPage() *page {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	p := &page{Fpdf: pdf, family: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if r.fontPath != "" {
		if _, err := os.Stat(r.fontPath); err == nil {
			pdf.AddUTF8Font(fontFamily, "", r.fontPath)
			if pdf.Ok() {
				p.family, p.utf8 = fontFamily, true
				p.tr = func(s string) string { return s }
			} else {
				pdf.ClearError()
			}
		}
	}
	return p
}

// Render writes the PDF for b to w.
func (r *Renderer) Render(ctx context.Context, b *Booklet, w io.Writer) error {
	p := r.build(ctx, b)
	if err := p.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func (r *Renderer) build(ctx context.Context, b *Booklet) *page {
	labels := catalog.LabelsFor(b.Category)
	p := r.newPage()
	p.SetTitle(b.Account.Name+labels.CategoryNoun, p.utf8)

	r.cover(p, b, labels)
	if len(b.Answers) > 0 {
		r.story(p, b, labels)
		r.interview(p, b, labels)
	}
	if len(b.Events) > 0 {
		r.timeline(p, b, labels)
	}
	if len(b.Photos) > 0 {
		r.photos(ctx, p, b, labels)
	}
	return p
}

func (r *Renderer) cover(p *page, b *Booklet, labels catalog.Labels) {
	p.AddPage()
	p.SetY(90)
	p.font(28, true)
	p.color(colorTitle)
	p.text(contentW, 12, b.Account.Name+labels.CategoryNoun, "C")
	p.Ln(4)
	p.font(13, false)
	p.color(colorAccent)
	p.text(contentW, 7, fmt.Sprintf("%d歳", b.Account.Age), "C")
	p.Ln(10)
	p.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	p.Line(55, p.GetY(), pageWidth-55, p.GetY())
	p.Ln(10)
	p.font(11, false)
	p.color(colorMuted)
	p.text(contentW, 6, "作成日: "+b.Created.Format("2006/1/2"), "C")
}

func (r *Renderer) story(p *page, b *Booklet, labels catalog.Labels) {
	p.AddPage()
	p.font(22, true)
	p.color(colorTitle)
	p.text(contentW, 10, labels.StoryTitle, "C")
	p.font(11, false)
	p.color(colorAccent)
	p.text(contentW, 7, fmt.Sprintf("〜 %s %s 〜", b.Account.Name, labels.PossessiveSuffix), "C")
	p.Ln(3)
	p.rule()
	p.Ln(8)

	p.font(12, false)
	p.color(colorBody)
	for _, a := range b.Answers {
		text := strings.TrimSpace(a.AnswerText)
		if text == "" {
			continue
		}
		p.text(contentW, 7, text, "J")
		p.Ln(5)
	}
}

func (r *Renderer) heading(p *page, title string) {
	p.AddPage()
	p.font(18, true)
	p.color(colorTitle)
	p.text(contentW, 9, title, "L")
	p.Ln(2)
	p.rule()
	p.Ln(6)
}

func (r *Renderer) interview(p *page, b *Booklet, labels catalog.Labels) {
	r.heading(p, labels.InterviewTitle)
	for _, a := range b.Answers {
		p.font(11, true)
		p.color(colorQuestion)
		p.text(contentW, 6, fmt.Sprintf("Q%d. %s", a.PromptNumber, a.PromptText), "L")
		p.Ln(1)

		answer := a.AnswerText
		if strings.TrimSpace(answer) == "" {
			answer = unanswered
		}
		p.font(11, false)
		p.color(colorBody)
		p.SetX(marginX + 4)
		p.text(contentW-4, 6, answer, "L")
		p.Ln(4)
	}
}

// eventDate renders 2001年6月, or 2001年 when the month is unknown.
func eventDate(e *models.TimelineEvent) string {
	if e.Month != nil {
		return fmt.Sprintf("%d年%d月", e.Year, *e.Month)
	}
	return fmt.Sprintf("%d年", e.Year)
}

func (r *Renderer) timeline(p *page, b *Booklet, labels catalog.Labels) {
	r.heading(p, labels.TimelineTitle)

	events := append([]*models.TimelineEvent(nil), b.Events...)
	models.SortTimeline(events)

	for _, e := range events {
		p.font(11, true)
		p.color(colorAccent)
		date := p.tr(eventDate(e))
		dateW := p.GetStringWidth(date) + 4
		p.CellFormat(dateW, 6, date, "", 0, "L", false, 0, "")
		p.font(11, false)
		p.color(colorBody)
		p.text(contentW-dateW, 6, e.Title, "L")

		if e.Description != nil && *e.Description != "" {
			p.font(10, false)
			p.color(colorMuted)
			p.SetX(marginX + 8)
			p.text(contentW-8, 5, *e.Description, "L")
		}
		p.Ln(3)
	}
}

func imageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}

func (r *Renderer) loadImage(ctx context.Context, url string) ([]byte, string, error) {
	rc, err := r.images.Open(ctx, url)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxImageLen))
	if err != nil {
		return nil, "", err
	}
	typ := imageType(data)
	if typ == "" {
		return nil, "", errors.New("unsupported image format")
	}
	return data, typ, nil
}

func (r *Renderer) photos(ctx context.Context, p *page, b *Booklet, labels catalog.Labels) {
	r.heading(p, labels.PhotosTitle)
	if r.images == nil {
		return
	}

	_, pageH := p.GetPageSize()
	col := 0
	rowY := p.GetY()
	for i, ph := range b.Photos {
		data, typ, err := r.loadImage(ctx, ph.URL)
		if err != nil {
			r.log.Warn(ctx, "photo skipped in booklet", "photo_id", ph.ID, "error", err)
			continue
		}

		if col == 0 && rowY+photoH+12 > pageH-marginY {
			p.AddPage()
			rowY = p.GetY()
		}
		x := marginX + float64(col)*(photoW+photoGap)
		name := fmt.Sprintf("photo-%d-%d", ph.ID, i)
		opts := fpdf.ImageOptions{ImageType: typ, ReadDpi: true}
		p.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if !p.Ok() {
			r.log.Warn(ctx, "photo skipped in booklet", "photo_id", ph.ID, "error", p.Error())
			p.ClearError()
			continue
		}
		p.ImageOptions(name, x, rowY, photoW, photoH, false, opts, 0, "")

		if ph.Caption != nil && *ph.Caption != "" {
			p.font(9, false)
			p.color(colorMuted)
			p.SetXY(x, rowY+photoH+1)
			p.text(photoW, 4.5, *ph.Caption, "C")
		}

		col++
		if col == 2 {
			col = 0
			rowY += photoH + 14
		}
	}
}
