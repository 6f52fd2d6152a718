package layout

import (
	"errors"
	"image"
)

var errNoPage = errors.New("draw before the first page was added")

// Collector is a PageSink that records every placement into a Result.
type Collector struct {
	pages []Page
	fonts map[string]FontResource
}

var _ PageSink = (*Collector)(nil)

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{fonts: map[string]FontResource{}}
}

func (c *Collector) NewPage(width, height float64) error {
	if width <= 0 || height <= 0 {
		return errors.New("page size must be positive")
	}
	c.pages = append(c.pages, Page{Width: width, Height: height})
	return nil
}

func (c *Collector) DrawImage(img image.Image, label string, rect Rect) error {
	page, err := c.curr()
	if err != nil {
		return err
	}
	if img == nil {
		return errors.New("nil image")
	}
	page.Images = append(page.Images, ImageBox{
		Path:   "barcode:" + label,
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.Width,
		Height: rect.Height,
		Image:  img,
	})
	return nil
}

func (c *Collector) DrawText(text string, rect Rect, style TextStyle) error {
	page, err := c.curr()
	if err != nil {
		return err
	}
	if _, ok := c.fonts[style.Font]; !ok && style.Font != "" {
		c.fonts[style.Font] = FontResource{Name: style.Font}
	}
	page.Texts = append(page.Texts, TextBox{
		Content:  text,
		X:        rect.X,
		Y:        rect.Y,
		Width:    rect.Width,
		Height:   rect.Height,
		Font:     style.Font,
		FontSize: style.FontSize,
		Color:    style.Color,
		Align:    style.Align,
		VAlign:   style.VAlign,
	})
	return nil
}

func (c *Collector) curr() (*Page, error) {
	if len(c.pages) == 0 {
		return nil, errNoPage
	}
	return &c.pages[len(c.pages)-1], nil
}

// Result returns the recorded pages. The Collector must not be reused.
func (c *Collector) Result() *Result {
	return &Result{
		Pages:     c.pages,
		Resources: ResourceSet{Fonts: c.fonts},
	}
}

// SliceSource is a RowSource over an in-memory slice.
type SliceSource struct {
	records []LabelRecord
	next    int
}

var _ RowSource = (*SliceSource)(nil)

// NewSliceSource returns a RowSource yielding records in order.
func NewSliceSource(records []LabelRecord) *SliceSource {
	return &SliceSource{records: records}
}

func (s *SliceSource) Next() (LabelRecord, bool, error) {
	if s.next >= len(s.records) {
		return LabelRecord{}, false, nil
	}
	rec := s.records[s.next]
	s.next++
	return rec, true, nil
}
