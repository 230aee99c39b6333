// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfmask paints an opaque band over the bottom of every page of a
// PDF document, hiding footers such as generator watermarks.
package pdfmask

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"maps"
	"path/filepath"
	"strconv"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/pdiddy/fetchsub/internal/errors"
)

const (
	// DefaultHeight is the band height in PDF points.
	DefaultHeight = 50.0

	pdfExt         = ".pdf"
	defaultOutName = "document-clean" + pdfExt
)

// letter is the US Letter media box used when a page tree declares none.
var letter = pdf.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792}

// Options configures the mask.
type Options struct {
	// Height of the band measured up from the bottom of the media box.
	Height float64
	// Color fills the band. Alpha is ignored.
	Color color.RGBA
}

// DefaultOptions returns a 50pt white band.
func DefaultOptions() Options {
	return Options{Height: DefaultHeight, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
}

// Report describes what Mask did.
type Report struct {
	Pages int
}

// Changes returns the report as counters for batch reporting.
func (r Report) Changes() map[string]int {
	return map[string]int{"pages_masked": r.Pages}
}

// Mask returns a copy of the PDF in data with a band painted at the bottom of
// every page. The page count and the existing content streams are preserved;
// the band is drawn after them, inside its own graphics state.
func Mask(data []byte, opts Options) ([]byte, Report, error) {
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		return nil, Report{}, errors.Wrapf(errors.ErrMalformedInput, "reading pdf: %v", err)
	}
	defer r.Close()

	pages, err := pagetree.FindPages(r)
	if err != nil {
		return nil, Report{}, errors.Wrapf(errors.ErrMalformedInput, "walking page tree: %v", err)
	}
	if len(pages) == 0 {
		return nil, Report{}, errors.Wrap(errors.ErrMalformedInput, "document has no pages")
	}

	var out bytes.Buffer
	w, err := pdf.NewWriter(&out, pdf.GetVersion(r), nil)
	if err != nil {
		return nil, Report{}, fmt.Errorf("creating pdf writer: %w", err)
	}
	c := pdf.NewCopier(w, r)

	// Pages are written by maskPage; the copier must point every Kids and
	// Parent link at those objects instead of copying the originals.
	targets := make([]pdf.Reference, len(pages))
	for i, ref := range pages {
		if ref == 0 {
			return nil, Report{}, errors.Wrapf(errors.ErrMalformedInput, "page %d is not an indirect object", i+1)
		}
		targets[i] = w.Alloc()
		c.Redirect(ref, targets[i])
	}

	pre, err := addStream(w, []byte("q\n"))
	if err != nil {
		return nil, Report{}, err
	}

	var rep Report
	for i, ref := range pages {
		if err := maskPage(r, w, c, ref, targets[i], pre, opts); err != nil {
			return nil, rep, errors.Wrapf(errors.ErrMalformedInput, "page %d: %v", i+1, err)
		}
		rep.Pages++
	}

	catalog, err := c.CopyDict(pdf.AsDict(r.GetMeta().Catalog))
	if err != nil {
		return nil, rep, errors.Wrapf(errors.ErrMalformedInput, "copying catalog: %v", err)
	}
	newCatalog, err := pdf.ExtractCatalog(w, catalog)
	if err != nil {
		return nil, rep, errors.Wrapf(errors.ErrMalformedInput, "copying catalog: %v", err)
	}
	meta := w.GetMeta()
	meta.Catalog = newCatalog
	meta.Info = r.GetMeta().Info
	meta.ID = r.GetMeta().ID

	if err := w.Close(); err != nil {
		return nil, rep, fmt.Errorf("writing pdf: %w", err)
	}
	return out.Bytes(), rep, nil
}

// maskPage writes the page at ref to target with Contents set to
// [pre, existing..., band].
func maskPage(r pdf.Getter, w *pdf.Writer, c *pdf.Copier, ref, target, pre pdf.Reference, opts Options) error {
	page, err := pdf.GetDict(r, ref)
	if err != nil {
		return err
	}

	box, err := mediaBox(r, page)
	if err != nil {
		return err
	}

	existing, err := contents(r, page["Contents"])
	if err != nil {
		return err
	}

	post, err := addStream(w, bandOps(box, opts))
	if err != nil {
		return err
	}

	all := make(pdf.Array, 0, len(existing)+2)
	all = append(all, pre)
	for _, obj := range existing {
		if obj == nil {
			continue
		}
		copied, err := c.Copy(obj.AsPDF(w.GetOptions()))
		if err != nil {
			return err
		}
		all = append(all, copied)
	}
	all = append(all, post)

	rest := maps.Clone(page)
	delete(rest, "Contents")
	updated, err := c.CopyDict(rest)
	if err != nil {
		return err
	}
	updated["Contents"] = all
	return w.Put(target, updated)
}

// mediaBox returns the page's MediaBox, following Parent links for the
// inherited value.
func mediaBox(r pdf.Getter, page pdf.Dict) (pdf.Rectangle, error) {
	node := page
	for depth := 0; node != nil && depth < 64; depth++ {
		if obj, ok := node["MediaBox"]; ok {
			rect, err := pdf.GetRectangle(r, obj)
			if err != nil {
				return pdf.Rectangle{}, err
			}
			if rect != nil {
				return *rect, nil
			}
		}
		parent, err := pdf.GetDict(r, node["Parent"])
		if err != nil {
			return pdf.Rectangle{}, err
		}
		node = parent
	}
	return letter, nil
}

// contents flattens a page's Contents entry into a list of stream
// references, keeping each entry exactly as it was.
func contents(r pdf.Getter, obj pdf.Object) (pdf.Array, error) {
	if obj == nil {
		return nil, nil
	}
	if ref, ok := obj.(pdf.Reference); ok {
		resolved, err := pdf.Resolve(r, ref)
		if err != nil {
			return nil, err
		}
		if arr, ok := resolved.(pdf.Array); ok {
			return append(pdf.Array{}, arr...), nil
		}
		return pdf.Array{ref}, nil
	}
	arr, err := pdf.GetArray(r, obj)
	if err != nil {
		return nil, err
	}
	return append(pdf.Array{}, arr...), nil
}

func addStream(w *pdf.Writer, body []byte) (pdf.Reference, error) {
	ref := w.Alloc()
	sw, err := w.OpenStream(ref, nil)
	if err != nil {
		return 0, fmt.Errorf("opening stream: %w", err)
	}
	if _, err := io.Copy(sw, bytes.NewReader(body)); err != nil {
		sw.Close()
		return 0, fmt.Errorf("writing stream: %w", err)
	}
	if err := sw.Close(); err != nil {
		return 0, fmt.Errorf("closing stream: %w", err)
	}
	return ref, nil
}

// bandOps returns the operators that close the page's graphics state and
// fill the band.
func bandOps(box pdf.Rectangle, opts Options) []byte {
	width := box.URx - box.LLx
	height := min(opts.Height, box.URy-box.LLy)

	var b strings.Builder
	b.WriteString("\nQ\nq\n")
	fmt.Fprintf(&b, "%s %s %s rg\n",
		num(float64(opts.Color.R)/255), num(float64(opts.Color.G)/255), num(float64(opts.Color.B)/255))
	fmt.Fprintf(&b, "%s %s %s %s re\nf\nQ\n",
		num(box.LLx), num(box.LLy), num(width), num(height))
	return []byte(b.String())
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// ParseColor accepts "white", "black" or a "#rrggbb" hex triple.
func ParseColor(s string) (color.RGBA, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "white":
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}, nil
	case "black":
		return color.RGBA{A: 255}, nil
	}
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, errors.Wrapf(errors.ErrInvalidConfig, "mask color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(errors.ErrInvalidConfig, "mask color %q: %v", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// OutputName maps report.pdf to report-clean.pdf.
func OutputName(name string) string {
	base := filepath.Base(name)
	if name == "" || base == "." || base == "/" {
		return defaultOutName
	}
	if strings.EqualFold(filepath.Ext(base), pdfExt) {
		base = base[:len(base)-len(pdfExt)]
	}
	return base + "-clean" + pdfExt
}
