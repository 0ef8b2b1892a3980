// Package tmx reads TMX translation memory files into external memories.
//
// Each <tu> contributes one record per <tuv> other than its source variant.
// The source variant is the <tuv> whose language equals the requested source
// language, else the first one sharing its base code, else the one in the
// header's srclang. Records carry the language of their own <tuv>, so a
// file with several target languages yields records the matching engine can
// classify individually.
package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/memory"
)

const dateLayout = "20060102T150405Z"

var (
	// ErrNotTMX is returned when the document root is not <tmx>.
	ErrNotTMX = errors.New("not a TMX document")
)

// Options controls how a TMX document is turned into an external memory.
type Options struct {
	// ID names the memory. Load defaults it to the file's base name.
	ID string

	// SourceLanguage is the project source language used to pick source variants.
	// Defaults to the header srclang.
	SourceLanguage core.Language

	// TargetLanguage is the memory's nominal target language.
	TargetLanguage core.Language

	Logger *slog.Logger
}

type document struct {
	XMLName xml.Name `xml:"tmx"`
	Header  header   `xml:"header"`
	Units   []unit   `xml:"body>tu"`
}

type header struct {
	SrcLang string `xml:"srclang,attr"`
}

type unit struct {
	TUID       string    `xml:"tuid,attr"`
	CreationID string    `xml:"creationid,attr"`
	ChangeID   string    `xml:"changeid,attr"`
	Created    string    `xml:"creationdate,attr"`
	Changed    string    `xml:"changedate,attr"`
	Props      []prop    `xml:"prop"`
	Variants   []variant `xml:"tuv"`
}

type prop struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type variant struct {
	// Matches both xml:lang (TMX 1.4) and lang (TMX 1.1).
	Lang       string  `xml:"lang,attr"`
	CreationID string  `xml:"creationid,attr"`
	ChangeID   string  `xml:"changeid,attr"`
	Created    string  `xml:"creationdate,attr"`
	Changed    string  `xml:"changedate,attr"`
	Seg        segment `xml:"seg"`
}

// segment collects the text of a <seg>, dropping native code carried by
// inline elements such as <bpt>, <ept>, <ph> and <it>.
type segment string

func (s *segment) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	skip := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if skip > 0 || isNativeCode(t.Name.Local) {
				skip++
			}
		case xml.EndElement:
			if t.Name == start.Name && skip == 0 {
				*s = segment(b.String())
				return nil
			}
			if skip > 0 {
				skip--
			}
		case xml.CharData:
			if skip == 0 {
				b.Write(t)
			}
		}
	}
}

func isNativeCode(name string) bool {
	switch name {
	case "bpt", "ept", "ph", "it", "ut":
		return true
	}
	return false
}

// Load reads the TMX file at path.
func Load(path string, opts Options) (*memory.ExternalMemory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if opts.ID == "" {
		opts.ID = filepath.Base(path)
	}
	return read(f, opts, path)
}

// Read parses a TMX document from r.
func Read(r io.Reader, opts Options) (*memory.ExternalMemory, error) {
	return read(r, opts, "")
}

func read(r io.Reader, opts Options, path string) (*memory.ExternalMemory, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ID == "" {
		return nil, memory.ErrMemoryIDRequired
	}

	var doc document
	dec := xml.NewDecoder(r)
	dec.Strict = false
	if err := dec.Decode(&doc); err != nil {
		var se xml.UnmarshalError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("%w: %w", ErrNotTMX, err)
		}
		return nil, fmt.Errorf("parse tmx %s: %w", opts.ID, err)
	}

	headerLang := core.NewLanguage(doc.Header.SrcLang)
	sourceLang := opts.SourceLanguage
	if sourceLang.IsZero() {
		sourceLang = headerLang
	}

	records := make([]core.TranslationRecord, 0, len(doc.Units))
	skipped := 0
	for _, tu := range doc.Units {
		src := pickSource(tu.Variants, sourceLang, headerLang)
		if src < 0 {
			skipped++
			continue
		}
		props := unitProperties(tu)
		srcVariant := tu.Variants[src]
		for i, tuv := range tu.Variants {
			if i == src {
				continue
			}
			records = append(records, core.TranslationRecord{
				Source:         string(srcVariant.Seg),
				Translation:    string(tuv.Seg),
				SourceLanguage: core.NewLanguage(srcVariant.Lang),
				TargetLanguage: core.NewLanguage(tuv.Lang),
				Creator:        firstNonEmpty(tuv.CreationID, tu.CreationID),
				Changer:        firstNonEmpty(tuv.ChangeID, tu.ChangeID),
				CreatedAt:      parseDate(firstNonEmpty(tuv.Created, tu.Created)),
				ChangedAt:      parseDate(firstNonEmpty(tuv.Changed, tu.Changed)),
				Properties:     props,
			})
		}
	}
	if skipped > 0 {
		logger.Warn("skipped translation units without a source variant", "memory", opts.ID, "skipped", skipped)
	}
	logger.Debug("parsed tmx", "memory", opts.ID, "units", len(doc.Units), "records", len(records))

	return memory.NewExternalMemory(opts.ID, sourceLang, opts.TargetLanguage, records,
		memory.WithPath(path), memory.WithExternalLogger(logger))
}

// pickSource returns the index of the source variant or -1.
func pickSource(variants []variant, sourceLang, headerLang core.Language) int {
	if len(variants) < 2 {
		return -1
	}
	base := -1
	header := -1
	for i, v := range variants {
		lang := core.NewLanguage(v.Lang)
		switch {
		case !sourceLang.IsZero() && lang.Equal(sourceLang):
			return i
		case base < 0 && lang.SameBase(sourceLang):
			base = i
		case header < 0 && !headerLang.IsZero() && lang.Equal(headerLang):
			header = i
		}
	}
	if base >= 0 {
		return base
	}
	return header
}

func unitProperties(tu unit) map[string]string {
	if len(tu.Props) == 0 && tu.TUID == "" {
		return nil
	}
	props := make(map[string]string, len(tu.Props)+1)
	for _, p := range tu.Props {
		props[p.Type] = p.Value
	}
	if tu.TUID != "" {
		props["tuid"] = tu.TUID
	}
	return props
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
