package feed

import (
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"armory-api/internal/config"
	"armory-api/internal/model"
)

// Feed column layout, pinned against the distributor's current flat-file
// documentation (semicolon-delimited, no header row). Two contradictory
// mappings of this format have circulated historically, differing in which
// column carries the dealer price versus MSRP; per the current vendor sheet
// column 7 is the dealer (wholesale) price and column 8 is MSRP. Any future
// format revision is a change to this block only.
const (
	colStockNumber = iota
	colUPC
	colDescription
	colDepartmentNumber
	colManufacturerID
	colManufacturerName
	colPrice       // dealer/wholesale price, NOT the retail price
	colRetailPrice // MSRP
	colQuantityOnHand
	colWeight
	colLength
	colWidth
	colHeight
	colImageURL
	colCategory
	colSubcategory
	colModel
	colCaliber
	colCapacity
	colAction
)

// Boolean flag columns near the end of the record. Lines short of these are
// still usable; missing flags default to false.
const (
	colHazmat       = 33
	colFreeShipping = 34
	colDropShip     = 35
	colAllocated    = 36
	colNewItem      = 37
	colCloseout     = 38
)

const (
	// minFieldCount is the narrowest line that still carries the core
	// columns (through quantity on hand). Narrower lines are malformed.
	minFieldCount = colQuantityOnHand + 1

	// maxParseErrors is the circuit breaker: past this many malformed lines
	// the file is considered systematically corrupt and parsing aborts.
	maxParseErrors = 100
)

// Parser decodes the distributor's newline-delimited inventory feed.
type Parser struct {
	delimiter  rune
	encoding   string
	maxRecords int
}

// NewParser creates a parser from feed configuration.
func NewParser(cfg config.FeedConfig) *Parser {
	delimiter := ';'
	if cfg.Delimiter != "" {
		delimiter = []rune(cfg.Delimiter)[0]
	}
	return &Parser{
		delimiter:  delimiter,
		encoding:   cfg.Encoding,
		maxRecords: cfg.MaxRecords,
	}
}

// Parse decodes the raw feed buffer into inventory records. Malformed lines
// are skipped and counted; only the error ceiling aborts the whole file, in
// which case any partial result is discarded.
func (p *Parser) Parse(buf []byte) ([]model.InventoryRecord, error) {
	content, err := p.decode(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode feed (%s): %w", p.encoding, err)
	}

	lines := splitLines(content)
	log.Printf("[Parser] Parsing %d lines from inventory feed", len(lines))

	now := time.Now().UTC()
	records := make([]model.InventoryRecord, 0, len(lines))
	errorCount := 0

	for i, line := range lines {
		if p.maxRecords > 0 && len(records) >= p.maxRecords {
			break
		}

		fields, err := p.parseLine(line)
		if err != nil || len(fields) < minFieldCount {
			errorCount++
			if err != nil {
				log.Printf("[Parser] Error parsing line %d: %v", i+1, err)
			} else {
				log.Printf("[Parser] Line %d has %d fields, expected at least %d", i+1, len(fields), minFieldCount)
			}
			if errorCount > maxParseErrors {
				return nil, &ParseAbortError{Lines: len(lines), ErrorCount: errorCount}
			}
			continue
		}

		rec, ok := mapFields(fields, now)
		if !ok {
			// Mandatory field missing; dropped silently per the feed
			// contract, these lines do not count against the ceiling.
			continue
		}
		records = append(records, rec)
	}

	log.Printf("[Parser] Parsed %d records from %d lines (%d errors)", len(records), len(lines), errorCount)
	return records, nil
}

// Stats is a cheap pre-scan of a feed buffer, used for diagnostics before
// committing to a full parse.
type Stats struct {
	TotalLines       int    `json:"totalLines"`
	EstimatedRecords int    `json:"estimatedRecords"`
	ByteSize         int    `json:"byteSize"`
	Encoding         string `json:"encoding"`
}

// GetStats scans the buffer without mapping fields.
func (p *Parser) GetStats(buf []byte) (Stats, error) {
	content, err := p.decode(buf)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to decode feed (%s): %w", p.encoding, err)
	}

	lines := splitLines(content)
	return Stats{
		TotalLines:       len(lines),
		EstimatedRecords: len(lines),
		ByteSize:         len(buf),
		Encoding:         p.encodingName(),
	}, nil
}

func (p *Parser) encodingName() string {
	if p.encoding == "" {
		return "utf-8"
	}
	return strings.ToLower(p.encoding)
}

// decode converts the raw buffer to a string in the configured encoding.
func (p *Parser) decode(buf []byte) (string, error) {
	switch p.encodingName() {
	case "utf-8", "utf8":
		return string(buf), nil
	case "latin1", "iso-8859-1":
		out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), buf)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "windows-1252", "cp1252":
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), buf)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", p.encoding)
	}
}

// splitLines returns the non-blank lines of the feed.
func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// parseLine splits one line into fields, honoring double-quoted fields that
// embed the delimiter. Falls back to a plain split when quoting is broken.
func (p *Parser) parseLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = p.delimiter
	r.LazyQuotes = true

	fields, err := r.Read()
	if err != nil {
		// Broken quoting; a plain split still yields usable positional data.
		return strings.Split(line, string(p.delimiter)), nil
	}
	return fields, nil
}

// mapFields builds a record from positional fields. Returns ok=false when a
// mandatory field (stock number, description) is missing; such lines never
// reach validation.
func mapFields(fields []string, now time.Time) (model.InventoryRecord, bool) {
	rec := model.InventoryRecord{
		StockNumber:      cleanField(field(fields, colStockNumber)),
		UPC:              cleanField(field(fields, colUPC)),
		Description:      cleanField(field(fields, colDescription)),
		DepartmentNumber: parseInt(field(fields, colDepartmentNumber)),
		ManufacturerID:   cleanField(field(fields, colManufacturerID)),
		ManufacturerName: cleanField(field(fields, colManufacturerName)),
		Price:            parseFloat(field(fields, colPrice)),
		RetailPrice:      parseFloat(field(fields, colRetailPrice)),
		QuantityOnHand:   parseInt(field(fields, colQuantityOnHand)),
		Weight:           parseFloat(field(fields, colWeight)),
		Length:           cleanField(field(fields, colLength)),
		Width:            cleanField(field(fields, colWidth)),
		Height:           cleanField(field(fields, colHeight)),
		ImageURL:         cleanField(field(fields, colImageURL)),
		Category:         cleanField(field(fields, colCategory)),
		Subcategory:      cleanField(field(fields, colSubcategory)),
		Model:            cleanField(field(fields, colModel)),
		Caliber:          cleanField(field(fields, colCaliber)),
		Capacity:         parseInt(field(fields, colCapacity)),
		Action:           cleanField(field(fields, colAction)),
		Hazmat:           parseBool(field(fields, colHazmat)),
		FreeShipping:     parseBool(field(fields, colFreeShipping)),
		DropShip:         parseBool(field(fields, colDropShip)),
		Allocated:        parseBool(field(fields, colAllocated)),
		NewItem:          parseBool(field(fields, colNewItem)),
		Closeout:         parseBool(field(fields, colCloseout)),
		LastUpdated:      now,
	}

	if rec.StockNumber == "" || rec.Description == "" {
		return model.InventoryRecord{}, false
	}
	return rec, true
}

// field returns fields[i] or "" when the line is short of column i.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

func cleanField(v string) string {
	return strings.Trim(strings.TrimSpace(v), `"`)
}

func parseInt(v string) int {
	n, err := strconv.Atoi(cleanField(v))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(cleanField(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseBool(v string) bool {
	switch strings.ToLower(cleanField(v)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}
