package feed

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armory-api/internal/config"
)

func newTestParser(t *testing.T, cfg config.FeedConfig) *Parser {
	t.Helper()
	return NewParser(cfg)
}

// goodLine builds a well-formed feed line carrying the core columns.
func goodLine(stock, desc string, price, retail float64, qty int) string {
	return fmt.Sprintf("%s;UPC%s;%s;1;MFG1;Acme Arms;%.2f;%.2f;%d", stock, stock, desc, price, retail, qty)
}

func TestParse_BasicFeed(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{})
	buf := []byte(strings.Join([]string{
		goodLine("A1", "Rifle case", 10.00, 15.00, 5),
		goodLine("A2", "Cleaning kit", 20.00, 25.00, 0),
	}, "\n"))

	records, err := p.Parse(buf)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "A1", records[0].StockNumber)
	assert.Equal(t, "UPCA1", records[0].UPC)
	assert.Equal(t, "Rifle case", records[0].Description)
	assert.Equal(t, 1, records[0].DepartmentNumber)
	assert.Equal(t, "MFG1", records[0].ManufacturerID)
	assert.Equal(t, "Acme Arms", records[0].ManufacturerName)
	assert.Equal(t, 10.00, records[0].Price)
	assert.Equal(t, 15.00, records[0].RetailPrice)
	assert.Equal(t, 5, records[0].QuantityOnHand)
	assert.False(t, records[0].LastUpdated.IsZero(), "parse time must be assigned")
}

// Wholesale price and MSRP come from distinct columns; swapping them would
// silently corrupt pricing.
func TestParse_PriceColumnsNotSwapped(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{})

	records, err := p.Parse([]byte(goodLine("B1", "Scope", 100.00, 149.99, 3)))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 100.00, records[0].Price, "column 7 is the dealer price")
	assert.Equal(t, 149.99, records[0].RetailPrice, "column 8 is MSRP")
}

func TestParse_SkipsMalformedLine(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{})

	lines := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		if i == 5 {
			lines = append(lines, "only;three;fields")
			continue
		}
		lines = append(lines, goodLine(fmt.Sprintf("S%d", i), fmt.Sprintf("Item %d", i), 10, 20, i))
	}

	records, err := p.Parse([]byte(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Len(t, records, 9, "one malformed line must not abort the file")
}

func TestParse_AbortsWhenErrorCeilingExceeded(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{})

	lines := []string{goodLine("OK1", "Survivor", 10, 20, 1)}
	for i := 0; i < maxParseErrors+10; i++ {
		lines = append(lines, "corrupt line")
	}

	records, err := p.Parse([]byte(strings.Join(lines, "\n")))
	require.Error(t, err)

	var abort *ParseAbortError
	require.ErrorAs(t, err, &abort)
	assert.Greater(t, abort.ErrorCount, maxParseErrors)
	assert.Nil(t, records, "partial results are discarded on abort")
}

func TestParse_DropsRecordsMissingMandatoryFields(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{})

	buf := []byte(strings.Join([]string{
		goodLine("A1", "Holster", 10, 20, 1),
		";UPCX;;1;MFG1;Acme Arms;5.00;6.00;3",        // no stock number, no description
		"A3;UPCY;;1;MFG1;Acme Arms;5.00;6.00;3",      // no description
		";UPCZ;Orphaned;1;MFG1;Acme Arms;5.00;6.00;3", // no stock number
	}, "\n"))

	records, err := p.Parse(buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A1", records[0].StockNumber)
}

func TestParse_QuotedFieldEmbedsDelimiter(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{})

	line := `Q1;UPC1;"Sling; two-point";1;MFG1;Acme Arms;10.00;20.00;4`
	records, err := p.Parse([]byte(line))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Sling; two-point", records[0].Description)
}

func TestParse_BooleanFlags(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{})

	fields := make([]string, colCloseout+1)
	copy(fields, strings.Split(goodLine("F1", "Powder", 10, 20, 2), ";"))
	fields[colHazmat] = "Y"
	fields[colFreeShipping] = "true"
	fields[colDropShip] = "1"
	fields[colAllocated] = "no"
	fields[colNewItem] = "yes"
	fields[colCloseout] = ""

	records, err := p.Parse([]byte(strings.Join(fields, ";")))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.True(t, rec.Hazmat)
	assert.True(t, rec.FreeShipping)
	assert.True(t, rec.DropShip)
	assert.False(t, rec.Allocated)
	assert.True(t, rec.NewItem)
	assert.False(t, rec.Closeout)
}

func TestParse_MaxRecordsCap(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{MaxRecords: 2})

	lines := make([]string, 5)
	for i := range lines {
		lines[i] = goodLine(fmt.Sprintf("C%d", i), fmt.Sprintf("Item %d", i), 10, 20, 1)
	}

	records, err := p.Parse([]byte(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParse_Latin1Encoding(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{Encoding: "latin1"})

	// "Décor" with é encoded as 0xE9 (ISO 8859-1)
	line := append([]byte("L1;UPC1;D"), 0xE9)
	line = append(line, []byte("cor stand;1;MFG1;Acme Arms;10.00;20.00;1")...)

	records, err := p.Parse(line)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Décor stand", records[0].Description)
}

func TestParse_UnsupportedEncoding(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{Encoding: "ebcdic"})

	_, err := p.Parse([]byte(goodLine("A1", "Item", 1, 2, 3)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}

func TestGetStats(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{})

	buf := []byte("a;b;c\n\n  \nd;e;f\r\ng;h;i")
	stats, err := p.GetStats(buf)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalLines, "blank lines do not count")
	assert.Equal(t, 3, stats.EstimatedRecords)
	assert.Equal(t, len(buf), stats.ByteSize)
	assert.Equal(t, "utf-8", stats.Encoding)
}

func TestParse_CustomDelimiter(t *testing.T) {
	p := newTestParser(t, config.FeedConfig{Delimiter: "|"})

	records, err := p.Parse([]byte("D1|UPC1|Bipod|1|MFG1|Acme Arms|10.00|20.00|7"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bipod", records[0].Description)
	assert.Equal(t, 7, records[0].QuantityOnHand)
}
