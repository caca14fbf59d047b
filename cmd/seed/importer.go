package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// productUpserter y clientUpserter los cumplen los casos de uso del catálogo y de clientes.
type productUpserter interface {
	Upsert(ctx context.Context, id string, in dto.UpsertProductRequest) (*dto.ProductResponse, error)
}

type clientUpserter interface {
	Upsert(ctx context.Context, id string, in dto.UpsertClientRequest) (*dto.ClientResponse, error)
}

// decoderFor devuelve el decodificador para el nombre de codificación del archivo.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", name)
	}
}

// csvRecords lee el CSV completo indexando columnas por el nombre del encabezado.
func csvRecords(r io.Reader, enc string, sep rune) ([]map[string]string, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseMoney acepta "1234.50" y "1234,50".
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func parseStock(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// importProducts columnas: id, name, category, price_retail, price_wholesale, cost, stock.
func importProducts(ctx context.Context, uc productUpserter, records []map[string]string) (int, error) {
	n := 0
	for i, rec := range records {
		line := i + 2
		var in dto.UpsertProductRequest
		var err error
		in.Name, in.Category = rec["name"], rec["category"]
		if in.PriceRetail, err = parseMoney(rec["price_retail"]); err != nil {
			return n, fmt.Errorf("línea %d price_retail: %w", line, err)
		}
		if in.PriceWholesale, err = parseMoney(rec["price_wholesale"]); err != nil {
			return n, fmt.Errorf("línea %d price_wholesale: %w", line, err)
		}
		if in.Cost, err = parseMoney(rec["cost"]); err != nil {
			return n, fmt.Errorf("línea %d cost: %w", line, err)
		}
		if in.Stock, err = parseStock(rec["stock"]); err != nil {
			return n, fmt.Errorf("línea %d stock: %w", line, err)
		}
		if _, err := uc.Upsert(ctx, rec["id"], in); err != nil {
			return n, fmt.Errorf("línea %d: %w", line, err)
		}
		n++
	}
	return n, nil
}

// importClients columnas: id, name, business_name, phone, address, debt, credit_limit.
func importClients(ctx context.Context, uc clientUpserter, records []map[string]string) (int, error) {
	n := 0
	for i, rec := range records {
		line := i + 2
		debt, err := parseMoney(rec["debt"])
		if err != nil {
			return n, fmt.Errorf("línea %d debt: %w", line, err)
		}
		limit, err := parseMoney(rec["credit_limit"])
		if err != nil {
			return n, fmt.Errorf("línea %d credit_limit: %w", line, err)
		}
		_, err = uc.Upsert(ctx, rec["id"], dto.UpsertClientRequest{
			Name:         rec["name"],
			BusinessName: rec["business_name"],
			Phone:        rec["phone"],
			Address:      rec["address"],
			OpeningDebt:  debt,
			CreditLimit:  limit,
		})
		if err != nil {
			return n, fmt.Errorf("línea %d: %w", line, err)
		}
		n++
	}
	return n, nil
}
