// Package export renders search results as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"horti-admin/internal/domain"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var countries = map[string]string{
	"ECUADOR":     "Ecuador",
	"COLOMBIA":    "Colombia",
	"KENYA":       "Kenia",
	"ETHIOPIA":    "Etiopía",
	"NETHERLANDS": "Países Bajos",
	"ISRAEL":      "Israel",
	"ITALY":       "Italia",
	"CHINA":       "China",
}

var termsOfPayment = map[domain.TermsOfPayment]string{
	domain.TermsPrepaid:  "Prepago",
	domain.TermsPostpaid: "Postpago",
}

// CountryLabel returns the display name for a country code, or the code itself.
func CountryLabel(code string) string {
	if l, ok := countries[strings.ToUpper(code)]; ok {
		return l
	}
	return code
}

func TermsLabel(t domain.TermsOfPayment) string {
	if l, ok := termsOfPayment[t]; ok {
		return l
	}
	return string(t)
}

type column struct {
	header string
	width  float64
}

// sheet wraps a single-sheet workbook with a bold header row.
type sheet struct {
	f    *excelize.File
	name string
	row  int
}

func newSheet(name string, cols []column) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, err
	}
	s := &sheet{f: f, name: name, row: 1}

	body, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 14}})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 14, Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.ColumnNumberToName(len(cols))
	if err := f.SetColStyle(name, "A:"+last, body); err != nil {
		return nil, err
	}
	headers := make([]any, len(cols))
	for i, c := range cols {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, colName, colName, c.width); err != nil {
			return nil, err
		}
		headers[i] = c.header
	}
	if err := s.add(headers); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(name, "A1", last+"1", header); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sheet) add(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		return err
	}
	s.row++
	return nil
}

func (s *sheet) buffer() (*bytes.Buffer, error) {
	defer s.f.Close()
	return s.f.WriteToBuffer()
}

// Plantations renders the "Fincas" sheet, one row per plantation.
func Plantations(rows []domain.Plantation) (*bytes.Buffer, error) {
	s, err := newSheet("Fincas", []column{
		{"№", 10},
		{"País", 32},
		{"Nombre comercial", 32},
		{"Razón social", 32},
		{"Condiciones de pago", 32},
		{"Monto de crédito", 32},
		{"Observaciones", 32},
	})
	if err != nil {
		return nil, err
	}
	wrap, err := s.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 14},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, err
	}

	for _, p := range rows {
		names := make([]string, 0, len(p.LegalEntities))
		for _, le := range p.LegalEntities {
			names = append(names, le.Name)
		}
		var credit any
		if p.PostpaidCredit != nil && *p.PostpaidCredit != 0 {
			credit = *p.PostpaidCredit
		}
		var comments string
		if p.Comments != nil {
			comments = *p.Comments
		}
		if err := s.add([]any{
			p.ID, CountryLabel(p.Country), p.Name, strings.Join(names, ", "),
			TermsLabel(p.TermsOfPayment), credit, comments,
		}); err != nil {
			return nil, err
		}
	}
	if s.row > 2 {
		if err := s.f.SetCellStyle(s.name, "G2", fmt.Sprintf("G%d", s.row-1), wrap); err != nil {
			return nil, err
		}
	}
	return s.buffer()
}

// Groups renders the group hierarchy: each group row is followed by its
// categories (indented once) and their sorts (indented twice).
func Groups(groups []domain.Group) (*bytes.Buffer, error) {
	s, err := newSheet("Grupos", []column{
		{"№", 10},
		{"Nombre", 48},
		{"Tipo", 20},
	})
	if err != nil {
		return nil, err
	}
	indent := make([]int, 3)
	for level := 1; level < 3; level++ {
		indent[level], err = s.f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Size: 14},
			Alignment: &excelize.Alignment{Indent: level * 2},
		})
		if err != nil {
			return nil, err
		}
	}
	add := func(level int, id uint, name, kind string) error {
		if err := s.add([]any{id, name, kind}); err != nil {
			return err
		}
		if level == 0 {
			return nil
		}
		cell := fmt.Sprintf("B%d", s.row-1)
		return s.f.SetCellStyle(s.name, cell, cell, indent[level])
	}

	for _, g := range groups {
		if err := add(0, g.ID, g.Name, "Grupo"); err != nil {
			return nil, err
		}
		for _, c := range g.Categories {
			if err := add(1, c.ID, c.Name, "Categoría"); err != nil {
				return nil, err
			}
			for _, so := range c.Sorts {
				if err := add(2, so.ID, so.Name, "Variedad"); err != nil {
					return nil, err
				}
			}
		}
	}
	return s.buffer()
}
