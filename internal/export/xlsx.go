// Package export renders an AssetType's entities as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"io"

	"asset-catalog/internal/entity"
	"asset-catalog/internal/models"
	"asset-catalog/internal/schema"
	"asset-catalog/internal/tenant"

	"github.com/xuri/excelize/v2"
)

var fixedHeader = []string{"Asset Number", "Name", "Active"}

// Exporter reads schemas and entities for export.
type Exporter struct {
	registry *schema.Registry
	store    *entity.Store
}

func NewExporter(registry *schema.Registry, store *entity.Store) *Exporter {
	return &Exporter{registry: registry, store: store}
}

// WriteAssetType writes every entity of the AssetType, one column per field in
// display order.
func (e *Exporter) WriteAssetType(ctx context.Context, org tenant.OrgID, assetTypeID uint, w io.Writer) error {
	at, err := e.registry.GetAssetType(ctx, org, assetTypeID)
	if err != nil {
		return err
	}
	entities, err := e.store.ListFlexibleAssets(ctx, org, assetTypeID, true)
	if err != nil {
		return err
	}

	f, err := Workbook(at, entities)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook for at and its entities. The caller closes it.
func Workbook(at *models.AssetType, entities []models.FlexibleAsset) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := sheetName(at.Name)
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := append([]string(nil), fixedHeader...)
	for _, field := range at.Fields {
		header = append(header, field.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, fa := range entities {
		row := make([]any, 0, len(header))
		row = append(row, fa.AssetNumber, fa.Name, fa.Active)
		for _, field := range at.Fields {
			v, ok := fa.Values[field.Slug]
			if !ok {
				row = append(row, nil)
				continue
			}
			row = append(row, cellValue(v))
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}
	return f, nil
}

// cellValue keeps numbers and booleans typed; dates and text are written as text.
func cellValue(v models.Value) any {
	if n, ok := v.Float(); ok {
		return n
	}
	if b, ok := v.Bool(); ok {
		return b
	}
	return v.String()
}

// sheetName trims a name to the 31 characters a sheet name may have and strips
// the characters excelize rejects.
func sheetName(name string) string {
	out := make([]rune, 0, 31)
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Sheet1"
	}
	return string(out)
}
