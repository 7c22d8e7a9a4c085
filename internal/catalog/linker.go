package catalog

import (
	"context"
	"errors"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/models"
	"asset-catalog/internal/ports"
)

// Linker copies catalog attributes onto assets that reference an equipment model.
// It runs before every asset write, so catalog corrections reach existing assets
// on their next save.
type Linker struct {
	source Source
}

func NewLinker(source Source) *Linker {
	return &Linker{source: source}
}

// Apply returns asset with catalog defaults applied. Assets without an
// equipment model are returned unchanged.
func (l *Linker) Apply(ctx context.Context, asset models.Asset) (models.Asset, error) {
	if asset.EquipmentModelID == nil {
		return asset, nil
	}
	eq, err := l.source.Lookup(ctx, *asset.EquipmentModelID)
	if err != nil {
		if errors.Is(err, ErrModelNotFound) {
			return asset, apperr.Invalid("equipment_model_id", "equipment model %d does not exist", *asset.EquipmentModelID)
		}
		return asset, err
	}
	return ApplyDefaults(asset, eq)
}

// ApplyDefaults derives asset attributes from eq:
//   - manufacturer and model are always overwritten;
//   - is_rackmount is set when the catalog entry is rack-mountable and never cleared;
//   - rack_units is copied only when the asset has none;
//   - an empty port list is initialized from the catalog port template.
//
// Applying it twice yields the same asset as applying it once.
func ApplyDefaults(asset models.Asset, eq *models.EquipmentModel) (models.Asset, error) {
	if eq == nil {
		return asset, nil
	}

	asset.Manufacturer = eq.Vendor
	asset.ModelName = eq.Model

	if eq.IsRackmount {
		asset.IsRackmount = true
		if eq.RackUnits != nil && *eq.RackUnits > 0 && asset.RackUnits == 0 {
			asset.RackUnits = *eq.RackUnits
		}
	}

	if len(asset.Ports) == 0 && eq.PortCount > 0 {
		kind := models.PortConfigKind(eq.PortKind)
		if !kind.Valid() {
			kind = models.PortKindSwitch
		}
		initial, err := ports.Initialize(eq.PortCount, kind)
		if err != nil {
			return asset, err
		}
		asset.Ports = initial
	}
	return asset, nil
}
