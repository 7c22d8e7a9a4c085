// Package ports builds and validates port lists for network equipment and panels.
package ports

import (
	"fmt"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/models"
)

const (
	// MaxPorts bounds a single configuration.
	MaxPorts = 1024

	minVLAN = 1
	maxVLAN = 4094
)

// Initialize returns count ports numbered 1..count. Panels get passive records;
// every other kind gets active-equipment records with status inactive.
func Initialize(count int, kind models.PortConfigKind) ([]models.Port, error) {
	if !kind.Valid() {
		return nil, apperr.Invalid("kind", "unknown port configuration kind %q", kind)
	}
	if count < 0 || count > MaxPorts {
		return nil, apperr.Invalid("port_count", "port count must be between 0 and %d", MaxPorts)
	}

	out := make([]models.Port, 0, count)
	for n := 1; n <= count; n++ {
		out = append(out, newPort(n, kind))
	}
	return out, nil
}

func newPort(n int, kind models.PortConfigKind) models.Port {
	p := models.Port{
		PortNumber: n,
		Label:      fmt.Sprintf("Port %d", n),
	}
	switch {
	case kind == models.PortKindFiberPanel:
		p.Type = "fiber"
	case kind.Passive():
		p.Type = "copper"
	default:
		p.Type = "ethernet"
		p.Status = models.PortInactive
	}
	return p
}

// Resize grows or shrinks a port list. Ports 1..min(len, count) are kept as they
// are; new ports get the defaults of Initialize.
func Resize(existing []models.Port, count int, kind models.PortConfigKind) ([]models.Port, error) {
	fresh, err := Initialize(count, kind)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[int]models.Port, len(existing))
	for _, p := range existing {
		byNumber[p.PortNumber] = p
	}
	for i := range fresh {
		if kept, ok := byNumber[fresh[i].PortNumber]; ok {
			fresh[i] = kept
		}
	}
	return fresh, nil
}

// CountActive counts ports whose status is active or in-use.
func CountActive(list []models.Port) int {
	n := 0
	for _, p := range list {
		if p.Status == models.PortActive || p.Status == models.PortInUse {
			n++
		}
	}
	return n
}

// PortsByVLAN returns the ports assigned to vlan, in list order.
func PortsByVLAN(list []models.Port, vlan int) []models.Port {
	out := []models.Port{}
	for _, p := range list {
		if p.VLAN != nil && *p.VLAN == vlan {
			out = append(out, p)
		}
	}
	return out
}

// ValidatePorts checks a whole port list for kind.
func ValidatePorts(list []models.Port, kind models.PortConfigKind) error {
	verr := &apperr.ValidationError{}
	if !kind.Valid() {
		verr.Addf("kind", "unknown port configuration kind %q", kind)
		return verr
	}
	if len(list) > MaxPorts {
		verr.Addf("ports", "at most %d ports are allowed", MaxPorts)
		return verr
	}

	seen := make(map[int]struct{}, len(list))
	for i, p := range list {
		field := fmt.Sprintf("ports[%d]", i)
		if p.PortNumber < 1 {
			verr.Add(field+".port_number", "port number must be positive")
		} else if _, dup := seen[p.PortNumber]; dup {
			verr.Addf(field+".port_number", "port number %d is used twice", p.PortNumber)
		}
		seen[p.PortNumber] = struct{}{}

		if kind.Passive() {
			if p.VLAN != nil || p.Speed != "" || p.Status != "" {
				verr.Add(field, "panel ports do not carry vlan, speed or status")
			}
			continue
		}
		if p.VLAN != nil && (*p.VLAN < minVLAN || *p.VLAN > maxVLAN) {
			verr.Addf(field+".vlan", "vlan must be between %d and %d", minVLAN, maxVLAN)
		}
		if p.Status != "" && !p.Status.Valid() {
			verr.Addf(field+".status", "unknown port status %q", p.Status)
		}
	}
	return verr.ErrOrNil()
}

// ValidateVLANs checks a VLAN list for unique ids in the 802.1Q range.
func ValidateVLANs(list []models.VLAN) error {
	verr := &apperr.ValidationError{}
	seen := make(map[int]struct{}, len(list))
	for i, v := range list {
		field := fmt.Sprintf("vlans[%d].vlan_id", i)
		if v.ID < minVLAN || v.ID > maxVLAN {
			verr.Addf(field, "vlan must be between %d and %d", minVLAN, maxVLAN)
			continue
		}
		if _, dup := seen[v.ID]; dup {
			verr.Addf(field, "vlan %d is listed twice", v.ID)
		}
		seen[v.ID] = struct{}{}
	}
	return verr.ErrOrNil()
}
