// Package label builds the printable container label for a chemical lot.
package label

import (
	"fmt"
	"strings"

	"labstock/internal/inventory"
)

// Physical size of the printed label.
const (
	WidthMM  = 80
	HeightMM = 50
)

// Payload is everything printed on a lot label.
type Payload struct {
	ChemicalName    string               `json:"chemicalName"`
	Formula         string               `json:"formula"`
	CASNumber       string               `json:"casNumber"`
	LotNumber       string               `json:"lotNumber"`
	MfgLotNumber    string               `json:"mfgLotNumber"`
	EntryDate       string               `json:"entryDate"`
	ExpiryDate      string               `json:"expiryDate"`
	OpenedDate      string               `json:"openedDate,omitempty"`
	EffectiveExpiry string               `json:"effectiveExpiry"`
	NFPA            inventory.NFPARating `json:"nfpa"`
	State           string               `json:"state"`
	StateLabel      string               `json:"stateLabel"`
	Hazards         []string             `json:"hazards,omitempty"`
	Location        string               `json:"location"`
	Barcode         string               `json:"barcode"`
	// BarcodeSVG is the Code 128 rendering of Barcode; empty when the value
	// holds characters Code 128 cannot carry.
	BarcodeSVG      string               `json:"barcodeSvg,omitempty"`
	WidthMM         int                  `json:"widthMm"`
	HeightMM        int                  `json:"heightMm"`
}

// Build assembles the label payload for lot. The assessment supplies the
// effective expiry so the label matches the dashboard.
func Build(chem inventory.Chemical, lot inventory.Lot, assessment inventory.Assessment) Payload {
	p := Payload{
		ChemicalName:    chem.Name,
		Formula:         chem.Formula,
		CASNumber:       chem.CASNumber,
		LotNumber:       lot.LotNumber,
		MfgLotNumber:    lot.MfgLotNumber,
		EntryDate:       lot.EntryDate.String(),
		ExpiryDate:      lot.ExpiryDate.String(),
		OpenedDate:      lot.OpenedDate.String(),
		EffectiveExpiry: assessment.EffectiveExpiry.String(),
		NFPA:            chem.NFPA.Clamp(),
		State:           string(chem.State),
		StateLabel:      stateLabel(chem.State),
		Hazards:         append([]string(nil), chem.HazardGHS...),
		Location:        chem.Location,
		Barcode:         BarcodeValue(chem, lot),
		WidthMM:         WidthMM,
		HeightMM:        HeightMM,
	}
	if svg, err := BarcodeSVG(p.Barcode); err == nil {
		p.BarcodeSVG = svg
	}
	return p
}

// BarcodeValue is the text encoded in the label barcode.
func BarcodeValue(chem inventory.Chemical, lot inventory.Lot) string {
	code := strings.TrimSpace(chem.Code)
	if code == "" {
		code = chem.ID
	}
	return strings.ToUpper(fmt.Sprintf("%s-%s", code, lot.LotNumber))
}

func stateLabel(state inventory.PhysicalState) string {
	switch state {
	case inventory.StateSolid:
		return "Rắn"
	case inventory.StateLiquid:
		return "Lỏng"
	case inventory.StateGas:
		return "Khí"
	default:
		return ""
	}
}
