package inventory

import (
	"strings"
	"time"
)

// LotStatus is the lifecycle state of a chemical lot.
type LotStatus string

const (
	StatusReserved LotStatus = "RESERVED"
	StatusInUse    LotStatus = "IN_USE"
	StatusConsumed LotStatus = "CONSUMED"
	StatusExpired  LotStatus = "EXPIRED"
	StatusDisposed LotStatus = "DISPOSED"
)

// Valid reports whether s is one of the known lot statuses.
func (s LotStatus) Valid() bool {
	switch s {
	case StatusReserved, StatusInUse, StatusConsumed, StatusExpired, StatusDisposed:
		return true
	default:
		return false
	}
}

// Active lots still count towards available stock.
func (s LotStatus) Active() bool {
	return s == StatusReserved || s == StatusInUse
}

// PhysicalState is the state of matter recorded on the master record.
type PhysicalState string

const (
	StateSolid  PhysicalState = "SOLID"
	StateLiquid PhysicalState = "LIQUID"
	StateGas    PhysicalState = "GAS"
)

// PhysicalStates lists the accepted physical states in display order.
var PhysicalStates = []PhysicalState{StateSolid, StateLiquid, StateGas}

// ParsePhysicalState maps English and Vietnamese labels onto a PhysicalState.
func ParsePhysicalState(value string) (PhysicalState, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "solid", "rắn", "ran":
		return StateSolid, true
	case "liquid", "lỏng", "long":
		return StateLiquid, true
	case "gas", "khí", "khi":
		return StateGas, true
	default:
		return "", false
	}
}

// Categories is the fixed set of chemical categories.
var Categories = []string{
	"Acids", "Bases", "Oxidizers", "Flammables", "Toxics", "Reagents", "Solvents", "Others",
}

var categoryAliases = map[string]string{
	"acid": "Acids", "acids": "Acids", "axit": "Acids",
	"base": "Bases", "bases": "Bases", "bazơ": "Bases", "bazo": "Bases",
	"oxidizer": "Oxidizers", "oxidizers": "Oxidizers", "chất oxi hóa": "Oxidizers",
	"flammable": "Flammables", "flammables": "Flammables", "chất dễ cháy": "Flammables",
	"toxic": "Toxics", "toxics": "Toxics", "độc hại": "Toxics",
	"reagent": "Reagents", "reagents": "Reagents", "thuốc thử": "Reagents",
	"solvent": "Solvents", "solvents": "Solvents", "dung môi": "Solvents",
	"other": "Others", "others": "Others", "khác": "Others",
}

// NormalizeCategory maps free text onto the fixed category set, defaulting to "Others".
func NormalizeCategory(value string) string {
	if canonical, ok := categoryAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return canonical
	}
	return "Others"
}

// NFPARating is an NFPA 704 hazard diamond.
type NFPARating struct {
	Health       int    `json:"health"`
	Flammability int    `json:"flammability"`
	Instability  int    `json:"instability"`
	Special      string `json:"special,omitempty"`
}

// Clamp forces every sub-rating into 0..4.
func (r NFPARating) Clamp() NFPARating {
	r.Health = clampRating(r.Health)
	r.Flammability = clampRating(r.Flammability)
	r.Instability = clampRating(r.Instability)
	r.Special = strings.ToUpper(strings.TrimSpace(r.Special))
	return r
}

func clampRating(v int) int {
	if v < 0 {
		return 0
	}
	if v > 4 {
		return 4
	}
	return v
}

// Lot is one received batch of a chemical.
type Lot struct {
	ID                   string    `json:"id"`
	LotNumber            string    `json:"lotNumber"`
	MfgLotNumber         string    `json:"mfgLotNumber"`
	Packaging            string    `json:"packaging,omitempty"`
	ContainerCapacity    float64   `json:"containerCapacity,omitempty"`
	Quantity             float64   `json:"quantity"`
	Unit                 string    `json:"unit"`
	EntryDate            Date      `json:"entryDate"`
	ExpiryDate           Date      `json:"expiryDate"`
	OpenedDate           Date      `json:"openedDate,omitzero"`
	LastUsedDate         Date      `json:"lastUsedDate,omitzero"`
	PAODays              int       `json:"paoDays,omitempty"`
	ContainerOpenedDates []Date    `json:"bottleOpenedDates,omitempty"`
	Status               LotStatus `json:"status"`
}

// Chemical is a master catalog record and the owner of its lots.
type Chemical struct {
	ID             string        `json:"id"`
	Code           string        `json:"code"`
	Name           string        `json:"name"`
	Formula        string        `json:"formula"`
	CASNumber      string        `json:"casNumber"`
	Category       string        `json:"category"`
	State          PhysicalState `json:"state"`
	HazardGHS      []string      `json:"hazardGHS,omitempty"`
	NFPA           NFPARating    `json:"nfpa"`
	Location       string        `json:"location"`
	Supplier       string        `json:"supplier"`
	DefaultPAODays int           `json:"defaultPaoDays"`
	MinThreshold   float64       `json:"minThreshold"`
	SDSURL         string        `json:"sdsUrl,omitempty"`
	Lots           []Lot         `json:"lots"`
}

// FindLot returns the index of the lot with the given id, or -1.
func (c Chemical) FindLot(lotID string) int {
	for i := range c.Lots {
		if c.Lots[i].ID == lotID {
			return i
		}
	}
	return -1
}

// PrimaryUnit is the unit of the first lot, used for chemical-level totals.
func (c Chemical) PrimaryUnit() string {
	if len(c.Lots) == 0 {
		return ""
	}
	return c.Lots[0].Unit
}

// AuditAction classifies an audit log entry.
type AuditAction string

const (
	AuditCreate       AuditAction = "CREATE"
	AuditUpdate       AuditAction = "UPDATE"
	AuditDelete       AuditAction = "DELETE"
	AuditAddLot       AuditAction = "ADD_LOT"
	AuditOpenLot      AuditAction = "OPEN_LOT"
	AuditLotUsage     AuditAction = "LOT_USAGE"
	AuditLotStockIn   AuditAction = "LOT_STOCK_IN"
	AuditStatusChange AuditAction = "STATUS_CHANGE"
	AuditConsumeAll   AuditAction = "CONSUME_ALL"
	AuditUpdateDates  AuditAction = "UPDATE_DATES"
)

// AuditEntry is an immutable record of one inventory mutation.
type AuditEntry struct {
	ID           string      `json:"id"`
	Timestamp    time.Time   `json:"timestamp"`
	UserID       string      `json:"userId"`
	UserName     string      `json:"userName"`
	Action       AuditAction `json:"action"`
	EntityID     string      `json:"entityId"`
	ChemicalName string      `json:"chemicalName,omitempty"`
	LotNumber    string      `json:"lotNumber,omitempty"`
	Amount       *float64    `json:"amount,omitempty"`
	Unit         string      `json:"unit,omitempty"`
	Details      string      `json:"details"`
}
