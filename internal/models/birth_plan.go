package models

import (
	"strings"

	"gorm.io/datatypes"
)

// BirthPreferencesVersion is the current schema version of BirthPreferences.
const BirthPreferencesVersion = 1

// BirthPlan holds a pregnancy's birth preferences. There is at most one plan
// per pregnancy.
type BirthPlan struct {
	Base
	PregnancyID string                               `gorm:"type:uuid;not null;uniqueIndex" json:"pregnancy_id"`
	Preferences datatypes.JSONType[BirthPreferences] `gorm:"not null" json:"preferences"`
}

// BirthPreferences is the versioned preferences document stored on a plan.
type BirthPreferences struct {
	Version         int                    `json:"version"`
	Location        BirthLocation          `json:"location"`
	PainRelief      PainReliefPreferences  `json:"pain_relief"`
	Environment     EnvironmentPreferences `json:"environment"`
	Companions      CompanionPreferences   `json:"companions"`
	Labor           LaborPreferences       `json:"labor"`
	Newborn         NewbornPreferences     `json:"newborn"`
	AdditionalNotes string                 `json:"additional_notes,omitempty"`
}

// BirthLocation describes where the birth is planned.
type BirthLocation struct {
	Place    string `json:"place,omitempty" binding:"birth_place"`
	Hospital string `json:"hospital,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// PainReliefPreferences lists accepted pain relief options. Methods is
// derived from the boolean flags and is never taken from input.
type PainReliefPreferences struct {
	Natural      bool     `json:"natural"`
	Epidural     bool     `json:"epidural"`
	NitrousOxide bool     `json:"nitrous_oxide"`
	Opioids      bool     `json:"opioids"`
	WaterBirth   bool     `json:"water_birth"`
	Massage      bool     `json:"massage"`
	TENS         bool     `json:"tens"`
	Methods      []string `json:"methods"`
	Notes        string   `json:"notes,omitempty"`
}

// EnvironmentPreferences covers the delivery room atmosphere.
type EnvironmentPreferences struct {
	DimLights            bool   `json:"dim_lights"`
	Music                bool   `json:"music"`
	Photography          bool   `json:"photography"`
	Video                bool   `json:"video"`
	MinimalInterruptions bool   `json:"minimal_interruptions"`
	Notes                string `json:"notes,omitempty"`
}

// CompanionPreferences lists who should be present.
type CompanionPreferences struct {
	Names []string `json:"names"`
	Doula bool     `json:"doula"`
}

// LaborPreferences covers labor and delivery choices.
type LaborPreferences struct {
	Positions         []string `json:"positions"`
	FreedomOfMovement bool     `json:"freedom_of_movement"`
	FetalMonitoring   string   `json:"fetal_monitoring,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// NewbornPreferences covers care right after birth.
type NewbornPreferences struct {
	SkinToSkin          bool   `json:"skin_to_skin"`
	DelayedCordClamping bool   `json:"delayed_cord_clamping"`
	CordCutter          string `json:"cord_cutter,omitempty"`
	Breastfeeding       bool   `json:"breastfeeding"`
	VitaminK            bool   `json:"vitamin_k"`
	RoomingIn           bool   `json:"rooming_in"`
	Notes               string `json:"notes,omitempty"`
}

// Normalize stamps the schema version, trims free text and derives the pain
// relief method list from its flags.
func (p *BirthPreferences) Normalize() {
	p.Version = BirthPreferencesVersion
	p.PainRelief.Methods = p.PainRelief.methods()
	p.Companions.Names = compactStrings(p.Companions.Names)
	p.Labor.Positions = compactStrings(p.Labor.Positions)
	p.AdditionalNotes = strings.TrimSpace(p.AdditionalNotes)
}

func (p PainReliefPreferences) methods() []string {
	flags := []struct {
		on   bool
		name string
	}{
		{p.Natural, "natural"},
		{p.Epidural, "epidural"},
		{p.NitrousOxide, "nitrous_oxide"},
		{p.Opioids, "opioids"},
		{p.WaterBirth, "water_birth"},
		{p.Massage, "massage"},
		{p.TENS, "tens"},
	}
	methods := make([]string, 0, len(flags))
	for _, f := range flags {
		if f.on {
			methods = append(methods, f.name)
		}
	}
	return methods
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
