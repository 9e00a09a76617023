package model

import "strings"

// BloodType is one of the eight ABO/Rh groups.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// AllBloodTypes lists every blood type in display order.
var AllBloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

func (b BloodType) String() string {
	return string(b)
}

// IsValid reports whether b is exactly one of the canonical blood types.
func (b BloodType) IsValid() bool {
	for _, bt := range AllBloodTypes {
		if b == bt {
			return true
		}
	}
	return false
}

// NormalizeBloodType canonicalises free-form blood type input such as
// " o- ", "ab positive" or "B NEGATIVE". The second return value is false when
// the input does not describe a known blood type.
func NormalizeBloodType(raw string) (BloodType, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "POSITIVE", "+")
	s = strings.ReplaceAll(s, "NEGATIVE", "-")
	s = strings.ReplaceAll(s, "POS", "+")
	s = strings.ReplaceAll(s, "NEG", "-")
	s = strings.Join(strings.Fields(s), "")

	bt := BloodType(s)
	if !bt.IsValid() {
		return "", false
	}
	return bt, true
}

// SameBloodType compares two blood type strings after normalisation.
func SameBloodType(a, b string) bool {
	na, ok := NormalizeBloodType(a)
	if !ok {
		return false
	}
	nb, ok := NormalizeBloodType(b)
	if !ok {
		return false
	}
	return na == nb
}
