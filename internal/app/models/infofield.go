package models

import (
	"fmt"
	"strings"
)

// InfoField is a closed enum of the optional student-info columns a
// roster export can include. Each field knows its column title and how
// to pull its value out of a Profile, so column handling is never
// dispatched on raw strings.
type InfoField string

const (
	InfoAvatar        InfoField = "Avatar"
	InfoStudentNumber InfoField = "Student Number"
	InfoEmail         InfoField = "Email"
)

// AllInfoFields lists the recognized fields in their canonical column order.
var AllInfoFields = []InfoField{InfoAvatar, InfoStudentNumber, InfoEmail}

// ParseInfoField maps a user-supplied column name to its InfoField.
// Matching is case-insensitive on the canonical titles.
func ParseInfoField(s string) (InfoField, error) {
	for _, f := range AllInfoFields {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unrecognized info field %q", s)
}

// Title returns the column header for the field.
func (f InfoField) Title() string {
	return string(f)
}

// CellValue extracts this field's cell value from a profile. Avatar
// cells hold a rendering directive rather than the raw URL.
func (f InfoField) CellValue(p Profile) Cell {
	switch f {
	case InfoAvatar:
		return AvatarCell(p.AvatarURL)
	case InfoStudentNumber:
		return TextCell(p.StudentNumber)
	case InfoEmail:
		return TextCell(p.Email)
	default:
		return TextCell("")
	}
}
