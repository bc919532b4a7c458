package model

import "fmt"

// Human-readable identifier prefixes. Each derived identifier is the prefix
// plus the numeric ID zero-padded to four digits (banding thresholds at 10,
// 100 and 1000 reproduce the historical width behaviour for larger IDs).
const (
	franchiseCodePrefix = "EON"
	enrollNumberPrefix  = "EN"
	rollNumberPrefix    = "RN"
)

func bandedIdentifier(prefix string, id uint) string {
	switch {
	case id < 10:
		return fmt.Sprintf("%s000%d", prefix, id)
	case id < 100:
		return fmt.Sprintf("%s00%d", prefix, id)
	case id < 1000:
		return fmt.Sprintf("%s0%d", prefix, id)
	default:
		return fmt.Sprintf("%s%d", prefix, id)
	}
}

// FranchiseCode derives the tenant code from a franchise ID.
func FranchiseCode(id uint) string {
	return bandedIdentifier(franchiseCodePrefix, id)
}

// EnrollNumber derives the enrollment number from a student ID.
func EnrollNumber(id uint) string {
	return bandedIdentifier(enrollNumberPrefix, id)
}

// RollNumber derives the roll number from a student ID.
func RollNumber(id uint) string {
	return bandedIdentifier(rollNumberPrefix, id)
}
