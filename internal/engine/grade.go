package engine

// GradeProfile selects which grade scale a consumer sees
type GradeProfile int

const (
	// GradeProfileFine is the full A+ through F scale
	GradeProfileFine GradeProfile = iota
	// GradeProfileCoarse is the compact A+ through B scale used by
	// notification surfaces
	GradeProfileCoarse
)

// Grade maps a [0,1] confidence to an ordinal letter grade under the
// selected profile. Total and monotonic over the whole input range.
func Grade(confidence float64, profile GradeProfile) string {
	pct := float64(ConfidencePercent(confidence))
	if profile == GradeProfileCoarse {
		return coarseGrade(pct)
	}
	return fineGrade(pct)
}

func fineGrade(pct float64) string {
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 85:
		return "A"
	case pct >= 80:
		return "A-"
	case pct >= 75:
		return "B+"
	case pct >= 70:
		return "B"
	case pct >= 65:
		return "B-"
	case pct >= 60:
		return "C+"
	case pct >= 55:
		return "C"
	case pct >= 50:
		return "C-"
	case pct >= 45:
		return "D+"
	case pct >= 40:
		return "D"
	default:
		return "F"
	}
}

func coarseGrade(pct float64) string {
	switch {
	case pct >= 85:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 75:
		return "A-"
	case pct >= 70:
		return "B+"
	default:
		return "B"
	}
}
