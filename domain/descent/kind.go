package descent

// Kind classifies why a pair is excluded from further descent.
// The zero value KindNone marks a pair on which descent must continue.
type Kind string

// Exceptional kinds in classification priority order.
const (
	KindNone              Kind = ""
	KindBase              Kind = "base"                  // caller-defined terminal case
	KindZeroFirstCoord    Kind = "zero_first_coord"      // x = 0
	KindOnDiagonal        Kind = "on_diagonal"           // x = y
	KindVietaEqualsY      Kind = "vieta_equals_y"        // B(x) = y, partner is 0
	KindVietaEqualsYPlusX Kind = "vieta_equals_y_plus_x" // B(x) = y + x, partner is x
)

// IsExceptional returns true for every kind except KindNone.
func (k Kind) IsExceptional() bool {
	return k != KindNone
}

// IsBoundary returns true for the two kinds that cannot be discharged
// directly and must first be resolved through the Vieta partner.
func (k Kind) IsBoundary() bool {
	return k == KindVietaEqualsY || k == KindVietaEqualsYPlusX
}

// IsValid returns true if this is a recognized kind, including KindNone.
func (k Kind) IsValid() bool {
	switch k {
	case KindNone, KindBase, KindZeroFirstCoord, KindOnDiagonal, KindVietaEqualsY, KindVietaEqualsYPlusX:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}

// ExceptionalKinds returns all exceptional kinds in priority order.
func ExceptionalKinds() []Kind {
	return []Kind{
		KindBase,
		KindZeroFirstCoord,
		KindOnDiagonal,
		KindVietaEqualsY,
		KindVietaEqualsYPlusX,
	}
}
