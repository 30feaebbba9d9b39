package economy

// Request categories and urgency levels. The HTTP layer validates enum
// membership; everything below assumes known values.
const (
	TypeProjectMaterial  = "Project Material"
	TypeCollaboration    = "Collaboration"
	TypeTeachingMaterial = "Teaching Material"
	TypeOthers           = "Others"

	UrgencyLow     = "Low"
	UrgencyMedium  = "Medium"
	UrgencyHigh    = "High"
	UrgencyExtreme = "Extreme"
)

var TypeCost = map[string]int64{
	TypeCollaboration:    3,
	TypeProjectMaterial:  5,
	TypeTeachingMaterial: 7,
	TypeOthers:           10,
}

var UrgencyCost = map[string]int64{
	UrgencyLow:     5,
	UrgencyMedium:  8,
	UrgencyHigh:    15,
	UrgencyExtreme: 20,
}

// Cost returns the coin price for posting a request of the given type and
// urgency. Both values must be members of the enumerated sets above.
func Cost(requestType, urgency string) int64 {
	return TypeCost[requestType] + UrgencyCost[urgency]
}

func ValidType(requestType string) bool {
	_, ok := TypeCost[requestType]
	return ok
}

func ValidUrgency(urgency string) bool {
	_, ok := UrgencyCost[urgency]
	return ok
}
