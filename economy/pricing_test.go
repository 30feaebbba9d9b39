package economy

import "testing"

func TestCostCoversEveryPair(t *testing.T) {
	types := map[string]int64{
		TypeCollaboration:    3,
		TypeProjectMaterial:  5,
		TypeTeachingMaterial: 7,
		TypeOthers:           10,
	}
	urgencies := map[string]int64{
		UrgencyLow:     5,
		UrgencyMedium:  8,
		UrgencyHigh:    15,
		UrgencyExtreme: 20,
	}
	for ty, tc := range types {
		for ur, uc := range urgencies {
			if got := Cost(ty, ur); got != tc+uc {
				t.Errorf("Cost(%q, %q) = %d, want %d", ty, ur, got, tc+uc)
			}
		}
	}
}

func TestCostExamples(t *testing.T) {
	if got := Cost(TypeOthers, UrgencyExtreme); got != 30 {
		t.Errorf("max cost = %d, want 30", got)
	}
	if got := Cost(TypeCollaboration, UrgencyLow); got != 8 {
		t.Errorf("min cost = %d, want 8", got)
	}
}

func TestValidators(t *testing.T) {
	if !ValidType(TypeProjectMaterial) || ValidType("Homework") {
		t.Error("ValidType misclassified a category")
	}
	if !ValidUrgency(UrgencyHigh) || ValidUrgency("Urgent") {
		t.Error("ValidUrgency misclassified a level")
	}
}
