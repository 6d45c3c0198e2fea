package leads

import "testing"

func intPtr(v int) *int { return &v }

func TestScoreSignalTable(t *testing.T) {
	tests := []struct {
		name         string
		lead         Lead
		wantScore    int
		wantPriority Priority
	}{
		{
			name:         "empty lead",
			lead:         Lead{},
			wantScore:    0,
			wantPriority: PriorityLow,
		},
		{
			name:         "company name only",
			lead:         Lead{CompanyName: "Acme Ltd"},
			wantScore:    10,
			wantPriority: PriorityLow,
		},
		{
			name:         "large fleet",
			lead:         Lead{CurrentFleetSize: intPtr(150)},
			wantScore:    25,
			wantPriority: PriorityStandard,
		},
		{
			name:         "mid fleet band",
			lead:         Lead{CurrentFleetSize: intPtr(50)},
			wantScore:    20,
			wantPriority: PriorityStandard,
		},
		{
			name:         "small fleet band",
			lead:         Lead{CurrentFleetSize: intPtr(12)},
			wantScore:    10,
			wantPriority: PriorityLow,
		},
		{
			name:         "tiny fleet still counts",
			lead:         Lead{CurrentFleetSize: intPtr(3)},
			wantScore:    5,
			wantPriority: PriorityLow,
		},
		{
			name:         "growth without current fleet",
			lead:         Lead{ProjectedFleetSize: intPtr(10)},
			wantScore:    10,
			wantPriority: PriorityLow,
		},
		{
			name:         "no growth when shrinking",
			lead:         Lead{CurrentFleetSize: intPtr(100), ProjectedFleetSize: intPtr(80)},
			wantScore:    25,
			wantPriority: PriorityStandard,
		},
		{
			name:         "urgent timeline",
			lead:         Lead{Timeline: "ASAP please"},
			wantScore:    25,
			wantPriority: PriorityStandard,
		},
		{
			name:         "quarter timeline",
			lead:         Lead{Timeline: "1-3 months"},
			wantScore:    20,
			wantPriority: PriorityStandard,
		},
		{
			name:         "vague timeline",
			lead:         Lead{Timeline: "sometime next year"},
			wantScore:    5,
			wantPriority: PriorityLow,
		},
		{
			name:         "budget and ev and incumbent",
			lead:         Lead{BudgetRange: "£50k", EVInterest: true, CurrentProvider: "LeasePlan"},
			wantScore:    30,
			wantPriority: PriorityStandard,
		},
		{
			name: "hot prospect",
			lead: Lead{
				CompanyName:      "Acme Ltd",
				CurrentFleetSize: intPtr(120),
				Timeline:         "Within 1 month",
				BudgetRange:      "£50k",
				EVInterest:       true,
			},
			wantScore:    85,
			wantPriority: PriorityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, priority := Score(&tt.lead)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if priority != tt.wantPriority {
				t.Errorf("priority = %s, want %s", priority, tt.wantPriority)
			}
		})
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	lead := Lead{
		CompanyName:      "Acme Ltd",
		CurrentFleetSize: intPtr(120),
		Timeline:         "Within 1 month",
		BudgetRange:      "£50k",
		EVInterest:       true,
	}
	lead.Rescore()
	first, firstPriority := lead.Score, lead.Priority
	lead.Rescore()
	if lead.Score != first || lead.Priority != firstPriority {
		t.Errorf("second rescore changed result: %d/%s vs %d/%s",
			lead.Score, lead.Priority, first, firstPriority)
	}
}

func TestPriorityMonotonicInScore(t *testing.T) {
	// Every threshold boundary, ascending.
	scores := []int{0, 19, 20, 44, 45, 69, 70, 100}
	prev := PriorityLow
	for _, s := range scores {
		p := priorityFor(s)
		if !p.AtLeast(prev) {
			t.Errorf("priority(%d) = %s dropped below %s", s, p, prev)
		}
		prev = p
	}
	if priorityFor(19) != PriorityLow {
		t.Error("19 should be Low")
	}
	if priorityFor(20) != PriorityStandard {
		t.Error("20 should be Standard")
	}
	if priorityFor(45) != PriorityMedium {
		t.Error("45 should be Medium")
	}
	if priorityFor(70) != PriorityHigh {
		t.Error("70 should be High")
	}
}
