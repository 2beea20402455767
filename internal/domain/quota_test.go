package domain

import "testing"

func TestAllowanceTable(t *testing.T) {
	tests := []struct {
		name  string
		guest bool
		tier  Tier
		want  int
	}{
		{name: "guest free", guest: true, tier: TierFree, want: 3},
		{name: "guest recruiter flag ignored", guest: true, tier: TierRecruiter, want: 3},
		{name: "authenticated free", guest: false, tier: TierFree, want: 5},
		{name: "authenticated recruiter", guest: false, tier: TierRecruiter, want: 20},
		{name: "unknown tier treated as free", guest: false, tier: Tier("gold"), want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowance(tc.guest, tc.tier); got != tc.want {
				t.Fatalf("Allowance(%v, %q) = %d, want %d", tc.guest, tc.tier, got, tc.want)
			}
		})
	}
}

func TestAllowanceOrdering(t *testing.T) {
	guest := Allowance(true, TierFree)
	free := Allowance(false, TierFree)
	recruiter := Allowance(false, TierRecruiter)

	if !(guest < free && free < recruiter) {
		t.Fatalf("allowance ordering violated: guest=%d free=%d recruiter=%d", guest, free, recruiter)
	}
}
