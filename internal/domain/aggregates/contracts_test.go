package aggregates

import "testing"

func TestContractsOwnTheirWriteTransactions(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Contracts() {
		if c.Name == "" {
			t.Fatalf("contract without name: %+v", c)
		}
		if seen[c.Name] {
			t.Fatalf("duplicate contract %q", c.Name)
		}
		seen[c.Name] = true
		if !c.RequiresAggregateOwnedTx() {
			t.Fatalf("%s: expected aggregate-owned transactions", c.Name)
		}
		if c.ReadPolicy != ReadPolicyInvariantScoped {
			t.Fatalf("%s: unexpected read policy %q", c.Name, c.ReadPolicy)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 contracts, got %d", len(seen))
	}
}
