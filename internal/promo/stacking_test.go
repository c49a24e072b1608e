package promo

import (
	"testing"

	"github.com/google/uuid"
)

func eligibleWith(priority int32, opts func(*Promotion)) Eligible {
	p := Promotion{ID: uuid.New(), Scope: ScopeOrder, Priority: priority}
	if opts != nil {
		opts(&p)
	}
	return Eligible{Promotion: p}
}

func TestResolveStackingOrdersByPriorityThenID(t *testing.T) {
	a := eligibleWith(20, nil)
	b := eligibleWith(10, nil)
	c := eligibleWith(10, nil)

	got := ResolveStacking([]Eligible{a, b, c})
	if len(got) != 3 {
		t.Fatalf("expected 3 applied, got %d", len(got))
	}
	if got[2].Promotion.ID != a.Promotion.ID {
		t.Fatal("expected highest priority value last")
	}
	// Ties break on ascending id bytes for a stable result.
	first, second := got[0].Promotion.ID, got[1].Promotion.ID
	for i := range first {
		if first[i] != second[i] {
			if first[i] > second[i] {
				t.Fatal("tied promotions not ordered by id")
			}
			break
		}
	}
}

func TestResolveStackingExclusiveWinsWhenFirst(t *testing.T) {
	exclusive := eligibleWith(1, func(p *Promotion) { p.Exclusive = true })
	regular := eligibleWith(5, nil)

	got := ResolveStacking([]Eligible{regular, exclusive})
	if len(got) != 1 {
		t.Fatalf("expected only the exclusive promotion, got %d", len(got))
	}
	if got[0].Promotion.ID != exclusive.Promotion.ID {
		t.Fatal("expected the exclusive promotion to apply")
	}
}

func TestResolveStackingExclusiveSkippedWhenNotFirst(t *testing.T) {
	regular := eligibleWith(1, nil)
	exclusive := eligibleWith(5, func(p *Promotion) { p.Exclusive = true })
	trailing := eligibleWith(9, nil)

	got := ResolveStacking([]Eligible{trailing, exclusive, regular})
	if len(got) != 2 {
		t.Fatalf("expected 2 applied, got %d", len(got))
	}
	for _, e := range got {
		if e.Promotion.ID == exclusive.Promotion.ID {
			t.Fatal("exclusive promotion must not join an existing stack")
		}
	}
}

func TestResolveStackingStopFurtherProcessing(t *testing.T) {
	first := eligibleWith(1, nil)
	stopper := eligibleWith(2, func(p *Promotion) { p.StopFurtherProcessing = true })
	dropped := eligibleWith(3, nil)

	got := ResolveStacking([]Eligible{dropped, stopper, first})
	if len(got) != 2 {
		t.Fatalf("expected 2 applied, got %d", len(got))
	}
	if got[0].Promotion.ID != first.Promotion.ID || got[1].Promotion.ID != stopper.Promotion.ID {
		t.Fatal("expected the stopper to apply and cut off the rest")
	}
}

func TestResolveStackingEmptyInput(t *testing.T) {
	if got := ResolveStacking(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
