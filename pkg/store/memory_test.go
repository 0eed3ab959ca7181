// pkg/store/memory_test.go
package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/catalogkit/colmatch/pkg/model"
)

func TestMemoryStoreReinforce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Reinforce(ctx, "price", "price"); err != nil {
		t.Fatalf("Reinforce: %v", err)
	}

	patterns, err := s.Lookup(ctx, "price")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(patterns))
	}
	if patterns[0].Frequency != 1 {
		t.Errorf("first reinforcement frequency = %d, want 1", patterns[0].Frequency)
	}
	if patterns[0].LastUsed.IsZero() {
		t.Error("last_used must be set")
	}

	for i := 0; i < 4; i++ {
		if err := s.Reinforce(ctx, "price", "price"); err != nil {
			t.Fatalf("Reinforce: %v", err)
		}
	}
	patterns, _ = s.Lookup(ctx, "price")
	if patterns[0].Frequency != 5 {
		t.Errorf("frequency after 5 reinforcements = %d, want 5", patterns[0].Frequency)
	}
}

func TestMemoryStoreLookupOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// price_ht reinforced 3 times, purchase once
	for i := 0; i < 3; i++ {
		if err := s.Reinforce(ctx, "price", "price_ht"); err != nil {
			t.Fatalf("Reinforce: %v", err)
		}
	}
	if err := s.Reinforce(ctx, "price", "purchase_price"); err != nil {
		t.Fatalf("Reinforce: %v", err)
	}

	patterns, err := s.Lookup(ctx, "price")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(patterns))
	}
	if patterns[0].TargetColumn != "price_ht" || patterns[0].Frequency != 3 {
		t.Errorf("highest-frequency pattern first, got %+v", patterns[0])
	}
	if patterns[1].TargetColumn != "purchase_price" {
		t.Errorf("second pattern = %+v, want purchase_price", patterns[1])
	}

	missing, err := s.Lookup(ctx, "no such key")
	if err != nil || len(missing) != 0 {
		t.Errorf("Lookup of unknown key = (%v, %v), want empty", missing, err)
	}
}

func TestMemoryStoreConcurrentReinforce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if err := s.Reinforce(ctx, "reference", "reference"); err != nil {
					t.Errorf("Reinforce: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	patterns, err := s.Lookup(ctx, "reference")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if patterns[0].Frequency != writers*perWriter {
		t.Errorf("frequency after concurrent reinforcement = %d, want %d",
			patterns[0].Frequency, writers*perWriter)
	}
}

func TestMemoryStoreCorrections(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := model.NewCorrectionRecord("Réf.", model.LanguageFrench, "reference", "manual", 0.4)
	second := model.NewCorrectionRecord("Prix", model.LanguageFrench, "price", "manual", 0.5)
	second.RecordedAt = first.RecordedAt.Add(time.Second)

	if err := s.AppendCorrection(ctx, first); err != nil {
		t.Fatalf("AppendCorrection: %v", err)
	}
	if err := s.AppendCorrection(ctx, second); err != nil {
		t.Fatalf("AppendCorrection: %v", err)
	}

	count, err := s.CountCorrections(ctx)
	if err != nil || count != 2 {
		t.Errorf("CountCorrections = (%d, %v), want 2", count, err)
	}

	recent, err := s.RecentCorrections(ctx, 1)
	if err != nil {
		t.Fatalf("RecentCorrections: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != second.ID {
		t.Errorf("RecentCorrections(1) = %+v, want newest record only", recent)
	}

	all, _ := s.RecentCorrections(ctx, 0)
	if len(all) != 2 {
		t.Errorf("RecentCorrections(0) returned %d records, want all 2", len(all))
	}
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Reinforce(ctx, "price", "price"); err != nil {
		t.Fatalf("Reinforce: %v", err)
	}
	rec := model.NewCorrectionRecord("Prix", model.LanguageFrench, "price", "manual", 0.5)
	if err := s.AppendCorrection(ctx, rec); err != nil {
		t.Fatalf("AppendCorrection: %v", err)
	}

	if err := s.ResetPatterns(ctx); err != nil {
		t.Fatalf("ResetPatterns: %v", err)
	}
	patterns, _ := s.Patterns(ctx)
	if len(patterns) != 0 {
		t.Errorf("patterns after reset = %d, want 0", len(patterns))
	}

	// Corrections survive a pattern reset
	count, _ := s.CountCorrections(ctx)
	if count != 1 {
		t.Errorf("corrections after pattern reset = %d, want 1", count)
	}

	if err := s.ResetCorrections(ctx); err != nil {
		t.Fatalf("ResetCorrections: %v", err)
	}
	count, _ = s.CountCorrections(ctx)
	if count != 0 {
		t.Errorf("corrections after reset = %d, want 0", count)
	}
}
