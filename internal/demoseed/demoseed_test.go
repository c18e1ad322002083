package demoseed

import (
	"reflect"
	"testing"
	"time"

	"lazorwallet/internal/domain/entity"
)

var anchor = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(Options{Seed: "x", Now: anchor})
	b := Generate(Options{Seed: "x", Now: anchor})
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different catalogs")
	}

	c := Generate(Options{Seed: "y", Now: anchor})
	if reflect.DeepEqual(a.Activity, c.Activity) {
		t.Fatal("different seeds produced identical activity")
	}
}

func TestGenerateFullCatalog(t *testing.T) {
	data := Generate(Options{Now: anchor})

	if len(data.Tokens) != 10 {
		t.Errorf("token count = %d, want 10", len(data.Tokens))
	}
	if data.Tokens[0].Symbol != "SOL" || data.Tokens[1].Symbol != "USDC" {
		t.Errorf("token order wrong: %s, %s", data.Tokens[0].Symbol, data.Tokens[1].Symbol)
	}
	if len(data.Devices) != 4 {
		t.Errorf("device count = %d, want 4", len(data.Devices))
	}
	if len(data.Apps) < 24 {
		t.Errorf("app count = %d, want >= 24", len(data.Apps))
	}
	if len(data.Activity) != 40 {
		t.Errorf("activity count = %d, want 40", len(data.Activity))
	}
	if len(data.Pubkey) != 44 {
		t.Errorf("pubkey length = %d, want 44", len(data.Pubkey))
	}

	seen := map[string]bool{}
	for _, tok := range data.Tokens {
		if seen[tok.Symbol] {
			t.Errorf("duplicate holding for %s", tok.Symbol)
		}
		seen[tok.Symbol] = true
	}
}

func TestGenerateMinimal(t *testing.T) {
	data := Generate(Options{Minimal: true, Now: anchor})
	if len(data.Tokens) != 4 {
		t.Errorf("minimal token count = %d, want 4", len(data.Tokens))
	}
	if len(data.Devices) != 2 {
		t.Errorf("minimal device count = %d, want 2", len(data.Devices))
	}
	if len(data.Apps) != 8 {
		t.Errorf("minimal app count = %d, want 8", len(data.Apps))
	}
	if len(data.Activity) != 12 {
		t.Errorf("minimal activity count = %d, want 12", len(data.Activity))
	}
}

func TestActivityKindsCycleAndStatuses(t *testing.T) {
	data := Generate(Options{Now: anchor})
	wantKinds := []entity.ActivityKind{
		entity.KindOnramp, entity.KindSwap, entity.KindSend, entity.KindDeposit,
	}
	for i, act := range data.Activity {
		if act.Kind != wantKinds[i%4] {
			t.Fatalf("activity %d kind = %s, want %s", i, act.Kind, wantKinds[i%4])
		}
		switch act.Status {
		case entity.StatusSuccess, entity.StatusPending, entity.StatusFailed:
		default:
			t.Fatalf("activity %d has status %q", i, act.Status)
		}
		if act.Summary == "" {
			t.Fatalf("activity %d has empty summary", i)
		}
	}

	// Timestamps step backwards from the anchor.
	prev, err := time.Parse(time.RFC3339, data.Activity[0].TS)
	if err != nil {
		t.Fatal(err)
	}
	for _, act := range data.Activity[1:] {
		ts, err := time.Parse(time.RFC3339, act.TS)
		if err != nil {
			t.Fatal(err)
		}
		if !ts.Before(prev) {
			t.Fatalf("timestamps not strictly decreasing: %s then %s", prev, ts)
		}
		prev = ts
	}
}

func TestInitialState(t *testing.T) {
	demo := InitialState(true, Options{Now: anchor})
	if !demo.HasPasskey || !demo.HasWallet || demo.Pubkey == "" {
		t.Error("demo initial state should be fully onboarded")
	}
	if demo.Stage() != entity.StageReady {
		t.Errorf("demo stage = %s", demo.Stage())
	}
	if len(demo.Tokens) != 10 {
		t.Errorf("demo tokens = %d", len(demo.Tokens))
	}

	fresh := InitialState(false, Options{})
	if fresh.HasPasskey || fresh.HasWallet || fresh.Pubkey != "" {
		t.Error("new-user state should be empty")
	}
	if fresh.Stage() != entity.StageNoPasskey {
		t.Errorf("fresh stage = %s", fresh.Stage())
	}
	if len(fresh.Tokens) != 0 || len(fresh.Activity) != 0 {
		t.Error("new-user state should have no catalog")
	}
	if fresh.Fiat != entity.FiatUSD || fresh.RateUSDToVND != 27000 {
		t.Error("new-user defaults wrong")
	}
}
