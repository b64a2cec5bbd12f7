package plugins

import (
	"context"
	"errors"
	"testing"
)

type staticSource struct {
	records []Record
	err     error
	opened  []string
}

func (s *staticSource) Plugins(_ context.Context) ([]Record, error) {
	return s.records, s.err
}

func (s *staticSource) Open(_ context.Context, name string) (Plugin, error) {
	s.opened = append(s.opened, name)
	env, _, _ := TestEnv()
	return newTestPlugin(name)(env), nil
}

func TestCompositeMergesAndSorts(t *testing.T) {
	bundled := &staticSource{records: []Record{{Name: "lint", Type: Bundled}, {Name: "audit", Type: Bundled}}}
	external := &staticSource{records: []Record{{Name: "lint", Type: External}, {Name: "scan", Type: External}}}

	records, err := NewComposite(bundled, external).Plugins(context.Background())
	if err != nil {
		t.Fatalf("Plugins() error: %v", err)
	}

	want := []Record{
		{Name: "audit", Type: Bundled},
		{Name: "lint", Type: Bundled},
		{Name: "lint", Type: External},
		{Name: "scan", Type: External},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
		}
	}
	if !HasExternal(records) {
		t.Error("expected external plugins")
	}
}

func TestCompositeFailsWhenAnySourceFails(t *testing.T) {
	boom := errors.New("boom")
	ok := &staticSource{records: []Record{{Name: "audit", Type: Bundled}}}
	bad := &staticSource{err: boom}

	_, err := NewComposite(ok, bad).Plugins(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestCompositeOpenFirstSourceWins(t *testing.T) {
	bundled := &staticSource{records: []Record{{Name: "lint", Type: Bundled}}}
	external := &staticSource{records: []Record{{Name: "lint", Type: External}, {Name: "scan", Type: External}}}
	c := NewComposite(bundled, external)

	_, rec, err := c.Open(context.Background(), "lint")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if rec.Type != Bundled || len(bundled.opened) != 1 || len(external.opened) != 0 {
		t.Errorf("expected bundled source to win, got %+v", rec)
	}

	_, rec, err = c.Open(context.Background(), "scan")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if rec.Type != External {
		t.Errorf("expected external record, got %+v", rec)
	}

	_, _, err = c.Open(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
