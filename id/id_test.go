package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/tokenledger/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"AccountID", id.NewAccountID, "acct_"},
		{"AssetID", id.NewAssetID, "asset_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixAccount)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixAccount {
		t.Errorf("expected prefix %q, got %q", id.PrefixAccount, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := id.NewAccountID()

	parsed, err := id.ParseAccountID(original.String())
	if err != nil {
		t.Fatalf("ParseAccountID(%q): %v", original.String(), err)
	}
	if !parsed.Equal(original) {
		t.Errorf("round trip: got %q, want %q", parsed, original)
	}
}

func TestParseWithPrefixMismatch(t *testing.T) {
	asset := id.NewAssetID()
	if _, err := id.ParseAccountID(asset.String()); err == nil {
		t.Error("expected error parsing asset ID as account ID")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "not-a-typeid", "acct_"} {
		if _, err := id.Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error", s)
		}
	}
}

func TestNil(t *testing.T) {
	if !id.Nil.IsNil() {
		t.Error("Nil must report IsNil")
	}
	if id.Nil.String() != "" {
		t.Errorf("Nil.String(): got %q, want empty", id.Nil.String())
	}
	if id.NewAccountID().IsNil() {
		t.Error("generated ID must not be nil")
	}
}

func TestEqual(t *testing.T) {
	a := id.NewAccountID()
	b := id.NewAccountID()

	if !a.Equal(a) {
		t.Error("ID must equal itself")
	}
	if a.Equal(b) {
		t.Error("distinct IDs must not be equal")
	}
	if a.Equal(id.Nil) {
		t.Error("valid ID must not equal Nil")
	}
	if !id.Nil.Equal(id.Nil) {
		t.Error("Nil must equal Nil")
	}
}

func TestTextRoundTrip(t *testing.T) {
	original := id.NewAssetID()

	text, err := original.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip: got %q, want %q", decoded, original)
	}
}

func TestScanValue(t *testing.T) {
	original := id.NewAccountID()

	v, err := original.Value()
	if err != nil {
		t.Fatal(err)
	}

	var scanned id.ID
	if err := scanned.Scan(v); err != nil {
		t.Fatal(err)
	}
	if !scanned.Equal(original) {
		t.Errorf("round trip: got %q, want %q", scanned, original)
	}

	var fromNull id.ID
	if err := fromNull.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !fromNull.IsNil() {
		t.Error("scanning NULL must produce Nil")
	}
}
