// cmd/colmatch/match_test.go
package main

import (
	"reflect"
	"testing"

	"github.com/catalogkit/colmatch/pkg/model"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "   ", want: nil},
		{name: "simple", in: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "trimmed", in: " Réf. , Prix HT ", want: []string{"Réf.", "Prix HT"}},
		{name: "blank column kept", in: "a,,b", want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTargets(t *testing.T) {
	got := parseTargets("reference, price=prix|tarif, stock=")
	want := []model.TargetColumn{
		{Name: "reference"},
		{Name: "price", Aliases: []string{"prix", "tarif"}},
		{Name: "stock"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseTargets = %+v, want %+v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("Désignation fournisseur", 12); len([]rune(got)) != 12 {
		t.Errorf("truncate length = %d, want 12", len([]rune(got)))
	}
}
