package domain

import (
	"reflect"
	"testing"
)

func TestParseColorStock(t *testing.T) {
	got := ParseColorStock("블랙: 10\n화이트:5\n\n네이비\n그레이: oops\n: 3")
	want := []ColorStock{
		{Color: "블랙", Quantity: 10},
		{Color: "화이트", Quantity: 5},
		{Color: "네이비", Quantity: 0},
		{Color: "그레이", Quantity: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseColorStock = %+v, want %+v", got, want)
	}
}

func TestParseSizeStock(t *testing.T) {
	got := ParseSizeStock("S: 3\nM: 7\nL: -2")
	want := []SizeStock{
		{Size: "S", Quantity: 3},
		{Size: "M", Quantity: 7},
		{Size: "L", Quantity: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseSizeStock = %+v, want %+v", got, want)
	}
}

func TestParseStockEmptyInput(t *testing.T) {
	if got := ParseColorStock(""); got != nil {
		t.Fatalf("ParseColorStock(\"\") = %+v, want nil", got)
	}
	if got := ParseSizeStock("  \n  "); got != nil {
		t.Fatalf("ParseSizeStock(blank) = %+v, want nil", got)
	}
}
