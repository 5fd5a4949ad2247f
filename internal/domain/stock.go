package domain

import (
	"strconv"
	"strings"
)

// ParseColorStock parses a stock sheet with one "Color: quantity" entry
// per line. Lines without a color label are dropped; malformed
// quantities count as zero.
func ParseColorStock(text string) []ColorStock {
	var out []ColorStock
	for _, line := range strings.Split(text, "\n") {
		label, qty, ok := splitStockLine(line)
		if !ok {
			continue
		}
		out = append(out, ColorStock{Color: label, Quantity: qty})
	}
	return out
}

// ParseSizeStock parses a stock sheet with one "Size: quantity" entry per line.
func ParseSizeStock(text string) []SizeStock {
	var out []SizeStock
	for _, line := range strings.Split(text, "\n") {
		label, qty, ok := splitStockLine(line)
		if !ok {
			continue
		}
		out = append(out, SizeStock{Size: label, Quantity: qty})
	}
	return out
}

func splitStockLine(line string) (string, int, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", 0, false
	}
	label, rest, _ := strings.Cut(line, ":")
	label = strings.TrimSpace(label)
	if label == "" {
		return "", 0, false
	}
	qty, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || qty < 0 {
		qty = 0
	}
	return label, qty, true
}
