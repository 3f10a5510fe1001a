package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lower", "goldshire", "goldshire"},
		{"title case", "Elwynn Forest", "elwynn forest"},
		{"upper", "STORMWIND CITY", "stormwind city"},
		{"trimmed", "  Goldshire\t", "goldshire"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"apostrophe kept", "Un'Goro Crater", "un'goro crater"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldLabel(tt.input))
		})
	}
}

func TestFoldLabel_NFCEquivalence(t *testing.T) {
	composed := "Quel'Thalas Caf\u00e9"
	decomposed := "Quel'Thalas Cafe\u0301"
	assert.Equal(t, FoldLabel(composed), FoldLabel(decomposed))
}

func TestFoldLabel_Idempotent(t *testing.T) {
	for _, s := range []string{"Elwynn Forest", "Dun Morogh", "Ironforge"} {
		once := FoldLabel(s)
		assert.Equal(t, once, FoldLabel(once), "folding %q twice should be stable", s)
	}
}

func TestFoldLabel_Concurrent(t *testing.T) {
	labels := []string{"Elwynn Forest", "GOLDSHIRE", "Caf\u00e9 Row", "Cafe\u0301 Row"}
	want := make([]string, len(labels))
	for i, l := range labels {
		want[i] = FoldLabel(l)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				for i, l := range labels {
					assert.Equal(t, want[i], FoldLabel(l))
				}
			}
		}()
	}
	wg.Wait()
}
