package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGPA(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{"labeled with colon", "GPA: 3.45", 3.45, true},
		{"labeled with equals", "CUMULATIVE GPA = 2.98", 2.98, true},
		{"bare label", "GPA 3.2 overall", 3.2, true},
		{"cgpa variant", "CGPA: 3.75", 3.75, true},
		{"lowercase", "gpa: 3.10", 3.1, true},
		{"loose fallback", "GPA for the year was 3.75", 3.75, true},
		{"embedded in transcript", "Semester 2\nCumulative GPA: 3.00\nDean's list", 3.0, true},
		{"no grade info", "no grade info here", 0, false},
		{"empty text", "", 0, false},
		{"out of range", "GPA: 5.45", 0, false},
		{"integer only", "GPA: 3", 0, false},
		{"label too far away", "GPA mentioned much earlier in this long paragraph 3.4", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractGPA(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestExtractGPARange(t *testing.T) {
	// Whatever matches must land in the 0-4.x grading scale.
	samples := []string{
		"GPA: 0.50", "GPA: 4.99", "gpa = 1.2", "CGPA 2.33",
	}
	for _, s := range samples {
		v, ok := ExtractGPA(s)
		assert.True(t, ok, s)
		assert.GreaterOrEqual(t, v, 0.0, s)
		assert.Less(t, v, 5.0, s)
	}
}

func TestExtractGPAPatternOrderIsDeterministic(t *testing.T) {
	// Two candidate values: the direct label pattern wins over the loose one
	// every time.
	text := "GPA: 3.45 but earlier someone scribbled GPA maybe 2.10"
	for i := 0; i < 10; i++ {
		v, ok := ExtractGPA(text)
		assert.True(t, ok)
		assert.InDelta(t, 3.45, v, 1e-9)
	}
}
