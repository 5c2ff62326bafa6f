package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbaille/ankigraph/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		tag  string
		want domain.Category
	}{
		{"#B&B::Biochem::Vitamins", domain.CategoryBB},
		{"#AK_Step1_v11::#Pathoma::Ch1", domain.CategoryPathoma},
		{"#Sketchy::Micro::Bacteria", domain.CategorySketchy},
		{"#FirstAid::Cardio", domain.CategoryFirstAid},
		{"other", domain.CategoryOther},
		{"", domain.CategoryOther},
		{"#b&b::lowercase", domain.CategoryOther},
		{"#B&B::x::#Pathoma::y", domain.CategoryBB},
		{"#Pathoma::y::#B&B::x", domain.CategoryBB},
		{"#Sketchy::#FirstAid", domain.CategorySketchy},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.tag))
		})
	}
}

func TestClassifyOtherIsGray(t *testing.T) {
	c := Classify("other")
	assert.Equal(t, domain.CategoryOther, c)
	assert.Equal(t, domain.Color{R: 0.79296875, G: 0.79296875, B: 0.79296875, A: 1}, c.Color())
}

func TestMarker(t *testing.T) {
	assert.Equal(t, "#B&B", Marker(domain.CategoryBB))
	assert.Equal(t, "#FirstAid", Marker(domain.CategoryFirstAid))
	assert.Equal(t, "", Marker(domain.CategoryOther))

	for _, c := range domain.Categories() {
		if c == domain.CategoryOther {
			continue
		}
		assert.Equal(t, c, Classify("x"+Marker(c)+"y"), "marker for %s", c)
	}
}
