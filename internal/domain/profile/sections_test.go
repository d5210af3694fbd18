package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVisibleDefaultsToTrue(t *testing.T) {
	assert.True(t, IsVisible(nil, SectionAbout))
	assert.True(t, IsVisible(Visibility{}, SectionAbout))
	assert.True(t, IsVisible(Visibility{SectionAbout: true}, SectionAbout))
	assert.False(t, IsVisible(Visibility{SectionAbout: false}, SectionAbout))
}

func TestDefaultSectionOrderIsACopy(t *testing.T) {
	a := DefaultSectionOrder()
	a[0] = "mutated"
	assert.Equal(t, SectionHero, DefaultSectionOrder()[0])
}

func TestRenderedSections(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		vis   Visibility
		want  []string
	}{
		{
			name:  "default profile renders everything",
			order: DefaultSectionOrder(),
			vis:   DefaultVisibility(),
			want:  DefaultSectionOrder(),
		},
		{
			name:  "hidden section is skipped",
			order: []string{SectionHero, SectionAbout, SectionContact},
			vis:   Visibility{SectionAbout: false},
			want:  []string{SectionHero, SectionContact},
		},
		{
			name:  "order is respected",
			order: []string{SectionContact, SectionHero},
			vis:   nil,
			want:  []string{SectionContact, SectionHero},
		},
		{
			name:  "section absent from order never renders",
			order: []string{SectionHero},
			vis:   Visibility{SectionAbout: true},
			want:  []string{SectionHero},
		},
		{
			name:  "unknown ids are dropped",
			order: []string{"blog", SectionHero},
			vis:   Visibility{"blog": true},
			want:  []string{SectionHero},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderedSections(tt.order, tt.vis))
		})
	}
}
