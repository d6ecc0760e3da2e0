package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name                 string
		page, size           int
		wantPage, wantOffset int
		wantLimit            int
	}{
		{name: "defaults", page: 0, size: 0, wantPage: 1, wantOffset: 0, wantLimit: DefaultPageSize},
		{name: "second page", page: 2, size: 10, wantPage: 2, wantOffset: 10, wantLimit: 10},
		{name: "clamped size", page: 1, size: 1000, wantPage: 1, wantOffset: 0, wantLimit: MaxPageSize},
		{name: "negative page", page: -3, size: 5, wantPage: 1, wantOffset: 0, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, offset, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(2, 10, 10, 25)
	assert.Equal(t, Meta{Page: 2, Size: 10, Total: 25, TotalPages: 3, HasPrev: true, HasNext: true}, m)

	last := NewMeta(3, 20, 10, 25)
	assert.False(t, last.HasNext)

	empty := NewMeta(1, 0, 10, 0)
	assert.EqualValues(t, 0, empty.TotalPages)
	assert.False(t, empty.HasPrev)
}
