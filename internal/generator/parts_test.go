package generator_test

import (
	"errors"
	"testing"

	"nfd/internal/generator"

	"github.com/stretchr/testify/assert"
)

func TestCode_FixedOrderAndDelimiter(t *testing.T) {
	assert.Equal(t, "rex_b.png,roar_m.png,big_e.png",
		generator.Code("rex_b.png", "roar_m.png", "big_e.png"))

	// Order is significant: swapping arguments produces a different code.
	assert.NotEqual(t,
		generator.Code("a_b.png", "b_m.png", "c_e.png"),
		generator.Code("b_m.png", "a_b.png", "c_e.png"))
}

func TestSplitCode_RoundTrip(t *testing.T) {
	code := generator.Code("rex_b.png", "roar_m.png", "big_e.png")
	parts := generator.SplitCode(code)

	assert.Equal(t, "rex_b.png", parts.Body)
	assert.Equal(t, "roar_m.png", parts.Mouth)
	assert.Equal(t, "big_e.png", parts.Eyes)
	assert.Equal(t, code, parts.Code)
}

func TestPick_SelectsFromEachCatalog(t *testing.T) {
	bodies := []string{"a_b.png", "b_b.png", "c_b.png"}
	mouths := []string{"x_m.png", "y_m.png"}
	eyes := []string{"o_e.png"}

	for i := 0; i < 50; i++ {
		parts, err := generator.Pick(bodies, mouths, eyes)
		assert.NoError(t, err)
		assert.Contains(t, bodies, parts.Body)
		assert.Contains(t, mouths, parts.Mouth)
		assert.Contains(t, eyes, parts.Eyes)
		assert.Equal(t, generator.Code(parts.Body, parts.Mouth, parts.Eyes), parts.Code)
	}
}

func TestPick_EmptyCatalog(t *testing.T) {
	_, err := generator.Pick(nil, []string{"x_m.png"}, []string{"o_e.png"})
	assert.True(t, errors.Is(err, generator.ErrEmptyCatalog))

	_, err = generator.Pick([]string{"a_b.png"}, nil, []string{"o_e.png"})
	assert.True(t, errors.Is(err, generator.ErrEmptyCatalog))

	_, err = generator.Pick([]string{"a_b.png"}, []string{"x_m.png"}, nil)
	assert.True(t, errors.Is(err, generator.ErrEmptyCatalog))
}
