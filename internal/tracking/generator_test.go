package tracking

import (
	"math/rand"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestGenerateProducesSixDigits(t *testing.T) {
	gen := NewGenerator(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		id := gen.Generate()
		assert.Regexp(t, sixDigits, id)

		n, err := strconv.Atoi(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGenerateIsDeterministicPerSource(t *testing.T) {
	a := NewGenerator(rand.NewSource(7))
	b := NewGenerator(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestDefaultGeneratorDraws(t *testing.T) {
	gen := NewDefaultGenerator()
	assert.Regexp(t, sixDigits, gen.Generate())
}
