package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestLockableList(t *testing.T) {
	t.Run("advance wraps around", func(t *testing.T) {
		var l lockableList[int]
		l.set([]int{1, 2, 3})

		assert.Equal(t, 1, l.current())
		l.advance()
		l.advance()
		assert.Equal(t, 3, l.current())
		l.advance()
		assert.Equal(t, 1, l.current())
	})

	t.Run("set resets out of range cursor", func(t *testing.T) {
		var l lockableList[int]
		l.set([]int{1, 2, 3})
		l.advance()
		l.advance()

		l.set([]int{4, 5})
		assert.Equal(t, 4, l.current())

		l.advance()
		l.set([]int{6, 7})
		assert.Equal(t, 7, l.current())
	})

	t.Run("empty list", func(t *testing.T) {
		var l lockableList[int]
		assert.True(t, l.isEmpty())
		assert.Nil(t, l.clone())
		l.advance()
		assert.Equal(t, 0, l.index)
	})

	t.Run("clone does not alias", func(t *testing.T) {
		var l lockableList[int]
		l.set([]int{1, 2})
		c := l.clone()
		c[0] = 10
		assert.Equal(t, 1, l.first())
	})

	t.Run("cursor follows advances", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(1, 20).Draw(t, "n")
			k := rapid.IntRange(0, 100).Draw(t, "k")

			items := make([]int, n)
			for i := range items {
				items[i] = i
			}
			var l lockableList[int]
			l.set(items)
			for i := 0; i < k; i++ {
				l.advance()
			}
			if l.current() != k%n {
				t.Fatalf("expected cursor at %d, got %d", k%n, l.current())
			}
		})
	})
}
