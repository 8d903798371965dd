package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSteps(t *testing.T) {
	t.Run("ascending half-open range", func(t *testing.T) {
		require.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9}, Steps(2, 10, 1))
	})

	t.Run("strided range", func(t *testing.T) {
		require.Equal(t, []int{1, 4, 7}, Steps(1, 10, 3))
	})

	t.Run("descending range", func(t *testing.T) {
		require.Equal(t, []int{10, 8, 6, 4, 2}, Steps(10, 0, -2))
	})

	t.Run("empty ranges", func(t *testing.T) {
		require.Empty(t, Steps(5, 5, 1))
		require.Empty(t, Steps(5, 1, 1))
		require.Empty(t, Steps(1, 5, -1))
		require.Empty(t, Steps(1, 5, 0))
	})
}
