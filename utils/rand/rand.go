// Package rand draws random numbers from the system RNG (`crypto/rand`).
//
// It is used where the SDK needs unpredictable values: transaction ID jitter
// and node sampling. Every function may fail if the system RNG fails, in which
// case the caller decides whether a fallback is acceptable.
package rand

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Uint64n returns a uniformly distributed random uint64 in [0, n).
// It returns an error if n is zero or if crypto/rand fails.
func Uint64n(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("n should be strictly positive, got %d", n)
	}
	max := n - 1

	size := 0
	for tmp := max; tmp != 0; tmp >>= 8 {
		size++
	}
	mask := uint64(0)
	for max&mask != max {
		mask = (mask << 1) | 1
	}

	// rejection sampling keeps the result uniform; reading only `size` bytes
	// makes a rejection less likely than one in two
	buffer := make([]byte, 8)
	random := n
	for random > max {
		if _, err := rand.Read(buffer[:size]); err != nil {
			return 0, fmt.Errorf("crypto/rand read failed: %w", err)
		}
		random = binary.LittleEndian.Uint64(buffer) & mask
	}
	return random, nil
}

// Intn returns a random int in [0, n).
func Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("n should be strictly positive, got %d", n)
	}
	r, err := Uint64n(uint64(n))
	return int(r), err
}

// Samples moves m randomly chosen elements out of n to indices [0, m) in
// random order, using the first m steps of a Fisher-Yates shuffle.
func Samples(n int, m int, swap func(i, j int)) error {
	if n < m {
		return fmt.Errorf("sample size (%d) cannot be larger than entire population (%d)", m, n)
	}
	for i := 0; i < m; i++ {
		j, err := Intn(n - i)
		if err != nil {
			return err
		}
		swap(i, i+j)
	}
	return nil
}

// Shuffle permutes n elements in place.
func Shuffle(n int, swap func(i, j int)) error {
	return Samples(n, n, swap)
}
