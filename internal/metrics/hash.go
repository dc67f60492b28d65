package metrics

// Hash32 mixes 32-bit input into a well-distributed 32-bit output.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash2 returns a stable hash for 2D integer coordinates and a seed.
func Hash2(seed uint32, x, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(z) * 0x85ebca6b
	return Hash32(h)
}

// HashFloat maps (seed, x, z, salt) to [0, 1).
func HashFloat(seed uint32, x, z int32, salt uint32) float64 {
	return float64(Hash2(seed^Hash32(salt+1), x, z)) / (1 << 32)
}
