package embedding

// Normalize maps a vector of arbitrary length onto exactly dim entries.
//
// Providers emit different native dimensionalities while the vector index has
// one fixed dimension, so every vector must pass through here before storage
// or query. The same mapping must apply at ingest time and query time or
// similarity scores become meaningless.
//
// When the input length is an integer multiple of dim, contiguous blocks are
// average-pooled, which keeps more signal than sampling and stays
// deterministic. Otherwise elements are stride-sampled.
func Normalize(vec []float32, dim int) []float32 {
	n := len(vec)
	if n == 0 || dim <= 0 || n == dim {
		return vec
	}

	out := make([]float32, dim)
	if n%dim == 0 {
		step := n / dim
		for i := 0; i < dim; i++ {
			var sum float64
			for j := i * step; j < (i+1)*step; j++ {
				sum += float64(vec[j])
			}
			out[i] = float32(sum / float64(step))
		}
		return out
	}

	stride := float64(n) / float64(dim)
	for i := 0; i < dim; i++ {
		out[i] = vec[int(float64(i)*stride)]
	}
	return out
}
