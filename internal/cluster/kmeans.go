package cluster

import (
	"fmt"
	"math"

	"github.com/mpraski/clusters"
)

// Partitioner assigns each row of data to one of k groups. Labels may use
// any basing; only group identity matters to the diagnostics.
type Partitioner interface {
	Partition(data [][]float64, k int) ([]int, error)
}

// KMeans partitions with Lloyd's algorithm, keeping the restart with the
// lowest within-cluster sum of squares. It backs the advisory diagnostics
// only; the pipeline's actual clustering is the Ward dendrogram cut.
type KMeans struct {
	Iterations int
	Restarts   int
}

func (p KMeans) Partition(data [][]float64, k int) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("kmeans: k must be >= 1, got %d", k)
	}
	if len(data) < k {
		return nil, fmt.Errorf("kmeans: k = %d exceeds %d observations", k, len(data))
	}
	iters := p.Iterations
	if iters <= 0 {
		iters = 200
	}
	restarts := p.Restarts
	if restarts <= 0 {
		restarts = 1
	}

	var best []int
	bestW := math.Inf(1)
	for r := 0; r < restarts; r++ {
		c, err := clusters.KMeans(iters, k, clusters.EuclideanDistance)
		if err != nil {
			return nil, fmt.Errorf("kmeans: %w", err)
		}
		if err := c.Learn(data); err != nil {
			return nil, fmt.Errorf("kmeans learn: %w", err)
		}
		labels := append([]int(nil), c.Guesses()...)
		if w := WithinSS(data, labels); w < bestW {
			bestW, best = w, labels
		}
	}
	return best, nil
}
