package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Diagnostics holds the advisory cluster-count curves over Ks. The three
// picks are advisory only; the pipeline clusters with the configured k.
type Diagnostics struct {
	Ks         []int
	WCSS       []float64
	Silhouette []float64
	Gap        []float64
	GapSE      []float64

	ElbowK      int
	SilhouetteK int
	GapK        int
}

// WithinSS is the total within-cluster sum of squared Euclidean distances
// to each cluster centroid.
func WithinSS(data [][]float64, labels []int) float64 {
	if len(data) == 0 || len(data) != len(labels) {
		return 0
	}
	dims := len(data[0])
	sums := make(map[int][]float64)
	counts := make(map[int]int)
	for i, row := range data {
		l := labels[i]
		if sums[l] == nil {
			sums[l] = make([]float64, dims)
		}
		for j, v := range row {
			sums[l][j] += v
		}
		counts[l]++
	}
	total := 0.0
	for i, row := range data {
		l := labels[i]
		n := float64(counts[l])
		for j, v := range row {
			d := v - sums[l][j]/n
			total += d * d
		}
	}
	return total
}

// Silhouette is the mean silhouette coefficient over all points: for each
// point, a is the mean distance to its own cluster, b the lowest mean
// distance to another cluster, and the score (b-a)/max(a,b). Singleton
// clusters score 0.
func Silhouette(d *mat.SymDense, labels []int) float64 {
	n := d.SymmetricDim()
	if n == 0 || n != len(labels) {
		return 0
	}
	members := make(map[int][]int)
	for i, l := range labels {
		members[l] = append(members[l], i)
	}
	if len(members) < 2 {
		return 0
	}

	total := 0.0
	for i := 0; i < n; i++ {
		own := labels[i]
		if len(members[own]) == 1 {
			continue // s(i) = 0
		}
		a := meanDistance(d, i, members[own], true)
		b := math.Inf(1)
		for l, idx := range members {
			if l == own {
				continue
			}
			if m := meanDistance(d, i, idx, false); m < b {
				b = m
			}
		}
		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(n)
}

func meanDistance(d *mat.SymDense, i int, members []int, skipSelf bool) float64 {
	sum, n := 0.0, 0
	for _, j := range members {
		if skipSelf && j == i {
			continue
		}
		sum += d.At(i, j)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Suggest runs all three advisory diagnostics over k = kmin..kmax:
// the WCSS elbow curve, the mean silhouette curve, and the gap statistic
// against gapSamples uniform reference draws (Tibshirani's one standard
// error rule picks GapK).
func Suggest(data [][]float64, kmin, kmax, gapSamples int, p Partitioner, seed int64) (*Diagnostics, error) {
	if kmin < 2 {
		return nil, fmt.Errorf("diagnostics: kmin must be >= 2, got %d", kmin)
	}
	if kmax < kmin {
		return nil, fmt.Errorf("diagnostics: kmax (%d) below kmin (%d)", kmax, kmin)
	}
	if len(data) <= kmax {
		return nil, fmt.Errorf("diagnostics: kmax = %d needs more than %d observations", kmax, len(data))
	}
	if gapSamples < 1 {
		return nil, fmt.Errorf("diagnostics: gap samples must be >= 1, got %d", gapSamples)
	}

	diag := &Diagnostics{}
	d := rowDistances(data)
	for k := kmin; k <= kmax; k++ {
		labels, err := p.Partition(data, k)
		if err != nil {
			return nil, fmt.Errorf("diagnostics: k=%d: %w", k, err)
		}
		diag.Ks = append(diag.Ks, k)
		diag.WCSS = append(diag.WCSS, WithinSS(data, labels))
		diag.Silhouette = append(diag.Silhouette, Silhouette(d, labels))
	}

	// Gap statistic: reference WCSS from uniform draws within the observed
	// per-feature bounds.
	rng := rand.New(rand.NewSource(seed))
	lo, hi := featureBounds(data)
	refLogW := make([][]float64, len(diag.Ks)) // [kIdx][sample]
	for i := range refLogW {
		refLogW[i] = make([]float64, gapSamples)
	}
	for b := 0; b < gapSamples; b++ {
		ref := uniformReference(len(data), lo, hi, rng)
		for i, k := range diag.Ks {
			labels, err := p.Partition(ref, k)
			if err != nil {
				return nil, fmt.Errorf("diagnostics: reference sample %d, k=%d: %w", b, k, err)
			}
			refLogW[i][b] = safeLog(WithinSS(ref, labels))
		}
	}
	for i := range diag.Ks {
		meanRef := stat.Mean(refLogW[i], nil)
		diag.Gap = append(diag.Gap, meanRef-safeLog(diag.WCSS[i]))
		sd := stat.StdDev(refLogW[i], nil)
		if gapSamples == 1 {
			sd = 0
		}
		diag.GapSE = append(diag.GapSE, sd*math.Sqrt(1+1/float64(gapSamples)))
	}

	diag.ElbowK = elbowPick(diag.Ks, diag.WCSS)
	diag.SilhouetteK = argmaxK(diag.Ks, diag.Silhouette)
	diag.GapK = gapPick(diag.Ks, diag.Gap, diag.GapSE)
	return diag, nil
}

// elbowPick returns the k with the sharpest bend (largest second
// difference) of the WCSS curve.
func elbowPick(ks []int, wcss []float64) int {
	if len(ks) < 3 {
		return ks[0]
	}
	best, bestK := math.Inf(-1), ks[0]
	for i := 1; i < len(wcss)-1; i++ {
		d2 := wcss[i-1] - 2*wcss[i] + wcss[i+1]
		if d2 > best {
			best, bestK = d2, ks[i]
		}
	}
	return bestK
}

func argmaxK(ks []int, scores []float64) int {
	best, bestK := math.Inf(-1), ks[0]
	for i, s := range scores {
		if s > best {
			best, bestK = s, ks[i]
		}
	}
	return bestK
}

// gapPick applies the one standard error rule: the smallest k with
// Gap(k) >= Gap(k+1) - SE(k+1).
func gapPick(ks []int, gap, se []float64) int {
	for i := 0; i < len(ks)-1; i++ {
		if gap[i] >= gap[i+1]-se[i+1] {
			return ks[i]
		}
	}
	return ks[len(ks)-1]
}

func featureBounds(data [][]float64) (lo, hi []float64) {
	dims := len(data[0])
	lo = make([]float64, dims)
	hi = make([]float64, dims)
	copy(lo, data[0])
	copy(hi, data[0])
	for _, row := range data[1:] {
		for j, v := range row {
			if v < lo[j] {
				lo[j] = v
			}
			if v > hi[j] {
				hi[j] = v
			}
		}
	}
	return lo, hi
}

func uniformReference(n int, lo, hi []float64, rng *rand.Rand) [][]float64 {
	ref := make([][]float64, n)
	for i := range ref {
		row := make([]float64, len(lo))
		for j := range row {
			row[j] = lo[j] + rng.Float64()*(hi[j]-lo[j])
		}
		ref[i] = row
	}
	return ref
}

func safeLog(w float64) float64 {
	if w < 1e-12 {
		w = 1e-12
	}
	return math.Log(w)
}

func rowDistances(data [][]float64) *mat.SymDense {
	n := len(data)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, euclidean(data[i], data[j]))
		}
	}
	return d
}

func euclidean(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}
