package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/StratifyWorks/segscope-cli/internal/cluster"
)

var (
	curveColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	markerColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// ElbowChart plots the WCSS curve with the elbow pick marked.
func ElbowChart(d *cluster.Diagnostics, path string) error {
	p := plot.New()
	p.Title.Text = "Elbow Curve"
	p.X.Label.Text = "k"
	p.Y.Label.Text = "Within-Cluster Sum of Squares"

	if err := addCurve(p, d.Ks, d.WCSS); err != nil {
		return fmt.Errorf("elbow chart: %w", err)
	}
	if err := addPickMarker(p, d.ElbowK, d.WCSS); err != nil {
		return fmt.Errorf("elbow chart: %w", err)
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save elbow chart: %w", err)
	}
	return nil
}

// SilhouetteChart plots the mean silhouette per k with the best k marked.
func SilhouetteChart(d *cluster.Diagnostics, path string) error {
	p := plot.New()
	p.Title.Text = "Silhouette Scores"
	p.X.Label.Text = "k"
	p.Y.Label.Text = "Mean Silhouette"

	if err := addCurve(p, d.Ks, d.Silhouette); err != nil {
		return fmt.Errorf("silhouette chart: %w", err)
	}
	if err := addPickMarker(p, d.SilhouetteK, d.Silhouette); err != nil {
		return fmt.Errorf("silhouette chart: %w", err)
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save silhouette chart: %w", err)
	}
	return nil
}

// GapChart plots the gap statistic with its standard errors as error bars.
func GapChart(d *cluster.Diagnostics, path string) error {
	p := plot.New()
	p.Title.Text = "Gap Statistic"
	p.X.Label.Text = "k"
	p.Y.Label.Text = "Gap"

	if err := addCurve(p, d.Ks, d.Gap); err != nil {
		return fmt.Errorf("gap chart: %w", err)
	}

	pts := curvePoints(d.Ks, d.Gap)
	errs := make(plotter.YErrors, len(d.GapSE))
	for i, se := range d.GapSE {
		errs[i].Low = se
		errs[i].High = se
	}
	bars, err := plotter.NewYErrorBars(struct {
		plotter.XYs
		plotter.YErrors
	}{pts, errs})
	if err != nil {
		return fmt.Errorf("gap chart: %w", err)
	}
	p.Add(bars)

	if err := addPickMarker(p, d.GapK, d.Gap); err != nil {
		return fmt.Errorf("gap chart: %w", err)
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save gap chart: %w", err)
	}
	return nil
}

// DendrogramChart draws the Ward merge tree with a dashed horizontal line at
// the height where cutting yields k clusters.
func DendrogramChart(dg *cluster.Dendrogram, k int, path string) error {
	p := plot.New()
	p.Title.Text = "Ward Linkage Dendrogram"
	p.X.Label.Text = "Observation"
	p.Y.Label.Text = "Merge Height"
	p.X.Tick.Marker = plot.ConstantTicks(nil)

	n := dg.Leaves
	// x positions: leaves laid out left to right in tree order, internal
	// nodes centered over their children.
	x := make([]float64, n+len(dg.Merges))
	h := make([]float64, n+len(dg.Merges))
	for pos, leaf := range leafOrder(dg) {
		x[leaf] = float64(pos)
	}
	for i, m := range dg.Merges {
		id := n + i
		x[id] = (x[m.A] + x[m.B]) / 2
		h[id] = m.Height

		bracket, err := plotter.NewLine(plotter.XYs{
			{X: x[m.A], Y: h[m.A]},
			{X: x[m.A], Y: m.Height},
			{X: x[m.B], Y: m.Height},
			{X: x[m.B], Y: h[m.B]},
		})
		if err != nil {
			return fmt.Errorf("dendrogram: %w", err)
		}
		bracket.Color = curveColor
		p.Add(bracket)
	}

	if k > 1 && k <= n {
		cut, err := plotter.NewLine(plotter.XYs{
			{X: -0.5, Y: dg.CutHeight(k)},
			{X: float64(n) - 0.5, Y: dg.CutHeight(k)},
		})
		if err != nil {
			return fmt.Errorf("dendrogram: %w", err)
		}
		cut.Color = markerColor
		cut.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(cut)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save dendrogram: %w", err)
	}
	return nil
}

// leafOrder walks the merge tree from the root and returns the leaves in
// left-to-right display order.
func leafOrder(dg *cluster.Dendrogram) []int {
	n := dg.Leaves
	order := make([]int, 0, n)
	var walk func(id int)
	walk = func(id int) {
		if id < n {
			order = append(order, id)
			return
		}
		m := dg.Merges[id-n]
		walk(m.A)
		walk(m.B)
	}
	walk(n + len(dg.Merges) - 1)
	return order
}

func curvePoints(ks []int, vals []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ks))
	for i, k := range ks {
		pts[i].X = float64(k)
		pts[i].Y = vals[i]
	}
	return pts
}

func addCurve(p *plot.Plot, ks []int, vals []float64) error {
	pts := curvePoints(ks, vals)
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = curveColor
	line.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = curveColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(line, scatter, plotter.NewGrid())
	return nil
}

// addPickMarker drops a dashed vertical line at the advisory k.
func addPickMarker(p *plot.Plot, k int, vals []float64) error {
	if len(vals) == 0 {
		return nil
	}
	line, err := plotter.NewLine(plotter.XYs{
		{X: float64(k), Y: floats.Min(vals)},
		{X: float64(k), Y: floats.Max(vals)},
	})
	if err != nil {
		return err
	}
	line.Color = markerColor
	line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(line)
	return nil
}
