package report

// SWOT is the static strategic assessment printed alongside the segment
// analysis. It is display data, not derived from the survey.
type SWOT struct {
	Strengths     []string
	Weaknesses    []string
	Opportunities []string
	Threats       []string
}

// DefaultSWOT returns the standing assessment of the smartwatch line.
func DefaultSWOT() SWOT {
	return SWOT{
		Strengths: []string{
			"Established wearable hardware line",
			"Strong retail distribution network",
			"Loyal repeat-purchase customer base",
		},
		Weaknesses: []string{
			"Limited health-platform integrations",
			"Aging companion app",
			"Premium price point",
		},
		Opportunities: []string{
			"Health-insurer partnership programs",
			"Voice-assistant ecosystem tie-ins",
			"Corporate wellness contracts",
		},
		Threats: []string{
			"Platform vendors bundling wearables",
			"Price pressure from budget brands",
			"Tightening health-data regulation",
		},
	}
}

// BrandShare is one competitor row: market share percent per year.
type BrandShare struct {
	Name   string
	Shares []float64
}

// CompetitorTable is the static brands-by-years market share table behind
// the competitor bar chart.
type CompetitorTable struct {
	Years  []string
	Brands []BrandShare
}

// DefaultCompetitors returns global smartwatch shipment shares in percent.
func DefaultCompetitors() CompetitorTable {
	return CompetitorTable{
		Years: []string{"2023", "2024", "2025"},
		Brands: []BrandShare{
			{Name: "Apple", Shares: []float64{31, 29, 28}},
			{Name: "Samsung", Shares: []float64{10, 11, 12}},
			{Name: "Huawei", Shares: []float64{8, 9, 10}},
			{Name: "Xiaomi", Shares: []float64{6, 7, 8}},
			{Name: "Garmin", Shares: []float64{5, 5, 6}},
			{Name: "Fitbit", Shares: []float64{4, 3, 2}},
		},
	}
}
