package domain

// Aggregator accumulates findings across areas in emission order. It does not
// deduplicate.
type Aggregator struct {
	findings []RainFinding
}

// Add appends findings in the order given.
func (a *Aggregator) Add(findings ...RainFinding) {
	a.findings = append(a.findings, findings...)
}

// Findings returns a copy of the accumulated findings.
func (a *Aggregator) Findings() []RainFinding {
	out := make([]RainFinding, len(a.findings))
	copy(out, a.findings)
	return out
}

func (a *Aggregator) Len() int { return len(a.findings) }

func (a *Aggregator) Empty() bool { return len(a.findings) == 0 }

// Areas returns the distinct area names in order of first appearance.
func (a *Aggregator) Areas() []string {
	return distinctAreas(a.findings)
}

func distinctAreas(findings []RainFinding) []string {
	seen := make(map[string]struct{})
	var areas []string
	for _, f := range findings {
		if _, ok := seen[f.Area]; ok {
			continue
		}
		seen[f.Area] = struct{}{}
		areas = append(areas, f.Area)
	}
	return areas
}
