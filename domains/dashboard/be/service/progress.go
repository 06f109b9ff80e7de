package service

import (
	"fmt"
	"math"
)

// NoNextMilestone is the sentinel used when every milestone is complete or
// none exist.
const NoNextMilestone = "none"

// Progress is the funnel projection derived from milestones and contracts.
type Progress struct {
	TotalMilestones     int
	CompletedMilestones int
	CompletionPct       int
	NextMilestone       string
	Stages              []Stage
}

// Stage is one of the three fixed funnel stages.
type Stage struct {
	Name  string
	Items []ChecklistItem
}

// ChecklistItem is a single funnel entry. Boolean items use Done; valued
// items carry their display string in Value.
type ChecklistItem struct {
	Label string
	Done  bool
	Value string
}

// ComputeProgress derives the funnel projection. Milestones are expected in
// ascending due-date order, which makes the first incomplete one the next.
func ComputeProgress(milestones []Milestone, contracts []ContractView) Progress {
	total := len(milestones)
	completed := 0
	next := NoNextMilestone
	for _, m := range milestones {
		if m.CompletedAt != nil {
			completed++
		} else if next == NoNextMilestone {
			next = m.Title
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return Progress{
		TotalMilestones:     total,
		CompletedMilestones: completed,
		CompletionPct:       pct,
		NextMilestone:       next,
		Stages: []Stage{
			{
				Name: "Start",
				Items: []ChecklistItem{
					{Label: "Contrato ativo", Done: len(contracts) > 0},
					{Label: "Cronograma definido", Done: total > 0},
				},
			},
			{
				Name: "In Progress",
				Items: []ChecklistItem{
					{Label: "Entregas concluídas", Value: fmt.Sprintf("%d/%d", completed, total)},
					{Label: "Próxima entrega", Value: next},
				},
			},
			{
				Name: "Metrics",
				Items: []ChecklistItem{
					{Label: "Progresso", Value: fmt.Sprintf("%d%%", pct)},
					{Label: "Projeto concluído", Done: total > 0 && completed == total},
				},
			},
		},
	}
}
