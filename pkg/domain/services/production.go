package services

import (
	"math"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

const roundingTolerance = 1e-9

// FeasibleProduction returns how many units of fg the raw material inventory
// supports. Finished goods without raw material requirements are unbounded.
func FeasibleProduction(requirements map[entities.ProductID]float64, rawMaterials map[entities.ProductID]float64) float64 {
	feasible := math.Inf(1)
	for rm, units := range requirements {
		if units <= 0 {
			continue
		}
		feasible = math.Min(feasible, math.Max(0, rawMaterials[rm])/units)
	}
	return feasible
}

// Produce converts raw materials into as much of the pending quantity of fg
// as feasible and returns the quantity produced. rawMaterials is debited.
func Produce(pending float64, requirements map[entities.ProductID]float64, rawMaterials map[entities.ProductID]float64) float64 {
	if pending <= 0 {
		return 0
	}
	produced := math.Min(pending, FeasibleProduction(requirements, rawMaterials))
	if produced <= 0 {
		return 0
	}
	for rm, units := range requirements {
		rawMaterials[rm] -= produced * units
		if math.Abs(rawMaterials[rm]) < roundingTolerance {
			rawMaterials[rm] = 0
		}
	}
	return produced
}
