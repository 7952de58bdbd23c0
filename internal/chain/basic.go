package chain

import (
	"fmt"
	"math/rand"

	"github.com/trsav/biomass-supply-chain/internal/geo"
	"github.com/trsav/biomass-supply-chain/internal/lpfile"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// BasicParams configures the two-echelon scenario: supply nodes shipping
// directly to demand nodes.
type BasicParams struct {
	SupplyNodes int
	DemandNodes int
	// DemandLimit bounds the uniform demand draw per demand node.
	DemandLimit float64
	// CostLimit bounds the uniform production cost draw per supply node.
	CostLimit float64
	// Flexibility widens the supply limit draw; see supplyLimits.
	Flexibility float64
}

// BasicProblem is a built two-echelon scenario.
type BasicProblem struct {
	Params BasicParams

	Supply []geo.Coordinate
	Demand []geo.Coordinate

	// Distances holds supply-to-demand great-circle distances in km.
	Distances *mat.Dense

	DemandAmounts   []float64
	SupplyLimits    []float64
	ProductionCosts []float64

	Model *lpfile.Model
}

// BuildBasic places nodes, draws parameters and assembles the model.
// Variable x[i][j], stored at index i*D+j, is the flow from supply node i
// to demand node j. Shipping one unit costs the production cost of i times
// the distance between the nodes.
func BuildBasic(rng *rand.Rand, params BasicParams) (*BasicProblem, error) {
	if params.SupplyNodes < 1 || params.DemandNodes < 1 {
		return nil, fmt.Errorf("basic scenario needs at least one supply and one demand node, got %d and %d",
			params.SupplyNodes, params.DemandNodes)
	}

	sets := geo.PlaceNodeSets(rng, params.SupplyNodes, params.DemandNodes)
	p := &BasicProblem{
		Params: params,
		Supply: sets[0],
		Demand: sets[1],
	}
	p.Distances = geo.DistanceMatrix(p.Supply, p.Demand)
	p.DemandAmounts = randomAmounts(rng, params.DemandNodes, params.DemandLimit)
	p.SupplyLimits = supplyLimits(rng, p.DemandAmounts, params.SupplyNodes, params.Flexibility)
	p.ProductionCosts = randomAmounts(rng, params.SupplyNodes, params.CostLimit)
	p.Model = p.buildModel()

	log.Info().
		Int("supply", params.SupplyNodes).
		Int("demand", params.DemandNodes).
		Int("vars", p.Model.NumVars).
		Int("constraints", len(p.Model.Constraints)).
		Msg("Built basic supply chain model")

	return p, nil
}

func (p *BasicProblem) buildModel() *lpfile.Model {
	s, d := len(p.Supply), len(p.Demand)
	m := lpfile.NewModel(s * d)

	for i := 0; i < s; i++ {
		for j := 0; j < d; j++ {
			m.Objective[i*d+j] = p.Distances.At(i, j) * p.ProductionCosts[i]
		}
	}

	// Total outflow of each supply node stays within its capacity.
	for i := 0; i < s; i++ {
		row := make([]float64, m.NumVars)
		for j := 0; j < d; j++ {
			row[i*d+j] = 1
		}
		m.AddConstraint("supply_limit", row, lpfile.LessEq, p.SupplyLimits[i])
	}

	// Total inflow of each demand node covers its demand.
	for j := 0; j < d; j++ {
		row := make([]float64, m.NumVars)
		for i := 0; i < s; i++ {
			row[i*d+j] = 1
		}
		m.AddConstraint("demand", row, lpfile.GreaterEq, p.DemandAmounts[j])
	}

	return m
}

// Flows reshapes a solution vector into the supply-by-demand flow matrix.
func (p *BasicProblem) Flows(sol *Solution) *mat.Dense {
	return mat.NewDense(len(p.Supply), len(p.Demand), sol.X)
}

// NodeFeatures dumps both node sets as GeoJSON point features, supply nodes
// carrying their capacity and demand nodes their demand.
func (p *BasicProblem) NodeFeatures() geo.GeoJSONFeatureCollection {
	return geo.MergeCollections(
		geo.NodeCollection("supply", p.Supply, p.SupplyLimits),
		geo.NodeCollection("demand", p.Demand, p.DemandAmounts),
	)
}
