package chain

import (
	"fmt"
	"math/rand"

	"github.com/trsav/biomass-supply-chain/internal/geo"
	"github.com/trsav/biomass-supply-chain/internal/lpfile"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// BiomassParams configures the three-echelon scenario: production nodes ship
// raw biomass to processing facilities, which ship refined product onward to
// demand nodes.
type BiomassParams struct {
	ProductionNodes int
	ProcessingNodes int
	DemandNodes     int

	// Upper bounds of the uniform parameter draws.
	DemandLimit         float64
	ProductionLimit     float64
	ProductionCostLimit float64
	ProcessingLimit     float64
	ProcessingCostLimit float64
}

// BiomassProblem is a built three-echelon scenario.
type BiomassProblem struct {
	Params BiomassParams

	Production []geo.Coordinate
	Processing []geo.Coordinate
	Demand     []geo.Coordinate

	// ProductionDistances is production-by-processing, DemandDistances
	// processing-by-demand, both great-circle km.
	ProductionDistances *mat.Dense
	DemandDistances     *mat.Dense

	DemandAmounts    []float64
	ProductionLimits []float64
	ProductionCosts  []float64
	ProcessingLimits []float64
	ProcessingCosts  []float64

	Model *lpfile.Model
}

// BuildBiomass places the three node sets, draws parameters and assembles
// the model. Variable p[i][k], stored at index i*P+k, is the biomass flow
// from production node i to processing node k; d[k][j], stored at index
// S*P + k*D + j, is the product flow from processing node k to demand node
// j (S, P, D are the production, processing and demand node counts). Unit
// costs are additive: node cost plus transport distance.
//
// Unlike the basic scenario the capacity draws are not coupled to the
// demand draw, so an infeasible instance is possible; the solver error is
// returned to the caller as-is.
func BuildBiomass(rng *rand.Rand, params BiomassParams) (*BiomassProblem, error) {
	if params.ProductionNodes < 1 || params.ProcessingNodes < 1 || params.DemandNodes < 1 {
		return nil, fmt.Errorf("biomass scenario needs at least one node per echelon, got %d, %d and %d",
			params.ProductionNodes, params.ProcessingNodes, params.DemandNodes)
	}

	sets := geo.PlaceNodeSets(rng, params.ProductionNodes, params.ProcessingNodes, params.DemandNodes)
	p := &BiomassProblem{
		Params:     params,
		Production: sets[0],
		Processing: sets[1],
		Demand:     sets[2],
	}
	p.ProductionDistances = geo.DistanceMatrix(p.Production, p.Processing)
	p.DemandDistances = geo.DistanceMatrix(p.Processing, p.Demand)
	p.DemandAmounts = randomAmounts(rng, params.DemandNodes, params.DemandLimit)
	p.ProductionLimits = randomAmounts(rng, params.ProductionNodes, params.ProductionLimit)
	p.ProductionCosts = randomAmounts(rng, params.ProductionNodes, params.ProductionCostLimit)
	p.ProcessingLimits = randomAmounts(rng, params.ProcessingNodes, params.ProcessingLimit)
	p.ProcessingCosts = randomAmounts(rng, params.ProcessingNodes, params.ProcessingCostLimit)
	p.Model = p.buildModel()

	log.Info().
		Int("production", params.ProductionNodes).
		Int("processing", params.ProcessingNodes).
		Int("demand", params.DemandNodes).
		Int("vars", p.Model.NumVars).
		Int("constraints", len(p.Model.Constraints)).
		Msg("Built biomass supply chain model")

	return p, nil
}

func (p *BiomassProblem) buildModel() *lpfile.Model {
	nProd, nProc, nDem := len(p.Production), len(p.Processing), len(p.Demand)
	prodVars := nProd * nProc
	m := lpfile.NewModel(prodVars + nProc*nDem)

	for i := 0; i < nProd; i++ {
		for k := 0; k < nProc; k++ {
			m.Objective[i*nProc+k] = p.ProductionCosts[i] + p.ProductionDistances.At(i, k)
		}
	}
	for k := 0; k < nProc; k++ {
		for j := 0; j < nDem; j++ {
			m.Objective[prodVars+k*nDem+j] = p.ProcessingCosts[k] + p.DemandDistances.At(k, j)
		}
	}

	// Each production node ships at most its capacity.
	for i := 0; i < nProd; i++ {
		row := make([]float64, m.NumVars)
		for k := 0; k < nProc; k++ {
			row[i*nProc+k] = 1
		}
		m.AddConstraint("production_limit", row, lpfile.LessEq, p.ProductionLimits[i])
	}

	// Per processing node: outflow within the processing capacity, and
	// outflow balancing the biomass inflow.
	for k := 0; k < nProc; k++ {
		limit := make([]float64, m.NumVars)
		for j := 0; j < nDem; j++ {
			limit[prodVars+k*nDem+j] = 1
		}
		m.AddConstraint("processing_limit", limit, lpfile.LessEq, p.ProcessingLimits[k])

		balance := make([]float64, m.NumVars)
		for j := 0; j < nDem; j++ {
			balance[prodVars+k*nDem+j] = 1
		}
		for i := 0; i < nProd; i++ {
			balance[i*nProc+k] = -1
		}
		m.AddConstraint("mass_balance", balance, lpfile.Equal, 0)
	}

	// Each demand node receives at least its demand.
	for j := 0; j < nDem; j++ {
		row := make([]float64, m.NumVars)
		for k := 0; k < nProc; k++ {
			row[prodVars+k*nDem+j] = 1
		}
		m.AddConstraint("demand", row, lpfile.GreaterEq, p.DemandAmounts[j])
	}

	return m
}

// Flows reshapes a solution vector into the two per-echelon flow matrices:
// production-by-processing biomass flows and processing-by-demand product
// flows.
func (p *BiomassProblem) Flows(sol *Solution) (production, distribution *mat.Dense) {
	prodVars := len(p.Production) * len(p.Processing)
	production = mat.NewDense(len(p.Production), len(p.Processing), sol.X[:prodVars])
	distribution = mat.NewDense(len(p.Processing), len(p.Demand), sol.X[prodVars:])
	return production, distribution
}

// NodeFeatures dumps the three node sets as GeoJSON point features with
// their capacities and demands attached.
func (p *BiomassProblem) NodeFeatures() geo.GeoJSONFeatureCollection {
	return geo.MergeCollections(
		geo.NodeCollection("production", p.Production, p.ProductionLimits),
		geo.NodeCollection("processing", p.Processing, p.ProcessingLimits),
		geo.NodeCollection("demand", p.Demand, p.DemandAmounts),
	)
}
