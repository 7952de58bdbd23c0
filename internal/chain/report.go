package chain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trsav/biomass-supply-chain/internal/geo"
	"github.com/trsav/biomass-supply-chain/internal/lpfile"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// SysInfo saves the basic system information of the solving host.
type SysInfo struct {
	Platform string `json:"platform"`
	CPU      string `json:"cpu"`
	RAM      string `json:"ram"`
}

// Report is the run summary written next to the other outputs.
type Report struct {
	ID          string         `json:"id"`
	Scenario    string         `json:"scenario"`
	Seed        int64          `json:"seed"`
	Nodes       map[string]int `json:"nodes"`
	Variables   int            `json:"variables"`
	Constraints int            `json:"constraints"`
	Objective   float64        `json:"objective"`
	Time        string         `json:"time"`
	System      SysInfo        `json:"system"`
}

// NewReport assembles the summary of a solved scenario. Host facts are
// best-effort; a probe failure leaves the field empty.
func NewReport(scenario string, seed int64, nodes map[string]int, m *lpfile.Model, sol *Solution) Report {
	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()

	var info SysInfo
	if hostStat != nil {
		info.Platform = hostStat.Platform
	}
	if len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	}
	if vmStat != nil {
		info.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}

	return Report{
		ID:          uuid.NewString(),
		Scenario:    scenario,
		Seed:        seed,
		Nodes:       nodes,
		Variables:   m.NumVars,
		Constraints: len(m.Constraints),
		Objective:   sol.Objective,
		Time:        sol.Duration.String(),
		System:      info,
	}
}

// Save writes the report as JSON.
func (r Report) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// SaveGeoJSON writes the node features of a scenario next to the other
// outputs.
func SaveGeoJSON(path string, fc geo.GeoJSONFeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
