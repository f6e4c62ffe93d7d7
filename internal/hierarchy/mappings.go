// Package hierarchy loads the geographic hierarchy (zone → region → city →
// branch) from a JSON mappings file and answers chain-validity questions for
// the rest of the system.
package hierarchy

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// Mappings is the nested zone → region → city → branch tree. Branch leaves
// map branch IDs to display names.
type Mappings map[string]map[string]map[string]map[string]string

// Load reads and parses a mappings file.
func Load(path string) (Mappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}
	var m Mappings
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mappings file: %w", err)
	}
	return m, nil
}

// Zones returns all zone IDs in sorted order.
func (m Mappings) Zones() []string {
	zones := make([]string, 0, len(m))
	for z := range m {
		zones = append(zones, z)
	}
	sort.Strings(zones)
	return zones
}

// Regions returns the region IDs under a zone in sorted order.
func (m Mappings) Regions(zone string) []string {
	regions := make([]string, 0, len(m[zone]))
	for r := range m[zone] {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// Cities returns the city IDs under a region in sorted order.
func (m Mappings) Cities(zone, region string) []string {
	cities := make([]string, 0, len(m[zone][region]))
	for c := range m[zone][region] {
		cities = append(cities, c)
	}
	sort.Strings(cities)
	return cities
}

// Branches returns the branch IDs under a city in sorted order.
func (m Mappings) Branches(zone, region, city string) []string {
	branches := make([]string, 0, len(m[zone][region][city]))
	for b := range m[zone][region][city] {
		branches = append(branches, b)
	}
	sort.Strings(branches)
	return branches
}

// BranchName returns the display name of a branch, or the empty string when
// the chain does not exist.
func (m Mappings) BranchName(zone, region, city, branch string) string {
	return m[zone][region][city][branch]
}

// ValidChain checks that an org unit's populated prefix exists in the tree.
// Empty fields below the deepest populated one are not checked, so a Region
// user's (zone, region) pair validates without a city or branch.
func (m Mappings) ValidChain(unit models.OrgUnit) bool {
	if unit.Zone == "" {
		return unit.Region == "" && unit.City == "" && unit.Branch == ""
	}
	regions, ok := m[unit.Zone]
	if !ok {
		return false
	}
	if unit.Region == "" {
		return unit.City == "" && unit.Branch == ""
	}
	cities, ok := regions[unit.Region]
	if !ok {
		return false
	}
	if unit.City == "" {
		return unit.Branch == ""
	}
	branches, ok := cities[unit.City]
	if !ok {
		return false
	}
	if unit.Branch == "" {
		return true
	}
	_, ok = branches[unit.Branch]
	return ok
}
