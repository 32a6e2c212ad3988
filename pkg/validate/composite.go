// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package validate

import (
	"github.com/nichevl/go-niche/pkg/codetable"
)

// AcidityTables holds the code tables used to classify acidity.
type AcidityTables struct {
	Acidity      *codetable.Table
	SoilMlwClass *codetable.Table
	SoilCodes    *codetable.Table
	LnkAcidity   *codetable.Table
	Seepage      *codetable.Table
}

// NutrientLevelTables holds the code tables used to classify nutrient levels.
type NutrientLevelTables struct {
	LnkSoilNutrientLevel *codetable.Table
	Management           *codetable.Table
	Mineralisation       *codetable.Table
	SoilCode             *codetable.Table
	NutrientLevel        *codetable.Table
}

// VegetationTables holds the code tables used to predict vegetation
// occurrence.
type VegetationTables struct {
	Vegetation    *codetable.Table
	SoilCode      *codetable.Table
	Inundation    *codetable.Table
	Management    *codetable.Table
	Acidity       *codetable.Table
	NutrientLevel *codetable.Table
}

// FloodplainTables holds the code tables used to predict the response of
// vegetation to flooding.
type FloodplainTables struct {
	Depths       *codetable.Table
	Duration     *codetable.Table
	Frequency    *codetable.Table
	LnkPotential *codetable.Table
	Potential    *codetable.Table
}

// ValidateAcidity checks the acidity code tables, stopping at the first
// violation.
func ValidateAcidity(ct AcidityTables) error {
	return sequence(
		present(named{"acidity", ct.Acidity}, named{"soil_mlw_class", ct.SoilMlwClass},
			named{"soil_codes", ct.SoilCodes}, named{"lnk_acidity", ct.LnkAcidity}, named{"seepage", ct.Seepage}),
		func() error { return CheckUnique(ct.SoilCodes, "soil_code") },
		func() error { return CheckUnique(ct.SoilCodes, "soil_name") },
		func() error { return CheckUnique(ct.Acidity, "acidity") },
		func() error { return CheckUnique(ct.Seepage, "seepage") },
		func() error { return CheckLowerUpperBoundaries(ct.Seepage, "seepage_min", "seepage_max", "seepage") },
		// links between tables
		func() error { return CheckInnerJoin(ct.Acidity, ct.LnkAcidity, "acidity", "") },
		func() error { return CheckInnerJoin(ct.SoilCodes, ct.SoilMlwClass, "soil_group", "") },
		func() error { return CheckInnerJoin(ct.SoilMlwClass, ct.LnkAcidity, "soil_mlw_class", "") },
		func() error { return CheckInnerJoin(ct.Seepage, ct.LnkAcidity, "seepage", "") },
	)
}

// ValidateNutrientLevel checks the nutrient level code tables, stopping at the
// first violation.
func ValidateNutrientLevel(ct NutrientLevelTables) error {
	return sequence(
		present(named{"lnk_soil_nutrient_level", ct.LnkSoilNutrientLevel}, named{"management", ct.Management},
			named{"mineralisation", ct.Mineralisation}, named{"soil_code", ct.SoilCode},
			named{"nutrient_level", ct.NutrientLevel}),
		func() error { return CheckUnique(ct.SoilCode, "soil_code") },
		func() error { return CheckUnique(ct.SoilCode, "soil_name") },
		func() error { return CheckUnique(ct.Management, "code") },
		func() error {
			return CheckLowerUpperBoundaries(ct.Mineralisation, "msw_min", "msw_max", "nitrogen_mineralisation")
		},
		func() error { return CheckInnerJoin(ct.Mineralisation, ct.SoilCode, "soil_name", "") },
		func() error {
			return CheckInnerJoin(ct.LnkSoilNutrientLevel, ct.Management, "management_influence", "influence")
		},
		func() error {
			return CheckLowerUpperBoundaries(ct.LnkSoilNutrientLevel, "total_nitrogen_min", "total_nitrogen_max",
				"nutrient_level")
		},
		func() error { return CheckInnerJoin(ct.LnkSoilNutrientLevel, ct.SoilCode, "soil_name", "") },
		func() error { return CheckInnerJoin(ct.LnkSoilNutrientLevel, ct.NutrientLevel, "nutrient_level", "code") },
	)
}

// ValidateVegetation checks the vegetation code tables, stopping at the first
// violation.  Besides the links between tables, every (veg_code, soil_name)
// pair must have a single mhw/mlw combination, since otherwise the simple model
// gives unexpected results.  The soil code table is not checked.
func ValidateVegetation(ct VegetationTables) error {
	return sequence(
		present(named{"vegetation", ct.Vegetation}, named{"inundation", ct.Inundation},
			named{"management", ct.Management}, named{"acidity", ct.Acidity},
			named{"nutrient_level", ct.NutrientLevel}),
		func() error { return CheckInnerJoin(ct.Vegetation, ct.Inundation, "inundation", "") },
		func() error { return CheckInnerJoin(ct.Vegetation, ct.Acidity, "acidity", "") },
		func() error { return CheckInnerJoin(ct.Vegetation, ct.NutrientLevel, "nutrient_level", "code") },
		func() error { return CheckInnerJoin(ct.Vegetation, ct.Management, "management", "code") },
		func() error {
			return CheckSingleCombination(ct.Vegetation, []string{"veg_code", "soil_name"},
				[]string{"mhw_min", "mhw_max", "mlw_min", "mlw_max"})
		},
	)
}

// ValidateFloodplains checks the floodplain code tables.  Only the duration and
// frequency tables are joined against lnk_potential: the depths table holds a
// code 0 (no flooding), and the potential table a code 4 (no information), which
// by construction never occur in lnk_potential.  Use ValidateFloodplainsStrict to
// enforce those joins as well.
func ValidateFloodplains(ct FloodplainTables) error {
	return sequence(
		present(named{"depths", ct.Depths}, named{"duration", ct.Duration}, named{"frequency", ct.Frequency},
			named{"lnk_potential", ct.LnkPotential}, named{"potential", ct.Potential}),
		func() error { return CheckInnerJoin(ct.LnkPotential, ct.Duration, "duration", "code") },
		func() error { return CheckInnerJoin(ct.LnkPotential, ct.Frequency, "frequency", "code") },
	)
}

// ValidateFloodplainsStrict checks the floodplain code tables including the
// joins of lnk_potential against the depths and potential tables.  The default
// tables do not pass this check.
func ValidateFloodplainsStrict(ct FloodplainTables) error {
	return sequence(
		func() error { return ValidateFloodplains(ct) },
		func() error { return CheckInnerJoin(ct.LnkPotential, ct.Depths, "depth", "code") },
		func() error { return CheckInnerJoin(ct.LnkPotential, ct.Potential, "potential", "code") },
	)
}

// Run a sequence of checks, returning the first failure.
func sequence(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	//
	return nil
}

type named struct {
	name  string
	table *codetable.Table
}

// Check that every table required by a composite validator was supplied.
func present(tables ...named) func() error {
	return func() error {
		for _, t := range tables {
			if t.table == nil {
				return &TableError{Check: PRESENCE, Tables: []string{t.name}, Details: "table not supplied"}
			}
		}
		//
		return nil
	}
}
