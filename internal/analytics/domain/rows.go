package domain

// Lignes des vues. Les tags parquet décrivent le schéma d'export colonnaire;
// un pointeur nil est une cellule NULL.

// DeathsByCountryRow décès quotidiens et cumulés par pays
type DeathsByCountryRow struct {
	Continent   string `json:"continent" parquet:"name=continent, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location    string `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date        string `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	NewDeaths   *int64 `json:"new_deaths" parquet:"name=new_deaths, type=INT64, repetitiontype=OPTIONAL"`
	TotalDeaths *int64 `json:"total_deaths" parquet:"name=total_deaths, type=INT64, repetitiontype=OPTIONAL"`
}

func (r DeathsByCountryRow) ToCSVRow() []string {
	return []string{r.Continent, r.Location, r.Date, formatInt(r.NewDeaths), formatInt(r.TotalDeaths)}
}

// DeathsByContinentRow décès cumulés par agrégat continental
type DeathsByContinentRow struct {
	Location    string `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date        string `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalDeaths *int64 `json:"total_deaths" parquet:"name=total_deaths, type=INT64, repetitiontype=OPTIONAL"`
}

func (r DeathsByContinentRow) ToCSVRow() []string {
	return []string{r.Location, r.Date, formatInt(r.TotalDeaths)}
}

// VaccinationsByCountryRow personnes vaccinées (cumul glissant) par pays
type VaccinationsByCountryRow struct {
	Continent                   string   `json:"continent" parquet:"name=continent, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location                    string   `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date                        string   `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Population                  *int64   `json:"population" parquet:"name=population, type=INT64, repetitiontype=OPTIONAL"`
	NewPeopleVaccinatedSmoothed *float64 `json:"new_people_vaccinated_smoothed" parquet:"name=new_people_vaccinated_smoothed, type=DOUBLE, repetitiontype=OPTIONAL"`
	PeopleVaccinated            float64  `json:"people_vaccinated" parquet:"name=people_vaccinated, type=DOUBLE"`
}

func (r VaccinationsByCountryRow) ToCSVRow() []string {
	return []string{
		r.Continent, r.Location, r.Date,
		formatInt(r.Population),
		formatFloat(r.NewPeopleVaccinatedSmoothed),
		formatFloat(&r.PeopleVaccinated),
	}
}

// VaccinationsByContinentRow population vaccinée (cumul glissant) par agrégat
type VaccinationsByContinentRow struct {
	Location                    string   `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date                        string   `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Population                  *int64   `json:"population" parquet:"name=population, type=INT64, repetitiontype=OPTIONAL"`
	NewPeopleVaccinatedSmoothed *float64 `json:"new_people_vaccinated_smoothed" parquet:"name=new_people_vaccinated_smoothed, type=DOUBLE, repetitiontype=OPTIONAL"`
	PopulationVaccinated        float64  `json:"population_vaccinated" parquet:"name=population_vaccinated, type=DOUBLE"`
}

func (r VaccinationsByContinentRow) ToCSVRow() []string {
	return []string{
		r.Location, r.Date,
		formatInt(r.Population),
		formatFloat(r.NewPeopleVaccinatedSmoothed),
		formatFloat(&r.PopulationVaccinated),
	}
}

// DeathRateRow probabilité de décès en cas d'infection
type DeathRateRow struct {
	Location    string   `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date        string   `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalCases  *int64   `json:"total_cases" parquet:"name=total_cases, type=INT64, repetitiontype=OPTIONAL"`
	TotalDeaths *int64   `json:"total_deaths" parquet:"name=total_deaths, type=INT64, repetitiontype=OPTIONAL"`
	DeathRate   *float64 `json:"death_rate" parquet:"name=death_rate, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func (r DeathRateRow) ToCSVRow() []string {
	return []string{r.Location, r.Date, formatInt(r.TotalCases), formatInt(r.TotalDeaths), formatFloat(r.DeathRate)}
}

// InfectionRateRow part de la population infectée
type InfectionRateRow struct {
	Location      string   `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date          string   `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Population    *int64   `json:"population" parquet:"name=population, type=INT64, repetitiontype=OPTIONAL"`
	TotalCases    *int64   `json:"total_cases" parquet:"name=total_cases, type=INT64, repetitiontype=OPTIONAL"`
	InfectionRate *float64 `json:"infection_rate" parquet:"name=infection_rate, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func (r InfectionRateRow) ToCSVRow() []string {
	return []string{r.Location, r.Date, formatInt(r.Population), formatInt(r.TotalCases), formatFloat(r.InfectionRate)}
}

// HighestInfectionRow pic d'infection par pays
type HighestInfectionRow struct {
	Location                  string   `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Population                *int64   `json:"population" parquet:"name=population, type=INT64, repetitiontype=OPTIONAL"`
	HighestInfectionCount     *int64   `json:"highest_infection_count" parquet:"name=highest_infection_count, type=INT64, repetitiontype=OPTIONAL"`
	PercentPopulationInfected *float64 `json:"percent_population_infected" parquet:"name=percent_population_infected, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func (r HighestInfectionRow) ToCSVRow() []string {
	return []string{r.Location, formatInt(r.Population), formatInt(r.HighestInfectionCount), formatFloat(r.PercentPopulationInfected)}
}

// DeathCountRow nombre maximal de décès cumulés par location
type DeathCountRow struct {
	Location        string `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalDeathCount *int64 `json:"total_death_count" parquet:"name=total_death_count, type=INT64, repetitiontype=OPTIONAL"`
}

func (r DeathCountRow) ToCSVRow() []string {
	return []string{r.Location, formatInt(r.TotalDeathCount)}
}

// GlobalNumbersRow totaux mondiaux quotidiens (somme des pays)
type GlobalNumbersRow struct {
	Date            string   `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalCases      *int64   `json:"total_cases" parquet:"name=total_cases, type=INT64, repetitiontype=OPTIONAL"`
	TotalDeaths     *int64   `json:"total_deaths" parquet:"name=total_deaths, type=INT64, repetitiontype=OPTIONAL"`
	DeathPercentage *float64 `json:"death_percentage" parquet:"name=death_percentage, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func (r GlobalNumbersRow) ToCSVRow() []string {
	return []string{r.Date, formatInt(r.TotalCases), formatInt(r.TotalDeaths), formatFloat(r.DeathPercentage)}
}

// VaccinationCoverageRow couverture vaccinale cumulée par pays
type VaccinationCoverageRow struct {
	Continent        string   `json:"continent" parquet:"name=continent, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location         string   `json:"location" parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date             string   `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Population       *int64   `json:"population" parquet:"name=population, type=INT64, repetitiontype=OPTIONAL"`
	PeopleVaccinated float64  `json:"people_vaccinated" parquet:"name=people_vaccinated, type=DOUBLE"`
	VaccinationRate  *float64 `json:"vaccination_rate" parquet:"name=vaccination_rate, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func (r VaccinationCoverageRow) ToCSVRow() []string {
	return []string{
		r.Continent, r.Location, r.Date,
		formatInt(r.Population),
		formatFloat(&r.PeopleVaccinated),
		formatFloat(r.VaccinationRate),
	}
}
