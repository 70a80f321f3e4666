package application

import (
	"cmp"
	"context"
	"slices"
	"time"

	"covidstats/internal/analytics/domain"
	recordsdomain "covidstats/internal/records/domain"
	shareddomain "covidstats/internal/shared/domain"
	sharedinfra "covidstats/internal/shared/infrastructure"
)

var (
	deathsByCountryColumns         = []string{"continent", "location", "date", "new_deaths", "total_deaths"}
	deathsByContinentColumns       = []string{"location", "date", "total_deaths"}
	vaccinationsByCountryColumns   = []string{"continent", "location", "date", "population", "new_people_vaccinated_smoothed", "people_vaccinated"}
	vaccinationsByContinentColumns = []string{"location", "date", "population", "new_people_vaccinated_smoothed", "population_vaccinated"}
	deathRateColumns               = []string{"location", "date", "total_cases", "total_deaths", "death_rate"}
	infectionRateColumns           = []string{"location", "date", "population", "total_cases", "infection_rate"}
	highestInfectionColumns        = []string{"location", "population", "highest_infection_count", "percent_population_infected"}
	deathCountColumns              = []string{"location", "total_death_count"}
	globalNumbersColumns           = []string{"date", "total_cases", "total_deaths", "death_percentage"}
	vaccinationCoverageColumns     = []string{"continent", "location", "date", "population", "people_vaccinated", "vaccination_rate"}
)

func formatDate(t time.Time) string {
	return t.Format(shareddomain.DateLayout)
}

// sortByLocationDate tri stable (location, date)
func sortByLocationDate(cases []recordsdomain.CaseRecord) {
	slices.SortStableFunc(cases, func(a, b recordsdomain.CaseRecord) int {
		return domain.CompareLocationDate(a.Location, a.Date, b.Location, b.Date)
	})
}

// countryCases lignes dont le continent est renseigné, triées (location, date)
func (s *ViewService) countryCases(snap *recordsdomain.Snapshot) []recordsdomain.CaseRecord {
	cases := slices.DeleteFunc(snap.Cases().Records(), func(c recordsdomain.CaseRecord) bool {
		return !c.HasContinent()
	})
	sortByLocationDate(cases)
	return cases
}

// aggregateCases lignes classées Aggregate, triées (location, date)
func (s *ViewService) aggregateCases(snap *recordsdomain.Snapshot) []recordsdomain.CaseRecord {
	cases := slices.DeleteFunc(snap.Cases().Records(), func(c recordsdomain.CaseRecord) bool {
		return s.classifier.Classify(c.Continent, c.Location) != domain.Aggregate
	})
	sortByLocationDate(cases)
	return cases
}

// joined jointure filtrée sur la classe des lignes cas/décès
func (s *ViewService) joined(snap *recordsdomain.Snapshot, mode domain.JoinMode, keep func(recordsdomain.CaseRecord) bool) ([]domain.JoinedRecord, error) {
	rows, err := domain.Join(snap.Cases().Records(), snap.Vaccinations().Records(), mode)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(rows, func(j domain.JoinedRecord) bool {
		return !keep(j.Case)
	}), nil
}

func (s *ViewService) isAggregate(c recordsdomain.CaseRecord) bool {
	return s.classifier.Classify(c.Continent, c.Location) == domain.Aggregate
}

func isCountry(c recordsdomain.CaseRecord) bool {
	return c.HasContinent()
}

// joinedWindow somme cumulée par location, ordonnée par date
func joinedWindow(value func(domain.JoinedRecord) shareddomain.Measure) domain.WindowSpec[domain.JoinedRecord] {
	return domain.WindowSpec[domain.JoinedRecord]{
		Partition: func(j domain.JoinedRecord) string { return j.Case.Location },
		Order:     func(j domain.JoinedRecord) time.Time { return j.Case.Date },
		Value:     value,
	}
}

func smoothedPeopleVaccinated(j domain.JoinedRecord) shareddomain.Measure {
	if j.Vaccination == nil {
		return shareddomain.MissingMeasure()
	}
	return j.Vaccination.NewPeopleVaccinatedSmoothed
}

func newVaccinations(j domain.JoinedRecord) shareddomain.Measure {
	if j.Vaccination == nil {
		return shareddomain.MissingMeasure()
	}
	return j.Vaccination.NewVaccinations
}

// runningTotal somme cumulée; au-delà d'un worker les partitions sont
// réparties sur le pool, chacune écrivant sa propre plage de sortie
func runningTotal[T any](ctx context.Context, rows []T, spec domain.WindowSpec[T], workers int) ([]domain.Windowed[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 1 {
		return domain.RunningTotal(rows, spec), nil
	}

	parts := domain.Partitions(rows, spec)
	out := make([]domain.Windowed[T], len(rows))

	pool := sharedinfra.NewWorkerPool(workers)
	pool.Start()
	for _, part := range parts {
		err := pool.Submit(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			domain.Accumulate(part, spec, out)
			return nil
		})
		if err != nil {
			pool.Stop()
			return nil, err
		}
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func snapshotID(snap *recordsdomain.Snapshot) string {
	return snap.ID().String()
}

func (s *ViewService) deathsByCountry(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.DeathsByCountryRow], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cases := s.countryCases(snap)
	rows := make([]domain.DeathsByCountryRow, len(cases))
	for i, c := range cases {
		rows[i] = domain.DeathsByCountryRow{
			Continent:   c.Continent,
			Location:    c.Location,
			Date:        formatDate(c.Date),
			NewDeaths:   c.NewDeaths.Int64Ptr(),
			TotalDeaths: c.TotalDeaths.Int64Ptr(),
		}
	}
	return domain.NewResultSet(domain.ViewDeathsByCountry, snapshotID(snap), deathsByCountryColumns, rows), nil
}

func (s *ViewService) deathsByContinent(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.DeathsByContinentRow], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cases := s.aggregateCases(snap)
	rows := make([]domain.DeathsByContinentRow, len(cases))
	for i, c := range cases {
		rows[i] = domain.DeathsByContinentRow{
			Location:    c.Location,
			Date:        formatDate(c.Date),
			TotalDeaths: c.TotalDeaths.Int64Ptr(),
		}
	}
	return domain.NewResultSet(domain.ViewDeathsByContinent, snapshotID(snap), deathsByContinentColumns, rows), nil
}

func (s *ViewService) vaccinationsByCountry(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.VaccinationsByCountryRow], error) {
	joined, err := s.joined(snap, domain.InnerJoin, isCountry)
	if err != nil {
		return nil, err
	}
	windowed, err := runningTotal(ctx, joined, joinedWindow(smoothedPeopleVaccinated), s.workers)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.VaccinationsByCountryRow, len(windowed))
	for i, w := range windowed {
		c := w.Row.Case
		rows[i] = domain.VaccinationsByCountryRow{
			Continent:                   c.Continent,
			Location:                    c.Location,
			Date:                        formatDate(c.Date),
			Population:                  c.Population.Int64Ptr(),
			NewPeopleVaccinatedSmoothed: smoothedPeopleVaccinated(w.Row).Float64Ptr(),
			PeopleVaccinated:            w.Cumulative,
		}
	}
	return domain.NewResultSet(domain.ViewVaccinationsByCountry, snapshotID(snap), vaccinationsByCountryColumns, rows), nil
}

func (s *ViewService) vaccinationsByContinent(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.VaccinationsByContinentRow], error) {
	joined, err := s.joined(snap, domain.InnerJoin, s.isAggregate)
	if err != nil {
		return nil, err
	}
	windowed, err := runningTotal(ctx, joined, joinedWindow(smoothedPeopleVaccinated), s.workers)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.VaccinationsByContinentRow, len(windowed))
	for i, w := range windowed {
		c := w.Row.Case
		rows[i] = domain.VaccinationsByContinentRow{
			Location:                    c.Location,
			Date:                        formatDate(c.Date),
			Population:                  c.Population.Int64Ptr(),
			NewPeopleVaccinatedSmoothed: smoothedPeopleVaccinated(w.Row).Float64Ptr(),
			PopulationVaccinated:        w.Cumulative,
		}
	}
	return domain.NewResultSet(domain.ViewVaccinationsByContinent, snapshotID(snap), vaccinationsByContinentColumns, rows), nil
}

func (s *ViewService) deathRateByCountry(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.DeathRateRow], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cases := s.countryCases(snap)
	rows := make([]domain.DeathRateRow, len(cases))
	for i, c := range cases {
		rows[i] = domain.DeathRateRow{
			Location:    c.Location,
			Date:        formatDate(c.Date),
			TotalCases:  c.TotalCases.Int64Ptr(),
			TotalDeaths: c.TotalDeaths.Int64Ptr(),
			DeathRate:   shareddomain.PercentOf(c.TotalDeaths, c.TotalCases).Float64Ptr(),
		}
	}
	return domain.NewResultSet(domain.ViewDeathRateByCountry, snapshotID(snap), deathRateColumns, rows), nil
}

func (s *ViewService) infectionRateByCountry(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.InfectionRateRow], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cases := s.countryCases(snap)
	rows := make([]domain.InfectionRateRow, len(cases))
	for i, c := range cases {
		rows[i] = domain.InfectionRateRow{
			Location:      c.Location,
			Date:          formatDate(c.Date),
			Population:    c.Population.Int64Ptr(),
			TotalCases:    c.TotalCases.Int64Ptr(),
			InfectionRate: shareddomain.PercentOf(c.TotalCases, c.Population).Float64Ptr(),
		}
	}
	return domain.NewResultSet(domain.ViewInfectionRateByCountry, snapshotID(snap), infectionRateColumns, rows), nil
}

// locationPeak maxima par location
type locationPeak struct {
	location    string
	population  shareddomain.Measure
	totalCases  shareddomain.Measure
	totalDeaths shareddomain.Measure
}

// peaks regroupe des lignes triées par location en un maximum par location
func peaks(cases []recordsdomain.CaseRecord) []locationPeak {
	var out []locationPeak
	for _, c := range cases {
		if len(out) == 0 || out[len(out)-1].location != c.Location {
			out = append(out, locationPeak{location: c.Location})
		}
		p := &out[len(out)-1]
		p.population = p.population.Max(c.Population)
		p.totalCases = p.totalCases.Max(c.TotalCases)
		p.totalDeaths = p.totalDeaths.Max(c.TotalDeaths)
	}
	return out
}

// compareMeasureDesc ordre décroissant, valeurs absentes en dernier
func compareMeasureDesc(a, b shareddomain.Measure) int {
	switch {
	case a.Present() && !b.Present():
		return -1
	case !a.Present() && b.Present():
		return 1
	default:
		return cmp.Compare(b.Value(), a.Value())
	}
}

func (s *ViewService) highestInfectionByCountry(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.HighestInfectionRow], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type ranked struct {
		row     domain.HighestInfectionRow
		percent shareddomain.Ratio
	}

	ps := peaks(s.countryCases(snap))
	items := make([]ranked, len(ps))
	for i, p := range ps {
		percent := shareddomain.PercentOf(p.totalCases, p.population)
		items[i] = ranked{
			row: domain.HighestInfectionRow{
				Location:                  p.location,
				Population:                p.population.Int64Ptr(),
				HighestInfectionCount:     p.totalCases.Int64Ptr(),
				PercentPopulationInfected: percent.Float64Ptr(),
			},
			percent: percent,
		}
	}
	slices.SortStableFunc(items, func(a, b ranked) int {
		switch {
		case a.percent.Greater(b.percent):
			return -1
		case b.percent.Greater(a.percent):
			return 1
		default:
			return cmp.Compare(a.row.Location, b.row.Location)
		}
	})

	rows := make([]domain.HighestInfectionRow, len(items))
	for i, it := range items {
		rows[i] = it.row
	}
	return domain.NewResultSet(domain.ViewHighestInfectionByCountry, snapshotID(snap), highestInfectionColumns, rows), nil
}

// deathCounts décès cumulés maximaux par location, décroissants
func deathCounts(cases []recordsdomain.CaseRecord) []domain.DeathCountRow {
	ps := peaks(cases)
	slices.SortStableFunc(ps, func(a, b locationPeak) int {
		if c := compareMeasureDesc(a.totalDeaths, b.totalDeaths); c != 0 {
			return c
		}
		return cmp.Compare(a.location, b.location)
	})
	rows := make([]domain.DeathCountRow, len(ps))
	for i, p := range ps {
		rows[i] = domain.DeathCountRow{Location: p.location, TotalDeathCount: p.totalDeaths.Int64Ptr()}
	}
	return rows
}

func (s *ViewService) highestDeathsByCountry(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.DeathCountRow], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := deathCounts(s.countryCases(snap))
	return domain.NewResultSet(domain.ViewHighestDeathsByCountry, snapshotID(snap), deathCountColumns, rows), nil
}

func (s *ViewService) highestDeathsByContinent(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.DeathCountRow], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := deathCounts(s.aggregateCases(snap))
	return domain.NewResultSet(domain.ViewHighestDeathsByContinent, snapshotID(snap), deathCountColumns, rows), nil
}

func (s *ViewService) globalNumbers(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.GlobalNumbersRow], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type daily struct {
		date   time.Time
		cases  shareddomain.Measure
		deaths shareddomain.Measure
	}

	byDate := make(map[time.Time]*daily)
	for _, c := range s.countryCases(snap) {
		d, ok := byDate[c.Date]
		if !ok {
			d = &daily{date: c.Date}
			byDate[c.Date] = d
		}
		d.cases = d.cases.Add(c.NewCases)
		d.deaths = d.deaths.Add(c.NewDeaths)
	}

	days := make([]*daily, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b *daily) int {
		return a.date.Compare(b.date)
	})

	rows := make([]domain.GlobalNumbersRow, len(days))
	for i, d := range days {
		rows[i] = domain.GlobalNumbersRow{
			Date:            formatDate(d.date),
			TotalCases:      d.cases.Int64Ptr(),
			TotalDeaths:     d.deaths.Int64Ptr(),
			DeathPercentage: shareddomain.PercentOf(d.deaths, d.cases).Float64Ptr(),
		}
	}
	return domain.NewResultSet(domain.ViewGlobalNumbers, snapshotID(snap), globalNumbersColumns, rows), nil
}

func (s *ViewService) vaccinationCoverageByCountry(ctx context.Context, snap *recordsdomain.Snapshot) (*domain.ResultSet[domain.VaccinationCoverageRow], error) {
	joined, err := s.joined(snap, domain.LeftJoin, isCountry)
	if err != nil {
		return nil, err
	}
	windowed, err := runningTotal(ctx, joined, joinedWindow(newVaccinations), s.workers)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.VaccinationCoverageRow, len(windowed))
	for i, w := range windowed {
		c := w.Row.Case
		vaccinated := shareddomain.MustNewMeasure(w.Cumulative)
		rows[i] = domain.VaccinationCoverageRow{
			Continent:        c.Continent,
			Location:         c.Location,
			Date:             formatDate(c.Date),
			Population:       c.Population.Int64Ptr(),
			PeopleVaccinated: w.Cumulative,
			VaccinationRate:  shareddomain.PercentOf(vaccinated, c.Population).Float64Ptr(),
		}
	}
	return domain.NewResultSet(domain.ViewVaccinationCoverageByCountry, snapshotID(snap), vaccinationCoverageColumns, rows), nil
}
