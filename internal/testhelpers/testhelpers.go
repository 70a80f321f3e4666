package testhelpers

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// SampleCasesCSV jeu cas/décès réduit: deux pays, un agrégat continental
// et trois agrégats à exclure. La ligne France 2021-01-02 porte un
// new_deaths non numérique.
const SampleCasesCSV = `iso_code,continent,location,date,population,total_cases,new_cases,total_deaths,new_deaths
USA,North America,United States,2021-01-01,331000000,100,100,10,10
USA,North America,United States,2021-01-02,331000000,150,50,12,2
FRA,Europe,France,2021-01-01,67000000,80,80,,
FRA,Europe,France,2021-01-02,67000000,90,10,5,abc
OWID_ASI,,Asia,2021-01-01,4600000000,500,500,40,40
OWID_WRL,,World,2021-01-01,7800000000,1000,1000,90,90
OWID_HIC,,High income,2021-01-01,1200000000,300,300,30,30
OWID_EUN,,European Union,2021-01-01,447000000,200,200,20,20
`

// SampleVaccinationsCSV vaccinations correspondant à SampleCasesCSV;
// France 2021-01-01 n'a pas de ligne
const SampleVaccinationsCSV = `iso_code,continent,location,date,new_vaccinations,new_people_vaccinated_smoothed
USA,North America,United States,2021-01-01,20,10
USA,North America,United States,2021-01-02,8,5
FRA,Europe,France,2021-01-02,,3
OWID_ASI,,Asia,2021-01-01,100,50
OWID_WRL,,World,2021-01-01,300,200
`

// generatedStart premier jour des jeux générés
var generatedStart = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

// generatedDate jour d après generatedStart, au format des fichiers source
func generatedDate(d int) string {
	return generatedStart.AddDate(0, 0, d).Format("2006-01-02")
}

// GenerateCasesCSV génère locations × days lignes cas/décès (benchmarks),
// une date distincte par jour quel que soit days
func GenerateCasesCSV(locations, days int) string {
	var sb strings.Builder
	sb.WriteString("continent,location,date,population,total_cases,new_cases,total_deaths,new_deaths\n")
	for l := 0; l < locations; l++ {
		continent := "Europe"
		if l%10 == 0 {
			continent = ""
		}
		total := 0
		for d := 0; d < days; d++ {
			total += d % 7
			fmt.Fprintf(&sb, "%s,Location %04d,%s,1000000,%d,%d,%d,%d\n",
				continent, l, generatedDate(d), total, d%7, total/50, d%2)
		}
	}
	return sb.String()
}

// GenerateVaccinationsCSV génère les vaccinations correspondant à GenerateCasesCSV
func GenerateVaccinationsCSV(locations, days int) string {
	var sb strings.Builder
	sb.WriteString("location,date,new_vaccinations,new_people_vaccinated_smoothed\n")
	for l := 0; l < locations; l++ {
		for d := 0; d < days; d++ {
			fmt.Fprintf(&sb, "Location %04d,%s,%d,%d.5\n", l, generatedDate(d), d%11, d%5)
		}
	}
	return sb.String()
}

// TestContext contient les dépendances des tests d'intégration
type TestContext struct {
	DB *sql.DB
}

// SetupTestDB initialise une connexion à la base de données de test
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	connStr := testDSN()
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		tb.Fatalf("Failed to open database: %v", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		tb.Fatalf("Failed to ping database: %v\nConnection string: %s", err, hidePassword(connStr))
	}

	return db
}

// SetupTestContext initialise un contexte de test avec DB
func SetupTestContext(tb testing.TB) *TestContext {
	tb.Helper()

	return &TestContext{DB: SetupTestDB(tb)}
}

// Cleanup libère les ressources du contexte de test
func (ctx *TestContext) Cleanup() {
	if ctx.DB != nil {
		ctx.DB.Close()
	}
}

// SkipIfNoDatabase skip le test/benchmark si la DB n'est pas disponible
func SkipIfNoDatabase(tb testing.TB) {
	tb.Helper()

	db, err := sql.Open("postgres", testDSN())
	if err != nil {
		tb.Skip("Database not available:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		tb.Skip("Database not available:", err)
	}
}

func testDSN() string {
	_ = godotenv.Load("../../.env")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "covid"),
		getEnv("DB_PASSWORD", "covid"),
		getEnv("DB_NAME", "portfolio"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

// getEnv récupère une variable d'environnement avec fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// hidePassword masque le mot de passe dans la connection string pour les logs
func hidePassword(connStr string) string {
	return strings.SplitN(connStr, " password=", 2)[0] + " password=***"
}
