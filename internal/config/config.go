package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Sources de données supportées
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// DBConfig paramètres de connexion PostgreSQL
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN connection string lib/pq
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Config configuration de l'application, lue depuis l'environnement
type Config struct {
	DataSource        string
	CasesCSV          string
	VaccinationsCSV   string
	DB                DBConfig
	DeathsTable       string
	VaccinationsTable string

	Rules RuleSet

	HTTPAddr           string
	AggregationWorkers int
	ViewCacheTTL       time.Duration
	MaterializeViews   bool
	LogLevel           string
}

// Load charge les fichiers .env éventuels puis lit l'environnement.
// Un fichier .env absent n'est pas une erreur; un fichier mal formé l'est.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		DataSource:      strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		CasesCSV:        getEnv("CASES_CSV", "data/CovidDeaths.csv"),
		VaccinationsCSV: getEnv("VACCINATIONS_CSV", "data/CovidVaccinations.csv"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "covid"),
			Password: getEnv("DB_PASSWORD", "covid"),
			Name:     getEnv("DB_NAME", "portfolio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		DeathsTable:       getEnv("DEATHS_TABLE", "covid_deaths"),
		VaccinationsTable: getEnv("VACCINATIONS_TABLE", "covid_vaccinations"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DataSource != SourceCSV && cfg.DataSource != SourcePostgres {
		return nil, fmt.Errorf("DATA_SOURCE: unknown source %q", cfg.DataSource)
	}

	workers, err := strconv.Atoi(getEnv("AGGREGATION_WORKERS", "4"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("AGGREGATION_WORKERS: must be a positive integer")
	}
	cfg.AggregationWorkers = workers

	ttl, err := time.ParseDuration(getEnv("VIEW_CACHE_TTL", "5m"))
	if err != nil || ttl <= 0 {
		return nil, errors.New("VIEW_CACHE_TTL: must be a positive duration")
	}
	cfg.ViewCacheTTL = ttl

	materialize, err := strconv.ParseBool(getEnv("MATERIALIZE_VIEWS", "false"))
	if err != nil {
		return nil, fmt.Errorf("MATERIALIZE_VIEWS: %w", err)
	}
	cfg.MaterializeViews = materialize

	rules, err := resolveRules()
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules

	return cfg, nil
}

// resolveRules EXCLUSION_RULES prime sur EXCLUSION_RULES_FILE, sinon règles par défaut.
// EXCLUSION_RULES_CASE_SENSITIVE, s'il est défini, prime sur case_sensitive du fichier.
func resolveRules() (RuleSet, error) {
	caseSensitive, err := strconv.ParseBool(getEnv("EXCLUSION_RULES_CASE_SENSITIVE", "false"))
	if err != nil {
		return RuleSet{}, fmt.Errorf("EXCLUSION_RULES_CASE_SENSITIVE: %w", err)
	}

	if inline := os.Getenv("EXCLUSION_RULES"); inline != "" {
		rules, err := ParseRuleList(inline)
		if err != nil {
			return RuleSet{}, fmt.Errorf("EXCLUSION_RULES: %w", err)
		}
		return RuleSet{CaseSensitive: caseSensitive, Rules: rules}, nil
	}

	if path := os.Getenv("EXCLUSION_RULES_FILE"); path != "" {
		set, err := LoadExclusionRules(path)
		if err != nil {
			return RuleSet{}, fmt.Errorf("EXCLUSION_RULES_FILE: %w", err)
		}
		if os.Getenv("EXCLUSION_RULES_CASE_SENSITIVE") != "" {
			set.CaseSensitive = caseSensitive
		}
		return set, nil
	}

	return DefaultRuleSet(caseSensitive), nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
