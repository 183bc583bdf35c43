package telemetry

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// HistoryStore persists run statistics to SQLite so separate runs can be
// compared after the fact. It stores analytics only, never world state.
type HistoryStore struct {
	conn *sqlx.DB
}

// RunInfo describes one recorded run.
type RunInfo struct {
	ID         int64  `db:"id"`
	Seed       int64  `db:"seed"`
	StartedAt  string `db:"started_at"`
	ConfigYAML string `db:"config_yaml"`
}

// OpenHistoryStore opens or creates a SQLite database at the given path.
func OpenHistoryStore(path string) (*HistoryStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &HistoryStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	if s == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *HistoryStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		config_yaml TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS windows (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		window_start REAL NOT NULL,
		sim_time REAL NOT NULL,
		plants INTEGER NOT NULL,
		herbivores INTEGER NOT NULL,
		carnivores INTEGER NOT NULL,
		herb_births INTEGER NOT NULL,
		carn_births INTEGER NOT NULL,
		herb_starved INTEGER NOT NULL,
		carn_starved INTEGER NOT NULL,
		predations INTEGER NOT NULL,
		plants_eaten INTEGER NOT NULL,
		plants_spawned INTEGER NOT NULL,
		herb_energy_mean REAL NOT NULL,
		carn_energy_mean REAL NOT NULL,
		herb_genotypes INTEGER NOT NULL,
		carn_genotypes INTEGER NOT NULL,
		herb_diversity REAL NOT NULL,
		carn_diversity REAL NOT NULL,
		top_herb_genotype TEXT NOT NULL,
		top_carn_genotype TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS genotype_counts (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		sim_time REAL NOT NULL,
		species TEXT NOT NULL,
		genotype TEXT NOT NULL,
		count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		type TEXT NOT NULL,
		tick INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		description TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_windows_run ON windows(run_id, sim_time);
	CREATE INDEX IF NOT EXISTS idx_genotypes_run ON genotype_counts(run_id, genotype);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// BeginRun records a new run and returns its id.
func (s *HistoryStore) BeginRun(seed int64, configYAML string) (int64, error) {
	res, err := s.conn.Exec(
		"INSERT INTO runs (seed, started_at, config_yaml) VALUES (?, ?, ?)",
		seed, time.Now().UTC().Format(time.RFC3339), configYAML,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// SaveWindow appends one stats window.
func (s *HistoryStore) SaveWindow(runID int64, w WindowStats) error {
	_, err := s.conn.Exec(`INSERT INTO windows
		(run_id, tick, window_start, sim_time, plants, herbivores, carnivores,
		 herb_births, carn_births, herb_starved, carn_starved, predations,
		 plants_eaten, plants_spawned, herb_energy_mean, carn_energy_mean,
		 herb_genotypes, carn_genotypes, herb_diversity, carn_diversity,
		 top_herb_genotype, top_carn_genotype)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, w.Tick, w.WindowStart, w.WindowEnd, w.Plants, w.Herbivores, w.Carnivores,
		w.HerbivoreBirths, w.CarnivoreBirths, w.HerbivoreStarved, w.CarnivoreStarved, w.Predations,
		w.PlantsEaten, w.PlantsSpawned, w.HerbEnergyMean, w.CarnEnergyMean,
		w.HerbGenotypes, w.CarnGenotypes, w.HerbDiversity, w.CarnDiversity,
		w.TopHerbGenotype, w.TopCarnGenotype,
	)
	if err != nil {
		return fmt.Errorf("insert window: %w", err)
	}
	return nil
}

// SaveCensus appends the genotype counts of one census.
func (s *HistoryStore) SaveCensus(runID int64, c Census) error {
	rows := c.Rows()
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO genotype_counts
		(run_id, sim_time, species, genotype, count) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(runID, r.Time, r.Species, r.Genotype, r.Count); err != nil {
			return fmt.Errorf("insert genotype count: %w", err)
		}
	}
	return tx.Commit()
}

// SaveBookmark appends a bookmark.
func (s *HistoryStore) SaveBookmark(runID int64, b Bookmark) error {
	_, err := s.conn.Exec(
		"INSERT INTO bookmarks (run_id, type, tick, sim_time, description) VALUES (?, ?, ?, ?, ?)",
		runID, string(b.Type), b.Tick, b.SimTime, b.Description,
	)
	return err
}

// Runs lists recorded runs, newest first.
func (s *HistoryStore) Runs() ([]RunInfo, error) {
	var runs []RunInfo
	err := s.conn.Select(&runs, "SELECT id, seed, started_at, config_yaml FROM runs ORDER BY id DESC")
	return runs, err
}

// Windows returns the population counts of a run's windows in time order.
func (s *HistoryStore) Windows(runID int64) ([]Census, error) {
	var out []Census
	err := s.conn.Select(&out,
		"SELECT sim_time, plants, herbivores, carnivores FROM windows WHERE run_id = ? ORDER BY sim_time",
		runID,
	)
	return out, err
}

// GenotypeTrajectory returns one genotype's counts over a run in time order.
func (s *HistoryStore) GenotypeTrajectory(runID int64, genotype string) ([]GenotypeRow, error) {
	var out []GenotypeRow
	err := s.conn.Select(&out,
		"SELECT sim_time, species, genotype, count FROM genotype_counts WHERE run_id = ? AND genotype = ? ORDER BY sim_time",
		runID, genotype,
	)
	return out, err
}

// Bookmarks returns a run's bookmarks in time order.
func (s *HistoryStore) Bookmarks(runID int64) ([]Bookmark, error) {
	var out []Bookmark
	err := s.conn.Select(&out,
		"SELECT type, tick, sim_time, description FROM bookmarks WHERE run_id = ? ORDER BY sim_time",
		runID,
	)
	return out, err
}
