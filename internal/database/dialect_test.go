package database

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"tinysteps/internal/config"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name      string
		dialect   Dialect
		driver    string
		subdir    string
		dsnConfig DialectConfig
		dsnWant   string
	}{
		{
			name:      "SQLite",
			dialect:   NewSQLiteDialect(),
			driver:    "sqlite3",
			subdir:    "sqlite",
			dsnConfig: DialectConfig{Path: "./tinysteps.db"},
			dsnWant:   "./tinysteps.db",
		},
		{
			name:      "PostgreSQL",
			dialect:   NewPostgresDialect(),
			driver:    "postgres",
			subdir:    "postgres",
			dsnConfig: DialectConfig{URL: "postgres://localhost/tinysteps"},
			dsnWant:   "postgres://localhost/tinysteps",
		},
		{
			name:      "MySQL",
			dialect:   NewMySQLDialect(),
			driver:    "mysql",
			subdir:    "mysql",
			dsnConfig: DialectConfig{URL: "not a dsn"},
			dsnWant:   "not a dsn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.subdir {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.subdir)
			}
			if got := tt.dialect.DSN(tt.dsnConfig); got != tt.dsnWant {
				t.Errorf("DSN() = %v, want %v", got, tt.dsnWant)
			}
			if tt.dialect.CreateMigrationsTableQuery() == "" {
				t.Error("CreateMigrationsTableQuery() should not be empty")
			}
		})
	}
}

func TestMySQLDSNForcesParseTime(t *testing.T) {
	dsn := NewMySQLDialect().DSN(DialectConfig{URL: "user:pass@tcp(localhost:3306)/tinysteps"})

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q) error = %v", dsn, err)
	}
	if !cfg.ParseTime {
		t.Error("ParseTime should be forced on")
	}
	if cfg.Loc != time.UTC {
		t.Errorf("Loc = %v, want UTC", cfg.Loc)
	}
	if cfg.DBName != "tinysteps" || cfg.User != "user" || cfg.Addr != "localhost:3306" {
		t.Errorf("unexpected config: db=%q user=%q addr=%q", cfg.DBName, cfg.User, cfg.Addr)
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM deletion_requests WHERE id = ?",
			expected: "SELECT * FROM deletion_requests WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM deletion_requests WHERE id = ?",
			expected: "SELECT * FROM deletion_requests WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO analytics_events (id, name) VALUES (?, ?)",
			expected: "INSERT INTO analytics_events (id, name) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE deletion_requests SET status = ? WHERE id = ?",
			expected: "UPDATE deletion_requests SET status = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType  string
		driver  string
		wantErr bool
	}{
		{"sqlite", "sqlite3", false},
		{"SQLite3", "sqlite3", false},
		{"postgresql", "postgres", false},
		{"mysql", "mysql", false},
		{"oracle", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			dialect, _, err := dialectFor(&config.Config{DatabaseType: tt.dbType})
			if tt.wantErr {
				if err == nil {
					t.Errorf("dialectFor(%q) should fail", tt.dbType)
				}
				return
			}
			if err != nil {
				t.Fatalf("dialectFor(%q) error = %v", tt.dbType, err)
			}
			if dialect.DriverName() != tt.driver {
				t.Errorf("DriverName() = %v, want %v", dialect.DriverName(), tt.driver)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	content := `-- comment
CREATE TABLE a (
    id TEXT
);

CREATE INDEX idx ON a(id);
`
	statements := splitStatements(content)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(statements), statements)
	}
	if statements[1] != "CREATE INDEX idx ON a(id);" {
		t.Errorf("unexpected second statement %q", statements[1])
	}
}
