package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"db-reshape/internal/dialect"
	"db-reshape/internal/engine"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn        string
	driver     string
	DB         *sql.DB
	SchemaName string // passed to the Analyzer; dialects fill in their default when empty
	cfgFile    string
	DriverName string // "mysql", "postgres", "sqlserver", "oracle" or "sqlite3"
)

var RootCmd = &cobra.Command{
	Use:   "db-reshape",
	Short: "A schema editing and migration tool",
	Long: `
  ____  ____    ____  _____ ____  _   _    _    ____  _____
 |  _ \| __ )  |  _ \| ____/ ___|| | | |  / \  |  _ \| ____|
 | | | |  _ \  | |_) |  _| \___ \| |_| | / _ \ | |_) |  _|
 | |_| | |_) | |  _ <| |___ ___) |  _  |/ ___ \|  __/| |___
 |____/|____/  |_| \_\_____|____/|_| |_/_/   \_\_|   |_____|

DB RESHAPE - Edit a live database schema and migrate it in dependency order
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf := DBConfig{
			Name:   "CLI",
			Driver: viper.GetString("database.driver"),
			DSN:    viper.GetString("database.dsn"),
			Schema: viper.GetString("database.schema"),
		}
		// An active databases entry wins over the defaults, not over flags.
		if active, err := GetActiveDBConfig(); err == nil && !cmd.Flags().Changed("dsn") {
			conf = *active
		}
		if conf.DSN == "" {
			return fmt.Errorf("database.dsn is required (via flag or config)")
		}
		DriverName = conf.Driver
		if DriverName == "" {
			DriverName = detectDriver(conf.DSN)
		}

		var err error
		DB, err = sql.Open(DriverName, conf.DSN)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		if err := DB.PingContext(cmd.Context()); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		if !cmd.Flags().Changed("schema") {
			SchemaName = conf.Schema
		}
		if SchemaName == "" && DriverName == "mysql" {
			if err := DB.QueryRowContext(cmd.Context(), "SELECT DATABASE()").Scan(&SchemaName); err != nil {
				return fmt.Errorf("failed to get database name: %w", err)
			}
			if SchemaName == "" {
				return fmt.Errorf("no database selected in DSN")
			}
		}
		fmt.Printf("Connected to %s (%s)\n", conf.Name, DriverName)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if DB != nil {
			return DB.Close()
		}
		return nil
	},
}

// detectDriver guesses the driver from the shape of a DSN.
func detectDriver(connStr string) string {
	switch {
	case strings.HasPrefix(connStr, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(connStr, "oracle://"):
		return "oracle"
	case strings.HasPrefix(connStr, "file:"), strings.HasSuffix(connStr, ".db"), strings.HasSuffix(connStr, ".sqlite"), connStr == ":memory:":
		return "sqlite3"
	case strings.Contains(connStr, "postgres"), strings.Contains(connStr, "sslmode"):
		return "postgres"
	default:
		return "mysql"
	}
}

// newStore returns the remote store of the connected database.
func newStore() *engine.SQLStore {
	return engine.NewSQLStore(DB, dialect.GetDialect(DriverName), SchemaName)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-reshape.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Database driver (detected from the DSN when empty)")
	RootCmd.PersistentFlags().StringVar(&SchemaName, "schema", "", "Schema to inspect and migrate")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("database.schema", RootCmd.PersistentFlags().Lookup("schema"))

	// Set default for Viper (fallback if no config/flag)
	viper.SetDefault("database.dsn", "root:root@tcp(127.0.0.1:3306)/sakila?parseTime=true")
	viper.SetDefault("settings.confirm", true)
	viper.SetDefault("settings.progress", true)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-reshape")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
