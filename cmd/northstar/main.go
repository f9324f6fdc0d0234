package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/northstar/internal/profile"
	"github.com/hrygo/northstar/internal/version"
	"github.com/hrygo/northstar/plugin/ai"
	"github.com/hrygo/northstar/server"
	"github.com/hrygo/northstar/store"
	"github.com/hrygo/northstar/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "northstar",
	Short: "Persona coaching assistant that routes each message to the right coaching agent.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		instanceProfile := loadProfile()
		if err := instanceProfile.Validate(); err != nil {
			return err
		}
		setupLogger(instanceProfile)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", slog.String("error", err.Error()))
			return err
		}
		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate", slog.String("error", err.Error()))
			return err
		}

		llm, err := newLLMService(instanceProfile)
		if err != nil {
			return err
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, llm)
		if err != nil {
			slog.Error("failed to create server", slog.String("error", err.Error()))
			return err
		}
		printGreetings(instanceProfile)
		return s.Run(ctx)
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite or postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")

	for _, key := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("northstar")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	rootCmd.AddCommand(newClassifyCommand(), versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(version.GetCurrentVersion(viper.GetString("mode")))
	},
}

func loadProfile() *profile.Profile {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version.GetCurrentVersion(viper.GetString("mode")),
	}
	p.FromEnv()
	return p
}

func setupLogger(p *profile.Profile) {
	var handler slog.Handler
	if p.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

// newLLMService builds the generative backend from the profile. Without a configured
// provider the server still starts and conversation requests fail with LLM_UNAVAILABLE.
func newLLMService(p *profile.Profile) (ai.LLMService, error) {
	if !p.IsAIEnabled() {
		slog.Warn("AI is not enabled, conversation processing will be unavailable",
			slog.String("provider", p.AILLMProvider))
		return ai.NewDisabledLLMService(), nil
	}
	cfg := ai.NewConfigFromProfile(p)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return ai.NewLLMService(&cfg.LLM)
}

func printGreetings(p *profile.Profile) {
	if p.IsDev() {
		println("Development mode is enabled")
		println("DSN: ", p.DSN)
	}
	fmt.Printf(`---
Server profile
version: %s
data: %s
addr: %s
port: %d
mode: %s
driver: %s
ai: %t
---
`, p.Version, p.Data, p.Addr, p.Port, p.Mode, p.Driver, p.IsAIEnabled())
}

func main() {
	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", slog.String("error", err.Error()))
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
