package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"guardians/internal/app"
	"guardians/internal/config"
	"guardians/internal/server"
	guardianssdk "guardians/sdk/go"
)

var rootCmd = &cobra.Command{
	Use:   "gq",
	Short: "Guardians of the Quality CLI",
	Long: `gq serves and drives the Guardians of the Quality API.
Guilds of guardians fight bosses (defects) in battles, armed with arsenals of
weapons (tests). Campaigns run on a cron schedule, wounds track harm taken,
oracles scan targets, relics keep battle artifacts and alliances group guilds.

Run 'gq serve' to start the API, then use the other commands against --api.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("GUARDIANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("api", guardianssdk.DefaultBaseURL, "API base URL for client commands")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(patchCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(actCmd())
	rootCmd.AddCommand(chronicleCmd())
}

func serveCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(configPath)
			if err != nil {
				return err
			}
			if addr := viper.GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if basePath := viper.GetString("base-path"); basePath != "" {
				cfg.Server.BasePath = basePath
			}
			if level := viper.GetString("log-level"); level != "" {
				cfg.Log.Level = level
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := app.NewLogger(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Sync()

			rt, err := app.Bootstrap(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()
			handler, err := server.New(server.Config{Engine: rt.Engine, BasePath: cfg.Server.BasePath, Logger: logger})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			logger.Info("serving Guardians API",
				zap.String("url", "http://"+cfg.Server.Addr+cfg.Server.BasePath),
				zap.String("docs", "/docs"),
				zap.String("metrics", "/metrics"))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.Path("."), "config file (defaults apply when missing)")
	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().String("base-path", "", "API base path (overrides server.base_path)")
	cmd.Flags().String("log-level", "", "log level (overrides log.level)")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("base-path", cmd.Flags().Lookup("base-path"))
	_ = viper.BindPFlag("log-level", cmd.Flags().Lookup("log-level"))
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Inspect configuration"}
	cfg.AddCommand(&cobra.Command{
		Use:   "default",
		Short: "Print the default guardians.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(config.GenerateDefault())
			return nil
		},
	})
	var path string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(path); err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{"valid": true, "path": path})
			}
			fmt.Printf("%s is valid\n", path)
			return nil
		},
	}
	validate.Flags().StringVar(&path, "file", config.Path("."), "config file")
	cfg.AddCommand(validate)
	return cfg
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
