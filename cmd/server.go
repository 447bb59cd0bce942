package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/niktheblak/ruuvitag-common/pkg/sensor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niktheblak/web-common/pkg/auth"

	"github.com/niktheblak/ruuvitag-decoder/internal/server"
	"github.com/niktheblak/ruuvitag-decoder/internal/service"
)

var DefaultColumns = sensor.DefaultColumnMap

var serverCmd = &cobra.Command{
	Use:          "server",
	Short:        "Start decoder API server",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			accessToken = viper.GetStringSlice("server.token")
			port        = viper.GetInt("server.port")
			columns     = viper.GetStringMapString("columns")
			names       = viper.GetStringMapString("names")
		)
		if len(columns) == 0 {
			columns = DefaultColumns
		}
		logger.LogAttrs(
			cmd.Context(),
			slog.LevelInfo,
			"Configuring decoder",
			slog.Int("names", len(names)),
			slog.Any("columns", columns),
		)
		svc, err := service.New(service.Config{
			Names:   names,
			Columns: columns,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		var authenticator auth.Authenticator
		if len(accessToken) > 0 {
			logger.Info("Using authentication", "tokens", len(accessToken))
			authenticator = auth.Static(accessToken...)
		} else {
			logger.Info("Not using authentication")
			authenticator = auth.AlwaysAllow()
		}
		httpServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           server.New(svc, authenticator, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		go func() {
			logger.LogAttrs(ctx, slog.LevelInfo, "Starting server", slog.Int("port", port))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "err", err)
				cancel()
			}
		}()
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ctx.Done()
			logger.Info("Shutting down service")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down HTTP server", "err", err)
			}
			if err := svc.Close(); err != nil {
				logger.Error("Failed to shut down service", "err", err)
			}
		}()
		wg.Wait()
		return nil
	},
}

func init() {
	serverCmd.Flags().Int("server.port", 0, "Server port")
	serverCmd.Flags().StringSlice("server.token", nil, "Allowed API access tokens")

	cobra.CheckErr(viper.BindPFlags(serverCmd.Flags()))

	viper.SetDefault("server.port", 8080)

	rootCmd.AddCommand(serverCmd)
}
