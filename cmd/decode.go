package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niktheblak/ruuvitag-decoder/internal/service"
)

var errDecodeFailed = errors.New("some inputs could not be decoded")

var decodeCmd = &cobra.Command{
	Use:   "decode [hex...]",
	Short: "Decode advertisements or payloads given as hex",
	Long: `Decode advertisements or payloads given as hex arguments, or one per line
from standard input when no arguments are given. Each result is written as a
JSON line.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := service.New(service.Config{
			Names:   viper.GetStringMapString("names"),
			Columns: viper.GetStringMapString("columns"),
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		defer svc.Close()
		inputs := args
		if len(inputs) == 0 {
			inputs, err = readLines(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}
		return decodeAll(cmd, svc, inputs, viper.GetBool("decode.fields"))
	},
}

func decodeAll(cmd *cobra.Command, svc service.Service, inputs []string, fields bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	failed := 0
	for _, in := range inputs {
		r, err := svc.Decode(cmd.Context(), in)
		if err != nil {
			failed++
			logger.LogAttrs(cmd.Context(), slog.LevelError, "Failed to decode", slog.String("input", in), slog.Any("error", err))
			continue
		}
		var v any = r
		if fields {
			v = r.Fields()
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errDecodeFailed, failed, len(inputs))
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func init() {
	decodeCmd.Flags().Bool("fields", false, "output the RuuviTag field model instead of the decoded record")

	cobra.CheckErr(viper.BindPFlag("decode.fields", decodeCmd.Flags().Lookup("fields")))

	rootCmd.AddCommand(decodeCmd)
}
