// Command espclient-cli is a thin demo consumer of the espclient
// library: it connects to one device, lists its entities, then prints
// every state/event update until interrupted.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	espclient "github.com/esphome-go/client"
	"github.com/esphome-go/client/logging"
)

var rootCmd = &cobra.Command{
	Use:   "espclient-cli",
	Short: "Connect to an ESPHome native API device and print its entities and state",
	RunE:  run,
}

var (
	flagAddress string
	flagPort    int
	flagPSK     string
	flagPassword string
	flagVerbose bool
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagAddress, "address", "", "device hostname or IP (required)")
	flags.IntVar(&flagPort, "port", 6053, "device API port")
	flags.StringVar(&flagPSK, "psk", "", "base64-encoded 32-byte Noise pre-shared key; omit for plaintext devices")
	flags.StringVar(&flagPassword, "password", "", "legacy API password, if configured on the device")
	flags.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	_ = rootCmd.MarkFlagRequired("address")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute root command")
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	logger := logging.NewZerolog(zl)

	cfg := espclient.Config{
		Address:  flagAddress,
		Port:     flagPort,
		Password: flagPassword,
		Logger:   logger,
		OnState: func(ev espclient.Event) {
			fmt.Printf("%s: %+v\n", ev.Descriptor.ID(), ev.State)
		},
		OnDisconnect: func(err error) {
			if err != nil {
				log.Warn().Err(err).Msg("disconnected")
			}
		},
	}
	if flagPSK != "" {
		raw, err := base64.StdEncoding.DecodeString(flagPSK)
		if err != nil {
			return fmt.Errorf("decoding --psk: %w", err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("--psk must decode to 32 bytes, got %d", len(raw))
		}
		copy(cfg.PSK[:], raw)
		cfg.UsePSK = true
	}

	client, err := espclient.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Info().Msg("shutting down")
		_ = client.Close()
		cancel()
	}()

	connectCtx, connectCancel := context.WithTimeout(ctx, 30*time.Second)
	defer connectCancel()
	if err := client.Connect(connectCtx); err != nil {
		return err
	}

	info := client.DeviceInfo()
	log.Info().Str("name", info.Name).Str("model", info.Model).Str("esphome_version", info.ESPHomeVersion).Msg("connected")
	for _, d := range client.Registry().All() {
		fmt.Printf("entity %s (key=%d name=%q)\n", d.ID(), d.Key, d.Name)
	}

	<-ctx.Done()
	return nil
}
