// Command comfoconnect-discover is a small demo binary for gocomfoconnect:
// it finds bridges on the LAN and, given one, streams its sensor and alarm
// notifications to the terminal.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	comfoconnect "github.com/sfo2001/gocomfoconnect"
	"github.com/sfo2001/gocomfoconnect/discovery"
	"github.com/sfo2001/gocomfoconnect/logger"
	"github.com/sfo2001/gocomfoconnect/sensors"
)

var (
	discoverTarget  string
	discoverTimeout time.Duration

	monitorHost   string
	monitorUUID   string
	monitorPin    uint32
	monitorHold   time.Duration
	monitorLogLvl string
)

var rootCmd = &cobra.Command{
	Use:   "comfoconnect-discover",
	Short: "Discover and monitor Zehnder ComfoConnect LAN C bridges",
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find bridges on the local network",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), discoverTimeout+2*time.Second)
		defer cancel()

		var opts []discovery.Option
		opts = append(opts, discovery.WithTimeout(discoverTimeout))
		if discoverTarget != "" {
			opts = append(opts, discovery.WithTarget(discoverTarget))
		}

		bridges, err := discovery.Discover(ctx, opts...)
		if err != nil {
			red := color.New(color.FgRed, color.Bold)
			red.Fprintln(os.Stderr, "discovery failed:", err)
			return err
		}

		green := color.New(color.FgGreen, color.Bold)
		for _, b := range bridges {
			green.Printf("%s", b.Host)
			fmt.Printf("  uuid=%x\n", b.UUID)
		}
		return nil
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Connect to a bridge and print its sensor/alarm stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		bridgeUUID, err := parseUUID(monitorUUID)
		if err != nil {
			return fmt.Errorf("--uuid: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cyan := color.New(color.FgCyan)
		yellow := color.New(color.FgYellow)

		client, err := comfoconnect.Connect(ctx, monitorHost, bridgeUUID,
			comfoconnect.WithLogger(logger.NewLogger("monitor")),
			comfoconnect.WithPIN(monitorPin),
			comfoconnect.WithHoldWindow(monitorHold),
			comfoconnect.WithSensorCallback(func(spec sensors.Sensor, value any) {
				cyan.Printf("%s = %v\n", spec, value)
			}),
			comfoconnect.WithAlarmCallback(func(nodeID uint32, errs map[int]string) {
				for bit, msg := range errs {
					yellow.Printf("node %d alarm bit %d: %s\n", nodeID, bit, msg)
				}
			}),
		)
		if err != nil {
			red := color.New(color.FgRed, color.Bold)
			red.Fprintln(os.Stderr, "connect failed:", err)
			return err
		}
		defer client.Disconnect()

		for pdid, spec := range defaultMonitorSensors() {
			if err := client.RegisterSensor(ctx, spec); err != nil {
				yellow.Printf("register sensor %d: %v\n", pdid, err)
			}
		}

		<-ctx.Done()
		return nil
	},
}

// defaultMonitorSensors is the handful of sensors the demo subscribes to
// out of the box; a real application would let the caller pick.
func defaultMonitorSensors() map[uint32]sensors.Sensor {
	out := make(map[uint32]sensors.Sensor)
	for _, id := range []uint32{sensors.SensorDeviceState, sensors.SensorFanExhaustDuty, sensors.SensorPowerUsage, sensors.SensorAirflowConstrain} {
		out[id] = sensors.Catalogue[id]
	}
	return out
}

func parseUUID(s string) ([16]byte, error) {
	var out [16]byte
	if len(s) != 32 {
		return out, fmt.Errorf("expected a 32-character hex uuid, got %d characters", len(s))
	}
	parsed, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	copy(out[:], parsed)
	return out, nil
}

func init() {
	discoverCmd.Flags().StringVar(&discoverTarget, "target", "", "probe a single host instead of broadcasting")
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", discovery.DefaultTimeout, "how long to wait for replies")

	monitorCmd.Flags().StringVar(&monitorHost, "host", "", "bridge host or IP (required)")
	monitorCmd.Flags().StringVar(&monitorUUID, "uuid", "", "bridge uuid, 32 hex characters (required)")
	monitorCmd.Flags().Uint32Var(&monitorPin, "pin", 0, "registration pin")
	monitorCmd.Flags().DurationVar(&monitorHold, "hold", 2*time.Second, "sensor-hold window after (re)connect")
	monitorCmd.MarkFlagRequired("host")
	monitorCmd.MarkFlagRequired("uuid")

	rootCmd.AddCommand(discoverCmd, monitorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
