package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/braunma/cabletrace/internal/constants"
	"github.com/braunma/cabletrace/pkg/cabling"
	"github.com/braunma/cabletrace/pkg/loader"
	"github.com/braunma/cabletrace/pkg/models"
	"github.com/braunma/cabletrace/pkg/store"
	"github.com/braunma/cabletrace/pkg/trace"
	"github.com/braunma/cabletrace/pkg/utils"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cabletrace",
	Short: "Cable plant tracker",
	Long:  `Tracks physical cabling between devices and resolves end-to-end paths through patch panels and circuits`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default: .cabletrace.yaml)")
	rootCmd.PersistentFlags().String("db", "cabletrace.db", "Path to the SQLite database")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Simulate changes without applying them")

	// Bind flags to viper
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))

	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newConnectCmd())
	rootCmd.AddCommand(newDisconnectCmd())
	rootCmd.AddCommand(newTraceCmd())
	rootCmd.AddCommand(newStatusCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".cabletrace")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("CABLETRACE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; flags and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
			os.Exit(1)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore() (*store.Store, *utils.Logger, error) {
	logger := utils.NewLogger(viper.GetBool("dry_run"))
	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		logger.Error("Failed to open database", err)
		return nil, nil, err
	}
	return st, logger, nil
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply YAML inventory to the database",
		RunE:  runApply,
	}
	cmd.Flags().String("data-dir", ".", "Base directory for definitions and inventory (e.g., 'example' for test data)")
	_ = viper.BindPFlag("data_dir", cmd.Flags().Lookup("data-dir"))
	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	st, logger, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	dataDir, err := resolveDataDir(viper.GetString("data_dir"), logger)
	if err != nil {
		logger.Error("Failed to resolve data directory", err)
		return err
	}

	dataLoader := loader.NewDataLoader(dataDir, logger)
	sites, err := dataLoader.LoadSites(constants.DirSites)
	if err != nil {
		logger.Error("Failed to load sites", err)
		return err
	}
	devices, err := dataLoader.LoadDevices(constants.DirDevices)
	if err != nil {
		logger.Error("Failed to load devices", err)
		return err
	}
	logger.Info("Loaded %d sites and %d devices from inventory", len(sites), len(devices))

	service := cabling.NewService(st, logger)
	if err := loader.NewSeeder(st, service, logger).Apply(sites, devices); err != nil {
		logger.Error("Failed to apply inventory", err)
		return err
	}

	if logger.IsDryRun() {
		logger.Warning("DRY RUN COMPLETE: No changes applied")
	} else {
		logger.Success("APPLY COMPLETE: Inventory applied successfully")
	}
	return nil
}

func newConnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect <device/port> <device/port>",
		Short: "Create a cable between two terminations",
		Args:  cobra.ExactArgs(2),
		RunE:  runConnect,
	}
	cmd.Flags().String("kind-a", "interface", "Termination kind of the first end")
	cmd.Flags().String("kind-b", "interface", "Termination kind of the second end")
	cmd.Flags().String("status", "", "Cable status (connected, planned, decommissioned)")
	cmd.Flags().String("type", "", "Cable type (e.g. cat6a, om4)")
	cmd.Flags().String("label", "", "Cable label")
	cmd.Flags().String("color", "", "Cable color (hex)")
	cmd.Flags().Float64("length", 0, "Cable length")
	cmd.Flags().String("length-unit", "", "Cable length unit (e.g. m, ft)")
	return cmd
}

func runConnect(cmd *cobra.Command, args []string) error {
	st, logger, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	kindA, _ := cmd.Flags().GetString("kind-a")
	kindB, _ := cmd.Flags().GetString("kind-b")
	aRef, err := resolveRef(st, kindA, args[0])
	if err != nil {
		logger.Error("Failed to resolve first endpoint", err)
		return err
	}
	bRef, err := resolveRef(st, kindB, args[1])
	if err != nil {
		logger.Error("Failed to resolve second endpoint", err)
		return err
	}

	req := cabling.ConnectRequest{A: aRef, B: bRef}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		req.Status, err = models.ParseCableStatus(status)
		if err != nil {
			logger.Error("Invalid status", err)
			return err
		}
	}
	req.Type, _ = cmd.Flags().GetString("type")
	req.Label, _ = cmd.Flags().GetString("label")
	req.Color, _ = cmd.Flags().GetString("color")
	req.LengthUnit, _ = cmd.Flags().GetString("length-unit")
	if length, _ := cmd.Flags().GetFloat64("length"); length > 0 {
		req.Length = &length
	}

	if logger.IsDryRun() {
		logger.DryRun("CREATE", "Cable: %s <-> %s", args[0], args[1])
		return nil
	}

	if _, err := cabling.NewService(st, logger).Connect(req); err != nil {
		logger.Error("Failed to create cable", err)
		return err
	}
	return nil
}

func newDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <cable-id>",
		Short: "Delete a cable and clear the paths it carried",
		Args:  cobra.ExactArgs(1),
		RunE:  runDisconnect,
	}
}

func runDisconnect(cmd *cobra.Command, args []string) error {
	st, logger, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		logger.Error("Invalid cable ID", err)
		return err
	}

	if logger.IsDryRun() {
		logger.DryRun("DELETE", "Cable #%d", id)
		return nil
	}

	if err := cabling.NewService(st, logger).Disconnect(id); err != nil {
		logger.Error("Failed to delete cable", err)
		return err
	}
	return nil
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <device/port>",
		Short: "Walk the cable path from a termination",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	cmd.Flags().String("kind", "interface", "Termination kind of the starting port")
	cmd.Flags().Bool("follow-circuits", false, "Continue the walk across provider circuits")
	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	st, logger, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	kind, _ := cmd.Flags().GetString("kind")
	ref, err := resolveRef(st, kind, args[0])
	if err != nil {
		logger.Error("Failed to resolve endpoint", err)
		return err
	}

	followCircuits, _ := cmd.Flags().GetBool("follow-circuits")
	path, err := cabling.NewService(st, logger).Trace(ref, followCircuits)
	if err != nil {
		logger.Error("Failed to trace path", err)
		return err
	}

	if err := printPath(st, logger, path); err != nil {
		return err
	}
	return nil
}

func printPath(st *store.Store, logger *utils.Logger, path *trace.Path) error {
	return st.View(func(tx *store.Tx) error {
		for _, hop := range path.Hops {
			label, err := describeTermination(tx, hop.Termination)
			if err != nil {
				return err
			}
			if hop.Cable != nil {
				logger.Info("%s --[cable %s, %s]-->", label, hop.Cable, hop.Cable.Status)
			} else {
				logger.Info("%s", label)
			}
		}
		switch {
		case path.Cycle:
			logger.Warning("Path loops back on itself")
		case path.HopLimitExceeded:
			logger.Warning("Path exceeds %d hops, trace aborted", constants.MaxTraceHops)
		case path.Complete():
			endpoint, err := describeTermination(tx, path.Endpoint)
			if err != nil {
				return err
			}
			logger.Success("Path complete (%s): far end is %s", path.Status, endpoint)
		default:
			logger.Info("Path is open")
		}
		return nil
	})
}

func describeTermination(tx *store.Tx, term models.Termination) (string, error) {
	label := models.Describe(term)
	deviceID := terminationDeviceID(term)
	if deviceID == 0 {
		return label, nil
	}
	device, err := tx.DeviceByID(deviceID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %s", device.Name, label), nil
}

func terminationDeviceID(term models.Termination) int64 {
	switch v := term.(type) {
	case *models.ConsolePort:
		return v.DeviceID
	case *models.ConsoleServerPort:
		return v.DeviceID
	case *models.PowerPort:
		return v.DeviceID
	case *models.PowerOutlet:
		return v.DeviceID
	case *models.Interface:
		return v.DeviceID
	case *models.FrontPort:
		return v.DeviceID
	case *models.RearPort:
		return v.DeviceID
	}
	return 0
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <device/port>",
		Short: "Show the cached far-end endpoint of a port",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatus,
	}
	cmd.Flags().String("kind", "interface", "Termination kind of the port")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, logger, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	kind, _ := cmd.Flags().GetString("kind")
	ref, err := resolveRef(st, kind, args[0])
	if err != nil {
		logger.Error("Failed to resolve endpoint", err)
		return err
	}

	endpoint, status, err := cabling.NewService(st, logger).Endpoint(ref)
	if err != nil {
		logger.Error("Failed to read endpoint cache", err)
		return err
	}
	if endpoint == nil {
		logger.Info("%s: no complete path", args[0])
		return nil
	}

	return st.View(func(tx *store.Tx) error {
		far, err := tx.Termination(*endpoint)
		if err != nil {
			return err
		}
		label, err := describeTermination(tx, far)
		if err != nil {
			return err
		}
		logger.Success("%s: %s to %s", args[0], *status, label)
		return nil
	})
}

// resolveRef turns a "device/port" argument into a termination
// reference.
func resolveRef(st *store.Store, kindStr, arg string) (models.TerminationRef, error) {
	kind, err := models.ParseKind(kindStr)
	if err != nil {
		return models.TerminationRef{}, err
	}
	parts := strings.SplitN(arg, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return models.TerminationRef{}, fmt.Errorf("endpoint %q must be device/port", arg)
	}

	var ref models.TerminationRef
	err = st.View(func(tx *store.Tx) error {
		device, err := tx.DeviceByName(parts[0])
		if err != nil {
			return err
		}
		term, err := tx.TerminationByName(kind, device.ID, parts[1])
		if err != nil {
			return err
		}
		ref = term.Ref()
		return nil
	})
	if err != nil {
		return models.TerminationRef{}, err
	}
	return ref, nil
}

// resolveDataDir determines the correct data directory to use,
// falling back to example/ when the given directory has no inventory.
func resolveDataDir(dir string, logger *utils.Logger) (string, error) {
	definitionsPath := fmt.Sprintf("%s/definitions", dir)
	if _, err := os.Stat(definitionsPath); err == nil {
		logger.Info("Using data directory: %s", dir)
		return dir, nil
	}

	examplePath := "example"
	exampleDefinitionsPath := fmt.Sprintf("%s/definitions", examplePath)
	if _, err := os.Stat(exampleDefinitionsPath); err == nil {
		logger.Warning("definitions/ not found in '%s', falling back to '%s'", dir, examplePath)
		return examplePath, nil
	}

	return "", fmt.Errorf("no valid data directory found: checked '%s' and '%s'", dir, examplePath)
}
